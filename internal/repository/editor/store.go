// Package editor owns the in-memory block list and the editor's UI flags,
// and exposes them over HTTP.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/debemdeboas/the-showcase/internal/cache"
	"github.com/debemdeboas/the-showcase/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var editorLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	editorLogger = l
}

type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

var ErrUnknownDirection = errors.New("unknown move direction")

func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case DirectionUp, DirectionDown:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// Store is the single owner of the page's block sequence, the edit-mode flag
// and the add-menu flag. Every mutation goes through its methods.
type Store struct {
	mu          sync.RWMutex
	blocks      []model.Block
	editing     bool
	addMenuOpen bool
	version     uint64

	newID   func() model.BlockID
	encoder ImageEncoder

	subMu       sync.Mutex
	nextSubID   int
	subscribers map[int]func(version uint64)
}

type Option func(*Store)

// WithEncoder sets how uploaded images become image references.
func WithEncoder(e ImageEncoder) Option {
	return func(s *Store) { s.encoder = e }
}

// WithIDGenerator replaces the uuid v7 block id source.
func WithIDGenerator(f func() model.BlockID) Option {
	return func(s *Store) { s.newID = f }
}

// NewStore builds a store holding seed, in order. Seed blocks without an id get one.
func NewStore(seed []model.Content, opts ...Option) *Store {
	s := &Store{
		newID:       newBlockID,
		encoder:     DataURIEncoder{},
		subscribers: make(map[int]func(uint64)),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.blocks = make([]model.Block, 0, len(seed))
	for _, c := range seed {
		s.blocks = append(s.blocks, model.Block{ID: s.newID(), Content: c})
	}
	return s
}

func newBlockID() model.BlockID {
	id, err := uuid.NewV7()
	if err != nil {
		return model.BlockID(uuid.NewString())
	}
	return model.BlockID(id.String())
}

// indexOf must be called with s.mu held.
func (s *Store) indexOf(id model.BlockID) int {
	return slices.IndexFunc(s.blocks, func(b model.Block) bool { return b.ID == id })
}

// bump must be called with s.mu held for writing.
func (s *Store) bump() uint64 {
	s.version++
	return s.version
}

func (s *Store) notify(version uint64) {
	s.subMu.Lock()
	subs := make([]func(uint64), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(version)
	}
}

// Add appends a block of variant v with its default content and closes the add menu.
func (s *Store) Add(v model.Variant) (model.Block, error) {
	content, err := model.DefaultContent(v)
	if err != nil {
		return model.Block{}, err
	}

	s.mu.Lock()
	b := model.Block{ID: s.newID(), Content: content}
	s.blocks = append(s.blocks, b)
	s.addMenuOpen = false
	version := s.bump()
	s.mu.Unlock()

	editorLogger.Debug().Str("block_id", string(b.ID)).Str("variant", string(v)).Msg("Block added")
	s.notify(version)
	return b, nil
}

// Update merges p into the block with the given id. An unknown id is a no-op,
// and so is a patch that leaves the content as it was.
func (s *Store) Update(id model.BlockID, p model.Patch) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}

	content, err := model.Apply(s.blocks[i].Content, p)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if content == s.blocks[i].Content {
		s.mu.Unlock()
		return nil
	}

	s.blocks[i].Content = content
	version := s.bump()
	s.mu.Unlock()

	s.notify(version)
	return nil
}

// Delete removes the block with the given id. Deleting twice is harmless.
func (s *Store) Delete(id model.BlockID) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.blocks = slices.Delete(s.blocks, i, i+1)
	version := s.bump()
	s.mu.Unlock()

	cache.ForgetRenderedText(string(id))
	editorLogger.Debug().Str("block_id", string(id)).Msg("Block deleted")
	s.notify(version)
}

// Move swaps the block with its neighbour in direction d. Moving the first
// block up or the last block down does nothing.
func (s *Store) Move(id model.BlockID, d Direction) error {
	var step int
	switch d {
	case DirectionUp:
		step = -1
	case DirectionDown:
		step = 1
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDirection, d)
	}

	s.mu.Lock()
	i := s.indexOf(id)
	j := i + step
	if i < 0 || j < 0 || j >= len(s.blocks) {
		s.mu.Unlock()
		return nil
	}
	s.blocks[i], s.blocks[j] = s.blocks[j], s.blocks[i]
	version := s.bump()
	s.mu.Unlock()

	s.notify(version)
	return nil
}

// SetImage encodes the upload read from r and stores it in the block's image
// field. A nil reader or an empty upload means no file was chosen and is ignored.
func (s *Store) SetImage(ctx context.Context, id model.BlockID, r io.Reader, filename string) error {
	if r == nil {
		return nil
	}

	b, ok := s.Get(id)
	if !ok {
		return nil
	}
	field, ok := model.ImageField(b.Variant())
	if !ok {
		return fmt.Errorf("%w: image on %s", model.ErrFieldNotApplicable, b.Variant())
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading upload: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	ref, err := s.encoder.Encode(ctx, data, filename)
	if err != nil {
		return err
	}

	editorLogger.Debug().
		Str("block_id", string(id)).
		Str("filename", filename).
		Int("bytes", len(data)).
		Msg("Image set")
	return s.Update(id, model.Patch{field: string(ref)})
}

// ClearImage drops the block's image reference.
func (s *Store) ClearImage(id model.BlockID) error {
	b, ok := s.Get(id)
	if !ok {
		return nil
	}
	field, ok := model.ImageField(b.Variant())
	if !ok {
		return fmt.Errorf("%w: image on %s", model.ErrFieldNotApplicable, b.Variant())
	}
	return s.Update(id, model.Patch{field: ""})
}

// ToggleEditMode flips between viewing and editing and returns the new mode.
// The add menu is closed on every transition.
func (s *Store) ToggleEditMode() bool {
	s.mu.Lock()
	s.editing = !s.editing
	s.addMenuOpen = false
	editing := s.editing
	version := s.bump()
	s.mu.Unlock()

	editorLogger.Info().Bool("editing", editing).Msg("Edit mode toggled")
	s.notify(version)
	return editing
}

func (s *Store) ToggleAddMenu() bool {
	s.mu.Lock()
	s.addMenuOpen = !s.addMenuOpen
	open := s.addMenuOpen
	version := s.bump()
	s.mu.Unlock()

	s.notify(version)
	return open
}

func (s *Store) CloseAddMenu() {
	s.mu.Lock()
	if !s.addMenuOpen {
		s.mu.Unlock()
		return
	}
	s.addMenuOpen = false
	version := s.bump()
	s.mu.Unlock()

	s.notify(version)
}

// Blocks returns a snapshot of the sequence.
func (s *Store) Blocks() []model.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.blocks)
}

func (s *Store) Get(id model.BlockID) (model.Block, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return model.Block{}, false
	}
	return s.blocks[i], true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blocks)
}

func (s *Store) EditMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.editing
}

func (s *Store) AddMenuOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addMenuOpen
}

// Version increases by one on every change to the blocks or flags.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Subscribe registers fn to be called after every change, outside the store lock.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(version uint64)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subscribers, id)
		s.subMu.Unlock()
	}
}
