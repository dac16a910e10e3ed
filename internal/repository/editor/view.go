package editor

import (
	"github.com/debemdeboas/the-showcase/internal/model"
)

// BlocksView is what the "blocks" template renders.
type BlocksView struct {
	Blocks      []BlockView
	Editing     bool
	AddMenuOpen bool
	Variants    []model.Variant
	SyntaxTheme string
	Version     uint64
}

// BlockView carries one block with exactly one of the variant pointers set.
type BlockView struct {
	ID          model.BlockID
	Variant     model.Variant
	First       bool
	Last        bool
	Editing     bool
	SyntaxTheme string

	Hero  *model.Hero
	Text  *model.Text
	Image *model.Image
	Link  *model.Link
}

// PageView is the data for the "main" template: page chrome plus the editor.
type PageView struct {
	*model.PageData
	Editor   BlocksView
	LoginURL string
}

// NewBlocksView snapshots the store. editing is the store's edit mode
// narrowed by whether this viewer may edit at all.
func NewBlocksView(s *Store, canEdit bool, syntaxTheme string) BlocksView {
	s.mu.RLock()
	blocks := make([]model.Block, len(s.blocks))
	copy(blocks, s.blocks)
	editing := s.editing && canEdit
	menuOpen := s.addMenuOpen && editing
	version := s.version
	s.mu.RUnlock()

	view := BlocksView{
		Blocks:      make([]BlockView, 0, len(blocks)),
		Editing:     editing,
		AddMenuOpen: menuOpen,
		Variants:    model.Variants,
		SyntaxTheme: syntaxTheme,
		Version:     version,
	}
	for i, b := range blocks {
		view.Blocks = append(view.Blocks, newBlockView(b, i == 0, i == len(blocks)-1, editing, syntaxTheme))
	}
	return view
}

func newBlockView(b model.Block, first, last, editing bool, syntaxTheme string) BlockView {
	v := BlockView{
		ID:          b.ID,
		Variant:     b.Variant(),
		First:       first,
		Last:        last,
		Editing:     editing,
		SyntaxTheme: syntaxTheme,
	}
	switch c := b.Content.(type) {
	case model.Hero:
		v.Hero = &c
	case model.Text:
		v.Text = &c
	case model.Image:
		v.Image = &c
	case model.Link:
		v.Link = &c
	}
	return v
}
