// Package model defines the page content types shared by the editor, renderer and handlers.
package model

import (
	"errors"
	"fmt"
	"sort"
)

type BlockID string

// Variant is the closed tag of a block. It never changes after creation.
type Variant string

const (
	VariantHero  Variant = "hero"
	VariantText  Variant = "text"
	VariantImage Variant = "image"
	VariantLink  Variant = "link"
)

// Variants lists every variant in add-menu order.
var Variants = []Variant{VariantText, VariantImage, VariantLink, VariantHero}

var (
	ErrUnknownVariant     = errors.New("unknown block variant")
	ErrUnknownField       = errors.New("unknown block field")
	ErrFieldNotApplicable = errors.New("field does not belong to block variant")
)

func ParseVariant(s string) (Variant, error) {
	switch v := Variant(s); v {
	case VariantHero, VariantText, VariantImage, VariantLink:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

// ImageRef is an embeddable image reference: a data URI or a URL. Empty means no image.
type ImageRef string

func (r ImageRef) IsSet() bool { return r != "" }

// Content is the variant-specific payload of a block. Only the four types
// in this file implement it.
type Content interface {
	Variant() Variant
	sealed()
}

type Hero struct {
	Title    string
	Subtitle string
	Image    ImageRef
}

type Text struct {
	Content string
}

type Image struct {
	URL     ImageRef
	Caption string
}

type Link struct {
	Text string
	URL  string
}

func (Hero) Variant() Variant  { return VariantHero }
func (Text) Variant() Variant  { return VariantText }
func (Image) Variant() Variant { return VariantImage }
func (Link) Variant() Variant  { return VariantLink }

func (Hero) sealed()  {}
func (Text) sealed()  {}
func (Image) sealed() {}
func (Link) sealed()  {}

type Block struct {
	ID      BlockID
	Content Content
}

func (b Block) Variant() Variant {
	return b.Content.Variant()
}

// DefaultContent returns the placeholder content a freshly added block starts with.
func DefaultContent(v Variant) (Content, error) {
	switch v {
	case VariantHero:
		return Hero{Title: "New Headline", Subtitle: "Add a subtitle"}, nil
	case VariantText:
		return Text{Content: "Click to edit this text..."}, nil
	case VariantImage:
		return Image{Caption: "Add a caption"}, nil
	case VariantLink:
		return Link{Text: "Link Text", URL: "https://example.com"}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, v)
}

// Field names an editable block field.
type Field string

const (
	FieldTitle    Field = "title"
	FieldSubtitle Field = "subtitle"
	FieldImage    Field = "image"
	FieldContent  Field = "content"
	FieldURL      Field = "url"
	FieldCaption  Field = "caption"
	FieldText     Field = "text"
)

func ParseField(s string) (Field, error) {
	switch f := Field(s); f {
	case FieldTitle, FieldSubtitle, FieldImage, FieldContent, FieldURL, FieldCaption, FieldText:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// ImageField reports which field holds the image reference for v.
func ImageField(v Variant) (Field, bool) {
	switch v {
	case VariantHero:
		return FieldImage, true
	case VariantImage:
		return FieldURL, true
	}
	return "", false
}

// Patch is a partial field update.
type Patch map[Field]string

// Fields returns the patched field names in a stable order.
func (p Patch) Fields() []Field {
	fields := make([]Field, 0, len(p))
	for f := range p {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
	return fields
}

// Apply merges p into c. Fields that c does not carry make the whole patch
// fail and c is returned unchanged.
func Apply(c Content, p Patch) (Content, error) {
	switch c := c.(type) {
	case Hero:
		for _, f := range p.Fields() {
			switch f {
			case FieldTitle:
				c.Title = p[f]
			case FieldSubtitle:
				c.Subtitle = p[f]
			case FieldImage:
				c.Image = ImageRef(p[f])
			default:
				return nil, notApplicable(f, VariantHero)
			}
		}
		return c, nil
	case Text:
		for _, f := range p.Fields() {
			switch f {
			case FieldContent:
				c.Content = p[f]
			default:
				return nil, notApplicable(f, VariantText)
			}
		}
		return c, nil
	case Image:
		for _, f := range p.Fields() {
			switch f {
			case FieldURL:
				c.URL = ImageRef(p[f])
			case FieldCaption:
				c.Caption = p[f]
			default:
				return nil, notApplicable(f, VariantImage)
			}
		}
		return c, nil
	case Link:
		for _, f := range p.Fields() {
			switch f {
			case FieldText:
				c.Text = p[f]
			case FieldURL:
				c.URL = p[f]
			default:
				return nil, notApplicable(f, VariantLink)
			}
		}
		return c, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnknownVariant, c)
}

func notApplicable(f Field, v Variant) error {
	return fmt.Errorf("%w: %q on %s", ErrFieldNotApplicable, f, v)
}
