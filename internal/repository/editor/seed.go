package editor

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/debemdeboas/the-showcase/internal/model"
)

// DefaultSeed is the page a fresh process starts with.
func DefaultSeed() []model.Content {
	return []model.Content{
		model.Hero{
			Title:    "Welcome to Your Brand",
			Subtitle: "Crafting exceptional experiences that matter",
		},
		model.Text{
			Content: "We believe in the power of simplicity and elegance. Our approach combines thoughtful design with strategic thinking to create solutions that resonate with your audience and drive meaningful results.",
		},
		model.Image{
			Caption: "Your vision, our expertise",
		},
		model.Text{
			Content: "From concept to execution, we partner with forward-thinking brands to build digital experiences that stand out in today's crowded marketplace.",
		},
	}
}

type seedFile struct {
	Blocks []seedBlock `toml:"blocks"`
}

// Omitted fields keep the variant's default.
type seedBlock struct {
	Type     string  `toml:"type"`
	Title    *string `toml:"title"`
	Subtitle *string `toml:"subtitle"`
	Image    *string `toml:"image"`
	Content  *string `toml:"content"`
	URL      *string `toml:"url"`
	Caption  *string `toml:"caption"`
	Text     *string `toml:"text"`
}

func (sb seedBlock) patch() model.Patch {
	p := model.Patch{}
	for f, v := range map[model.Field]*string{
		model.FieldTitle:    sb.Title,
		model.FieldSubtitle: sb.Subtitle,
		model.FieldImage:    sb.Image,
		model.FieldContent:  sb.Content,
		model.FieldURL:      sb.URL,
		model.FieldCaption:  sb.Caption,
		model.FieldText:     sb.Text,
	} {
		if v != nil {
			p[f] = *v
		}
	}
	return p
}

// LoadSeed reads a TOML file of [[blocks]] tables. An empty path yields DefaultSeed.
func LoadSeed(path string) ([]model.Content, error) {
	if path == "" {
		return DefaultSeed(), nil
	}

	var sf seedFile
	if _, err := toml.DecodeFile(path, &sf); err != nil {
		return nil, fmt.Errorf("error decoding seed file %s: %w", path, err)
	}
	return sf.contents()
}

// ParseSeed is LoadSeed for in-memory TOML.
func ParseSeed(data string) ([]model.Content, error) {
	var sf seedFile
	if _, err := toml.Decode(data, &sf); err != nil {
		return nil, fmt.Errorf("error decoding seed: %w", err)
	}
	return sf.contents()
}

func (sf seedFile) contents() ([]model.Content, error) {
	out := make([]model.Content, 0, len(sf.Blocks))
	for i, sb := range sf.Blocks {
		v, err := model.ParseVariant(sb.Type)
		if err != nil {
			return nil, fmt.Errorf("seed block %d: %w", i, err)
		}
		c, err := model.DefaultContent(v)
		if err != nil {
			return nil, fmt.Errorf("seed block %d: %w", i, err)
		}
		c, err = model.Apply(c, sb.patch())
		if err != nil {
			return nil, fmt.Errorf("seed block %d: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}
