// Package view parses the page templates and the helpers they call.
package view

import (
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"

	"github.com/debemdeboas/the-showcase/internal/config"
	"github.com/debemdeboas/the-showcase/internal/model"
	"github.com/debemdeboas/the-showcase/internal/render"
	"github.com/debemdeboas/the-showcase/internal/theme"
)

var variantLabels = map[model.Variant]string{
	model.VariantHero:  "Hero",
	model.VariantText:  "Text",
	model.VariantImage: "Image",
	model.VariantLink:  "Link",
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"markdown":     render.Text,
		"themeIcon":    theme.GetThemeIcon,
		"nextTheme":    theme.NextTheme,
		"syntaxThemes": theme.GetSyntaxThemes,
		"imageSrc":     ImageSrc,
		"variantLabel": VariantLabel,
	}
}

// New parses every template under templates/ in fsys.
func New(fsys fs.FS) (*template.Template, error) {
	tmpl, err := template.New(config.TemplateNameLayout).
		Funcs(Funcs()).
		ParseFS(fsys, path.Join(config.TemplatesLocalDir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("view: parse templates: %w", err)
	}
	return tmpl, nil
}

// ImageSrc marks ref safe for a src attribute. html/template rejects data:
// URIs otherwise. Anything that is not an image data URI, a local path or an
// http(s) URL is dropped.
func ImageSrc(ref model.ImageRef) template.URL {
	s := string(ref)
	switch {
	case strings.HasPrefix(s, "data:image/"),
		strings.HasPrefix(s, "/") && !strings.HasPrefix(s, "//"),
		strings.HasPrefix(s, "https://"),
		strings.HasPrefix(s, "http://"):
		return template.URL(s)
	}
	return ""
}

func VariantLabel(v model.Variant) string {
	if label, ok := variantLabels[v]; ok {
		return label
	}
	return string(v)
}
