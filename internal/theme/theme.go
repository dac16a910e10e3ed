// Package theme resolves the page and code themes for a request and builds
// the chroma stylesheet for code in text blocks.
package theme

import (
	"html/template"
	"net/http"
	"slices"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/debemdeboas/the-showcase/internal/cache"
	"github.com/debemdeboas/the-showcase/internal/config"
)

// GetThemeFromRequest returns the page theme from the theme cookie, or the
// configured default when the cookie is absent or not a known theme.
func GetThemeFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(config.CookieTheme); err == nil {
		switch cookie.Value {
		case config.LightTheme, config.DarkTheme:
			return cookie.Value
		}
	}
	return config.AppConfig.Theme.Default
}

func GetDefaultSyntaxTheme(theme string) string {
	if theme == config.DarkTheme {
		return config.AppConfig.Theme.SyntaxHighlighting.DefaultDark
	}
	return config.AppConfig.Theme.SyntaxHighlighting.DefaultLight
}

func GetSyntaxThemeFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(config.CookieSyntaxTheme); err == nil && IsSyntaxTheme(cookie.Value) {
		return cookie.Value
	}
	return GetDefaultSyntaxTheme(GetThemeFromRequest(r))
}

func IsSyntaxTheme(name string) bool {
	return name != "" && styles.Registry[name] != nil
}

func GetSyntaxThemes() []string {
	styleNames := styles.Names()
	slices.Sort(styleNames)
	return styleNames
}

// NextTheme is the theme the toggle switches to.
func NextTheme(theme string) string {
	if theme == config.DarkTheme {
		return config.LightTheme
	}
	return config.DarkTheme
}

func GetThemeIcon(theme string) string {
	if theme == config.LightTheme {
		return config.DarkThemeIcon
	}
	return config.LightThemeIcon
}

// GetFormatter is the chroma formatter the syntax CSS is generated from.
func GetFormatter() *html.Formatter {
	return html.New(
		html.WithClasses(true),
		html.TabWidth(4),
		html.WrapLongLines(true),
	)
}

// GetInlineFormatter renders code spans inside text blocks as <code class="chroma">.
func GetInlineFormatter() *html.Formatter {
	return html.New(
		html.WithClasses(true),
		html.InlineCode(true),
	)
}

func GenerateSyntaxCSS(theme string) template.CSS {
	if css, ok := cache.GetSyntaxCSS(theme); ok {
		return css
	}

	var buf strings.Builder
	style := styles.Get(theme)

	bg := style.Get(chroma.Background)
	if !bg.Colour.IsSet() {
		// Light backgrounds without a text colour would render unreadable code
		luminance := (0.299*float64(bg.Background.Red()) +
			0.587*float64(bg.Background.Green()) +
			0.114*float64(bg.Background.Blue())) / 255
		if luminance > 0.5 {
			buf.WriteString(".chroma { color: #181818; }\n")
		}
	}

	if err := GetFormatter().WriteCSS(&buf, style); err != nil {
		return ""
	}
	css := template.CSS(buf.String())
	cache.SetSyntaxCSS(theme, css)
	return css
}
