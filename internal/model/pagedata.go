package model

import (
	"html/template"
	"net/http"

	"github.com/debemdeboas/the-showcase/internal/config"
	"github.com/debemdeboas/the-showcase/internal/theme"
)

type PageData struct {
	SiteName    string
	SiteTagline string
	Copyright   string

	PageURL string

	Theme               string
	AllowThemeSwitching bool

	SyntaxCSS   template.CSS
	SyntaxTheme string

	// Read by static/js/site.js.
	ScrollOffset    int
	ToastDurationMs int64

	AuthEnabled   bool
	Authenticated bool
}

func NewPageData(r *http.Request) *PageData {
	syntaxTheme := theme.GetSyntaxThemeFromRequest(r)
	return &PageData{
		SiteName:            config.AppConfig.Site.Name,
		SiteTagline:         config.AppConfig.Site.Tagline,
		Copyright:           config.AppConfig.Site.Copyright,
		PageURL:             r.URL.Path,
		Theme:               theme.GetThemeFromRequest(r),
		AllowThemeSwitching: config.AppConfig.Theme.AllowSwitching,
		SyntaxTheme:         syntaxTheme,
		SyntaxCSS:           theme.GenerateSyntaxCSS(syntaxTheme),
		ScrollOffset:        config.AppConfig.Page.ScrollOffset,
		ToastDurationMs:     config.AppConfig.Notifications.Duration.Milliseconds(),
		AuthEnabled:         config.AppConfig.Features.Authentication.Enabled,
	}
}

// CanEdit reports whether edit affordances may be shown to this request.
func (pd *PageData) CanEdit() bool {
	return !pd.AuthEnabled || pd.Authenticated
}
