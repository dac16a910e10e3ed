package config

const (
	HCType        = "Content-Type"
	HETag         = "ETag"
	HCacheControl = "Cache-Control"
	HHxRedirect   = "HX-Redirect"
	HHxRequest    = "HX-Request"
	HHxTrigger    = "HX-Trigger"

	CTypeCSS  = "text/css"
	CTypeHTML = "text/html; charset=utf-8"
	CTypeJSON = "application/json"
)

const (
	HTTPErrMethodNotAllowed = "Method not allowed"
)

const (
	CookieTheme       = "theme"
	CookieSyntaxTheme = "syntax-theme"
	CookieAuthToken   = "auth_token"
	CookieClerk       = "__session"
)
