// Package routes defines HTTP route constants for the application.
package routes

// Page and assets
const (
	RobotsPath  = "/robots.txt"
	RootPath    = "/"
	ThemeToggle = "/theme/toggle"

	SyntaxThemeSet = "/syntax-theme/set"
	SyntaxThemeGet = "/syntax-theme/{theme}"

	SSEPath = "/sse"
)

// Editor routes. Everything under /blocks/{id} acts on one block.
const (
	EditToggle  = "/edit/toggle"
	BlocksMenu  = "/blocks/menu"
	Blocks      = "/blocks"
	Block       = "/blocks/{id}"
	BlockFields = "/blocks/{id}/fields"
	BlockMove   = "/blocks/{id}/move"
	BlockImage  = "/blocks/{id}/image"

	PartialsBlocks = "/partials/blocks"
)

// Forms
const (
	FormContact    = "/forms/contact"
	FormNewsletter = "/forms/newsletter"
)

// Auth routes
const (
	AuthChallenge = "/auth/challenge"
	AuthVerify    = "/auth/verify"
	AuthLogin     = "/auth/login"
)
