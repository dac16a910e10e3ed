package config

const (
	//? These paths must match the paths in the embed directive

	StaticLocalDir = "static"
	StaticUrlPath  = "/" + StaticLocalDir + "/"

	UploadsUrlPath = "/uploads/"

	TemplatesLocalDir = "templates"

	TemplateLayout = "layout.html"
	TemplatePage   = "page.html"
	TemplateBlocks = "blocks.html"
	TemplateForms  = "forms.html"
	TemplateToast  = "toast.html"
	TemplateAuth   = "ed25519_auth.html"

	TemplateNameLayout     = "layout"
	TemplateNameMain       = "main"
	TemplateNameBlocks     = "blocks"
	TemplateNameContact    = "contact-form"
	TemplateNameNewsletter = "newsletter-form"
	TemplateNameToast      = "toast"
	TemplateNameAuth       = "auth"
)
