package config

const (
	RendererClassic = "classic"
	RendererMmark   = "mmark"
)
