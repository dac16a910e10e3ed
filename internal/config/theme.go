package config

const (
	LightTheme string = "light"
	DarkTheme  string = "dark"

	LightThemeIcon string = "☀"
	DarkThemeIcon  string = "☾"
)
