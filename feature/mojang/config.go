package mojang

// Config holds configuration for the profile lookup API.
type Config struct {
	// BaseURL is the profile endpoint; the handle is appended as a path segment.
	BaseURL string `mapstructure:"base_url" default:"https://api.mojang.com/users/profiles/minecraft"`
	// TimeoutSeconds bounds a single lookup.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
}
