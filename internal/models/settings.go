package models

const (
	DefaultModel         = "llama3.2:1b"
	DefaultTemperature   = 0.7
	DefaultContextLength = 4096
)

// Settings is the single persisted user configuration. It is always saved
// wholesale; there is no partial update.
type Settings struct {
	DefaultModel  string  `json:"default_model"`
	Temperature   float64 `json:"temperature"`
	ContextLength uint32  `json:"context_length"`
	System        string  `json:"system"`
}

// DefaultSettings returns the built-in settings used when no file exists yet.
func DefaultSettings() Settings {
	return Settings{
		DefaultModel:  DefaultModel,
		Temperature:   DefaultTemperature,
		ContextLength: DefaultContextLength,
		System:        "",
	}
}
