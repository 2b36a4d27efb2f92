//go:build !prod

package config

// DefaultDataDir returns the data directory for development mode.
// In dev mode everything lives next to the working directory for easy access
// and debugging.
func DefaultDataDir() string {
	return ".proof"
}

func IsDevelopment() bool {
	return true
}
