//go:build prod

package config

import (
	"log"
	"os"
	"path/filepath"
)

// DefaultDataDir returns the data directory for production mode.
// In production, settings, sessions and the database are stored in the
// user's config directory.
func DefaultDataDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		log.Printf("Warning: Failed to get user config dir: %v. Using fallback.", err)
		return ".proof"
	}
	return filepath.Join(configDir, "proof")
}

func IsDevelopment() bool {
	return false
}
