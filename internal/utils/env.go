package utils

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// LoadEnv loads the first .env file found in dirs and returns its path.
// Variables already present in the environment are never overridden.
// os.ErrNotExist is returned when no dir holds a .env file.
func LoadEnv(dirs ...string) (string, error) {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		envPath := filepath.Join(dir, ".env")
		if !FileExists(envPath) {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			return envPath, err
		}
		return envPath, nil
	}
	return "", os.ErrNotExist
}

// IsNotExist reports whether err means a file or directory was missing.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
