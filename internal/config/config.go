package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"proof/internal/ollama"
	"proof/internal/utils"
)

const (
	settingsFile = "settings.json"
	sessionsDir  = "sessions"
	databaseFile = "proof.db"
)

// Config holds the process-wide configuration. Storage locations all derive
// from DataDir so tests can point the whole app at a temporary directory.
type Config struct {
	OllamaURL     string
	OllamaCommand []string
	DataDir       string
	HealthTimeout time.Duration
	PollInterval  time.Duration
	PollAttempts  int
	Debug         bool
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		OllamaURL:     ollama.DefaultBaseURL,
		OllamaCommand: append([]string(nil), ollama.DefaultCommand...),
		DataDir:       DefaultDataDir(),
		HealthTimeout: ollama.DefaultHealthTimeout,
		PollInterval:  ollama.DefaultPollInterval,
		PollAttempts:  ollama.DefaultPollAttempts,
	}
}

// LoadFromEnv overrides fields from PROOF_* environment variables. Values
// that fail to parse are logged and ignored.
//
//   - PROOF_OLLAMA_URL: server base URL
//   - PROOF_OLLAMA_COMMAND: space separated command used to launch the server
//   - PROOF_DATA_DIR: directory holding settings, sessions and the database
//   - PROOF_HEALTH_TIMEOUT, PROOF_POLL_INTERVAL: durations such as "2s"
//   - PROOF_POLL_ATTEMPTS: integer
//   - PROOF_DEBUG: boolean
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("PROOF_OLLAMA_URL"); v != "" {
		c.OllamaURL = v
	}
	if v := os.Getenv("PROOF_OLLAMA_COMMAND"); strings.TrimSpace(v) != "" {
		c.OllamaCommand = strings.Fields(v)
	}
	if v := os.Getenv("PROOF_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("PROOF_HEALTH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.HealthTimeout = d
		} else {
			log.Printf("config: ignoring PROOF_HEALTH_TIMEOUT=%q: %v", v, err)
		}
	}
	if v := os.Getenv("PROOF_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.PollInterval = d
		} else {
			log.Printf("config: ignoring PROOF_POLL_INTERVAL=%q: %v", v, err)
		}
	}
	if v := os.Getenv("PROOF_POLL_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.PollAttempts = n
		} else {
			log.Printf("config: ignoring PROOF_POLL_ATTEMPTS=%q: %v", v, err)
		}
	}
	if v := os.Getenv("PROOF_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Debug = b
		}
	}
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.OllamaURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("ollama url %q is not an absolute URL", c.OllamaURL)
	}
	if len(c.OllamaCommand) == 0 {
		return fmt.Errorf("ollama command is required")
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data dir is required")
	}
	if c.HealthTimeout <= 0 {
		return fmt.Errorf("health timeout must be > 0, got %v", c.HealthTimeout)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be > 0, got %v", c.PollInterval)
	}
	if c.PollAttempts <= 0 {
		return fmt.Errorf("poll attempts must be > 0, got %d", c.PollAttempts)
	}
	return nil
}

func (c Config) SettingsPath() string {
	return filepath.Join(c.DataDir, settingsFile)
}

func (c Config) SessionsDir() string {
	return filepath.Join(c.DataDir, sessionsDir)
}

func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, databaseFile)
}

// EnsureDirs creates the data and sessions directories.
func (c Config) EnsureDirs() error {
	if err := os.MkdirAll(c.SessionsDir(), 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	return nil
}

// Load builds the configuration: a .env file (project root in development,
// then the default data dir) feeds the environment, PROOF_* variables
// override the defaults, and the result is validated and its directories
// created.
func Load() (Config, error) {
	var dirs []string
	if IsDevelopment() {
		if root, err := utils.FindProjectRoot(); err == nil {
			dirs = append(dirs, root)
		}
	}
	dirs = append(dirs, DefaultDataDir())
	if path, err := utils.LoadEnv(dirs...); err != nil && !utils.IsNotExist(err) {
		log.Printf("config: failed to load %s: %v", path, err)
	}

	cfg := Default()
	cfg.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if err := cfg.EnsureDirs(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
