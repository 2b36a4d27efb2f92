package services

import (
	"gorm.io/gorm"

	"proof/internal/config"
	"proof/internal/events"
	"proof/internal/ollama"
	"proof/internal/repositories"
)

var (
	_ Runtime               = (*ollama.Supervisor)(nil)
	_ ModelRegistry         = (*ollama.Client)(nil)
	_ TextGenerator         = (*ollama.Client)(nil)
	_ ollama.StreamListener = (*events.StreamRelay)(nil)
)

// Services aggregates the backend services bound behind the App.
type Services struct {
	Ollama     OllamaService
	Models     ModelService
	Generation GenerationService
	Settings   SettingsService
	Sessions   SessionService
}

// NewServices constructs the service container. db backs the generation
// history; the other stores live as files under cfg.DataDir.
func NewServices(cfg config.Config, db *gorm.DB) *Services {
	client := ollama.NewClient(cfg.OllamaURL, ollama.WithHealthTimeout(cfg.HealthTimeout))
	supervisor := ollama.NewSupervisor(client, ollama.SupervisorConfig{
		Command:      cfg.OllamaCommand,
		PollInterval: cfg.PollInterval,
		PollAttempts: cfg.PollAttempts,
	})

	settingsRepo := repositories.NewSettingsRepository(cfg.SettingsPath())
	sessionRepo := repositories.NewSessionRepository(cfg.SessionsDir())
	var runRepo repositories.GenerationRunRepository
	if db != nil {
		runRepo = repositories.NewGenerationRunRepository(db)
	}

	return &Services{
		Ollama:     NewOllamaService(supervisor, client.BaseURL()),
		Models:     NewModelService(supervisor, client),
		Generation: NewGenerationService(supervisor, client, settingsRepo, runRepo),
		Settings:   NewSettingsService(settingsRepo),
		Sessions:   NewSessionService(sessionRepo),
	}
}
