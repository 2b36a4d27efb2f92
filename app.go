package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"proof/internal/events"
	"proof/internal/models"
	"proof/internal/services"
)

const defaultRunsLimit = 100

// App is the command surface bound to the frontend. Errors returned here reach
// the UI as plain rejected-promise messages.
type App struct {
	ctx     context.Context
	svc     *services.Services
	dbClose func() error

	watchMu     sync.Mutex
	watchCancel context.CancelFunc
}

// NewApp creates a new App application struct
func NewApp(svc *services.Services) *App {
	return &App{svc: svc}
}

// startup is called when the app starts. The context is saved
// so we can call the runtime methods
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	a.svc.Ollama.Startup(ctx)

	watchCtx, cancel := context.WithCancel(ctx)
	a.watchMu.Lock()
	a.watchCancel = cancel
	a.watchMu.Unlock()
	if err := a.svc.Settings.Watch(watchCtx, func(s models.Settings) {
		runtime.LogInfo(ctx, "settings changed on disk, notifying frontend")
		events.EmitSettingsChanged(ctx, s)
	}); err != nil {
		runtime.LogWarning(ctx, fmt.Sprintf("settings watcher disabled: %v", err))
	}

	// Best effort: the first command will try again if this fails.
	go func() {
		if err := a.svc.Ollama.Ensure(ctx); err != nil {
			runtime.LogError(ctx, fmt.Sprintf("failed to start ollama: %v", err))
		}
	}()
}

// shutdown is called when the app is closing. Clean up resources here.
// The model server child, if any, is left running.
func (a *App) shutdown(ctx context.Context) {
	a.watchMu.Lock()
	cancel := a.watchCancel
	a.watchCancel = nil
	a.watchMu.Unlock()
	if cancel != nil {
		cancel()
	}

	if a.dbClose != nil {
		if err := a.dbClose(); err != nil {
			runtime.LogError(ctx, fmt.Sprintf("failed to close database: %v", err))
		} else {
			runtime.LogInfo(ctx, "database closed")
		}
		a.dbClose = nil
	}
}

// OllamaHealth reports whether the model server answers. It never fails.
func (a *App) OllamaHealth() bool {
	return a.svc.Ollama.Health(a.ctx)
}

// OllamaEnsure starts the model server if needed and reports the outcome as an
// event as well as a return value.
func (a *App) OllamaEnsure() error {
	err := a.svc.Ollama.Ensure(a.ctx)
	status := a.svc.Ollama.Status(a.ctx)
	events.EmitStatus(a.ctx, events.NewStatus(status.State, status.Running, err))
	if err != nil {
		runtime.LogError(a.ctx, fmt.Sprintf("ensure ollama: %v", err))
	}
	return err
}

func (a *App) OllamaStatus() models.OllamaStatus {
	return a.svc.Ollama.Status(a.ctx)
}

func (a *App) ListModels() ([]models.ModelTag, error) {
	tags, err := a.svc.Models.List(a.ctx)
	if err != nil {
		runtime.LogError(a.ctx, fmt.Sprintf("list models: %v", err))
		return nil, err
	}
	return tags, nil
}

// ListModelCatalog returns the suggested models, flagging those already
// installed when the server is up.
func (a *App) ListModelCatalog() ([]models.CatalogFamily, error) {
	return a.svc.Models.Catalog(a.ctx)
}

// PullModel asks the server to download model without waiting for it.
func (a *App) PullModel(model string) error {
	if err := a.svc.Models.Pull(a.ctx, model); err != nil {
		runtime.LogError(a.ctx, fmt.Sprintf("pull model %s: %v", model, err))
		return err
	}
	runtime.LogInfo(a.ctx, fmt.Sprintf("pull requested: %s", model))
	return nil
}

// PullModelWithProgress downloads model and emits a progress event per status
// update. It returns when the download has finished.
func (a *App) PullModelWithProgress(model string) error {
	if err := a.svc.Models.PullWithProgress(a.ctx, model, events.EmitPullProgress(a.ctx)); err != nil {
		runtime.LogError(a.ctx, fmt.Sprintf("pull model %s: %v", model, err))
		return err
	}
	return nil
}

func (a *App) DeleteModel(model string) error {
	if err := a.svc.Models.Delete(a.ctx, model); err != nil {
		runtime.LogError(a.ctx, fmt.Sprintf("delete model %s: %v", model, err))
		return err
	}
	runtime.LogInfo(a.ctx, fmt.Sprintf("model deleted: %s", model))
	return nil
}

// GenerateText returns the complete response for args.
func (a *App) GenerateText(args models.GenerateArgs) (string, error) {
	text, err := a.svc.Generation.GenerateText(a.ctx, args.Request(false))
	if err != nil {
		runtime.LogError(a.ctx, fmt.Sprintf("generate: %v", err))
		return "", err
	}
	return text, nil
}

// GenerateStream emits a token event per fragment and one done event, then
// returns. Events carry args.StreamID when it is set.
func (a *App) GenerateStream(args models.GenerateArgs) error {
	ctx := events.WithStream(a.ctx, args.StreamID)
	relay := events.NewStreamRelay(ctx)
	if err := a.svc.Generation.GenerateStream(ctx, args.Request(true), relay); err != nil {
		runtime.LogError(a.ctx, fmt.Sprintf("generate stream: %v", err))
		return err
	}
	runtime.LogDebug(a.ctx, fmt.Sprintf("stream finished: %d tokens, done=%t", relay.Tokens(), relay.Done()))
	return nil
}

func (a *App) GetSettings() (*models.Settings, error) {
	return a.svc.Settings.Get(a.ctx)
}

// SaveSettings overwrites the stored settings wholesale.
func (a *App) SaveSettings(settings models.Settings) error {
	if err := a.svc.Settings.Save(a.ctx, settings); err != nil {
		runtime.LogError(a.ctx, fmt.Sprintf("save settings: %v", err))
		return err
	}
	return nil
}

func (a *App) NewSession(title string) (*models.ChatSession, error) {
	return a.svc.Sessions.New(a.ctx, title)
}

func (a *App) SaveSession(session models.ChatSession) error {
	if err := a.svc.Sessions.Save(a.ctx, session); err != nil {
		runtime.LogError(a.ctx, fmt.Sprintf("save session %s: %v", session.ID, err))
		return err
	}
	return nil
}

// ListSessions returns every stored session, newest first.
func (a *App) ListSessions() ([]models.ChatSession, error) {
	return a.svc.Sessions.List(a.ctx)
}

func (a *App) LoadSession(id string) (*models.ChatSession, error) {
	return a.svc.Sessions.Load(a.ctx, id)
}

func (a *App) DeleteSession(id string) error {
	return a.svc.Sessions.Delete(a.ctx, id)
}

func (a *App) ListGenerationRuns(limit int) ([]models.GenerationRun, error) {
	if limit <= 0 {
		limit = defaultRunsLimit
	}
	return a.svc.Generation.ListRuns(a.ctx, limit)
}

func (a *App) ClearGenerationRuns() error {
	return a.svc.Generation.ClearRuns(a.ctx)
}
