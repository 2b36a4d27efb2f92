package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"proof/internal/models"
	"proof/internal/repositories"
)

const MaxTemperature = 2.0

type SettingsService interface {
	Get(ctx context.Context) (*models.Settings, error)
	Save(ctx context.Context, settings models.Settings) error
	// Watch calls onChange whenever the settings file is changed by another
	// writer. It returns once the watcher is running; ctx stops it.
	Watch(ctx context.Context, onChange func(models.Settings)) error
}

type settingsService struct {
	repo repositories.SettingsRepository

	// known is the content last written by Save or last reported by Watch.
	// File events that load the same content are echoes and are dropped.
	mu    sync.Mutex
	known *models.Settings
}

func NewSettingsService(repo repositories.SettingsRepository) SettingsService {
	return &settingsService{repo: repo}
}

// ValidateSettings checks the temperature range the UI offers. An empty model
// or a zero context length are stored as given; generation falls back for
// them at call time.
func ValidateSettings(s models.Settings) error {
	if s.Temperature < 0 || s.Temperature > MaxTemperature {
		return fmt.Errorf("temperature must be between 0 and %.0f, got %v", MaxTemperature, s.Temperature)
	}
	return nil
}

func (s *settingsService) Get(ctx context.Context) (*models.Settings, error) {
	return s.repo.Get(ctx)
}

func (s *settingsService) Save(ctx context.Context, settings models.Settings) error {
	if err := ValidateSettings(settings); err != nil {
		return err
	}
	// Recorded before the write: the watcher may see the file before Save returns.
	s.mu.Lock()
	prev := s.known
	saved := settings
	s.known = &saved
	s.mu.Unlock()

	if err := s.repo.Save(ctx, &settings); err != nil {
		s.mu.Lock()
		if s.known == &saved {
			s.known = prev
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// observe records loaded and reports whether it differs from the known content.
func (s *settingsService) observe(loaded models.Settings) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.known != nil && *s.known == loaded {
		return false
	}
	s.known = &loaded
	return true
}

func (s *settingsService) Watch(ctx context.Context, onChange func(models.Settings)) error {
	if onChange == nil {
		return errors.New("onChange is required")
	}
	path := s.repo.Path()
	dir := filepath.Dir(path)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create settings watcher: %w", err)
	}
	// The file is replaced by rename on save, so watch its directory.
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(path) {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				settings, err := s.repo.Get(ctx)
				if err != nil {
					log.Printf("settings: reload after external change failed: %v", err)
					continue
				}
				if !s.observe(*settings) {
					continue
				}
				onChange(*settings)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("settings: watcher error: %v", err)
			}
		}
	}()
	return nil
}
