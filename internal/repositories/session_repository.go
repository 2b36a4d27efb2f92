package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yargevad/filepathx"

	"proof/internal/models"
	"proof/internal/utils"
)

const sessionExt = ".json"

type SessionRepository interface {
	Save(ctx context.Context, session *models.ChatSession) error
	List(ctx context.Context) ([]models.ChatSession, error)
	Get(ctx context.Context, id string) (*models.ChatSession, error)
	Delete(ctx context.Context, id string) error
}

type sessionRepository struct {
	dir string
}

// NewSessionRepository keeps one <id>.json file per session under dir.
func NewSessionRepository(dir string) SessionRepository {
	return &sessionRepository{dir: dir}
}

// ValidateSessionID rejects ids that would not map to a single file directly
// inside the sessions directory.
func ValidateSessionID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidID)
	}
	if id == "." || id == ".." || strings.ContainsAny(id, `/\`) || strings.ContainsRune(id, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

func (r *sessionRepository) path(id string) string {
	return filepath.Join(r.dir, id+sessionExt)
}

// Save overwrites any session stored under the same id.
func (r *sessionRepository) Save(ctx context.Context, session *models.ChatSession) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if session == nil {
		return errors.New("session is required")
	}
	if err := ValidateSessionID(session.ID); err != nil {
		return err
	}
	if session.Messages == nil {
		session.Messages = []models.ChatMessage{}
	}
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session %s: %w", session.ID, err)
	}
	if err := utils.WriteFileReplace(r.path(session.ID), data, 0644); err != nil {
		return fmt.Errorf("write session %s: %w", session.ID, err)
	}
	return nil
}

// List returns every readable session, newest first. Files that cannot be
// decoded are logged and skipped.
func (r *sessionRepository) List(ctx context.Context) ([]models.ChatSession, error) {
	sessions := []models.ChatSession{}
	if !utils.DirectoryExists(r.dir) {
		return sessions, nil
	}
	files, err := filepathx.Glob(filepath.Join(r.dir, "*"+sessionExt))
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		session, err := readSession(file)
		if err != nil {
			log.Printf("sessions: skipping %s: %v", file, err)
			continue
		}
		sessions = append(sessions, *session)
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt > sessions[j].CreatedAt
	})
	return sessions, nil
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*models.ChatSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateSessionID(id); err != nil {
		return nil, err
	}
	session, err := readSession(r.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return nil, err
	}
	return session, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateSessionID(id); err != nil {
		return err
	}
	if err := os.Remove(r.path(id)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

func readSession(path string) (*models.ChatSession, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var session models.ChatSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", filepath.Base(path), err)
	}
	if session.Messages == nil {
		session.Messages = []models.ChatMessage{}
	}
	return &session, nil
}
