package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"proof/internal/models"
	"proof/internal/repositories"
)

const DefaultSessionTitle = "New chat"

type SessionService interface {
	New(ctx context.Context, title string) (*models.ChatSession, error)
	Save(ctx context.Context, session models.ChatSession) error
	List(ctx context.Context) ([]models.ChatSession, error)
	Load(ctx context.Context, id string) (*models.ChatSession, error)
	Delete(ctx context.Context, id string) error
}

type sessionService struct {
	repo repositories.SessionRepository
	now  func() time.Time
}

func NewSessionService(repo repositories.SessionRepository) SessionService {
	return &sessionService{repo: repo, now: time.Now}
}

// New creates and stores an empty session with a fresh id.
func (s *sessionService) New(ctx context.Context, title string) (*models.ChatSession, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultSessionTitle
	}
	session := &models.ChatSession{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: s.now().UnixMilli(),
		Messages:  []models.ChatMessage{},
	}
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Save stores the session as given, replacing any earlier version.
func (s *sessionService) Save(ctx context.Context, session models.ChatSession) error {
	if err := repositories.ValidateSessionID(session.ID); err != nil {
		return err
	}
	return s.repo.Save(ctx, &session)
}

func (s *sessionService) List(ctx context.Context) ([]models.ChatSession, error) {
	return s.repo.List(ctx)
}

func (s *sessionService) Load(ctx context.Context, id string) (*models.ChatSession, error) {
	return s.repo.Get(ctx, id)
}

func (s *sessionService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
