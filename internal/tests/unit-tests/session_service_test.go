package unit_tests

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proof/internal/models"
	"proof/internal/repositories"
	"proof/internal/services"
	"proof/internal/tests/mocks"
)

func TestSessionService_New(t *testing.T) {
	var saved *models.ChatSession
	service := services.NewSessionService(&mocks.SessionRepositoryMock{
		SaveFunc: func(ctx context.Context, s *models.ChatSession) error {
			saved = s
			return nil
		},
	})
	before := time.Now().UnixMilli()

	session, err := service.New(context.Background(), "  ")
	require.NoError(t, err)
	assert.Same(t, saved, session)
	_, err = uuid.Parse(session.ID)
	assert.NoError(t, err)
	assert.Equal(t, services.DefaultSessionTitle, session.Title)
	assert.GreaterOrEqual(t, session.CreatedAt, before)
	assert.NotNil(t, session.Messages)
	assert.Empty(t, session.Messages)

	other, err := service.New(context.Background(), "Trip ideas")
	require.NoError(t, err)
	assert.Equal(t, "Trip ideas", other.Title)
	assert.NotEqual(t, session.ID, other.ID)
}

func TestSessionService_Save_RejectsBadID(t *testing.T) {
	called := false
	service := services.NewSessionService(&mocks.SessionRepositoryMock{
		SaveFunc: func(context.Context, *models.ChatSession) error {
			called = true
			return nil
		},
	})

	err := service.Save(context.Background(), models.ChatSession{ID: "../../etc/passwd"})
	assert.ErrorIs(t, err, repositories.ErrInvalidID)
	assert.False(t, called)
}

func TestSessionService_FileBacked(t *testing.T) {
	service := services.NewSessionService(repositories.NewSessionRepository(t.TempDir()))
	ctx := context.Background()

	for _, created := range []int64{1, 3, 2} {
		require.NoError(t, service.Save(ctx, models.ChatSession{
			ID:        uuid.NewString(),
			Title:     "chat",
			CreatedAt: created,
			Messages:  []models.ChatMessage{{Role: "user", Content: "hi", Timestamp: created}},
		}))
	}

	list, err := service.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int64{3, 2, 1}, []int64{list[0].CreatedAt, list[1].CreatedAt, list[2].CreatedAt})

	loaded, err := service.Load(ctx, list[1].ID)
	require.NoError(t, err)
	assert.Equal(t, list[1], *loaded)

	require.NoError(t, service.Delete(ctx, list[1].ID))
	_, err = service.Load(ctx, list[1].ID)
	assert.ErrorIs(t, err, repositories.ErrSessionNotFound)
}
