package unit_tests

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proof/internal/models"
	"proof/internal/ollama"
	"proof/internal/services"
	"proof/internal/tests/mocks"
)

func ptr[T any](v T) *T { return &v }

func TestGenerationService_GenerateText_AppliesSettingsDefaults(t *testing.T) {
	settings := &mocks.SettingsRepositoryMock{
		GetFunc: func(context.Context) (*models.Settings, error) {
			return &models.Settings{DefaultModel: "mistral", Temperature: 0.3, ContextLength: 2048, System: "be brief"}, nil
		},
	}
	var sent models.GenerationRequest
	generator := &mocks.TextGeneratorMock{
		GenerateOnceFunc: func(ctx context.Context, req models.GenerationRequest) (string, error) {
			sent = req
			return "Paris", nil
		},
	}
	var recorded *models.GenerationRun
	runs := &mocks.GenerationRunRepositoryMock{
		CreateFunc: func(ctx context.Context, run *models.GenerationRun) error {
			recorded = run
			return nil
		},
	}
	service := services.NewGenerationService(&mocks.RuntimeMock{}, generator, settings, runs)

	text, err := service.GenerateText(context.Background(), models.GenerationRequest{
		Prompt:      "Capital of France?",
		Temperature: ptr(1.1),
	})
	require.NoError(t, err)
	assert.Equal(t, "Paris", text)

	assert.Equal(t, "mistral", sent.Model)
	assert.False(t, sent.Stream)
	require.NotNil(t, sent.Temperature)
	assert.Equal(t, 1.1, *sent.Temperature)
	require.NotNil(t, sent.ContextLength)
	assert.Equal(t, uint32(2048), *sent.ContextLength)
	require.NotNil(t, sent.System)
	assert.Equal(t, "be brief", *sent.System)

	require.NotNil(t, recorded)
	assert.Equal(t, "mistral", recorded.Model)
	assert.Equal(t, models.RunStatusOK, recorded.Status)
	assert.Equal(t, len("Capital of France?"), recorded.PromptChars)
	assert.False(t, recorded.Streamed)
}

func TestGenerationService_GenerateText_RequiresModel(t *testing.T) {
	runtime := &mocks.RuntimeMock{}
	service := services.NewGenerationService(runtime, &mocks.TextGeneratorMock{}, nil, nil)

	_, err := service.GenerateText(context.Background(), models.GenerationRequest{Prompt: "hi"})
	assert.EqualError(t, err, "model is required")
	assert.Zero(t, runtime.EnsureCalls)
}

func TestGenerationService_GenerateText_SettingsErrorFallsBack(t *testing.T) {
	settings := &mocks.SettingsRepositoryMock{
		GetFunc: func(context.Context) (*models.Settings, error) { return nil, errors.New("disk gone") },
	}
	var sent models.GenerationRequest
	service := services.NewGenerationService(&mocks.RuntimeMock{}, &mocks.TextGeneratorMock{
		GenerateOnceFunc: func(ctx context.Context, req models.GenerationRequest) (string, error) {
			sent = req
			return "", nil
		},
	}, settings, nil)

	_, err := service.GenerateText(context.Background(), models.GenerationRequest{Model: "phi3", Prompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, "phi3", sent.Model)
	assert.Nil(t, sent.Temperature)
}

func TestGenerationService_GenerateText_RecordsFailure(t *testing.T) {
	httpErr := &ollama.HTTPError{Op: "generate", StatusCode: 500, Body: "model crashed"}
	var recorded *models.GenerationRun
	service := services.NewGenerationService(
		&mocks.RuntimeMock{},
		&mocks.TextGeneratorMock{GenerateOnceFunc: func(context.Context, models.GenerationRequest) (string, error) {
			return "", httpErr
		}},
		nil,
		&mocks.GenerationRunRepositoryMock{CreateFunc: func(ctx context.Context, run *models.GenerationRun) error {
			recorded = run
			return nil
		}},
	)

	_, err := service.GenerateText(context.Background(), models.GenerationRequest{Model: "m", Prompt: "p"})
	assert.ErrorIs(t, err, httpErr)
	require.NotNil(t, recorded)
	assert.Equal(t, models.RunStatusError, recorded.Status)
	assert.Contains(t, recorded.Error, "model crashed")
}

type streamRecorder struct {
	tokens []string
	done   int
}

func (r *streamRecorder) OnToken(s string) { r.tokens = append(r.tokens, s) }
func (r *streamRecorder) OnDone()          { r.done++ }

func TestGenerationService_GenerateStream_RelaysAndCounts(t *testing.T) {
	generator := &mocks.TextGeneratorMock{
		GenerateStreamingFunc: func(ctx context.Context, req models.GenerationRequest, l ollama.StreamListener) error {
			assert.True(t, req.Stream)
			l.OnToken("Hel")
			l.OnToken("lo")
			l.OnDone()
			return nil
		},
	}
	var recorded *models.GenerationRun
	runs := &mocks.GenerationRunRepositoryMock{CreateFunc: func(ctx context.Context, run *models.GenerationRun) error {
		recorded = run
		return nil
	}}
	service := services.NewGenerationService(&mocks.RuntimeMock{}, generator, nil, runs)

	rec := &streamRecorder{}
	err := service.GenerateStream(context.Background(), models.GenerationRequest{Model: "m", Prompt: "hi"}, rec)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hel", "lo"}, rec.tokens)
	assert.Equal(t, 1, rec.done)

	require.NotNil(t, recorded)
	assert.True(t, recorded.Streamed)
	assert.Equal(t, 2, recorded.Tokens)
}

func TestGenerationService_GenerateStream_Errors(t *testing.T) {
	service := services.NewGenerationService(&mocks.RuntimeMock{}, &mocks.TextGeneratorMock{}, nil, nil)
	assert.Error(t, service.GenerateStream(context.Background(), models.GenerationRequest{Model: "m"}, nil))

	spawnErr := &ollama.SpawnError{Command: "ollama serve", Err: errors.New("denied")}
	service = services.NewGenerationService(
		&mocks.RuntimeMock{EnsureStartedFunc: func(context.Context) error { return spawnErr }},
		&mocks.TextGeneratorMock{}, nil, nil,
	)
	rec := &streamRecorder{}
	err := service.GenerateStream(context.Background(), models.GenerationRequest{Model: "m"}, rec)
	assert.ErrorIs(t, err, ollama.ErrSpawnFailed)
	assert.Zero(t, rec.done)
}

func TestGenerationService_Runs(t *testing.T) {
	var limit int
	cleared := false
	runs := &mocks.GenerationRunRepositoryMock{
		ListFunc: func(ctx context.Context, l int) ([]models.GenerationRun, error) {
			limit = l
			return []models.GenerationRun{{ID: 2}, {ID: 1}}, nil
		},
		DeleteAllFunc: func(context.Context) error {
			cleared = true
			return nil
		},
	}
	service := services.NewGenerationService(&mocks.RuntimeMock{}, &mocks.TextGeneratorMock{}, nil, runs)

	got, err := service.ListRuns(context.Background(), 50)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 50, limit)
	require.NoError(t, service.ClearRuns(context.Background()))
	assert.True(t, cleared)

	bare := services.NewGenerationService(&mocks.RuntimeMock{}, &mocks.TextGeneratorMock{}, nil, nil)
	got, err = bare.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, bare.ClearRuns(context.Background()))
}
