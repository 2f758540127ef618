package services

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SAP-F-2025/form-service/internal/cache"
	"github.com/SAP-F-2025/form-service/internal/editor"
	"github.com/SAP-F-2025/form-service/internal/events"
	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/repositories/memory"
	"github.com/SAP-F-2025/form-service/internal/validator"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	repo      *memory.Repository
	cache     cache.CacheService
	publisher *events.MockEventPublisher
	forms     *formService
	responses *responseService
	exports   ExportService
	editor    EditorService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := memory.NewRepository()
	c := cache.NewMemoryCache()
	publisher := events.NewMockEventPublisher(logger)
	v := validator.New()

	forms := NewFormService(repo, c, publisher, v, logger, time.Minute).(*formService)
	responses := NewResponseService(repo, publisher, v, logger).(*responseService)

	return &testEnv{
		repo:      repo,
		cache:     c,
		publisher: publisher,
		forms:     forms,
		responses: responses,
		exports:   NewExportService(repo, logger),
		editor:    NewEditorService(forms, editor.NewDrafts(c, time.Hour), logger),
	}
}

func textQuestion(t *testing.T, prompt string, required bool) models.Question {
	t.Helper()
	q, err := models.NewQuestion(models.Text)
	require.NoError(t, err)
	q.Prompt = prompt
	q.Required = required
	return q
}

func boolPtr(b bool) *bool { return &b }
