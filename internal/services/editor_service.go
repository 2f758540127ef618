package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/form-service/internal/editor"
	apperrors "github.com/SAP-F-2025/form-service/internal/errors"
	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/render"
	"github.com/google/uuid"
)

type editorService struct {
	forms  FormService
	drafts *editor.Drafts
	logger *slog.Logger
	ops    *ServiceLogger
}

func NewEditorService(forms FormService, drafts *editor.Drafts, logger *slog.Logger) EditorService {
	return &editorService{
		forms:  forms,
		drafts: drafts,
		logger: logger,
		ops:    NewServiceLogger(logger, "editor"),
	}
}

func (s *editorService) Open(ctx context.Context, formID string) (*EditorSession, error) {
	form := models.NewForm()
	form.OwnerID = OwnerFromContext(ctx)
	if formID != "" {
		persisted, err := s.forms.Get(ctx, formID)
		if err != nil {
			return nil, err
		}
		form = persisted
	}

	sessionID := uuid.NewString()
	if err := s.drafts.Save(ctx, sessionID, form); err != nil {
		return nil, fmt.Errorf("failed to open editor session: %w", err)
	}

	s.logger.Info("Editor session opened", "session_id", sessionID, "form_id", form.ID)
	return &EditorSession{SessionID: sessionID, Form: form}, nil
}

func (s *editorService) Draft(ctx context.Context, sessionID string) (*models.Form, error) {
	return s.loadDraft(ctx, sessionID)
}

// loadDraft returns the session's draft. Ids that were never issued by Open and
// sessions of another owner are reported as not found.
func (s *editorService) loadDraft(ctx context.Context, sessionID string) (*models.Form, error) {
	if err := uuid.Validate(sessionID); err != nil {
		return nil, apperrors.NewNotFoundError("editor session", sessionID)
	}
	form, err := s.drafts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !ownedBy(ctx, form.OwnerID) {
		return nil, apperrors.NewNotFoundError("editor session", sessionID)
	}
	return form, nil
}

func (s *editorService) Apply(ctx context.Context, sessionID string, op func(*editor.Editor) error) (*models.Form, error) {
	form, err := s.loadDraft(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	e := editor.New(form, editor.Strict())
	if err := op(e); err != nil {
		return nil, err
	}

	if err := s.drafts.Save(ctx, sessionID, e.Form()); err != nil {
		return nil, err
	}
	return e.Form(), nil
}

func (s *editorService) Render(ctx context.Context, sessionID string, mode render.Mode) (*render.FormView, error) {
	form, err := s.loadDraft(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	view := render.RenderForm(form, mode, nil)
	return &view, nil
}

// Save persists the draft. Only one save per session runs at a time; the draft is
// replaced with the authoritative copy so later edits address canonical question ids.
func (s *editorService) Save(ctx context.Context, sessionID string) (saved *models.Form, err error) {
	op := s.ops.WithOperation(ctx, "save_draft", "editor_session")
	defer func() { op.LogResult(sessionID, err) }()

	if _, err := s.loadDraft(ctx, sessionID); err != nil {
		return nil, err
	}

	release, err := s.drafts.BeginSave(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	form, err := s.drafts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	saved, err = s.forms.Save(ctx, form)
	if err != nil {
		return nil, err
	}

	if err := s.drafts.Save(ctx, sessionID, saved); err != nil {
		s.logger.Warn("Failed to refresh draft after save", "session_id", sessionID, "error", err)
	}
	return saved, nil
}

func (s *editorService) Discard(ctx context.Context, sessionID string) error {
	if _, err := s.loadDraft(ctx, sessionID); err != nil {
		return err
	}
	return s.drafts.Clear(ctx, sessionID)
}
