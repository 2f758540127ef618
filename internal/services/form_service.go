package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SAP-F-2025/form-service/internal/cache"
	apperrors "github.com/SAP-F-2025/form-service/internal/errors"
	"github.com/SAP-F-2025/form-service/internal/events"
	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/render"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"github.com/SAP-F-2025/form-service/internal/validator"
)

type formService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	publisher events.EventPublisher
	validator *validator.Validator
	logger    *slog.Logger
	ops       *ServiceLogger
	sharedTTL time.Duration
	now       func() time.Time
}

func NewFormService(
	repo repositories.Repository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	v *validator.Validator,
	logger *slog.Logger,
	sharedTTL time.Duration,
) FormService {
	return &formService{
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
		validator: v,
		logger:    logger,
		ops:       NewServiceLogger(logger, "form"),
		sharedTTL: sharedTTL,
		now:       time.Now,
	}
}

func sharedFormKey(shareID string) string {
	return "form:share:" + shareID
}

// ===== CORE CRUD OPERATIONS =====

func (s *formService) Create(ctx context.Context, req *FormRequest, ownerID string) (*models.Form, error) {
	s.logger.Info("Creating form", "owner_id", ownerID, "title", req.Title)

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	form := models.NewForm()
	form.OwnerID = ownerID
	applyFormRequest(form, req)

	return s.Save(ctx, form)
}

func (s *formService) Save(ctx context.Context, form *models.Form) (saved *models.Form, err error) {
	op := s.ops.WithOperation(ctx, "save_form", "form")
	defer func() { op.LogResult(form.ID, err) }()

	form.Title = strings.TrimSpace(form.Title)
	if form.Title == "" {
		form.Title = models.DefaultTitle
	}
	if form.Questions == nil {
		form.Questions = []models.Question{}
	}

	if err := s.validator.ValidateForm(form); err != nil {
		return nil, err
	}

	eventType := events.EventFormUpdated
	if form.ID == "" {
		eventType = events.EventFormCreated
		if form.OwnerID == "" {
			form.OwnerID = OwnerFromContext(ctx)
		}
		if err := s.repo.Forms().Create(ctx, form); err != nil {
			return nil, fmt.Errorf("failed to create form: %w", err)
		}
	} else {
		stored, err := getOwnedForm(ctx, s.repo, form.ID)
		if err != nil {
			return nil, err
		}
		form.OwnerID = stored.OwnerID
		if err := s.repo.Forms().Update(ctx, form); err != nil {
			return nil, fmt.Errorf("failed to update form: %w", err)
		}
	}

	s.invalidateShared(ctx, form.ShareID)
	s.publish(ctx, events.NewFormChangedEvent(eventType, form))

	s.logger.Info("Form saved successfully", "form_id", form.ID, "questions", len(form.Questions))
	return form, nil
}

// Get returns the form, hiding forms owned by someone other than the caller in ctx.
func (s *formService) Get(ctx context.Context, id string) (*models.Form, error) {
	return getOwnedForm(ctx, s.repo, id)
}

func (s *formService) GetShared(ctx context.Context, shareID string) (*render.FormView, error) {
	form, err := s.sharedForm(ctx, shareID)
	if err != nil {
		return nil, err
	}
	if err := CheckSubmittable(form, s.now()); err != nil {
		return nil, err
	}

	view := render.RenderForm(form, render.ModeFill, nil)
	return &view, nil
}

// sharedForm reads through the shared-form cache. Cache failures fall back to the store.
func (s *formService) sharedForm(ctx context.Context, shareID string) (*models.Form, error) {
	key := sharedFormKey(shareID)

	var cached models.Form
	err := s.cache.Get(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Shared form cache read failed", "share_id", shareID, "error", err)
	}

	form, err := s.repo.Forms().GetByShareID(ctx, shareID)
	if err != nil {
		return nil, fmt.Errorf("failed to get shared form: %w", err)
	}

	if err := s.cache.Set(ctx, key, form, s.sharedTTL); err != nil {
		s.logger.Warn("Shared form cache write failed", "share_id", shareID, "error", err)
	}
	return form, nil
}

func (s *formService) List(ctx context.Context, filters repositories.FormFilters) (*FormListResponse, error) {
	filters.Limit = repositories.PageLimit(filters.Limit)
	if filters.Offset < 0 {
		filters.Offset = 0
	}
	if owner := OwnerFromContext(ctx); owner != "" {
		filters.OwnerID = &owner
	}

	forms, total, err := s.repo.Forms().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list forms: %w", err)
	}

	return &FormListResponse{
		Forms:  forms,
		Total:  total,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	}, nil
}

func (s *formService) Update(ctx context.Context, id string, req *FormRequest) (*models.Form, error) {
	s.logger.Info("Updating form", "form_id", id)

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	form, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyFormRequest(form, req)

	return s.Save(ctx, form)
}

func (s *formService) Delete(ctx context.Context, id string) (err error) {
	op := s.ops.WithOperation(ctx, "delete_form", "form")
	defer func() { op.LogResult(id, err) }()

	form, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Forms().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete form: %w", err)
	}
	if err := s.repo.Responses().DeleteByForm(ctx, id); err != nil {
		s.logger.Error("Failed to delete form responses", "form_id", id, "error", err)
	}

	s.invalidateShared(ctx, form.ShareID)
	s.publish(ctx, events.NewFormDeletedEvent(form))
	return nil
}

// ===== SHARING =====

func (s *formService) UpdateShare(ctx context.Context, id string, req *ShareRequest) (*models.Form, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	return s.updateSharing(ctx, id, func(form *models.Form) {
		form.IsShareable = *req.IsShareable
	})
}

func (s *formService) UpdateShareSettings(ctx context.Context, id string, req *ShareSettingsRequest) (*models.Form, error) {
	return s.updateSharing(ctx, id, func(form *models.Form) {
		settings := &form.ShareSettings
		if req.AllowAnonymous != nil {
			settings.AllowAnonymous = *req.AllowAnonymous
		}
		if req.CollectEmail != nil {
			settings.CollectEmail = *req.CollectEmail
		}
		if req.SubmitOnce != nil {
			settings.SubmitOnce = *req.SubmitOnce
		}
		if req.ClearExpiry {
			settings.ExpiresAt = nil
		} else if req.ExpiresAt != nil {
			expires := req.ExpiresAt.UTC()
			settings.ExpiresAt = &expires
		}
	})
}

func (s *formService) updateSharing(ctx context.Context, id string, apply func(*models.Form)) (form *models.Form, err error) {
	op := s.ops.WithOperation(ctx, "update_sharing", "form")
	defer func() { op.LogResult(id, err) }()

	form, err = s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	apply(form)
	if err := s.repo.Forms().Update(ctx, form); err != nil {
		return nil, fmt.Errorf("failed to update sharing: %w", err)
	}

	s.invalidateShared(ctx, form.ShareID)
	s.publish(ctx, events.NewFormShareUpdatedEvent(form))
	return form, nil
}

func (s *formService) CloseExpiredShares(ctx context.Context, now time.Time) (int, error) {
	forms, err := s.repo.Forms().ListExpiredShares(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list expired shares: %w", err)
	}

	closed := 0
	for _, form := range forms {
		form.IsShareable = false
		if err := s.repo.Forms().Update(ctx, form); err != nil {
			s.logger.Error("Failed to close expired share", "form_id", form.ID, "error", err)
			continue
		}
		s.invalidateShared(ctx, form.ShareID)
		s.publish(ctx, events.NewFormExpiredEvent(form, now))
		closed++
	}

	if closed > 0 {
		s.logger.Info("Closed expired shares", "count", closed)
	}
	return closed, nil
}

// ===== HELPERS =====

// CheckSubmittable reports why a form cannot take responses, checking sharing before expiry.
func CheckSubmittable(form *models.Form, now time.Time) error {
	if !form.IsShareable {
		return apperrors.NewConflictError(apperrors.ReasonNotShareable, "Form is not shareable")
	}
	if form.ShareSettings.Expired(now) {
		return apperrors.NewConflictError(apperrors.ReasonExpired, "Form has expired")
	}
	return nil
}

func applyFormRequest(form *models.Form, req *FormRequest) {
	form.Title = req.Title
	form.HeaderImage = strings.TrimSpace(req.HeaderImage)
	form.Questions = req.Questions
}

func (s *formService) invalidateShared(ctx context.Context, shareID string) {
	if shareID == "" {
		return
	}
	if err := s.cache.Delete(ctx, sharedFormKey(shareID)); err != nil {
		s.logger.Warn("Failed to invalidate shared form cache", "share_id", shareID, "error", err)
	}
}

// publish never fails the operation; events are best effort.
func (s *formService) publish(ctx context.Context, event *events.FormEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishFormEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish event", "event_type", event.Type, "error", err)
	}
}
