package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/SAP-F-2025/form-service/internal/collector"
	"github.com/SAP-F-2025/form-service/internal/events"
	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"github.com/SAP-F-2025/form-service/internal/validator"
)

type responseService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	validator *validator.Validator
	logger    *slog.Logger
	ops       *ServiceLogger
	now       func() time.Time
}

func NewResponseService(
	repo repositories.Repository,
	publisher events.EventPublisher,
	v *validator.Validator,
	logger *slog.Logger,
) ResponseService {
	return &responseService{
		repo:      repo,
		publisher: publisher,
		validator: v,
		logger:    logger,
		ops:       NewServiceLogger(logger, "response"),
		now:       time.Now,
	}
}

// Submit checks the share rules in order (shareable, not expired, respondent identity),
// collects the answers and stores the response. A second submission from the same email
// to a submit-once form that collects emails fails with an already-submitted conflict.
func (s *responseService) Submit(ctx context.Context, shareID string, req *SubmitResponseRequest) (resp *models.FormResponse, err error) {
	op := s.ops.WithOperation(ctx, "submit_response", "form")
	defer func() { op.LogResult(shareID, err) }()

	form, err := s.repo.Forms().GetByShareID(ctx, shareID)
	if err != nil {
		return nil, fmt.Errorf("failed to get shared form: %w", err)
	}

	now := s.now()
	if err := CheckSubmittable(form, now); err != nil {
		return nil, err
	}

	req.Respondent = models.Respondent{
		Name:  strings.TrimSpace(req.Respondent.Name),
		Email: strings.TrimSpace(req.Respondent.Email),
	}
	if err := s.validateSubmission(form, req); err != nil {
		return nil, err
	}

	answers, err := collect(form, req.Answers)
	if err != nil {
		return nil, err
	}

	resp = &models.FormResponse{
		FormID:      form.ID,
		ShareID:     form.ShareID,
		Respondent:  req.Respondent,
		Answers:     answers,
		SubmittedAt: now,
	}
	if err := s.repo.Responses().Create(ctx, resp, form.ShareSettings.UniqueEmail()); err != nil {
		if IsConflict(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to store response: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishFormEvent(ctx, events.NewResponseSubmittedEvent(resp)); err != nil {
			s.logger.Error("Failed to publish event", "event_type", events.EventResponseSubmitted, "error", err)
		}
	}

	s.logger.Info("Form response submitted", "form_id", form.ID, "response_id", resp.ID, "answers", len(answers))
	return resp, nil
}

func (s *responseService) validateSubmission(form *models.Form, req *SubmitResponseRequest) error {
	var errs ValidationErrors

	if err := s.validator.ValidateStruct(req); err != nil {
		if fieldErrs, ok := err.(ValidationErrors); ok {
			errs = append(errs, fieldErrs...)
		} else {
			return err
		}
	}

	settings, respondent := form.ShareSettings, req.Respondent
	if settings.CollectEmail && respondent.Email == "" {
		errs.Add("respondent.email", "is required", "required", "")
	}
	if !settings.AllowAnonymous && !settings.CollectEmail && respondent.Name == "" {
		errs.Add("respondent.name", "is required", "required", "")
	}

	return errs.OrNil()
}

// collect records every answer against the form and returns them in question order.
func collect(form *models.Form, inputs []AnswerInput) ([]models.Answer, error) {
	c := collector.New(form)

	var errs ValidationErrors
	for i, in := range inputs {
		field := "answers[" + strconv.Itoa(i) + "]"
		err := c.RecordAnswer(in.QuestionID, in.Value)
		var shapeErrs ValidationErrors
		switch {
		case err == nil:
		case IsNotFound(err):
			errs.Add(field+".questionId", "does not match a question of this form", "exists", in.QuestionID)
		case errors.As(err, &shapeErrs):
			errs.Merge(field, shapeErrs)
		default:
			return nil, err
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	return c.Finalize()
}

func (s *responseService) List(ctx context.Context, formID string, filters repositories.ResponseFilters) (*ResponseListResponse, error) {
	if _, err := getOwnedForm(ctx, s.repo, formID); err != nil {
		return nil, err
	}

	filters.Limit = repositories.PageLimit(filters.Limit)
	if filters.Offset < 0 {
		filters.Offset = 0
	}

	responses, total, err := s.repo.Responses().ListByForm(ctx, formID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}

	return &ResponseListResponse{
		Responses: responses,
		Total:     total,
		Limit:     filters.Limit,
		Offset:    filters.Offset,
	}, nil
}
