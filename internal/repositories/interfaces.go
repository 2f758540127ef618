package repositories

import (
	"context"
	"strings"
	"time"

	apperrors "github.com/SAP-F-2025/form-service/internal/errors"
	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/google/uuid"
)

// ===== SHARED FILTER STRUCTS =====

type FormFilters struct {
	OwnerID   *string `json:"owner_id"`
	Limit     int     `json:"limit"`
	Offset    int     `json:"offset"`
	SortBy    string  `json:"sort_by"`    // "created_at", "updated_at", "title"
	SortOrder string  `json:"sort_order"` // "asc", "desc"
}

type ResponseFilters struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ===== REPOSITORIES =====

// FormRepository persists forms. Create and Update assign canonical ids to questions
// that only carry an editor token and write the authoritative copy back into form.
type FormRepository interface {
	Create(ctx context.Context, form *models.Form) error
	GetByID(ctx context.Context, id string) (*models.Form, error)
	GetByShareID(ctx context.Context, shareID string) (*models.Form, error)
	Update(ctx context.Context, form *models.Form) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters FormFilters) ([]*models.Form, int64, error)

	// ListExpiredShares returns shareable forms whose share link expired at or before now.
	ListExpiredShares(ctx context.Context, now time.Time) ([]*models.Form, error)
}

// ResponseRepository persists submissions. With uniqueEmail set, Create rejects a second
// response to the same form from the same respondent email with ErrDuplicateSubmission.
type ResponseRepository interface {
	Create(ctx context.Context, resp *models.FormResponse, uniqueEmail bool) error
	ListByForm(ctx context.Context, formID string, filters ResponseFilters) ([]*models.FormResponse, int64, error)
	CountByForm(ctx context.Context, formID string) (int64, error)
	DeleteByForm(ctx context.Context, formID string) error
}

// Repository groups the repositories of one storage backend.
type Repository interface {
	Forms() FormRepository
	Responses() ResponseRepository
	Close(ctx context.Context) error
}

// ErrDuplicateSubmission is returned when the respondent already answered a submit-once form.
var ErrDuplicateSubmission = apperrors.NewConflictError(apperrors.ReasonAlreadySubmitted, "You have already submitted this form")

// ===== SHARED HELPERS =====

// PrepareNewForm fills in what every backend sets on insert: share id, canonical
// question ids and timestamps. The form id is left to the backend.
func PrepareNewForm(form *models.Form, now time.Time) {
	if form.ShareID == "" {
		form.ShareID = uuid.NewString()
	}
	AssignQuestionIDs(form)
	form.CreatedAt = now
	form.UpdatedAt = now
}

// PrepareUpdate assigns canonical question ids and refreshes UpdatedAt.
func PrepareUpdate(form *models.Form, now time.Time) {
	AssignQuestionIDs(form)
	form.UpdatedAt = now
}

// AssignQuestionIDs gives a canonical id to every question that only has its editor token.
// The token stays in ClientID.
func AssignQuestionIDs(form *models.Form) {
	for i := range form.Questions {
		q := &form.Questions[i]
		if q.ID == "" || q.ID == q.ClientID {
			q.ID = uuid.NewString()
		}
	}
}

// NormalizeEmail is the form respondent emails are compared in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SortColumn maps a requested sort key to a known column, defaulting to created_at.
func SortColumn(sortBy string) string {
	switch sortBy {
	case "updated_at", "title", "created_at":
		return sortBy
	default:
		return "created_at"
	}
}

// SortDescending reports whether the order is descending; the default is descending.
func SortDescending(sortOrder string) bool {
	return !strings.EqualFold(sortOrder, "asc")
}

// PageLimit caps a requested page size.
func PageLimit(limit int) int {
	switch {
	case limit <= 0:
		return 20
	case limit > 100:
		return 100
	default:
		return limit
	}
}
