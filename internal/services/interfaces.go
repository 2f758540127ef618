package services

import (
	"context"
	"io"
	"time"

	"github.com/SAP-F-2025/form-service/internal/editor"
	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/render"
	"github.com/SAP-F-2025/form-service/internal/repositories"
)

// ===== REQUESTS =====

type FormRequest struct {
	Title       string            `json:"title" validate:"max=200"`
	HeaderImage string            `json:"headerImage" validate:"omitempty,max=2048"`
	Questions   []models.Question `json:"questions"`
}

type ShareRequest struct {
	IsShareable *bool `json:"isShareable" validate:"required"`
}

// ShareSettingsRequest patches share settings; nil fields are left untouched.
type ShareSettingsRequest struct {
	AllowAnonymous *bool      `json:"allowAnonymous"`
	CollectEmail   *bool      `json:"collectEmail"`
	SubmitOnce     *bool      `json:"submitOnce"`
	ExpiresAt      *time.Time `json:"expiresAt"`
	ClearExpiry    bool       `json:"clearExpiry"`
}

type AnswerInput struct {
	QuestionID string             `json:"questionId" validate:"required"`
	Value      models.AnswerValue `json:"value"`
}

type SubmitResponseRequest struct {
	Respondent models.Respondent `json:"respondent"`
	Answers    []AnswerInput     `json:"answers" validate:"dive"`
}

// ===== RESPONSES =====

type FormListResponse struct {
	Forms  []*models.Form `json:"forms"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

type ResponseListResponse struct {
	Responses []*models.FormResponse `json:"responses"`
	Total     int64                  `json:"total"`
	Limit     int                    `json:"limit"`
	Offset    int                    `json:"offset"`
}

type EditorSession struct {
	SessionID string       `json:"sessionId"`
	Form      *models.Form `json:"form"`
}

// ===== SERVICES =====

type FormService interface {
	Create(ctx context.Context, req *FormRequest, ownerID string) (*models.Form, error)
	// Save validates every question and persists the form, creating it when it has no id.
	// The returned form is the authoritative copy carrying canonical question ids.
	Save(ctx context.Context, form *models.Form) (*models.Form, error)
	Get(ctx context.Context, id string) (*models.Form, error)
	// GetShared returns the fill-mode view of a shareable, unexpired form.
	GetShared(ctx context.Context, shareID string) (*render.FormView, error)
	List(ctx context.Context, filters repositories.FormFilters) (*FormListResponse, error)
	Update(ctx context.Context, id string, req *FormRequest) (*models.Form, error)
	Delete(ctx context.Context, id string) error
	UpdateShare(ctx context.Context, id string, req *ShareRequest) (*models.Form, error)
	UpdateShareSettings(ctx context.Context, id string, req *ShareSettingsRequest) (*models.Form, error)
	// CloseExpiredShares turns sharing off for forms whose link expired and returns how many.
	CloseExpiredShares(ctx context.Context, now time.Time) (int, error)
}

type ResponseService interface {
	Submit(ctx context.Context, shareID string, req *SubmitResponseRequest) (*models.FormResponse, error)
	List(ctx context.Context, formID string, filters repositories.ResponseFilters) (*ResponseListResponse, error)
}

type ExportService interface {
	ExportResponsesToExcel(ctx context.Context, formID string) ([]byte, error)
	ExportResponsesToCSV(ctx context.Context, formID string) ([]byte, error)
}

// ImportService appends questions read from a CSV or XLSX sheet to a form.
type ImportService interface {
	ImportQuestionsFromFile(ctx context.Context, formID string, file io.Reader, filename string) (*models.ImportResult, error)
	ImportQuestionsFromCSV(ctx context.Context, formID string, reader io.Reader) (*models.ImportResult, error)
	ImportQuestionsFromExcel(ctx context.Context, formID string, reader io.Reader) (*models.ImportResult, error)
}

type AnalyticsService interface {
	GetFormAnalytics(ctx context.Context, formID string) (*FormAnalytics, error)
}

// EditorService keeps drafts per editor session and applies authoring operations to them.
type EditorService interface {
	// Open starts a session on a new draft, or on the persisted form when formID is set.
	Open(ctx context.Context, formID string) (*EditorSession, error)
	Draft(ctx context.Context, sessionID string) (*models.Form, error)
	// Apply runs op against the session draft and stores the result when op succeeds.
	Apply(ctx context.Context, sessionID string, op func(*editor.Editor) error) (*models.Form, error)
	Render(ctx context.Context, sessionID string, mode render.Mode) (*render.FormView, error)
	Save(ctx context.Context, sessionID string) (*models.Form, error)
	Discard(ctx context.Context, sessionID string) error
}
