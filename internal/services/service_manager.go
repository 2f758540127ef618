package services

import (
	"log/slog"
	"time"

	"github.com/SAP-F-2025/form-service/internal/cache"
	"github.com/SAP-F-2025/form-service/internal/editor"
	"github.com/SAP-F-2025/form-service/internal/events"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"github.com/SAP-F-2025/form-service/internal/validator"
)

// ServiceManager hands out the services backing the HTTP layer.
type ServiceManager interface {
	Form() FormService
	Response() ResponseService
	Export() ExportService
	Editor() EditorService
	Import() ImportService
	Analytics() AnalyticsService
}

type Dependencies struct {
	Repo      repositories.Repository
	Cache     cache.CacheService
	Publisher events.EventPublisher
	Validator *validator.Validator
	Logger    *slog.Logger

	DraftTTL  time.Duration
	SharedTTL time.Duration
}

type serviceManager struct {
	form      FormService
	response  ResponseService
	export    ExportService
	editor    EditorService
	imports   ImportService
	analytics AnalyticsService
}

func NewServiceManager(deps Dependencies) ServiceManager {
	form := NewFormService(deps.Repo, deps.Cache, deps.Publisher, deps.Validator, deps.Logger, deps.SharedTTL)
	return &serviceManager{
		form:      form,
		response:  NewResponseService(deps.Repo, deps.Publisher, deps.Validator, deps.Logger),
		export:    NewExportService(deps.Repo, deps.Logger),
		editor:    NewEditorService(form, editor.NewDrafts(deps.Cache, deps.DraftTTL), deps.Logger),
		imports:   NewImportService(form, deps.Validator, deps.Logger),
		analytics: NewAnalyticsService(deps.Repo, deps.Logger),
	}
}

func (m *serviceManager) Form() FormService           { return m.form }
func (m *serviceManager) Response() ResponseService   { return m.response }
func (m *serviceManager) Export() ExportService       { return m.export }
func (m *serviceManager) Editor() EditorService       { return m.editor }
func (m *serviceManager) Import() ImportService       { return m.imports }
func (m *serviceManager) Analytics() AnalyticsService { return m.analytics }
