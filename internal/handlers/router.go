package handlers

import (
	"github.com/SAP-F-2025/form-service/internal/services"
	"github.com/SAP-F-2025/form-service/internal/utils"
	"github.com/SAP-F-2025/form-service/internal/validator"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	formHandler     *FormHandler
	responseHandler *ResponseHandler
	editorHandler   *EditorHandler
	auth            gin.HandlerFunc
}

// NewHandlerManager builds the handlers. A nil parse func leaves owner routes open.
func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	parse TokenParser,
) *HandlerManager {
	hm := &HandlerManager{
		formHandler:     NewFormHandler(serviceManager.Form(), serviceManager.Import(), validator, logger),
		responseHandler: NewResponseHandler(serviceManager.Response(), serviceManager.Export(), serviceManager.Analytics(), validator, logger),
		editorHandler:   NewEditorHandler(serviceManager.Editor(), validator, logger),
	}
	if parse != nil {
		hm.auth = AuthMiddleware(parse)
	}
	return hm
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	api := router.Group("/api")

	// Public routes used by respondents
	api.GET("/forms/shared/:shareId", hm.formHandler.GetSharedForm)
	api.POST("/form-responses/submit/:shareId", hm.responseHandler.SubmitResponse)

	owner := api.Group("")
	if hm.auth != nil {
		owner.Use(hm.auth)
	}

	forms := owner.Group("/forms")
	{
		forms.POST("", hm.formHandler.CreateForm)
		forms.GET("", hm.formHandler.ListForms)
		forms.GET("/:id", hm.formHandler.GetForm)
		forms.PUT("/:id", hm.formHandler.UpdateForm)
		forms.DELETE("/:id", hm.formHandler.DeleteForm)
		forms.PATCH("/:id/share", hm.formHandler.UpdateShare)
		forms.PATCH("/:id/share-settings", hm.formHandler.UpdateShareSettings)
		forms.POST("/:id/questions/import", hm.formHandler.ImportQuestions)
	}

	responses := owner.Group("/form-responses")
	{
		responses.GET("/:formId", hm.responseHandler.ListResponses)
		responses.GET("/:formId/export", hm.responseHandler.ExportResponses)
		responses.GET("/:formId/analytics", hm.responseHandler.GetAnalytics)
	}

	eh := hm.editorHandler
	sessions := owner.Group("/editor/sessions")
	{
		sessions.POST("", eh.OpenSession)
		sessions.GET("/:session", eh.GetDraft)
		sessions.DELETE("/:session", eh.DiscardSession)
		sessions.GET("/:session/render", eh.RenderDraft)
		sessions.GET("/:session/preview", eh.PreviewDraft)
		sessions.POST("/:session/save", eh.SaveDraft)
		sessions.PATCH("/:session/form", eh.UpdateDetails)

		questions := sessions.Group("/:session/questions")
		questions.POST("", eh.AddQuestion)
		questions.POST("/reorder", eh.ReorderQuestions)
		questions.PATCH("/:questionId", eh.UpdateQuestion)
		questions.DELETE("/:questionId", eh.DeleteQuestion)
		questions.PUT("/:questionId/section", eh.SetSection)
		questions.POST("/:questionId/options/reorder", eh.ReorderOptions)

		// Categorize
		questions.POST("/:questionId/items", eh.AddCategorizeItem)
		questions.POST("/:questionId/items/move", eh.MoveCategorizeItem)
		questions.POST("/:questionId/items/remove", eh.RemoveCategorizeItem)

		// Cloze
		questions.POST("/:questionId/blanks", eh.CreateBlank)
		questions.POST("/:questionId/options", eh.AddClozeOption)
		questions.POST("/:questionId/options/remove", eh.RemoveClozeOption)

		// Comprehension
		questions.POST("/:questionId/sub-questions", eh.AddSubQuestion)
		questions.PATCH("/:questionId/sub-questions/:index", eh.UpdateSubQuestion)
		questions.PUT("/:questionId/sub-questions/:index/options/:option", eh.UpdateSubQuestionOption)
		questions.DELETE("/:questionId/sub-questions/:index", eh.RemoveSubQuestion)
	}
}
