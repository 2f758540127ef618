package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/form-service/internal/repositories"
	"github.com/SAP-F-2025/form-service/internal/services"
	"github.com/SAP-F-2025/form-service/internal/utils"
	"github.com/SAP-F-2025/form-service/internal/validator"
	"github.com/gin-gonic/gin"
)

// maxImportSize bounds an uploaded question sheet.
const maxImportSize = 10 << 20

type FormHandler struct {
	BaseHandler
	formService   services.FormService
	importService services.ImportService
}

func NewFormHandler(formService services.FormService, importService services.ImportService, v *validator.Validator, logger utils.Logger) *FormHandler {
	return &FormHandler{
		BaseHandler:   NewBaseHandler(logger, v),
		formService:   formService,
		importService: importService,
	}
}

// CreateForm creates a new form
// @Summary Create form
// @Tags forms
// @Accept json
// @Produce json
// @Param form body services.FormRequest true "Form data"
// @Success 201 {object} models.Form
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /forms [post]
func (h *FormHandler) CreateForm(c *gin.Context) {
	var req services.FormRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Creating form", "title", req.Title, "questions", len(req.Questions))

	form, err := h.formService.Create(c.Request.Context(), &req, userID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, form)
}

// GetForm retrieves a form by ID
// @Summary Get form
// @Tags forms
// @Produce json
// @Param id path string true "Form ID"
// @Success 200 {object} models.Form
// @Failure 404 {object} ErrorResponse
// @Router /forms/{id} [get]
func (h *FormHandler) GetForm(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	form, err := h.formService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, form)
}

// ListForms lists forms, newest first by default. With auth enabled only the caller's forms are listed.
// @Summary List forms
// @Tags forms
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param sort_by query string false "created_at, updated_at or title"
// @Param sort_order query string false "asc or desc"
// @Success 200 {object} services.FormListResponse
// @Router /forms [get]
func (h *FormHandler) ListForms(c *gin.Context) {
	limit, offset := parsePage(c)
	filters := repositories.FormFilters{
		Limit:     limit,
		Offset:    offset,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	list, err := h.formService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// UpdateForm replaces the title, header image and questions of a form
// @Summary Update form
// @Tags forms
// @Accept json
// @Produce json
// @Param id path string true "Form ID"
// @Param form body services.FormRequest true "Form data"
// @Success 200 {object} models.Form
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /forms/{id} [put]
func (h *FormHandler) UpdateForm(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.FormRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Updating form", "form_id", id)

	form, err := h.formService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, form)
}

// DeleteForm deletes a form and its responses
// @Summary Delete form
// @Tags forms
// @Param id path string true "Form ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /forms/{id} [delete]
func (h *FormHandler) DeleteForm(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Deleting form", "form_id", id)

	if err := h.formService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Form deleted successfully"})
}

// GetSharedForm returns the fill-mode view of a shared form. Answer keys are never included.
// @Summary Get shared form
// @Tags forms
// @Produce json
// @Param shareId path string true "Share ID"
// @Success 200 {object} render.FormView
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /forms/shared/{shareId} [get]
func (h *FormHandler) GetSharedForm(c *gin.Context) {
	shareID := ParseStringIDParam(c, "shareId")
	if shareID == "" {
		return
	}

	view, err := h.formService.GetShared(c.Request.Context(), shareID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// UpdateShare turns sharing on or off
// @Summary Toggle sharing
// @Tags forms
// @Accept json
// @Param id path string true "Form ID"
// @Param share body services.ShareRequest true "Sharing flag"
// @Success 200 {object} models.Form
// @Router /forms/{id}/share [patch]
func (h *FormHandler) UpdateShare(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.ShareRequest
	if !h.bindJSON(c, &req) {
		return
	}

	form, err := h.formService.UpdateShare(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, form)
}

// UpdateShareSettings patches the share settings
// @Summary Update share settings
// @Tags forms
// @Accept json
// @Param id path string true "Form ID"
// @Param settings body services.ShareSettingsRequest true "Settings patch"
// @Success 200 {object} models.Form
// @Router /forms/{id}/share-settings [patch]
func (h *FormHandler) UpdateShareSettings(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.ShareSettingsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	form, err := h.formService.UpdateShareSettings(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, form)
}

// ImportQuestions appends questions from an uploaded CSV or XLSX sheet
// @Summary Import questions
// @Tags forms
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Form ID"
// @Param file formData file true "Sheet with type, prompt, required, section, options and image columns"
// @Success 200 {object} models.ImportResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /forms/{id}/questions/import [post]
func (h *FormHandler) ImportQuestions(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)
	header, err := c.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "File is required", nil, err.Error())
		return
	}

	file, err := header.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Failed to read file", nil, err.Error())
		return
	}
	defer file.Close()

	h.LogRequest(c, "Importing questions", "form_id", id, "filename", header.Filename, "size", header.Size)

	result, err := h.importService.ImportQuestionsFromFile(c.Request.Context(), id, file, header.Filename)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
