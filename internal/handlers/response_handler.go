package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/form-service/internal/repositories"
	"github.com/SAP-F-2025/form-service/internal/services"
	"github.com/SAP-F-2025/form-service/internal/utils"
	"github.com/SAP-F-2025/form-service/internal/validator"
	"github.com/gin-gonic/gin"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	csvContentType  = "text/csv; charset=utf-8"
)

type ResponseHandler struct {
	BaseHandler
	responseService services.ResponseService
	exportService   services.ExportService
	analytics       services.AnalyticsService
}

func NewResponseHandler(
	responseService services.ResponseService,
	exportService services.ExportService,
	analytics services.AnalyticsService,
	v *validator.Validator,
	logger utils.Logger,
) *ResponseHandler {
	return &ResponseHandler{
		BaseHandler:     NewBaseHandler(logger, v),
		responseService: responseService,
		exportService:   exportService,
		analytics:       analytics,
	}
}

// SubmitResponse records a response to a shared form
// @Summary Submit response
// @Tags responses
// @Accept json
// @Param shareId path string true "Share ID"
// @Param response body services.SubmitResponseRequest true "Respondent and answers"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "not shareable, expired or already submitted"
// @Failure 404 {object} ErrorResponse
// @Router /form-responses/submit/{shareId} [post]
func (h *ResponseHandler) SubmitResponse(c *gin.Context) {
	shareID := ParseStringIDParam(c, "shareId")
	if shareID == "" {
		return
	}

	// the service validates after trimming the respondent
	var req services.SubmitResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", nil, err.Error())
		return
	}

	h.LogRequest(c, "Submitting form response", "share_id", shareID, "answers", len(req.Answers))

	resp, err := h.responseService.Submit(c.Request.Context(), shareID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "Form response submitted successfully",
		Data:    gin.H{"id": resp.ID, "submittedAt": resp.SubmittedAt},
	})
}

// ListResponses lists a form's responses, newest first
// @Summary List responses
// @Tags responses
// @Produce json
// @Param formId path string true "Form ID"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} services.ResponseListResponse
// @Router /form-responses/{formId} [get]
func (h *ResponseHandler) ListResponses(c *gin.Context) {
	formID := ParseStringIDParam(c, "formId")
	if formID == "" {
		return
	}

	limit, offset := parsePage(c)
	list, err := h.responseService.List(c.Request.Context(), formID, repositories.ResponseFilters{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// ExportResponses downloads every response as xlsx, or csv with format=csv
// @Summary Export responses
// @Tags responses
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param formId path string true "Form ID"
// @Param format query string false "xlsx or csv"
// @Router /form-responses/{formId}/export [get]
func (h *ResponseHandler) ExportResponses(c *gin.Context) {
	formID := ParseStringIDParam(c, "formId")
	if formID == "" {
		return
	}

	h.LogRequest(c, "Exporting responses", "form_id", formID)

	var (
		data        []byte
		err         error
		contentType = xlsxContentType
		filename    = "responses-" + formID + ".xlsx"
	)
	switch c.DefaultQuery("format", "xlsx") {
	case "xlsx":
		data, err = h.exportService.ExportResponsesToExcel(c.Request.Context(), formID)
	case "csv":
		contentType, filename = csvContentType, "responses-"+formID+".csv"
		data, err = h.exportService.ExportResponsesToCSV(c.Request.Context(), formID)
	default:
		h.RespondWithError(c, http.StatusBadRequest, "Invalid format", nil, "must be xlsx or csv")
		return
	}
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}

// GetAnalytics summarises a form's responses per question
// @Summary Response analytics
// @Tags responses
// @Produce json
// @Param formId path string true "Form ID"
// @Success 200 {object} services.FormAnalytics
// @Failure 404 {object} ErrorResponse
// @Router /form-responses/{formId}/analytics [get]
func (h *ResponseHandler) GetAnalytics(c *gin.Context) {
	formID := ParseStringIDParam(c, "formId")
	if formID == "" {
		return
	}

	analytics, err := h.analytics.GetFormAnalytics(c.Request.Context(), formID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, analytics)
}
