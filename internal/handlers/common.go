package handlers

import (
	"errors"
	"net/http"

	apperrors "github.com/SAP-F-2025/form-service/internal/errors"
	"github.com/SAP-F-2025/form-service/internal/services"
	"github.com/SAP-F-2025/form-service/internal/utils"
	"github.com/SAP-F-2025/form-service/internal/validator"
	"github.com/gin-gonic/gin"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

const internalErrorMessage = "internal server error"

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging and error mapping for all handlers
type BaseHandler struct {
	logger    utils.Logger
	validator *validator.Validator
}

func NewBaseHandler(logger utils.Logger, v *validator.Validator) BaseHandler {
	return BaseHandler{logger: logger, validator: v}
}

// LogRequest logs incoming HTTP requests with context information
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := []interface{}{"user_id", c.GetString(UserIDKey)}
	utils.GetLoggerFromContext(c, h.logger).Info(message, append(fields, additionalFields...)...)
}

// LogError logs error details with context information
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	fields := []interface{}{"user_id", c.GetString(UserIDKey)}
	utils.GetLoggerFromContext(c, h.logger).LogError(err, message, append(fields, additionalFields...)...)
}

// RespondWithError sends a consistent error response and logs it
func (h *BaseHandler) RespondWithError(c *gin.Context, statusCode int, message string, err error, details ...interface{}) {
	errorResp := ErrorResponse{Message: message}
	if len(details) > 0 {
		errorResp.Details = details[0]
	}

	if err != nil && statusCode >= http.StatusInternalServerError {
		h.LogError(c, err, message, "status_code", statusCode)
	}

	c.JSON(statusCode, errorResp)
}

// bindJSON decodes the body into req and runs struct validation on it.
// It writes the 400 response itself and reports whether the handler may continue.
func (h *BaseHandler) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", nil, err.Error())
		return false
	}
	if h.validator != nil {
		if err := h.validator.ValidateStruct(req); err != nil {
			h.handleServiceError(c, err)
			return false
		}
	}
	return true
}

// handleServiceError maps the error taxonomy onto HTTP status codes.
// Store and unexpected failures never leak their message.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	var conflict *apperrors.ConflictError
	if errors.As(err, &conflict) {
		status := http.StatusForbidden
		if conflict.Reason == apperrors.ReasonSaveInProgress {
			status = http.StatusConflict
		}
		c.JSON(status, ErrorResponse{
			Message: conflict.Message,
			Code:    string(conflict.Reason),
		})
		return
	}

	var notFound *apperrors.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: capitalize(notFound.Resource) + " not found",
		})
		return
	}

	if errors.Is(err, apperrors.ErrOutOfRange) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Position out of range",
			Details: err.Error(),
		})
		return
	}

	h.RespondWithError(c, http.StatusInternalServerError, internalErrorMessage, err)
}

// HealthCheck reports that the process is serving requests.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "form-service"})
}
