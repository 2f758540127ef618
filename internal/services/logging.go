package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/form-service/internal/utils"
)

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *slog.Logger
}

func NewServiceLogger(logger *slog.Logger, service string) *ServiceLogger {
	return &ServiceLogger{logger: logger.With("service", service)}
}

// ===== OPERATION LOGGING =====

// LogOperation logs the outcome of an operation. Expected failures such as
// validation errors and share-rule conflicts are logged at warn, store failures at error.
func (l *ServiceLogger) LogOperation(ctx context.Context, operation, resourceID, resourceType string, duration time.Duration, err error) {
	status := errorStatus(err)

	level := slog.LevelInfo
	switch status {
	case "validation_error", "conflict":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("resource_id", resourceID),
		slog.String("resource_type", resourceType),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		if validationErr, ok := err.(ValidationErrors); ok {
			attrs = append(attrs, slog.Int("validation_errors_count", len(validationErr)))
			attrs = append(attrs, validationAttrs(validationErr)...)
		}
	}

	if requestID, ok := ctx.Value(utils.RequestIDKey).(string); ok && requestID != "" {
		attrs = append(attrs, slog.String("request_id", requestID))
	}

	l.logger.LogAttrs(ctx, level, fmt.Sprintf("%s operation %s", operation, status), attrs...)
}

// validationAttrs groups the first few violations to avoid log spam.
func validationAttrs(errs ValidationErrors) []slog.Attr {
	var attrs []slog.Attr
	for i, err := range errs {
		if i >= 5 {
			break
		}
		attrs = append(attrs, slog.Group(fmt.Sprintf("error_%d", i+1),
			slog.String("field", err.Field),
			slog.String("message", err.Message),
		))
	}
	return attrs
}

// ===== HELPERS =====

// OperationLogger times one operation and logs its result.
type OperationLogger struct {
	logger       *ServiceLogger
	ctx          context.Context
	operation    string
	resourceType string
	startTime    time.Time
}

func (l *ServiceLogger) WithOperation(ctx context.Context, operation, resourceType string) *OperationLogger {
	return &OperationLogger{
		logger:       l,
		ctx:          ctx,
		operation:    operation,
		resourceType: resourceType,
		startTime:    time.Now(),
	}
}

func (ol *OperationLogger) LogResult(resourceID string, err error) {
	ol.logger.LogOperation(ol.ctx, ol.operation, resourceID, ol.resourceType, time.Since(ol.startTime), err)
}
