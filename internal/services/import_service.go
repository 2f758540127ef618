package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/validator"
	"github.com/xuri/excelize/v2"
)

// Import columns. Options are separated by "|".
const (
	columnType     = "type"
	columnPrompt   = "prompt"
	columnRequired = "required"
	columnSection  = "section"
	columnOptions  = "options"
	columnImage    = "image"

	optionSeparator = "|"
)

type importService struct {
	forms     FormService
	validator *validator.Validator
	logger    *slog.Logger
}

func NewImportService(forms FormService, v *validator.Validator, logger *slog.Logger) ImportService {
	return &importService{
		forms:     forms,
		validator: v,
		logger:    logger,
	}
}

func (s *importService) ImportQuestionsFromFile(ctx context.Context, formID string, file io.Reader, filename string) (*models.ImportResult, error) {
	s.logger.Info("Starting question import", "form_id", formID, "filename", filename)

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		return s.ImportQuestionsFromCSV(ctx, formID, file)
	case ".xlsx":
		return s.ImportQuestionsFromExcel(ctx, formID, file)
	default:
		return nil, ValidationErrors{*NewValidationError("file", "unsupported file format, use .csv or .xlsx", ext)}
	}
}

func (s *importService) ImportQuestionsFromCSV(ctx context.Context, formID string, reader io.Reader) (*models.ImportResult, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, ValidationErrors{*NewValidationError("file", "failed to read CSV: "+err.Error(), nil)}
	}
	return s.importRows(ctx, formID, records)
}

func (s *importService) ImportQuestionsFromExcel(ctx context.Context, formID string, reader io.Reader) (*models.ImportResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, ValidationErrors{*NewValidationError("file", "failed to open Excel file: "+err.Error(), nil)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ValidationErrors{*NewValidationError("file", "Excel file has no sheets", nil)}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	return s.importRows(ctx, formID, rows)
}

// importRows appends every valid row to the form and saves it once. Invalid rows are reported, not saved.
func (s *importService) importRows(ctx context.Context, formID string, rows [][]string) (*models.ImportResult, error) {
	if len(rows) < 2 {
		return nil, ValidationErrors{*NewValidationError("file", "must have a header row and at least one data row", len(rows))}
	}

	headerMap := make(map[string]int)
	for i, header := range rows[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, col := range []string{columnType, columnPrompt} {
		if _, ok := headerMap[col]; !ok {
			return nil, ValidationErrors{*NewValidationError("headers", "missing required column: "+col, col)}
		}
	}

	form, err := s.forms.Get(ctx, formID)
	if err != nil {
		return nil, err
	}

	result := &models.ImportResult{
		TotalRows: len(rows) - 1,
		Errors:    []models.ImportRowError{},
		Status:    models.ImportValidationFailed,
	}

	for i, record := range rows[1:] {
		if blankRow(record) {
			result.TotalRows--
			continue
		}
		q, rowErrors := s.parseRow(record, headerMap, i+2)
		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			result.ErrorCount++
			continue
		}
		form.Questions = append(form.Questions, q)
		result.SuccessCount++
	}

	if result.SuccessCount > 0 {
		saved, err := s.forms.Save(ctx, form)
		if err != nil {
			return nil, fmt.Errorf("failed to save imported questions: %w", err)
		}
		result.Form = saved
		result.Status = models.ImportCompleted
	}

	s.logger.Info("Question import completed",
		"form_id", formID,
		"total_rows", result.TotalRows,
		"success_count", result.SuccessCount,
		"error_count", result.ErrorCount)

	return result, nil
}

func (s *importService) parseRow(record []string, headerMap map[string]int, row int) (models.Question, []models.ImportRowError) {
	cell := func(col string) string {
		if i, ok := headerMap[col]; ok && i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}
	rowError := func(col, message, value, code string) []models.ImportRowError {
		return []models.ImportRowError{{Row: row, Column: col, Message: message, Value: value, Code: code}}
	}

	qt := models.QuestionType(strings.ToLower(cell(columnType)))
	switch qt {
	case models.Text, models.MultipleChoice, models.Image:
	default:
		return models.Question{}, rowError(columnType, "only text, multiple-choice and image questions can be imported", string(qt), "question_type")
	}

	q, err := models.NewQuestion(qt)
	if err != nil {
		return models.Question{}, rowError(columnType, err.Error(), string(qt), "question_type")
	}
	q.Prompt = cell(columnPrompt)
	q.Section = cell(columnSection)
	q.Image = cell(columnImage)

	if raw := cell(columnRequired); raw != "" {
		required, err := strconv.ParseBool(raw)
		if err != nil {
			return models.Question{}, rowError(columnRequired, "must be true or false", raw, "boolean")
		}
		q.Required = required
	}
	if raw := cell(columnOptions); raw != "" {
		for _, option := range strings.Split(raw, optionSeparator) {
			q.Choice.Options = append(q.Choice.Options, strings.TrimSpace(option))
		}
	}

	var errs []models.ImportRowError
	for _, v := range s.validator.Question().Validate(&q) {
		errs = append(errs, models.ImportRowError{
			Row:     row,
			Column:  importColumn(v.Field),
			Message: v.Message,
			Value:   fmt.Sprint(v.Value),
			Code:    v.Rule,
		})
	}
	return q, errs
}

// importColumn maps a question field path such as "choice.options[1]" to its sheet column.
func importColumn(field string) string {
	if strings.HasPrefix(field, "choice.") {
		return columnOptions
	}
	return field
}

func blankRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
