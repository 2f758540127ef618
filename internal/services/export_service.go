package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

const (
	exportSheetName = "Responses"
	exportPageSize  = 100
	exportTimeFmt   = "2006-01-02 15:04:05"
)

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ===== EXPORT OPERATIONS =====

func (s *exportService) ExportResponsesToExcel(ctx context.Context, formID string) ([]byte, error) {
	form, responses, err := loadFormResponses(ctx, s.repo, formID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	// the default sheet is renamed rather than adding a second one
	if err := f.SetSheetName(f.GetSheetName(0), exportSheetName); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	for rowIndex, row := range exportRows(form, responses) {
		for colIndex, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIndex+1, rowIndex+1)
			if err != nil {
				return nil, fmt.Errorf("failed to address Excel cell: %w", err)
			}
			if err := f.SetCellValue(exportSheetName, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write Excel cell: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Exported responses", "form_id", formID, "format", "xlsx", "rows", len(responses))
	return buf.Bytes(), nil
}

func (s *exportService) ExportResponsesToCSV(ctx context.Context, formID string) ([]byte, error) {
	form, responses, err := loadFormResponses(ctx, s.repo, formID)
	if err != nil {
		return nil, err
	}

	var buf strings.Builder
	writer := csv.NewWriter(&buf)
	if err := writer.WriteAll(exportRows(form, responses)); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	s.logger.Info("Exported responses", "form_id", formID, "format", "csv", "rows", len(responses))
	return []byte(buf.String()), nil
}

// loadFormResponses reads the caller's form and every response, newest first.
func loadFormResponses(ctx context.Context, repo repositories.Repository, formID string) (*models.Form, []*models.FormResponse, error) {
	form, err := getOwnedForm(ctx, repo, formID)
	if err != nil {
		return nil, nil, err
	}

	var all []*models.FormResponse
	for offset := 0; ; offset += exportPageSize {
		page, total, err := repo.Responses().ListByForm(ctx, formID, repositories.ResponseFilters{
			Limit:  exportPageSize,
			Offset: offset,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to list responses: %w", err)
		}
		all = append(all, page...)
		if len(page) < exportPageSize || int64(len(all)) >= total {
			break
		}
	}
	return form, all, nil
}

// exportRows lays out one header row and one row per response, one column per question.
func exportRows(form *models.Form, responses []*models.FormResponse) [][]string {
	header := []string{"Submitted At", "Name", "Email"}
	for _, q := range form.Questions {
		header = append(header, q.Prompt)
	}

	rows := [][]string{header}
	for _, resp := range responses {
		byQuestion := make(map[string]models.AnswerValue, len(resp.Answers))
		for _, a := range resp.Answers {
			byQuestion[a.QuestionID] = a.Value
		}

		row := []string{
			resp.SubmittedAt.UTC().Format(exportTimeFmt),
			resp.Respondent.Name,
			resp.Respondent.Email,
		}
		for i := range form.Questions {
			q := &form.Questions[i]
			row = append(row, formatAnswer(q, byQuestion[q.ID]))
		}
		rows = append(rows, row)
	}
	return rows
}

// formatAnswer renders an answer as a single cell.
func formatAnswer(q *models.Question, v models.AnswerValue) string {
	switch q.Type {
	case models.Categorize:
		return joinSorted(v.Placements, func(item string, col models.Column) string {
			return item + " -> " + string(col)
		})
	case models.Cloze:
		return joinSorted(v.Blanks, func(id, fragment string) string {
			return id + ": " + fragment
		})
	case models.Comprehension:
		parts := make([]string, 0, len(v.Selections))
		for i, sel := range v.Selections {
			label := strconv.Itoa(sel + 1)
			if q.Comprehension != nil && i < len(q.Comprehension.SubQuestions) {
				if opts := q.Comprehension.SubQuestions[i].Options; sel >= 0 && sel < len(opts) {
					label = opts[sel]
				}
			}
			parts = append(parts, fmt.Sprintf("%d. %s", i+1, label))
		}
		return strings.Join(parts, "; ")
	default:
		return v.Text
	}
}

func joinSorted[V any](m map[string]V, format func(string, V) string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, format(k, m[k]))
	}
	return strings.Join(parts, "; ")
}
