package services

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/repositories"
)

type analyticsService struct {
	repo   repositories.Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewAnalyticsService(repo repositories.Repository, logger *slog.Logger) AnalyticsService {
	return &analyticsService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// ===== DATA STRUCTURES =====

type FormAnalytics struct {
	FormID          string               `json:"formId"`
	Title           string               `json:"title"`
	TotalResponses  int                  `json:"totalResponses"`
	FirstResponseAt *time.Time           `json:"firstResponseAt,omitempty"`
	LastResponseAt  *time.Time           `json:"lastResponseAt,omitempty"`
	QuestionStats   []QuestionStatistics `json:"questionStats"`
	GeneratedAt     time.Time            `json:"generatedAt"`
}

// QuestionStatistics counts answers to one question. CorrectAnswers and CorrectRate are set
// only for question types that carry an answer key.
type QuestionStatistics struct {
	QuestionID     string              `json:"questionId"`
	Prompt         string              `json:"prompt"`
	Type           models.QuestionType `json:"type"`
	TotalAnswers   int                 `json:"totalAnswers"`
	SkippedCount   int                 `json:"skippedCount"`
	CorrectAnswers *int                `json:"correctAnswers,omitempty"`
	CorrectRate    *float64            `json:"correctRate,omitempty"`
	OptionAnalysis []OptionAnalysis    `json:"optionAnalysis,omitempty"`
}

type OptionAnalysis struct {
	OptionText  string  `json:"optionText"`
	SelectCount int     `json:"selectCount"`
	SelectRate  float64 `json:"selectRate"`
}

// GetFormAnalytics summarises every response to the form, question by question.
func (s *analyticsService) GetFormAnalytics(ctx context.Context, formID string) (*FormAnalytics, error) {
	s.logger.Info("Generating form analytics", "form_id", formID)

	form, responses, err := loadFormResponses(ctx, s.repo, formID)
	if err != nil {
		return nil, err
	}

	analytics := &FormAnalytics{
		FormID:         form.ID,
		Title:          form.Title,
		TotalResponses: len(responses),
		QuestionStats:  make([]QuestionStatistics, 0, len(form.Questions)),
		GeneratedAt:    s.now().UTC(),
	}
	if len(responses) > 0 {
		// newest first
		first, last := responses[len(responses)-1].SubmittedAt, responses[0].SubmittedAt
		analytics.FirstResponseAt, analytics.LastResponseAt = &first, &last
	}

	for i := range form.Questions {
		analytics.QuestionStats = append(analytics.QuestionStats, questionStatistics(&form.Questions[i], responses))
	}
	return analytics, nil
}

func questionStatistics(q *models.Question, responses []*models.FormResponse) QuestionStatistics {
	stats := QuestionStatistics{QuestionID: q.ID, Prompt: q.Prompt, Type: q.Type}

	var answers []models.AnswerValue
	for _, resp := range responses {
		if value, ok := findAnswer(resp, q.ID); ok && !value.IsEmpty() {
			answers = append(answers, value)
		}
	}
	stats.TotalAnswers = len(answers)
	stats.SkippedCount = len(responses) - len(answers)

	if q.Type == models.MultipleChoice && q.Choice != nil {
		stats.OptionAnalysis = optionAnalysis(q.Choice.Options, answers)
	}

	if keyed(q) {
		correct := 0
		for _, a := range answers {
			if isCorrect(q, a) {
				correct++
			}
		}
		stats.CorrectAnswers = &correct
		rate := ratio(correct, len(answers))
		stats.CorrectRate = &rate
	}
	return stats
}

func findAnswer(resp *models.FormResponse, questionID string) (models.AnswerValue, bool) {
	for _, a := range resp.Answers {
		if a.QuestionID == questionID {
			return a.Value, true
		}
	}
	return models.AnswerValue{}, false
}

func optionAnalysis(options []string, answers []models.AnswerValue) []OptionAnalysis {
	counts := make(map[string]int, len(options))
	for _, a := range answers {
		counts[a.Text]++
	}

	analysis := make([]OptionAnalysis, 0, len(options))
	for _, option := range options {
		analysis = append(analysis, OptionAnalysis{
			OptionText:  option,
			SelectCount: counts[option],
			SelectRate:  ratio(counts[option], len(answers)),
		})
	}
	return analysis
}

func keyed(q *models.Question) bool {
	switch q.Type {
	case models.Categorize:
		return q.Categorize != nil
	case models.Cloze:
		return q.Cloze != nil
	case models.Comprehension:
		return q.Comprehension != nil
	default:
		return false
	}
}

// isCorrect reports whether the answer matches the question's key in full.
func isCorrect(q *models.Question, a models.AnswerValue) bool {
	switch q.Type {
	case models.Categorize:
		p := q.Categorize
		key := make(map[string]models.Column, len(p.Pool)+len(p.Column1)+len(p.Column2))
		for _, item := range p.Pool {
			key[item.Text] = item.CorrectColumn
		}
		for _, item := range p.Column1 {
			key[item.Text] = models.Column1
		}
		for _, item := range p.Column2 {
			key[item.Text] = models.Column2
		}
		for text, column := range key {
			if a.Placements[text] != column {
				return false
			}
		}
		return true

	case models.Cloze:
		for _, id := range q.Cloze.BlankIDs() {
			if a.Blanks[id] != q.Cloze.BlankKey[id] {
				return false
			}
		}
		return true

	case models.Comprehension:
		subs := q.Comprehension.SubQuestions
		if len(a.Selections) != len(subs) {
			return false
		}
		for i, sq := range subs {
			if a.Selections[i] != sq.CorrectOptionIndex {
				return false
			}
		}
		return true
	}
	return false
}

func ratio(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(n)/float64(total)*10000) / 10000
}
