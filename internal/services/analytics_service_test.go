package services

import (
	"context"
	"testing"
	"time"

	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsService_GetFormAnalytics(t *testing.T) {
	env := newTestEnv(t)
	form := exportFixture(t, env)

	later := time.Date(2025, 5, 5, 9, 0, 0, 0, time.UTC)
	env.responses.now = func() time.Time { return later }
	_, err := env.responses.Submit(context.Background(), form.ShareID, &SubmitResponseRequest{
		Respondent: models.Respondent{Name: "Bob", Email: "bob@example.com"},
		Answers: []AnswerInput{
			{QuestionID: form.Questions[0].ID, Value: models.AnswerValue{Text: "Bob"}},
			{QuestionID: form.Questions[2].ID, Value: models.AnswerValue{Placements: map[string]models.Column{
				"Dog": models.Column2, "Oak": models.Column2,
			}}},
			{QuestionID: form.Questions[3].ID, Value: models.AnswerValue{Selections: []int{0}}},
		},
	})
	require.NoError(t, err)

	analytics, err := NewAnalyticsService(env.repo, env.forms.logger).GetFormAnalytics(context.Background(), form.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, analytics.TotalResponses)
	require.NotNil(t, analytics.FirstResponseAt)
	assert.Equal(t, time.Date(2025, 5, 4, 10, 30, 0, 0, time.UTC), analytics.FirstResponseAt.UTC())
	assert.Equal(t, later, analytics.LastResponseAt.UTC())
	require.Len(t, analytics.QuestionStats, 4)

	name, comments, sorting, reading := analytics.QuestionStats[0], analytics.QuestionStats[1], analytics.QuestionStats[2], analytics.QuestionStats[3]

	assert.Equal(t, 2, name.TotalAnswers)
	assert.Nil(t, name.CorrectRate)

	assert.Equal(t, 0, comments.TotalAnswers)
	assert.Equal(t, 2, comments.SkippedCount)

	// Ada sorted correctly, Bob did not
	require.NotNil(t, sorting.CorrectAnswers)
	assert.Equal(t, 1, *sorting.CorrectAnswers)
	assert.Equal(t, 0.5, *sorting.CorrectRate)

	// Ada picked C, Bob picked the key A
	assert.Equal(t, 1, *reading.CorrectAnswers)
}

func TestAnalyticsService_OptionAnalysis(t *testing.T) {
	env := newTestEnv(t)

	mc, err := models.NewQuestion(models.MultipleChoice)
	require.NoError(t, err)
	mc.Prompt = "Colour"
	mc.Choice.Options = []string{"Red", "Blue", "Green"}

	form := sharedForm(t, env, func(f *models.Form) {
		f.ShareSettings.SubmitOnce = false
		f.Questions = []models.Question{mc}
	})

	for _, pick := range []string{"Red", "Blue", "Red"} {
		_, err := env.responses.Submit(context.Background(), form.ShareID, &SubmitResponseRequest{
			Respondent: models.Respondent{Email: "x@example.com"},
			Answers:    []AnswerInput{{QuestionID: form.Questions[0].ID, Value: models.AnswerValue{Text: pick}}},
		})
		require.NoError(t, err)
	}

	analytics, err := NewAnalyticsService(env.repo, env.forms.logger).GetFormAnalytics(context.Background(), form.ID)
	require.NoError(t, err)

	assert.Equal(t, []OptionAnalysis{
		{OptionText: "Red", SelectCount: 2, SelectRate: 0.6667},
		{OptionText: "Blue", SelectCount: 1, SelectRate: 0.3333},
		{OptionText: "Green", SelectCount: 0, SelectRate: 0},
	}, analytics.QuestionStats[0].OptionAnalysis)
}

func TestAnalyticsService_NotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := NewAnalyticsService(env.repo, env.forms.logger).GetFormAnalytics(context.Background(), "missing")
	assert.True(t, IsNotFound(err))
}

func TestIsCorrect_Cloze(t *testing.T) {
	q, err := models.NewQuestion(models.Cloze)
	require.NoError(t, err)
	q.Cloze.Text = "[blank_1] is in [blank_2]"
	q.Cloze.BlankKey = map[string]string{"blank_1": "Paris", "blank_2": "France"}

	assert.True(t, isCorrect(&q, models.AnswerValue{Blanks: map[string]string{"blank_1": "Paris", "blank_2": "France"}}))
	assert.False(t, isCorrect(&q, models.AnswerValue{Blanks: map[string]string{"blank_1": "Paris"}}))
}
