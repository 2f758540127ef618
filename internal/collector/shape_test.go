package collector

import (
	"testing"

	apperrors "github.com/SAP-F-2025/form-service/internal/errors"
	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shapeForm(t *testing.T) *models.Form {
	t.Helper()
	form := models.NewForm()

	cat, err := models.NewQuestion(models.Categorize)
	require.NoError(t, err)
	cat.Required = true
	cat.Categorize.Pool = []models.PoolItem{{Text: "Berlin", CorrectColumn: models.Column1}}
	cat.Categorize.Column2 = []models.PlacedItem{{Text: "Tokyo"}}

	cloze, err := models.NewQuestion(models.Cloze)
	require.NoError(t, err)
	cloze.Cloze.Text = "The capital of France is [blank_1]."
	cloze.Cloze.BlankOptions = []string{"Paris", "Lyon"}
	cloze.Cloze.BlankKey = map[string]string{"blank_1": "Paris"}

	comp, err := models.NewQuestion(models.Comprehension)
	require.NoError(t, err)
	comp.Comprehension.SubQuestions = []models.SubQuestion{
		{ID: "s1", Options: []string{"a", "b", "c", "d"}},
		{ID: "s2", Options: []string{"a", "b", "c", "d"}},
	}

	mc, err := models.NewQuestion(models.MultipleChoice)
	require.NoError(t, err)
	mc.Choice.Options = []string{"a", "b"}

	text, err := models.NewQuestion(models.Text)
	require.NoError(t, err)

	img, err := models.NewQuestion(models.Image)
	require.NoError(t, err)

	form.Questions = append(form.Questions, cat, cloze, comp, mc, text, img)
	return form
}

func TestCollector_RecordAnswerShape(t *testing.T) {
	form := shapeForm(t)
	cat, cloze, comp, mc, text, img := form.Questions[0], form.Questions[1], form.Questions[2], form.Questions[3], form.Questions[4], form.Questions[5]

	tests := []struct {
		name     string
		question models.Question
		value    models.AnswerValue
		fields   []string
	}{
		{
			name:     "categorize placements",
			question: cat,
			value:    models.AnswerValue{Placements: map[string]models.Column{"Berlin": models.Column1, "Tokyo": models.Column2}},
		},
		{
			name:     "categorize text instead of placements",
			question: cat,
			value:    models.AnswerValue{Text: "not a placement"},
			fields:   []string{"value.text"},
		},
		{
			name:     "categorize unknown column",
			question: cat,
			value:    models.AnswerValue{Placements: map[string]models.Column{"Berlin": "column9"}},
			fields:   []string{"value.placements.Berlin"},
		},
		{
			name:     "categorize pool is not a destination",
			question: cat,
			value:    models.AnswerValue{Placements: map[string]models.Column{"Berlin": models.Pool}},
			fields:   []string{"value.placements.Berlin"},
		},
		{
			name:     "categorize unknown item",
			question: cat,
			value:    models.AnswerValue{Placements: map[string]models.Column{"Madrid": models.Column1}},
			fields:   []string{"value.placements.Madrid"},
		},
		{
			name:     "cloze fill",
			question: cloze,
			value:    models.AnswerValue{Blanks: map[string]string{"blank_1": "Lyon"}},
		},
		{
			name:     "cloze unknown blank",
			question: cloze,
			value:    models.AnswerValue{Blanks: map[string]string{"blank_2": "Paris"}},
			fields:   []string{"value.blanks.blank_2"},
		},
		{
			name:     "cloze fragment not offered",
			question: cloze,
			value:    models.AnswerValue{Blanks: map[string]string{"blank_1": "Rome"}},
			fields:   []string{"value.blanks.blank_1"},
		},
		{
			name:     "cloze selections",
			question: cloze,
			value:    models.AnswerValue{Selections: []int{0}},
			fields:   []string{"value.selections"},
		},
		{
			name:     "comprehension selections with a skip",
			question: comp,
			value:    models.AnswerValue{Selections: []int{3, -1}},
		},
		{
			name:     "comprehension out of range",
			question: comp,
			value:    models.AnswerValue{Selections: []int{99, -2}},
			fields:   []string{"value.selections[0]", "value.selections[1]"},
		},
		{
			name:     "comprehension too many selections",
			question: comp,
			value:    models.AnswerValue{Selections: []int{0, 1, 2}},
			fields:   []string{"value.selections"},
		},
		{
			name:     "multiple choice listed option",
			question: mc,
			value:    models.AnswerValue{Text: "b"},
		},
		{
			name:     "multiple choice unlisted option",
			question: mc,
			value:    models.AnswerValue{Text: "zzz", Selections: []int{99}},
			fields:   []string{"value.selections", "value.text"},
		},
		{
			name:     "text accepts anything",
			question: text,
			value:    models.AnswerValue{Text: "zzz"},
		},
		{
			name:     "image without options is free text",
			question: img,
			value:    models.AnswerValue{Text: "a cat"},
		},
		{
			name:     "text with blanks",
			question: text,
			value:    models.AnswerValue{Blanks: map[string]string{"blank_1": "x"}},
			fields:   []string{"value.blanks"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(form)
			err := c.RecordAnswer(tt.question.ID, tt.value)
			if tt.fields == nil {
				require.NoError(t, err)
				assert.Contains(t, c.Answers(), tt.question.ID)
				return
			}

			var verrs apperrors.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tt.fields, verrs.Fields())
			assert.Empty(t, c.Answers())
		})
	}
}

func TestCollector_MismatchedAnswerDoesNotSatisfyRequired(t *testing.T) {
	form := shapeForm(t)
	c := New(form)

	err := c.RecordAnswer(form.Questions[0].ID, models.AnswerValue{Text: "not a placement"})
	require.Error(t, err)

	_, err = c.Finalize()
	var verrs apperrors.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, []string{"answers[0]"}, verrs.Fields())
}
