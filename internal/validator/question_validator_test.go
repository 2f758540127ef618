package validator

import (
	"testing"

	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuestion(t *testing.T, qt models.QuestionType, prompt string) models.Question {
	t.Helper()
	q, err := models.NewQuestion(qt)
	require.NoError(t, err)
	q.Prompt = prompt
	return q
}

func TestQuestionValidator_Prompt(t *testing.T) {
	v := NewQuestionValidator()

	q := newQuestion(t, models.Text, "   ")
	errs := v.Validate(&q)
	assert.Equal(t, []string{"prompt"}, errs.Fields())

	q.Prompt = "Your name?"
	assert.Empty(t, v.Validate(&q))
}

func TestQuestionValidator_Payload(t *testing.T) {
	v := NewQuestionValidator()

	t.Run("missing", func(t *testing.T) {
		q := newQuestion(t, models.Cloze, "Fill in")
		q.Cloze = nil
		errs := v.Validate(&q)
		require.Len(t, errs, 1)
		assert.Equal(t, "cloze", errs[0].Field)
		assert.Equal(t, "required", errs[0].Rule)
	})

	t.Run("mismatched tag", func(t *testing.T) {
		q := newQuestion(t, models.Categorize, "Sort")
		q.Choice = &models.ChoicePayload{Options: []string{"a"}}
		errs := v.Validate(&q)
		assert.Equal(t, []string{"choice"}, errs.Fields())
	})

	t.Run("unknown type", func(t *testing.T) {
		q := models.Question{ID: "q_1", Type: "matrix", Prompt: "?"}
		errs := v.Validate(&q)
		require.Len(t, errs, 1)
		assert.Equal(t, "question_type", errs[0].Rule)
	})
}

func TestQuestionValidator_Categorize(t *testing.T) {
	v := NewQuestionValidator()
	q := newQuestion(t, models.Categorize, "Sort the animals")
	q.Categorize.Pool = []models.PoolItem{
		{Text: "Cat", CorrectColumn: models.Column1},
		{Text: "  ", CorrectColumn: models.Column2},
		{Text: "Shark", CorrectColumn: models.Pool},
	}
	q.Categorize.Column1 = []models.PlacedItem{{Text: "Cat"}}

	errs := v.Validate(&q)
	assert.ElementsMatch(t, []string{
		"categorize.pool[1].text",
		"categorize.pool[2].correctColumn",
		"categorize.column1[0].text",
	}, errs.Fields())
}

func TestQuestionValidator_Cloze(t *testing.T) {
	v := NewQuestionValidator()

	tests := []struct {
		name   string
		text   string
		opts   []string
		key    map[string]string
		fields []string
	}{
		{
			name:   "valid",
			text:   "The capital of France is [blank_1].",
			opts:   []string{"Paris", "Lyon"},
			key:    map[string]string{"blank_1": "Paris"},
			fields: nil,
		},
		{
			name:   "marker without key",
			text:   "[blank_1] and [blank_2]",
			opts:   []string{"a"},
			key:    map[string]string{"blank_1": "a"},
			fields: []string{"cloze.blankKey.blank_2"},
		},
		{
			name:   "key fragment not an option",
			text:   "[blank_1]",
			opts:   []string{},
			key:    map[string]string{"blank_1": "Paris"},
			fields: []string{"cloze.blankKey.blank_1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newQuestion(t, models.Cloze, "Fill in the blank")
			q.Cloze.Text = tt.text
			q.Cloze.BlankOptions = tt.opts
			q.Cloze.BlankKey = tt.key

			assert.Equal(t, tt.fields, v.Validate(&q).Fields())
		})
	}
}

func TestQuestionValidator_Comprehension(t *testing.T) {
	v := NewQuestionValidator()
	q := newQuestion(t, models.Comprehension, "Read the passage")
	q.Comprehension.SubQuestions = []models.SubQuestion{
		{ID: "s1", Prompt: "ok", Options: []string{"a", "b", "c", "d"}, CorrectOptionIndex: 3},
		{ID: "s2", Prompt: "bad", Options: []string{"a", "b"}, CorrectOptionIndex: 4},
	}

	errs := v.Validate(&q)
	assert.Equal(t, []string{
		"comprehension.subQuestions[1].options",
		"comprehension.subQuestions[1].correctOptionIndex",
	}, errs.Fields())
}

func TestQuestionValidator_MultipleChoice(t *testing.T) {
	v := NewQuestionValidator()

	q := newQuestion(t, models.MultipleChoice, "Pick one")
	errs := v.Validate(&q)
	assert.Equal(t, []string{"choice.options"}, errs.Fields())

	q.Choice.Options = []string{"Red", "", "Red", "Blue"}
	errs = v.Validate(&q)
	assert.Equal(t, []string{"choice.options[1]", "choice.options[2]"}, errs.Fields())

	// text and image questions accept any options
	img := newQuestion(t, models.Image, "Describe the picture")
	assert.Empty(t, v.Validate(&img))
}

func TestValidator_ValidateForm(t *testing.T) {
	v := New()

	form := models.NewForm()
	form.Title = "Quiz"
	good := newQuestion(t, models.Text, "Name")
	bad := newQuestion(t, models.MultipleChoice, "")
	form.Questions = append(form.Questions, good, bad)

	err := v.ValidateForm(form)
	require.Error(t, err)

	errs, ok := err.(ValidationErrors)
	require.True(t, ok)
	assert.Equal(t, []string{"questions[1].prompt", "questions[1].choice.options"}, errs.Fields())

	form.Questions = form.Questions[:1]
	assert.NoError(t, v.ValidateForm(form))

	form.Title = ""
	err = v.ValidateForm(form)
	require.Error(t, err)
	assert.Equal(t, []string{"title"}, err.(ValidationErrors).Fields())
}

func TestValidator_CustomTags(t *testing.T) {
	v := New()

	type request struct {
		Type   string `json:"type" validate:"required,question_type"`
		Column string `json:"column" validate:"omitempty,column_name"`
		Text   string `json:"text" validate:"not_blank"`
	}

	assert.NoError(t, v.ValidateStruct(request{Type: "cloze", Column: "column2", Text: "x"}))

	err := v.ValidateStruct(request{Type: "essay", Column: "pool", Text: " "})
	require.Error(t, err)
	errs := err.(ValidationErrors)
	assert.Equal(t, []string{"type", "column", "text"}, errs.Fields())
	assert.Equal(t, "must be column1 or column2", errs[1].Message)
}

func TestValidator_ValidateFormDuplicateIDs(t *testing.T) {
	v := New()

	first := newQuestion(t, models.Text, "Name")
	first.ID, first.ClientID = "x", ""
	second := newQuestion(t, models.Text, "Email")
	second.ID, second.ClientID = "x", ""
	third := newQuestion(t, models.Text, "Phone")
	third.ClientID = "x"

	form := models.NewForm()
	form.Questions = []models.Question{first, second, third}

	err := v.ValidateForm(form)
	require.Error(t, err)
	errs := err.(ValidationErrors)
	assert.Equal(t, []string{"questions[1].id", "questions[2].clientId"}, errs.Fields())
	assert.Equal(t, "unique", errs[0].Rule)
	assert.Equal(t, "duplicates questions[0]", errs[0].Message)

	// a fresh question carries its token as both id and client id
	fresh := newQuestion(t, models.Text, "Fresh")
	form.Questions = []models.Question{first, fresh}
	assert.NoError(t, v.ValidateForm(form))
}
