package editor

import (
	"testing"

	apperrors "github.com/SAP-F-2025/form-service/internal/errors"
	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestEditor_AddUpdateDelete(t *testing.T) {
	e := New(nil)
	assert.Equal(t, models.DefaultTitle, e.Form().Title)

	q, err := e.AddQuestion(models.MultipleChoice)
	require.NoError(t, err)
	require.Len(t, e.Form().Questions, 1)
	assert.Equal(t, []string{}, e.Form().Questions[0].Choice.Options)

	ok, err := e.UpdateQuestion(q.ID, QuestionPatch{
		Prompt:   ptr("Favourite colour?"),
		Required: ptr(true),
		Options:  &[]string{"Red", "Blue"},
	})
	require.NoError(t, err)
	assert.True(t, ok)

	got, _ := e.Form().FindQuestion(q.ClientID)
	assert.Equal(t, "Favourite colour?", got.Prompt)
	assert.True(t, got.Required)
	assert.Equal(t, []string{"Red", "Blue"}, got.Choice.Options)

	assert.True(t, e.DeleteQuestion(q.ID))
	assert.False(t, e.DeleteQuestion(q.ID))
	assert.Empty(t, e.Form().Questions)

	_, err = e.AddQuestion("matrix")
	assert.Error(t, err)
}

func TestEditor_UpdateUnknownQuestion(t *testing.T) {
	lenient := New(nil)
	ok, err := lenient.UpdateQuestion("missing", QuestionPatch{Prompt: ptr("x")})
	assert.NoError(t, err)
	assert.False(t, ok)

	strict := New(nil, Strict())
	ok, err = strict.UpdateQuestion("missing", QuestionPatch{Prompt: ptr("x")})
	assert.False(t, ok)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestEditor_ChangeTypeResetsPayload(t *testing.T) {
	e := New(nil)
	q, err := e.AddQuestion(models.MultipleChoice)
	require.NoError(t, err)
	_, err = e.UpdateQuestion(q.ID, QuestionPatch{Options: &[]string{"a"}})
	require.NoError(t, err)

	_, err = e.UpdateQuestion(q.ID, QuestionPatch{Type: ptr(models.Cloze)})
	require.NoError(t, err)

	got, _ := e.Form().FindQuestion(q.ID)
	assert.Equal(t, models.Cloze, got.Type)
	assert.Nil(t, got.Choice)
	require.NotNil(t, got.Cloze)
	assert.Empty(t, got.Cloze.BlankOptions)

	_, err = e.UpdateQuestion(q.ID, QuestionPatch{Options: &[]string{"a"}})
	assert.Error(t, err)
}

func TestEditor_ReorderAndSections(t *testing.T) {
	e := New(nil)
	a, _ := e.AddQuestion(models.Text)
	b, _ := e.AddQuestion(models.Text)
	c, _ := e.AddQuestion(models.Text)

	require.NoError(t, e.ReorderQuestions(2, 0))
	ids := []string{}
	for _, q := range e.Form().Questions {
		ids = append(ids, q.ID)
	}
	assert.Equal(t, []string{c.ID, a.ID, b.ID}, ids)

	assert.ErrorIs(t, e.ReorderQuestions(0, 3), apperrors.ErrOutOfRange)

	assert.True(t, e.SetSection(a.ID, "  Part 1 "))
	assert.False(t, e.SetSection("missing", "Part 1"))
	got, _ := e.Form().FindQuestion(a.ID)
	assert.Equal(t, "Part 1", got.Section)
}

func TestEditor_ReorderOptions(t *testing.T) {
	e := New(nil)
	q, _ := e.AddQuestion(models.MultipleChoice)
	_, err := e.UpdateQuestion(q.ID, QuestionPatch{Options: &[]string{"a", "b", "c"}})
	require.NoError(t, err)

	require.NoError(t, e.ReorderOptions(q.ID, 0, 2))
	got, _ := e.Form().FindQuestion(q.ID)
	assert.Equal(t, []string{"b", "c", "a"}, got.Choice.Options)

	cq, _ := e.AddQuestion(models.Cloze)
	assert.Error(t, e.ReorderOptions(cq.ID, 0, 1))
	assert.ErrorIs(t, e.ReorderOptions("missing", 0, 1), apperrors.ErrNotFound)
}

func TestEditor_SubEditorTypeMismatch(t *testing.T) {
	e := New(nil)
	q, _ := e.AddQuestion(models.Cloze)

	_, err := e.Categorize(q.ID)
	var verrs apperrors.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	_, err = e.Comprehension("missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// A form titled "Quiz" with one cloze question blanking "Paris".
func TestEditor_ParisScenario(t *testing.T) {
	e := New(nil)
	e.SetTitle("Quiz")
	q, err := e.AddQuestion(models.Cloze)
	require.NoError(t, err)

	_, err = e.UpdateQuestion(q.ID, QuestionPatch{
		Prompt:    ptr("Fill in the capital"),
		ClozeText: ptr("The capital of France is Paris."),
	})
	require.NoError(t, err)

	cloze, err := e.Cloze(q.ID)
	require.NoError(t, err)
	id := cloze.CreateBlank("Paris")
	assert.Equal(t, "blank_1", id)

	got, _ := e.Form().FindQuestion(q.ID)
	assert.Equal(t, "The capital of France is [blank_1].", got.Cloze.Text)
	assert.Equal(t, []string{"Paris"}, got.Cloze.BlankOptions)
	assert.Equal(t, map[string]string{"blank_1": "Paris"}, got.Cloze.BlankKey)
}
