package editor

import (
	"testing"

	apperrors "github.com/SAP-F-2025/form-service/internal/errors"
	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComprehension_SubQuestions(t *testing.T) {
	e := New(nil)
	q, err := e.AddQuestion(models.Comprehension)
	require.NoError(t, err)
	ce, err := e.Comprehension(q.ID)
	require.NoError(t, err)

	ce.SetPassage("Go was announced in 2009.")
	sq := ce.AddSubQuestion()
	assert.Len(t, sq.Options, models.ComprehensionOptionCount)
	assert.Equal(t, 0, sq.CorrectOptionIndex)
	assert.NotEmpty(t, sq.ID)

	require.NoError(t, ce.UpdateSubQuestion(0, FieldPrompt, "When was Go announced?"))
	require.NoError(t, ce.UpdateSubQuestion(0, FieldCorrectOptionIndex, float64(2)))
	require.NoError(t, ce.UpdateOption(0, 2, "2009"))

	got := ce.p.SubQuestions[0]
	assert.Equal(t, "When was Go announced?", got.Prompt)
	assert.Equal(t, 2, got.CorrectOptionIndex)
	assert.Equal(t, "2009", got.Options[2])
	assert.Equal(t, "Go was announced in 2009.", ce.p.Passage)
}

func TestComprehension_Errors(t *testing.T) {
	e := New(nil)
	q, _ := e.AddQuestion(models.Comprehension)
	ce, _ := e.Comprehension(q.ID)
	ce.AddSubQuestion()

	assert.ErrorIs(t, ce.UpdateSubQuestion(1, FieldPrompt, "x"), apperrors.ErrOutOfRange)
	assert.ErrorIs(t, ce.UpdateSubQuestion(0, FieldCorrectOptionIndex, 4), apperrors.ErrOutOfRange)
	assert.ErrorIs(t, ce.UpdateOption(0, -1, "x"), apperrors.ErrOutOfRange)
	assert.ErrorIs(t, ce.RemoveSubQuestion(3), apperrors.ErrOutOfRange)

	var verrs apperrors.ValidationErrors
	assert.ErrorAs(t, ce.UpdateSubQuestion(0, FieldCorrectOptionIndex, 1.5), &verrs)
	assert.ErrorAs(t, ce.UpdateSubQuestion(0, FieldPrompt, 3), &verrs)
	assert.ErrorAs(t, ce.UpdateSubQuestion(0, "passage", "x"), &verrs)

	require.NoError(t, ce.RemoveSubQuestion(0))
	assert.Empty(t, ce.p.SubQuestions)
}
