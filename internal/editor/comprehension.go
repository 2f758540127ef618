package editor

import (
	apperrors "github.com/SAP-F-2025/form-service/internal/errors"
	"github.com/SAP-F-2025/form-service/internal/models"
)

// ComprehensionEditor edits the sub-questions of a comprehension question.
type ComprehensionEditor struct {
	p *models.ComprehensionPayload
}

// SubQuestionField names the sub-question field UpdateSubQuestion may change.
type SubQuestionField string

const (
	FieldPrompt             SubQuestionField = "prompt"
	FieldCorrectOptionIndex SubQuestionField = "correctOptionIndex"
)

func (e *ComprehensionEditor) SetPassage(passage string) {
	e.p.Passage = passage
}

// AddSubQuestion appends a sub-question with four empty options and option 0 as the answer.
func (e *ComprehensionEditor) AddSubQuestion() models.SubQuestion {
	sq := models.SubQuestion{
		ID:                 "s" + models.NewClientToken(),
		Options:            make([]string, models.ComprehensionOptionCount),
		CorrectOptionIndex: 0,
	}
	e.p.SubQuestions = append(e.p.SubQuestions, sq)
	return sq
}

// UpdateSubQuestion sets the prompt (string) or the correct option index (int).
func (e *ComprehensionEditor) UpdateSubQuestion(index int, field SubQuestionField, value any) error {
	sq, err := e.subQuestion(index)
	if err != nil {
		return err
	}

	switch field {
	case FieldPrompt:
		prompt, ok := value.(string)
		if !ok {
			return invalidValue("prompt", value, "must be a string")
		}
		sq.Prompt = prompt
	case FieldCorrectOptionIndex:
		idx, ok := toInt(value)
		if !ok {
			return invalidValue("correctOptionIndex", value, "must be an integer")
		}
		if idx < 0 || idx >= len(sq.Options) {
			return apperrors.NewIndexError("correctOptionIndex", idx, len(sq.Options))
		}
		sq.CorrectOptionIndex = idx
	default:
		return invalidValue("field", field, "must be prompt or correctOptionIndex")
	}
	return nil
}

// UpdateOption sets the text of one option of a sub-question.
func (e *ComprehensionEditor) UpdateOption(index, optionIndex int, value string) error {
	sq, err := e.subQuestion(index)
	if err != nil {
		return err
	}
	if optionIndex < 0 || optionIndex >= len(sq.Options) {
		return apperrors.NewIndexError("options", optionIndex, len(sq.Options))
	}
	sq.Options[optionIndex] = value
	return nil
}

// RemoveSubQuestion deletes the sub-question at index.
func (e *ComprehensionEditor) RemoveSubQuestion(index int) error {
	if _, err := e.subQuestion(index); err != nil {
		return err
	}
	e.p.SubQuestions = append(e.p.SubQuestions[:index], e.p.SubQuestions[index+1:]...)
	return nil
}

func (e *ComprehensionEditor) subQuestion(index int) (*models.SubQuestion, error) {
	if index < 0 || index >= len(e.p.SubQuestions) {
		return nil, apperrors.NewIndexError("subQuestions", index, len(e.p.SubQuestions))
	}
	return &e.p.SubQuestions[index], nil
}

// toInt accepts the numeric forms a decoded JSON body can carry.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

func invalidValue(field string, value any, message string) error {
	return apperrors.ValidationErrors{
		*apperrors.NewValidationErrorWithRule(field, message, "type", value),
	}
}
