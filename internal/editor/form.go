package editor

import (
	"fmt"
	"strings"

	apperrors "github.com/SAP-F-2025/form-service/internal/errors"
	"github.com/SAP-F-2025/form-service/internal/models"
)

// Editor applies authoring operations to a draft form.
// It is not safe for concurrent use; callers serialise access per session.
type Editor struct {
	form   *models.Form
	strict bool
}

type Option func(*Editor)

// Strict makes UpdateQuestion report an unknown question id as a not-found error
// instead of ignoring it.
func Strict() Option {
	return func(e *Editor) { e.strict = true }
}

// New wraps form. A nil form starts a fresh untitled draft.
func New(form *models.Form, opts ...Option) *Editor {
	if form == nil {
		form = models.NewForm()
	}
	e := &Editor{form: form}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Form returns the draft being edited.
func (e *Editor) Form() *models.Form {
	return e.form
}

func (e *Editor) SetTitle(title string) {
	e.form.Title = title
}

func (e *Editor) SetHeaderImage(image string) {
	e.form.HeaderImage = image
}

// AddQuestion appends a question of type t with a fresh id and the type's default payload.
func (e *Editor) AddQuestion(t models.QuestionType) (models.Question, error) {
	q, err := models.NewQuestion(t)
	if err != nil {
		return models.Question{}, apperrors.ValidationErrors{
			*apperrors.NewValidationErrorWithRule("type", err.Error(), "question_type", t),
		}
	}
	e.form.Questions = append(e.form.Questions, q)
	return q, nil
}

// QuestionPatch lists the fields UpdateQuestion may change. Nil fields are left untouched.
type QuestionPatch struct {
	Type     *models.QuestionType `json:"type,omitempty" validate:"omitempty,question_type"`
	Prompt   *string              `json:"prompt,omitempty"`
	Required *bool                `json:"required,omitempty"`
	Section  *string              `json:"section,omitempty"`
	Image    *string              `json:"image,omitempty"`

	// Options replaces the options of a text, multiple-choice or image question.
	Options *[]string `json:"options,omitempty"`
	// Passage replaces a comprehension passage.
	Passage *string `json:"passage,omitempty"`
	// ClozeText replaces the cloze text, markers included.
	ClozeText *string `json:"clozeText,omitempty"`
}

// UpdateQuestion merges patch into the question whose id or client id is id and reports
// whether a question was updated. An unknown id is ignored unless the editor is strict.
// Changing the type replaces the payload with the new type's default.
func (e *Editor) UpdateQuestion(id string, patch QuestionPatch) (bool, error) {
	q, ok := e.form.FindQuestion(id)
	if !ok {
		if e.strict {
			return false, apperrors.NewNotFoundError("question", id)
		}
		return false, nil
	}

	if patch.Type != nil && *patch.Type != q.Type {
		payload, err := models.DefaultPayload(*patch.Type)
		if err != nil {
			return false, apperrors.ValidationErrors{
				*apperrors.NewValidationErrorWithRule("type", err.Error(), "question_type", *patch.Type),
			}
		}
		q.Type = *patch.Type
		q.SetPayload(payload)
	}
	if patch.Prompt != nil {
		q.Prompt = *patch.Prompt
	}
	if patch.Required != nil {
		q.Required = *patch.Required
	}
	if patch.Section != nil {
		q.Section = strings.TrimSpace(*patch.Section)
	}
	if patch.Image != nil {
		q.Image = *patch.Image
	}
	if patch.Options != nil {
		if q.Choice == nil {
			return false, wrongType(q, "text, multiple-choice or image")
		}
		q.Choice.Options = append([]string{}, (*patch.Options)...)
	}
	if patch.Passage != nil {
		if q.Comprehension == nil {
			return false, wrongType(q, string(models.Comprehension))
		}
		q.Comprehension.Passage = *patch.Passage
	}
	if patch.ClozeText != nil {
		if q.Cloze == nil {
			return false, wrongType(q, string(models.Cloze))
		}
		q.Cloze.Text = *patch.ClozeText
	}

	return true, nil
}

// DeleteQuestion removes the question and reports whether it existed.
func (e *Editor) DeleteQuestion(id string) bool {
	i := e.form.IndexOf(id)
	if i < 0 {
		return false
	}
	e.form.Questions = append(e.form.Questions[:i], e.form.Questions[i+1:]...)
	return true
}

// ReorderQuestions moves the question at position from to position to.
func (e *Editor) ReorderQuestions(from, to int) error {
	reordered, err := Reorder(e.form.Questions, from, to)
	if err != nil {
		return err
	}
	e.form.Questions = reordered
	return nil
}

// SetSection labels the question with a section. An empty label clears it.
func (e *Editor) SetSection(id, label string) bool {
	q, ok := e.form.FindQuestion(id)
	if !ok {
		return false
	}
	q.Section = strings.TrimSpace(label)
	return true
}

// ReorderOptions moves an option of a text, multiple-choice or image question.
func (e *Editor) ReorderOptions(id string, from, to int) error {
	q, err := e.question(id)
	if err != nil {
		return err
	}
	if q.Choice == nil {
		return wrongType(q, "text, multiple-choice or image")
	}
	reordered, err := Reorder(q.Choice.Options, from, to)
	if err != nil {
		return err
	}
	q.Choice.Options = reordered
	return nil
}

// Categorize returns the sub-editor for a categorize question.
func (e *Editor) Categorize(id string) (*CategorizeEditor, error) {
	q, err := e.question(id)
	if err != nil {
		return nil, err
	}
	if q.Type != models.Categorize || q.Categorize == nil {
		return nil, wrongType(q, string(models.Categorize))
	}
	return &CategorizeEditor{p: q.Categorize}, nil
}

// Cloze returns the sub-editor for a cloze question.
func (e *Editor) Cloze(id string) (*ClozeEditor, error) {
	q, err := e.question(id)
	if err != nil {
		return nil, err
	}
	if q.Type != models.Cloze || q.Cloze == nil {
		return nil, wrongType(q, string(models.Cloze))
	}
	return &ClozeEditor{p: q.Cloze}, nil
}

// Comprehension returns the sub-editor for a comprehension question.
func (e *Editor) Comprehension(id string) (*ComprehensionEditor, error) {
	q, err := e.question(id)
	if err != nil {
		return nil, err
	}
	if q.Type != models.Comprehension || q.Comprehension == nil {
		return nil, wrongType(q, string(models.Comprehension))
	}
	return &ComprehensionEditor{p: q.Comprehension}, nil
}

func (e *Editor) question(id string) (*models.Question, error) {
	q, ok := e.form.FindQuestion(id)
	if !ok {
		return nil, apperrors.NewNotFoundError("question", id)
	}
	return q, nil
}

func wrongType(q *models.Question, want string) error {
	return apperrors.ValidationErrors{
		*apperrors.NewValidationErrorWithRule("type", fmt.Sprintf("question %s is %s, not %s", q.ID, q.Type, want), "question_type", q.Type),
	}
}
