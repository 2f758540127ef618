// Package render projects questions and forms into display models a UI paints.
// Rendering never modifies the form. Fill mode never exposes answer keys.
package render

import (
	"fmt"

	"github.com/SAP-F-2025/form-service/internal/models"
)

type Mode string

const (
	ModeEdit Mode = "edit"
	ModeFill Mode = "fill"
)

// ParseMode accepts "edit" or "fill"; an empty string means edit.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeEdit:
		return ModeEdit, nil
	case ModeFill:
		return ModeFill, nil
	default:
		return "", fmt.Errorf("unknown render mode %q", s)
	}
}

// Affordance names an interaction the UI offers on a rendered question.
type Affordance string

// Edit mode affordances.
const (
	EditPrompt        Affordance = "edit-prompt"
	ToggleRequired    Affordance = "toggle-required"
	SetSection        Affordance = "set-section"
	ChangeType        Affordance = "change-type"
	SetImage          Affordance = "set-image"
	DeleteQuestion    Affordance = "delete-question"
	ReorderQuestion   Affordance = "reorder-question"
	AddPoolItem       Affordance = "add-pool-item"
	MoveItem          Affordance = "move-item"
	RemoveItem        Affordance = "remove-item"
	EditClozeText     Affordance = "edit-cloze-text"
	CreateBlank       Affordance = "create-blank"
	AddOption         Affordance = "add-option"
	RemoveOption      Affordance = "remove-option"
	EditPassage       Affordance = "edit-passage"
	AddSubQuestion    Affordance = "add-sub-question"
	EditSubQuestion   Affordance = "edit-sub-question"
	RemoveSubQuestion Affordance = "remove-sub-question"
	EditOptions       Affordance = "edit-options"
	ReorderOptions    Affordance = "reorder-options"
)

// Fill mode affordances.
const (
	DragItemToColumn    Affordance = "drag-item-to-column"
	DragFragmentToBlank Affordance = "drag-fragment-to-blank"
	SelectSubOption     Affordance = "select-sub-question-option"
	ChooseOption        Affordance = "choose-option"
	EnterText           Affordance = "enter-text"
)

// DisplayModel is the rendered form of one question.
type DisplayModel struct {
	QuestionID  string              `json:"questionId"`
	Type        models.QuestionType `json:"type"`
	Mode        Mode                `json:"mode"`
	Prompt      string              `json:"prompt"`
	Required    bool                `json:"required"`
	Section     string              `json:"section,omitempty"`
	Image       string              `json:"image,omitempty"`
	Affordances []Affordance        `json:"affordances"`

	Categorize    *CategorizeView    `json:"categorize,omitempty"`
	Cloze         *ClozeView         `json:"cloze,omitempty"`
	Comprehension *ComprehensionView `json:"comprehension,omitempty"`
	Choice        *ChoiceView        `json:"choice,omitempty"`
}

type ItemView struct {
	Text string `json:"text"`
	// CorrectColumn is only set in edit mode.
	CorrectColumn models.Column `json:"correctColumn,omitempty"`
}

type CategorizeView struct {
	Column1 []ItemView `json:"column1"`
	Column2 []ItemView `json:"column2"`
	Pool    []ItemView `json:"pool"`
}

// Segment is a run of cloze text or a blank.
type Segment struct {
	Text    string `json:"text,omitempty"`
	BlankID string `json:"blankId,omitempty"`
	// Fill is the key fragment in edit mode and the respondent's fragment in fill mode.
	Fill string `json:"fill,omitempty"`
}

type ClozeView struct {
	Segments []Segment `json:"segments"`
	Options  []string  `json:"options"`
}

type SubQuestionView struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	// CorrectOptionIndex is only set in edit mode.
	CorrectOptionIndex *int `json:"correctOptionIndex,omitempty"`
	Selected           *int `json:"selected,omitempty"`
}

type ComprehensionView struct {
	Passage      string            `json:"passage"`
	SubQuestions []SubQuestionView `json:"subQuestions"`
}

type ChoiceView struct {
	Options []string `json:"options"`
	// Value is the chosen option or entered text in fill mode.
	Value string `json:"value,omitempty"`
}

// Render projects q for mode. answer carries the respondent's current input in fill mode
// and may be nil.
func Render(q *models.Question, mode Mode, answer *models.AnswerValue) DisplayModel {
	if answer == nil {
		answer = &models.AnswerValue{}
	}
	edit := mode == ModeEdit

	dm := DisplayModel{
		QuestionID: q.ID,
		Type:       q.Type,
		Mode:       mode,
		Prompt:     q.Prompt,
		Required:   q.Required,
		Section:    q.Section,
		Image:      q.Image,
	}
	if edit {
		dm.Affordances = []Affordance{EditPrompt, ToggleRequired, SetSection, ChangeType, SetImage, DeleteQuestion, ReorderQuestion}
	} else {
		dm.Affordances = []Affordance{}
	}

	switch p := q.Payload().(type) {
	case *models.CategorizePayload:
		dm.Categorize = renderCategorize(p, edit, answer)
		if edit {
			dm.Affordances = append(dm.Affordances, AddPoolItem, MoveItem, RemoveItem)
		} else {
			dm.Affordances = append(dm.Affordances, DragItemToColumn)
		}
	case *models.ClozePayload:
		dm.Cloze = renderCloze(p, edit, answer)
		if edit {
			dm.Affordances = append(dm.Affordances, EditClozeText, CreateBlank, AddOption, RemoveOption)
		} else {
			dm.Affordances = append(dm.Affordances, DragFragmentToBlank)
		}
	case *models.ComprehensionPayload:
		dm.Comprehension = renderComprehension(p, edit, answer)
		if edit {
			dm.Affordances = append(dm.Affordances, EditPassage, AddSubQuestion, EditSubQuestion, RemoveSubQuestion)
		} else {
			dm.Affordances = append(dm.Affordances, SelectSubOption)
		}
	case *models.ChoicePayload:
		dm.Choice = &ChoiceView{Options: append([]string{}, p.Options...)}
		if edit {
			dm.Affordances = append(dm.Affordances, EditOptions, ReorderOptions)
			break
		}
		dm.Choice.Value = answer.Text
		if q.Type == models.Text || len(p.Options) == 0 {
			dm.Affordances = append(dm.Affordances, EnterText)
		} else {
			dm.Affordances = append(dm.Affordances, ChooseOption)
		}
	}

	return dm
}

func renderCategorize(p *models.CategorizePayload, edit bool, answer *models.AnswerValue) *CategorizeView {
	view := &CategorizeView{Column1: []ItemView{}, Column2: []ItemView{}, Pool: []ItemView{}}

	if edit {
		for _, item := range p.Column1 {
			view.Column1 = append(view.Column1, ItemView{Text: item.Text, CorrectColumn: models.Column1})
		}
		for _, item := range p.Column2 {
			view.Column2 = append(view.Column2, ItemView{Text: item.Text, CorrectColumn: models.Column2})
		}
		for _, item := range p.Pool {
			view.Pool = append(view.Pool, ItemView{Text: item.Text, CorrectColumn: item.CorrectColumn})
		}
		return view
	}

	// Every item starts in the pool; the respondent's placements move it.
	place := func(text string) {
		switch answer.Placements[text] {
		case models.Column1:
			view.Column1 = append(view.Column1, ItemView{Text: text})
		case models.Column2:
			view.Column2 = append(view.Column2, ItemView{Text: text})
		default:
			view.Pool = append(view.Pool, ItemView{Text: text})
		}
	}
	for _, item := range p.Pool {
		place(item.Text)
	}
	for _, item := range p.Column1 {
		place(item.Text)
	}
	for _, item := range p.Column2 {
		place(item.Text)
	}
	return view
}

func renderCloze(p *models.ClozePayload, edit bool, answer *models.AnswerValue) *ClozeView {
	view := &ClozeView{Segments: []Segment{}, Options: append([]string{}, p.BlankOptions...)}

	last := 0
	for _, m := range models.BlankMarker.FindAllStringSubmatchIndex(p.Text, -1) {
		if m[0] > last {
			view.Segments = append(view.Segments, Segment{Text: p.Text[last:m[0]]})
		}
		id := p.Text[m[2]:m[3]]
		seg := Segment{BlankID: id}
		if edit {
			seg.Fill = p.BlankKey[id]
		} else {
			seg.Fill = answer.Blanks[id]
		}
		view.Segments = append(view.Segments, seg)
		last = m[1]
	}
	if last < len(p.Text) {
		view.Segments = append(view.Segments, Segment{Text: p.Text[last:]})
	}
	return view
}

func renderComprehension(p *models.ComprehensionPayload, edit bool, answer *models.AnswerValue) *ComprehensionView {
	view := &ComprehensionView{Passage: p.Passage, SubQuestions: make([]SubQuestionView, 0, len(p.SubQuestions))}
	for i, sq := range p.SubQuestions {
		sv := SubQuestionView{ID: sq.ID, Prompt: sq.Prompt, Options: append([]string{}, sq.Options...)}
		if edit {
			idx := sq.CorrectOptionIndex
			sv.CorrectOptionIndex = &idx
		} else if i < len(answer.Selections) && answer.Selections[i] >= 0 {
			sel := answer.Selections[i]
			sv.Selected = &sel
		}
		view.SubQuestions = append(view.SubQuestions, sv)
	}
	return view
}
