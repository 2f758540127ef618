package render

import "github.com/SAP-F-2025/form-service/internal/models"

type BlockKind string

const (
	BlockSection  BlockKind = "section"
	BlockQuestion BlockKind = "question"
)

// Block is either a section header or a rendered question.
type Block struct {
	Kind     BlockKind     `json:"kind"`
	Section  string        `json:"section,omitempty"`
	Question *DisplayModel `json:"question,omitempty"`
}

type FormView struct {
	ID          string  `json:"id,omitempty"`
	ShareID     string  `json:"shareId,omitempty"`
	Title       string  `json:"title"`
	HeaderImage string  `json:"headerImage,omitempty"`
	Mode        Mode    `json:"mode"`
	Blocks      []Block `json:"blocks"`
}

// RenderForm renders every question in order. A section header block precedes a question
// whose non-empty section differs from the section of the question right before it.
// answers is keyed by question id or client id and may be nil.
func RenderForm(form *models.Form, mode Mode, answers map[string]models.AnswerValue) FormView {
	view := FormView{
		ShareID:     form.ShareID,
		Title:       form.Title,
		HeaderImage: form.HeaderImage,
		Mode:        mode,
		Blocks:      make([]Block, 0, len(form.Questions)),
	}
	if mode == ModeEdit {
		view.ID = form.ID
	}

	previous := ""
	for i := range form.Questions {
		q := &form.Questions[i]
		if q.Section != "" && q.Section != previous {
			view.Blocks = append(view.Blocks, Block{Kind: BlockSection, Section: q.Section})
		}
		previous = q.Section

		dm := Render(q, mode, lookupAnswer(answers, q))
		view.Blocks = append(view.Blocks, Block{Kind: BlockQuestion, Question: &dm})
	}
	return view
}

func lookupAnswer(answers map[string]models.AnswerValue, q *models.Question) *models.AnswerValue {
	if v, ok := answers[q.ID]; ok {
		return &v
	}
	if q.ClientID != "" {
		if v, ok := answers[q.ClientID]; ok {
			return &v
		}
	}
	return nil
}
