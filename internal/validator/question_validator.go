package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/SAP-F-2025/form-service/internal/models"
)

// QuestionValidator handles question-specific validation
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// Validate checks a single question and returns every violation found.
// Field paths are relative to the question ("prompt", "cloze.blankKey.blank_1").
func (v *QuestionValidator) Validate(q *models.Question) ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(q.Prompt) == "" {
		errs.Add("prompt", "is required", "required", q.Prompt)
	}

	if !q.Type.Valid() {
		errs.Add("type", "must be a valid question type (categorize, cloze, comprehension, text, multiple-choice, image)", "question_type", q.Type)
		return errs
	}

	payload := q.Payload()
	if payload == nil {
		errs.Add(payloadField(q.Type), fmt.Sprintf("is required for %s questions", q.Type), "required", nil)
		return errs
	}
	for _, stray := range strayPayloads(q) {
		errs.Add(stray, fmt.Sprintf("must not be set for %s questions", q.Type), "excluded", nil)
	}

	switch p := payload.(type) {
	case *models.CategorizePayload:
		errs.Merge("categorize", v.validateCategorize(p))
	case *models.ClozePayload:
		errs.Merge("cloze", v.validateCloze(p))
	case *models.ComprehensionPayload:
		errs.Merge("comprehension", v.validateComprehension(p))
	case *models.ChoicePayload:
		if q.Type == models.MultipleChoice {
			errs.Merge("choice", v.validateMultipleChoice(p))
		}
	}

	return errs
}

// ValidateBatch validates multiple questions, prefixing violations with "questions[i]".
func (v *QuestionValidator) ValidateBatch(questions []models.Question) ValidationErrors {
	var errs ValidationErrors
	for i := range questions {
		errs.Merge(indexed("questions", i), v.Validate(&questions[i]))
	}
	return errs
}

// Private validation methods for each question type

func (v *QuestionValidator) validateCategorize(p *models.CategorizePayload) ValidationErrors {
	var errs ValidationErrors
	seen := make(map[string]string)

	checkText := func(field, text string) {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			errs.Add(field, "must not be blank", "not_blank", text)
			return
		}
		if first, ok := seen[trimmed]; ok {
			errs.Add(field, fmt.Sprintf("duplicates %s", first), "unique", text)
			return
		}
		seen[trimmed] = field
	}

	for i, item := range p.Pool {
		field := indexed("pool", i)
		checkText(field+".text", item.Text)
		if !item.CorrectColumn.IsBucket() {
			errs.Add(field+".correctColumn", "must be column1 or column2", "column_name", item.CorrectColumn)
		}
	}
	for i, item := range p.Column1 {
		checkText(indexed("column1", i)+".text", item.Text)
	}
	for i, item := range p.Column2 {
		checkText(indexed("column2", i)+".text", item.Text)
	}

	return errs
}

func (v *QuestionValidator) validateCloze(p *models.ClozePayload) ValidationErrors {
	var errs ValidationErrors

	for _, id := range p.BlankIDs() {
		if _, ok := p.BlankKey[id]; !ok {
			errs.Add("blankKey."+id, fmt.Sprintf("is required for marker [%s]", id), "required", nil)
		}
	}

	ids := make([]string, 0, len(p.BlankKey))
	for id := range p.BlankKey {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if fragment := p.BlankKey[id]; !p.HasOption(fragment) {
			errs.Add("blankKey."+id, "must be one of blankOptions", "oneof", fragment)
		}
	}

	return errs
}

func (v *QuestionValidator) validateComprehension(p *models.ComprehensionPayload) ValidationErrors {
	var errs ValidationErrors

	for i, sq := range p.SubQuestions {
		field := indexed("subQuestions", i)
		if len(sq.Options) != models.ComprehensionOptionCount {
			errs.Add(field+".options", fmt.Sprintf("must have exactly %d elements", models.ComprehensionOptionCount), "len", len(sq.Options))
		}
		if sq.CorrectOptionIndex < 0 || sq.CorrectOptionIndex >= models.ComprehensionOptionCount {
			errs.Add(field+".correctOptionIndex", fmt.Sprintf("must be between 0 and %d", models.ComprehensionOptionCount-1), "range", sq.CorrectOptionIndex)
		}
	}

	return errs
}

func (v *QuestionValidator) validateMultipleChoice(p *models.ChoicePayload) ValidationErrors {
	var errs ValidationErrors

	if len(p.Options) == 0 {
		errs.Add("options", "must be at least 1", "min", 0)
		return errs
	}

	seen := make(map[string]bool, len(p.Options))
	for i, option := range p.Options {
		field := indexed("options", i)
		trimmed := strings.TrimSpace(option)
		switch {
		case trimmed == "":
			errs.Add(field, "must not be blank", "not_blank", option)
		case seen[trimmed]:
			errs.Add(field, "must be unique", "unique", option)
		default:
			seen[trimmed] = true
		}
	}

	return errs
}

func payloadField(t models.QuestionType) string {
	switch t {
	case models.Categorize:
		return "categorize"
	case models.Cloze:
		return "cloze"
	case models.Comprehension:
		return "comprehension"
	default:
		return "choice"
	}
}

// strayPayloads lists payload fields set for a type other than the question's own.
func strayPayloads(q *models.Question) []string {
	own := payloadField(q.Type)
	var stray []string
	if q.Categorize != nil && own != "categorize" {
		stray = append(stray, "categorize")
	}
	if q.Cloze != nil && own != "cloze" {
		stray = append(stray, "cloze")
	}
	if q.Comprehension != nil && own != "comprehension" {
		stray = append(stray, "comprehension")
	}
	if q.Choice != nil && own != "choice" {
		stray = append(stray, "choice")
	}
	return stray
}
