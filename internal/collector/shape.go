package collector

import (
	"fmt"
	"sort"
	"strconv"

	apperrors "github.com/SAP-F-2025/form-service/internal/errors"
	"github.com/SAP-F-2025/form-service/internal/models"
)

// CheckShape reports every way value does not fit the variant of q.
// Field paths are rooted at "value" ("value.placements.Berlin", "value.selections[0]").
func CheckShape(q *models.Question, value models.AnswerValue) apperrors.ValidationErrors {
	var errs apperrors.ValidationErrors

	excluded := func(field string, set bool) {
		if set {
			errs.Add("value."+field, fmt.Sprintf("must not be set for %s questions", q.Type), "excluded", nil)
		}
	}

	switch q.Type {
	case models.Categorize:
		excluded("text", value.Text != "")
		excluded("blanks", len(value.Blanks) > 0)
		excluded("selections", len(value.Selections) > 0)
		if q.Categorize != nil {
			checkPlacements(&errs, q.Categorize, value.Placements)
		}
	case models.Cloze:
		excluded("text", value.Text != "")
		excluded("placements", len(value.Placements) > 0)
		excluded("selections", len(value.Selections) > 0)
		if q.Cloze != nil {
			checkBlanks(&errs, q.Cloze, value.Blanks)
		}
	case models.Comprehension:
		excluded("text", value.Text != "")
		excluded("placements", len(value.Placements) > 0)
		excluded("blanks", len(value.Blanks) > 0)
		if q.Comprehension != nil {
			checkSelections(&errs, q.Comprehension, value.Selections)
		}
	default:
		excluded("placements", len(value.Placements) > 0)
		excluded("blanks", len(value.Blanks) > 0)
		excluded("selections", len(value.Selections) > 0)
		if q.Type != models.Text && q.Choice != nil && value.Text != "" && len(q.Choice.Options) > 0 && !contains(q.Choice.Options, value.Text) {
			errs.Add("value.text", "must be one of the question's options", "oneof", value.Text)
		}
	}

	return errs
}

func checkPlacements(errs *apperrors.ValidationErrors, p *models.CategorizePayload, placements map[string]models.Column) {
	items := make(map[string]bool, len(p.Pool)+len(p.Column1)+len(p.Column2))
	for _, item := range p.Pool {
		items[item.Text] = true
	}
	for _, item := range p.Column1 {
		items[item.Text] = true
	}
	for _, item := range p.Column2 {
		items[item.Text] = true
	}

	for _, text := range sortedKeys(placements) {
		field := "value.placements." + text
		switch column := placements[text]; {
		case !items[text]:
			errs.Add(field, "is not an item of this question", "exists", text)
		case !column.IsBucket():
			errs.Add(field, "must be column1 or column2", "column_name", column)
		}
	}
}

func checkBlanks(errs *apperrors.ValidationErrors, p *models.ClozePayload, blanks map[string]string) {
	ids := make(map[string]bool)
	for _, id := range p.BlankIDs() {
		ids[id] = true
	}

	for _, id := range sortedKeys(blanks) {
		field := "value.blanks." + id
		switch fragment := blanks[id]; {
		case !ids[id]:
			errs.Add(field, "is not a blank of this question", "exists", id)
		case fragment != "" && !p.HasOption(fragment):
			errs.Add(field, "must be one of blankOptions", "oneof", fragment)
		}
	}
}

// checkSelections allows -1 for a sub-question left unanswered.
func checkSelections(errs *apperrors.ValidationErrors, p *models.ComprehensionPayload, selections []int) {
	if len(selections) > len(p.SubQuestions) {
		errs.Add("value.selections", fmt.Sprintf("must have at most %d elements", len(p.SubQuestions)), "max", len(selections))
		return
	}
	for i, sel := range selections {
		if sel < -1 || sel >= models.ComprehensionOptionCount {
			errs.Add("value.selections["+strconv.Itoa(i)+"]", fmt.Sprintf("must be between -1 and %d", models.ComprehensionOptionCount-1), "range", sel)
		}
	}
}

func contains(options []string, s string) bool {
	for _, o := range options {
		if o == s {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
