// Package collector gathers a respondent's answers for one form.
package collector

import (
	"strconv"

	apperrors "github.com/SAP-F-2025/form-service/internal/errors"
	"github.com/SAP-F-2025/form-service/internal/models"
)

// Collector records answers keyed by question. It is not safe for concurrent use.
type Collector struct {
	form    *models.Form
	answers map[string]models.AnswerValue
}

func New(form *models.Form) *Collector {
	return &Collector{form: form, answers: make(map[string]models.AnswerValue)}
}

// RecordAnswer stores value for the question, replacing any earlier answer.
// questionID may be the canonical or the client id. A value that does not fit the
// question's variant is rejected with ValidationErrors and nothing is stored.
func (c *Collector) RecordAnswer(questionID string, value models.AnswerValue) error {
	q, ok := c.form.FindQuestion(questionID)
	if !ok {
		return apperrors.NewNotFoundError("question", questionID)
	}
	if errs := CheckShape(q, value); len(errs) > 0 {
		return errs
	}
	c.answers[q.ID] = value
	return nil
}

// Answers returns the recorded answers keyed by canonical question id.
func (c *Collector) Answers() map[string]models.AnswerValue {
	out := make(map[string]models.AnswerValue, len(c.answers))
	for k, v := range c.answers {
		out[k] = v
	}
	return out
}

// Finalize returns the answers in form order. Every required question without a
// non-empty answer is reported as a violation and no answers are returned.
func (c *Collector) Finalize() ([]models.Answer, error) {
	var errs apperrors.ValidationErrors
	answers := make([]models.Answer, 0, len(c.answers))

	for i, q := range c.form.Questions {
		value, ok := c.answers[q.ID]
		if !ok || value.IsEmpty() {
			if q.Required {
				errs.Add("answers["+strconv.Itoa(i)+"]", "is required", "required", q.ID)
			}
			continue
		}
		answers = append(answers, models.Answer{QuestionID: q.ID, Type: q.Type, Value: value})
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return answers, nil
}
