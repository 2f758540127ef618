package models

import (
	"time"

	"gorm.io/datatypes"
)

type Respondent struct {
	Name  string `json:"name" bson:"name" gorm:"size:255"`
	Email string `json:"email" bson:"email" gorm:"size:255;index:idx_form_respondent_email" validate:"omitempty,email"`
}

// AnswerValue holds the answer for one question. Which field is set depends on the question type:
// Text for text, multiple-choice and image; Placements (item -> column) for categorize;
// Blanks (blank id -> fragment) for cloze; Selections (option index per sub-question) for comprehension.
type AnswerValue struct {
	Text       string            `json:"text,omitempty" bson:"text,omitempty"`
	Placements map[string]Column `json:"placements,omitempty" bson:"placements,omitempty"`
	Blanks     map[string]string `json:"blanks,omitempty" bson:"blanks,omitempty"`
	Selections []int             `json:"selections,omitempty" bson:"selections,omitempty"`
}

// IsEmpty reports whether nothing was answered.
func (v AnswerValue) IsEmpty() bool {
	return v.Text == "" && len(v.Placements) == 0 && len(v.Blanks) == 0 && len(v.Selections) == 0
}

type Answer struct {
	QuestionID string       `json:"questionId" bson:"questionId"`
	Type       QuestionType `json:"type" bson:"type"`
	Value      AnswerValue  `json:"value" bson:"value"`
}

// FormResponse is one submission. It is never modified after creation.
type FormResponse struct {
	ID          string                      `json:"id" bson:"_id" gorm:"primaryKey;size:64"`
	FormID      string                      `json:"formId" bson:"formId" gorm:"not null;size:64;index:idx_form_respondent_email"`
	ShareID     string                      `json:"shareId" bson:"shareId" gorm:"size:64"`
	Respondent  Respondent                  `json:"respondent" bson:"respondent" gorm:"embedded;embeddedPrefix:respondent_"`
	Answers     datatypes.JSONSlice[Answer] `json:"answers" bson:"answers" gorm:"type:jsonb"`
	SubmittedAt time.Time                   `json:"submittedAt" bson:"submittedAt" gorm:"not null;index"`
}
