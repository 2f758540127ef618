package validator

import (
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// MaxTitleLength bounds a form title in characters.
const MaxTitleLength = 200

// Validator combines struct-tag validation with the question rules.
type Validator struct {
	structValidator   *validator.Validate
	questionValidator *QuestionValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		questionValidator: NewQuestionValidator(),
	}
}

// ValidateStruct validates struct tags only. The result is nil or ValidationErrors.
func (v *Validator) ValidateStruct(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if fieldErrs := ToValidationErrors(err); len(fieldErrs) > 0 {
			return fieldErrs
		}
		return err
	}
	return nil
}

// ValidateForm checks the form fields and every question, collecting all violations.
// Question violations are reported under "questions[i]".
func (v *Validator) ValidateForm(form *models.Form) error {
	var errs ValidationErrors

	if err := v.structValidator.Struct(form); err != nil {
		errs = append(errs, ToValidationErrors(err)...)
	}
	for i := range form.Questions {
		errs.Merge(indexed("questions", i), v.questionValidator.Validate(&form.Questions[i]))
	}
	errs = append(errs, duplicateQuestionIDs(form.Questions)...)

	return errs.OrNil()
}

// duplicateQuestionIDs reports ids and client ids that address more than one question.
func duplicateQuestionIDs(questions []models.Question) ValidationErrors {
	var errs ValidationErrors
	owner := make(map[string]int)

	for i, q := range questions {
		for _, ref := range []struct{ field, id string }{{"id", q.ID}, {"clientId", q.ClientID}} {
			if ref.id == "" {
				continue
			}
			first, seen := owner[ref.id]
			switch {
			case !seen:
				owner[ref.id] = i
			case first != i:
				errs.Add(indexed("questions", i)+"."+ref.field, "duplicates "+indexed("questions", first), "unique", ref.id)
			}
		}
	}
	return errs
}

// Question returns the question validator
func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", validateQuestionType)
	validate.RegisterValidation("column_name", validateColumnName)
	validate.RegisterValidation("not_blank", validateNotBlank)
	validate.RegisterValidation("form_title", validateFormTitle)

	// Report json names in field paths
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateQuestionType(fl validator.FieldLevel) bool {
	return models.QuestionType(fl.Field().String()).Valid()
}

func validateColumnName(fl validator.FieldLevel) bool {
	return models.Column(fl.Field().String()).IsBucket()
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validateFormTitle(fl validator.FieldLevel) bool {
	title := strings.TrimSpace(fl.Field().String())
	n := utf8.RuneCountInString(title)
	return n >= 1 && n <= MaxTitleLength
}
