package editor

import (
	"strings"

	apperrors "github.com/SAP-F-2025/form-service/internal/errors"
	"github.com/SAP-F-2025/form-service/internal/models"
)

// CategorizeEditor edits the pool and the two columns of a categorize question.
// An item's text identifies it and lives in exactly one of pool, column1 or column2.
type CategorizeEditor struct {
	p *models.CategorizePayload
}

// AddPoolItem adds text to the pool with target as its correct column.
// It returns false without changes when an item with the same text already exists.
func (e *CategorizeEditor) AddPoolItem(text string, target models.Column) (bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return false, apperrors.ValidationErrors{
			*apperrors.NewValidationErrorWithRule("text", "must not be blank", "not_blank", text),
		}
	}
	if target == "" {
		target = models.Column1
	}
	if !target.IsBucket() {
		return false, apperrors.ValidationErrors{
			*apperrors.NewValidationErrorWithRule("correctColumn", "must be column1 or column2", "column_name", target),
		}
	}
	if _, found := e.locate(text); found {
		return false, nil
	}

	e.p.Pool = append(e.p.Pool, models.PoolItem{Text: text, CorrectColumn: target})
	return true, nil
}

// MoveItem removes the item from where it is and appends it to destination.
// Moving a placed item back to the pool records the column it left as its correct column.
// It returns false when no item has that text.
func (e *CategorizeEditor) MoveItem(text string, destination models.Column) (bool, error) {
	if destination != models.Pool && !destination.IsBucket() {
		return false, apperrors.ValidationErrors{
			*apperrors.NewValidationErrorWithRule("destination", "must be pool, column1 or column2", "oneof", destination),
		}
	}

	source, found := e.locate(text)
	if !found {
		return false, nil
	}
	correct := source
	if source == models.Pool {
		for _, item := range e.p.Pool {
			if item.Text == text {
				correct = item.CorrectColumn
				break
			}
		}
	}
	e.remove(text)

	switch destination {
	case models.Pool:
		e.p.Pool = append(e.p.Pool, models.PoolItem{Text: text, CorrectColumn: correct})
	case models.Column1:
		e.p.Column1 = append(e.p.Column1, models.PlacedItem{Text: text})
	case models.Column2:
		e.p.Column2 = append(e.p.Column2, models.PlacedItem{Text: text})
	}
	return true, nil
}

// RemoveItem deletes the item wherever it is.
func (e *CategorizeEditor) RemoveItem(text string) bool {
	if _, found := e.locate(text); !found {
		return false
	}
	e.remove(text)
	return true
}

// Count returns the number of items across pool and columns.
func (e *CategorizeEditor) Count() int {
	return len(e.p.Pool) + len(e.p.Column1) + len(e.p.Column2)
}

func (e *CategorizeEditor) locate(text string) (models.Column, bool) {
	for _, item := range e.p.Pool {
		if item.Text == text {
			return models.Pool, true
		}
	}
	for _, item := range e.p.Column1 {
		if item.Text == text {
			return models.Column1, true
		}
	}
	for _, item := range e.p.Column2 {
		if item.Text == text {
			return models.Column2, true
		}
	}
	return "", false
}

func (e *CategorizeEditor) remove(text string) {
	pool := e.p.Pool[:0]
	for _, item := range e.p.Pool {
		if item.Text != text {
			pool = append(pool, item)
		}
	}
	e.p.Pool = pool
	e.p.Column1 = withoutPlaced(e.p.Column1, text)
	e.p.Column2 = withoutPlaced(e.p.Column2, text)
}

func withoutPlaced(items []models.PlacedItem, text string) []models.PlacedItem {
	out := items[:0]
	for _, item := range items {
		if item.Text != text {
			out = append(out, item)
		}
	}
	return out
}
