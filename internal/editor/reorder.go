package editor

import (
	"slices"

	apperrors "github.com/SAP-F-2025/form-service/internal/errors"
)

// Reorder returns a copy of seq with the element at from moved to to.
// seq itself is left untouched.
func Reorder[T any](seq []T, from, to int) ([]T, error) {
	n := len(seq)
	if from < 0 || from >= n || to < 0 || to >= n {
		return nil, &apperrors.RangeError{Op: "reorder", From: from, To: to, Length: n}
	}

	moved := seq[from]
	out := make([]T, 0, n)
	out = append(out, seq[:from]...)
	out = append(out, seq[from+1:]...)
	return slices.Insert(out, to, moved), nil
}
