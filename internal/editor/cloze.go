package editor

import (
	"strings"

	"github.com/SAP-F-2025/form-service/internal/models"
)

// ClozeEditor edits the text, blanks and draggable options of a cloze question.
type ClozeEditor struct {
	p *models.ClozePayload
}

// CreateBlank replaces the first occurrence of fragment outside existing markers with a
// fresh [blank_N] marker, records fragment as that blank's answer and adds it to the
// options once. It returns the new blank id, or "" when fragment is empty or absent.
func (e *ClozeEditor) CreateBlank(fragment string) string {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return ""
	}

	at := indexOutsideMarkers(e.p.Text, fragment)
	if at < 0 {
		return ""
	}

	id := e.p.NextBlankID()
	e.p.Text = e.p.Text[:at] + "[" + id + "]" + e.p.Text[at+len(fragment):]
	if e.p.BlankKey == nil {
		e.p.BlankKey = make(map[string]string)
	}
	e.p.BlankKey[id] = fragment
	e.AddOption(fragment)
	return id
}

// AddOption adds a draggable fragment, typically a distractor. Duplicates are ignored.
func (e *ClozeEditor) AddOption(fragment string) bool {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" || e.p.HasOption(fragment) {
		return false
	}
	e.p.BlankOptions = append(e.p.BlankOptions, fragment)
	return true
}

// RemoveOption deletes fragment from the options only. Blanks already answered by it
// keep their markers and key entries.
func (e *ClozeEditor) RemoveOption(fragment string) bool {
	for i, o := range e.p.BlankOptions {
		if o == fragment {
			e.p.BlankOptions = append(e.p.BlankOptions[:i], e.p.BlankOptions[i+1:]...)
			return true
		}
	}
	return false
}

// indexOutsideMarkers finds the first byte offset of fragment in text that does not
// overlap a blank marker, or -1.
func indexOutsideMarkers(text, fragment string) int {
	markers := models.BlankMarker.FindAllStringIndex(text, -1)
	for from := 0; from <= len(text)-len(fragment); {
		i := strings.Index(text[from:], fragment)
		if i < 0 {
			return -1
		}
		start, end := from+i, from+i+len(fragment)
		overlaps := false
		for _, m := range markers {
			if start < m[1] && end > m[0] {
				overlaps = true
				break
			}
		}
		if !overlaps {
			return start
		}
		from = start + 1
	}
	return -1
}
