// Package memory is an in-process storage backend for development and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	apperrors "github.com/SAP-F-2025/form-service/internal/errors"
	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"github.com/google/uuid"
)

type Repository struct {
	forms     *FormMemory
	responses *ResponseMemory
}

func NewRepository() *Repository {
	return &Repository{
		forms:     &FormMemory{forms: make(map[string]*models.Form), now: time.Now},
		responses: &ResponseMemory{responses: make(map[string][]*models.FormResponse)},
	}
}

func (r *Repository) Forms() repositories.FormRepository         { return r.forms }
func (r *Repository) Responses() repositories.ResponseRepository { return r.responses }
func (r *Repository) Close(context.Context) error                { return nil }

// FormMemory stores deep copies so callers never share state with the store.
type FormMemory struct {
	mu    sync.RWMutex
	forms map[string]*models.Form
	now   func() time.Time
}

func (m *FormMemory) Create(_ context.Context, form *models.Form) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if form.ID == "" {
		form.ID = uuid.NewString()
	}
	repositories.PrepareNewForm(form, m.now())
	m.forms[form.ID] = form.Clone()
	return nil
}

func (m *FormMemory) GetByID(_ context.Context, id string) (*models.Form, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	form, ok := m.forms[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("form", id)
	}
	return form.Clone(), nil
}

func (m *FormMemory) GetByShareID(_ context.Context, shareID string) (*models.Form, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, form := range m.forms {
		if form.ShareID == shareID {
			return form.Clone(), nil
		}
	}
	return nil, apperrors.NewNotFoundError("form", shareID)
}

func (m *FormMemory) Update(_ context.Context, form *models.Form) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.forms[form.ID]
	if !ok {
		return apperrors.NewNotFoundError("form", form.ID)
	}
	form.CreatedAt = current.CreatedAt
	form.ShareID = current.ShareID
	repositories.PrepareUpdate(form, m.now())
	m.forms[form.ID] = form.Clone()
	return nil
}

func (m *FormMemory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.forms[id]; !ok {
		return apperrors.NewNotFoundError("form", id)
	}
	delete(m.forms, id)
	return nil
}

func (m *FormMemory) List(_ context.Context, filters repositories.FormFilters) ([]*models.Form, int64, error) {
	m.mu.RLock()
	var forms []*models.Form
	for _, form := range m.forms {
		if filters.OwnerID != nil && form.OwnerID != *filters.OwnerID {
			continue
		}
		forms = append(forms, form.Clone())
	}
	m.mu.RUnlock()

	column := repositories.SortColumn(filters.SortBy)
	desc := repositories.SortDescending(filters.SortOrder)
	sort.SliceStable(forms, func(i, j int) bool {
		a, b := forms[i], forms[j]
		var less bool
		switch column {
		case "title":
			less = strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case "updated_at":
			less = a.UpdatedAt.Before(b.UpdatedAt)
		default:
			less = a.CreatedAt.Before(b.CreatedAt)
		}
		if desc {
			return !less && !equalKey(column, a, b)
		}
		return less
	})

	total := int64(len(forms))
	return page(forms, filters.Offset, repositories.PageLimit(filters.Limit)), total, nil
}

func (m *FormMemory) ListExpiredShares(_ context.Context, now time.Time) ([]*models.Form, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var expired []*models.Form
	for _, form := range m.forms {
		if form.IsShareable && form.ShareSettings.Expired(now) {
			expired = append(expired, form.Clone())
		}
	}
	return expired, nil
}

func equalKey(column string, a, b *models.Form) bool {
	switch column {
	case "title":
		return strings.EqualFold(a.Title, b.Title)
	case "updated_at":
		return a.UpdatedAt.Equal(b.UpdatedAt)
	default:
		return a.CreatedAt.Equal(b.CreatedAt)
	}
}

type ResponseMemory struct {
	mu        sync.RWMutex
	responses map[string][]*models.FormResponse // by form id, in insertion order
}

func (m *ResponseMemory) Create(_ context.Context, resp *models.FormResponse, uniqueEmail bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if uniqueEmail {
		email := repositories.NormalizeEmail(resp.Respondent.Email)
		for _, existing := range m.responses[resp.FormID] {
			if repositories.NormalizeEmail(existing.Respondent.Email) == email {
				return repositories.ErrDuplicateSubmission
			}
		}
	}

	if resp.ID == "" {
		resp.ID = uuid.NewString()
	}
	stored := *resp
	stored.Answers = append(stored.Answers[:0:0], resp.Answers...)
	m.responses[resp.FormID] = append(m.responses[resp.FormID], &stored)
	return nil
}

func (m *ResponseMemory) ListByForm(_ context.Context, formID string, filters repositories.ResponseFilters) ([]*models.FormResponse, int64, error) {
	m.mu.RLock()
	stored := m.responses[formID]
	out := make([]*models.FormResponse, 0, len(stored))
	for _, r := range stored {
		c := *r
		out = append(out, &c)
	}
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})

	total := int64(len(out))
	return page(out, filters.Offset, repositories.PageLimit(filters.Limit)), total, nil
}

func (m *ResponseMemory) CountByForm(_ context.Context, formID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.responses[formID])), nil
}

func (m *ResponseMemory) DeleteByForm(_ context.Context, formID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.responses, formID)
	return nil
}

func page[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
