package editor

import (
	"context"
	"errors"
	"time"

	"github.com/SAP-F-2025/form-service/internal/cache"
	apperrors "github.com/SAP-F-2025/form-service/internal/errors"
	"github.com/SAP-F-2025/form-service/internal/models"
)

// Keys stored per editor session, under "draft:<session>:".
const (
	KeyDraftForm     = "draftForm"
	KeyCurrentFormID = "currentFormId"
	keySaving        = "saving"
)

// savingTTL bounds how long a crashed save can block the session.
const savingTTL = 30 * time.Second

// Drafts keeps unsaved editor state per session. It is a convenience only:
// a form is durable once saved through the form service.
type Drafts struct {
	cache cache.CacheService
	ttl   time.Duration
}

func NewDrafts(c cache.CacheService, ttl time.Duration) *Drafts {
	return &Drafts{cache: c, ttl: ttl}
}

func draftKey(session, name string) string {
	return "draft:" + session + ":" + name
}

// Load returns the session's draft form.
func (d *Drafts) Load(ctx context.Context, session string) (*models.Form, error) {
	var form models.Form
	if err := d.cache.Get(ctx, draftKey(session, KeyDraftForm), &form); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, apperrors.NewNotFoundError("editor session", session)
		}
		return nil, apperrors.NewStoreError("load draft", err)
	}
	return &form, nil
}

// Save stores the draft and, once the form has been persisted, its id.
func (d *Drafts) Save(ctx context.Context, session string, form *models.Form) error {
	if err := d.cache.Set(ctx, draftKey(session, KeyDraftForm), form, d.ttl); err != nil {
		return apperrors.NewStoreError("save draft", err)
	}
	if form.ID != "" {
		if err := d.cache.Set(ctx, draftKey(session, KeyCurrentFormID), form.ID, d.ttl); err != nil {
			return apperrors.NewStoreError("save draft", err)
		}
	}
	return nil
}

// CurrentFormID returns the id of the persisted form the session edits, or "".
func (d *Drafts) CurrentFormID(ctx context.Context, session string) (string, error) {
	var id string
	err := d.cache.Get(ctx, draftKey(session, KeyCurrentFormID), &id)
	if errors.Is(err, cache.ErrCacheMiss) {
		return "", nil
	}
	if err != nil {
		return "", apperrors.NewStoreError("load draft", err)
	}
	return id, nil
}

// Clear drops every key of the session. Keys are deleted by name so a session id
// is never read as a pattern.
func (d *Drafts) Clear(ctx context.Context, session string) error {
	keys := []string{
		draftKey(session, KeyDraftForm),
		draftKey(session, KeyCurrentFormID),
		draftKey(session, keySaving),
	}
	if err := d.cache.Delete(ctx, keys...); err != nil {
		return apperrors.NewStoreError("clear draft", err)
	}
	return nil
}

// BeginSave marks a save in flight for the session. A second call before release
// fails with a save-in-progress conflict.
func (d *Drafts) BeginSave(ctx context.Context, session string) (release func(), err error) {
	key := draftKey(session, keySaving)
	ok, err := d.cache.SetIfAbsent(ctx, key, time.Now().Unix(), savingTTL)
	if err != nil {
		return nil, apperrors.NewStoreError("begin save", err)
	}
	if !ok {
		return nil, apperrors.NewConflictError(apperrors.ReasonSaveInProgress, "save already in progress")
	}

	detached := context.WithoutCancel(ctx)
	return func() { _ = d.cache.Delete(detached, key) }, nil
}
