package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultTitle is used when a form is saved without a title.
const DefaultTitle = "Untitled Form"

type Form struct {
	ID          string                        `json:"id" bson:"_id" gorm:"primaryKey;size:64"`
	Title       string                        `json:"title" bson:"title" gorm:"not null;size:200;index" validate:"form_title"`
	HeaderImage string                        `json:"headerImage,omitempty" bson:"headerImage,omitempty" gorm:"type:text"`
	Questions   datatypes.JSONSlice[Question] `json:"questions" bson:"questions" gorm:"type:jsonb"`

	// Sharing
	ShareID       string        `json:"shareId" bson:"shareId" gorm:"uniqueIndex;not null;size:64"`
	IsShareable   bool          `json:"isShareable" bson:"isShareable"`
	ShareSettings ShareSettings `json:"shareSettings" bson:"shareSettings" gorm:"embedded;embeddedPrefix:share_"`

	// Metadata
	OwnerID   string         `json:"ownerId,omitempty" bson:"ownerId,omitempty" gorm:"size:255;index"`
	CreatedAt time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt" bson:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" bson:"-" gorm:"index"`
}

type ShareSettings struct {
	AllowAnonymous bool       `json:"allowAnonymous" bson:"allowAnonymous"`
	CollectEmail   bool       `json:"collectEmail" bson:"collectEmail"`
	SubmitOnce     bool       `json:"submitOnce" bson:"submitOnce"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty" bson:"expiresAt,omitempty" gorm:"index"`
}

// DefaultShareSettings collects the respondent's email and accepts one submission per email.
func DefaultShareSettings() ShareSettings {
	return ShareSettings{CollectEmail: true, SubmitOnce: true}
}

// Expired reports whether the share link stopped accepting submissions at now.
func (s ShareSettings) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}

// UniqueEmail reports whether a second submission from the same email must be rejected.
func (s ShareSettings) UniqueEmail() bool {
	return s.SubmitOnce && s.CollectEmail
}

// NewForm returns an empty untitled draft.
func NewForm() *Form {
	return &Form{
		Title:         DefaultTitle,
		Questions:     datatypes.JSONSlice[Question]{},
		IsShareable:   true,
		ShareSettings: DefaultShareSettings(),
	}
}

// IndexOf returns the position of the question whose id or client id is id, or -1.
func (f *Form) IndexOf(id string) int {
	for i := range f.Questions {
		if f.Questions[i].Matches(id) {
			return i
		}
	}
	return -1
}

// FindQuestion returns the question whose id or client id is id.
func (f *Form) FindQuestion(id string) (*Question, bool) {
	if i := f.IndexOf(id); i >= 0 {
		return &f.Questions[i], true
	}
	return nil, false
}

// Clone returns a deep copy so drafts and stored forms never share payloads.
func (f *Form) Clone() *Form {
	if f == nil {
		return nil
	}
	c := *f
	c.Questions = make(datatypes.JSONSlice[Question], len(f.Questions))
	for i, q := range f.Questions {
		c.Questions[i] = q.Clone()
	}
	if f.ShareSettings.ExpiresAt != nil {
		t := *f.ShareSettings.ExpiresAt
		c.ShareSettings.ExpiresAt = &t
	}
	return &c
}
