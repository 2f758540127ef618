package events

import (
	"time"

	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/google/uuid"
)

// EventType represents the domain events emitted by the form service
type EventType string

const (
	// Form events
	EventFormCreated      EventType = "form.created"
	EventFormUpdated      EventType = "form.updated"
	EventFormDeleted      EventType = "form.deleted"
	EventFormShareUpdated EventType = "form.share_updated"
	EventFormExpired      EventType = "form.expired"

	// Response events
	EventResponseSubmitted EventType = "response.submitted"
)

const (
	eventSource  = "form-service"
	eventVersion = "1.0"
)

// FormEvent is the envelope for every published event
type FormEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Form event payloads

type FormChangedEvent struct {
	FormID        string `json:"form_id"`
	ShareID       string `json:"share_id"`
	Title         string `json:"title"`
	OwnerID       string `json:"owner_id,omitempty"`
	QuestionCount int    `json:"question_count"`
}

type FormDeletedEvent struct {
	FormID  string `json:"form_id"`
	ShareID string `json:"share_id"`
}

type FormShareUpdatedEvent struct {
	FormID        string               `json:"form_id"`
	ShareID       string               `json:"share_id"`
	IsShareable   bool                 `json:"is_shareable"`
	ShareSettings models.ShareSettings `json:"share_settings"`
}

type FormExpiredEvent struct {
	FormID    string    `json:"form_id"`
	ShareID   string    `json:"share_id"`
	ExpiredAt time.Time `json:"expired_at"`
}

type ResponseSubmittedEvent struct {
	ResponseID      string    `json:"response_id"`
	FormID          string    `json:"form_id"`
	ShareID         string    `json:"share_id"`
	RespondentEmail string    `json:"respondent_email,omitempty"`
	AnswerCount     int       `json:"answer_count"`
	SubmittedAt     time.Time `json:"submitted_at"`
}

func newEvent(t EventType, data interface{}) *FormEvent {
	return &FormEvent{
		ID:        GenerateEventID(),
		Type:      t,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

// NewFormChangedEvent builds a form.created or form.updated event.
func NewFormChangedEvent(t EventType, form *models.Form) *FormEvent {
	return newEvent(t, FormChangedEvent{
		FormID:        form.ID,
		ShareID:       form.ShareID,
		Title:         form.Title,
		OwnerID:       form.OwnerID,
		QuestionCount: len(form.Questions),
	})
}

func NewFormDeletedEvent(form *models.Form) *FormEvent {
	return newEvent(EventFormDeleted, FormDeletedEvent{FormID: form.ID, ShareID: form.ShareID})
}

func NewFormShareUpdatedEvent(form *models.Form) *FormEvent {
	return newEvent(EventFormShareUpdated, FormShareUpdatedEvent{
		FormID:        form.ID,
		ShareID:       form.ShareID,
		IsShareable:   form.IsShareable,
		ShareSettings: form.ShareSettings,
	})
}

func NewFormExpiredEvent(form *models.Form, expiredAt time.Time) *FormEvent {
	return newEvent(EventFormExpired, FormExpiredEvent{FormID: form.ID, ShareID: form.ShareID, ExpiredAt: expiredAt})
}

func NewResponseSubmittedEvent(resp *models.FormResponse) *FormEvent {
	return newEvent(EventResponseSubmitted, ResponseSubmittedEvent{
		ResponseID:      resp.ID,
		FormID:          resp.FormID,
		ShareID:         resp.ShareID,
		RespondentEmail: resp.Respondent.Email,
		AnswerCount:     len(resp.Answers),
		SubmittedAt:     resp.SubmittedAt,
	})
}

// GenerateEventID returns a random event id
func GenerateEventID() string {
	return uuid.NewString()
}
