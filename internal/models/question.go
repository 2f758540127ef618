package models

import (
	"fmt"
	"regexp"
	"strconv"
	"sync/atomic"
	"time"
)

type QuestionType string

const (
	Categorize     QuestionType = "categorize"
	Cloze          QuestionType = "cloze"
	Comprehension  QuestionType = "comprehension"
	Text           QuestionType = "text"
	MultipleChoice QuestionType = "multiple-choice"
	Image          QuestionType = "image"
)

// QuestionTypes lists every supported variant in display order.
var QuestionTypes = []QuestionType{Categorize, Cloze, Comprehension, Text, MultipleChoice, Image}

func (t QuestionType) Valid() bool {
	for _, qt := range QuestionTypes {
		if qt == t {
			return true
		}
	}
	return false
}

// Column names a categorize bucket.
type Column string

const (
	Column1 Column = "column1"
	Column2 Column = "column2"
	Pool    Column = "pool"
)

func (c Column) IsBucket() bool {
	return c == Column1 || c == Column2
}

// Question is a tagged variant: Type selects which payload pointer is set.
type Question struct {
	ID       string       `json:"id" bson:"id"`
	ClientID string       `json:"clientId,omitempty" bson:"clientId,omitempty"`
	Type     QuestionType `json:"type" bson:"type"`
	Prompt   string       `json:"prompt" bson:"prompt"`
	Required bool         `json:"required" bson:"required"`
	Section  string       `json:"section,omitempty" bson:"section,omitempty"`
	Image    string       `json:"image,omitempty" bson:"image,omitempty"`

	Categorize    *CategorizePayload    `json:"categorize,omitempty" bson:"categorize,omitempty"`
	Cloze         *ClozePayload         `json:"cloze,omitempty" bson:"cloze,omitempty"`
	Comprehension *ComprehensionPayload `json:"comprehension,omitempty" bson:"comprehension,omitempty"`
	Choice        *ChoicePayload        `json:"choice,omitempty" bson:"choice,omitempty"`
}

// Payload is implemented by every variant payload.
type Payload interface {
	QuestionType() QuestionType
}

type PlacedItem struct {
	Text string `json:"text" bson:"text"`
}

type PoolItem struct {
	Text          string `json:"text" bson:"text"`
	CorrectColumn Column `json:"correctColumn" bson:"correctColumn"`
}

type CategorizePayload struct {
	Column1 []PlacedItem `json:"column1" bson:"column1"`
	Column2 []PlacedItem `json:"column2" bson:"column2"`
	Pool    []PoolItem   `json:"pool" bson:"pool"`
}

type ClozePayload struct {
	Text         string            `json:"text" bson:"text"`
	BlankOptions []string          `json:"blankOptions" bson:"blankOptions"`
	BlankKey     map[string]string `json:"blankKey" bson:"blankKey"`
}

// BlankMarker matches a blank marker such as "[blank_3]"; group 1 is the blank id.
var BlankMarker = regexp.MustCompile(`\[(blank_(\d+))\]`)

// BlankIDs returns the ids of the markers in Text, in order of appearance.
func (p *ClozePayload) BlankIDs() []string {
	matches := BlankMarker.FindAllStringSubmatch(p.Text, -1)
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m[1])
	}
	return ids
}

// NextBlankID returns blank_N where N is one more than the highest number already used.
func (p *ClozePayload) NextBlankID() string {
	highest := 0
	for _, m := range BlankMarker.FindAllStringSubmatch(p.Text, -1) {
		if n, err := strconv.Atoi(m[2]); err == nil && n > highest {
			highest = n
		}
	}
	for id := range p.BlankKey {
		var n int
		if _, err := fmt.Sscanf(id, "blank_%d", &n); err == nil && n > highest {
			highest = n
		}
	}
	return "blank_" + strconv.Itoa(highest+1)
}

// HasOption reports whether fragment is one of the draggable options.
func (p *ClozePayload) HasOption(fragment string) bool {
	for _, o := range p.BlankOptions {
		if o == fragment {
			return true
		}
	}
	return false
}

// ComprehensionOptionCount is the fixed number of options per sub-question.
const ComprehensionOptionCount = 4

type SubQuestion struct {
	ID                 string   `json:"id" bson:"id"`
	Prompt             string   `json:"prompt" bson:"prompt"`
	Options            []string `json:"options" bson:"options"`
	CorrectOptionIndex int      `json:"correctOptionIndex" bson:"correctOptionIndex"`
}

type ComprehensionPayload struct {
	Passage      string        `json:"passage" bson:"passage"`
	SubQuestions []SubQuestion `json:"subQuestions" bson:"subQuestions"`
}

// ChoicePayload backs text, multiple-choice and image questions.
type ChoicePayload struct {
	Type    QuestionType `json:"-" bson:"-"`
	Options []string     `json:"options" bson:"options"`
}

func (*CategorizePayload) QuestionType() QuestionType    { return Categorize }
func (*ClozePayload) QuestionType() QuestionType         { return Cloze }
func (*ComprehensionPayload) QuestionType() QuestionType { return Comprehension }
func (p *ChoicePayload) QuestionType() QuestionType      { return p.Type }

// DefaultPayload returns a fresh empty payload for the given type.
func DefaultPayload(t QuestionType) (Payload, error) {
	switch t {
	case Categorize:
		return &CategorizePayload{
			Column1: []PlacedItem{},
			Column2: []PlacedItem{},
			Pool:    []PoolItem{},
		}, nil
	case Cloze:
		return &ClozePayload{
			BlankOptions: []string{},
			BlankKey:     map[string]string{},
		}, nil
	case Comprehension:
		return &ComprehensionPayload{SubQuestions: []SubQuestion{}}, nil
	case Text, MultipleChoice, Image:
		return &ChoicePayload{Type: t, Options: []string{}}, nil
	default:
		return nil, fmt.Errorf("unsupported question type: %q", t)
	}
}

// NewQuestion builds a question of type t with a fresh client token and default payload.
func NewQuestion(t QuestionType) (Question, error) {
	payload, err := DefaultPayload(t)
	if err != nil {
		return Question{}, err
	}
	token := NewClientToken()
	q := Question{ID: token, ClientID: token, Type: t}
	q.SetPayload(payload)
	return q, nil
}

// Payload returns the payload matching the question's type tag, or nil.
func (q *Question) Payload() Payload {
	switch q.Type {
	case Categorize:
		if q.Categorize != nil {
			return q.Categorize
		}
	case Cloze:
		if q.Cloze != nil {
			return q.Cloze
		}
	case Comprehension:
		if q.Comprehension != nil {
			return q.Comprehension
		}
	case Text, MultipleChoice, Image:
		if q.Choice != nil {
			q.Choice.Type = q.Type
			return q.Choice
		}
	}
	return nil
}

// SetPayload stores p and clears every other variant.
func (q *Question) SetPayload(p Payload) {
	q.Categorize, q.Cloze, q.Comprehension, q.Choice = nil, nil, nil, nil
	switch v := p.(type) {
	case *CategorizePayload:
		q.Categorize = v
	case *ClozePayload:
		q.Cloze = v
	case *ComprehensionPayload:
		q.Comprehension = v
	case *ChoicePayload:
		q.Choice = v
	}
}

// Matches reports whether id is the question's canonical or client identifier.
func (q *Question) Matches(id string) bool {
	return id != "" && (q.ID == id || q.ClientID == id)
}

// IsCanonical reports whether the persistence layer has assigned the id.
func (q *Question) IsCanonical() bool {
	return q.ID != "" && q.ID != q.ClientID
}

// Clone returns a deep copy.
func (q Question) Clone() Question {
	if q.Categorize != nil {
		c := *q.Categorize
		c.Column1 = append([]PlacedItem{}, c.Column1...)
		c.Column2 = append([]PlacedItem{}, c.Column2...)
		c.Pool = append([]PoolItem{}, c.Pool...)
		q.Categorize = &c
	}
	if q.Cloze != nil {
		c := *q.Cloze
		c.BlankOptions = append([]string{}, c.BlankOptions...)
		c.BlankKey = make(map[string]string, len(q.Cloze.BlankKey))
		for k, v := range q.Cloze.BlankKey {
			c.BlankKey[k] = v
		}
		q.Cloze = &c
	}
	if q.Comprehension != nil {
		c := *q.Comprehension
		c.SubQuestions = make([]SubQuestion, len(q.Comprehension.SubQuestions))
		for i, sq := range q.Comprehension.SubQuestions {
			sq.Options = append([]string{}, sq.Options...)
			c.SubQuestions[i] = sq
		}
		q.Comprehension = &c
	}
	if q.Choice != nil {
		c := *q.Choice
		c.Options = append([]string{}, c.Options...)
		q.Choice = &c
	}
	return q
}

var lastToken atomic.Int64

// NewClientToken returns a timestamp-based token, strictly increasing within the process.
func NewClientToken() string {
	for {
		prev := lastToken.Load()
		n := time.Now().UnixNano()
		if n <= prev {
			n = prev + 1
		}
		if lastToken.CompareAndSwap(prev, n) {
			return "q_" + strconv.FormatInt(n, 10)
		}
	}
}
