package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPayload(t *testing.T) {
	tests := []struct {
		qt   QuestionType
		want Payload
	}{
		{Categorize, &CategorizePayload{Column1: []PlacedItem{}, Column2: []PlacedItem{}, Pool: []PoolItem{}}},
		{Cloze, &ClozePayload{BlankOptions: []string{}, BlankKey: map[string]string{}}},
		{Comprehension, &ComprehensionPayload{SubQuestions: []SubQuestion{}}},
		{Text, &ChoicePayload{Type: Text, Options: []string{}}},
		{MultipleChoice, &ChoicePayload{Type: MultipleChoice, Options: []string{}}},
		{Image, &ChoicePayload{Type: Image, Options: []string{}}},
	}

	for _, tt := range tests {
		t.Run(string(tt.qt), func(t *testing.T) {
			first, err := DefaultPayload(tt.qt)
			require.NoError(t, err)
			second, err := DefaultPayload(tt.qt)
			require.NoError(t, err)

			assert.Equal(t, tt.want, first)
			assert.Equal(t, first, second)
			assert.Equal(t, tt.qt, first.QuestionType())
		})
	}

	_, err := DefaultPayload("matrix")
	assert.Error(t, err)
}

func TestNewQuestion(t *testing.T) {
	a, err := NewQuestion(Cloze)
	require.NoError(t, err)
	b, err := NewQuestion(Cloze)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.ID, a.ClientID)
	assert.False(t, a.IsCanonical())
	assert.NotNil(t, a.Cloze)
	assert.Nil(t, a.Categorize)
	assert.True(t, a.Matches(a.ClientID))
	assert.False(t, a.Matches(""))
}

func TestQuestion_JSONRoundTrip(t *testing.T) {
	q, err := NewQuestion(MultipleChoice)
	require.NoError(t, err)
	q.Prompt = "Pick a colour"
	q.Choice.Options = []string{"Red", "Blue"}

	data, err := json.Marshal(q)
	require.NoError(t, err)

	var decoded Question
	require.NoError(t, json.Unmarshal(data, &decoded))

	payload, ok := decoded.Payload().(*ChoicePayload)
	require.True(t, ok)
	assert.Equal(t, MultipleChoice, payload.QuestionType())
	assert.Equal(t, []string{"Red", "Blue"}, payload.Options)
}

func TestQuestion_Clone(t *testing.T) {
	q, err := NewQuestion(Categorize)
	require.NoError(t, err)
	q.Categorize.Pool = append(q.Categorize.Pool, PoolItem{Text: "Dog", CorrectColumn: Column1})

	c := q.Clone()
	c.Categorize.Pool[0].Text = "Cat"

	assert.Equal(t, "Dog", q.Categorize.Pool[0].Text)
}

func TestClozePayload_Blanks(t *testing.T) {
	p := &ClozePayload{
		Text:     "[blank_2] is near [blank_7]",
		BlankKey: map[string]string{"blank_2": "Paris", "blank_9": "stale"},
	}

	assert.Equal(t, []string{"blank_2", "blank_7"}, p.BlankIDs())
	assert.Equal(t, "blank_10", p.NextBlankID())
	assert.Equal(t, "blank_1", (&ClozePayload{}).NextBlankID())
}

func TestShareSettings(t *testing.T) {
	form := NewForm()
	assert.Equal(t, DefaultTitle, form.Title)
	assert.True(t, form.IsShareable)
	assert.True(t, form.ShareSettings.UniqueEmail())

	now := form.CreatedAt
	assert.False(t, form.ShareSettings.Expired(now))

	expires := now
	form.ShareSettings.ExpiresAt = &expires
	assert.True(t, form.ShareSettings.Expired(now))
	assert.False(t, form.ShareSettings.Expired(now.Add(-1)))
}
