package memory

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/SAP-F-2025/form-service/internal/errors"
	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newForm(t *testing.T, title string) *models.Form {
	t.Helper()
	form := models.NewForm()
	form.Title = title
	q, err := models.NewQuestion(models.Text)
	require.NoError(t, err)
	q.Prompt = "Name"
	form.Questions = append(form.Questions, q)
	return form
}

func TestFormMemory_CreateAssignsIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository().Forms()

	form := newForm(t, "Quiz")
	token := form.Questions[0].ClientID
	require.NoError(t, repo.Create(ctx, form))

	assert.NotEmpty(t, form.ID)
	assert.NotEmpty(t, form.ShareID)
	assert.NotEqual(t, form.ID, form.ShareID)
	assert.False(t, form.CreatedAt.IsZero())
	assert.True(t, form.Questions[0].IsCanonical())
	assert.Equal(t, token, form.Questions[0].ClientID)

	got, err := repo.GetByID(ctx, form.ID)
	require.NoError(t, err)
	assert.Equal(t, form.Title, got.Title)
	assert.Equal(t, form.Questions[0].ID, got.Questions[0].ID)

	byShare, err := repo.GetByShareID(ctx, form.ShareID)
	require.NoError(t, err)
	assert.Equal(t, form.ID, byShare.ID)

	// stored copy is independent of the caller's form
	form.Title = "changed"
	got, _ = repo.GetByID(ctx, form.ID)
	assert.Equal(t, "Quiz", got.Title)
}

func TestFormMemory_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository().Forms()

	form := newForm(t, "Quiz")
	require.NoError(t, repo.Create(ctx, form))
	canonical := form.Questions[0].ID

	q, err := models.NewQuestion(models.Cloze)
	require.NoError(t, err)
	form.Questions = append(form.Questions, q)
	form.ShareID = "tampered"
	require.NoError(t, repo.Update(ctx, form))

	assert.Equal(t, canonical, form.Questions[0].ID, "canonical ids are kept")
	assert.True(t, form.Questions[1].IsCanonical())
	assert.NotEqual(t, "tampered", form.ShareID)

	require.NoError(t, repo.Delete(ctx, form.ID))
	_, err = repo.GetByID(ctx, form.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, form.ID), apperrors.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, form), apperrors.ErrNotFound)
}

func TestFormMemory_List(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository().forms
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { clock = clock.Add(time.Minute); return clock }

	alice := "alice"
	for _, title := range []string{"B", "A", "C"} {
		form := newForm(t, title)
		form.OwnerID = alice
		require.NoError(t, repo.Create(ctx, form))
	}
	require.NoError(t, repo.Create(ctx, newForm(t, "other")))

	forms, total, err := repo.List(ctx, repositories.FormFilters{OwnerID: &alice})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, []string{"C", "A", "B"}, titles(forms))

	forms, _, err = repo.List(ctx, repositories.FormFilters{OwnerID: &alice, SortBy: "title", SortOrder: "asc", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, titles(forms))

	forms, total, err = repo.List(ctx, repositories.FormFilters{Offset: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.Empty(t, forms)
}

func TestFormMemory_ListExpiredShares(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository().Forms()
	now := time.Now()
	past, future := now.Add(-time.Hour), now.Add(time.Hour)

	expired := newForm(t, "expired")
	expired.ShareSettings.ExpiresAt = &past
	closed := newForm(t, "closed")
	closed.ShareSettings.ExpiresAt = &past
	closed.IsShareable = false
	open := newForm(t, "open")
	open.ShareSettings.ExpiresAt = &future

	for _, f := range []*models.Form{expired, closed, open, newForm(t, "no expiry")} {
		require.NoError(t, repo.Create(ctx, f))
	}

	forms, err := repo.ListExpiredShares(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"expired"}, titles(forms))
}

func TestResponseMemory_UniqueEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository().Responses()

	first := &models.FormResponse{FormID: "f1", Respondent: models.Respondent{Email: "a@example.com"}, SubmittedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, first, true))
	assert.NotEmpty(t, first.ID)

	dup := &models.FormResponse{FormID: "f1", Respondent: models.Respondent{Email: " A@Example.com"}, SubmittedAt: time.Now()}
	err := repo.Create(ctx, dup, true)
	assert.ErrorIs(t, err, repositories.ErrDuplicateSubmission)
	var conflict *apperrors.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, apperrors.ReasonAlreadySubmitted, conflict.Reason)

	// allowed without the uniqueness rule, and on another form
	require.NoError(t, repo.Create(ctx, dup, false))
	require.NoError(t, repo.Create(ctx, &models.FormResponse{FormID: "f2", Respondent: first.Respondent}, true))

	n, err := repo.CountByForm(ctx, "f1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestResponseMemory_ListByFormNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository().Responses()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &models.FormResponse{FormID: "f1", SubmittedAt: base.Add(time.Duration(i) * time.Hour)}, false))
	}

	list, total, err := repo.ListByForm(ctx, "f1", repositories.ResponseFilters{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, list, 3)
	assert.True(t, list[0].SubmittedAt.After(list[1].SubmittedAt))
	assert.True(t, list[1].SubmittedAt.After(list[2].SubmittedAt))

	require.NoError(t, repo.DeleteByForm(ctx, "f1"))
	n, _ := repo.CountByForm(ctx, "f1")
	assert.Zero(t, n)
}

func titles(forms []*models.Form) []string {
	out := make([]string, len(forms))
	for i, f := range forms {
		out[i] = f.Title
	}
	return out
}
