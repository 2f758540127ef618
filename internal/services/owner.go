package services

import (
	"context"
	"fmt"

	apperrors "github.com/SAP-F-2025/form-service/internal/errors"
	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/repositories"
)

type ownerKey struct{}

// WithOwner returns a context acting on behalf of ownerID. Owner-scoped operations
// treat forms and editor sessions of any other owner as absent.
func WithOwner(ctx context.Context, ownerID string) context.Context {
	if ownerID == "" {
		return ctx
	}
	return context.WithValue(ctx, ownerKey{}, ownerID)
}

// OwnerFromContext returns the acting owner, or "" when the call is not scoped.
func OwnerFromContext(ctx context.Context) string {
	owner, _ := ctx.Value(ownerKey{}).(string)
	return owner
}

// ownedBy reports whether the caller in ctx may see a form owned by ownerID.
func ownedBy(ctx context.Context, ownerID string) bool {
	caller := OwnerFromContext(ctx)
	return caller == "" || caller == ownerID
}

// getOwnedForm loads a form and reports it as not found when it belongs to someone else.
func getOwnedForm(ctx context.Context, repo repositories.Repository, id string) (*models.Form, error) {
	form, err := repo.Forms().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get form: %w", err)
	}
	if !ownedBy(ctx, form.OwnerID) {
		return nil, apperrors.NewNotFoundError("form", id)
	}
	return form, nil
}
