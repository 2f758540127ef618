package postgres

import (
	"context"
	"errors"

	apperrors "github.com/SAP-F-2025/form-service/internal/errors"
	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"gorm.io/gorm"
)

type Repository struct {
	db        *gorm.DB
	forms     *FormPostgreSQL
	responses *ResponsePostgreSQL
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:        db,
		forms:     NewFormPostgreSQL(db),
		responses: NewResponsePostgreSQL(db),
	}
}

// Migrate creates or updates the forms and form_responses tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Form{}, &models.FormResponse{})
}

func (r *Repository) Forms() repositories.FormRepository         { return r.forms }
func (r *Repository) Responses() repositories.ResponseRepository { return r.responses }

func (r *Repository) Close(context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// translateError maps gorm errors onto the shared error kinds.
func translateError(op, resource, id string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NewNotFoundError(resource, id)
	case errors.Is(err, apperrors.ErrNotFound), errors.Is(err, apperrors.ErrConflict):
		return err
	default:
		return apperrors.NewStoreError(op, err)
	}
}
