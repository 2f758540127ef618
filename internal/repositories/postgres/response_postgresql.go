package postgres

import (
	"context"

	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ResponsePostgreSQL struct {
	db *gorm.DB
}

func NewResponsePostgreSQL(db *gorm.DB) *ResponsePostgreSQL {
	return &ResponsePostgreSQL{db: db}
}

// Create stores a response. With uniqueEmail the form row is locked so two concurrent
// submissions from the same email cannot both pass the duplicate check.
func (r *ResponsePostgreSQL) Create(ctx context.Context, resp *models.FormResponse, uniqueEmail bool) error {
	if resp.ID == "" {
		resp.ID = uuid.NewString()
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if uniqueEmail {
			var form models.Form
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Select("id").Where("id = ?", resp.FormID).First(&form).Error; err != nil {
				return err
			}

			var count int64
			if err := tx.Model(&models.FormResponse{}).
				Where("form_id = ? AND LOWER(respondent_email) = ?", resp.FormID, repositories.NormalizeEmail(resp.Respondent.Email)).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return repositories.ErrDuplicateSubmission
			}
		}

		return tx.Create(resp).Error
	})
	return translateError("create response", "form", resp.FormID, err)
}

// ListByForm retrieves a form's responses, newest first
func (r *ResponsePostgreSQL) ListByForm(ctx context.Context, formID string, filters repositories.ResponseFilters) ([]*models.FormResponse, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.FormResponse{}).Where("form_id = ?", formID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError("count responses", "form", formID, err)
	}

	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var responses []*models.FormResponse
	err := query.Order("submitted_at DESC").Limit(repositories.PageLimit(filters.Limit)).Find(&responses).Error
	if err != nil {
		return nil, 0, translateError("list responses", "form", formID, err)
	}
	return responses, total, nil
}

func (r *ResponsePostgreSQL) CountByForm(ctx context.Context, formID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.FormResponse{}).Where("form_id = ?", formID).Count(&count).Error
	return count, translateError("count responses", "form", formID, err)
}

func (r *ResponsePostgreSQL) DeleteByForm(ctx context.Context, formID string) error {
	err := r.db.WithContext(ctx).Where("form_id = ?", formID).Delete(&models.FormResponse{}).Error
	return translateError("delete responses", "form", formID, err)
}
