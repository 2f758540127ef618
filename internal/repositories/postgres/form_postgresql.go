package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FormPostgreSQL struct {
	db  *gorm.DB
	now func() time.Time
}

func NewFormPostgreSQL(db *gorm.DB) *FormPostgreSQL {
	return &FormPostgreSQL{db: db, now: time.Now}
}

// Create inserts a new form
func (f *FormPostgreSQL) Create(ctx context.Context, form *models.Form) error {
	if form.ID == "" {
		form.ID = uuid.NewString()
	}
	repositories.PrepareNewForm(form, f.now())

	err := f.db.WithContext(ctx).Create(form).Error
	return translateError("create form", "form", form.ID, err)
}

// GetByID retrieves a form by ID
func (f *FormPostgreSQL) GetByID(ctx context.Context, id string) (*models.Form, error) {
	var form models.Form
	err := f.db.WithContext(ctx).Where("id = ?", id).First(&form).Error
	if err != nil {
		return nil, translateError("get form", "form", id, err)
	}
	return &form, nil
}

// GetByShareID retrieves a form by its public share id
func (f *FormPostgreSQL) GetByShareID(ctx context.Context, shareID string) (*models.Form, error) {
	var form models.Form
	err := f.db.WithContext(ctx).Where("share_id = ?", shareID).First(&form).Error
	if err != nil {
		return nil, translateError("get form by share id", "form", shareID, err)
	}
	return &form, nil
}

// Update replaces a stored form. Last save wins.
func (f *FormPostgreSQL) Update(ctx context.Context, form *models.Form) error {
	err := f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Form
		if err := tx.Select("id", "share_id", "created_at").Where("id = ?", form.ID).First(&current).Error; err != nil {
			return err
		}

		form.ShareID = current.ShareID
		form.CreatedAt = current.CreatedAt
		repositories.PrepareUpdate(form, f.now())

		return tx.Save(form).Error
	})
	return translateError("update form", "form", form.ID, err)
}

// Delete soft-deletes a form
func (f *FormPostgreSQL) Delete(ctx context.Context, id string) error {
	result := f.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Form{})
	if result.Error != nil {
		return translateError("delete form", "form", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return translateError("delete form", "form", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// List retrieves forms with filtering and pagination
func (f *FormPostgreSQL) List(ctx context.Context, filters repositories.FormFilters) ([]*models.Form, int64, error) {
	query := f.db.WithContext(ctx).Model(&models.Form{})

	if filters.OwnerID != nil {
		query = query.Where("owner_id = ?", *filters.OwnerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError("count forms", "form", "", err)
	}

	query = applyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	var forms []*models.Form
	if err := query.Find(&forms).Error; err != nil {
		return nil, 0, translateError("list forms", "form", "", err)
	}
	return forms, total, nil
}

// ListExpiredShares retrieves shareable forms past their share expiry
func (f *FormPostgreSQL) ListExpiredShares(ctx context.Context, now time.Time) ([]*models.Form, error) {
	var forms []*models.Form
	err := f.db.WithContext(ctx).
		Where("is_shareable = ? AND share_expires_at IS NOT NULL AND share_expires_at <= ?", true, now).
		Find(&forms).Error
	if err != nil {
		return nil, translateError("list expired shares", "form", "", err)
	}
	return forms, nil
}

func applyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	direction := "DESC"
	if !repositories.SortDescending(sortOrder) {
		direction = "ASC"
	}
	query = query.Order(fmt.Sprintf("%s %s", repositories.SortColumn(sortBy), direction))

	if offset > 0 {
		query = query.Offset(offset)
	}
	return query.Limit(repositories.PageLimit(limit))
}
