package postgres

import (
	"testing"

	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// dryRunDB builds statements without connecting to a server.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=test dbname=test sslmode=disable"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

func TestApplyPaginationAndSort(t *testing.T) {
	db := dryRunDB(t)

	tests := []struct {
		name      string
		sortBy    string
		sortOrder string
		limit     int
		offset    int
		want      []string
	}{
		{"defaults", "", "", 0, 0, []string{"ORDER BY created_at DESC", "LIMIT 20"}},
		{"title ascending", "title", "asc", 5, 10, []string{"ORDER BY title ASC", "LIMIT 5", "OFFSET 10"}},
		{"unknown column falls back", "password; DROP TABLE forms", "desc", 500, 0, []string{"ORDER BY created_at DESC", "LIMIT 100"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
				var forms []*models.Form
				return applyPaginationAndSort(tx.Model(&models.Form{}), tt.sortBy, tt.sortOrder, tt.limit, tt.offset).Find(&forms)
			})
			for _, fragment := range tt.want {
				assert.Contains(t, sql, fragment)
			}
			assert.NotContains(t, sql, "DROP TABLE")
		})
	}
}

func TestFormTableLayout(t *testing.T) {
	db := dryRunDB(t)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var forms []*models.Form
		return tx.Where("is_shareable = ? AND share_expires_at IS NOT NULL", true).Find(&forms)
	})
	assert.Contains(t, sql, `FROM "forms"`)
	assert.Contains(t, sql, `"forms"."deleted_at" IS NULL`)

	stmt := &gorm.Statement{DB: db}
	require.NoError(t, stmt.Parse(&models.FormResponse{}))
	assert.Equal(t, "form_responses", stmt.Schema.Table)
	assert.NotNil(t, stmt.Schema.LookUpField("respondent_email"))

	require.NoError(t, stmt.Parse(&models.Form{}))
	assert.NotNil(t, stmt.Schema.LookUpField("share_expires_at"))
	assert.NotNil(t, stmt.Schema.LookUpField("share_collect_email"))
}
