package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kyber/backend/internal/domain/billing"
	"github.com/kyber/backend/internal/domain/expense"
	"github.com/kyber/backend/internal/domain/identity"
	"github.com/kyber/backend/internal/domain/settings"
)

// newTestDB opens a throwaway sqlite database with the full schema.
// Postgres-only query paths (ILIKE search) are not exercised here.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Quotes and invoices share the document_items table, so the FK
	// constraints GORM would derive from the associations do not apply.
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&identity.User{},
		&billing.Quote{},
		&billing.Invoice{},
		&billing.DocumentItem{},
		&expense.Category{},
		&expense.Vendor{},
		&expense.Expense{},
		&settings.SMTPSettings{},
		&settings.PayPalSettings{},
		&settings.BrandingSettings{},
		&settings.EmailTemplate{},
	))

	return db
}
