package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyber/backend/internal/domain/expense"
	"github.com/kyber/backend/internal/domain/shared"
)

func seedCategory(t *testing.T, repo *GormCategoryRepository, name string) *expense.Category {
	t.Helper()
	category, err := expense.NewCategory(name, "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), category))
	return category
}

func TestGormExpenseRepository_SaveAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormExpenseRepository(db)
	categoryRepo := NewGormCategoryRepository(db)
	ctx := context.Background()

	category := seedCategory(t, categoryRepo, "Office")

	exp, err := expense.NewExpense("Printer paper", decimal.NewFromFloat(42.50), category.ID, time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, exp))

	found, err := repo.FindByID(ctx, exp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Printer paper", found.Description)
	assert.True(t, found.Amount.Equal(decimal.NewFromFloat(42.50)))
	assert.Equal(t, category.ID, found.CategoryID)
}

func TestGormExpenseRepository_FindBetween(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormExpenseRepository(db)
	categoryRepo := NewGormCategoryRepository(db)
	ctx := context.Background()

	category := seedCategory(t, categoryRepo, "Travel")

	older, err := expense.NewExpense("Last month", decimal.NewFromInt(100), category.ID, time.Now().AddDate(0, -1, 0))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, older))

	recent, err := expense.NewExpense("This week", decimal.NewFromInt(200), category.ID, time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, recent))

	results, err := repo.FindBetween(ctx, time.Now().AddDate(0, 0, -7), time.Now())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "This week", results[0].Description)
}

func TestGormExpenseRepository_FilterByCategory(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormExpenseRepository(db)
	categoryRepo := NewGormCategoryRepository(db)
	ctx := context.Background()

	office := seedCategory(t, categoryRepo, "Office")
	travel := seedCategory(t, categoryRepo, "Travel")

	officeExp, err := expense.NewExpense("Desk", decimal.NewFromInt(300), office.ID, time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, officeExp))

	travelExp, err := expense.NewExpense("Flight", decimal.NewFromInt(500), travel.ID, time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, travelExp))

	filter := shared.DefaultFilter()
	filter.Filters["category_id"] = office.ID
	results, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Desk", results[0].Description)

	count, err := repo.CountByCategory(ctx, travel.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormExpenseRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormExpenseRepository(db)
	categoryRepo := NewGormCategoryRepository(db)
	ctx := context.Background()

	category := seedCategory(t, categoryRepo, "Office")
	exp, err := expense.NewExpense("Chair", decimal.NewFromInt(150), category.ID, time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, exp))

	require.NoError(t, repo.Delete(ctx, exp.ID))
	_, err = repo.FindByID(ctx, exp.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), shared.ErrNotFound)
}

func TestGormCategoryRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCategoryRepository(db)
	ctx := context.Background()

	category := seedCategory(t, repo, "Software")

	require.NoError(t, category.Update("Subscriptions", "#ff0000"))
	require.NoError(t, repo.Save(ctx, category))

	found, err := repo.FindByID(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, "Subscriptions", found.Name)
	assert.Equal(t, "#ff0000", found.Color)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.Delete(ctx, category.ID))
	_, err = repo.FindByID(ctx, category.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormVendorRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormVendorRepository(db)
	ctx := context.Background()

	vendor, err := expense.NewVendor("Cloud Hosting Ltd", "support@cloud.example", "555-0100", "2 Server Way")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, vendor))

	found, err := repo.FindByID(ctx, vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cloud Hosting Ltd", found.Name)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.Delete(ctx, vendor.ID))
	_, err = repo.FindByID(ctx, vendor.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
