package expense

import (
	"context"

	"github.com/google/uuid"

	"github.com/kyber/backend/internal/domain/expense"
	"github.com/kyber/backend/internal/domain/shared"
)

// CategoryService handles expense category operations
type CategoryService struct {
	categoryRepo expense.CategoryRepository
	expenseRepo  expense.ExpenseRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo expense.CategoryRepository, expenseRepo expense.ExpenseRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		expenseRepo:  expenseRepo,
	}
}

// List retrieves all categories ordered by name
func (s *CategoryService) List(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToCategoryResponses(categories), nil
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, req CategoryRequest) (*CategoryResponse, error) {
	category, err := expense.NewCategory(req.Name, req.Color)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// Update renames or recolors a category
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req CategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := category.Update(req.Name, req.Color); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// Delete removes a category. Categories still referenced by expenses
// cannot be removed.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return err
	}

	inUse, err := s.expenseRepo.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if inUse > 0 {
		return shared.NewDomainError("STATE_CONFLICT", "Category is referenced by existing expenses")
	}

	return s.categoryRepo.Delete(ctx, id)
}
