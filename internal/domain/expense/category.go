package expense

import (
	"strings"

	"github.com/kyber/backend/internal/domain/shared"
)

const defaultCategoryColor = "#6366f1"

// Category is a user-defined expense grouping used for the category
// breakdown in reports
type Category struct {
	shared.BaseEntity
	Name  string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Color string `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "expense_categories"
}

// NewCategory creates a new expense category
func NewCategory(name, color string) (*Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Category name cannot be empty")
	}
	if color == "" {
		color = defaultCategoryColor
	}

	return &Category{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Color:      color,
	}, nil
}

// Update changes the category name and color
func (c *Category) Update(name, color string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Category name cannot be empty")
	}
	c.Name = name
	if color != "" {
		c.Color = color
	}
	c.Touch()
	return nil
}
