package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/kyber/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by email, case insensitive
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAll finds users with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// Delete removes a user
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts users matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountAdmins counts users holding the admin role
	CountAdmins(ctx context.Context) (int64, error)
}
