package ports

import (
	"context"

	"github.com/streetmuse/freelance-platform/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Insert persists a new user, returning domain.ErrUserExists when the
	// email is already taken.
	Insert(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}
