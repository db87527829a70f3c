package ports

import (
	"context"

	"github.com/streetmuse/freelance-platform/internal/core/domain"
)

// RegisterInput carries all data needed to create an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// AuthService implements registration and login.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	// Login authenticates by email and returns a signed JWT plus the user.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// UserService exposes the user directory.
type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
}
