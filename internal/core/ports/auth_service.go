package ports

import (
	"context"

	"github.com/zkvote/voting-system/internal/core/domain"
)

type AuthService interface {
	// Register creates the account and, like Login, issues a session token so
	// a fresh registration is immediately usable.
	Register(ctx context.Context, email, password, role string) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
}
