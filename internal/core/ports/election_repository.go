package ports

import (
	"context"

	"github.com/zkvote/voting-system/internal/core/domain"
)

// ElectionRepository defines the interface for election persistence. Options
// are embedded in the election document, so Create is atomic by construction.
type ElectionRepository interface {
	Create(ctx context.Context, e *domain.Election) error
	FindByID(ctx context.Context, id string) (*domain.Election, error)
	List(ctx context.Context) ([]*domain.Election, error)
	Update(ctx context.Context, e *domain.Election) error
	Delete(ctx context.Context, id string) error
}
