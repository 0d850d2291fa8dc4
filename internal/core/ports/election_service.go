package ports

import (
	"context"
	"time"

	"github.com/zkvote/voting-system/internal/core/domain"
)

// CreateElectionInput carries the fields an admin supplies when opening a new
// election. Options are labels in ballot order; at least two are required.
type CreateElectionInput struct {
	Title       string
	Description string
	OpensAt     time.Time
	ClosesAt    time.Time
	Options     []string
	CreatedBy   string
}

// UpdateElectionInput is a partial update: nil fields are left untouched.
type UpdateElectionInput struct {
	Title       *string
	Description *string
	OpensAt     *time.Time
	ClosesAt    *time.Time
	Active      *bool
}

type ElectionService interface {
	Create(ctx context.Context, in CreateElectionInput) (*domain.Election, error)
	Get(ctx context.Context, id string) (*domain.Election, error)
	List(ctx context.Context) ([]*domain.Election, error)
	Update(ctx context.Context, id, userID, role string, in UpdateElectionInput) (*domain.Election, error)
	Delete(ctx context.Context, id, userID, role string) error
}
