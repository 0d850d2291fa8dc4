package ports

import (
	"context"

	"github.com/zkvote/voting-system/internal/core/domain"
)

// TallyRow is one per-option count as produced by the store's aggregation.
type TallyRow struct {
	OptionID string
	Votes    int64
}

// VoteRepository is the append-only ledger. Insert must be guarded by a
// storage-level unique constraint on (election_id, voter_id): when two casts
// race, the store decides which one lands, not the application, and the
// loser surfaces as domain.ErrDuplicateVote.
type VoteRepository interface {
	Insert(ctx context.Context, v *domain.Vote) error
	FindByElectionAndVoter(ctx context.Context, electionID, voterID string) (*domain.Vote, error)
	FindByToken(ctx context.Context, token string) (*domain.Vote, error)
	ListByElection(ctx context.Context, electionID string) ([]*domain.Vote, error)
	// TallyByOption returns per-option counts from a single aggregation pass,
	// so the rows reflect one consistent snapshot of the ledger.
	TallyByOption(ctx context.Context, electionID string) ([]TallyRow, error)
	CountByElection(ctx context.Context, electionID string) (int64, error)
}
