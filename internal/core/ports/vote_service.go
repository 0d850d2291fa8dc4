package ports

import (
	"context"
	"time"

	"github.com/zkvote/voting-system/internal/core/domain"
)

// VoteReceipt is what a voter gets back after a successful cast: the public
// token and the timestamp, never the chosen option.
type VoteReceipt struct {
	Token      string
	Commitment string
	CastAt     time.Time
}

// VoteStatus answers "has this caller voted in this election".
type VoteStatus struct {
	HasVoted bool
	Token    string
	CastAt   time.Time
}

// VerifiedReceipt is the public verification result for a token.
type VerifiedReceipt struct {
	Valid         bool
	Token         string
	ElectionTitle string
	CastAt        time.Time
}

// ElectionSummary identifies an election in results payloads.
type ElectionSummary struct {
	ID          string
	Title       string
	Description string
}

// TallyResult is a consistent snapshot of per-option counts. TotalVotes is
// the sum of the per-option rows, so the total always matches the breakdown.
type TallyResult struct {
	Election   ElectionSummary
	Results    []domain.OptionCount
	TotalVotes int64
}

// ReceiptItem is one entry of the public receipt list for an election.
type ReceiptItem struct {
	Token    string
	CastAt   time.Time
	Verified bool
}

type VoteService interface {
	Cast(ctx context.Context, electionID, voterID, optionID string) (*VoteReceipt, error)
	Tally(ctx context.Context, electionID string) (*TallyResult, error)
	VerifyReceipt(ctx context.Context, token string) (*VerifiedReceipt, error)
	StatusFor(ctx context.Context, electionID, voterID string) (*VoteStatus, error)
	ListReceipts(ctx context.Context, electionID string) ([]ReceiptItem, error)
}
