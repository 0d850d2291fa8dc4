package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/zkvote/voting-system/internal/core/domain"
	"github.com/zkvote/voting-system/internal/core/ports"
)

// CommitmentEngine abstracts the keyed-commitment scheme.
type CommitmentEngine interface {
	Commit(voterID, optionID, electionID, nonce string) (commitment, token string, err error)
	Verify(token, commitment string) bool
}

// VoteService is the vote ledger: it enforces one vote per voter per election
// and answers tally, status and verification queries.
type VoteService struct {
	votes     ports.VoteRepository
	elections ports.ElectionRepository
	engine    CommitmentEngine
	logger    zerolog.Logger
}

func NewVoteService(votes ports.VoteRepository, elections ports.ElectionRepository, engine CommitmentEngine, logger zerolog.Logger) *VoteService {
	return &VoteService{votes: votes, elections: elections, engine: engine, logger: logger}
}

// Cast records a vote. The election must exist, be active and inside its
// window, and the option must be on the ballot. The single-vote invariant is
// enforced by the repository's unique (election, voter) constraint: when two
// casts race past the pre-check, exactly one insert lands and the other
// returns ErrDuplicateVote. The receipt never echoes the chosen option.
func (s *VoteService) Cast(ctx context.Context, electionID, voterID, optionID string) (*ports.VoteReceipt, error) {
	if electionID == "" || voterID == "" || optionID == "" {
		return nil, domain.ErrInvalidInput
	}

	election, err := s.elections.FindByID(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if !election.IsOpen(time.Now().UTC()) {
		return nil, domain.ErrInactiveElection
	}
	if !election.HasOption(optionID) {
		return nil, domain.ErrOptionNotFound
	}

	// Friendly fast path; the unique index remains the authority under races.
	if _, err := s.votes.FindByElectionAndVoter(ctx, electionID, voterID); err == nil {
		return nil, domain.ErrDuplicateVote
	} else if !errors.Is(err, domain.ErrVoteNotFound) {
		return nil, err
	}

	nonce := uuid.NewString()
	commitment, token, err := s.engine.Commit(voterID, optionID, electionID, nonce)
	if err != nil {
		s.logger.Error().Err(err).Str("election_id", electionID).Msg("commitment generation failed")
		return nil, err
	}

	vote := &domain.Vote{
		ID:         uuid.NewString(),
		ElectionID: electionID,
		VoterID:    voterID,
		OptionID:   optionID,
		Commitment: commitment,
		Token:      token,
		CastAt:     time.Now().UTC(),
	}

	if err := s.votes.Insert(ctx, vote); err != nil {
		if errors.Is(err, domain.ErrDuplicateVote) {
			return nil, domain.ErrDuplicateVote
		}
		s.logger.Error().Err(err).Str("election_id", electionID).Msg("failed to persist vote")
		return nil, err
	}

	s.logger.Info().Str("election_id", electionID).Str("token", token).Msg("vote cast")

	return &ports.VoteReceipt{Token: token, Commitment: commitment, CastAt: vote.CastAt}, nil
}

// Tally returns per-option counts for an election. Counts come from a single
// aggregation pass over the ledger and the total is the sum of those rows, so
// the breakdown and the total can never disagree. Options with no votes are
// reported with zero.
func (s *VoteService) Tally(ctx context.Context, electionID string) (*ports.TallyResult, error) {
	election, err := s.elections.FindByID(ctx, electionID)
	if err != nil {
		return nil, err
	}

	rows, err := s.votes.TallyByOption(ctx, electionID)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.OptionID] = row.Votes
	}

	var total int64
	results := make([]domain.OptionCount, len(election.Options))
	for i, opt := range election.Options {
		n := counts[opt.ID]
		results[i] = domain.OptionCount{OptionID: opt.ID, Label: opt.Label, Votes: n}
		total += n
	}

	return &ports.TallyResult{
		Election: ports.ElectionSummary{
			ID:          election.ID,
			Title:       election.Title,
			Description: election.Description,
		},
		Results:    results,
		TotalVotes: total,
	}, nil
}

// VerifyReceipt looks up the vote behind a public token and checks the
// commitment against it. A token with no matching vote is ErrVoteNotFound; a
// matching vote with a commitment that fails the keyed check is reported as
// invalid, not as an error.
func (s *VoteService) VerifyReceipt(ctx context.Context, token string) (*ports.VerifiedReceipt, error) {
	if token == "" {
		return nil, domain.ErrVoteNotFound
	}

	vote, err := s.votes.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	title := ""
	if election, err := s.elections.FindByID(ctx, vote.ElectionID); err == nil {
		title = election.Title
	}

	return &ports.VerifiedReceipt{
		Valid:         s.engine.Verify(vote.Token, vote.Commitment),
		Token:         vote.Token,
		ElectionTitle: title,
		CastAt:        vote.CastAt,
	}, nil
}

// StatusFor reports whether the caller has voted in an election. Idempotent
// read, no side effects.
func (s *VoteService) StatusFor(ctx context.Context, electionID, voterID string) (*ports.VoteStatus, error) {
	vote, err := s.votes.FindByElectionAndVoter(ctx, electionID, voterID)
	if err != nil {
		if errors.Is(err, domain.ErrVoteNotFound) {
			return &ports.VoteStatus{HasVoted: false}, nil
		}
		return nil, err
	}
	return &ports.VoteStatus{HasVoted: true, Token: vote.Token, CastAt: vote.CastAt}, nil
}

// ListReceipts returns the public receipt list for an election: tokens,
// timestamps and whether each commitment still verifies. Voter and option
// never appear here.
func (s *VoteService) ListReceipts(ctx context.Context, electionID string) ([]ports.ReceiptItem, error) {
	if _, err := s.elections.FindByID(ctx, electionID); err != nil {
		return nil, err
	}

	votes, err := s.votes.ListByElection(ctx, electionID)
	if err != nil {
		return nil, err
	}

	items := make([]ports.ReceiptItem, len(votes))
	for i, v := range votes {
		items[i] = ports.ReceiptItem{
			Token:    v.Token,
			CastAt:   v.CastAt,
			Verified: s.engine.Verify(v.Token, v.Commitment),
		}
	}
	return items, nil
}
