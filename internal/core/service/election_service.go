package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/zkvote/voting-system/internal/core/domain"
	"github.com/zkvote/voting-system/internal/core/ports"
)

// ElectionService implements the election registry.
type ElectionService struct {
	elections ports.ElectionRepository
	votes     ports.VoteRepository
	logger    zerolog.Logger
}

func NewElectionService(elections ports.ElectionRepository, votes ports.VoteRepository, logger zerolog.Logger) *ElectionService {
	return &ElectionService{elections: elections, votes: votes, logger: logger}
}

// Create opens a new election. The ballot needs at least two non-empty
// options and the window must close after it opens. Options are embedded in
// the election document, so a failed write leaves no partial state behind.
func (s *ElectionService) Create(ctx context.Context, in ports.CreateElectionInput) (*domain.Election, error) {
	if in.Title == "" || in.Description == "" || in.OpensAt.IsZero() || in.ClosesAt.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Options) < 2 {
		return nil, domain.ErrInvalidInput
	}
	for _, label := range in.Options {
		if strings.TrimSpace(label) == "" {
			return nil, domain.ErrInvalidInput
		}
	}
	if !in.ClosesAt.After(in.OpensAt) {
		return nil, domain.ErrInvalidWindow
	}

	options := make([]domain.Option, len(in.Options))
	for i, label := range in.Options {
		options[i] = domain.Option{
			ID:    uuid.NewString(),
			Label: label,
			Order: i,
		}
	}

	election := &domain.Election{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		OpensAt:     in.OpensAt.UTC(),
		ClosesAt:    in.ClosesAt.UTC(),
		Active:      true,
		CreatedBy:   in.CreatedBy,
		CreatedAt:   time.Now().UTC(),
		Options:     options,
	}

	if err := s.elections.Create(ctx, election); err != nil {
		s.logger.Error().Err(err).Msg("failed to create election")
		return nil, err
	}

	s.logger.Info().Str("election_id", election.ID).Str("created_by", in.CreatedBy).
		Int("options", len(options)).Msg("election created")

	return election, nil
}

func (s *ElectionService) Get(ctx context.Context, id string) (*domain.Election, error) {
	if id == "" {
		return nil, domain.ErrElectionNotFound
	}
	return s.elections.FindByID(ctx, id)
}

func (s *ElectionService) List(ctx context.Context) ([]*domain.Election, error) {
	return s.elections.List(ctx)
}

// Update applies a partial update. Only the creator or an admin may change an
// election, and the resulting window must still be valid.
func (s *ElectionService) Update(ctx context.Context, id, userID, role string, in ports.UpdateElectionInput) (*domain.Election, error) {
	election, err := s.elections.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !election.CanManage(userID, role) {
		return nil, domain.ErrForbidden
	}

	if in.Title != nil {
		if *in.Title == "" {
			return nil, domain.ErrInvalidInput
		}
		election.Title = *in.Title
	}
	if in.Description != nil {
		election.Description = *in.Description
	}
	if in.OpensAt != nil {
		election.OpensAt = in.OpensAt.UTC()
	}
	if in.ClosesAt != nil {
		election.ClosesAt = in.ClosesAt.UTC()
	}
	if in.Active != nil {
		election.Active = *in.Active
	}
	if !election.ClosesAt.After(election.OpensAt) {
		return nil, domain.ErrInvalidWindow
	}

	if err := s.elections.Update(ctx, election); err != nil {
		s.logger.Error().Err(err).Str("election_id", id).Msg("failed to update election")
		return nil, err
	}

	s.logger.Info().Str("election_id", id).Str("user_id", userID).Msg("election updated")
	return election, nil
}

// Delete removes an election and its embedded options. Deletion is refused
// once any vote references the election: the ledger is append-only and a
// delete would orphan its entries.
func (s *ElectionService) Delete(ctx context.Context, id, userID, role string) error {
	election, err := s.elections.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !election.CanManage(userID, role) {
		return domain.ErrForbidden
	}

	n, err := s.votes.CountByElection(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrElectionHasVotes
	}

	if err := s.elections.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("election_id", id).Msg("failed to delete election")
		return err
	}

	s.logger.Info().Str("election_id", id).Str("user_id", userID).Msg("election deleted")
	return nil
}
