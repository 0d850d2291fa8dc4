package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/zkvote/voting-system/internal/core/domain"
	"github.com/zkvote/voting-system/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub election repository
// ---------------------------------------------------------------------------

type stubElectionRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Election
	createErr error
}

func newStubElectionRepo() *stubElectionRepo {
	return &stubElectionRepo{byID: make(map[string]*domain.Election)}
}

func (r *stubElectionRepo) Create(_ context.Context, e *domain.Election) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *e
	r.byID[e.ID] = &clone
	return nil
}

func (r *stubElectionRepo) FindByID(_ context.Context, id string) (*domain.Election, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrElectionNotFound
	}
	clone := *e
	return &clone, nil
}

func (r *stubElectionRepo) List(_ context.Context) ([]*domain.Election, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Election, 0, len(r.byID))
	for _, e := range r.byID {
		clone := *e
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubElectionRepo) Update(_ context.Context, e *domain.Election) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[e.ID]; !ok {
		return domain.ErrElectionNotFound
	}
	clone := *e
	r.byID[e.ID] = &clone
	return nil
}

func (r *stubElectionRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrElectionNotFound
	}
	delete(r.byID, id)
	return nil
}

// ---------------------------------------------------------------------------
// In-memory stub vote repository
//
// Insert enforces the same unique (election_id, voter_id) constraint the real
// Mongo index provides, under a mutex, so concurrency tests exercise the
// store-decides-the-winner semantics.
// ---------------------------------------------------------------------------

type stubVoteRepo struct {
	mu      sync.Mutex
	byPair  map[string]*domain.Vote
	byToken map[string]*domain.Vote
	order   []*domain.Vote
}

func newStubVoteRepo() *stubVoteRepo {
	return &stubVoteRepo{
		byPair:  make(map[string]*domain.Vote),
		byToken: make(map[string]*domain.Vote),
	}
}

func pairKey(electionID, voterID string) string {
	return electionID + "|" + voterID
}

func (r *stubVoteRepo) Insert(_ context.Context, v *domain.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pairKey(v.ElectionID, v.VoterID)
	if _, exists := r.byPair[key]; exists {
		return domain.ErrDuplicateVote
	}
	clone := *v
	r.byPair[key] = &clone
	r.byToken[v.Token] = &clone
	r.order = append(r.order, &clone)
	return nil
}

func (r *stubVoteRepo) FindByElectionAndVoter(_ context.Context, electionID, voterID string) (*domain.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.byPair[pairKey(electionID, voterID)]
	if !ok {
		return nil, domain.ErrVoteNotFound
	}
	clone := *v
	return &clone, nil
}

func (r *stubVoteRepo) FindByToken(_ context.Context, token string) (*domain.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.byToken[token]
	if !ok {
		return nil, domain.ErrVoteNotFound
	}
	clone := *v
	return &clone, nil
}

func (r *stubVoteRepo) ListByElection(_ context.Context, electionID string) ([]*domain.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Vote
	for _, v := range r.order {
		if v.ElectionID == electionID {
			clone := *v
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubVoteRepo) TallyByOption(_ context.Context, electionID string) ([]ports.TallyRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, v := range r.order {
		if v.ElectionID == electionID {
			counts[v.OptionID]++
		}
	}
	rows := make([]ports.TallyRow, 0, len(counts))
	for optionID, n := range counts {
		rows = append(rows, ports.TallyRow{OptionID: optionID, Votes: n})
	}
	return rows, nil
}

func (r *stubVoteRepo) CountByElection(_ context.Context, electionID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, v := range r.order {
		if v.ElectionID == electionID {
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Shared fixtures
// ---------------------------------------------------------------------------

// openElection returns an election with two options that is currently open.
func openElection(id, createdBy string) *domain.Election {
	now := time.Now().UTC()
	return &domain.Election{
		ID:          id,
		Title:       "Board election",
		Description: "Annual board election",
		OpensAt:     now.Add(-time.Hour),
		ClosesAt:    now.Add(time.Hour),
		Active:      true,
		CreatedBy:   createdBy,
		CreatedAt:   now.Add(-2 * time.Hour),
		Options: []domain.Option{
			{ID: "opt-a", Label: "A", Order: 0},
			{ID: "opt-b", Label: "B", Order: 1},
		},
	}
}
