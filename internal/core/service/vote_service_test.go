package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/zkvote/voting-system/internal/core/commitment"
	"github.com/zkvote/voting-system/internal/core/domain"
)

func newTestEngine(t *testing.T) *commitment.Engine {
	t.Helper()
	engine, err := commitment.NewEngine("0123456789abcdef0123456789abcdef")
	if err != nil {
		t.Fatalf("engine init: %v", err)
	}
	return engine
}

func newVoteFixture(t *testing.T) (*VoteService, *stubElectionRepo, *stubVoteRepo) {
	t.Helper()
	elections := newStubElectionRepo()
	votes := newStubVoteRepo()
	svc := NewVoteService(votes, elections, newTestEngine(t), discardLogger)
	return svc, elections, votes
}

func TestVoteService_Cast_Success(t *testing.T) {
	svc, elections, votes := newVoteFixture(t)
	_ = elections.Create(context.Background(), openElection("el-1", "admin-1"))

	receipt, err := svc.Cast(context.Background(), "el-1", "voter-1", "opt-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt.Token == "" {
		t.Error("receipt token must not be empty")
	}
	if receipt.CastAt.IsZero() {
		t.Error("receipt timestamp must not be zero")
	}

	stored, err := votes.FindByElectionAndVoter(context.Background(), "el-1", "voter-1")
	if err != nil {
		t.Fatalf("vote not persisted: %v", err)
	}
	if stored.OptionID != "opt-a" {
		t.Errorf("stored option mismatch: %s", stored.OptionID)
	}
	if stored.Token != receipt.Token {
		t.Errorf("stored token %q != receipt token %q", stored.Token, receipt.Token)
	}
}

func TestVoteService_Cast_DuplicateRejected(t *testing.T) {
	svc, elections, _ := newVoteFixture(t)
	_ = elections.Create(context.Background(), openElection("el-1", "admin-1"))

	if _, err := svc.Cast(context.Background(), "el-1", "voter-1", "opt-a"); err != nil {
		t.Fatalf("first cast: %v", err)
	}
	// Second cast, even for a different option, must be refused.
	_, err := svc.Cast(context.Background(), "el-1", "voter-1", "opt-b")
	if !errors.Is(err, domain.ErrDuplicateVote) {
		t.Fatalf("expected ErrDuplicateVote, got %v", err)
	}
}

func TestVoteService_Cast_ConcurrentCastsYieldOneVote(t *testing.T) {
	svc, elections, votes := newVoteFixture(t)
	_ = elections.Create(context.Background(), openElection("el-1", "admin-1"))

	const attempts = 32
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Cast(context.Background(), "el-1", "voter-1", "opt-a")
		}(i)
	}
	wg.Wait()

	var ok, dup int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrDuplicateVote):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Fatalf("expected exactly 1 successful cast, got %d", ok)
	}
	if dup != attempts-1 {
		t.Fatalf("expected %d duplicates, got %d", attempts-1, dup)
	}

	n, _ := votes.CountByElection(context.Background(), "el-1")
	if n != 1 {
		t.Fatalf("expected 1 persisted vote, got %d", n)
	}
}

func TestVoteService_Cast_WindowEnforcement(t *testing.T) {
	now := time.Now().UTC()

	cases := []struct {
		name   string
		mutate func(e *domain.Election)
	}{
		{"before opens_at", func(e *domain.Election) {
			e.OpensAt = now.Add(time.Hour)
			e.ClosesAt = now.Add(2 * time.Hour)
		}},
		{"after closes_at", func(e *domain.Election) {
			e.OpensAt = now.Add(-2 * time.Hour)
			e.ClosesAt = now.Add(-time.Hour)
		}},
		{"inactive flag", func(e *domain.Election) {
			e.Active = false
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, elections, _ := newVoteFixture(t)
			e := openElection("el-1", "admin-1")
			tc.mutate(e)
			_ = elections.Create(context.Background(), e)

			_, err := svc.Cast(context.Background(), "el-1", "voter-1", "opt-a")
			if !errors.Is(err, domain.ErrInactiveElection) {
				t.Fatalf("expected ErrInactiveElection, got %v", err)
			}
		})
	}
}

func TestVoteService_Cast_UnknownElection(t *testing.T) {
	svc, _, _ := newVoteFixture(t)

	_, err := svc.Cast(context.Background(), "nope", "voter-1", "opt-a")
	if !errors.Is(err, domain.ErrElectionNotFound) {
		t.Fatalf("expected ErrElectionNotFound, got %v", err)
	}
}

func TestVoteService_Cast_UnknownOption(t *testing.T) {
	svc, elections, _ := newVoteFixture(t)
	_ = elections.Create(context.Background(), openElection("el-1", "admin-1"))

	_, err := svc.Cast(context.Background(), "el-1", "voter-1", "opt-zzz")
	if !errors.Is(err, domain.ErrOptionNotFound) {
		t.Fatalf("expected ErrOptionNotFound, got %v", err)
	}
}

func TestVoteService_Tally_TotalsMatchBreakdown(t *testing.T) {
	svc, elections, _ := newVoteFixture(t)
	_ = elections.Create(context.Background(), openElection("el-1", "admin-1"))

	// 3 for A, 2 for B.
	voters := map[string]string{
		"v1": "opt-a", "v2": "opt-a", "v3": "opt-a",
		"v4": "opt-b", "v5": "opt-b",
	}
	for voter, option := range voters {
		if _, err := svc.Cast(context.Background(), "el-1", voter, option); err != nil {
			t.Fatalf("cast %s: %v", voter, err)
		}
	}

	tally, err := svc.Tally(context.Background(), "el-1")
	if err != nil {
		t.Fatalf("tally: %v", err)
	}
	if tally.TotalVotes != 5 {
		t.Errorf("expected total 5, got %d", tally.TotalVotes)
	}

	var sum int64
	byLabel := make(map[string]int64)
	for _, row := range tally.Results {
		sum += row.Votes
		byLabel[row.Label] = row.Votes
	}
	if sum != tally.TotalVotes {
		t.Errorf("per-option sum %d != total %d", sum, tally.TotalVotes)
	}
	if byLabel["A"] != 3 || byLabel["B"] != 2 {
		t.Errorf("unexpected breakdown: %v", byLabel)
	}
}

func TestVoteService_Tally_ZeroVotesListsAllOptions(t *testing.T) {
	svc, elections, _ := newVoteFixture(t)
	_ = elections.Create(context.Background(), openElection("el-1", "admin-1"))

	tally, err := svc.Tally(context.Background(), "el-1")
	if err != nil {
		t.Fatalf("tally: %v", err)
	}
	if len(tally.Results) != 2 {
		t.Fatalf("expected 2 option rows, got %d", len(tally.Results))
	}
	for _, row := range tally.Results {
		if row.Votes != 0 {
			t.Errorf("option %s should have 0 votes, got %d", row.Label, row.Votes)
		}
	}
	if tally.TotalVotes != 0 {
		t.Errorf("expected total 0, got %d", tally.TotalVotes)
	}
	if tally.Election.Title != "Board election" {
		t.Errorf("missing election summary: %+v", tally.Election)
	}
}

func TestVoteService_VerifyReceipt_Valid(t *testing.T) {
	svc, elections, _ := newVoteFixture(t)
	_ = elections.Create(context.Background(), openElection("el-1", "admin-1"))

	receipt, err := svc.Cast(context.Background(), "el-1", "voter-1", "opt-a")
	if err != nil {
		t.Fatalf("cast: %v", err)
	}

	verified, err := svc.VerifyReceipt(context.Background(), receipt.Token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !verified.Valid {
		t.Error("genuine receipt reported invalid")
	}
	if verified.ElectionTitle != "Board election" {
		t.Errorf("unexpected election title: %s", verified.ElectionTitle)
	}
}

func TestVoteService_VerifyReceipt_UnknownToken(t *testing.T) {
	svc, _, _ := newVoteFixture(t)

	_, err := svc.VerifyReceipt(context.Background(), "no-such-token")
	if !errors.Is(err, domain.ErrVoteNotFound) {
		t.Fatalf("expected ErrVoteNotFound, got %v", err)
	}
}

func TestVoteService_VerifyReceipt_TamperedCommitmentInvalid(t *testing.T) {
	svc, elections, votes := newVoteFixture(t)
	_ = elections.Create(context.Background(), openElection("el-1", "admin-1"))

	receipt, err := svc.Cast(context.Background(), "el-1", "voter-1", "opt-a")
	if err != nil {
		t.Fatalf("cast: %v", err)
	}

	// Corrupt the stored commitment behind the service's back.
	votes.mu.Lock()
	votes.byToken[receipt.Token].Commitment = "v1:deadbeef:deadbeef"
	votes.mu.Unlock()

	verified, err := svc.VerifyReceipt(context.Background(), receipt.Token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if verified.Valid {
		t.Error("tampered commitment reported valid")
	}
}

func TestVoteService_StatusFor(t *testing.T) {
	svc, elections, _ := newVoteFixture(t)
	_ = elections.Create(context.Background(), openElection("el-1", "admin-1"))

	status, err := svc.StatusFor(context.Background(), "el-1", "voter-1")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.HasVoted {
		t.Error("expected HasVoted=false before casting")
	}

	receipt, err := svc.Cast(context.Background(), "el-1", "voter-1", "opt-a")
	if err != nil {
		t.Fatalf("cast: %v", err)
	}

	status, err = svc.StatusFor(context.Background(), "el-1", "voter-1")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !status.HasVoted {
		t.Error("expected HasVoted=true after casting")
	}
	if status.Token != receipt.Token {
		t.Errorf("status token %q != receipt token %q", status.Token, receipt.Token)
	}
}

func TestVoteService_ListReceipts_NeverExposesChoice(t *testing.T) {
	svc, elections, _ := newVoteFixture(t)
	_ = elections.Create(context.Background(), openElection("el-1", "admin-1"))

	if _, err := svc.Cast(context.Background(), "el-1", "voter-1", "opt-a"); err != nil {
		t.Fatalf("cast: %v", err)
	}
	if _, err := svc.Cast(context.Background(), "el-1", "voter-2", "opt-b"); err != nil {
		t.Fatalf("cast: %v", err)
	}

	items, err := svc.ListReceipts(context.Background(), "el-1")
	if err != nil {
		t.Fatalf("receipts: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 receipts, got %d", len(items))
	}
	for _, item := range items {
		if !item.Verified {
			t.Errorf("receipt %s should verify", item.Token)
		}
		if item.Token == "" || item.CastAt.IsZero() {
			t.Errorf("incomplete receipt: %+v", item)
		}
	}
}

func TestVoteService_ListReceipts_UnknownElection(t *testing.T) {
	svc, _, _ := newVoteFixture(t)

	_, err := svc.ListReceipts(context.Background(), "nope")
	if !errors.Is(err, domain.ErrElectionNotFound) {
		t.Fatalf("expected ErrElectionNotFound, got %v", err)
	}
}
