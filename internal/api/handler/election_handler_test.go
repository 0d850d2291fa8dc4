package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/zkvote/voting-system/internal/core/domain"
	"github.com/zkvote/voting-system/internal/core/ports"
)

type stubElectionService struct {
	createFn func(ctx context.Context, in ports.CreateElectionInput) (*domain.Election, error)
	getFn    func(ctx context.Context, id string) (*domain.Election, error)
	listFn   func(ctx context.Context) ([]*domain.Election, error)
	updateFn func(ctx context.Context, id, userID, role string, in ports.UpdateElectionInput) (*domain.Election, error)
	deleteFn func(ctx context.Context, id, userID, role string) error
}

func (s *stubElectionService) Create(ctx context.Context, in ports.CreateElectionInput) (*domain.Election, error) {
	return s.createFn(ctx, in)
}

func (s *stubElectionService) Get(ctx context.Context, id string) (*domain.Election, error) {
	return s.getFn(ctx, id)
}

func (s *stubElectionService) List(ctx context.Context) ([]*domain.Election, error) {
	return s.listFn(ctx)
}

func (s *stubElectionService) Update(ctx context.Context, id, userID, role string, in ports.UpdateElectionInput) (*domain.Election, error) {
	return s.updateFn(ctx, id, userID, role, in)
}

func (s *stubElectionService) Delete(ctx context.Context, id, userID, role string) error {
	return s.deleteFn(ctx, id, userID, role)
}

func TestElectionHandler_Create_Success(t *testing.T) {
	opensAt := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	closesAt := opensAt.Add(48 * time.Hour)

	stub := &stubElectionService{
		createFn: func(ctx context.Context, in ports.CreateElectionInput) (*domain.Election, error) {
			if in.CreatedBy != "admin-1" {
				t.Fatalf("creator not taken from claims: %s", in.CreatedBy)
			}
			if len(in.Options) != 2 {
				t.Fatalf("expected 2 options, got %d", len(in.Options))
			}
			return &domain.Election{ID: "election-1", Title: in.Title, Active: true}, nil
		},
	}
	handler := NewElectionHandler(stub, &stubVoteService{})

	body := fmt.Sprintf(`{"title":"Board election","description":"Annual","opens_at":%q,"closes_at":%q,"options":["A","B"]}`,
		opensAt.Format(time.RFC3339), closesAt.Format(time.RFC3339))
	c, rec := newJSONContext(http.MethodPost, "/api/elections", body)
	c.Set("user_id", "admin-1")
	c.Set("role", "admin")

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestElectionHandler_Create_ValidationFailures(t *testing.T) {
	stub := &stubElectionService{
		createFn: func(ctx context.Context, in ports.CreateElectionInput) (*domain.Election, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	handler := NewElectionHandler(stub, &stubVoteService{})

	opensAt := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
	closesAt := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)

	cases := map[string]string{
		"one option":      fmt.Sprintf(`{"title":"T","description":"D","opens_at":%q,"closes_at":%q,"options":["A"]}`, opensAt, closesAt),
		"missing title":   fmt.Sprintf(`{"description":"D","opens_at":%q,"closes_at":%q,"options":["A","B"]}`, opensAt, closesAt),
		"inverted window": fmt.Sprintf(`{"title":"T","description":"D","opens_at":%q,"closes_at":%q,"options":["A","B"]}`, closesAt, opensAt),
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := newJSONContext(http.MethodPost, "/api/elections", body)
			c.Set("user_id", "admin-1")
			c.Set("role", "admin")
			err := handler.Create(c)
			assertHTTPError(t, err, http.StatusBadRequest)
		})
	}
}

func TestElectionHandler_Get_NotFound(t *testing.T) {
	stub := &stubElectionService{
		getFn: func(ctx context.Context, id string) (*domain.Election, error) {
			return nil, domain.ErrElectionNotFound
		},
	}
	handler := NewElectionHandler(stub, &stubVoteService{})

	c, _ := newJSONContext(http.MethodGet, "/api/elections/ghost", "")
	c.SetParamNames("id")
	c.SetParamValues("ghost")

	err := handler.Get(c)
	if !errors.Is(err, domain.ErrElectionNotFound) {
		t.Fatalf("expected ErrElectionNotFound, got %v", err)
	}
}

func TestElectionHandler_Update_PassesClaims(t *testing.T) {
	stub := &stubElectionService{
		updateFn: func(ctx context.Context, id, userID, role string, in ports.UpdateElectionInput) (*domain.Election, error) {
			if id != "election-1" || userID != "user-1" || role != "voter" {
				t.Fatalf("unexpected args: %s %s %s", id, userID, role)
			}
			if in.Title == nil || *in.Title != "Renamed" {
				t.Fatalf("title not forwarded: %v", in.Title)
			}
			if in.Description != nil {
				t.Fatal("untouched field must stay nil")
			}
			return &domain.Election{ID: id, Title: *in.Title}, nil
		},
	}
	handler := NewElectionHandler(stub, &stubVoteService{})

	c, rec := newJSONContext(http.MethodPut, "/api/elections/election-1", `{"title":"Renamed"}`)
	c.SetParamNames("id")
	c.SetParamValues("election-1")
	c.Set("user_id", "user-1")
	c.Set("role", "voter")

	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestElectionHandler_Delete_RefusedWithVotes(t *testing.T) {
	stub := &stubElectionService{
		deleteFn: func(ctx context.Context, id, userID, role string) error {
			return domain.ErrElectionHasVotes
		},
	}
	handler := NewElectionHandler(stub, &stubVoteService{})

	c, _ := newJSONContext(http.MethodDelete, "/api/elections/election-1", "")
	c.SetParamNames("id")
	c.SetParamValues("election-1")
	c.Set("user_id", "admin-1")
	c.Set("role", "admin")

	err := handler.Delete(c)
	if !errors.Is(err, domain.ErrElectionHasVotes) {
		t.Fatalf("expected ErrElectionHasVotes, got %v", err)
	}
}

func TestElectionHandler_Results(t *testing.T) {
	stub := &stubVoteService{
		tallyFn: func(ctx context.Context, electionID string) (*ports.TallyResult, error) {
			return &ports.TallyResult{
				Election: ports.ElectionSummary{ID: electionID, Title: "Board election"},
				Results: []domain.OptionCount{
					{OptionID: "opt-a", Label: "A", Votes: 3},
					{OptionID: "opt-b", Label: "B", Votes: 2},
				},
				TotalVotes: 5,
			}, nil
		},
	}
	handler := NewElectionHandler(&stubElectionService{}, stub)

	c, rec := newJSONContext(http.MethodGet, "/api/elections/election-1/results", "")
	c.SetParamNames("id")
	c.SetParamValues("election-1")

	if err := handler.Results(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Election   map[string]any   `json:"election"`
		Results    []map[string]any `json:"results"`
		TotalVotes int64            `json:"totalVotes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.TotalVotes != 5 {
		t.Errorf("expected total 5, got %d", resp.TotalVotes)
	}
	if len(resp.Results) != 2 {
		t.Errorf("expected 2 rows, got %d", len(resp.Results))
	}
	if resp.Election["title"] != "Board election" {
		t.Errorf("election summary missing: %+v", resp.Election)
	}
}
