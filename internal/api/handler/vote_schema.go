package handler

import (
	"time"

	"github.com/zkvote/voting-system/internal/core/ports"
)

type castVoteRequest struct {
	ElectionID string `json:"election_id" validate:"required"`
	OptionID   string `json:"option_id"   validate:"required"`
}

// castVoteResponse is the voter's receipt. It carries the public token, the
// opaque commitment and the timestamp, never the chosen option.
type castVoteResponse struct {
	Message    string    `json:"message"`
	Token      string    `json:"token"`
	Commitment string    `json:"commitment"`
	CastAt     time.Time `json:"timestamp"`
}

type verifyVoteResponse struct {
	Valid    bool      `json:"valid"`
	Token    string    `json:"token"`
	Election string    `json:"election"`
	CastAt   time.Time `json:"timestamp"`
	Message  string    `json:"message"`
}

type voteStatusResponse struct {
	HasVoted bool       `json:"hasVoted"`
	Token    string     `json:"token,omitempty"`
	CastAt   *time.Time `json:"timestamp,omitempty"`
}

type receiptResponse struct {
	Token    string    `json:"token"`
	CastAt   time.Time `json:"timestamp"`
	Verified bool      `json:"verified"`
}

type receiptListResponse struct {
	Total int               `json:"total"`
	Votes []receiptResponse `json:"votes"`
}

// --- Service result → HTTP response ---

func toCastResponse(r *ports.VoteReceipt) castVoteResponse {
	return castVoteResponse{
		Message:    "vote recorded",
		Token:      r.Token,
		Commitment: r.Commitment,
		CastAt:     r.CastAt.UTC(),
	}
}

func toVerifyResponse(r *ports.VerifiedReceipt) verifyVoteResponse {
	msg := "receipt verified"
	if !r.Valid {
		msg = "commitment check failed"
	}
	return verifyVoteResponse{
		Valid:    r.Valid,
		Token:    r.Token,
		Election: r.ElectionTitle,
		CastAt:   r.CastAt.UTC(),
		Message:  msg,
	}
}

func toStatusResponse(s *ports.VoteStatus) voteStatusResponse {
	resp := voteStatusResponse{HasVoted: s.HasVoted, Token: s.Token}
	if s.HasVoted {
		castAt := s.CastAt.UTC()
		resp.CastAt = &castAt
	}
	return resp
}

func toReceiptListResponse(items []ports.ReceiptItem) receiptListResponse {
	votes := make([]receiptResponse, len(items))
	for i, item := range items {
		votes[i] = receiptResponse{
			Token:    item.Token,
			CastAt:   item.CastAt.UTC(),
			Verified: item.Verified,
		}
	}
	return receiptListResponse{Total: len(votes), Votes: votes}
}

func toResultsResponse(t *ports.TallyResult) resultsResponse {
	results := make([]optionResultResponse, len(t.Results))
	for i, r := range t.Results {
		results[i] = optionResultResponse{OptionID: r.OptionID, Label: r.Label, Votes: r.Votes}
	}
	return resultsResponse{
		Election: electionSummaryResponse{
			ID:          t.Election.ID,
			Title:       t.Election.Title,
			Description: t.Election.Description,
		},
		Results:    results,
		TotalVotes: t.TotalVotes,
	}
}
