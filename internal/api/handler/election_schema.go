package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type createElectionRequest struct {
	Title       string    `json:"title"       validate:"required"`
	Description string    `json:"description" validate:"required"`
	OpensAt     time.Time `json:"opens_at"    validate:"required"`
	ClosesAt    time.Time `json:"closes_at"   validate:"required,gtfield=OpensAt"`
	Options     []string  `json:"options"     validate:"required,min=2,dive,required"`
}

// updateElectionRequest is a partial update; absent fields stay untouched.
type updateElectionRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	OpensAt     *time.Time `json:"opens_at,omitempty"`
	ClosesAt    *time.Time `json:"closes_at,omitempty"`
	Active      *bool      `json:"active,omitempty"`
}

type deletedResponse struct {
	Message string `json:"message"`
}

// Response-only types owned by the transport layer, separate from domain
// types so the JSON contract is not coupled to internal changes.

type electionSummaryResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type optionResultResponse struct {
	OptionID string `json:"option_id"`
	Label    string `json:"label"`
	Votes    int64  `json:"votes"`
}

type resultsResponse struct {
	Election   electionSummaryResponse `json:"election"`
	Results    []optionResultResponse  `json:"results"`
	TotalVotes int64                   `json:"totalVotes"`
}
