package domain

import (
	"errors"
	"time"
)

var ErrVoteNotFound = errors.New("vote not found")
var ErrDuplicateVote = errors.New("vote already cast for this election")

// Vote is an append-only ledger entry. A vote is never updated or deleted;
// immutability is the integrity guarantee. OptionID must never appear in a
// response that also identifies the voter.
type Vote struct {
	ID         string    `json:"id" bson:"_id"`
	ElectionID string    `json:"election_id" bson:"election_id"`
	VoterID    string    `json:"-" bson:"voter_id"`
	OptionID   string    `json:"-" bson:"option_id"`
	Commitment string    `json:"commitment" bson:"commitment"`
	Token      string    `json:"token" bson:"token"`
	CastAt     time.Time `json:"cast_at" bson:"cast_at"`
}

// OptionCount is a single row of a tally.
type OptionCount struct {
	OptionID string `json:"option_id"`
	Label    string `json:"label"`
	Votes    int64  `json:"votes"`
}
