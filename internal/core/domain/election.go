package domain

import (
	"errors"
	"time"
)

var ErrElectionNotFound = errors.New("election not found")
var ErrOptionNotFound = errors.New("option not found")
var ErrInvalidInput = errors.New("invalid input")
var ErrInvalidWindow = errors.New("voting window closes before it opens")
var ErrInactiveElection = errors.New("election is not open for voting")
var ErrElectionHasVotes = errors.New("election has recorded votes")
var ErrForbidden = errors.New("access forbidden")

// Option is a single choice on a ballot. The option set is fixed at election
// creation; options are never added or removed afterwards.
type Option struct {
	ID    string `json:"id" bson:"id"`
	Label string `json:"label" bson:"label"`
	Order int    `json:"order" bson:"order"`
}

// Election is the aggregate root of the registry. Options are embedded so the
// election and its ballot are created in a single write.
type Election struct {
	ID          string    `json:"id" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	OpensAt     time.Time `json:"opens_at" bson:"opens_at"`
	ClosesAt    time.Time `json:"closes_at" bson:"closes_at"`
	Active      bool      `json:"active" bson:"active"`
	CreatedBy   string    `json:"created_by" bson:"created_by"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	Options     []Option  `json:"options" bson:"options"`
}

// IsOpen reports whether a vote may be cast at instant now.
func (e *Election) IsOpen(now time.Time) bool {
	return e.Active && !now.Before(e.OpensAt) && !now.After(e.ClosesAt)
}

// HasOption reports whether optionID is on this election's ballot.
func (e *Election) HasOption(optionID string) bool {
	for _, o := range e.Options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}

// CanManage reports whether the caller may update or delete this election.
// Only the creator or an admin qualifies.
func (e *Election) CanManage(userID, role string) bool {
	return role == RoleAdmin || e.CreatedBy == userID
}
