package models

import (
	"time"
)

// VoteKind is the direction of a vote request.
type VoteKind string

const (
	VoteKindPositive VoteKind = "positive"
	VoteKindNegative VoteKind = "negative"
)

// Valid reports whether k is one of the two accepted directions.
func (k VoteKind) Valid() bool {
	return k == VoteKindPositive || k == VoteKindNegative
}

// State returns the voter state corresponding to an active vote of kind k.
func (k VoteKind) State() VoteState {
	return VoteState(k)
}

// VoteState is a voter's current standing on a post.
type VoteState string

const (
	VoteStateNone     VoteState = "none"
	VoteStatePositive VoteState = "positive"
	VoteStateNegative VoteState = "negative"
)

// VoteTransition tags how the ledger row changes when a vote is applied.
type VoteTransition string

const (
	// VoteCreated inserts a new ledger row (first vote on the post).
	VoteCreated VoteTransition = "created"
	// VoteRemoved deletes the ledger row (same kind repeated, toggle-off).
	VoteRemoved VoteTransition = "removed"
	// VoteSwitched flips the ledger row to the opposite kind.
	VoteSwitched VoteTransition = "switched"
)

// CounterDelta is the adjustment to apply to a post's denormalized counters.
// The two fields are always applied together as one update.
type CounterDelta struct {
	Positive int
	Negative int
}

// ResolveVote is the pure transition function of the vote state machine:
// given the voter's current state and the requested kind, it returns the next
// state, the ledger row change, and the counter adjustment. The transaction
// applying the result has no branching of its own beyond dispatching on the
// transition tag.
func ResolveVote(current VoteState, requested VoteKind) (VoteState, VoteTransition, CounterDelta) {
	switch {
	case current == VoteStateNone:
		return requested.State(), VoteCreated, kindDelta(requested, +1)
	case current == requested.State():
		return VoteStateNone, VoteRemoved, kindDelta(requested, -1)
	default:
		// Opposite kind: remove the old vote and add the new one as a single
		// combined adjustment.
		old := VoteKind(current)
		d := kindDelta(old, -1)
		add := kindDelta(requested, +1)
		d.Positive += add.Positive
		d.Negative += add.Negative
		return requested.State(), VoteSwitched, d
	}
}

func kindDelta(k VoteKind, n int) CounterDelta {
	if k == VoteKindPositive {
		return CounterDelta{Positive: n}
	}
	return CounterDelta{Negative: n}
}

// Vote is a single voter's current directional judgment on a post.
// The (UserID, PostID) pair is unique: at most one active vote per voter per
// post. Toggle-off deletes the row outright, so the model has no soft delete.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_voter_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_voter_post;index" json:"post_id"`
	Kind      VoteKind  `gorm:"type:varchar(16);not null" json:"kind"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Post Post `gorm:"foreignKey:PostID" json:"-"`
}

// VoteResult is the outcome of a cast vote: the post's freshly persisted
// counters plus the caller's resulting state.
type VoteResult struct {
	PositiveCount int            `json:"positive_count"`
	NegativeCount int            `json:"negative_count"`
	Score         int            `json:"score"`
	VoterState    VoteState      `json:"voter_state"`
	Transition    VoteTransition `json:"-"`
}

// VoteTally is a public read of a post's counters.
type VoteTally struct {
	PositiveCount int `json:"positive_count"`
	NegativeCount int `json:"negative_count"`
	Score         int `json:"score"`
}
