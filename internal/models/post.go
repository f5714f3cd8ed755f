package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a student's question on the forum. The two vote counters
// are denormalized from the votes table and are only ever written by the vote
// pathway, inside the same transaction as the ledger change.
type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"not null" json:"title"`
	Content  string `gorm:"type:text" json:"content"`
	ImageURL string `json:"image_url"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	User     User   `gorm:"foreignKey:UserID" json:"user"`
	// Active posts are votable and listed; staff can retire a post without
	// deleting it.
	Active        bool `gorm:"not null;default:true" json:"active"`
	PositiveCount int  `gorm:"not null;default:0" json:"positive_count"`
	NegativeCount int  `gorm:"not null;default:0" json:"negative_count"`
	// Score is derived from the counters, never stored.
	Score int `gorm:"-" json:"score"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// MyVote is the requesting user's vote state on this post (computed)
	MyVote    VoteState      `gorm:"->" json:"my_vote"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Finalize fills derived fields after a database read.
func (p *Post) Finalize() {
	p.Score = p.PositiveCount - p.NegativeCount
	if p.MyVote == "" {
		p.MyVote = VoteStateNone
	}
}
