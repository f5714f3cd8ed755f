// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"log/slog"

	"uniforum/internal/cache"
	"uniforum/internal/middleware"
	"uniforum/internal/models"
	"uniforum/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoteRepository defines persistence operations for the vote ledger.
type VoteRepository interface {
	Cast(ctx context.Context, userID, postID uint, kind models.VoteKind) (*models.VoteResult, error)
	GetState(ctx context.Context, userID, postID uint) (models.VoteState, error)
	Tally(ctx context.Context, postID uint) (*models.VoteTally, error)
	ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Vote, error)
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository returns a new VoteRepository implementation.
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

// Cast applies one vote request atomically. The post row and the caller's
// vote row are both locked with SELECT ... FOR UPDATE for the duration of the
// transaction, so concurrent casts against the same post serialize and the
// denormalized counters stay consistent with the ledger. Any failure rolls
// back the whole transaction; counters and ledger never diverge.
func (r *voteRepository) Cast(ctx context.Context, userID, postID uint, kind models.VoteKind) (*models.VoteResult, error) {
	defer observability.TrackQuery("cast", "votes")()

	var result models.VoteResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("active = ?", true).
			First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", postID)
			}
			return models.NewInternalError(err)
		}

		current := models.VoteStateNone
		var vote models.Vote
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND post_id = ?", userID, postID).
			First(&vote).Error
		switch {
		case err == nil:
			current = vote.Kind.State()
		case errors.Is(err, gorm.ErrRecordNotFound):
			// first interaction with this post
		default:
			return models.NewInternalError(err)
		}

		next, transition, delta := models.ResolveVote(current, kind)

		switch transition {
		case models.VoteCreated:
			vote = models.Vote{UserID: userID, PostID: postID, Kind: kind}
			if err := tx.Create(&vote).Error; err != nil {
				return models.NewInternalError(err)
			}
		case models.VoteRemoved:
			if err := tx.Delete(&models.Vote{}, vote.ID).Error; err != nil {
				return models.NewInternalError(err)
			}
		case models.VoteSwitched:
			if err := tx.Model(&vote).Update("kind", kind).Error; err != nil {
				return models.NewInternalError(err)
			}
		}

		positive := clampCounter(ctx, "positive", post.ID, post.PositiveCount+delta.Positive)
		negative := clampCounter(ctx, "negative", post.ID, post.NegativeCount+delta.Negative)

		if err := tx.Model(&post).Updates(map[string]any{
			"positive_count": positive,
			"negative_count": negative,
		}).Error; err != nil {
			return models.NewInternalError(err)
		}

		result = models.VoteResult{
			PositiveCount: positive,
			NegativeCount: negative,
			Score:         positive - negative,
			VoterState:    next,
			Transition:    transition,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidatePost(ctx, postID)
	cache.InvalidatePostsList(ctx)

	return &result, nil
}

// clampCounter floors a counter at zero. A negative value means the ledger
// and the counters drifted apart at some point; record it so the anomaly is
// visible instead of silently producing negative counts.
func clampCounter(ctx context.Context, counter string, postID uint, value int) int {
	if value >= 0 {
		return value
	}
	observability.VoteCounterClamps.WithLabelValues(counter).Inc()
	middleware.Logger.WarnContext(ctx, "vote counter clamped at zero",
		slog.Uint64("post_id", uint64(postID)),
		slog.String("counter", counter),
		slog.Int("value", value),
	)
	return 0
}

// GetState returns the caller's current state on a post. A missing or
// inactive post is NotFound; an existing post with no vote row for this
// user reads as none.
func (r *voteRepository) GetState(ctx context.Context, userID, postID uint) (models.VoteState, error) {
	defer observability.TrackQuery("get_state", "votes")()

	var post models.Post
	if err := readDB(r.db).WithContext(ctx).
		Select("id").
		Where("active = ?", true).
		First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.VoteStateNone, models.NewNotFoundError("Post", postID)
		}
		return models.VoteStateNone, models.NewInternalError(err)
	}

	var vote models.Vote
	err := readDB(r.db).WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&vote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.VoteStateNone, nil
		}
		return models.VoteStateNone, models.NewInternalError(err)
	}
	return vote.Kind.State(), nil
}

// Tally reads a post's counters. Served cache-aside with a short TTL since
// every cast invalidates the entry.
func (r *voteRepository) Tally(ctx context.Context, postID uint) (*models.VoteTally, error) {
	var tally models.VoteTally
	key := cache.PostVotesKey(postID)

	err := cache.Aside(ctx, key, &tally, cache.PostVotesTTL, func() error {
		defer observability.TrackQuery("tally", "posts")()

		var post models.Post
		if err := readDB(r.db).WithContext(ctx).
			Select("positive_count", "negative_count").
			First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", postID)
			}
			return models.NewInternalError(err)
		}
		tally = models.VoteTally{
			PositiveCount: post.PositiveCount,
			NegativeCount: post.NegativeCount,
			Score:         post.PositiveCount - post.NegativeCount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tally, nil
}

func (r *voteRepository) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Vote, error) {
	var votes []*models.Vote
	err := readDB(r.db).WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&votes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return votes, nil
}
