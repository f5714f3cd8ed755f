// Package service holds the application's business logic, between handlers
// and repositories.
package service

import (
	"context"

	"uniforum/internal/models"
	"uniforum/internal/observability"
	"uniforum/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// VoteService validates vote requests and delegates the transactional work
// to the vote repository.
type VoteService struct {
	voteRepo repository.VoteRepository
}

// NewVoteService returns a new VoteService.
func NewVoteService(voteRepo repository.VoteRepository) *VoteService {
	return &VoteService{voteRepo: voteRepo}
}

// CastVote applies a vote request from userID against postID. Repeating the
// same kind removes the vote; requesting the opposite kind switches it.
func (s *VoteService) CastVote(ctx context.Context, userID, postID uint, kind models.VoteKind) (*models.VoteResult, error) {
	ctx, span := observability.StartServiceSpan(ctx, "vote", "CastVote")
	defer span.End()

	if userID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required to vote")
	}
	if postID == 0 {
		return nil, models.NewValidationError("Post ID is required")
	}
	if !kind.Valid() {
		return nil, models.NewValidationError("Vote kind must be positive or negative")
	}

	result, err := s.voteRepo.Cast(ctx, userID, postID, kind)
	if err != nil {
		return nil, err
	}

	observability.VotesCast.WithLabelValues(string(result.Transition)).Inc()
	span.SetAttributes(
		attribute.String("vote.transition", string(result.Transition)),
		attribute.Int("vote.score", result.Score),
	)

	return result, nil
}

// GetVoteState returns the caller's current state on a post without touching
// the counters.
func (s *VoteService) GetVoteState(ctx context.Context, userID, postID uint) (models.VoteState, error) {
	if userID == 0 {
		return models.VoteStateNone, models.NewUnauthorizedError("Authentication required")
	}
	return s.voteRepo.GetState(ctx, userID, postID)
}

// GetTally returns a post's public counters and score.
func (s *VoteService) GetTally(ctx context.Context, postID uint) (*models.VoteTally, error) {
	if postID == 0 {
		return nil, models.NewValidationError("Post ID is required")
	}
	return s.voteRepo.Tally(ctx, postID)
}

// ListVoters returns the individual votes on a post, newest first.
func (s *VoteService) ListVoters(ctx context.Context, postID uint, limit, offset int) ([]*models.Vote, error) {
	if postID == 0 {
		return nil, models.NewValidationError("Post ID is required")
	}
	return s.voteRepo.ListByPost(ctx, postID, limit, offset)
}
