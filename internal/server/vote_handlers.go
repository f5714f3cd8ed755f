package server

import (
	"context"
	"time"

	"uniforum/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CastVote handles POST /api/posts/:id/vote. One endpoint covers all three
// outcomes: a first vote creates, a repeat of the same kind removes, the
// opposite kind switches.
func (s *Server) CastVote(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)

	var req struct {
		Kind string `json:"kind"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	// Cap the transactional section so a lost lock cannot hold the request
	// open indefinitely.
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	result, castErr := s.voteService.CastVote(ctx, userID, id, models.VoteKind(req.Kind))
	if castErr != nil {
		return respondServiceError(c, castErr)
	}

	return c.JSON(fiber.Map{
		"message":        voteMessage(result.Transition),
		"new_score":      result.Score,
		"voter_state":    result.VoterState,
		"positive_count": result.PositiveCount,
		"negative_count": result.NegativeCount,
	})
}

func voteMessage(t models.VoteTransition) string {
	switch t {
	case models.VoteCreated:
		return "Vote recorded"
	case models.VoteRemoved:
		return "Vote removed"
	default:
		return "Vote switched"
	}
}

// GetMyVote handles GET /api/posts/:id/my-vote
func (s *Server) GetMyVote(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)

	state, stateErr := s.voteService.GetVoteState(c.Context(), userID, id)
	if stateErr != nil {
		return respondServiceError(c, stateErr)
	}

	return c.JSON(fiber.Map{
		"post_id":     id,
		"voter_state": state,
	})
}

// GetPostVotes handles GET /api/posts/:id/votes. Public tally; the voter
// list is included only for authenticated callers asking for it.
func (s *Server) GetPostVotes(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	tally, tallyErr := s.voteService.GetTally(c.Context(), id)
	if tallyErr != nil {
		return respondServiceError(c, tallyErr)
	}

	resp := fiber.Map{
		"post_id":        id,
		"positive_count": tally.PositiveCount,
		"negative_count": tally.NegativeCount,
		"score":          tally.Score,
	}

	if _, authed := s.optionalUserID(c); authed && c.QueryBool("voters", false) {
		page := parsePagination(c, 50)
		votes, listErr := s.voteService.ListVoters(c.Context(), id, page.Limit, page.Offset)
		if listErr != nil {
			return respondServiceError(c, listErr)
		}
		resp["voters"] = votes
	}

	return c.JSON(resp)
}
