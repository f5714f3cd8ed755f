package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"uniforum/internal/models"
	"uniforum/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockVoteRepository is a mock of the VoteRepository interface
type MockVoteRepository struct {
	mock.Mock
}

func (m *MockVoteRepository) Cast(ctx context.Context, userID, postID uint, kind models.VoteKind) (*models.VoteResult, error) {
	args := m.Called(ctx, userID, postID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VoteResult), args.Error(1)
}

func (m *MockVoteRepository) GetState(ctx context.Context, userID, postID uint) (models.VoteState, error) {
	args := m.Called(ctx, userID, postID)
	return args.Get(0).(models.VoteState), args.Error(1)
}

func (m *MockVoteRepository) Tally(ctx context.Context, postID uint) (*models.VoteTally, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VoteTally), args.Error(1)
}

func (m *MockVoteRepository) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Vote, error) {
	args := m.Called(ctx, postID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Vote), args.Error(1)
}

func newVoteTestApp(mockRepo *MockVoteRepository, userID uint) (*fiber.App, *Server) {
	app := fiber.New()
	s := &Server{voteService: service.NewVoteService(mockRepo)}

	app.Use(func(c *fiber.Ctx) error {
		if userID != 0 {
			c.Locals("userID", userID)
		}
		return c.Next()
	})
	return app, s
}

func TestCastVote(t *testing.T) {
	tests := []struct {
		name           string
		postID         string
		body           map[string]string
		mockSetup      func(m *MockVoteRepository)
		expectedStatus int
		wantMessage    string
	}{
		{
			name:   "First Vote",
			postID: "1",
			body:   map[string]string{"kind": "positive"},
			mockSetup: func(m *MockVoteRepository) {
				m.On("Cast", mock.Anything, uint(1), uint(1), models.VoteKindPositive).
					Return(&models.VoteResult{
						PositiveCount: 1,
						Score:         1,
						VoterState:    models.VoteStatePositive,
						Transition:    models.VoteCreated,
					}, nil)
			},
			expectedStatus: http.StatusOK,
			wantMessage:    "Vote recorded",
		},
		{
			name:   "Toggle Off",
			postID: "1",
			body:   map[string]string{"kind": "positive"},
			mockSetup: func(m *MockVoteRepository) {
				m.On("Cast", mock.Anything, uint(1), uint(1), models.VoteKindPositive).
					Return(&models.VoteResult{
						VoterState: models.VoteStateNone,
						Transition: models.VoteRemoved,
					}, nil)
			},
			expectedStatus: http.StatusOK,
			wantMessage:    "Vote removed",
		},
		{
			name:   "Switch",
			postID: "1",
			body:   map[string]string{"kind": "negative"},
			mockSetup: func(m *MockVoteRepository) {
				m.On("Cast", mock.Anything, uint(1), uint(1), models.VoteKindNegative).
					Return(&models.VoteResult{
						NegativeCount: 1,
						Score:         -1,
						VoterState:    models.VoteStateNegative,
						Transition:    models.VoteSwitched,
					}, nil)
			},
			expectedStatus: http.StatusOK,
			wantMessage:    "Vote switched",
		},
		{
			name:           "Invalid Kind",
			postID:         "1",
			body:           map[string]string{"kind": "sideways"},
			mockSetup:      func(m *MockVoteRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "Post Not Found",
			postID: "99",
			body:   map[string]string{"kind": "positive"},
			mockSetup: func(m *MockVoteRepository) {
				m.On("Cast", mock.Anything, uint(1), uint(99), models.VoteKindPositive).
					Return(nil, models.NewNotFoundError("Post", uint(99)))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Invalid Post ID",
			postID:         "abc",
			body:           map[string]string{"kind": "positive"},
			mockSetup:      func(m *MockVoteRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockVoteRepository)
			tt.mockSetup(mockRepo)

			app, s := newVoteTestApp(mockRepo, 1)
			app.Post("/posts/:id/vote", s.CastVote)

			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/posts/"+tt.postID+"/vote", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, _ := app.Test(req)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.wantMessage != "" {
				var payload map[string]any
				assert.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
				assert.Equal(t, tt.wantMessage, payload["message"])
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestGetMyVote(t *testing.T) {
	mockRepo := new(MockVoteRepository)
	mockRepo.On("GetState", mock.Anything, uint(1), uint(7)).
		Return(models.VoteStateNegative, nil)

	app, s := newVoteTestApp(mockRepo, 1)
	app.Get("/posts/:id/my-vote", s.GetMyVote)

	req := httptest.NewRequest(http.MethodGet, "/posts/7/my-vote", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var payload map[string]any
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "negative", payload["voter_state"])
}

func TestGetPostVotes(t *testing.T) {
	mockRepo := new(MockVoteRepository)
	mockRepo.On("Tally", mock.Anything, uint(3)).
		Return(&models.VoteTally{PositiveCount: 8, NegativeCount: 3, Score: 5}, nil)

	// Anonymous caller gets the tally but never the voter list.
	app, s := newVoteTestApp(mockRepo, 0)
	app.Get("/posts/:id/votes", s.GetPostVotes)

	req := httptest.NewRequest(http.MethodGet, "/posts/3/votes?voters=true", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var payload map[string]any
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, float64(5), payload["score"])
	assert.NotContains(t, payload, "voters")
	mockRepo.AssertNotCalled(t, "ListByPost")
}
