package repository

import (
	"context"
	"errors"
	"testing"

	"uniforum/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func postLockRows(positive, negative int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "user_id", "active", "positive_count", "negative_count"}).
		AddRow(1, "Post 1", 10, true, positive, negative)
}

func voteRows(id, userID, postID uint, kind models.VoteKind) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "post_id", "kind"}).
		AddRow(id, userID, postID, string(kind))
}

func TestVoteRepository_Cast_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewVoteRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	// post row locked for the transaction
	mock.ExpectQuery(`SELECT (.+) FROM "posts" WHERE active = (.+)FOR UPDATE`).
		WillReturnRows(postLockRows(3, 1))
	// no existing vote row for this user
	mock.ExpectQuery(`SELECT (.+) FROM "votes" WHERE user_id = (.+)FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`INSERT INTO "votes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec(`UPDATE "posts" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := repo.Cast(ctx, 2, 1, models.VoteKindPositive)
	assert.NoError(t, err)
	assert.Equal(t, 4, result.PositiveCount)
	assert.Equal(t, 1, result.NegativeCount)
	assert.Equal(t, 3, result.Score)
	assert.Equal(t, models.VoteStatePositive, result.VoterState)
	assert.Equal(t, models.VoteCreated, result.Transition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVoteRepository_Cast_ToggleOff(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewVoteRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "posts" WHERE active = (.+)FOR UPDATE`).
		WillReturnRows(postLockRows(4, 1))
	mock.ExpectQuery(`SELECT (.+) FROM "votes" WHERE user_id = (.+)FOR UPDATE`).
		WillReturnRows(voteRows(7, 2, 1, models.VoteKindPositive))
	// toggle-off deletes the ledger row outright
	mock.ExpectExec(`DELETE FROM "votes"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "posts" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := repo.Cast(ctx, 2, 1, models.VoteKindPositive)
	assert.NoError(t, err)
	assert.Equal(t, 3, result.PositiveCount)
	assert.Equal(t, 1, result.NegativeCount)
	assert.Equal(t, models.VoteStateNone, result.VoterState)
	assert.Equal(t, models.VoteRemoved, result.Transition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVoteRepository_Cast_Switch(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewVoteRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "posts" WHERE active = (.+)FOR UPDATE`).
		WillReturnRows(postLockRows(4, 1))
	mock.ExpectQuery(`SELECT (.+) FROM "votes" WHERE user_id = (.+)FOR UPDATE`).
		WillReturnRows(voteRows(7, 2, 1, models.VoteKindPositive))
	// switch flips the row and adjusts both counters in one update
	mock.ExpectExec(`UPDATE "votes" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "posts" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := repo.Cast(ctx, 2, 1, models.VoteKindNegative)
	assert.NoError(t, err)
	assert.Equal(t, 3, result.PositiveCount)
	assert.Equal(t, 2, result.NegativeCount)
	assert.Equal(t, 1, result.Score)
	assert.Equal(t, models.VoteStateNegative, result.VoterState)
	assert.Equal(t, models.VoteSwitched, result.Transition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVoteRepository_Cast_PostNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewVoteRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "posts" WHERE active = (.+)FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	result, err := repo.Cast(ctx, 2, 99, models.VoteKindPositive)
	assert.Nil(t, result)
	assert.Error(t, err)

	var appErr *models.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A drifted counter must clamp at zero instead of going negative.
func TestVoteRepository_Cast_ClampsAtZero(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewVoteRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "posts" WHERE active = (.+)FOR UPDATE`).
		WillReturnRows(postLockRows(0, 0))
	mock.ExpectQuery(`SELECT (.+) FROM "votes" WHERE user_id = (.+)FOR UPDATE`).
		WillReturnRows(voteRows(7, 2, 1, models.VoteKindPositive))
	mock.ExpectExec(`DELETE FROM "votes"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "posts" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := repo.Cast(ctx, 2, 1, models.VoteKindPositive)
	assert.NoError(t, err)
	assert.Equal(t, 0, result.PositiveCount)
	assert.Equal(t, 0, result.NegativeCount)
	assert.Equal(t, 0, result.Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A storage failure after the ledger write must roll back the whole
// transaction; a vote row without its counter adjustment never persists.
func TestVoteRepository_Cast_RollsBackOnCounterFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewVoteRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "posts" WHERE active = (.+)FOR UPDATE`).
		WillReturnRows(postLockRows(3, 1))
	mock.ExpectQuery(`SELECT (.+) FROM "votes" WHERE user_id = (.+)FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`INSERT INTO "votes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec(`UPDATE "posts" SET`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	result, err := repo.Cast(ctx, 2, 1, models.VoteKindPositive)
	assert.Nil(t, result)
	assert.Error(t, err)

	var appErr *models.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INTERNAL_ERROR", appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVoteRepository_GetState(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewVoteRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT (.+) FROM "posts" WHERE active = `).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`SELECT (.+) FROM "votes" WHERE user_id = `).
		WillReturnRows(voteRows(7, 2, 1, models.VoteKindNegative))

	state, err := repo.GetState(ctx, 2, 1)
	assert.NoError(t, err)
	assert.Equal(t, models.VoteStateNegative, state)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVoteRepository_GetState_NoVote(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewVoteRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT (.+) FROM "posts" WHERE active = `).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`SELECT (.+) FROM "votes" WHERE user_id = `).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	state, err := repo.GetState(ctx, 2, 1)
	assert.NoError(t, err)
	assert.Equal(t, models.VoteStateNone, state)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A vote-state read against a missing or inactive post is NotFound, never a
// silent "none".
func TestVoteRepository_GetState_PostNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewVoteRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT (.+) FROM "posts" WHERE active = `).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	state, err := repo.GetState(ctx, 2, 99999)
	assert.Equal(t, models.VoteStateNone, state)
	assert.Error(t, err)

	var appErr *models.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVoteRepository_Tally(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewVoteRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT (.+) FROM "posts" WHERE "posts"."id" = `).
		WillReturnRows(sqlmock.NewRows([]string{"positive_count", "negative_count"}).AddRow(8, 3))

	tally, err := repo.Tally(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, 8, tally.PositiveCount)
	assert.Equal(t, 3, tally.NegativeCount)
	assert.Equal(t, 5, tally.Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}
