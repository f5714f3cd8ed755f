package repository

import (
	"context"
	"regexp"
	"testing"

	"uniforum/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestPostRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	post := &models.Post{Title: "Test Post", Content: "Content", UserID: 10, Active: true}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "posts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(ctx, post)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	// single query carries the comment count and the caller's vote state
	mock.ExpectQuery(`SELECT posts\.\*, \(SELECT COUNT\(\*\) FROM comments(.+)my_vote FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "user_id", "active",
			"positive_count", "negative_count", "comments_count", "my_vote",
		}).AddRow(1, "Post 1", 10, true, 6, 2, 5, "positive"))

	// preload user - GORM preloads after main query
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(10, "user10"))

	post, err := repo.GetByID(ctx, 1, 2)
	assert.NoError(t, err)
	assert.Equal(t, "Post 1", post.Title)
	assert.Equal(t, 5, post.CommentsCount)
	assert.Equal(t, 4, post.Score)
	assert.Equal(t, models.VoteStatePositive, post.MyVote)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetByID_AnonymousDefaultsToNone(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT posts\.\*, (.+)'none' as my_vote FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "user_id", "active",
			"positive_count", "negative_count", "comments_count", "my_vote",
		}).AddRow(1, "Post 1", 10, true, 2, 2, 0, "none"))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(10, "user10"))

	post, err := repo.GetByID(ctx, 1, 0)
	assert.NoError(t, err)
	assert.Equal(t, 0, post.Score)
	assert.Equal(t, models.VoteStateNone, post.MyVote)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT posts\.\*`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	post, err := repo.GetByID(ctx, 42, 2)
	assert.Nil(t, post)

	var appErr *models.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_List_OnlyActive(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT posts\.\*,(.+)FROM "posts" WHERE posts\.active = `).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "user_id", "active",
			"positive_count", "negative_count", "comments_count", "my_vote",
		}).
			AddRow(1, "Post 1", 10, true, 3, 0, 1, "none").
			AddRow(2, "Post 2", 11, true, 0, 1, 0, "negative"))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).
			AddRow(10, "user10").
			AddRow(11, "user11"))

	posts, err := repo.List(ctx, 20, 0, 2, "new")
	assert.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.Equal(t, 3, posts[0].Score)
	assert.Equal(t, models.VoteStateNegative, posts[1].MyVote)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Each sort type must reach the database as an actual ORDER BY clause.
func TestPostRepository_List_SortOrders(t *testing.T) {
	tests := []struct {
		name    string
		sort    string
		orderBy string
	}{
		{"New", "new", `ORDER BY created_at DESC`},
		{"Top", "top", `ORDER BY \(positive_count - negative_count\) DESC, created_at DESC`},
		{"Hot", "hot", `ORDER BY \(positive_count - negative_count \+ comments_count \* 2\.0\) / POWER`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := NewPostRepository(db)
			ctx := context.Background()

			mock.ExpectQuery(`SELECT posts\.\*,(.+)FROM "posts" WHERE posts\.active = (.+)` + tt.orderBy).
				WillReturnRows(sqlmock.NewRows([]string{
					"id", "title", "user_id", "active",
					"positive_count", "negative_count", "comments_count", "my_vote",
				}).AddRow(1, "Post 1", 10, true, 3, 0, 1, "none"))

			mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).
				WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(10, "user10"))

			posts, err := repo.List(ctx, 20, 0, 2, tt.sort)
			assert.NoError(t, err)
			assert.Len(t, posts, 1)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostRepository_SetActive_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "posts" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.SetActive(ctx, 42, false)

	var appErr *models.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
