package repository

import (
	"context"
	"fmt"
	"testing"

	"identify/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepositoryCreateAndThreadOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "ada")
	post := createTestPost(t, NewPostRepository(db), db, user.ID, "thing", nil)

	root := &models.Comment{
		PostID:  post.ID,
		UserID:  user.ID,
		Content: "what is it?",
		Type:    models.CommentTypeQuestion,
	}
	require.NoError(t, repo.Create(ctx, root))

	reply := &models.Comment{
		PostID:   post.ID,
		UserID:   user.ID,
		ParentID: &root.ID,
		Content:  "a candlestick",
		Type:     models.CommentTypeSuggestion,
	}
	require.NoError(t, repo.Create(ctx, reply))

	comments, err := repo.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)

	// Oldest first; the reply carries its parent's id.
	assert.Equal(t, "what is it?", comments[0].Content)
	require.NotNil(t, comments[1].ParentID)
	assert.Equal(t, root.ID, *comments[1].ParentID)
	assert.Equal(t, "ada", comments[0].User.Nickname)
}

func TestCommentRepositoryVotePersistence(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "ada")
	post := createTestPost(t, NewPostRepository(db), db, user.ID, "thing", nil)

	comment := &models.Comment{PostID: post.ID, UserID: user.ID, Content: "hm", Type: models.CommentTypePlain}
	require.NoError(t, repo.Create(ctx, comment))

	updated, err := repo.UpdateVotes(ctx, comment.ID, func(c *models.Comment) error {
		c.UpvotedUserIDs = models.UintList{9}
		c.Upvotes = 1
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ada", updated.User.Nickname)

	got, err := repo.GetByID(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Upvotes)
	assert.Equal(t, models.UintList{9}, got.UpvotedUserIDs)
	assert.Empty(t, got.DownvotedUserIDs)
}

func TestCommentRepositoryUpdateVotesRollsBackOnMutateError(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "ada")
	post := createTestPost(t, NewPostRepository(db), db, user.ID, "thing", nil)

	comment := &models.Comment{PostID: post.ID, UserID: user.ID, Content: "hm", Type: models.CommentTypePlain}
	require.NoError(t, repo.Create(ctx, comment))

	_, err := repo.UpdateVotes(ctx, comment.ID, func(c *models.Comment) error {
		c.Upvotes = 99
		return models.NewValidationError("rejected")
	})
	require.Error(t, err)

	got, err := repo.GetByID(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Upvotes)
}

func TestCommentRepositoryUpdateVotesMissingComment(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)

	_, err := repo.UpdateVotes(context.Background(), 999, func(_ *models.Comment) error { return nil })
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestCommentRepositoryGetRecentByUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "ada")
	post := createTestPost(t, NewPostRepository(db), db, user.ID, "thing", nil)

	for i := 0; i < 7; i++ {
		require.NoError(t, repo.Create(ctx, &models.Comment{
			PostID:  post.ID,
			UserID:  user.ID,
			Content: fmt.Sprintf("comment-%d", i),
			Type:    models.CommentTypePlain,
		}))
	}

	recent, err := repo.GetRecentByUser(ctx, user.ID, 5)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	assert.Equal(t, "comment-6", recent[0].Content)
}

func TestCommentRepositoryGetByIDNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)

	_, err := repo.GetByID(context.Background(), 999)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}
