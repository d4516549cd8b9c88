package service

import (
	"context"
	"testing"

	"identify/internal/dto"
	"identify/internal/featureflags"
	"identify/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func votesOn() *featureflags.Manager {
	return featureflags.NewManager("comment_votes=on")
}

func TestCreateComment(t *testing.T) {
	commentRepo := noopCommentRepo()
	var created *models.Comment
	commentRepo.createFn = func(_ context.Context, c *models.Comment) error {
		c.ID = 31
		created = c
		return nil
	}
	userRepo := noopUserRepo()
	userRepo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Nickname: "ada"}, nil
	}

	var published string
	svc := NewCommentService(commentRepo, noopPostRepo(), userRepo, votesOn(), func(_ context.Context, eventType string, _ any) {
		published = eventType
	})

	out, err := svc.CreateComment(context.Background(), 2, 7, dto.CommentRequest{
		Content: "looks like a candlestick",
		Type:    "suggestion",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(31), out.ID)
	assert.Equal(t, "ada", out.Author.Nickname)
	assert.Equal(t, "comment.created", published)

	require.NotNil(t, created)
	assert.Equal(t, uint(7), created.PostID)
	assert.Equal(t, models.CommentTypeSuggestion, created.Type)
}

func TestCreateCommentDefaultsType(t *testing.T) {
	commentRepo := noopCommentRepo()
	var created *models.Comment
	commentRepo.createFn = func(_ context.Context, c *models.Comment) error {
		created = c
		return nil
	}

	svc := NewCommentService(commentRepo, noopPostRepo(), noopUserRepo(), votesOn(), nil)
	_, err := svc.CreateComment(context.Background(), 1, 7, dto.CommentRequest{Content: "hm"})
	require.NoError(t, err)
	assert.Equal(t, models.CommentTypePlain, created.Type)
}

func TestCreateCommentValidation(t *testing.T) {
	svc := NewCommentService(noopCommentRepo(), noopPostRepo(), noopUserRepo(), votesOn(), nil)
	ctx := context.Background()

	_, err := svc.CreateComment(ctx, 1, 7, dto.CommentRequest{Content: "   "})
	require.Error(t, err)

	_, err = svc.CreateComment(ctx, 1, 7, dto.CommentRequest{Content: "x", Type: "rant"})
	require.Error(t, err)
}

func TestCreateCommentMissingPost(t *testing.T) {
	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post", id)
	}

	svc := NewCommentService(noopCommentRepo(), postRepo, noopUserRepo(), votesOn(), nil)
	_, err := svc.CreateComment(context.Background(), 1, 99, dto.CommentRequest{Content: "x"})
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestCreateCommentParentOnOtherPost(t *testing.T) {
	commentRepo := noopCommentRepo()
	commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
		return &models.Comment{ID: id, PostID: 8}, nil
	}

	svc := NewCommentService(commentRepo, noopPostRepo(), noopUserRepo(), votesOn(), nil)
	parent := uint(4)
	_, err := svc.CreateComment(context.Background(), 1, 7, dto.CommentRequest{
		Content:  "x",
		ParentID: &parent,
	})
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func newVoteService(comment *models.Comment, flags *featureflags.Manager) (*CommentService, **models.Comment) {
	commentRepo := noopCommentRepo()
	var saved *models.Comment
	commentRepo.updateVotesFn = func(_ context.Context, _ uint, mutate func(*models.Comment) error) (*models.Comment, error) {
		if err := mutate(comment); err != nil {
			return nil, err
		}
		saved = comment
		return comment, nil
	}
	svc := NewCommentService(commentRepo, noopPostRepo(), noopUserRepo(), flags, nil)
	return svc, &saved
}

func TestVoteSetsAreMutuallyExclusive(t *testing.T) {
	comment := &models.Comment{ID: 1, DownvotedUserIDs: models.UintList{9}, Downvotes: 1}
	svc, saved := newVoteService(comment, votesOn())

	out, err := svc.Upvote(context.Background(), 9, 1)
	require.NoError(t, err)
	require.NotNil(t, *saved)

	// The upvote withdrew the existing downvote.
	assert.Equal(t, 1, out.Upvotes)
	assert.Equal(t, 0, out.Downvotes)
	assert.Equal(t, []uint{9}, out.UpvotedUserIDs)
	assert.Empty(t, out.DownvotedUserIDs)
}

func TestVotingAgainWithdrawsVote(t *testing.T) {
	comment := &models.Comment{ID: 1, UpvotedUserIDs: models.UintList{9}, Upvotes: 1}
	svc, _ := newVoteService(comment, votesOn())

	out, err := svc.Upvote(context.Background(), 9, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Upvotes)
	assert.Empty(t, out.UpvotedUserIDs)
}

func TestDownvoteMirror(t *testing.T) {
	comment := &models.Comment{ID: 1, UpvotedUserIDs: models.UintList{9}, Upvotes: 1}
	svc, _ := newVoteService(comment, votesOn())

	out, err := svc.Downvote(context.Background(), 9, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Upvotes)
	assert.Equal(t, 1, out.Downvotes)
	assert.Equal(t, []uint{9}, out.DownvotedUserIDs)
}

func TestVoteGatedByFeatureFlag(t *testing.T) {
	comment := &models.Comment{ID: 1}
	svc, saved := newVoteService(comment, featureflags.NewManager("comment_votes=off"))

	_, err := svc.Upvote(context.Background(), 9, 1)
	require.Error(t, err)
	assert.Nil(t, *saved)
}

func TestListByPostMapsAuthors(t *testing.T) {
	commentRepo := noopCommentRepo()
	commentRepo.listByPostFn = func(_ context.Context, postID uint) ([]models.Comment, error) {
		return []models.Comment{
			{ID: 1, PostID: postID, Content: "first", User: models.User{Nickname: "ada"}},
			{ID: 2, PostID: postID, Content: "second", User: models.User{Nickname: "grace"}},
		}, nil
	}

	svc := NewCommentService(commentRepo, noopPostRepo(), noopUserRepo(), votesOn(), nil)
	out, err := svc.ListByPost(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "ada", out[0].Author.Nickname)
	assert.Equal(t, "grace", out[1].Author.Nickname)
}
