package service

import (
	"context"
	"strings"

	"identify/internal/dto"
	"identify/internal/featureflags"
	"identify/internal/mapper"
	"identify/internal/models"
	"identify/internal/observability"
	"identify/internal/repository"
)

// CommentService implements threaded comments and the vote endpoints.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
	flags       *featureflags.Manager

	publish func(ctx context.Context, eventType string, payload any)
}

// NewCommentService returns a CommentService wired to its repositories.
func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	flags *featureflags.Manager,
	publish func(ctx context.Context, eventType string, payload any),
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		flags:       flags,
		publish:     publish,
	}
}

func validCommentType(t string) (models.CommentType, bool) {
	switch models.CommentType(t) {
	case models.CommentTypeQuestion, models.CommentTypeSuggestion, models.CommentTypePlain:
		return models.CommentType(t), true
	case "":
		return models.CommentTypePlain, true
	default:
		return "", false
	}
}

// CreateComment adds a comment (optionally threaded) to a post.
func (s *CommentService) CreateComment(ctx context.Context, userID, postID uint, in dto.CommentRequest) (*dto.CommentDTO, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	commentType, ok := validCommentType(in.Type)
	if !ok {
		return nil, models.NewValidationError("Invalid comment type")
	}

	// The post must exist; a missing post is the caller's 404.
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	if in.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != postID {
			return nil, models.NewValidationError("Parent comment belongs to a different post")
		}
	}

	author, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ParentID: in.ParentID,
		PostID:   postID,
		UserID:   userID,
		Content:  in.Content,
		Type:     commentType,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	observability.CommentsCreatedTotal.WithLabelValues(string(commentType)).Inc()
	if s.publish != nil {
		s.publish(ctx, "comment.created", map[string]any{
			"comment_id": comment.ID,
			"post_id":    postID,
			"user_id":    userID,
		})
	}

	out := mapper.ToCommentDTO(comment, mapper.ToMiniProfile(author))
	return &out, nil
}

// ListByPost returns the comments of a post in thread order with author
// projections.
func (s *CommentService) ListByPost(ctx context.Context, postID uint) ([]dto.CommentDTO, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CommentDTO, 0, len(comments))
	for i := range comments {
		out = append(out, mapper.ToCommentDTO(&comments[i], mapper.ToMiniProfile(&comments[i].User)))
	}
	return out, nil
}

// Upvote toggles the voter's upvote; an existing downvote is withdrawn
// first so the two sets stay mutually exclusive.
func (s *CommentService) Upvote(ctx context.Context, userID, commentID uint) (*dto.CommentDTO, error) {
	return s.vote(ctx, userID, commentID, "up")
}

// Downvote toggles the voter's downvote, the mirror of Upvote.
func (s *CommentService) Downvote(ctx context.Context, userID, commentID uint) (*dto.CommentDTO, error) {
	return s.vote(ctx, userID, commentID, "down")
}

func (s *CommentService) vote(ctx context.Context, userID, commentID uint, direction string) (*dto.CommentDTO, error) {
	if !s.flags.Enabled(featureflags.CommentVotes, userID) {
		return nil, models.NewValidationError("Comment voting is disabled")
	}

	// The read-modify-write runs inside the repository transaction so two
	// concurrent votes on the same comment cannot lose an update.
	comment, err := s.commentRepo.UpdateVotes(ctx, commentID, func(c *models.Comment) error {
		switch direction {
		case "up":
			if c.UpvotedUserIDs.Contains(userID) {
				// Voting again withdraws the vote.
				c.UpvotedUserIDs = c.UpvotedUserIDs.Without(userID)
			} else {
				c.DownvotedUserIDs = c.DownvotedUserIDs.Without(userID)
				c.UpvotedUserIDs = append(c.UpvotedUserIDs, userID)
			}
		case "down":
			if c.DownvotedUserIDs.Contains(userID) {
				c.DownvotedUserIDs = c.DownvotedUserIDs.Without(userID)
			} else {
				c.UpvotedUserIDs = c.UpvotedUserIDs.Without(userID)
				c.DownvotedUserIDs = append(c.DownvotedUserIDs, userID)
			}
		}

		// The sets are authoritative; the counters mirror them.
		c.Upvotes = len(c.UpvotedUserIDs)
		c.Downvotes = len(c.DownvotedUserIDs)
		return nil
	})
	if err != nil {
		return nil, err
	}
	observability.CommentVotesTotal.WithLabelValues(direction).Inc()

	out := mapper.ToCommentDTO(comment, mapper.ToMiniProfile(&comment.User))
	return &out, nil
}
