package server

import (
	"identify/internal/dto"
	"identify/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/posts/:postId/comments
// @Summary Comment on a post
// @Tags comments
// @Accept json
// @Produce json
// @Param postId path int true "Post ID"
// @Param request body dto.CommentRequest true "Comment"
// @Success 201 {object} dto.CommentDTO
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts/{postId}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := paramUint(c, "postId")
	if err != nil {
		return respondAppError(c, err)
	}

	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentSvc.CreateComment(c.UserContext(), currentUserID(c), postID, req)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments handles GET /api/posts/:postId/comments
// @Summary List a post's comments in thread order
// @Tags comments
// @Produce json
// @Param postId path int true "Post ID"
// @Success 200 {array} dto.CommentDTO
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{postId}/comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := paramUint(c, "postId")
	if err != nil {
		return respondAppError(c, err)
	}
	comments, err := s.commentSvc.ListByPost(c.UserContext(), postID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(comments)
}

// UpvoteComment handles POST /api/comments/:commentId/upvote
// @Summary Toggle an upvote on a comment
// @Tags comments
// @Produce json
// @Param commentId path int true "Comment ID"
// @Success 200 {object} dto.CommentDTO
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /comments/{commentId}/upvote [post]
func (s *Server) UpvoteComment(c *fiber.Ctx) error {
	commentID, err := paramUint(c, "commentId")
	if err != nil {
		return respondAppError(c, err)
	}
	comment, err := s.commentSvc.Upvote(c.UserContext(), currentUserID(c), commentID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(comment)
}

// DownvoteComment handles POST /api/comments/:commentId/downvote
// @Summary Toggle a downvote on a comment
// @Tags comments
// @Produce json
// @Param commentId path int true "Comment ID"
// @Success 200 {object} dto.CommentDTO
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /comments/{commentId}/downvote [post]
func (s *Server) DownvoteComment(c *fiber.Ctx) error {
	commentID, err := paramUint(c, "commentId")
	if err != nil {
		return respondAppError(c, err)
	}
	comment, err := s.commentSvc.Downvote(c.UserContext(), currentUserID(c), commentID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(comment)
}
