package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"

	"identify/internal/dto"
	"identify/internal/middleware"
	"identify/internal/models"
	"identify/internal/service"

	"github.com/gofiber/fiber/v2"
)

func readMultipartFile(header *multipart.FileHeader, userID uint) (service.UploadMediaInput, error) {
	file, err := header.Open()
	if err != nil {
		return service.UploadMediaInput{}, models.NewValidationError("Unreadable file upload")
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		return service.UploadMediaInput{}, models.NewValidationError("Unreadable file upload")
	}

	return service.UploadMediaInput{
		UserID:      userID,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}

// CreatePost handles POST /api/posts/create
// @Summary Create a post
// @Description Create a post from a multipart request: a postRequest JSON part plus one or more files parts
// @Tags posts
// @Accept multipart/form-data
// @Produce json
// @Param postRequest formData string true "Post fields as JSON"
// @Param files formData file true "Images of the item"
// @Success 201 {object} object{id=int}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts/create [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := currentUserID(c)

	form, err := c.MultipartForm()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Multipart form required"))
	}

	values := form.Value["postRequest"]
	if len(values) == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("postRequest part is required"))
	}
	var req dto.PostRequest
	if err := json.Unmarshal([]byte(values[0]), &req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid postRequest JSON"))
	}

	files := make([]service.UploadMediaInput, 0, len(form.File["files"]))
	for _, header := range form.File["files"] {
		in, err := readMultipartFile(header, userID)
		if err != nil {
			return respondAppError(c, err)
		}
		files = append(files, in)
	}

	post, err := s.postSvc.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:  userID,
		Request: req,
		Files:   files,
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code != "INTERNAL_ERROR" {
			return respondAppError(c, err)
		}
		// Upload and persistence failures collapse to the same status as a
		// validation error; the detail stays in the log.
		middleware.Logger.Error("Post creation failed",
			slog.Uint64("user_id", uint64(userID)),
			slog.String("error", err.Error()),
		)
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unable to create post"))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": post.ID})
}

// GetMainPosts handles GET /api/posts/main
// @Summary List posts on the main feed
// @Tags posts
// @Produce json
// @Param page query int false "Zero-based page" default(0)
// @Param size query int false "Page size" default(20)
// @Success 200 {array} dto.MiniPostDTO
// @Router /posts/main [get]
func (s *Server) GetMainPosts(c *fiber.Ctx) error {
	page, size := parsePagination(c)
	posts, err := s.postSvc.ListMain(c.UserContext(), page, size)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(posts)
}

// GetUserPosts handles GET /api/posts/user/:userId
// @Summary List a user's posts
// @Tags posts
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {array} dto.MiniPostDTO
// @Failure 400 {object} models.ErrorResponse
// @Router /posts/user/{userId} [get]
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	userID, err := paramUint(c, "userId")
	if err != nil {
		return respondAppError(c, err)
	}
	posts, err := s.postSvc.ListByUser(c.UserContext(), userID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(posts)
}

// GetLabelPosts handles GET /api/posts/tag/:tagId
// @Summary List posts carrying a Wikidata label
// @Tags posts
// @Produce json
// @Param tagId path int true "Wikidata numeric ID"
// @Success 200 {array} dto.MiniPostDTO
// @Failure 400 {object} models.ErrorResponse
// @Router /posts/tag/{tagId} [get]
func (s *Server) GetLabelPosts(c *fiber.Ctx) error {
	wikidataID, err := paramInt64(c, "tagId")
	if err != nil {
		return respondAppError(c, err)
	}
	posts, err := s.postSvc.ListByLabel(c.UserContext(), wikidataID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:postId
// @Summary Get one post with its mystery, media and labels
// @Tags posts
// @Produce json
// @Param postId path int true "Post ID"
// @Success 200 {object} dto.PostDTO
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{postId} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := paramUint(c, "postId")
	if err != nil {
		return respondAppError(c, err)
	}
	post, err := s.postSvc.GetPost(c.UserContext(), postID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(post)
}
