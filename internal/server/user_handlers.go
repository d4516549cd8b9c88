package server

import (
	"identify/internal/dto"
	"identify/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/users/:userId/profile
// @Summary Get a user's profile with recent activity
// @Tags users
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} dto.Profile
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{userId}/profile [get]
func (s *Server) GetProfile(c *fiber.Ctx) error {
	userID, err := paramUint(c, "userId")
	if err != nil {
		return respondAppError(c, err)
	}
	profile, err := s.userSvc.GetProfile(c.UserContext(), userID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(profile)
}

// UpdateProfile handles PUT /api/users/:userId/profile
// @Summary Update the caller's bio
// @Tags users
// @Accept json
// @Produce json
// @Param userId path int true "User ID"
// @Param request body dto.UpdateProfileRequest true "Profile changes"
// @Success 200 {object} dto.Profile
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/{userId}/profile [put]
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	userID, err := paramUint(c, "userId")
	if err != nil {
		return respondAppError(c, err)
	}
	if userID != currentUserID(c) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("You can only update your own profile"))
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.userSvc.UpdateProfile(c.UserContext(), userID, req)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(profile)
}

// UpdateProfilePicture handles PUT /api/users/:userId/profile-picture
// @Summary Upload a new profile picture
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Param userId path int true "User ID"
// @Param file formData file true "Profile image"
// @Success 200 {object} dto.MiniProfile
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/{userId}/profile-picture [put]
func (s *Server) UpdateProfilePicture(c *fiber.Ctx) error {
	userID, err := paramUint(c, "userId")
	if err != nil {
		return respondAppError(c, err)
	}
	if userID != currentUserID(c) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("You can only update your own profile"))
	}

	header, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("file part is required"))
	}
	file, err := readMultipartFile(header, userID)
	if err != nil {
		return respondAppError(c, err)
	}

	mini, err := s.userSvc.UpdateProfilePicture(c.UserContext(), userID, file)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(mini)
}

// GetMiniProfile handles GET /api/users/:userId/mini
// @Summary Get a user's condensed profile
// @Tags users
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} dto.MiniProfile
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{userId}/mini [get]
func (s *Server) GetMiniProfile(c *fiber.Ctx) error {
	userID, err := paramUint(c, "userId")
	if err != nil {
		return respondAppError(c, err)
	}
	mini, err := s.userSvc.GetMiniProfile(c.UserContext(), userID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(mini)
}

// GetNickname handles GET /api/users/:userId/nickname
// @Summary Resolve a user ID to a nickname
// @Tags users
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} object{nickname=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{userId}/nickname [get]
func (s *Server) GetNickname(c *fiber.Ctx) error {
	userID, err := paramUint(c, "userId")
	if err != nil {
		return respondAppError(c, err)
	}
	nickname, err := s.userSvc.GetNickname(c.UserContext(), userID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"nickname": nickname})
}
