package server

import (
	"identify/internal/dto"
	"identify/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Register handles POST /api/auth/register
// @Summary User registration
// @Description Register a new user account and return a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration request"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	resp, err := s.userSvc.Register(c.UserContext(), req)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login handles POST /api/auth/login
// @Summary User login
// @Description Log in with an email or nickname identifier
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login request"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} dto.AuthResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	resp, err := s.userSvc.Login(c.UserContext(), req)
	if err != nil {
		return respondAppError(c, err)
	}
	if !resp.Success {
		// The body carries the outcome message (wrong password vs
		// unknown identifier).
		return c.Status(fiber.StatusUnauthorized).JSON(resp)
	}
	return c.JSON(resp)
}

// CheckNickname handles GET /api/auth/check-nickname?nickname=
// @Summary Nickname availability probe
// @Tags auth
// @Produce json
// @Param nickname query string true "Nickname to probe"
// @Success 200 {object} object{nickname=string,in_use=bool}
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/check-nickname [get]
func (s *Server) CheckNickname(c *fiber.Ctx) error {
	nickname := c.Query("nickname")
	if nickname == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("nickname is required"))
	}

	inUse, err := s.userSvc.IsNicknameInUse(c.UserContext(), nickname)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"nickname": nickname, "in_use": inUse})
}

// CheckEmail handles GET /api/auth/check-email?email=
// @Summary Email availability probe
// @Tags auth
// @Produce json
// @Param email query string true "Email to probe"
// @Success 200 {object} object{email=string,in_use=bool}
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/check-email [get]
func (s *Server) CheckEmail(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("email is required"))
	}

	inUse, err := s.userSvc.IsEmailInUse(c.UserContext(), email)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"email": email, "in_use": inUse})
}
