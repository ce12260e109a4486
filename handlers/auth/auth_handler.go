package handlers

import (
	"errors"

	"rendezvous.club/configs/configslog"
	"rendezvous.club/middlewares"
	"rendezvous.club/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var validate = validator.New()

// AuthHandler serves registration, login and the token check endpoint.
type AuthHandler struct {
	authService    services.IAuthService
	profileService services.IProfileService
}

func NewAuthHandler(authService services.IAuthService, profileService services.IProfileService) *AuthHandler {
	return &AuthHandler{authService: authService, profileService: profileService}
}

// Register (POST /auth/register)
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input services.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := h.authService.Register(c.UserContext(), input)
	if err != nil {
		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, services.ErrAuthEmailTaken), errors.Is(err, services.ErrAuthUsernameTaken):
			status = fiber.StatusConflict
		default:
			configslog.Log.Error("Register Error", zap.Error(err))
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// Login (POST /auth/login)
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := h.authService.Login(c.UserContext(), input.Email, input.Password)
	if err != nil {
		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, services.ErrAuthInvalidCredentials):
			status = fiber.StatusUnauthorized
		case errors.Is(err, services.ErrAuthAccountSuspended), errors.Is(err, services.ErrAuthAccountBanned):
			status = fiber.StatusForbidden
		default:
			configslog.Log.Error("Login Error", zap.Error(err))
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}

// Me (GET /auth/me) returns the profile behind the presented token.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	sess := middlewares.SessionFromCtx(c)
	profile, err := h.profileService.GetMe(c.UserContext(), sess)
	if err != nil {
		configslog.Log.Error("Me Error", zap.Uint("user_id", sess.UserID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(profile)
}
