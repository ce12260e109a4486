package handlers

import (
	"context"
	"errors"
	"io"

	"rendezvous.club/configs/configslog"
	"rendezvous.club/middlewares"
	"rendezvous.club/pkg/session"
	"rendezvous.club/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var validate = validator.New()

// ProfileHandler serves the caller's own profile, public profiles and
// member search.
type ProfileHandler struct {
	profileService services.IProfileService
	ticketService  services.ITicketService
}

func NewProfileHandler(profileService services.IProfileService, ticketService services.ITicketService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, ticketService: ticketService}
}

// GetMe (GET /me)
func (h *ProfileHandler) GetMe(c *fiber.Ctx) error {
	sess := middlewares.SessionFromCtx(c)
	profile, err := h.profileService.GetMe(c.UserContext(), sess)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		configslog.Log.Error("GetMe Error", zap.Uint("user_id", sess.UserID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(profile)
}

// UpdateMe (PATCH /me) applies the provided fields only.
func (h *ProfileHandler) UpdateMe(c *fiber.Ctx) error {
	var input services.ProfileUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	sess := middlewares.SessionFromCtx(c)

	profile, err := h.profileService.UpdateMe(c.UserContext(), sess, input)
	if err != nil {
		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, services.ErrProfileUsernameTaken):
			status = fiber.StatusConflict
		case errors.Is(err, services.ErrProfileInvalidInput):
			status = fiber.StatusBadRequest
		default:
			configslog.Log.Error("UpdateMe Error", zap.Uint("user_id", sess.UserID), zap.Error(err))
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(profile)
}

// UploadAvatar (POST /me/avatar) multipart field "image".
func (h *ProfileHandler) UploadAvatar(c *fiber.Ctx) error {
	return h.uploadImage(c, h.profileService.UploadAvatar)
}

// UploadHeroImage (POST /me/hero-image) multipart field "image".
func (h *ProfileHandler) UploadHeroImage(c *fiber.Ctx) error {
	return h.uploadImage(c, h.profileService.UploadHeroImage)
}

// GetPublicProfile (GET /members/:id)
func (h *ProfileHandler) GetPublicProfile(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid member id"})
	}
	profile, err := h.profileService.GetPublic(c.UserContext(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		configslog.Log.Error("GetPublicProfile Error", zap.Int("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(profile)
}

// SearchMembers (GET /members/search?q=...)
func (h *ProfileHandler) SearchMembers(c *fiber.Ctx) error {
	sess := middlewares.SessionFromCtx(c)
	results, err := h.profileService.Search(c.UserContext(), sess, c.Query("q"))
	if err != nil {
		configslog.Log.Error("SearchMembers Error", zap.Uint("user_id", sess.UserID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"members": results})
}

// ListTickets (GET /me/tickets)
func (h *ProfileHandler) ListTickets(c *fiber.Ctx) error {
	sess := middlewares.SessionFromCtx(c)
	tickets, err := h.ticketService.ListMine(c.UserContext(), sess)
	if err != nil {
		configslog.Log.Error("ListTickets Error", zap.Uint("user_id", sess.UserID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"tickets": tickets})
}

type uploadFn func(ctx context.Context, sess session.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)

func (h *ProfileHandler) uploadImage(c *fiber.Ctx, upload uploadFn) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "multipart field 'image' is required"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not read uploaded file"})
	}
	defer file.Close()

	sess := middlewares.SessionFromCtx(c)
	url, err := upload(c.UserContext(), sess, fileHeader.Filename, file,
		fileHeader.Size, fileHeader.Header.Get(fiber.HeaderContentType))
	if err != nil {
		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, services.ErrStorageDisabled):
			status = fiber.StatusServiceUnavailable
		case errors.Is(err, services.ErrStorageUploadLimit):
			status = fiber.StatusRequestEntityTooLarge
		case errors.Is(err, services.ErrStorageBadType):
			status = fiber.StatusUnsupportedMediaType
		default:
			configslog.Log.Error("Profile upload Error", zap.Uint("user_id", sess.UserID), zap.Error(err))
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"url": url})
}
