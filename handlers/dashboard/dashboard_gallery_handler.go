package handlers

import (
	"errors"

	"rendezvous.club/configs/configslog"
	"rendezvous.club/middlewares"
	"rendezvous.club/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// GalleryHandler reviews member-uploaded gallery images.
type GalleryHandler struct {
	galleryService services.IGalleryService
}

func NewGalleryHandler(galleryService services.IGalleryService) *GalleryHandler {
	return &GalleryHandler{galleryService: galleryService}
}

// PublishImage (POST /dashboard/gallery/:id/publish) makes a pending image
// visible in the member gallery.
func (h *GalleryHandler) PublishImage(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid image id"})
	}
	sess := middlewares.SessionFromCtx(c)

	if err := h.galleryService.PublishImage(c.UserContext(), sess, uint(id)); err != nil {
		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, services.ErrGalleryImageNotFound):
			status = fiber.StatusNotFound
		case errors.Is(err, services.ErrGalleryForbidden):
			status = fiber.StatusForbidden
		default:
			configslog.Log.Error("Dashboard gallery Error", zap.Int("id", id), zap.Error(err))
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
