package handlers

import (
	"errors"
	"strconv"

	"rendezvous.club/configs/configslog"
	"rendezvous.club/middlewares"
	"rendezvous.club/pkg/queryparams"
	"rendezvous.club/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// GalleryHandler serves the published gallery and member uploads.
type GalleryHandler struct {
	galleryService services.IGalleryService
}

func NewGalleryHandler(galleryService services.IGalleryService) *GalleryHandler {
	return &GalleryHandler{galleryService: galleryService}
}

// ListGallery (GET /gallery) published images, newest first.
func (h *GalleryHandler) ListGallery(c *fiber.Ctx) error {
	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.ListParams{}
	}

	result, err := h.galleryService.ListPublished(c.UserContext(), params)
	if err != nil {
		configslog.Log.Error("ListGallery Error", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}

// UploadImage (POST /gallery) multipart field "image", optional "caption"
// and "event_id" form values. The image waits for staff review before it
// appears in the gallery.
func (h *GalleryHandler) UploadImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "multipart field 'image' is required"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not read uploaded file"})
	}
	defer file.Close()

	var eventID *uint
	if raw := c.FormValue("event_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || parsed == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid event_id"})
		}
		id := uint(parsed)
		eventID = &id
	}
	sess := middlewares.SessionFromCtx(c)

	image, err := h.galleryService.UploadImage(c.UserContext(), sess, fileHeader.Filename, file,
		fileHeader.Size, fileHeader.Header.Get(fiber.HeaderContentType), c.FormValue("caption"), eventID)
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
			configslog.Log.Error("Gallery upload Error", zap.Uint("user_id", sess.UserID), zap.Error(err))
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(image)
}
