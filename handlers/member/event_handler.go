package handlers

import (
	"errors"

	"rendezvous.club/configs/configslog"
	"rendezvous.club/middlewares"
	"rendezvous.club/pkg/queryparams"
	"rendezvous.club/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// EventHandler serves the event list, the detail screen and the RSVP
// actions on it.
type EventHandler struct {
	eventService services.IEventService
	rsvpService  services.IRSVPService
}

func NewEventHandler(eventService services.IEventService, rsvpService services.IRSVPService) *EventHandler {
	return &EventHandler{eventService: eventService, rsvpService: rsvpService}
}

// ListEvents (GET /events) lists upcoming published events.
func (h *EventHandler) ListEvents(c *fiber.Ctx) error {
	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.ListParams{}
	}
	search := c.Query("search")

	result, err := h.eventService.ListUpcoming(c.UserContext(), search, params)
	if err != nil {
		configslog.Log.Error("ListEvents Error", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}

// GetEvent (GET /events/:id) returns the event with the caller's RSVP.
func (h *EventHandler) GetEvent(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid event id"})
	}
	sess := middlewares.SessionFromCtx(c)

	detail, err := h.eventService.GetDetail(c.UserContext(), sess, uint(id))
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		configslog.Log.Error("GetEvent Error", zap.Int("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(detail)
}

// SubmitRSVP (POST /events/:id/rsvp) creates or moves the caller's RSVP.
func (h *EventHandler) SubmitRSVP(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid event id"})
	}
	var input struct {
		Intent services.RSVPIntent `json:"intent"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	sess := middlewares.SessionFromCtx(c)

	result, err := h.rsvpService.SubmitRSVP(c.UserContext(), sess, uint(id), input.Intent)
	if err != nil {
		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, services.ErrRSVPEventNotFound):
			status = fiber.StatusNotFound
		case errors.Is(err, services.ErrRSVPInvalidIntent), errors.Is(err, services.ErrRSVPEventNotOpen):
			status = fiber.StatusBadRequest
		case errors.Is(err, services.ErrRSVPEventFull):
			status = fiber.StatusConflict
		default:
			configslog.Log.Error("SubmitRSVP Error", zap.Int("event_id", id), zap.Uint("user_id", sess.UserID), zap.Error(err))
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}

// CancelRSVP (DELETE /events/:id/rsvp) withdraws the caller's RSVP.
func (h *EventHandler) CancelRSVP(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid event id"})
	}
	sess := middlewares.SessionFromCtx(c)

	if err := h.rsvpService.CancelRSVP(c.UserContext(), sess, uint(id)); err != nil {
		if errors.Is(err, services.ErrRSVPNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		configslog.Log.Error("CancelRSVP Error", zap.Int("event_id", id), zap.Uint("user_id", sess.UserID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Calendar (GET /me/rsvps) lists the caller's RSVPs with their events.
func (h *EventHandler) Calendar(c *fiber.Ctx) error {
	sess := middlewares.SessionFromCtx(c)
	rsvps, err := h.rsvpService.ListMyRSVPs(c.UserContext(), sess)
	if err != nil {
		configslog.Log.Error("Calendar Error", zap.Uint("user_id", sess.UserID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"rsvps": rsvps})
}
