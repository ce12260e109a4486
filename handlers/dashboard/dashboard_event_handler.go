package handlers

import (
	"errors"

	"rendezvous.club/configs/configslog"
	"rendezvous.club/middlewares"
	"rendezvous.club/pkg/queryparams"
	"rendezvous.club/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var validate = validator.New()

// EventHandler manages events from the staff side.
type EventHandler struct {
	eventService services.IEventService
}

func NewEventHandler(eventService services.IEventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// ListEvents (GET /dashboard/events) all events, drafts included.
func (h *EventHandler) ListEvents(c *fiber.Ctx) error {
	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.ListParams{}
	}
	sess := middlewares.SessionFromCtx(c)

	result, err := h.eventService.ListAll(c.UserContext(), sess, params)
	if err != nil {
		configslog.Log.Error("Dashboard ListEvents Error", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}

// CreateEvent (POST /dashboard/events) creates an unpublished draft.
func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	var input services.EventInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	sess := middlewares.SessionFromCtx(c)

	event, err := h.eventService.CreateEvent(c.UserContext(), sess, input)
	if err != nil {
		return eventError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

// UpdateEvent (PUT /dashboard/events/:id)
func (h *EventHandler) UpdateEvent(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid event id"})
	}
	var input services.EventInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	sess := middlewares.SessionFromCtx(c)

	event, err := h.eventService.UpdateEvent(c.UserContext(), sess, uint(id), input)
	if err != nil {
		return eventError(c, err)
	}
	return c.JSON(event)
}

// PublishEvent (POST /dashboard/events/:id/publish)
func (h *EventHandler) PublishEvent(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid event id"})
	}
	sess := middlewares.SessionFromCtx(c)

	if err := h.eventService.PublishEvent(c.UserContext(), sess, uint(id)); err != nil {
		return eventError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func eventError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrEventNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrEventForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrEventInvalidInput),
		errors.Is(err, services.ErrEventTitleRequired),
		errors.Is(err, services.ErrEventTimeRequired):
		status = fiber.StatusBadRequest
	default:
		configslog.Log.Error("Dashboard event Error", zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
