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

// NotificationHandler serves the notification list and read state.
type NotificationHandler struct {
	notificationService services.INotificationService
}

func NewNotificationHandler(notificationService services.INotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// ListNotifications (GET /notifications)
func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.ListParams{}
	}
	sess := middlewares.SessionFromCtx(c)

	result, err := h.notificationService.ListMine(c.UserContext(), sess, params)
	if err != nil {
		configslog.Log.Error("ListNotifications Error", zap.Uint("user_id", sess.UserID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}

// UnreadCount (GET /notifications/unread-count)
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	sess := middlewares.SessionFromCtx(c)
	count, err := h.notificationService.UnreadCount(c.UserContext(), sess)
	if err != nil {
		configslog.Log.Error("UnreadCount Error", zap.Uint("user_id", sess.UserID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"unread": count})
}

// MarkRead (POST /notifications/:id/read)
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid notification id"})
	}
	sess := middlewares.SessionFromCtx(c)

	if err := h.notificationService.MarkRead(c.UserContext(), sess, uint(id)); err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		configslog.Log.Error("MarkRead Error", zap.Int("id", id), zap.Uint("user_id", sess.UserID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkAllRead (POST /notifications/read-all)
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	sess := middlewares.SessionFromCtx(c)
	if err := h.notificationService.MarkAllRead(c.UserContext(), sess); err != nil {
		configslog.Log.Error("MarkAllRead Error", zap.Uint("user_id", sess.UserID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
