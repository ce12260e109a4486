package handlers

import (
	"errors"

	"rendezvous.club/configs/configslog"
	"rendezvous.club/middlewares"
	"rendezvous.club/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ChatHandler serves the concierge chat thread.
type ChatHandler struct {
	chatService services.IChatService
}

func NewChatHandler(chatService services.IChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// OpenConversation (GET /chat) returns the caller's thread and history,
// creating the thread on first open.
func (h *ChatHandler) OpenConversation(c *fiber.Ctx) error {
	sess := middlewares.SessionFromCtx(c)
	conversation, messages, err := h.chatService.OpenConversation(c.UserContext(), sess)
	if err != nil {
		configslog.Log.Error("OpenConversation Error", zap.Uint("user_id", sess.UserID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"conversation": conversation, "messages": messages})
}

// SendMessage (POST /chat/:id/messages)
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid conversation id"})
	}
	var input struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	sess := middlewares.SessionFromCtx(c)

	message, err := h.chatService.SendMessage(c.UserContext(), sess, uint(id), input.Content)
	if err != nil {
		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, services.ErrChatConversationNotFound):
			status = fiber.StatusNotFound
		case errors.Is(err, services.ErrChatForbidden):
			status = fiber.StatusForbidden
		case errors.Is(err, services.ErrChatEmptyMessage):
			status = fiber.StatusBadRequest
		default:
			configslog.Log.Error("SendMessage Error", zap.Int("conversation_id", id), zap.Uint("user_id", sess.UserID), zap.Error(err))
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}
