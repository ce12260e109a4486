package handlers

import (
	"context"
	"errors"

	"rendezvous.club/configs/configslog"
	"rendezvous.club/middlewares"
	"rendezvous.club/pkg/session"
	"rendezvous.club/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// FriendHandler serves friend requests and the friends list.
type FriendHandler struct {
	friendService services.IFriendService
}

func NewFriendHandler(friendService services.IFriendService) *FriendHandler {
	return &FriendHandler{friendService: friendService}
}

// SendRequest (POST /friends/requests)
func (h *FriendHandler) SendRequest(c *fiber.Ctx) error {
	var input struct {
		RecipientID uint `json:"recipient_id"`
	}
	if err := c.BodyParser(&input); err != nil || input.RecipientID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "recipient_id is required"})
	}
	sess := middlewares.SessionFromCtx(c)

	request, err := h.friendService.SendRequest(c.UserContext(), sess, input.RecipientID)
	if err != nil {
		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, services.ErrFriendMemberNotFound):
			status = fiber.StatusNotFound
		case errors.Is(err, services.ErrFriendSelfRequest):
			status = fiber.StatusBadRequest
		case errors.Is(err, services.ErrFriendAlreadyConnected):
			status = fiber.StatusConflict
		default:
			configslog.Log.Error("SendRequest Error", zap.Uint("user_id", sess.UserID), zap.Error(err))
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(request)
}

// AcceptRequest (POST /friends/requests/:id/accept)
func (h *FriendHandler) AcceptRequest(c *fiber.Ctx) error {
	return h.respond(c, h.friendService.AcceptRequest)
}

// DeclineRequest (POST /friends/requests/:id/decline)
func (h *FriendHandler) DeclineRequest(c *fiber.Ctx) error {
	return h.respond(c, h.friendService.DeclineRequest)
}

// CancelRequest (DELETE /friends/requests/:id)
func (h *FriendHandler) CancelRequest(c *fiber.Ctx) error {
	return h.respond(c, h.friendService.CancelRequest)
}

// ListFriends (GET /friends)
func (h *FriendHandler) ListFriends(c *fiber.Ctx) error {
	sess := middlewares.SessionFromCtx(c)
	friends, err := h.friendService.ListFriends(c.UserContext(), sess)
	if err != nil {
		configslog.Log.Error("ListFriends Error", zap.Uint("user_id", sess.UserID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"friends": friends})
}

// ListPendingRequests (GET /friends/requests)
func (h *FriendHandler) ListPendingRequests(c *fiber.Ctx) error {
	sess := middlewares.SessionFromCtx(c)
	requests, err := h.friendService.ListPending(c.UserContext(), sess)
	if err != nil {
		configslog.Log.Error("ListPendingRequests Error", zap.Uint("user_id", sess.UserID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"requests": requests})
}

func (h *FriendHandler) respond(c *fiber.Ctx, action func(ctx context.Context, sess session.Context, requestID uint) error) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request id"})
	}
	sess := middlewares.SessionFromCtx(c)

	if err := action(c.UserContext(), sess, uint(id)); err != nil {
		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, services.ErrFriendRequestNotFound):
			status = fiber.StatusNotFound
		case errors.Is(err, services.ErrFriendNotRecipient), errors.Is(err, services.ErrFriendNotRequester):
			status = fiber.StatusForbidden
		default:
			configslog.Log.Error("Friend request action Error", zap.Int("id", id), zap.Uint("user_id", sess.UserID), zap.Error(err))
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
