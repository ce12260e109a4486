package handlers

import (
	"errors"

	"rendezvous.club/configs/configslog"
	"rendezvous.club/pkg/queryparams"
	"rendezvous.club/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// FeedHandler serves the club feed of published posts.
type FeedHandler struct {
	postService services.IPostService
}

func NewFeedHandler(postService services.IPostService) *FeedHandler {
	return &FeedHandler{postService: postService}
}

// ListFeed (GET /feed) pinned posts first, then newest.
func (h *FeedHandler) ListFeed(c *fiber.Ctx) error {
	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.ListParams{}
	}

	result, err := h.postService.ListFeed(c.UserContext(), params)
	if err != nil {
		configslog.Log.Error("ListFeed Error", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}

// GetPost (GET /feed/:id)
func (h *FeedHandler) GetPost(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid post id"})
	}
	post, err := h.postService.GetPost(c.UserContext(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		configslog.Log.Error("GetPost Error", zap.Int("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(post)
}
