package handlers

import (
	"errors"

	"rendezvous.club/configs/configslog"
	"rendezvous.club/middlewares"
	"rendezvous.club/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PostHandler manages feed posts from the staff side.
type PostHandler struct {
	postService services.IPostService
}

func NewPostHandler(postService services.IPostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// CreatePost (POST /dashboard/posts)
func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	var input services.PostInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	sess := middlewares.SessionFromCtx(c)

	post, err := h.postService.CreatePost(c.UserContext(), sess, input)
	if err != nil {
		return postError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// PublishPost (POST /dashboard/posts/:id/publish)
func (h *PostHandler) PublishPost(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid post id"})
	}
	sess := middlewares.SessionFromCtx(c)

	if err := h.postService.PublishPost(c.UserContext(), sess, uint(id)); err != nil {
		return postError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func postError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrPostNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrPostForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrPostInvalidInput):
		status = fiber.StatusBadRequest
	default:
		configslog.Log.Error("Dashboard post Error", zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
