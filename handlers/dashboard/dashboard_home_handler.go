package handlers

import (
	"errors"

	"rendezvous.club/configs/configslog"
	"rendezvous.club/middlewares"
	"rendezvous.club/models"
	"rendezvous.club/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HomeHandler serves the staff overview numbers.
type HomeHandler struct {
	dashboardService services.IDashboardService
}

func NewHomeHandler(dashboardService services.IDashboardService) *HomeHandler {
	return &HomeHandler{dashboardService: dashboardService}
}

// Stats (GET /dashboard/stats)
func (h *HomeHandler) Stats(c *fiber.Ctx) error {
	sess := middlewares.SessionFromCtx(c)
	stats, err := h.dashboardService.GetStats(c.UserContext(), sess)
	if err != nil {
		if errors.Is(err, services.ErrDashboardForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
		}
		configslog.Log.Error("Dashboard Stats Error", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(stats)
}

// RecentMembers (GET /dashboard/members/recent)
func (h *HomeHandler) RecentMembers(c *fiber.Ctx) error {
	sess := middlewares.SessionFromCtx(c)
	members, err := h.dashboardService.RecentMembers(c.UserContext(), sess, c.QueryInt("limit"))
	if err != nil {
		if errors.Is(err, services.ErrDashboardForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
		}
		configslog.Log.Error("Dashboard RecentMembers Error", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"members": members})
}

// SetMemberStatus (PATCH /dashboard/members/:id/status)
func (h *HomeHandler) SetMemberStatus(c *fiber.Ctx) error {
	sess := middlewares.SessionFromCtx(c)
	memberID, err := c.ParamsInt("id")
	if err != nil || memberID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid member id"})
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	profile, err := h.dashboardService.SetMemberStatus(c.UserContext(), sess, uint(memberID), models.ProfileStatus(body.Status))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDashboardForbidden):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, services.ErrDashboardMemberNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, services.ErrDashboardInvalidStatus), errors.Is(err, services.ErrDashboardOwnAccount):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			configslog.Log.Error("Dashboard SetMemberStatus Error", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}
	return c.JSON(profile)
}
