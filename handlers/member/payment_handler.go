package handlers

import (
	"errors"

	"rendezvous.club/configs/configslog"
	"rendezvous.club/middlewares"
	"rendezvous.club/pkg/paymentgateway"
	"rendezvous.club/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PaymentHandler serves the checkout flow for priced events.
type PaymentHandler struct {
	paymentService services.IPaymentService
}

func NewPaymentHandler(paymentService services.IPaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreateIntent (POST /events/:id/payment-intent) initializes the payment
// sheet for the caller's pending RSVP.
func (h *PaymentHandler) CreateIntent(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid event id"})
	}
	sess := middlewares.SessionFromCtx(c)

	result, err := h.paymentService.CreateIntent(c.UserContext(), sess, uint(id))
	if err != nil {
		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, services.ErrPaymentEventNotFound):
			status = fiber.StatusNotFound
		case errors.Is(err, services.ErrPaymentEventFree), errors.Is(err, services.ErrPaymentNoPendingRSVP):
			status = fiber.StatusBadRequest
		case errors.Is(err, paymentgateway.ErrGatewayDisabled):
			status = fiber.StatusServiceUnavailable
		case errors.Is(err, paymentgateway.ErrGatewayTimeout):
			// The RSVP stays pending; the client retries from the event screen.
			status = fiber.StatusGatewayTimeout
		default:
			configslog.Log.Error("CreateIntent Error", zap.Int("event_id", id), zap.Uint("user_id", sess.UserID), zap.Error(err))
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}

// ConfirmPayment (POST /events/:id/payment-confirm) records the charge and
// confirms the RSVP. Safe to call twice with the same intent id.
func (h *PaymentHandler) ConfirmPayment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid event id"})
	}
	var input struct {
		PaymentIntentID string `json:"payment_intent_id"`
	}
	if err := c.BodyParser(&input); err != nil || input.PaymentIntentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "payment_intent_id is required"})
	}
	sess := middlewares.SessionFromCtx(c)

	result, err := h.paymentService.ConfirmPayment(c.UserContext(), sess, uint(id), input.PaymentIntentID)
	if err != nil {
		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, services.ErrPaymentEventNotFound):
			status = fiber.StatusNotFound
		case errors.Is(err, services.ErrPaymentNoPendingRSVP), errors.Is(err, services.ErrPaymentEventFree):
			status = fiber.StatusBadRequest
		case errors.Is(err, services.ErrPaymentIntentMismatch):
			status = fiber.StatusConflict
		default:
			configslog.Log.Error("ConfirmPayment Error",
				zap.Int("event_id", id), zap.Uint("user_id", sess.UserID),
				zap.String("intent_id", input.PaymentIntentID), zap.Error(err))
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}
