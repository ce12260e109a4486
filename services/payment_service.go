package services

import (
	"context"
	"errors"
	"fmt"

	"rendezvous.club/configs"
	"rendezvous.club/configs/configslog"
	"rendezvous.club/models"
	"rendezvous.club/pkg/paymentgateway"
	"rendezvous.club/pkg/session"
	"rendezvous.club/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PaymentServiceError is the typed error set of the checkout flow.
type PaymentServiceError string

func (e PaymentServiceError) Error() string { return string(e) }

const (
	ErrPaymentEventNotFound  PaymentServiceError = "event not found"
	ErrPaymentEventFree      PaymentServiceError = "event is free, no payment required"
	ErrPaymentNoPendingRSVP  PaymentServiceError = "no pending RSVP for this event"
	ErrPaymentIntentMismatch PaymentServiceError = "payment does not belong to this member and event"
	ErrPaymentConfirmFailed  PaymentServiceError = "payment confirmation failed"
)

// IntentResult initializes the client's payment sheet.
type IntentResult struct {
	IntentID            string `json:"payment_intent_id"`
	ClientSecret        string `json:"client_secret"`
	AmountCents         int64  `json:"amount_cents"`
	Currency            string `json:"currency"`
	MerchantDisplayName string `json:"merchant_display_name"`
	MerchantCountryCode string `json:"merchant_country_code"`
}

// ConfirmResult reports the rows the confirmation produced (or found, when
// the intent was already confirmed).
type ConfirmResult struct {
	Payment *models.Payment `json:"payment"`
	Ticket  *models.Ticket  `json:"ticket"`
}

// IPaymentService completes payment for a priced event and moves its
// pending RSVP to confirmed, issuing a ticket.
type IPaymentService interface {
	// CreateIntent pre-authorizes the event price with the gateway. The RSVP
	// must already be attending_pending_payment; the call leaves it
	// untouched either way.
	CreateIntent(ctx context.Context, sess session.Context, eventID uint) (*IntentResult, error)

	// ConfirmPayment records the succeeded charge, confirms the RSVP and
	// issues the ticket in one transaction, idempotent on the intent id.
	ConfirmPayment(ctx context.Context, sess session.Context, eventID uint, intentID string) (*ConfirmResult, error)
}

// PaymentService implements IPaymentService.
type PaymentService struct {
	db       *gorm.DB
	gateway  paymentgateway.Gateway
	currency string
	merchant string
	country  string
}

// NewPaymentService builds the service from the loaded config.
func NewPaymentService() IPaymentService {
	cfg := configs.App
	return NewPaymentServiceWithDeps(configs.GetDB(),
		paymentgateway.NewStripeGateway(cfg.StripeSecretKey, cfg.MerchantDisplayName),
		cfg.Currency, cfg.MerchantDisplayName, cfg.MerchantCountryCode)
}

// NewPaymentServiceWithDeps injects the handle and gateway (tests).
func NewPaymentServiceWithDeps(db *gorm.DB, gateway paymentgateway.Gateway, currency, merchant, country string) IPaymentService {
	return &PaymentService{
		db:       db,
		gateway:  gateway,
		currency: currency,
		merchant: merchant,
		country:  country,
	}
}

func (s *PaymentService) CreateIntent(ctx context.Context, sess session.Context, eventID uint) (*IntentResult, error) {
	eventRepo := repositories.NewEventRepositoryTx(s.db)
	rsvpRepo := repositories.NewEventRSVPRepositoryTx(s.db)

	event, err := eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPaymentEventNotFound
		}
		return nil, err
	}
	if event.IsFree() {
		return nil, ErrPaymentEventFree
	}

	rsvp, err := rsvpRepo.FindByEventAndUser(ctx, eventID, sess.UserID)
	if err != nil || rsvp.Status != models.RSVPStatusPendingPayment {
		return nil, ErrPaymentNoPendingRSVP
	}

	intent, err := s.gateway.CreateIntent(ctx, eventID, event.PriceCents, event.Currency)
	if err != nil {
		// The RSVP stays pending; the member can retry checkout.
		return nil, err
	}

	configslog.Log.Info("Payment intent created",
		zap.Uint("event_id", eventID), zap.Uint("user_id", sess.UserID),
		zap.String("intent_id", intent.ID), zap.Int64("amount_cents", event.PriceCents))

	return &IntentResult{
		IntentID:            intent.ID,
		ClientSecret:        intent.ClientSecret,
		AmountCents:         event.PriceCents,
		Currency:            event.Currency,
		MerchantDisplayName: s.merchant,
		MerchantCountryCode: s.country,
	}, nil
}

// ConfirmPayment performs the three dependent writes (payment row, RSVP
// update, ticket row) atomically. The unique provider_intent_id column
// makes a repeat call find the earlier payment and return it unchanged
// instead of issuing a second ticket.
func (s *PaymentService) ConfirmPayment(ctx context.Context, sess session.Context, eventID uint, intentID string) (*ConfirmResult, error) {
	if intentID == "" {
		return nil, fmt.Errorf("%w: missing intent id", ErrPaymentConfirmFailed)
	}

	var result *ConfirmResult
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		txCtx := models.ContextWithUserID(ctx, sess.UserID)
		paymentRepo := repositories.NewPaymentRepositoryTx(tx)
		ticketRepo := repositories.NewTicketRepositoryTx(tx)
		rsvpRepo := repositories.NewEventRSVPRepositoryTx(tx)
		eventRepo := repositories.NewEventRepositoryTx(tx)
		profileRepo := repositories.NewProfileRepositoryTx(tx)

		// Idempotency: an already-recorded intent returns the existing rows.
		if existing, err := paymentRepo.FindByProviderIntentID(txCtx, intentID); err == nil {
			if existing.UserID != sess.UserID || existing.EventID != eventID {
				return ErrPaymentIntentMismatch
			}
			ticket, err := ticketRepo.FindByPaymentID(txCtx, existing.ID)
			if err != nil {
				return err
			}
			result = &ConfirmResult{Payment: existing, Ticket: ticket}
			return nil
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return err
		}

		event, err := eventRepo.FindByIDForUpdate(txCtx, eventID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrPaymentEventNotFound
			}
			return err
		}

		rsvp, err := rsvpRepo.FindByEventAndUser(txCtx, eventID, sess.UserID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrPaymentNoPendingRSVP
			}
			return err
		}
		if rsvp.Status != models.RSVPStatusPendingPayment {
			return ErrPaymentNoPendingRSVP
		}

		// (a) payment record
		payment := &models.Payment{
			UserID:           sess.UserID,
			EventID:          eventID,
			ProviderIntentID: intentID,
			AmountCents:      event.PriceCents,
			Currency:         event.Currency,
			Status:           models.PaymentStatusSucceeded,
		}
		if err := paymentRepo.Create(txCtx, payment); err != nil {
			return fmt.Errorf("%w: %v", ErrPaymentConfirmFailed, err)
		}

		// (b) RSVP -> confirmed, linked to the payment
		if err := rsvpRepo.Update(txCtx, rsvp, map[string]interface{}{
			"status":            models.RSVPStatusConfirmed,
			"payment_completed": true,
			"payment_id":        payment.ID,
		}); err != nil {
			return fmt.Errorf("%w: %v", ErrPaymentConfirmFailed, err)
		}

		// (c) ticket
		ticket := &models.Ticket{
			UserID:    sess.UserID,
			EventID:   eventID,
			PaymentID: payment.ID,
			Code:      uuid.NewString(),
			Status:    models.TicketStatusValid,
		}
		if err := ticketRepo.Create(txCtx, ticket); err != nil {
			return fmt.Errorf("%w: %v", ErrPaymentConfirmFailed, err)
		}

		if err := eventRepo.AdjustCounters(txCtx, eventID, 0, 1); err != nil {
			return err
		}
		if err := profileRepo.AdjustEventsAttendedCount(txCtx, sess.UserID, 1); err != nil {
			return err
		}

		result = &ConfirmResult{Payment: payment, Ticket: ticket}
		return nil
	})
	if txErr != nil {
		configslog.Log.Error("Payment confirmation failed",
			zap.Uint("event_id", eventID), zap.Uint("user_id", sess.UserID),
			zap.String("intent_id", intentID), zap.Error(txErr))
		return nil, txErr
	}
	return result, nil
}

var _ IPaymentService = (*PaymentService)(nil)
