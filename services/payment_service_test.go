package services

import (
	"context"
	"testing"

	"rendezvous.club/models"
	"rendezvous.club/pkg/paymentgateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeGateway records calls and returns a canned intent or error.
type fakeGateway struct {
	intent paymentgateway.Intent
	err    error
	calls  int
}

func (f *fakeGateway) CreateIntent(ctx context.Context, eventID uint, amountCents int64, currency string) (*paymentgateway.Intent, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &f.intent, nil
}

func newPaymentFixture(t *testing.T, db *gorm.DB, gateway paymentgateway.Gateway) IPaymentService {
	t.Helper()
	return NewPaymentServiceWithDeps(db, gateway, "eur", "Rendezvous Social Club", "ES")
}

func pendingRSVP(t *testing.T, db *gorm.DB, eventID, userID uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.EventRSVP{
		EventID:         eventID,
		UserID:          userID,
		Status:          models.RSVPStatusPendingPayment,
		RequiresPayment: true,
	}).Error)
}

func TestCreateIntent_RequiresPendingRSVP(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	member := createTestMember(t, db, "lena")
	event := createTestEvent(t, db, admin.ID, testEventOpts{priceCents: 3000})
	gateway := &fakeGateway{intent: paymentgateway.Intent{ID: "pi_1", ClientSecret: "cs_1"}}
	svc := newPaymentFixture(t, db, gateway)
	sess := memberSession(member)

	// No RSVP yet.
	_, err := svc.CreateIntent(testCtx(), sess, event.ID)
	assert.ErrorIs(t, err, ErrPaymentNoPendingRSVP)
	assert.Equal(t, 0, gateway.calls)

	pendingRSVP(t, db, event.ID, member.ID)

	result, err := svc.CreateIntent(testCtx(), sess, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "pi_1", result.IntentID)
	assert.Equal(t, "cs_1", result.ClientSecret)
	assert.Equal(t, int64(3000), result.AmountCents)
	assert.Equal(t, "eur", result.Currency)
	assert.Equal(t, 1, gateway.calls)
}

func TestCreateIntent_FreeEventRejected(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	member := createTestMember(t, db, "mara")
	event := createTestEvent(t, db, admin.ID, testEventOpts{})
	svc := newPaymentFixture(t, db, &fakeGateway{})

	_, err := svc.CreateIntent(testCtx(), memberSession(member), event.ID)
	assert.ErrorIs(t, err, ErrPaymentEventFree)
}

func TestCreateIntent_GatewayTimeoutLeavesRSVPPending(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	member := createTestMember(t, db, "nils")
	event := createTestEvent(t, db, admin.ID, testEventOpts{priceCents: 5000})
	pendingRSVP(t, db, event.ID, member.ID)
	svc := newPaymentFixture(t, db, &fakeGateway{err: paymentgateway.ErrGatewayTimeout})
	sess := memberSession(member)

	_, err := svc.CreateIntent(testCtx(), sess, event.ID)
	assert.ErrorIs(t, err, paymentgateway.ErrGatewayTimeout)

	// The failed call must not touch the RSVP: checkout is retryable.
	var rsvp models.EventRSVP
	require.NoError(t, db.Where("event_id = ? AND user_id = ?", event.ID, member.ID).
		First(&rsvp).Error)
	assert.Equal(t, models.RSVPStatusPendingPayment, rsvp.Status)
	assert.False(t, rsvp.PaymentCompleted)
}

func TestConfirmPayment_ConfirmsRSVPAndIssuesTicket(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	member := createTestMember(t, db, "olga")
	event := createTestEvent(t, db, admin.ID, testEventOpts{priceCents: 4500})
	pendingRSVP(t, db, event.ID, member.ID)
	svc := newPaymentFixture(t, db, &fakeGateway{})
	sess := memberSession(member)

	result, err := svc.ConfirmPayment(testCtx(), sess, event.ID, "pi_confirm_1")
	require.NoError(t, err)
	require.NotNil(t, result.Payment)
	require.NotNil(t, result.Ticket)
	assert.Equal(t, models.PaymentStatusSucceeded, result.Payment.Status)
	assert.Equal(t, int64(4500), result.Payment.AmountCents)
	assert.Equal(t, result.Payment.ID, result.Ticket.PaymentID)
	assert.Equal(t, models.TicketStatusValid, result.Ticket.Status)
	assert.NotEmpty(t, result.Ticket.Code)

	var rsvp models.EventRSVP
	require.NoError(t, db.Where("event_id = ? AND user_id = ?", event.ID, member.ID).
		First(&rsvp).Error)
	assert.Equal(t, models.RSVPStatusConfirmed, rsvp.Status)
	assert.True(t, rsvp.PaymentCompleted)
	require.NotNil(t, rsvp.PaymentID)
	assert.Equal(t, result.Payment.ID, *rsvp.PaymentID)

	var fresh models.Event
	require.NoError(t, db.First(&fresh, event.ID).Error)
	assert.Equal(t, 1, fresh.RSVPAttendingCount)

	var profile models.Profile
	require.NoError(t, db.First(&profile, member.ID).Error)
	assert.Equal(t, 1, profile.EventsAttendedCount)
}

func TestConfirmPayment_IdempotentOnIntentID(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	member := createTestMember(t, db, "pia")
	event := createTestEvent(t, db, admin.ID, testEventOpts{priceCents: 2500})
	pendingRSVP(t, db, event.ID, member.ID)
	svc := newPaymentFixture(t, db, &fakeGateway{})
	sess := memberSession(member)

	first, err := svc.ConfirmPayment(testCtx(), sess, event.ID, "pi_idem")
	require.NoError(t, err)

	// The retry finds the earlier rows instead of writing new ones.
	second, err := svc.ConfirmPayment(testCtx(), sess, event.ID, "pi_idem")
	require.NoError(t, err)
	assert.Equal(t, first.Payment.ID, second.Payment.ID)
	assert.Equal(t, first.Ticket.ID, second.Ticket.ID)

	var paymentCount, ticketCount int64
	require.NoError(t, db.Model(&models.Payment{}).Count(&paymentCount).Error)
	require.NoError(t, db.Model(&models.Ticket{}).Count(&ticketCount).Error)
	assert.Equal(t, int64(1), paymentCount)
	assert.Equal(t, int64(1), ticketCount)

	// Counters were bumped once.
	var fresh models.Event
	require.NoError(t, db.First(&fresh, event.ID).Error)
	assert.Equal(t, 1, fresh.RSVPAttendingCount)
}

func TestConfirmPayment_IntentMismatchRejected(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	payer := createTestMember(t, db, "questa")
	other := createTestMember(t, db, "ruth")
	event := createTestEvent(t, db, admin.ID, testEventOpts{priceCents: 2500})
	pendingRSVP(t, db, event.ID, payer.ID)
	svc := newPaymentFixture(t, db, &fakeGateway{})

	_, err := svc.ConfirmPayment(testCtx(), memberSession(payer), event.ID, "pi_owned")
	require.NoError(t, err)

	// Another member replaying the same intent id is refused.
	_, err = svc.ConfirmPayment(testCtx(), memberSession(other), event.ID, "pi_owned")
	assert.ErrorIs(t, err, ErrPaymentIntentMismatch)
}

func TestConfirmPayment_RequiresPendingRSVP(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	member := createTestMember(t, db, "sven")
	event := createTestEvent(t, db, admin.ID, testEventOpts{priceCents: 2500})
	svc := newPaymentFixture(t, db, &fakeGateway{})

	_, err := svc.ConfirmPayment(testCtx(), memberSession(member), event.ID, "pi_nope")
	assert.ErrorIs(t, err, ErrPaymentNoPendingRSVP)
}
