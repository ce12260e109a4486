package services

import (
	"testing"

	"rendezvous.club/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitRSVP_InterestedThenAttendFree(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	member := createTestMember(t, db, "alice")
	event := createTestEvent(t, db, admin.ID, testEventOpts{})
	svc := NewRSVPServiceWithDB(db)
	sess := memberSession(member)

	result, err := svc.SubmitRSVP(testCtx(), sess, event.ID, IntentInterested)
	require.NoError(t, err)
	assert.Equal(t, models.RSVPStatusInterested, result.RSVP.Status)
	assert.False(t, result.PaymentRequired)
	assert.False(t, result.RSVP.RequiresPayment)

	// Switching intent reuses the same row.
	result, err = svc.SubmitRSVP(testCtx(), sess, event.ID, IntentAttend)
	require.NoError(t, err)
	assert.Equal(t, models.RSVPStatusConfirmed, result.RSVP.Status)
	assert.True(t, result.RSVP.PaymentCompleted)
	assert.False(t, result.PaymentRequired)

	var count int64
	require.NoError(t, db.Model(&models.EventRSVP{}).
		Where("event_id = ? AND user_id = ?", event.ID, member.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var fresh models.Event
	require.NoError(t, db.First(&fresh, event.ID).Error)
	assert.Equal(t, 0, fresh.RSVPInterestedCount)
	assert.Equal(t, 1, fresh.RSVPAttendingCount)
}

func TestSubmitRSVP_PricedEventNeedsPayment(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	member := createTestMember(t, db, "bob")
	event := createTestEvent(t, db, admin.ID, testEventOpts{priceCents: 4500})
	svc := NewRSVPServiceWithDB(db)

	result, err := svc.SubmitRSVP(testCtx(), memberSession(member), event.ID, IntentAttend)
	require.NoError(t, err)
	assert.Equal(t, models.RSVPStatusPendingPayment, result.RSVP.Status)
	assert.True(t, result.PaymentRequired)
	assert.True(t, result.RSVP.RequiresPayment)
	assert.False(t, result.RSVP.PaymentCompleted)

	// Pending payment counts in neither counter.
	var fresh models.Event
	require.NoError(t, db.First(&fresh, event.ID).Error)
	assert.Equal(t, 0, fresh.RSVPInterestedCount)
	assert.Equal(t, 0, fresh.RSVPAttendingCount)
}

func TestSubmitRSVP_RequiresPaymentSnapshotSurvivesRepricing(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	member := createTestMember(t, db, "carol")
	event := createTestEvent(t, db, admin.ID, testEventOpts{priceCents: 2000})
	svc := NewRSVPServiceWithDB(db)
	sess := memberSession(member)

	_, err := svc.SubmitRSVP(testCtx(), sess, event.ID, IntentInterested)
	require.NoError(t, err)

	// The event becomes free; the snapshot on the row must not change.
	require.NoError(t, db.Model(&models.Event{}).Where("id = ?", event.ID).
		Update("price_cents", 0).Error)

	result, err := svc.SubmitRSVP(testCtx(), sess, event.ID, IntentAttend)
	require.NoError(t, err)
	assert.Equal(t, models.RSVPStatusConfirmed, result.RSVP.Status)

	var stored models.EventRSVP
	require.NoError(t, db.Where("event_id = ? AND user_id = ?", event.ID, member.ID).
		First(&stored).Error)
	assert.True(t, stored.RequiresPayment, "snapshot from creation must survive repricing")
}

func TestSubmitRSVP_CapacityEnforcedOnConfirmOnly(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	first := createTestMember(t, db, "dora")
	second := createTestMember(t, db, "emil")
	capacity := 1
	event := createTestEvent(t, db, admin.ID, testEventOpts{capacity: &capacity})
	svc := NewRSVPServiceWithDB(db)

	_, err := svc.SubmitRSVP(testCtx(), memberSession(first), event.ID, IntentAttend)
	require.NoError(t, err)

	// The second member can still mark interest, but not attend.
	_, err = svc.SubmitRSVP(testCtx(), memberSession(second), event.ID, IntentInterested)
	require.NoError(t, err)
	_, err = svc.SubmitRSVP(testCtx(), memberSession(second), event.ID, IntentAttend)
	assert.ErrorIs(t, err, ErrRSVPEventFull)

	// A confirmed member re-submitting does not trip the capacity check.
	_, err = svc.SubmitRSVP(testCtx(), memberSession(first), event.ID, IntentAttend)
	assert.NoError(t, err)
}

func TestSubmitRSVP_ClosedOrMissingEvent(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	member := createTestMember(t, db, "fred")
	svc := NewRSVPServiceWithDB(db)
	sess := memberSession(member)

	_, err := svc.SubmitRSVP(testCtx(), sess, 9999, IntentAttend)
	assert.ErrorIs(t, err, ErrRSVPEventNotFound)

	draft := createTestEvent(t, db, admin.ID, testEventOpts{unpublished: true})
	_, err = svc.SubmitRSVP(testCtx(), sess, draft.ID, IntentAttend)
	assert.ErrorIs(t, err, ErrRSVPEventNotOpen)

	cancelled := createTestEvent(t, db, admin.ID, testEventOpts{status: models.EventStatusCancelled})
	_, err = svc.SubmitRSVP(testCtx(), sess, cancelled.ID, IntentAttend)
	assert.ErrorIs(t, err, ErrRSVPEventNotOpen)

	_, err = svc.SubmitRSVP(testCtx(), sess, draft.ID, RSVPIntent("maybe"))
	assert.ErrorIs(t, err, ErrRSVPInvalidIntent)
}

func TestCancelRSVP_DeletesRowAndRestoresCounters(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	member := createTestMember(t, db, "gina")
	event := createTestEvent(t, db, admin.ID, testEventOpts{})
	svc := NewRSVPServiceWithDB(db)
	sess := memberSession(member)

	_, err := svc.SubmitRSVP(testCtx(), sess, event.ID, IntentAttend)
	require.NoError(t, err)

	require.NoError(t, svc.CancelRSVP(testCtx(), sess, event.ID))

	// The row is gone, not flipped to a cancelled status.
	var count int64
	require.NoError(t, db.Unscoped().Model(&models.EventRSVP{}).
		Where("event_id = ? AND user_id = ? AND deleted_at IS NULL", event.ID, member.ID).
		Count(&count).Error)
	assert.Equal(t, int64(0), count)

	var fresh models.Event
	require.NoError(t, db.First(&fresh, event.ID).Error)
	assert.Equal(t, 0, fresh.RSVPAttendingCount)

	var profile models.Profile
	require.NoError(t, db.First(&profile, member.ID).Error)
	assert.Equal(t, 0, profile.EventsAttendedCount)

	// Cancelling again reports the absence.
	assert.ErrorIs(t, svc.CancelRSVP(testCtx(), sess, event.ID), ErrRSVPNotFound)

	// And the member can RSVP afresh afterwards.
	result, err := svc.SubmitRSVP(testCtx(), sess, event.ID, IntentInterested)
	require.NoError(t, err)
	assert.Equal(t, models.RSVPStatusInterested, result.RSVP.Status)

	// The cancelled row was removed for real; only the fresh one exists.
	// A lingering soft-deleted row would occupy the (event, user) unique
	// index and make the fresh RSVP impossible.
	var total int64
	require.NoError(t, db.Unscoped().Model(&models.EventRSVP{}).
		Where("event_id = ? AND user_id = ?", event.ID, member.ID).
		Count(&total).Error)
	assert.Equal(t, int64(1), total)
}

func TestSubmitRSVP_ConfirmedAttendeeResubmitKeepsSeat(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	member := createTestMember(t, db, "nico")
	friend := createTestMember(t, db, "odette")
	event := createTestEvent(t, db, admin.ID, testEventOpts{priceCents: 6000})
	svc := NewRSVPServiceWithDB(db)
	sess := memberSession(member)

	require.NoError(t, db.Create(&models.FriendRequest{
		RequesterID: member.ID,
		RecipientID: friend.ID,
		Status:      models.FriendRequestAccepted,
	}).Error)

	// The member has already paid and holds a confirmed seat.
	require.NoError(t, db.Create(&models.EventRSVP{
		EventID:          event.ID,
		UserID:           member.ID,
		Status:           models.RSVPStatusConfirmed,
		RequiresPayment:  true,
		PaymentCompleted: true,
	}).Error)
	require.NoError(t, db.Model(&models.Event{}).Where("id = ?", event.ID).
		Update("rsvp_attending_count", 1).Error)

	// Re-submitting attend must not reopen the payment step or drop the
	// seat back to pending.
	result, err := svc.SubmitRSVP(testCtx(), sess, event.ID, IntentAttend)
	require.NoError(t, err)
	assert.Equal(t, models.RSVPStatusConfirmed, result.RSVP.Status)
	assert.False(t, result.PaymentRequired)

	var stored models.EventRSVP
	require.NoError(t, db.Where("event_id = ? AND user_id = ?", event.ID, member.ID).
		First(&stored).Error)
	assert.Equal(t, models.RSVPStatusConfirmed, stored.Status)
	assert.True(t, stored.PaymentCompleted)

	var fresh models.Event
	require.NoError(t, db.First(&fresh, event.ID).Error)
	assert.Equal(t, 1, fresh.RSVPAttendingCount)

	// No transition happened, so friends are not notified again.
	var count int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ?", friend.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestSubmitRSVP_ConfirmedNotifiesFriends(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	member := createTestMember(t, db, "hugo")
	friend := createTestMember(t, db, "iris")
	event := createTestEvent(t, db, admin.ID, testEventOpts{})
	svc := NewRSVPServiceWithDB(db)

	require.NoError(t, db.Create(&models.FriendRequest{
		RequesterID: member.ID,
		RecipientID: friend.ID,
		Status:      models.FriendRequestAccepted,
	}).Error)

	_, err := svc.SubmitRSVP(testCtx(), memberSession(member), event.ID, IntentAttend)
	require.NoError(t, err)

	var notifications []models.Notification
	require.NoError(t, db.Where("user_id = ?", friend.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationFriendAttends, notifications[0].Type)
}

func TestSubmitRSVP_SharingOptOutSuppressesFriendNotifications(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	member := createTestMember(t, db, "jules")
	friend := createTestMember(t, db, "kira")
	event := createTestEvent(t, db, admin.ID, testEventOpts{})
	svc := NewRSVPServiceWithDB(db)

	require.NoError(t, db.Model(&models.Profile{}).Where("id = ?", member.ID).
		Update("share_attendance_with_friends", false).Error)
	require.NoError(t, db.Create(&models.FriendRequest{
		RequesterID: member.ID,
		RecipientID: friend.ID,
		Status:      models.FriendRequestAccepted,
	}).Error)

	_, err := svc.SubmitRSVP(testCtx(), memberSession(member), event.ID, IntentAttend)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ?", friend.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
