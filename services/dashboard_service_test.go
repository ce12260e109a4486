package services

import (
	"testing"

	"rendezvous.club/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStats_AdminOnly(t *testing.T) {
	db := newTestDB(t)
	member := createTestMember(t, db, "nora")
	svc := NewDashboardServiceWithDB(db)

	_, err := svc.GetStats(testCtx(), memberSession(member))
	assert.ErrorIs(t, err, ErrDashboardForbidden)

	_, err = svc.RecentMembers(testCtx(), memberSession(member), 5)
	assert.ErrorIs(t, err, ErrDashboardForbidden)
}

func TestDashboardStats_Counts(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	member := createTestMember(t, db, "omar")
	event := createTestEvent(t, db, admin.ID, testEventOpts{priceCents: 5000})
	require.NoError(t, db.Create(&models.Payment{
		UserID:           member.ID,
		EventID:          event.ID,
		AmountCents:      5000,
		Currency:         "eur",
		Status:           models.PaymentStatusSucceeded,
		ProviderIntentID: "pi_stats",
	}).Error)
	svc := NewDashboardServiceWithDB(db)

	stats, err := svc.GetStats(testCtx(), memberSession(admin))
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.MemberCount)
	assert.Equal(t, int64(1), stats.EventCount)
	assert.Equal(t, int64(1), stats.UpcomingEventCount)
	assert.Equal(t, int64(1), stats.PaymentCount)
	assert.Equal(t, int64(5000), stats.RevenueCents)
}

func TestSetMemberStatus(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	member := createTestMember(t, db, "pablo")
	svc := NewDashboardServiceWithDB(db)
	sess := memberSession(admin)

	_, err := svc.SetMemberStatus(testCtx(), memberSession(member), admin.ID, models.ProfileStatusSuspended)
	assert.ErrorIs(t, err, ErrDashboardForbidden)

	_, err = svc.SetMemberStatus(testCtx(), sess, admin.ID, models.ProfileStatusSuspended)
	assert.ErrorIs(t, err, ErrDashboardOwnAccount)

	_, err = svc.SetMemberStatus(testCtx(), sess, member.ID, "frozen")
	assert.ErrorIs(t, err, ErrDashboardInvalidStatus)

	_, err = svc.SetMemberStatus(testCtx(), sess, 9999, models.ProfileStatusSuspended)
	assert.ErrorIs(t, err, ErrDashboardMemberNotFound)

	updated, err := svc.SetMemberStatus(testCtx(), sess, member.ID, models.ProfileStatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, models.ProfileStatusSuspended, updated.Status)

	var fresh models.Profile
	require.NoError(t, db.First(&fresh, member.ID).Error)
	assert.Equal(t, models.ProfileStatusSuspended, fresh.Status)

	// Reactivation restores the account.
	updated, err = svc.SetMemberStatus(testCtx(), sess, member.ID, models.ProfileStatusActive)
	require.NoError(t, err)
	assert.Equal(t, models.ProfileStatusActive, updated.Status)
}
