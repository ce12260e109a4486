package services

import (
	"testing"

	"rendezvous.club/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFriendRequestLifecycle(t *testing.T) {
	db := newTestDB(t)
	alice := createTestMember(t, db, "alice")
	bob := createTestMember(t, db, "bob")
	svc := NewFriendServiceWithDB(db)

	_, err := svc.SendRequest(testCtx(), memberSession(alice), alice.ID)
	assert.ErrorIs(t, err, ErrFriendSelfRequest)

	request, err := svc.SendRequest(testCtx(), memberSession(alice), bob.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FriendRequestPending, request.Status)

	// Sending again while pending is refused.
	_, err = svc.SendRequest(testCtx(), memberSession(alice), bob.ID)
	assert.ErrorIs(t, err, ErrFriendAlreadyConnected)

	// Only the recipient can accept.
	err = svc.AcceptRequest(testCtx(), memberSession(alice), request.ID)
	assert.ErrorIs(t, err, ErrFriendNotRecipient)

	require.NoError(t, svc.AcceptRequest(testCtx(), memberSession(bob), request.ID))

	// Both counters move in the same transaction.
	var a, b models.Profile
	require.NoError(t, db.First(&a, alice.ID).Error)
	require.NoError(t, db.First(&b, bob.ID).Error)
	assert.Equal(t, 1, a.FriendsCount)
	assert.Equal(t, 1, b.FriendsCount)

	// The requester got an acceptance notification.
	var count int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", alice.ID, models.NotificationFriendAccepted).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	friends, err := svc.ListFriends(testCtx(), memberSession(alice))
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, bob.Username, friends[0].Profile.Username)

	// A friendship blocks a second request either way.
	_, err = svc.SendRequest(testCtx(), memberSession(bob), alice.ID)
	assert.ErrorIs(t, err, ErrFriendAlreadyConnected)
}

func TestFriendRequestDeclineFreesThePair(t *testing.T) {
	db := newTestDB(t)
	alice := createTestMember(t, db, "carla")
	bob := createTestMember(t, db, "diego")
	svc := NewFriendServiceWithDB(db)

	request, err := svc.SendRequest(testCtx(), memberSession(alice), bob.ID)
	require.NoError(t, err)
	require.NoError(t, svc.DeclineRequest(testCtx(), memberSession(bob), request.ID))

	// A declined pair can start over.
	again, err := svc.SendRequest(testCtx(), memberSession(alice), bob.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FriendRequestPending, again.Status)
}

func TestFriendRequestCancelByRequester(t *testing.T) {
	db := newTestDB(t)
	alice := createTestMember(t, db, "erik")
	bob := createTestMember(t, db, "fern")
	svc := NewFriendServiceWithDB(db)

	request, err := svc.SendRequest(testCtx(), memberSession(alice), bob.ID)
	require.NoError(t, err)

	err = svc.CancelRequest(testCtx(), memberSession(bob), request.ID)
	assert.ErrorIs(t, err, ErrFriendNotRequester)

	require.NoError(t, svc.CancelRequest(testCtx(), memberSession(alice), request.ID))

	pending, err := svc.ListPending(testCtx(), memberSession(bob))
	require.NoError(t, err)
	assert.Empty(t, pending)
}
