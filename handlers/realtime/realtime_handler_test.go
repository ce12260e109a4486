package handlers

import (
	"testing"

	"rendezvous.club/models"
	"rendezvous.club/pkg/changefeed"
	"rendezvous.club/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler() *RealtimeHandler {
	return NewRealtimeHandler(changefeed.NoopFeed{}, nil)
}

func memberSess(id uint) session.Context {
	return session.Context{UserID: id, Role: models.RoleMember}
}

func TestAuthorize_NotificationsScopedToCaller(t *testing.T) {
	h := newTestHandler()
	sess := memberSess(7)

	// Whatever the client asked for, the subscription lands on the
	// caller's own stream, the one Notify publishes to.
	for _, requested := range []string{"", "42"} {
		filter := requested
		require.NoError(t, h.authorize(sess, "notifications", &filter))
		assert.Equal(t, "7", filter)
		assert.Equal(t, "changes.notifications.7", changefeed.Topic("notifications", filter))
	}
}

func TestAuthorize_OpenTables(t *testing.T) {
	h := newTestHandler()
	sess := memberSess(3)

	for _, table := range []string{"posts", "events", "gallery_images"} {
		filter := ""
		assert.NoError(t, h.authorize(sess, table, &filter))
	}

	filter := ""
	assert.ErrorIs(t, h.authorize(sess, "payments", &filter), errRealtimeUnknownTable)
}

func TestAuthorize_Messages(t *testing.T) {
	h := newTestHandler()

	filter := ""
	assert.ErrorIs(t, h.authorize(memberSess(3), "messages", &filter), errRealtimeFilterRequired)

	filter = "not-a-number"
	assert.ErrorIs(t, h.authorize(memberSess(3), "messages", &filter), errRealtimeBadFilter)

	// Staff may watch any conversation.
	filter = "12"
	admin := session.Context{UserID: 1, Role: models.RoleAdmin}
	assert.NoError(t, h.authorize(admin, "messages", &filter))
}
