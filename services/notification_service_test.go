package services

import (
	"context"
	"strconv"
	"testing"

	"rendezvous.club/models"
	"rendezvous.club/pkg/changefeed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingFeed captures publishes so tests can assert on the stream a
// change went out on.
type recordingFeed struct {
	published []publishedChange
}

type publishedChange struct {
	topic  string
	table  string
	filter string
	action changefeed.Action
	rowID  uint
}

func (f *recordingFeed) Publish(ctx context.Context, table, filter string, action changefeed.Action, rowID uint, row interface{}) error {
	f.published = append(f.published, publishedChange{
		topic:  changefeed.Topic(table, filter),
		table:  table,
		filter: filter,
		action: action,
		rowID:  rowID,
	})
	return nil
}

func (f *recordingFeed) Subscribe(context.Context, string, string) (<-chan changefeed.Change, error) {
	return nil, changefeed.ErrFeedDisabled
}

func (f *recordingFeed) Close() error { return nil }

func TestNotify_PublishesOnRecipientStream(t *testing.T) {
	db := newTestDB(t)
	member := createTestMember(t, db, "nelly")
	feed := &recordingFeed{}
	svc := NewNotificationServiceWithDeps(db, feed)

	svc.Notify(testCtx(), &models.Notification{
		UserID: member.ID,
		Type:   models.NotificationEventReminder,
		Title:  "Doors open at eight",
	})

	var stored models.Notification
	require.NoError(t, db.Where("user_id = ?", member.ID).First(&stored).Error)

	// The stream carries the recipient's user id, which is exactly the
	// filter the websocket handler subscribes that member with.
	require.Len(t, feed.published, 1)
	wantFilter := strconv.FormatUint(uint64(member.ID), 10)
	assert.Equal(t, "notifications", feed.published[0].table)
	assert.Equal(t, wantFilter, feed.published[0].filter)
	assert.Equal(t, changefeed.Topic("notifications", wantFilter), feed.published[0].topic)
	assert.Equal(t, changefeed.ActionInsert, feed.published[0].action)
	assert.Equal(t, stored.ID, feed.published[0].rowID)
}

func TestSubmitRSVP_FriendNotificationReachesTheFeed(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	member := createTestMember(t, db, "otis")
	friend := createTestMember(t, db, "puck")
	event := createTestEvent(t, db, admin.ID, testEventOpts{})
	feed := &recordingFeed{}
	svc := NewRSVPServiceWithDeps(db, NewNotificationServiceWithDeps(db, feed))

	require.NoError(t, db.Create(&models.FriendRequest{
		RequesterID: member.ID,
		RecipientID: friend.ID,
		Status:      models.FriendRequestAccepted,
	}).Error)

	_, err := svc.SubmitRSVP(testCtx(), memberSession(member), event.ID, IntentAttend)
	require.NoError(t, err)

	require.Len(t, feed.published, 1)
	assert.Equal(t, "notifications", feed.published[0].table)
	assert.Equal(t, strconv.FormatUint(uint64(friend.ID), 10), feed.published[0].filter)
}
