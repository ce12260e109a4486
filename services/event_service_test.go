package services

import (
	"testing"
	"time"

	"rendezvous.club/models"
	"rendezvous.club/pkg/queryparams"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventManagement_AdminOnly(t *testing.T) {
	db := newTestDB(t)
	member := createTestMember(t, db, "kate")
	svc := NewEventServiceWithDB(db)

	input := EventInput{
		Title:     "Members Dinner",
		StartTime: time.Now().Add(24 * time.Hour),
		EndTime:   time.Now().Add(28 * time.Hour),
	}
	_, err := svc.CreateEvent(testCtx(), memberSession(member), input)
	assert.ErrorIs(t, err, ErrEventForbidden)

	_, err = svc.ListAll(testCtx(), memberSession(member), queryparams.ListParams{})
	assert.ErrorIs(t, err, ErrEventForbidden)
}

func TestCreateAndPublishEvent(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	svc := NewEventServiceWithDB(db)
	sess := memberSession(admin)

	event, err := svc.CreateEvent(testCtx(), sess, EventInput{
		Title:      "Members Dinner",
		StartTime:  time.Now().Add(24 * time.Hour),
		EndTime:    time.Now().Add(28 * time.Hour),
		PriceCents: 7500,
	})
	require.NoError(t, err)
	assert.False(t, event.Published, "new events start as drafts")
	assert.Equal(t, models.EventStatusScheduled, event.Status)
	assert.Equal(t, admin.ID, event.CreatedByUserID)

	// Drafts are invisible to members.
	member := createTestMember(t, db, "liam")
	_, err = svc.GetDetail(testCtx(), memberSession(member), event.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)

	// But staff see them, with the times intact through the round trip.
	staffDetail, err := svc.GetDetail(testCtx(), sess, event.ID)
	require.NoError(t, err)
	assert.WithinDuration(t, event.StartTime, staffDetail.Event.StartTime, time.Second)
	assert.WithinDuration(t, event.EndTime, staffDetail.Event.EndTime, time.Second)

	require.NoError(t, svc.PublishEvent(testCtx(), sess, event.ID))
	detail, err := svc.GetDetail(testCtx(), memberSession(member), event.ID)
	require.NoError(t, err)
	assert.True(t, detail.Event.Published)
	require.NotNil(t, detail.Event.PublishedAt)

	// Publishing again is a no-op.
	require.NoError(t, svc.PublishEvent(testCtx(), sess, event.ID))
}

func TestCreateEvent_Validation(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	svc := NewEventServiceWithDB(db)
	sess := memberSession(admin)

	_, err := svc.CreateEvent(testCtx(), sess, EventInput{
		StartTime: time.Now(), EndTime: time.Now().Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrEventTitleRequired)

	_, err = svc.CreateEvent(testCtx(), sess, EventInput{Title: "No times"})
	assert.ErrorIs(t, err, ErrEventTimeRequired)

	_, err = svc.CreateEvent(testCtx(), sess, EventInput{
		Title:     "Backwards",
		StartTime: time.Now().Add(2 * time.Hour),
		EndTime:   time.Now().Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrEventInvalidInput)
}

func TestUpdateEvent_ReplacesTags(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	svc := NewEventServiceWithDB(db)
	sess := memberSession(admin)

	input := EventInput{
		Title:     "Jazz Night",
		StartTime: time.Now().Add(24 * time.Hour),
		EndTime:   time.Now().Add(28 * time.Hour),
		Tags:      []string{"music", "evening"},
	}
	event, err := svc.CreateEvent(testCtx(), sess, input)
	require.NoError(t, err)
	assert.Equal(t, []string{"music", "evening"}, event.Tags)

	input.Tags = []string{"music", "late-night"}
	updated, err := svc.UpdateEvent(testCtx(), sess, event.ID, input)
	require.NoError(t, err)
	assert.Equal(t, []string{"music", "late-night"}, updated.Tags)
}

func TestGetDetail_IncludesCallerRSVP(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	member := createTestMember(t, db, "mona")
	event := createTestEvent(t, db, admin.ID, testEventOpts{})
	eventSvc := NewEventServiceWithDB(db)
	rsvpSvc := NewRSVPServiceWithDB(db)
	sess := memberSession(member)

	detail, err := eventSvc.GetDetail(testCtx(), sess, event.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.RSVP)

	_, err = rsvpSvc.SubmitRSVP(testCtx(), sess, event.ID, IntentInterested)
	require.NoError(t, err)

	detail, err = eventSvc.GetDetail(testCtx(), sess, event.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.RSVP)
	assert.Equal(t, models.RSVPStatusInterested, detail.RSVP.Status)
}
