package services

import (
	"testing"

	"rendezvous.club/models"
	"rendezvous.club/pkg/changefeed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenConversation_CreatesSingleThreadPerMember(t *testing.T) {
	db := newTestDB(t)
	member := createTestMember(t, db, "gaby")
	svc := NewChatServiceWithDeps(db, changefeed.NoopFeed{})
	sess := memberSession(member)

	conversation, messages, err := svc.OpenConversation(testCtx(), sess)
	require.NoError(t, err)
	assert.Empty(t, messages)

	again, _, err := svc.OpenConversation(testCtx(), sess)
	require.NoError(t, err)
	assert.Equal(t, conversation.ID, again.ID)

	var count int64
	require.NoError(t, db.Model(&models.Conversation{}).
		Where("user_id = ?", member.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSendMessage_ParticipantsOnly(t *testing.T) {
	db := newTestDB(t)
	member := createTestMember(t, db, "hana")
	stranger := createTestMember(t, db, "ivan")
	staff := createTestAdmin(t, db)
	svc := NewChatServiceWithDeps(db, changefeed.NoopFeed{})

	conversation, _, err := svc.OpenConversation(testCtx(), memberSession(member))
	require.NoError(t, err)

	_, err = svc.SendMessage(testCtx(), memberSession(member), conversation.ID, "  ")
	assert.ErrorIs(t, err, ErrChatEmptyMessage)

	message, err := svc.SendMessage(testCtx(), memberSession(member), conversation.ID, "Hello there")
	require.NoError(t, err)
	assert.Equal(t, "Hello there", message.Content)
	assert.Equal(t, member.ID, message.SenderID)

	// Another member cannot write into the thread; staff can.
	_, err = svc.SendMessage(testCtx(), memberSession(stranger), conversation.ID, "intruding")
	assert.ErrorIs(t, err, ErrChatForbidden)

	reply, err := svc.SendMessage(testCtx(), memberSession(staff), conversation.ID, "Welcome!")
	require.NoError(t, err)
	assert.Equal(t, staff.ID, reply.SenderID)

	_, messages, err := svc.OpenConversation(testCtx(), memberSession(member))
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "Hello there", messages[0].Content)
	assert.Equal(t, "Welcome!", messages[1].Content)

	_, err = svc.SendMessage(testCtx(), memberSession(member), 9999, "lost")
	assert.ErrorIs(t, err, ErrChatConversationNotFound)
}
