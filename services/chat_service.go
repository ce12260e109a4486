package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"rendezvous.club/configs"
	"rendezvous.club/configs/configslog"
	"rendezvous.club/models"
	"rendezvous.club/pkg/changefeed"
	"rendezvous.club/pkg/session"
	"rendezvous.club/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ChatServiceError is the typed error set for the concierge chat.
type ChatServiceError string

func (e ChatServiceError) Error() string { return string(e) }

const (
	ErrChatConversationNotFound ChatServiceError = "conversation not found"
	ErrChatForbidden            ChatServiceError = "not a participant of this conversation"
	ErrChatEmptyMessage         ChatServiceError = "message content is empty"
)

// IChatService backs the concierge chat screen: one thread per member,
// staff can write into any thread.
type IChatService interface {
	// OpenConversation returns the member's thread, creating it on first
	// open, with the message history. Messages from the other side are
	// marked read.
	OpenConversation(ctx context.Context, sess session.Context) (*models.Conversation, []models.Message, error)
	SendMessage(ctx context.Context, sess session.Context, conversationID uint, content string) (*models.Message, error)
}

// ChatService implements IChatService.
type ChatService struct {
	conversationRepo repositories.IConversationRepository
	messageRepo      repositories.IMessageRepository
	feed             changefeed.Feed
}

func NewChatService(feed changefeed.Feed) IChatService {
	return NewChatServiceWithDeps(configs.GetDB(), feed)
}

func NewChatServiceWithDeps(db *gorm.DB, feed changefeed.Feed) IChatService {
	return &ChatService{
		conversationRepo: repositories.NewConversationRepositoryTx(db),
		messageRepo:      repositories.NewMessageRepositoryTx(db),
		feed:             feed,
	}
}

func (s *ChatService) OpenConversation(ctx context.Context, sess session.Context) (*models.Conversation, []models.Message, error) {
	conversation, err := s.conversationRepo.FindOrCreateForUser(
		models.ContextWithUserID(ctx, sess.UserID), sess.UserID)
	if err != nil {
		configslog.Log.Error("Conversation open failed", zap.Uint("user_id", sess.UserID), zap.Error(err))
		return nil, nil, err
	}

	messages, err := s.messageRepo.ListByConversation(ctx, conversation.ID, 0)
	if err != nil {
		return nil, nil, err
	}
	if err := s.messageRepo.MarkReadForRecipient(ctx, conversation.ID, sess.UserID); err != nil {
		configslog.Log.Warn("Chat read-marking failed", zap.Uint("conversation_id", conversation.ID), zap.Error(err))
	}
	return conversation, messages, nil
}

func (s *ChatService) SendMessage(ctx context.Context, sess session.Context, conversationID uint, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrChatEmptyMessage
	}

	conversation, err := s.conversationRepo.FindByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrChatConversationNotFound
		}
		return nil, err
	}
	// Members may only write into their own thread; staff into any.
	if conversation.UserID != sess.UserID && !sess.IsAdmin() {
		return nil, ErrChatForbidden
	}

	message := &models.Message{
		ConversationID: conversationID,
		SenderID:       sess.UserID,
		Content:        content,
	}
	if err := s.messageRepo.Create(models.ContextWithUserID(ctx, sess.UserID), message); err != nil {
		return nil, err
	}

	// Reload with the sender preloaded so subscribers can render without a
	// second fetch.
	full, err := s.messageRepo.FindByID(ctx, message.ID)
	if err != nil {
		full = message
	}

	filter := strconv.FormatUint(uint64(conversationID), 10)
	if err := s.feed.Publish(ctx, "messages", filter, changefeed.ActionInsert, message.ID, full); err != nil {
		configslog.Log.Warn("Message feed publish failed",
			zap.Uint("conversation_id", conversationID), zap.Error(err))
	}
	return full, nil
}

var _ IChatService = (*ChatService)(nil)
