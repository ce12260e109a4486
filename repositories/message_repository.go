package repositories

import (
	"context"
	"errors"

	"rendezvous.club/configs"
	"rendezvous.club/configs/configslog"
	"rendezvous.club/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IMessageRepository is the chat-message persistence surface.
type IMessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	FindByID(ctx context.Context, id uint) (*models.Message, error)
	ListByConversation(ctx context.Context, conversationID uint, limit int) ([]models.Message, error)
	// MarkReadForRecipient marks messages NOT sent by readerID as read.
	MarkReadForRecipient(ctx context.Context, conversationID, readerID uint) error
}

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository() IMessageRepository {
	return &MessageRepository{db: configs.GetDB()}
}

func NewMessageRepositoryTx(tx *gorm.DB) IMessageRepository {
	return &MessageRepository{db: tx}
}

func (r *MessageRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	err := r.getDB(ctx).Create(message).Error
	if err != nil {
		configslog.Log.Error("Message Create error",
			zap.Uint("conversation_id", message.ConversationID), zap.Error(err))
	}
	return err
}

func (r *MessageRepository) FindByID(ctx context.Context, id uint) (*models.Message, error) {
	var message models.Message
	err := r.getDB(ctx).Preload("Sender").First(&message, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &message, nil
}

// ListByConversation returns the history oldest-first, sender preloaded.
func (r *MessageRepository) ListByConversation(ctx context.Context, conversationID uint, limit int) ([]models.Message, error) {
	if limit <= 0 || limit > 500 {
		limit = 200
	}
	var messages []models.Message
	err := r.getDB(ctx).
		Where("conversation_id = ?", conversationID).
		Preload("Sender").
		Order("created_at asc").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

func (r *MessageRepository) MarkReadForRecipient(ctx context.Context, conversationID, readerID uint) error {
	return r.getDB(ctx).Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read = ?", conversationID, readerID, false).
		UpdateColumn("read", true).Error
}

var _ IMessageRepository = (*MessageRepository)(nil)
