package repositories

import (
	"context"
	"errors"

	"rendezvous.club/configs"
	"rendezvous.club/models"

	"gorm.io/gorm"
)

// IConversationRepository manages the one-per-member concierge threads.
type IConversationRepository interface {
	// FindOrCreateForUser returns the member's conversation, creating it on
	// first open.
	FindOrCreateForUser(ctx context.Context, userID uint) (*models.Conversation, error)
	FindByID(ctx context.Context, id uint) (*models.Conversation, error)
}

type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository() IConversationRepository {
	return &ConversationRepository{db: configs.GetDB()}
}

func NewConversationRepositoryTx(tx *gorm.DB) IConversationRepository {
	return &ConversationRepository{db: tx}
}

func (r *ConversationRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

func (r *ConversationRepository) FindOrCreateForUser(ctx context.Context, userID uint) (*models.Conversation, error) {
	if userID == 0 {
		return nil, errors.New("invalid user id")
	}
	var conversation models.Conversation
	err := r.getDB(ctx).
		Where(models.Conversation{UserID: userID}).
		FirstOrCreate(&conversation).Error
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (r *ConversationRepository) FindByID(ctx context.Context, id uint) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.getDB(ctx).First(&conversation, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

var _ IConversationRepository = (*ConversationRepository)(nil)
