package repositories

import (
	"context"
	"errors"
	"time"

	"rendezvous.club/configs"
	"rendezvous.club/models"
	"rendezvous.club/pkg/queryparams"

	"gorm.io/gorm"
)

// INotificationRepository is the in-app notification persistence surface.
type INotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	FindByID(ctx context.Context, id uint) (*models.Notification, error)
	ListForUser(ctx context.Context, userID uint, params queryparams.ListParams) ([]models.Notification, int64, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	MarkRead(ctx context.Context, id, userID uint) error
	MarkAllRead(ctx context.Context, userID uint) error
}

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository() INotificationRepository {
	return &NotificationRepository{db: configs.GetDB()}
}

func NewNotificationRepositoryTx(tx *gorm.DB) INotificationRepository {
	return &NotificationRepository{db: tx}
}

func (r *NotificationRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.getDB(ctx).Create(notification).Error
}

func (r *NotificationRepository) FindByID(ctx context.Context, id uint) (*models.Notification, error) {
	var notification models.Notification
	err := r.getDB(ctx).First(&notification, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepository) ListForUser(ctx context.Context, userID uint, params queryparams.ListParams) ([]models.Notification, int64, error) {
	db := r.getDB(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	err := db.Order("created_at desc").
		Offset(params.Offset()).Limit(params.PerPage).
		Find(&notifications).Error
	return notifications, total, err
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID uint) error {
	now := time.Now().UTC()
	result := r.getDB(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{"read": true, "read_at": &now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uint) error {
	now := time.Now().UTC()
	return r.getDB(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Updates(map[string]interface{}{"read": true, "read_at": &now}).Error
}

var _ INotificationRepository = (*NotificationRepository)(nil)
