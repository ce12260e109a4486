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

// IEventRSVPRepository is the RSVP persistence surface. The (event, user)
// pair is the natural key: Upsert never creates a second row for it.
type IEventRSVPRepository interface {
	Upsert(ctx context.Context, rsvp *models.EventRSVP) error
	FindByEventAndUser(ctx context.Context, eventID, userID uint) (*models.EventRSVP, error)
	ListByUser(ctx context.Context, userID uint) ([]models.EventRSVP, error)
	ListConfirmedUserIDs(ctx context.Context, eventID uint) ([]uint, error)
	Update(ctx context.Context, rsvp *models.EventRSVP, fields map[string]interface{}) error
	DeleteByEventAndUser(ctx context.Context, eventID, userID uint) error
}

type EventRSVPRepository struct {
	db *gorm.DB
}

func NewEventRSVPRepository() IEventRSVPRepository {
	return &EventRSVPRepository{db: configs.GetDB()}
}

func NewEventRSVPRepositoryTx(tx *gorm.DB) IEventRSVPRepository {
	return &EventRSVPRepository{db: tx}
}

func (r *EventRSVPRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Upsert writes the row for (EventID, UserID), updating status and the
// payment flags when it already exists. RequiresPayment is deliberately NOT
// in the assign set: it is a snapshot of the event price at first creation.
func (r *EventRSVPRepository) Upsert(ctx context.Context, rsvp *models.EventRSVP) error {
	if rsvp == nil || rsvp.EventID == 0 || rsvp.UserID == 0 {
		return errors.New("invalid RSVP data (missing event or user id)")
	}
	db := r.getDB(ctx)

	return db.Where(models.EventRSVP{
		EventID: rsvp.EventID,
		UserID:  rsvp.UserID,
	}).Assign(map[string]interface{}{
		"status":            rsvp.Status,
		"payment_completed": rsvp.PaymentCompleted,
	}).FirstOrCreate(rsvp).Error
}

func (r *EventRSVPRepository) FindByEventAndUser(ctx context.Context, eventID, userID uint) (*models.EventRSVP, error) {
	var rsvp models.EventRSVP
	err := r.getDB(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&rsvp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("RSVP FindByEventAndUser error",
			zap.Uint("event_id", eventID), zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}
	return &rsvp, nil
}

// ListByUser backs the member calendar: every RSVP with its event.
func (r *EventRSVPRepository) ListByUser(ctx context.Context, userID uint) ([]models.EventRSVP, error) {
	var rsvps []models.EventRSVP
	err := r.getDB(ctx).
		Where("user_id = ?", userID).
		Preload("Event").
		Order("created_at desc").
		Find(&rsvps).Error
	if err != nil {
		configslog.Log.Error("RSVP ListByUser error", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}
	return rsvps, nil
}

// ListConfirmedUserIDs returns the ids of members attending an event. Used
// for the friend-attendance notifications.
func (r *EventRSVPRepository) ListConfirmedUserIDs(ctx context.Context, eventID uint) ([]uint, error) {
	var ids []uint
	err := r.getDB(ctx).Model(&models.EventRSVP{}).
		Where("event_id = ? AND status = ?", eventID, models.RSVPStatusConfirmed).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *EventRSVPRepository) Update(ctx context.Context, rsvp *models.EventRSVP, fields map[string]interface{}) error {
	result := r.getDB(ctx).Model(rsvp).Where("id = ?", rsvp.ID).Updates(fields)
	if result.Error != nil {
		configslog.Log.Error("RSVP Update error", zap.Uint("id", rsvp.ID), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByEventAndUser removes the RSVP row outright. Cancellation is
// deletion, not a status write; the delete is unscoped because a
// soft-deleted row would still occupy the (event, user) unique index and
// block a fresh RSVP.
func (r *EventRSVPRepository) DeleteByEventAndUser(ctx context.Context, eventID, userID uint) error {
	result := r.getDB(ctx).Unscoped().
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Delete(&models.EventRSVP{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ IEventRSVPRepository = (*EventRSVPRepository)(nil)
