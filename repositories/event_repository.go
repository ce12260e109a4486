package repositories

import (
	"context"
	"errors"
	"time"

	"rendezvous.club/configs"
	"rendezvous.club/configs/configslog"
	"rendezvous.club/models"
	"rendezvous.club/pkg/queryparams"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IEventRepository is the event persistence surface.
type IEventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id uint) (*models.Event, error)
	// FindByIDForUpdate locks the event row for the duration of the
	// surrounding transaction. Used by the RSVP capacity check.
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Event, error)
	Update(ctx context.Context, event *models.Event, fields map[string]interface{}) error
	ListUpcomingPublished(ctx context.Context, search string, params queryparams.ListParams) ([]models.Event, int64, error)
	ListAllPaginated(ctx context.Context, params queryparams.ListParams) ([]models.Event, int64, error)
	Count(ctx context.Context) (int64, error)
	CountUpcoming(ctx context.Context) (int64, error)
	AdjustCounters(ctx context.Context, eventID uint, interestedDelta, attendingDelta int) error
}

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository() IEventRepository {
	return &EventRepository{db: configs.GetDB()}
}

func NewEventRepositoryTx(tx *gorm.DB) IEventRepository {
	return &EventRepository{db: tx}
}

func (r *EventRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.getDB(ctx).Create(event).Error
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	err := r.getDB(ctx).First(&event, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("Event FindByID error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Event, error) {
	db := r.getDB(ctx)
	// sqlite has no row locks; its writes serialize on the database handle.
	if db.Dialector.Name() == "postgres" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var event models.Event
	err := db.First(&event, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) Update(ctx context.Context, event *models.Event, fields map[string]interface{}) error {
	result := r.getDB(ctx).Model(event).Where("id = ?", event.ID).Updates(fields)
	if result.Error != nil {
		configslog.Log.Error("Event Update error", zap.Uint("id", event.ID), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListUpcomingPublished is the member-facing listing: published, still
// scheduled, not yet started, soonest first.
func (r *EventRepository) ListUpcomingPublished(ctx context.Context, search string, params queryparams.ListParams) ([]models.Event, int64, error) {
	db := r.getDB(ctx).Model(&models.Event{}).
		Where("published = ?", true).
		Where("status = ?", models.EventStatusScheduled).
		Where("start_time >= ?", time.Now().UTC())
	if search != "" {
		pattern := "%" + search + "%"
		db = db.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []models.Event
	err := db.Order("start_time asc").
		Offset(params.Offset()).Limit(params.PerPage).
		Find(&events).Error
	return events, total, err
}

func (r *EventRepository) ListAllPaginated(ctx context.Context, params queryparams.ListParams) ([]models.Event, int64, error) {
	db := r.getDB(ctx).Model(&models.Event{})
	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		db = db.Where("title ILIKE ?", pattern)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []models.Event
	err := db.Order("start_time " + params.OrderBy).
		Offset(params.Offset()).Limit(params.PerPage).
		Find(&events).Error
	return events, total, err
}

func (r *EventRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&models.Event{}).Count(&count).Error
	return count, err
}

func (r *EventRepository) CountUpcoming(ctx context.Context) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&models.Event{}).
		Where("published = ? AND status = ? AND start_time >= ?",
			true, models.EventStatusScheduled, time.Now().UTC()).
		Count(&count).Error
	return count, err
}

// AdjustCounters applies deltas to the denormalized RSVP counters. Must run
// inside the transaction that changes the RSVP row.
func (r *EventRepository) AdjustCounters(ctx context.Context, eventID uint, interestedDelta, attendingDelta int) error {
	if interestedDelta == 0 && attendingDelta == 0 {
		return nil
	}
	updates := map[string]interface{}{}
	if interestedDelta != 0 {
		updates["rsvp_interested_count"] = gorm.Expr("rsvp_interested_count + ?", interestedDelta)
	}
	if attendingDelta != 0 {
		updates["rsvp_attending_count"] = gorm.Expr("rsvp_attending_count + ?", attendingDelta)
	}
	return r.getDB(ctx).Model(&models.Event{}).
		Where("id = ?", eventID).
		UpdateColumns(updates).Error
}

var _ IEventRepository = (*EventRepository)(nil)
