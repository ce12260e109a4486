package repositories

import (
	"context"
	"errors"
	"strings"

	"rendezvous.club/configs"
	"rendezvous.club/configs/configslog"
	"rendezvous.club/models"
	"rendezvous.club/pkg/queryparams"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IProfileRepository is the member-account persistence surface.
type IProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	FindByID(ctx context.Context, id uint) (*models.Profile, error)
	FindByEmail(ctx context.Context, email string) (*models.Profile, error)
	FindByUsername(ctx context.Context, username string) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile, fields map[string]interface{}) error
	Search(ctx context.Context, query string, excludeUserID uint, limit int) ([]models.Profile, error)
	ListPaginated(ctx context.Context, params queryparams.ListParams) ([]models.Profile, int64, error)
	Count(ctx context.Context) (int64, error)
	AdjustFriendsCount(ctx context.Context, userID uint, delta int) error
	AdjustEventsAttendedCount(ctx context.Context, userID uint, delta int) error
}

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository() IProfileRepository {
	return &ProfileRepository{db: configs.GetDB()}
}

// NewProfileRepositoryTx binds the repository to an open transaction.
func NewProfileRepositoryTx(tx *gorm.DB) IProfileRepository {
	return &ProfileRepository{db: tx}
}

func (r *ProfileRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	return r.getDB(ctx).Create(profile).Error
}

func (r *ProfileRepository) FindByID(ctx context.Context, id uint) (*models.Profile, error) {
	var profile models.Profile
	err := r.getDB(ctx).First(&profile, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("Profile FindByID error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	err := r.getDB(ctx).Where("email = ?", strings.ToLower(email)).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) FindByUsername(ctx context.Context, username string) (*models.Profile, error) {
	var profile models.Profile
	err := r.getDB(ctx).Where("username = ?", username).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Update applies only the given fields so unrelated columns (counters,
// role) cannot be clobbered by a stale struct.
func (r *ProfileRepository) Update(ctx context.Context, profile *models.Profile, fields map[string]interface{}) error {
	result := r.getDB(ctx).Model(profile).Where("id = ?", profile.ID).Updates(fields)
	if result.Error != nil {
		configslog.Log.Error("Profile Update error", zap.Uint("id", profile.ID), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Search matches username or full name, case-insensitively, excluding the
// searching member.
func (r *ProfileRepository) Search(ctx context.Context, query string, excludeUserID uint, limit int) ([]models.Profile, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	pattern := "%" + strings.TrimSpace(query) + "%"
	var profiles []models.Profile
	err := r.getDB(ctx).
		Where("status = ?", models.ProfileStatusActive).
		Where("id <> ?", excludeUserID).
		Where("username ILIKE ? OR full_name ILIKE ?", pattern, pattern).
		Order("username asc").
		Limit(limit).
		Find(&profiles).Error
	return profiles, err
}

func (r *ProfileRepository) ListPaginated(ctx context.Context, params queryparams.ListParams) ([]models.Profile, int64, error) {
	db := r.getDB(ctx).Model(&models.Profile{})
	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		db = db.Where("username ILIKE ? OR full_name ILIKE ? OR email ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []models.Profile
	err := db.Order("created_at " + params.OrderBy).
		Offset(params.Offset()).Limit(params.PerPage).
		Find(&profiles).Error
	return profiles, total, err
}

func (r *ProfileRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&models.Profile{}).Count(&count).Error
	return count, err
}

func (r *ProfileRepository) AdjustFriendsCount(ctx context.Context, userID uint, delta int) error {
	return r.getDB(ctx).Model(&models.Profile{}).
		Where("id = ?", userID).
		UpdateColumn("friends_count", gorm.Expr("friends_count + ?", delta)).Error
}

func (r *ProfileRepository) AdjustEventsAttendedCount(ctx context.Context, userID uint, delta int) error {
	return r.getDB(ctx).Model(&models.Profile{}).
		Where("id = ?", userID).
		UpdateColumn("events_attended_count", gorm.Expr("events_attended_count + ?", delta)).Error
}

var _ IProfileRepository = (*ProfileRepository)(nil)
