package repositories

import (
	"context"
	"errors"

	"rendezvous.club/configs"
	"rendezvous.club/models"
	"rendezvous.club/pkg/queryparams"

	"gorm.io/gorm"
)

// IGalleryRepository is the gallery-image persistence surface.
type IGalleryRepository interface {
	Create(ctx context.Context, image *models.GalleryImage) error
	FindByID(ctx context.Context, id uint) (*models.GalleryImage, error)
	ListPublished(ctx context.Context, params queryparams.ListParams) ([]models.GalleryImage, int64, error)
	Update(ctx context.Context, image *models.GalleryImage, fields map[string]interface{}) error
}

type GalleryRepository struct {
	db *gorm.DB
}

func NewGalleryRepository() IGalleryRepository {
	return &GalleryRepository{db: configs.GetDB()}
}

func NewGalleryRepositoryTx(tx *gorm.DB) IGalleryRepository {
	return &GalleryRepository{db: tx}
}

func (r *GalleryRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

func (r *GalleryRepository) Create(ctx context.Context, image *models.GalleryImage) error {
	return r.getDB(ctx).Create(image).Error
}

func (r *GalleryRepository) FindByID(ctx context.Context, id uint) (*models.GalleryImage, error) {
	var image models.GalleryImage
	err := r.getDB(ctx).Preload("Event").First(&image, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &image, nil
}

func (r *GalleryRepository) ListPublished(ctx context.Context, params queryparams.ListParams) ([]models.GalleryImage, int64, error) {
	db := r.getDB(ctx).Model(&models.GalleryImage{}).
		Where("status = ?", models.GalleryImagePublished)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var images []models.GalleryImage
	err := db.Preload("Event").
		Order("created_at desc").
		Offset(params.Offset()).Limit(params.PerPage).
		Find(&images).Error
	return images, total, err
}

func (r *GalleryRepository) Update(ctx context.Context, image *models.GalleryImage, fields map[string]interface{}) error {
	result := r.getDB(ctx).Model(image).Where("id = ?", image.ID).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ IGalleryRepository = (*GalleryRepository)(nil)
