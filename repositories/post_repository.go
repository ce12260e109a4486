package repositories

import (
	"context"
	"errors"

	"rendezvous.club/configs"
	"rendezvous.club/models"
	"rendezvous.club/pkg/queryparams"

	"gorm.io/gorm"
)

// IPostRepository is the feed-post persistence surface.
type IPostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	FindByID(ctx context.Context, id uint) (*models.Post, error)
	ListPublished(ctx context.Context, params queryparams.ListParams) ([]models.Post, int64, error)
	Update(ctx context.Context, post *models.Post, fields map[string]interface{}) error
	Count(ctx context.Context) (int64, error)
}

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository() IPostRepository {
	return &PostRepository{db: configs.GetDB()}
}

func NewPostRepositoryTx(tx *gorm.DB) IPostRepository {
	return &PostRepository{db: tx}
}

func (r *PostRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.getDB(ctx).Create(post).Error
}

func (r *PostRepository) FindByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.getDB(ctx).Preload("Event").First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// ListPublished orders pinned posts first, then newest publication.
func (r *PostRepository) ListPublished(ctx context.Context, params queryparams.ListParams) ([]models.Post, int64, error) {
	db := r.getDB(ctx).Model(&models.Post{}).Where("published = ?", true)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := db.Preload("Event").
		Order("pinned desc, published_at desc").
		Offset(params.Offset()).Limit(params.PerPage).
		Find(&posts).Error
	return posts, total, err
}

func (r *PostRepository) Update(ctx context.Context, post *models.Post, fields map[string]interface{}) error {
	result := r.getDB(ctx).Model(post).Where("id = ?", post.ID).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&models.Post{}).Count(&count).Error
	return count, err
}

var _ IPostRepository = (*PostRepository)(nil)
