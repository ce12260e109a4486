package services

import (
	"context"
	"errors"
	"io"

	"rendezvous.club/configs"
	"rendezvous.club/models"
	"rendezvous.club/pkg/queryparams"
	"rendezvous.club/pkg/session"
	"rendezvous.club/repositories"

	"gorm.io/gorm"
)

// GalleryServiceError is the typed error set for the gallery.
type GalleryServiceError string

func (e GalleryServiceError) Error() string { return string(e) }

const (
	ErrGalleryImageNotFound GalleryServiceError = "gallery image not found"
	ErrGalleryForbidden     GalleryServiceError = "not allowed to manage the gallery"
)

// IGalleryService serves the gallery screen and image uploads.
type IGalleryService interface {
	ListPublished(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	// UploadImage stores the image and records it as pending staff review.
	UploadImage(ctx context.Context, sess session.Context, filename string, reader io.Reader, size int64, contentType string, caption string, eventID *uint) (*models.GalleryImage, error)

	// Admin operation.
	PublishImage(ctx context.Context, sess session.Context, id uint) error
}

// GalleryService implements IGalleryService.
type GalleryService struct {
	repo    repositories.IGalleryRepository
	storage IStorageService
}

func NewGalleryService(storage IStorageService) IGalleryService {
	return NewGalleryServiceWithDeps(configs.GetDB(), storage)
}

func NewGalleryServiceWithDeps(db *gorm.DB, storage IStorageService) IGalleryService {
	return &GalleryService{repo: repositories.NewGalleryRepositoryTx(db), storage: storage}
}

func (s *GalleryService) ListPublished(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Normalize()
	images, total, err := s.repo.ListPublished(ctx, params)
	if err != nil {
		return nil, err
	}
	return &queryparams.PaginatedResult{
		Data: images,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page,
			PerPage:     params.PerPage,
			TotalItems:  total,
			TotalPages:  queryparams.CalculateTotalPages(total, params.PerPage),
		},
	}, nil
}

func (s *GalleryService) UploadImage(ctx context.Context, sess session.Context, filename string, reader io.Reader, size int64, contentType string, caption string, eventID *uint) (*models.GalleryImage, error) {
	url, err := s.storage.Upload(ctx, BucketGallery, filename, reader, size, contentType)
	if err != nil {
		return nil, err
	}

	image := &models.GalleryImage{
		ImageURL:     url,
		Caption:      caption,
		EventID:      eventID,
		UploadedByID: sess.UserID,
		Status:       models.GalleryImagePending,
	}
	if err := s.repo.Create(models.ContextWithUserID(ctx, sess.UserID), image); err != nil {
		return nil, err
	}
	return image, nil
}

func (s *GalleryService) PublishImage(ctx context.Context, sess session.Context, id uint) error {
	if !sess.IsAdmin() {
		return ErrGalleryForbidden
	}
	image, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrGalleryImageNotFound
		}
		return err
	}
	return s.repo.Update(models.ContextWithUserID(ctx, sess.UserID), image, map[string]interface{}{
		"status": models.GalleryImagePublished,
	})
}

var _ IGalleryService = (*GalleryService)(nil)
