package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"rendezvous.club/configs"
	"rendezvous.club/configs/configslog"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// Bucket names, mirroring the storage areas the mobile app reads from.
const (
	BucketAvatars     = "profile-avatars"
	BucketHeroes      = "profile-heroes"
	BucketGallery     = "gallery"
	BucketEventCovers = "event-covers"
)

// StorageServiceError is the typed error set for object storage.
type StorageServiceError string

func (e StorageServiceError) Error() string { return string(e) }

const (
	ErrStorageDisabled    StorageServiceError = "object storage is not configured"
	ErrStorageUploadLimit StorageServiceError = "file exceeds the upload size limit"
	ErrStorageBadType     StorageServiceError = "unsupported content type"
)

// IStorageService stores binary objects and hands back public URLs.
type IStorageService interface {
	// Upload writes the object and returns its public URL. The object name
	// is prefixed with a fresh uuid so re-uploads never collide.
	Upload(ctx context.Context, bucket, filename string, reader io.Reader, size int64, contentType string) (string, error)
}

// imageTypes are the only content types the club accepts for uploads.
var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// StorageService implements IStorageService on a MinIO/S3 endpoint.
type StorageService struct {
	client     *minio.Client
	publicBase string
	sizeLimit  int64
}

// NewStorageService builds the service from config; missing credentials
// produce a disabled service whose Upload returns ErrStorageDisabled.
func NewStorageService() IStorageService {
	cfg := configs.App
	if cfg == nil || cfg.MinioEndpoint == "" {
		return &StorageService{}
	}
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		configslog.Log.Error("Object storage client init failed", zap.Error(err))
		return &StorageService{}
	}
	publicBase := cfg.StoragePublicBase
	if publicBase == "" {
		scheme := "http://"
		if cfg.MinioUseSSL {
			scheme = "https://"
		}
		publicBase = scheme + cfg.MinioEndpoint
	}
	return &StorageService{
		client:     client,
		publicBase: strings.TrimRight(publicBase, "/"),
		sizeLimit:  cfg.StorageUploadLimit,
	}
}

func (s *StorageService) Upload(ctx context.Context, bucket, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	if s.client == nil {
		return "", ErrStorageDisabled
	}
	if s.sizeLimit > 0 && size > s.sizeLimit {
		return "", fmt.Errorf("%w: %d bytes", ErrStorageUploadLimit, size)
	}
	ext, ok := imageTypes[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrStorageBadType, contentType)
	}

	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	if base == "" || base == "." {
		base = "upload"
	}
	objectName := uuid.NewString() + "-" + base + ext

	_, err := s.client.PutObject(ctx, bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		configslog.Log.Error("Object upload failed",
			zap.String("bucket", bucket), zap.String("object", objectName), zap.Error(err))
		return "", err
	}

	url := s.publicBase + "/" + bucket + "/" + objectName
	configslog.SLog.Infow("Object uploaded", "bucket", bucket, "object", objectName, "bytes", size)
	return url, nil
}

var _ IStorageService = (*StorageService)(nil)
