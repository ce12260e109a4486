package services

import (
	"context"
	"errors"
	"io"

	"rendezvous.club/models"
	"rendezvous.club/pkg/session"
	"rendezvous.club/repositories"

	"gorm.io/gorm"
)

// ProfileServiceError is the typed error set for profile management.
type ProfileServiceError string

func (e ProfileServiceError) Error() string { return string(e) }

const (
	ErrProfileNotFound      ProfileServiceError = "profile not found"
	ErrProfileUsernameTaken ProfileServiceError = "username is already taken"
	ErrProfileInvalidInput  ProfileServiceError = "invalid profile data"
)

// ProfileUpdateInput is the member-editable subset of a profile.
type ProfileUpdateInput struct {
	Username                   *string `json:"username" validate:"omitempty,min=3,max=50,alphanum"`
	FullName                   *string `json:"full_name" validate:"omitempty,min=2,max=150"`
	Bio                        *string `json:"bio" validate:"omitempty,max=1000"`
	ShareAttendanceWithFriends *bool   `json:"share_attendance_with_friends"`
	OnboardingCompleted        *bool   `json:"onboarding_completed"`
}

// IProfileService serves the profile screen and image uploads.
type IProfileService interface {
	GetMe(ctx context.Context, sess session.Context) (*models.Profile, error)
	GetPublic(ctx context.Context, id uint) (*models.PublicProfile, error)
	UpdateMe(ctx context.Context, sess session.Context, input ProfileUpdateInput) (*models.Profile, error)
	// UploadAvatar and UploadHeroImage store the image and persist its
	// public URL on the profile.
	UploadAvatar(ctx context.Context, sess session.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
	UploadHeroImage(ctx context.Context, sess session.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
	Search(ctx context.Context, sess session.Context, query string) ([]models.PublicProfile, error)
}

// ProfileService implements IProfileService.
type ProfileService struct {
	repo    repositories.IProfileRepository
	storage IStorageService
}

func NewProfileService(storage IStorageService) IProfileService {
	return &ProfileService{repo: repositories.NewProfileRepository(), storage: storage}
}

// NewProfileServiceWithDeps injects repository and storage (tests).
func NewProfileServiceWithDeps(db *gorm.DB, storage IStorageService) IProfileService {
	return &ProfileService{repo: repositories.NewProfileRepositoryTx(db), storage: storage}
}

func (s *ProfileService) GetMe(ctx context.Context, sess session.Context) (*models.Profile, error) {
	profile, err := s.repo.FindByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) GetPublic(ctx context.Context, id uint) (*models.PublicProfile, error) {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	public := profile.Public()
	return &public, nil
}

func (s *ProfileService) UpdateMe(ctx context.Context, sess session.Context, input ProfileUpdateInput) (*models.Profile, error) {
	profile, err := s.repo.FindByID(ctx, sess.UserID)
	if err != nil {
		return nil, ErrProfileNotFound
	}

	fields := map[string]interface{}{}
	if input.Username != nil && *input.Username != profile.Username {
		if _, err := s.repo.FindByUsername(ctx, *input.Username); err == nil {
			return nil, ErrProfileUsernameTaken
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		fields["username"] = *input.Username
	}
	if input.FullName != nil {
		fields["full_name"] = *input.FullName
	}
	if input.Bio != nil {
		fields["bio"] = *input.Bio
	}
	if input.ShareAttendanceWithFriends != nil {
		fields["share_attendance_with_friends"] = *input.ShareAttendanceWithFriends
	}
	if input.OnboardingCompleted != nil {
		fields["onboarding_completed"] = *input.OnboardingCompleted
	}
	if len(fields) == 0 {
		return profile, nil
	}

	if err := s.repo.Update(models.ContextWithUserID(ctx, sess.UserID), profile, fields); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, sess.UserID)
}

func (s *ProfileService) UploadAvatar(ctx context.Context, sess session.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	return s.uploadProfileImage(ctx, sess, BucketAvatars, "avatar_url", filename, reader, size, contentType)
}

func (s *ProfileService) UploadHeroImage(ctx context.Context, sess session.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	return s.uploadProfileImage(ctx, sess, BucketHeroes, "hero_image_url", filename, reader, size, contentType)
}

func (s *ProfileService) uploadProfileImage(ctx context.Context, sess session.Context, bucket, column, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	profile, err := s.repo.FindByID(ctx, sess.UserID)
	if err != nil {
		return "", ErrProfileNotFound
	}
	url, err := s.storage.Upload(ctx, bucket, filename, reader, size, contentType)
	if err != nil {
		return "", err
	}
	if err := s.repo.Update(models.ContextWithUserID(ctx, sess.UserID), profile, map[string]interface{}{column: url}); err != nil {
		return "", err
	}
	return url, nil
}

func (s *ProfileService) Search(ctx context.Context, sess session.Context, query string) ([]models.PublicProfile, error) {
	if len(query) < 2 {
		return []models.PublicProfile{}, nil
	}
	profiles, err := s.repo.Search(ctx, query, sess.UserID, 20)
	if err != nil {
		return nil, err
	}
	results := make([]models.PublicProfile, 0, len(profiles))
	for i := range profiles {
		results = append(results, profiles[i].Public())
	}
	return results, nil
}

var _ IProfileService = (*ProfileService)(nil)
