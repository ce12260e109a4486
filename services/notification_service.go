package services

import (
	"context"
	"errors"
	"strconv"

	"rendezvous.club/configs/configslog"
	"rendezvous.club/models"
	"rendezvous.club/pkg/changefeed"
	"rendezvous.club/pkg/queryparams"
	"rendezvous.club/pkg/session"
	"rendezvous.club/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NotificationServiceError is the typed error set for notifications.
type NotificationServiceError string

func (e NotificationServiceError) Error() string { return string(e) }

const ErrNotificationNotFound NotificationServiceError = "notification not found"

// INotificationService writes and reads in-app notifications.
type INotificationService interface {
	// Notify stores a notification and publishes it on the change feed.
	// Failures are logged, not returned: notifications are never allowed to
	// fail the operation that triggered them.
	Notify(ctx context.Context, notification *models.Notification)
	ListMine(ctx context.Context, sess session.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	UnreadCount(ctx context.Context, sess session.Context) (int64, error)
	MarkRead(ctx context.Context, sess session.Context, id uint) error
	MarkAllRead(ctx context.Context, sess session.Context) error
}

// NotificationService implements INotificationService.
type NotificationService struct {
	repo repositories.INotificationRepository
	feed changefeed.Feed
}

func NewNotificationService(feed changefeed.Feed) INotificationService {
	return &NotificationService{repo: repositories.NewNotificationRepository(), feed: feed}
}

// NewNotificationServiceWithDB binds to an explicit handle with a silent
// feed. Used by tests that don't observe the feed.
func NewNotificationServiceWithDB(db *gorm.DB) INotificationService {
	return NewNotificationServiceWithDeps(db, changefeed.NoopFeed{})
}

func NewNotificationServiceWithDeps(db *gorm.DB, feed changefeed.Feed) INotificationService {
	return &NotificationService{
		repo: repositories.NewNotificationRepositoryTx(db),
		feed: feed,
	}
}

func (s *NotificationService) Notify(ctx context.Context, notification *models.Notification) {
	if err := s.repo.Create(ctx, notification); err != nil {
		configslog.Log.Warn("Notification write failed",
			zap.Uint("user_id", notification.UserID), zap.String("type", notification.Type), zap.Error(err))
		return
	}
	// The stream is per recipient; the websocket handler subscribes each
	// member to their own user-id filter.
	filter := strconv.FormatUint(uint64(notification.UserID), 10)
	if err := s.feed.Publish(ctx, "notifications", filter, changefeed.ActionInsert, notification.ID, notification); err != nil {
		configslog.Log.Warn("Notification feed publish failed", zap.Error(err))
	}
}

func (s *NotificationService) ListMine(ctx context.Context, sess session.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Normalize()
	notifications, total, err := s.repo.ListForUser(ctx, sess.UserID, params)
	if err != nil {
		return nil, err
	}
	return &queryparams.PaginatedResult{
		Data: notifications,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page,
			PerPage:     params.PerPage,
			TotalItems:  total,
			TotalPages:  queryparams.CalculateTotalPages(total, params.PerPage),
		},
	}, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, sess session.Context) (int64, error) {
	return s.repo.CountUnread(ctx, sess.UserID)
}

func (s *NotificationService) MarkRead(ctx context.Context, sess session.Context, id uint) error {
	err := s.repo.MarkRead(ctx, id, sess.UserID)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrNotificationNotFound
	}
	return err
}

func (s *NotificationService) MarkAllRead(ctx context.Context, sess session.Context) error {
	return s.repo.MarkAllRead(ctx, sess.UserID)
}

var _ INotificationService = (*NotificationService)(nil)
