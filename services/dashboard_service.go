package services

import (
	"context"
	"errors"

	"rendezvous.club/configs"
	"rendezvous.club/configs/configslog"
	"rendezvous.club/models"
	"rendezvous.club/pkg/queryparams"
	"rendezvous.club/pkg/session"
	"rendezvous.club/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DashboardServiceError is the typed error set for the admin dashboard.
type DashboardServiceError string

func (e DashboardServiceError) Error() string { return string(e) }

const (
	ErrDashboardForbidden      DashboardServiceError = "not allowed to view the dashboard"
	ErrDashboardMemberNotFound DashboardServiceError = "member not found"
	ErrDashboardInvalidStatus  DashboardServiceError = "invalid member status"
	ErrDashboardOwnAccount     DashboardServiceError = "cannot change the status of your own account"
)

// DashboardStats is the summary block on the admin landing screen.
type DashboardStats struct {
	MemberCount        int64 `json:"member_count"`
	EventCount         int64 `json:"event_count"`
	UpcomingEventCount int64 `json:"upcoming_event_count"`
	PostCount          int64 `json:"post_count"`
	PaymentCount       int64 `json:"payment_count"`
	RevenueCents       int64 `json:"revenue_cents"`
}

// IDashboardService aggregates counts for the staff overview and carries
// the moderation actions on member accounts.
type IDashboardService interface {
	GetStats(ctx context.Context, sess session.Context) (*DashboardStats, error)
	RecentMembers(ctx context.Context, sess session.Context, limit int) ([]models.Profile, error)
	SetMemberStatus(ctx context.Context, sess session.Context, memberID uint, status models.ProfileStatus) (*models.Profile, error)
}

// DashboardService implements IDashboardService.
type DashboardService struct {
	profileRepo repositories.IProfileRepository
	eventRepo   repositories.IEventRepository
	postRepo    repositories.IPostRepository
	paymentRepo repositories.IPaymentRepository
}

func NewDashboardService() IDashboardService {
	return NewDashboardServiceWithDB(configs.GetDB())
}

func NewDashboardServiceWithDB(db *gorm.DB) IDashboardService {
	return &DashboardService{
		profileRepo: repositories.NewProfileRepositoryTx(db),
		eventRepo:   repositories.NewEventRepositoryTx(db),
		postRepo:    repositories.NewPostRepositoryTx(db),
		paymentRepo: repositories.NewPaymentRepositoryTx(db),
	}
}

func (s *DashboardService) GetStats(ctx context.Context, sess session.Context) (*DashboardStats, error) {
	if !sess.IsAdmin() {
		return nil, ErrDashboardForbidden
	}

	stats := &DashboardStats{}
	var err error
	if stats.MemberCount, err = s.profileRepo.Count(ctx); err != nil {
		configslog.Log.Error("Dashboard member count failed", zap.Error(err))
		return nil, err
	}
	if stats.EventCount, err = s.eventRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.UpcomingEventCount, err = s.eventRepo.CountUpcoming(ctx); err != nil {
		return nil, err
	}
	if stats.PostCount, err = s.postRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.PaymentCount, err = s.paymentRepo.CountSucceeded(ctx); err != nil {
		return nil, err
	}
	if stats.RevenueCents, err = s.paymentRepo.SumSucceededCents(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *DashboardService) RecentMembers(ctx context.Context, sess session.Context, limit int) ([]models.Profile, error) {
	if !sess.IsAdmin() {
		return nil, ErrDashboardForbidden
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	params := queryparams.ListParams{Page: 1, PerPage: limit, SortBy: "created_at", OrderBy: "desc"}
	members, _, err := s.profileRepo.ListPaginated(ctx, params)
	return members, err
}

// SetMemberStatus suspends, bans or reactivates a member account. Staff
// cannot moderate themselves so a club always keeps at least one usable
// admin login.
func (s *DashboardService) SetMemberStatus(ctx context.Context, sess session.Context, memberID uint, status models.ProfileStatus) (*models.Profile, error) {
	if !sess.IsAdmin() {
		return nil, ErrDashboardForbidden
	}
	if memberID == sess.UserID {
		return nil, ErrDashboardOwnAccount
	}
	switch status {
	case models.ProfileStatusActive, models.ProfileStatusSuspended, models.ProfileStatusBanned:
	default:
		return nil, ErrDashboardInvalidStatus
	}

	profile, err := s.profileRepo.FindByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrDashboardMemberNotFound
		}
		return nil, err
	}
	if profile.Status == status {
		return profile, nil
	}

	if err := s.profileRepo.Update(ctx, profile, map[string]interface{}{"status": status}); err != nil {
		configslog.Log.Error("Member status update failed",
			zap.Uint("member_id", memberID), zap.Error(err))
		return nil, err
	}
	profile.Status = status
	configslog.SLog.Infow("Member status changed",
		"member_id", memberID, "status", status, "by", sess.UserID)
	return profile, nil
}

var _ IDashboardService = (*DashboardService)(nil)
