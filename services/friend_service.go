package services

import (
	"context"
	"errors"
	"time"

	"rendezvous.club/configs"
	"rendezvous.club/configs/configslog"
	"rendezvous.club/models"
	"rendezvous.club/pkg/session"
	"rendezvous.club/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FriendServiceError is the typed error set for friendships.
type FriendServiceError string

func (e FriendServiceError) Error() string { return string(e) }

const (
	ErrFriendRequestNotFound  FriendServiceError = "friend request not found"
	ErrFriendSelfRequest      FriendServiceError = "cannot send a friend request to yourself"
	ErrFriendAlreadyConnected FriendServiceError = "a request or friendship already exists"
	ErrFriendNotRecipient     FriendServiceError = "only the recipient can respond to this request"
	ErrFriendNotRequester     FriendServiceError = "only the requester can cancel this request"
	ErrFriendMemberNotFound   FriendServiceError = "member not found"
)

// FriendEntry is one row of the friends list.
type FriendEntry struct {
	Profile models.PublicProfile `json:"profile"`
	Since   *time.Time           `json:"since"`
}

// IFriendService manages friend requests and the resulting friendships.
type IFriendService interface {
	SendRequest(ctx context.Context, sess session.Context, recipientID uint) (*models.FriendRequest, error)
	AcceptRequest(ctx context.Context, sess session.Context, requestID uint) error
	DeclineRequest(ctx context.Context, sess session.Context, requestID uint) error
	CancelRequest(ctx context.Context, sess session.Context, requestID uint) error
	ListFriends(ctx context.Context, sess session.Context) ([]FriendEntry, error)
	ListPending(ctx context.Context, sess session.Context) ([]models.FriendRequest, error)
}

// FriendService implements IFriendService.
type FriendService struct {
	db           *gorm.DB
	repo         repositories.IFriendRequestRepository
	profileRepo  repositories.IProfileRepository
	notifService INotificationService
}

func NewFriendService(notifService INotificationService) IFriendService {
	db := configs.GetDB()
	return &FriendService{
		db:           db,
		repo:         repositories.NewFriendRequestRepository(),
		profileRepo:  repositories.NewProfileRepository(),
		notifService: notifService,
	}
}

func NewFriendServiceWithDB(db *gorm.DB) IFriendService {
	return &FriendService{
		db:           db,
		repo:         repositories.NewFriendRequestRepositoryTx(db),
		profileRepo:  repositories.NewProfileRepositoryTx(db),
		notifService: NewNotificationServiceWithDB(db),
	}
}

func (s *FriendService) SendRequest(ctx context.Context, sess session.Context, recipientID uint) (*models.FriendRequest, error) {
	if recipientID == sess.UserID {
		return nil, ErrFriendSelfRequest
	}
	recipient, err := s.profileRepo.FindByID(ctx, recipientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrFriendMemberNotFound
		}
		return nil, err
	}

	if existing, err := s.repo.FindBetween(ctx, sess.UserID, recipientID); err == nil {
		switch existing.Status {
		case models.FriendRequestPending, models.FriendRequestAccepted:
			return nil, ErrFriendAlreadyConnected
		default:
			// A declined or cancelled row blocks the unique pair index;
			// clear it so the pair can start over.
			if err := s.repo.Delete(ctx, existing); err != nil {
				return nil, err
			}
		}
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	request := &models.FriendRequest{
		RequesterID: sess.UserID,
		RecipientID: recipientID,
		Status:      models.FriendRequestPending,
	}
	if err := s.repo.Create(models.ContextWithUserID(ctx, sess.UserID), request); err != nil {
		return nil, err
	}

	requester, err := s.profileRepo.FindByID(ctx, sess.UserID)
	if err == nil {
		s.notifService.Notify(ctx, &models.Notification{
			UserID:        recipient.ID,
			Type:          models.NotificationFriendRequest,
			Title:         "New friend request",
			Message:       requester.FullName + " (@" + requester.Username + ") wants to be your friend.",
			RelatedUserID: &requester.ID,
		})
	}
	return request, nil
}

// AcceptRequest flips the request to accepted and bumps both friends
// counters in one transaction.
func (s *FriendService) AcceptRequest(ctx context.Context, sess session.Context, requestID uint) error {
	var requesterID uint
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		txCtx := models.ContextWithUserID(ctx, sess.UserID)
		repo := repositories.NewFriendRequestRepositoryTx(tx)
		profileRepo := repositories.NewProfileRepositoryTx(tx)

		request, err := repo.FindByID(txCtx, requestID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrFriendRequestNotFound
			}
			return err
		}
		if request.RecipientID != sess.UserID {
			return ErrFriendNotRecipient
		}
		if request.Status != models.FriendRequestPending {
			return ErrFriendRequestNotFound
		}

		now := time.Now().UTC()
		if err := repo.Update(txCtx, request, map[string]interface{}{
			"status":       models.FriendRequestAccepted,
			"responded_at": &now,
		}); err != nil {
			return err
		}
		if err := profileRepo.AdjustFriendsCount(txCtx, request.RequesterID, 1); err != nil {
			return err
		}
		if err := profileRepo.AdjustFriendsCount(txCtx, request.RecipientID, 1); err != nil {
			return err
		}
		requesterID = request.RequesterID
		return nil
	})
	if txErr != nil {
		return txErr
	}

	if accepter, err := s.profileRepo.FindByID(ctx, sess.UserID); err == nil {
		s.notifService.Notify(ctx, &models.Notification{
			UserID:        requesterID,
			Type:          models.NotificationFriendAccepted,
			Title:         "Friend request accepted",
			Message:       accepter.FullName + " accepted your friend request.",
			RelatedUserID: &accepter.ID,
		})
	}
	return nil
}

func (s *FriendService) DeclineRequest(ctx context.Context, sess session.Context, requestID uint) error {
	request, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrFriendRequestNotFound
		}
		return err
	}
	if request.RecipientID != sess.UserID {
		return ErrFriendNotRecipient
	}
	if request.Status != models.FriendRequestPending {
		return ErrFriendRequestNotFound
	}
	now := time.Now().UTC()
	return s.repo.Update(models.ContextWithUserID(ctx, sess.UserID), request, map[string]interface{}{
		"status":       models.FriendRequestDeclined,
		"responded_at": &now,
	})
}

// CancelRequest withdraws a pending request. The row is deleted so a later
// request between the pair is possible.
func (s *FriendService) CancelRequest(ctx context.Context, sess session.Context, requestID uint) error {
	request, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrFriendRequestNotFound
		}
		return err
	}
	if request.RequesterID != sess.UserID {
		return ErrFriendNotRequester
	}
	if request.Status != models.FriendRequestPending {
		return ErrFriendRequestNotFound
	}
	if err := s.repo.Delete(ctx, request); err != nil {
		configslog.Log.Error("Friend request cancel failed", zap.Uint("id", requestID), zap.Error(err))
		return err
	}
	return nil
}

func (s *FriendService) ListFriends(ctx context.Context, sess session.Context) ([]FriendEntry, error) {
	requests, err := s.repo.ListAcceptedForUser(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	entries := make([]FriendEntry, 0, len(requests))
	for i := range requests {
		friend := requests[i].Requester
		if requests[i].RequesterID == sess.UserID {
			friend = requests[i].Recipient
		}
		entries = append(entries, FriendEntry{
			Profile: friend.Public(),
			Since:   requests[i].RespondedAt,
		})
	}
	return entries, nil
}

func (s *FriendService) ListPending(ctx context.Context, sess session.Context) ([]models.FriendRequest, error) {
	return s.repo.ListPendingForRecipient(ctx, sess.UserID)
}

var _ IFriendService = (*FriendService)(nil)
