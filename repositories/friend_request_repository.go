package repositories

import (
	"context"
	"errors"

	"rendezvous.club/configs"
	"rendezvous.club/configs/configslog"
	"rendezvous.club/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IFriendRequestRepository is the friendship persistence surface. An
// accepted request is the friendship itself.
type IFriendRequestRepository interface {
	Create(ctx context.Context, request *models.FriendRequest) error
	FindByID(ctx context.Context, id uint) (*models.FriendRequest, error)
	// FindBetween finds the request connecting two members in either
	// direction, whatever its status.
	FindBetween(ctx context.Context, userA, userB uint) (*models.FriendRequest, error)
	ListPendingForRecipient(ctx context.Context, recipientID uint) ([]models.FriendRequest, error)
	ListAcceptedForUser(ctx context.Context, userID uint) ([]models.FriendRequest, error)
	ListAcceptedFriendIDs(ctx context.Context, userID uint) ([]uint, error)
	Update(ctx context.Context, request *models.FriendRequest, fields map[string]interface{}) error
	Delete(ctx context.Context, request *models.FriendRequest) error
}

type FriendRequestRepository struct {
	db *gorm.DB
}

func NewFriendRequestRepository() IFriendRequestRepository {
	return &FriendRequestRepository{db: configs.GetDB()}
}

func NewFriendRequestRepositoryTx(tx *gorm.DB) IFriendRequestRepository {
	return &FriendRequestRepository{db: tx}
}

func (r *FriendRequestRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

func (r *FriendRequestRepository) Create(ctx context.Context, request *models.FriendRequest) error {
	err := r.getDB(ctx).Create(request).Error
	if err != nil {
		configslog.Log.Error("FriendRequest Create error",
			zap.Uint("requester_id", request.RequesterID),
			zap.Uint("recipient_id", request.RecipientID), zap.Error(err))
	}
	return err
}

func (r *FriendRequestRepository) FindByID(ctx context.Context, id uint) (*models.FriendRequest, error) {
	var request models.FriendRequest
	err := r.getDB(ctx).Preload("Requester").Preload("Recipient").First(&request, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *FriendRequestRepository) FindBetween(ctx context.Context, userA, userB uint) (*models.FriendRequest, error) {
	var request models.FriendRequest
	err := r.getDB(ctx).
		Where("(requester_id = ? AND recipient_id = ?) OR (requester_id = ? AND recipient_id = ?)",
			userA, userB, userB, userA).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *FriendRequestRepository) ListPendingForRecipient(ctx context.Context, recipientID uint) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	err := r.getDB(ctx).
		Where("recipient_id = ? AND status = ?", recipientID, models.FriendRequestPending).
		Preload("Requester").
		Order("created_at desc").
		Find(&requests).Error
	return requests, err
}

func (r *FriendRequestRepository) ListAcceptedForUser(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	err := r.getDB(ctx).
		Where("(requester_id = ? OR recipient_id = ?) AND status = ?",
			userID, userID, models.FriendRequestAccepted).
		Preload("Requester").Preload("Recipient").
		Order("responded_at desc").
		Find(&requests).Error
	return requests, err
}

// ListAcceptedFriendIDs returns just the ids of a member's friends.
func (r *FriendRequestRepository) ListAcceptedFriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	requests, err := r.ListAcceptedForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(requests))
	for _, req := range requests {
		if req.RequesterID == userID {
			ids = append(ids, req.RecipientID)
		} else {
			ids = append(ids, req.RequesterID)
		}
	}
	return ids, nil
}

func (r *FriendRequestRepository) Update(ctx context.Context, request *models.FriendRequest, fields map[string]interface{}) error {
	result := r.getDB(ctx).Model(request).Where("id = ?", request.ID).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a request row so the pair can start over (declined or
// cancelled requests would otherwise block the unique pair index).
func (r *FriendRequestRepository) Delete(ctx context.Context, request *models.FriendRequest) error {
	result := r.getDB(ctx).Unscoped().Delete(request)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ IFriendRequestRepository = (*FriendRequestRepository)(nil)
