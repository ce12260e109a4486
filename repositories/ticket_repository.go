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

// ITicketRepository is the ticket persistence surface.
type ITicketRepository interface {
	Create(ctx context.Context, ticket *models.Ticket) error
	FindByPaymentID(ctx context.Context, paymentID uint) (*models.Ticket, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Ticket, error)
}

type TicketRepository struct {
	db *gorm.DB
}

func NewTicketRepository() ITicketRepository {
	return &TicketRepository{db: configs.GetDB()}
}

func NewTicketRepositoryTx(tx *gorm.DB) ITicketRepository {
	return &TicketRepository{db: tx}
}

func (r *TicketRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

func (r *TicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	err := r.getDB(ctx).Create(ticket).Error
	if err != nil {
		configslog.Log.Error("Ticket Create error",
			zap.Uint("payment_id", ticket.PaymentID), zap.Error(err))
	}
	return err
}

func (r *TicketRepository) FindByPaymentID(ctx context.Context, paymentID uint) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.getDB(ctx).Where("payment_id = ?", paymentID).First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

// ListByUser returns the member's tickets, newest first, with event and
// payment preloaded for the wallet screen.
func (r *TicketRepository) ListByUser(ctx context.Context, userID uint) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := r.getDB(ctx).
		Where("user_id = ?", userID).
		Preload("Event").
		Preload("Payment").
		Order("created_at desc").
		Find(&tickets).Error
	if err != nil {
		configslog.Log.Error("Ticket ListByUser error", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}
	return tickets, nil
}

var _ ITicketRepository = (*TicketRepository)(nil)
