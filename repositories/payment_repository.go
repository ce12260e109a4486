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

// IPaymentRepository is the payment-record persistence surface. Rows are
// written once by the confirmation flow and never mutated here.
type IPaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByProviderIntentID(ctx context.Context, intentID string) (*models.Payment, error)
	SumSucceededCents(ctx context.Context) (int64, error)
	CountSucceeded(ctx context.Context) (int64, error)
}

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository() IPaymentRepository {
	return &PaymentRepository{db: configs.GetDB()}
}

func NewPaymentRepositoryTx(tx *gorm.DB) IPaymentRepository {
	return &PaymentRepository{db: tx}
}

func (r *PaymentRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	err := r.getDB(ctx).Create(payment).Error
	if err != nil {
		configslog.Log.Error("Payment Create error",
			zap.String("intent_id", payment.ProviderIntentID), zap.Error(err))
	}
	return err
}

func (r *PaymentRepository) FindByProviderIntentID(ctx context.Context, intentID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.getDB(ctx).Where("provider_intent_id = ?", intentID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// SumSucceededCents totals the revenue shown on the admin dashboard.
func (r *PaymentRepository) SumSucceededCents(ctx context.Context) (int64, error) {
	var total int64
	err := r.getDB(ctx).Model(&models.Payment{}).
		Where("status = ?", models.PaymentStatusSucceeded).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&total).Error
	return total, err
}

func (r *PaymentRepository) CountSucceeded(ctx context.Context) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&models.Payment{}).
		Where("status = ?", models.PaymentStatusSucceeded).
		Count(&count).Error
	return count, err
}

var _ IPaymentRepository = (*PaymentRepository)(nil)
