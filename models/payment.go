package models

// PaymentStatus mirrors the gateway's terminal intent states. Only
// "succeeded" is written by the confirmation flow; the others exist for
// reconciliation jobs.
type PaymentStatus string

const (
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Payment records a completed charge for an event ticket. The unique
// ProviderIntentID makes confirmation idempotent: a repeated confirm for
// the same intent finds this row instead of inserting a duplicate.
type Payment struct {
	BaseModel
	UserID uint    `gorm:"not null;index" json:"user_id"`
	User   Profile `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	EventID uint  `gorm:"not null;index" json:"event_id"`
	Event   Event `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	ProviderIntentID string `gorm:"type:varchar(255);uniqueIndex;not null" json:"provider_intent_id"`

	AmountCents int64  `gorm:"not null" json:"amount_cents"`
	Currency    string `gorm:"type:varchar(3);not null" json:"currency"`

	Status PaymentStatus `gorm:"type:varchar(20);not null;index" json:"status"`
}
