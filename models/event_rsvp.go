package models

// RSVPStatus is the lifecycle state of a member's RSVP.
//
// RSVPStatusCancelled exists in the column's value set for compatibility
// with historical rows, but cancellation deletes the row; no code path
// writes the value.
type RSVPStatus string

const (
	RSVPStatusInterested     RSVPStatus = "interested"
	RSVPStatusPendingPayment RSVPStatus = "attending_pending_payment"
	RSVPStatusConfirmed      RSVPStatus = "attending_confirmed"
	RSVPStatusCancelled      RSVPStatus = "cancelled"
)

// EventRSVP is a member's declared intent for an event, unique per
// (event, user). RequiresPayment snapshots the event price at creation and
// is never rewritten, even if the event is repriced later. Invariant:
// PaymentCompleted is true whenever Status is attending_confirmed.
type EventRSVP struct {
	BaseModel
	EventID uint  `gorm:"not null;uniqueIndex:idx_rsvp_event_user" json:"event_id"`
	Event   Event `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	UserID uint    `gorm:"not null;uniqueIndex:idx_rsvp_event_user;index" json:"user_id"`
	User   Profile `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Status RSVPStatus `gorm:"type:varchar(30);not null;index" json:"status"`

	RequiresPayment  bool `gorm:"not null;default:false" json:"requires_payment"`
	PaymentCompleted bool `gorm:"not null;default:false" json:"payment_completed"`

	PaymentID *uint    `gorm:"index" json:"payment_id"`
	Payment   *Payment `gorm:"foreignKey:PaymentID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
}
