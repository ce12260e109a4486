package models

// TicketStatus is the redeemability state of a ticket.
type TicketStatus string

const (
	TicketStatusValid     TicketStatus = "valid"
	TicketStatusUsed      TicketStatus = "used"
	TicketStatusCancelled TicketStatus = "cancelled"
)

// Ticket is proof of purchase for a paid event, created only after its
// payment reaches succeeded. One payment yields at most one ticket.
type Ticket struct {
	BaseModel
	UserID uint    `gorm:"not null;index" json:"user_id"`
	User   Profile `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	EventID uint  `gorm:"not null;index" json:"event_id"`
	Event   Event `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"event,omitempty"`

	PaymentID uint    `gorm:"not null;uniqueIndex" json:"payment_id"`
	Payment   Payment `gorm:"foreignKey:PaymentID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"payment,omitempty"`

	// Code is the opaque identifier presented at the door.
	Code string `gorm:"type:varchar(36);uniqueIndex;not null" json:"code"`

	Status TicketStatus `gorm:"type:varchar(20);not null;default:'valid';index" json:"status"`
}
