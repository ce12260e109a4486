package models

import "time"

// EventStatus is the scheduling state of an event.
type EventStatus string

const (
	EventStatusScheduled EventStatus = "scheduled"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
)

// Event is a club event members can RSVP to. PriceCents == 0 means free.
// Capacity nil means unlimited. The RSVP counters are denormalized and
// adjusted by RSVPService/PaymentService in the transaction that moves the
// RSVP, never recomputed client-side.
type Event struct {
	BaseModel
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`

	StartTime time.Time `gorm:"index;not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`
	Timezone  string    `gorm:"type:varchar(50);default:'Europe/Madrid'" json:"timezone"`

	LocationName    string `gorm:"type:varchar(255)" json:"location_name"`
	LocationAddress string `gorm:"type:varchar(500)" json:"location_address"`

	PriceCents int64  `gorm:"not null;default:0" json:"price_cents"`
	Currency   string `gorm:"type:varchar(3);not null;default:'eur'" json:"currency"`
	Capacity   *int   `json:"capacity"`

	RSVPInterestedCount int `gorm:"not null;default:0" json:"rsvp_interested_count"`
	RSVPAttendingCount  int `gorm:"not null;default:0" json:"rsvp_attending_count"`

	CoverImageURL string   `gorm:"type:varchar(500)" json:"cover_image_url"`
	Category      string   `gorm:"type:varchar(50);index" json:"category"`
	Tags          []string `gorm:"serializer:json" json:"tags"`

	Published   bool        `gorm:"default:false;index" json:"published"`
	PublishedAt *time.Time  `json:"published_at"`
	Status      EventStatus `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`

	CreatedByUserID uint    `gorm:"index;not null" json:"created_by"`
	Creator         Profile `gorm:"foreignKey:CreatedByUserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	AverageRating *float64 `json:"average_rating"`
	RatingsCount  int      `gorm:"not null;default:0" json:"ratings_count"`
}

// IsFree reports whether attending requires no payment.
func (e *Event) IsFree() bool { return e.PriceCents <= 0 }
