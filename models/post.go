package models

import "time"

// PostType categorizes feed entries.
type PostType string

const (
	PostTypeAnnouncement   PostType = "announcement"
	PostTypeOffer          PostType = "offer"
	PostTypeEventPromotion PostType = "event_promotion"
)

// Post is a feed entry written by club staff. Pinned posts sort before the
// rest regardless of age.
type Post struct {
	BaseModel
	Title         string `gorm:"type:varchar(255);not null" json:"title"`
	Content       string `gorm:"type:text;not null" json:"content"`
	Excerpt       string `gorm:"type:varchar(500)" json:"excerpt"`
	CoverImageURL string `gorm:"type:varchar(500)" json:"cover_image_url"`

	Type PostType `gorm:"type:varchar(30);not null;default:'announcement';index" json:"type"`

	// EventID links event_promotion posts to the promoted event.
	EventID *uint  `gorm:"index" json:"event_id"`
	Event   *Event `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"event,omitempty"`

	Published   bool       `gorm:"default:false;index" json:"published"`
	PublishedAt *time.Time `json:"published_at"`
	Pinned      bool       `gorm:"default:false;index" json:"pinned"`

	AuthorID uint    `gorm:"not null;index" json:"author_id"`
	Author   Profile `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
}
