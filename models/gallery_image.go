package models

// GalleryImageStatus gates which images the member gallery shows.
type GalleryImageStatus string

const (
	GalleryImagePending   GalleryImageStatus = "pending"
	GalleryImagePublished GalleryImageStatus = "published"
	GalleryImageRejected  GalleryImageStatus = "rejected"
)

// GalleryImage is a photo in the club gallery, optionally tied to an event.
// Member uploads start as pending and become visible once staff publish
// them.
type GalleryImage struct {
	BaseModel
	ImageURL string `gorm:"type:varchar(500);not null" json:"image_url"`
	Caption  string `gorm:"type:varchar(500)" json:"caption"`

	EventID *uint  `gorm:"index" json:"event_id"`
	Event   *Event `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"event,omitempty"`

	UploadedByID uint    `gorm:"not null;index" json:"uploaded_by"`
	UploadedBy   Profile `gorm:"foreignKey:UploadedByID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	Status GalleryImageStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
}
