package models

import "time"

// Notification types written by the services.
const (
	NotificationFriendRequest  = "friend_request"
	NotificationFriendAccepted = "friend_accepted"
	NotificationFriendAttends  = "friend_attending"
	NotificationEventReminder  = "event_reminder"
)

// Notification is an in-app notification for one member.
type Notification struct {
	BaseModel
	UserID uint    `gorm:"not null;index" json:"user_id"`
	User   Profile `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Type    string `gorm:"type:varchar(50);not null;index" json:"type"`
	Title   string `gorm:"type:varchar(255);not null" json:"title"`
	Message string `gorm:"type:text" json:"message"`

	RelatedUserID  *uint `gorm:"index" json:"related_user_id"`
	RelatedEventID *uint `gorm:"index" json:"related_event_id"`

	Read   bool       `gorm:"default:false;index" json:"read"`
	ReadAt *time.Time `json:"read_at"`

	ActionURL   string `gorm:"type:varchar(500)" json:"action_url"`
	ActionLabel string `gorm:"type:varchar(100)" json:"action_label"`
}
