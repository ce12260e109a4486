package models

import "time"

// FriendRequestStatus is the response state of a friend request.
type FriendRequestStatus string

const (
	FriendRequestPending   FriendRequestStatus = "pending"
	FriendRequestAccepted  FriendRequestStatus = "accepted"
	FriendRequestDeclined  FriendRequestStatus = "declined"
	FriendRequestCancelled FriendRequestStatus = "cancelled"
)

// FriendRequest connects two members. An accepted request IS the
// friendship; there is no separate friends table. Unique per
// (requester, recipient) pair.
type FriendRequest struct {
	BaseModel
	RequesterID uint    `gorm:"not null;uniqueIndex:idx_friend_pair" json:"requester_id"`
	Requester   Profile `gorm:"foreignKey:RequesterID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"requester,omitempty"`

	RecipientID uint    `gorm:"not null;uniqueIndex:idx_friend_pair;index" json:"recipient_id"`
	Recipient   Profile `gorm:"foreignKey:RecipientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"recipient,omitempty"`

	Status      FriendRequestStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	RespondedAt *time.Time          `json:"responded_at"`
}
