package models

import "time"

// ProfileStatus is the moderation state of a member account.
type ProfileStatus string

const (
	ProfileStatusActive    ProfileStatus = "active"
	ProfileStatusSuspended ProfileStatus = "suspended"
	ProfileStatusBanned    ProfileStatus = "banned"
)

// ProfileRole separates ordinary members from club staff.
type ProfileRole string

const (
	RoleMember ProfileRole = "member"
	RoleAdmin  ProfileRole = "admin"
)

// Profile is a member account. EventsAttendedCount and FriendsCount are
// denormalized counters maintained by the services inside the same
// transaction as the write that changes them.
type Profile struct {
	BaseModel
	Email        string `gorm:"type:varchar(150);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	Username     string `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	FullName     string `gorm:"type:varchar(150);not null" json:"full_name"`
	Bio          string `gorm:"type:text" json:"bio"`
	AvatarURL    string `gorm:"type:varchar(500)" json:"avatar_url"`
	HeroImageURL string `gorm:"type:varchar(500)" json:"hero_image_url"`

	Status ProfileStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	Role   ProfileRole   `gorm:"type:varchar(20);not null;default:'member';index" json:"role"`

	ShareAttendanceWithFriends bool `gorm:"default:true" json:"share_attendance_with_friends"`
	OnboardingCompleted        bool `gorm:"default:false" json:"onboarding_completed"`

	LastSeenAt          *time.Time `json:"last_seen_at"`
	EventsAttendedCount int        `gorm:"not null;default:0" json:"events_attended_count"`
	FriendsCount        int        `gorm:"not null;default:0" json:"friends_count"`
}

// PublicProfile is the subset of Profile exposed to other members.
type PublicProfile struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	FullName     string `json:"full_name"`
	Bio          string `json:"bio"`
	AvatarURL    string `json:"avatar_url"`
	HeroImageURL string `json:"hero_image_url"`
	FriendsCount int    `json:"friends_count"`
}

// Public strips the private fields for member-facing responses.
func (p *Profile) Public() PublicProfile {
	return PublicProfile{
		ID:           p.ID,
		Username:     p.Username,
		FullName:     p.FullName,
		Bio:          p.Bio,
		AvatarURL:    p.AvatarURL,
		HeroImageURL: p.HeroImageURL,
		FriendsCount: p.FriendsCount,
	}
}
