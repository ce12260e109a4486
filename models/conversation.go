package models

// Conversation is a member's concierge chat thread with the club. Exactly
// one per member, created lazily on first open.
type Conversation struct {
	BaseModel
	UserID uint    `gorm:"not null;uniqueIndex" json:"user_id"`
	User   Profile `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// Message is one chat message inside a conversation.
type Message struct {
	BaseModel
	ConversationID uint         `gorm:"not null;index" json:"conversation_id"`
	Conversation   Conversation `gorm:"foreignKey:ConversationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	SenderID uint    `gorm:"not null;index" json:"sender_id"`
	Sender   Profile `gorm:"foreignKey:SenderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"sender,omitempty"`

	Content string `gorm:"type:text;not null" json:"content"`
	Read    bool   `gorm:"default:false;index" json:"read"`
}
