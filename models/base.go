package models

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type contextKey string

// auditUserIDKey carries the acting user's id through a request context so
// the GORM hooks below can stamp audit columns.
const auditUserIDKey contextKey = "audit_user_id"

// ContextWithUserID returns ctx annotated with the acting user's id.
func ContextWithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, auditUserIDKey, userID)
}

// UserIDFromContext extracts the acting user's id, if any.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(auditUserIDKey).(uint)
	return id, ok
}

// BaseModel is embedded by every entity: numeric primary key, timestamps,
// soft delete and audit columns filled from the request context.
type BaseModel struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	CreatedBy *uint          `gorm:"index" json:"-"`
	UpdatedBy *uint          `json:"-"`
	DeletedBy *uint          `json:"-"`
}

func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if id, ok := UserIDFromContext(tx.Statement.Context); ok {
		m.CreatedBy = &id
		m.UpdatedBy = &id
	}
	return nil
}

func (m *BaseModel) BeforeUpdate(tx *gorm.DB) error {
	if id, ok := UserIDFromContext(tx.Statement.Context); ok {
		m.UpdatedBy = &id
	}
	return nil
}
