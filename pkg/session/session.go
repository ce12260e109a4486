// Package session carries the authenticated caller through handlers and
// services as an explicit value instead of ambient global state. The auth
// middleware builds it from the verified token; everything downstream
// receives it as a parameter.
package session

import "rendezvous.club/models"

// Context identifies the authenticated member for one request.
type Context struct {
	UserID uint
	Role   models.ProfileRole
}

// IsAdmin reports whether the caller is club staff.
func (c Context) IsAdmin() bool { return c.Role == models.RoleAdmin }

// IsZero reports whether no authenticated user is attached.
func (c Context) IsZero() bool { return c.UserID == 0 }
