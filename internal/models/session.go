package models

import "time"

// Session is a server-side login session. The token is carried either in
// the session_token cookie or as a bearer token.
type Session struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	SessionID    string    `gorm:"uniqueIndex;size:64;not null" json:"session_id"`
	UserID       string    `gorm:"index;size:64;not null" json:"user_id"`
	Token        string    `gorm:"uniqueIndex;size:255;not null" json:"-"`
	AuthProvider string    `gorm:"size:20" json:"auth_provider"`
	ExpiresAt    time.Time `gorm:"index" json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Session) TableName() string { return "user_sessions" }

// Expired reports whether the session is past its expiry.
func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}
