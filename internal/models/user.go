package models

import "time"

// User represents a platform user. Identity comes from an OAuth provider;
// HashedID is the anonymized identifier that links submissions without
// exposing who made them.
type User struct {
	ID           uint    `gorm:"primaryKey" json:"-"`
	UserID       string  `gorm:"uniqueIndex;size:64;not null" json:"user_id"`
	Email        string  `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name         string  `gorm:"size:255" json:"name"`
	Picture      *string `gorm:"size:500" json:"picture"`
	ORCID        *string `gorm:"size:64" json:"orcid"`
	ORCIDHash    *string `gorm:"index;size:64" json:"-"` // sha256 of the raw iD, never the iD itself
	AuthProvider string  `gorm:"size:20;default:google" json:"auth_provider"` // google, orcid
	HashedID     string  `gorm:"uniqueIndex;size:64;not null" json:"-"`

	// Trust score (0-100) and counters, updated only by moderation actions.
	TrustScore                 float64 `gorm:"default:0" json:"trust_score"`
	ContributionCount          int     `gorm:"default:0" json:"contribution_count"`
	ValidatedCount             int     `gorm:"default:0" json:"validated_count"`
	ValidatedWithEvidenceCount int     `gorm:"default:0" json:"validated_with_evidence_count"`
	FlaggedCount               int     `gorm:"default:0" json:"flagged_count"`

	IsAdmin   bool      `gorm:"default:false" json:"is_admin"`
	IsSample  bool      `gorm:"default:false" json:"is_sample"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (User) TableName() string { return "users" }

// TrustScoreVisible reports whether the user's trust score has enough
// moderation history behind it to be shown.
func (u *User) TrustScoreVisible() bool {
	return u.ValidatedCount >= 2 || u.ValidatedWithEvidenceCount >= 1
}
