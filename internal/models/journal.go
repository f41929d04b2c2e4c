package models

import "time"

// Journal belongs to exactly one publisher.
type Journal struct {
	ID                       uint      `gorm:"primaryKey" json:"-"`
	JournalID                string    `gorm:"uniqueIndex;size:64;not null" json:"journal_id"`
	Name                     string    `gorm:"size:255;not null" json:"name"`
	PublisherID              string    `gorm:"index;size:64;not null" json:"publisher_id"`
	IsUserAdded              bool      `gorm:"default:false" json:"is_user_added"`
	IsVerified               bool      `json:"is_verified"`
	OpenAccess               *bool     `json:"open_access"`
	APCRequired              *string   `gorm:"size:20" json:"apc_required"` // yes, no, unknown
	ValidatedSubmissionCount int       `gorm:"default:0" json:"validated_submission_count"`
	AddedByHashedID          string    `gorm:"size:64" json:"-"`
	CreatedAt                time.Time `json:"created_at"`
}

func (Journal) TableName() string { return "journals" }
