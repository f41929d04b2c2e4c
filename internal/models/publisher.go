package models

import "time"

// Publisher groups journals. Seeded publishers are verified; user-added
// ones start unverified and are promoted once enough of their submissions
// are validated.
type Publisher struct {
	ID                       uint      `gorm:"primaryKey" json:"-"`
	PublisherID              string    `gorm:"uniqueIndex;size:64;not null" json:"publisher_id"`
	Name                     string    `gorm:"size:255;not null" json:"name"`
	IsUserAdded              bool      `gorm:"default:false" json:"is_user_added"`
	IsVerified               bool      `json:"is_verified"`
	ValidatedSubmissionCount int       `gorm:"default:0" json:"validated_submission_count"`
	AddedByHashedID          string    `gorm:"size:64" json:"-"`
	CreatedAt                time.Time `json:"created_at"`
}

func (Publisher) TableName() string { return "publishers" }
