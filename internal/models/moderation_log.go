package models

import "time"

// ModerationLog is an append-only audit record of a submission status
// transition. One entry per moderation action, never updated.
type ModerationLog struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	LogID        string    `gorm:"uniqueIndex;size:64;not null" json:"log_id"`
	SubmissionID string    `gorm:"index;size:64;not null" json:"submission_id"`
	AdminUserID  string    `gorm:"size:64" json:"admin_user_id"`
	AdminName    string    `gorm:"size:255" json:"admin_name"`
	OldStatus    string    `gorm:"size:20" json:"old_status"`
	NewStatus    string    `gorm:"size:20" json:"new_status"`
	Notes        *string   `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

func (ModerationLog) TableName() string { return "moderation_logs" }
