package models

import "time"

// EvidenceFile is the metadata record for an encrypted evidence upload.
// The file content lives on disk at EncryptedPath and is removed when the
// retention window lapses.
type EvidenceFile struct {
	ID               uint      `gorm:"primaryKey" json:"-"`
	FileID           string    `gorm:"uniqueIndex;size:64;not null" json:"file_id"`
	UserHashedID     string    `gorm:"index;size:64;not null" json:"user_hashed_id"`
	EncryptedPath    string    `gorm:"size:500" json:"-"`
	OriginalFilename string    `gorm:"size:255" json:"original_filename"`
	MimeType         string    `gorm:"size:100" json:"mime_type"`
	RetentionUntil   time.Time `gorm:"index" json:"retention_until"`
	CreatedAt        time.Time `json:"created_at"`
}

func (EvidenceFile) TableName() string { return "evidence_files" }
