package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/chacha20poly1305"
	"gorm.io/gorm"

	"github.com/editorialstats/backend/internal/config"
	"github.com/editorialstats/backend/internal/models"
	"github.com/editorialstats/backend/internal/utils"
	"github.com/editorialstats/backend/pkg/logger"
)

var (
	ErrEvidenceNotFound = errors.New("evidence file not found")
	ErrFileMissing      = errors.New("file not found on disk")
)

// maxEvidenceSize caps uploads at 10 MiB.
const maxEvidenceSize = 10 << 20

// evidenceRetention is how long evidence files are kept before the
// cleanup job deletes them.
const evidenceRetentionDays = 365

type EvidenceService struct {
	db        *gorm.DB
	uploadDir string
	retention time.Duration
	key       []byte
}

func NewEvidenceService(db *gorm.DB, cfg *config.Config) (*EvidenceService, error) {
	key := []byte(cfg.Storage.EncryptionKey)
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("evidence encryption key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}
	if err := os.MkdirAll(cfg.Storage.UploadDir, 0o700); err != nil {
		return nil, err
	}

	retentionDays := cfg.Storage.RetentionDays
	if retentionDays <= 0 {
		retentionDays = evidenceRetentionDays
	}

	return &EvidenceService{
		db:        db,
		uploadDir: cfg.Storage.UploadDir,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		key:       key,
	}, nil
}

// seal encrypts content with a fresh nonce prepended to the ciphertext.
func (s *EvidenceService) seal(content []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, content, nil), nil
}

// open decrypts content produced by seal.
func (s *EvidenceService) open(sealed []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < aead.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	return aead.Open(nil, nonce, ciphertext, nil)
}

type UploadResult struct {
	FileID string `json:"file_id"`
	Status string `json:"status"`
}

// Store encrypts and saves an evidence file for one of the caller's own
// submissions, then links it to the submission.
func (s *EvidenceService) Store(user *models.User, submissionID, filename, mimeType string, content []byte) (*UploadResult, error) {
	var sub models.Submission
	err := s.db.Where("submission_id = ? AND user_hashed_id = ?", submissionID, user.HashedID).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	if len(content) > maxEvidenceSize {
		return nil, fmt.Errorf("file exceeds %d byte limit", maxEvidenceSize)
	}

	sealed, err := s.seal(content)
	if err != nil {
		return nil, err
	}

	fileID := utils.NewID("evidence")
	path := filepath.Join(s.uploadDir, fileID+".enc")
	if err := os.WriteFile(path, sealed, 0o600); err != nil {
		return nil, err
	}

	evidence := models.EvidenceFile{
		FileID:           fileID,
		UserHashedID:     user.HashedID,
		EncryptedPath:    path,
		OriginalFilename: filename,
		MimeType:         mimeType,
		RetentionUntil:   time.Now().UTC().Add(s.retention),
	}
	if err := s.db.Create(&evidence).Error; err != nil {
		os.Remove(path)
		return nil, err
	}

	err = s.db.Model(&models.Submission{}).
		Where("submission_id = ?", submissionID).
		UpdateColumn("evidence_file_id", fileID).Error
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("file_id", fileID).
		Str("submission_id", submissionID).
		Msg("evidence stored")
	return &UploadResult{FileID: fileID, Status: "uploaded"}, nil
}

// Fetch decrypts an evidence file for admin review.
func (s *EvidenceService) Fetch(fileID string) (*models.EvidenceFile, []byte, error) {
	var evidence models.EvidenceFile
	if err := s.db.Where("file_id = ?", fileID).First(&evidence).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrEvidenceNotFound
		}
		return nil, nil, err
	}

	sealed, err := os.ReadFile(evidence.EncryptedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ErrFileMissing
		}
		return nil, nil, err
	}

	content, err := s.open(sealed)
	if err != nil {
		logger.Error().Err(err).Str("file_id", fileID).Msg("evidence decryption failed")
		return nil, nil, err
	}
	return &evidence, content, nil
}

// PurgeExpired deletes evidence files past their retention date, both the
// encrypted blob and the metadata row. Submission links go stale rather
// than being rewritten; a missing file id reads as evidence expired.
func (s *EvidenceService) PurgeExpired() (int, error) {
	var expired []models.EvidenceFile
	err := s.db.Where("retention_until < ?", time.Now().UTC()).Find(&expired).Error
	if err != nil {
		return 0, err
	}

	purged := 0
	for _, evidence := range expired {
		if err := os.Remove(evidence.EncryptedPath); err != nil && !os.IsNotExist(err) {
			logger.Warn().Err(err).Str("file_id", evidence.FileID).Msg("evidence file removal failed")
			continue
		}
		if err := s.db.Where("file_id = ?", evidence.FileID).Delete(&models.EvidenceFile{}).Error; err != nil {
			return purged, err
		}
		purged++
	}
	return purged, nil
}
