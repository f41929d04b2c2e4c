package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/editorialstats/backend/internal/models"
	"github.com/editorialstats/backend/internal/utils"
	"github.com/editorialstats/backend/pkg/logger"
)

// Trust score deltas applied by moderation outcomes.
const (
	trustValidatedPoints = 20
	trustEvidenceBonus   = 10
	trustFlaggedPenalty  = 15
)

// promotionThreshold is the validated submission count at which a
// user-added journal or publisher becomes verified.
const promotionThreshold = 3

var (
	ErrInvalidStatus      = errors.New("invalid status")
	ErrSubmissionNotFound = errors.New("submission not found")
)

type ModerationService struct {
	db *gorm.DB
}

func NewModerationService(db *gorm.DB) *ModerationService {
	return &ModerationService{db: db}
}

// trustAdjustment is the set of counter and score changes one status
// transition causes for the submitting user.
type trustAdjustment struct {
	Score          float64
	Validated      int
	WithEvidence   int
	Flagged        int
	CatalogCredits int
}

// adjustmentFor maps a status transition to its trust changes. Only the
// first matching rule applies: entering validated or flagged takes
// precedence over leaving the previous status, so a flagged report
// validated directly earns the validation points without restoring the
// flag penalty.
func adjustmentFor(oldStatus, newStatus string, hasEvidence bool) trustAdjustment {
	validatedPoints := float64(trustValidatedPoints)
	withEvidence := 0
	if hasEvidence {
		validatedPoints += trustEvidenceBonus
		withEvidence = 1
	}

	switch {
	case newStatus == models.StatusValidated && oldStatus != models.StatusValidated:
		return trustAdjustment{Score: validatedPoints, Validated: 1, WithEvidence: withEvidence, CatalogCredits: 1}
	case newStatus == models.StatusFlagged && oldStatus != models.StatusFlagged:
		return trustAdjustment{Score: -trustFlaggedPenalty, Flagged: 1}
	case oldStatus == models.StatusValidated && newStatus != models.StatusValidated:
		return trustAdjustment{Score: -validatedPoints, Validated: -1, WithEvidence: -withEvidence, CatalogCredits: -1}
	case oldStatus == models.StatusFlagged && newStatus != models.StatusFlagged:
		return trustAdjustment{Score: trustFlaggedPenalty, Flagged: -1}
	}
	return trustAdjustment{}
}

// Moderate sets a submission's status and applies the resulting trust
// score changes, catalog validation credits and promotion checks. Every
// action is recorded in the moderation log, including no-op transitions.
func (s *ModerationService) Moderate(admin *models.User, submissionID, newStatus string, notes *string) error {
	if newStatus != models.StatusPending && newStatus != models.StatusValidated && newStatus != models.StatusFlagged {
		return ErrInvalidStatus
	}

	var sub models.Submission
	if err := s.db.Where("submission_id = ?", submissionID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubmissionNotFound
		}
		return err
	}

	oldStatus := sub.Status
	hasEvidence := sub.EvidenceFileID != nil

	now := s.db.NowFunc()
	err := s.db.Model(&models.Submission{}).
		Where("submission_id = ?", submissionID).
		Updates(map[string]interface{}{
			"status":       newStatus,
			"moderated_at": now,
			"moderated_by": admin.UserID,
		}).Error
	if err != nil {
		return err
	}

	entry := models.ModerationLog{
		LogID:        utils.NewID("log"),
		SubmissionID: submissionID,
		AdminUserID:  admin.UserID,
		AdminName:    admin.Name,
		OldStatus:    oldStatus,
		NewStatus:    newStatus,
		Notes:        notes,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return err
	}

	adj := adjustmentFor(oldStatus, newStatus, hasEvidence)
	if adj == (trustAdjustment{}) {
		return nil
	}

	err = s.db.Model(&models.User{}).
		Where("hashed_id = ?", sub.UserHashedID).
		UpdateColumns(map[string]interface{}{
			"trust_score":                   gorm.Expr("trust_score + ?", adj.Score),
			"validated_count":               gorm.Expr("validated_count + ?", adj.Validated),
			"validated_with_evidence_count": gorm.Expr("validated_with_evidence_count + ?", adj.WithEvidence),
			"flagged_count":                 gorm.Expr("flagged_count + ?", adj.Flagged),
		}).Error
	if err != nil {
		return err
	}

	// Clamp the score to [0, 100].
	s.db.Model(&models.User{}).
		Where("hashed_id = ? AND trust_score < 0", sub.UserHashedID).
		UpdateColumn("trust_score", 0)
	s.db.Model(&models.User{}).
		Where("hashed_id = ? AND trust_score > 100", sub.UserHashedID).
		UpdateColumn("trust_score", 100)

	if adj.CatalogCredits != 0 {
		s.db.Model(&models.Journal{}).
			Where("journal_id = ?", sub.JournalID).
			UpdateColumn("validated_submission_count", gorm.Expr("validated_submission_count + ?", adj.CatalogCredits))
		s.db.Model(&models.Publisher{}).
			Where("publisher_id = ?", sub.PublisherID).
			UpdateColumn("validated_submission_count", gorm.Expr("validated_submission_count + ?", adj.CatalogCredits))

		if adj.CatalogCredits > 0 {
			s.promoteJournal(sub.JournalID)
			s.promotePublisher(sub.PublisherID)
		}
	}

	logger.Info().
		Str("submission_id", submissionID).
		Str("old_status", oldStatus).
		Str("new_status", newStatus).
		Str("admin", admin.UserID).
		Msg("submission moderated")
	return nil
}

// promoteJournal verifies a user-added journal once enough of its
// submissions have been validated.
func (s *ModerationService) promoteJournal(journalID string) {
	var journal models.Journal
	if err := s.db.Where("journal_id = ?", journalID).First(&journal).Error; err != nil {
		return
	}
	if !journal.IsUserAdded || journal.IsVerified {
		return
	}
	if journal.ValidatedSubmissionCount >= promotionThreshold {
		s.db.Model(&models.Journal{}).
			Where("journal_id = ?", journalID).
			UpdateColumn("is_verified", true)
		logger.Info().Str("journal", journal.Name).Msg("journal promoted to verified")
	}
}

func (s *ModerationService) promotePublisher(publisherID string) {
	var publisher models.Publisher
	if err := s.db.Where("publisher_id = ?", publisherID).First(&publisher).Error; err != nil {
		return
	}
	if !publisher.IsUserAdded || publisher.IsVerified {
		return
	}
	if publisher.ValidatedSubmissionCount >= promotionThreshold {
		s.db.Model(&models.Publisher{}).
			Where("publisher_id = ?", publisherID).
			UpdateColumn("is_verified", true)
		logger.Info().Str("publisher", publisher.Name).Msg("publisher promoted to verified")
	}
}
