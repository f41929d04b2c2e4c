package services

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/editorialstats/backend/internal/models"
)

// duplicateWindow is how long one user's reports about the same journal
// count as duplicates of each other.
const duplicateWindow = 30 * 24 * time.Hour

// detailedTags are review comment tags that imply an actual peer review
// took place. Their presence contradicts a reviewer count of zero.
var detailedTags = []string{"methodology", "statistics", "conceptual"}

// requiredFields maps the submission fields every report must carry to
// the issue code recorded when one is blank.
var requiredFields = []struct {
	value func(*models.Submission) string
	issue string
}{
	{func(s *models.Submission) string { return s.ManuscriptType }, "missing_manuscript_type"},
	{func(s *models.Submission) string { return s.DecisionType }, "missing_decision_type"},
	{func(s *models.Submission) string { return s.ReviewerCount }, "missing_reviewer_count"},
	{func(s *models.Submission) string { return s.TimeToDecision }, "missing_time_to_decision"},
	{func(s *models.Submission) string { return s.EditorComments }, "missing_editor_comments"},
	{func(s *models.Submission) string { return s.PerceivedCoherence }, "missing_perceived_coherence"},
}

type ValidatorService struct {
	db *gorm.DB
}

func NewValidatorService(db *gorm.DB) *ValidatorService {
	return &ValidatorService{db: db}
}

// Validate runs the full validity assessment for a new submission:
// content checks plus the duplicate lookup against stored reports.
// A failing result never blocks the write; it only excludes the report
// from aggregated statistics.
func (s *ValidatorService) Validate(sub *models.Submission) (models.ValidationResult, error) {
	res := InspectSubmission(sub)

	var count int64
	since := time.Now().UTC().Add(-duplicateWindow)
	err := s.db.Model(&models.Submission{}).
		Where("user_hashed_id = ? AND journal_id = ? AND created_at >= ?",
			sub.UserHashedID, sub.JournalID, since).
		Count(&count).Error
	if err != nil {
		return res, err
	}
	if count > 0 {
		res.IsUnique = false
		res.Issues = append(res.Issues, "duplicate_within_30_days")
	}

	return res, nil
}

// InspectSubmission performs the content checks: completeness of required
// fields, logical consistency between answers, and conditional fields that
// only make sense in certain contexts. Some issues are warnings and do not
// affect validity; they are recorded for moderators but leave the
// consistency flag untouched.
func InspectSubmission(sub *models.Submission) models.ValidationResult {
	res := models.ValidationResult{
		IsComplete:   true,
		IsConsistent: true,
		IsUnique:     true,
		Issues:       []string{},
	}

	// The legacy flat area field or the hierarchical grande area both
	// satisfy the scientific area requirement.
	hasArea := sub.ScientificArea != "" ||
		(sub.ScientificAreaGrande != nil && *sub.ScientificAreaGrande != "")
	if !hasArea {
		res.IsComplete = false
		res.Issues = append(res.Issues, "missing_scientific_area")
	}

	for _, f := range requiredFields {
		if strings.TrimSpace(f.value(sub)) == "" {
			res.IsComplete = false
			res.Issues = append(res.Issues, f.issue)
		}
	}

	// Desk rejects legitimately carry no review comments.
	tags := sub.CommentTags()
	if sub.DecisionType != "desk_reject" && len(tags) == 0 {
		res.IsComplete = false
		res.Issues = append(res.Issues, "missing_review_comments")
	}

	// Detailed review comments with zero reviewers cannot both be true.
	if sub.ReviewerCount == "0" && containsAny(tags, detailedTags) {
		res.IsConsistent = false
		res.Issues = append(res.Issues, "inconsistent_reviewers_comments")
	}

	// A desk reject that somehow involved multiple reviewers is unusual
	// but not impossible. Warning only.
	if sub.DecisionType == "desk_reject" && sub.ReviewerCount == "2+" {
		res.Issues = append(res.Issues, "unusual_desk_reject_reviewers")
	}

	// APC only applies to open access journals.
	if sub.JournalIsOpenAccess != nil && !*sub.JournalIsOpenAccess &&
		sub.APCRange != "" && sub.APCRange != "no_apc" {
		res.IsConsistent = false
		res.Issues = append(res.Issues, "apc_provided_for_non_open_access")
	}

	// Rating editor comment quality requires the editor to have commented.
	if sub.EditorComments == "no" && sub.EditorCommentsQuality != nil {
		res.IsConsistent = false
		res.Issues = append(res.Issues, "editor_quality_without_comments")
	}

	// Feedback clarity with no reviewers and no editor comments rates
	// feedback that never existed. Warning only.
	if sub.ReviewerCount == "0" && sub.EditorComments == "no" && sub.FeedbackClarity != nil {
		res.Issues = append(res.Issues, "feedback_clarity_without_feedback")
	}

	return res
}

func containsAny(haystack, needles []string) bool {
	for _, h := range haystack {
		for _, n := range needles {
			if h == n {
				return true
			}
		}
	}
	return false
}
