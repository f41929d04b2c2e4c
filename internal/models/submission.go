package models

import (
	"encoding/json"
	"time"
)

// Submission status values.
const (
	StatusPending   = "pending"
	StatusValidated = "validated"
	StatusFlagged   = "flagged"
)

// Submission is one user's report about one editorial decision at one
// journal. It is created by the user, mutated only by admin moderation or
// evidence attachment, and never deleted except through sample-data purge.
type Submission struct {
	ID           uint   `gorm:"primaryKey" json:"-"`
	SubmissionID string `gorm:"uniqueIndex;size:64;not null" json:"submission_id"`
	UserHashedID string `gorm:"index;size:64;not null" json:"user_hashed_id"`

	// Manuscript context. ScientificArea holds the most specific CNPq code
	// selected; the three hierarchical fields keep the full selection.
	ScientificArea        string  `gorm:"size:20" json:"scientific_area"`
	ScientificAreaGrande  *string `gorm:"size:20" json:"scientific_area_grande"`
	ScientificAreaArea    *string `gorm:"size:20" json:"scientific_area_area"`
	ScientificAreaSubarea *string `gorm:"size:20" json:"scientific_area_subarea"`
	ManuscriptType        string  `gorm:"size:50" json:"manuscript_type"`

	JournalID   string `gorm:"index;size:64;not null" json:"journal_id"`
	PublisherID string `gorm:"index;size:64;not null" json:"publisher_id"`

	// Decision process, all bucketed categorical values.
	DecisionType   string `gorm:"size:50" json:"decision_type"`
	ReviewerCount  string `gorm:"size:10" json:"reviewer_count"`   // "0", "1", "2+"
	TimeToDecision string `gorm:"size:10" json:"time_to_decision"` // "0-30", "31-90", "90+"
	APCRange       string `gorm:"size:20" json:"apc_range"`

	// Review characteristics. ReviewComments is a JSON array of tags.
	ReviewComments     string `gorm:"type:text" json:"-"`
	EditorComments     string `gorm:"size:20" json:"editor_comments"` // yes_technical, yes_generic, no
	PerceivedCoherence string `gorm:"size:20" json:"perceived_coherence"`

	// Optional quality assessment.
	OverallReviewQuality *int    `json:"overall_review_quality"` // 1-5
	FeedbackClarity      *int    `json:"feedback_clarity"`       // 1-5
	DecisionFairness     *string `gorm:"size:20" json:"decision_fairness"` // agree, neutral, disagree
	WouldRecommend       *string `gorm:"size:20" json:"would_recommend"`   // yes, neutral, no

	// Conditional fields.
	JournalIsOpenAccess   *bool `json:"journal_is_open_access"`
	EditorCommentsQuality *int  `json:"editor_comments_quality"` // only when editor commented

	EvidenceFileID *string `gorm:"size:64" json:"evidence_file_id"`

	Status          string     `gorm:"size:20;default:pending;index" json:"status"`
	IsSample        bool       `gorm:"default:false;index" json:"is_sample"`
	ValidForStats   bool       `json:"valid_for_stats"`
	ValidationFlags string     `gorm:"type:text" json:"-"`
	ModeratedAt     *time.Time `json:"moderated_at"`
	ModeratedBy     string     `gorm:"size:64" json:"moderated_by"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (Submission) TableName() string { return "submissions" }

// ValidationResult is the structured outcome of the validity assessment,
// persisted alongside the submission and returned to admins.
type ValidationResult struct {
	IsComplete   bool     `json:"is_complete"`
	IsConsistent bool     `json:"is_consistent"`
	IsUnique     bool     `json:"is_unique"`
	Issues       []string `json:"issues"`
}

// Valid reports overall validity-for-stats.
func (v *ValidationResult) Valid() bool {
	return v.IsComplete && v.IsConsistent && v.IsUnique
}

// CommentTags decodes the stored review comment tag list.
func (s *Submission) CommentTags() []string {
	if s.ReviewComments == "" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(s.ReviewComments), &tags); err != nil {
		return nil
	}
	return tags
}

// SetCommentTags stores the review comment tag list.
func (s *Submission) SetCommentTags(tags []string) {
	if tags == nil {
		tags = []string{}
	}
	data, _ := json.Marshal(tags)
	s.ReviewComments = string(data)
}

// Flags decodes the stored validation result. A missing record yields an
// all-true result so legacy rows stay countable.
func (s *Submission) Flags() ValidationResult {
	res := ValidationResult{IsComplete: true, IsConsistent: true, IsUnique: true}
	if s.ValidationFlags != "" {
		_ = json.Unmarshal([]byte(s.ValidationFlags), &res)
	}
	return res
}

// SetFlags stores the validation result.
func (s *Submission) SetFlags(res ValidationResult) {
	if res.Issues == nil {
		res.Issues = []string{}
	}
	data, _ := json.Marshal(res)
	s.ValidationFlags = string(data)
}
