package services

import (
	"strings"

	"gorm.io/gorm"

	"github.com/editorialstats/backend/internal/models"
	"github.com/editorialstats/backend/internal/utils"
	"github.com/editorialstats/backend/pkg/logger"
)

type SubmissionService struct {
	db        *gorm.DB
	validator *ValidatorService
}

func NewSubmissionService(db *gorm.DB) *SubmissionService {
	return &SubmissionService{db: db, validator: NewValidatorService(db)}
}

type CreateSubmissionRequest struct {
	ScientificArea        string  `json:"scientific_area"`
	ScientificAreaGrande  *string `json:"scientific_area_grande"`
	ScientificAreaArea    *string `json:"scientific_area_area"`
	ScientificAreaSubarea *string `json:"scientific_area_subarea"`
	ManuscriptType        string  `json:"manuscript_type"`

	PublisherID             string  `json:"publisher_id" binding:"required"`
	JournalID               string  `json:"journal_id" binding:"required"`
	CustomPublisherName     string  `json:"custom_publisher_name"`
	CustomJournalName       string  `json:"custom_journal_name"`
	CustomJournalOpenAccess *bool   `json:"custom_journal_open_access"`
	CustomJournalAPC        *string `json:"custom_journal_apc_required"`

	DecisionType       string   `json:"decision_type"`
	ReviewerCount      string   `json:"reviewer_count"`
	TimeToDecision     string   `json:"time_to_decision"`
	APCRange           string   `json:"apc_range"`
	ReviewComments     []string `json:"review_comments"`
	EditorComments     string   `json:"editor_comments"`
	PerceivedCoherence string   `json:"perceived_coherence"`

	OverallReviewQuality *int    `json:"overall_review_quality" binding:"omitempty,min=1,max=5"`
	FeedbackClarity      *int    `json:"feedback_clarity" binding:"omitempty,min=1,max=5"`
	DecisionFairness     *string `json:"decision_fairness" binding:"omitempty,oneof=agree neutral disagree"`
	WouldRecommend       *string `json:"would_recommend" binding:"omitempty,oneof=yes neutral no"`

	JournalIsOpenAccess   *bool `json:"journal_is_open_access"`
	EditorCommentsQuality *int  `json:"editor_comments_quality" binding:"omitempty,min=1,max=5"`
}

type CreateSubmissionResponse struct {
	SubmissionID  string `json:"submission_id"`
	Status        string `json:"status"`
	ValidForStats bool   `json:"valid_for_stats"`
}

// Create records a new editorial decision report. Reports failing the
// validity checks are stored anyway, just excluded from aggregation.
// "other" as publisher or journal id creates an unverified catalog entry
// from the custom name.
func (s *SubmissionService) Create(user *models.User, req *CreateSubmissionRequest) (*CreateSubmissionResponse, error) {
	publisherID := req.PublisherID
	journalID := req.JournalID

	if req.PublisherID == "other" && strings.TrimSpace(req.CustomPublisherName) != "" {
		publisher := models.Publisher{
			PublisherID:     utils.NewID("pub_user"),
			Name:            strings.TrimSpace(req.CustomPublisherName),
			IsUserAdded:     true,
			IsVerified:      false,
			AddedByHashedID: user.HashedID,
		}
		if err := s.db.Create(&publisher).Error; err != nil {
			return nil, err
		}
		publisherID = publisher.PublisherID
	}

	if req.JournalID == "other" && strings.TrimSpace(req.CustomJournalName) != "" {
		journal := models.Journal{
			JournalID:       utils.NewID("journal_user"),
			Name:            strings.TrimSpace(req.CustomJournalName),
			PublisherID:     publisherID,
			IsUserAdded:     true,
			IsVerified:      false,
			OpenAccess:      req.CustomJournalOpenAccess,
			APCRequired:     req.CustomJournalAPC,
			AddedByHashedID: user.HashedID,
		}
		if err := s.db.Create(&journal).Error; err != nil {
			return nil, err
		}
		journalID = journal.JournalID
	}

	sub := models.Submission{
		SubmissionID:          utils.NewID("sub"),
		UserHashedID:          user.HashedID,
		ScientificArea:        CollapseArea(req.ScientificArea, req.ScientificAreaGrande, req.ScientificAreaArea, req.ScientificAreaSubarea),
		ScientificAreaGrande:  req.ScientificAreaGrande,
		ScientificAreaArea:    req.ScientificAreaArea,
		ScientificAreaSubarea: req.ScientificAreaSubarea,
		ManuscriptType:        req.ManuscriptType,
		JournalID:             journalID,
		PublisherID:           publisherID,
		DecisionType:          req.DecisionType,
		ReviewerCount:         req.ReviewerCount,
		TimeToDecision:        req.TimeToDecision,
		APCRange:              req.APCRange,
		EditorComments:        req.EditorComments,
		PerceivedCoherence:    req.PerceivedCoherence,
		OverallReviewQuality:  req.OverallReviewQuality,
		FeedbackClarity:       req.FeedbackClarity,
		DecisionFairness:      req.DecisionFairness,
		WouldRecommend:        req.WouldRecommend,
		JournalIsOpenAccess:   req.JournalIsOpenAccess,
		EditorCommentsQuality: req.EditorCommentsQuality,
		Status:                models.StatusPending,
	}
	sub.SetCommentTags(req.ReviewComments)

	result, err := s.validator.Validate(&sub)
	if err != nil {
		return nil, err
	}
	sub.ValidForStats = result.Valid()
	sub.SetFlags(result)

	if err := s.db.Create(&sub).Error; err != nil {
		return nil, err
	}

	// Trust score only moves on moderation; contributions count right away.
	if err := s.db.Model(&models.User{}).
		Where("user_id = ?", user.UserID).
		UpdateColumn("contribution_count", gorm.Expr("contribution_count + 1")).Error; err != nil {
		return nil, err
	}

	logger.Info().
		Str("submission_id", sub.SubmissionID).
		Bool("valid_for_stats", sub.ValidForStats).
		Int("issues", len(result.Issues)).
		Msg("submission created")

	return &CreateSubmissionResponse{
		SubmissionID:  sub.SubmissionID,
		Status:        sub.Status,
		ValidForStats: sub.ValidForStats,
	}, nil
}

// CollapseArea picks the most specific area code the user selected. The
// flat field is kept for clients that never adopted the hierarchy.
func CollapseArea(flat string, grande, area, subarea *string) string {
	code := flat
	if grande != nil && *grande != "" {
		code = *grande
		if area != nil && *area != "" {
			code = *area
		}
		if subarea != nil && *subarea != "" {
			code = *subarea
		}
	}
	return code
}

// MySubmission is one of the caller's own reports with catalog names
// attached.
type MySubmission struct {
	models.Submission
	JournalName   string `json:"journal_name"`
	PublisherName string `json:"publisher_name"`
}

// ListMine returns the caller's submissions, newest first.
func (s *SubmissionService) ListMine(user *models.User) ([]MySubmission, error) {
	var subs []models.Submission
	err := s.db.Where("user_hashed_id = ?", user.HashedID).
		Order("created_at DESC").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}

	out := make([]MySubmission, 0, len(subs))
	for _, sub := range subs {
		item := MySubmission{Submission: sub, JournalName: "Unknown", PublisherName: "Unknown"}
		var journal models.Journal
		if err := s.db.Where("journal_id = ?", sub.JournalID).First(&journal).Error; err == nil {
			item.JournalName = journal.Name
		}
		var publisher models.Publisher
		if err := s.db.Where("publisher_id = ?", sub.PublisherID).First(&publisher).Error; err == nil {
			item.PublisherName = publisher.Name
		}
		out = append(out, item)
	}
	return out, nil
}
