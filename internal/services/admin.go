package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/editorialstats/backend/internal/models"
	"github.com/editorialstats/backend/pkg/logger"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrSelfAdminToggle = errors.New("cannot modify your own admin status")
)

type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

type AdminStats struct {
	TotalUsers           int64 `json:"total_users"`
	TotalSubmissions     int64 `json:"total_submissions"`
	PendingSubmissions   int64 `json:"pending_submissions"`
	ValidatedSubmissions int64 `json:"validated_submissions"`
	FlaggedSubmissions   int64 `json:"flagged_submissions"`
	SampleSubmissions    int64 `json:"sample_submissions"`
	RealSubmissions      int64 `json:"real_submissions"`
}

// Stats returns the moderation dashboard counters.
func (s *AdminService) Stats() (*AdminStats, error) {
	var stats AdminStats
	if err := s.db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	subs := func() *gorm.DB { return s.db.Model(&models.Submission{}) }
	subs().Count(&stats.TotalSubmissions)
	subs().Where("status = ?", models.StatusPending).Count(&stats.PendingSubmissions)
	subs().Where("status = ?", models.StatusValidated).Count(&stats.ValidatedSubmissions)
	subs().Where("status = ?", models.StatusFlagged).Count(&stats.FlaggedSubmissions)
	subs().Where("is_sample = ?", true).Count(&stats.SampleSubmissions)
	subs().Where("is_sample = ?", false).Count(&stats.RealSubmissions)
	return &stats, nil
}

type DataSplit struct {
	Total  int64 `json:"total"`
	Sample int64 `json:"sample"`
	Real   int64 `json:"real"`
}

type DataStats struct {
	Submissions DataSplit `json:"submissions"`
	Users       DataSplit `json:"users"`
}

// DataStats breaks submissions and users down into sample and real rows,
// informing the decision to leave demo mode.
func (s *AdminService) DataStats() (*DataStats, error) {
	var stats DataStats
	subs := s.db.Model(&models.Submission{})
	if err := subs.Count(&stats.Submissions.Total).Error; err != nil {
		return nil, err
	}
	s.db.Model(&models.Submission{}).Where("is_sample = ?", true).Count(&stats.Submissions.Sample)
	s.db.Model(&models.Submission{}).Where("is_sample = ?", false).Count(&stats.Submissions.Real)

	s.db.Model(&models.User{}).Count(&stats.Users.Total)
	s.db.Model(&models.User{}).Where("is_sample = ?", true).Count(&stats.Users.Sample)
	s.db.Model(&models.User{}).Where("is_sample = ?", false).Count(&stats.Users.Real)
	return &stats, nil
}

type PurgeResult struct {
	Submissions int64 `json:"submissions"`
	Users       int64 `json:"users"`
}

// PurgeSample deletes every sample submission and sample user, usually
// right before turning demo mode off for launch.
func (s *AdminService) PurgeSample() (*PurgeResult, error) {
	var result PurgeResult

	res := s.db.Where("is_sample = ?", true).Delete(&models.Submission{})
	if res.Error != nil {
		return nil, res.Error
	}
	result.Submissions = res.RowsAffected

	res = s.db.Where("is_sample = ?", true).Delete(&models.User{})
	if res.Error != nil {
		return nil, res.Error
	}
	result.Users = res.RowsAffected

	logger.Info().
		Int64("submissions", result.Submissions).
		Int64("users", result.Users).
		Msg("sample data purged")
	return &result, nil
}

type SubmissionListItem struct {
	models.Submission
	JournalName   string                  `json:"journal_name"`
	PublisherName string                  `json:"publisher_name"`
	HasEvidence   bool                    `json:"has_evidence"`
	Flags         models.ValidationResult `json:"validation_flags"`
}

type SubmissionList struct {
	Submissions []SubmissionListItem `json:"submissions"`
	Total       int64                `json:"total"`
	Skip        int                  `json:"skip"`
	Limit       int                  `json:"limit"`
}

// ListSubmissions pages through all submissions for review, optionally
// filtered by status.
func (s *AdminService) ListSubmissions(status string, skip, limit int) (*SubmissionList, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if skip < 0 {
		skip = 0
	}

	scope := s.db.Model(&models.Submission{})
	if status != "" {
		scope = scope.Where("status = ?", status)
	}

	var total int64
	if err := scope.Count(&total).Error; err != nil {
		return nil, err
	}

	var subs []models.Submission
	err := scope.Order("created_at DESC").Offset(skip).Limit(limit).Find(&subs).Error
	if err != nil {
		return nil, err
	}

	items := make([]SubmissionListItem, 0, len(subs))
	for _, sub := range subs {
		item := SubmissionListItem{
			Submission:    sub,
			JournalName:   "Unknown",
			PublisherName: "Unknown",
			HasEvidence:   sub.EvidenceFileID != nil,
			Flags:         sub.Flags(),
		}
		var journal models.Journal
		if err := s.db.Where("journal_id = ?", sub.JournalID).First(&journal).Error; err == nil {
			item.JournalName = journal.Name
		}
		var publisher models.Publisher
		if err := s.db.Where("publisher_id = ?", sub.PublisherID).First(&publisher).Error; err == nil {
			item.PublisherName = publisher.Name
		}
		items = append(items, item)
	}

	return &SubmissionList{Submissions: items, Total: total, Skip: skip, Limit: limit}, nil
}

type SubmissionDetail struct {
	models.Submission
	Journal           *models.Journal         `json:"journal"`
	Publisher         *models.Publisher       `json:"publisher"`
	Evidence          *models.EvidenceFile    `json:"evidence,omitempty"`
	Flags             models.ValidationResult `json:"validation_flags"`
	ReviewCommentTags []string                `json:"review_comments"`
	ModerationHistory []models.ModerationLog  `json:"moderation_history"`
}

// GetSubmission returns one submission with its catalog entries, evidence
// metadata and moderation history.
func (s *AdminService) GetSubmission(submissionID string) (*SubmissionDetail, error) {
	var sub models.Submission
	if err := s.db.Where("submission_id = ?", submissionID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}

	detail := SubmissionDetail{
		Submission:        sub,
		Flags:             sub.Flags(),
		ReviewCommentTags: sub.CommentTags(),
	}

	var journal models.Journal
	if err := s.db.Where("journal_id = ?", sub.JournalID).First(&journal).Error; err == nil {
		detail.Journal = &journal
	}
	var publisher models.Publisher
	if err := s.db.Where("publisher_id = ?", sub.PublisherID).First(&publisher).Error; err == nil {
		detail.Publisher = &publisher
	}
	if sub.EvidenceFileID != nil {
		var evidence models.EvidenceFile
		if err := s.db.Where("file_id = ?", *sub.EvidenceFileID).First(&evidence).Error; err == nil {
			detail.Evidence = &evidence
		}
	}

	var history []models.ModerationLog
	s.db.Where("submission_id = ?", submissionID).
		Order("created_at DESC").
		Find(&history)
	detail.ModerationHistory = history

	return &detail, nil
}

type UserList struct {
	Users []models.User `json:"users"`
	Total int64         `json:"total"`
	Skip  int           `json:"skip"`
	Limit int           `json:"limit"`
}

// ListUsers pages through all users, newest first.
func (s *AdminService) ListUsers(skip, limit int) (*UserList, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if skip < 0 {
		skip = 0
	}

	var total int64
	if err := s.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var users []models.User
	err := s.db.Order("created_at DESC").Offset(skip).Limit(limit).Find(&users).Error
	if err != nil {
		return nil, err
	}

	return &UserList{Users: users, Total: total, Skip: skip, Limit: limit}, nil
}

type ToggleAdminResult struct {
	UserID  string `json:"user_id"`
	IsAdmin bool   `json:"is_admin"`
}

// ToggleAdmin flips another user's admin role. Self-modification is
// rejected so an admin can never lock themselves out by accident.
func (s *AdminService) ToggleAdmin(actor *models.User, userID string) (*ToggleAdminResult, error) {
	if actor.UserID == userID {
		return nil, ErrSelfAdminToggle
	}

	var user models.User
	if err := s.db.Where("user_id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	newStatus := !user.IsAdmin
	err := s.db.Model(&models.User{}).
		Where("user_id = ?", userID).
		UpdateColumn("is_admin", newStatus).Error
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("user_id", userID).
		Bool("is_admin", newStatus).
		Str("actor", actor.UserID).
		Msg("admin role toggled")
	return &ToggleAdminResult{UserID: userID, IsAdmin: newStatus}, nil
}
