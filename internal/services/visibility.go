package services

import (
	"gorm.io/gorm"

	"github.com/editorialstats/backend/internal/models"
)

// Visibility decision reasons, in evaluation order.
const (
	ReasonAdminOverride  = "admin_override"
	ReasonUserOnlyMode   = "user_only_mode"
	ReasonAdminForced    = "admin_forced"
	ReasonThresholdCheck = "threshold_check"
)

// VisibilityDecision explains whether one entity's aggregated stats may be
// shown publicly and why.
type VisibilityDecision struct {
	Visible         bool   `json:"visible"`
	Reason          string `json:"reason"`
	SubmissionCount int64  `json:"submission_count"`
	UniqueUsers     int64  `json:"unique_users"`
	ThresholdMet    bool   `json:"threshold_met"`
}

type VisibilityService struct {
	db *gorm.DB
}

func NewVisibilityService(db *gorm.DB) *VisibilityService {
	return &VisibilityService{db: db}
}

// Check evaluates the visibility of one journal, publisher or scientific
// area. Precedence: per-entity admin override, then user_only mode (always
// hidden), then admin_forced mode (the public flag decides), then the
// threshold check against real counts.
func (s *VisibilityService) Check(settings *models.PlatformSettings, entityType, entityID string) VisibilityDecision {
	if overrides := settings.Overrides().ForType(entityType); overrides != nil {
		if visible, ok := overrides[entityID]; ok {
			return VisibilityDecision{Visible: visible, Reason: ReasonAdminOverride}
		}
	}

	switch settings.VisibilityMode {
	case models.VisibilityUserOnly:
		return VisibilityDecision{Visible: false, Reason: ReasonUserOnlyMode}
	case models.VisibilityAdminForced:
		return VisibilityDecision{
			Visible:      settings.PublicStatsEnabled,
			Reason:       ReasonAdminForced,
			ThresholdMet: true,
		}
	}

	scope := baseScope(s.db, settings)
	switch entityType {
	case models.EntityJournal:
		scope = scope.Where("journal_id = ?", entityID)
	case models.EntityPublisher:
		scope = scope.Where("publisher_id = ?", entityID)
	case models.EntityArea:
		scope = scope.Where("scientific_area = ?", entityID)
	}

	var submissionCount, uniqueUsers int64
	scope.Session(&gorm.Session{}).Count(&submissionCount)
	scope.Session(&gorm.Session{}).Distinct("user_hashed_id").Count(&uniqueUsers)

	thresholdMet := submissionCount >= int64(settings.MinSubmissionsPerJournal) &&
		uniqueUsers >= int64(settings.MinUniqueUsersPerJournal)

	return VisibilityDecision{
		Visible:         thresholdMet && settings.PublicStatsEnabled,
		Reason:          ReasonThresholdCheck,
		SubmissionCount: submissionCount,
		UniqueUsers:     uniqueUsers,
		ThresholdMet:    thresholdMet,
	}
}

// baseScope is the query every aggregation starts from: flagged reports
// and reports that failed validation are out, and sample data is only in
// while demo mode is on.
func baseScope(db *gorm.DB, settings *models.PlatformSettings) *gorm.DB {
	scope := db.Model(&models.Submission{}).
		Where("status <> ?", models.StatusFlagged).
		Where("valid_for_stats = ?", true)
	if !settings.DemoModeEnabled {
		scope = scope.Where("is_sample = ?", false)
	}
	return scope
}
