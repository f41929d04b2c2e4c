package models

import (
	"encoding/json"
	"time"
)

// Visibility modes.
const (
	VisibilityUserOnly       = "user_only"
	VisibilityThresholdBased = "threshold_based"
	VisibilityAdminForced    = "admin_forced"
)

// Visibility override entity types.
const (
	EntityJournal   = "journal"
	EntityPublisher = "publisher"
	EntityArea      = "area"
)

// GlobalSettingsID identifies the single settings row.
const GlobalSettingsID = "global"

// PlatformSettings is the global settings singleton. Exactly one row exists
// (settings_id = "global"); it is created lazily with defaults on first read.
type PlatformSettings struct {
	ID                       uint      `gorm:"primaryKey" json:"-"`
	SettingsID               string    `gorm:"uniqueIndex;size:20;not null" json:"settings_id"`
	VisibilityMode           string    `gorm:"size:20;default:user_only" json:"visibility_mode"`
	DemoModeEnabled          bool      `gorm:"default:true" json:"demo_mode_enabled"`
	PublicStatsEnabled       bool      `gorm:"default:false" json:"public_stats_enabled"`
	MinSubmissionsPerJournal int       `gorm:"default:3" json:"min_submissions_per_journal"`
	MinUniqueUsersPerJournal int       `gorm:"default:3" json:"min_unique_users_per_journal"`
	VisibilityOverrides      string    `gorm:"type:text" json:"-"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
}

func (PlatformSettings) TableName() string { return "platform_settings" }

// OverrideMap holds manual visibility decisions keyed by entity id, one map
// per entity type. A present key always wins over mode evaluation.
type OverrideMap struct {
	Journals   map[string]bool `json:"journals"`
	Publishers map[string]bool `json:"publishers"`
	Areas      map[string]bool `json:"areas"`
}

// ForType returns the map for an entity type, or nil for an unknown type.
func (m OverrideMap) ForType(entityType string) map[string]bool {
	switch entityType {
	case EntityJournal:
		return m.Journals
	case EntityPublisher:
		return m.Publishers
	case EntityArea:
		return m.Areas
	}
	return nil
}

// Overrides decodes the stored override map, always returning non-nil maps.
func (s *PlatformSettings) Overrides() OverrideMap {
	m := OverrideMap{}
	if s.VisibilityOverrides != "" {
		_ = json.Unmarshal([]byte(s.VisibilityOverrides), &m)
	}
	if m.Journals == nil {
		m.Journals = map[string]bool{}
	}
	if m.Publishers == nil {
		m.Publishers = map[string]bool{}
	}
	if m.Areas == nil {
		m.Areas = map[string]bool{}
	}
	return m
}

// SetOverrides stores the override map.
func (s *PlatformSettings) SetOverrides(m OverrideMap) {
	data, _ := json.Marshal(m)
	s.VisibilityOverrides = string(data)
}

// DefaultPlatformSettings returns the launch configuration: everything
// private, thresholds at three, demo data shown.
func DefaultPlatformSettings() PlatformSettings {
	return PlatformSettings{
		SettingsID:               GlobalSettingsID,
		VisibilityMode:           VisibilityUserOnly,
		DemoModeEnabled:          true,
		PublicStatsEnabled:       false,
		MinSubmissionsPerJournal: 3,
		MinUniqueUsersPerJournal: 3,
	}
}

// ValidVisibilityMode reports whether mode is one of the three modes.
func ValidVisibilityMode(mode string) bool {
	switch mode {
	case VisibilityUserOnly, VisibilityThresholdBased, VisibilityAdminForced:
		return true
	}
	return false
}

// ValidEntityType reports whether entityType names an overridable entity.
func ValidEntityType(entityType string) bool {
	switch entityType {
	case EntityJournal, EntityPublisher, EntityArea:
		return true
	}
	return false
}
