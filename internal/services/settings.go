package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/editorialstats/backend/internal/models"
	"github.com/editorialstats/backend/pkg/logger"
)

var (
	ErrInvalidVisibilityMode = errors.New("invalid visibility mode")
	ErrInvalidEntityType     = errors.New("invalid entity type")
)

type SettingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

type SettingsUpdateRequest struct {
	VisibilityMode           *string `json:"visibility_mode"`
	DemoModeEnabled          *bool   `json:"demo_mode_enabled"`
	PublicStatsEnabled       *bool   `json:"public_stats_enabled"`
	MinSubmissionsPerJournal *int    `json:"min_submissions_per_journal" binding:"omitempty,min=1"`
	MinUniqueUsersPerJournal *int    `json:"min_unique_users_per_journal" binding:"omitempty,min=1"`
}

type OverrideRequest struct {
	EntityType string `json:"entity_type" binding:"required"`
	EntityID   string `json:"entity_id" binding:"required"`
	Visible    bool   `json:"visible"`
}

// Get returns the global settings row, creating it with defaults on
// first access.
func (s *SettingsService) Get() (*models.PlatformSettings, error) {
	var settings models.PlatformSettings
	err := s.db.Where("settings_id = ?", models.GlobalSettingsID).First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	settings = models.DefaultPlatformSettings()
	if err := s.db.Create(&settings).Error; err != nil {
		// Lost a race with a concurrent first access. Re-read.
		if readErr := s.db.Where("settings_id = ?", models.GlobalSettingsID).First(&settings).Error; readErr != nil {
			return nil, err
		}
	}
	return &settings, nil
}

// Update applies a partial settings change. Unknown visibility modes are
// rejected before anything is written.
func (s *SettingsService) Update(req *SettingsUpdateRequest) (*models.PlatformSettings, error) {
	if req.VisibilityMode != nil && !models.ValidVisibilityMode(*req.VisibilityMode) {
		return nil, ErrInvalidVisibilityMode
	}

	settings, err := s.Get()
	if err != nil {
		return nil, err
	}

	if req.VisibilityMode != nil {
		settings.VisibilityMode = *req.VisibilityMode
	}
	if req.DemoModeEnabled != nil {
		settings.DemoModeEnabled = *req.DemoModeEnabled
	}
	if req.PublicStatsEnabled != nil {
		settings.PublicStatsEnabled = *req.PublicStatsEnabled
	}
	if req.MinSubmissionsPerJournal != nil {
		settings.MinSubmissionsPerJournal = *req.MinSubmissionsPerJournal
	}
	if req.MinUniqueUsersPerJournal != nil {
		settings.MinUniqueUsersPerJournal = *req.MinUniqueUsersPerJournal
	}

	if err := s.db.Save(settings).Error; err != nil {
		return nil, err
	}

	logger.Info().
		Str("visibility_mode", settings.VisibilityMode).
		Bool("demo_mode_enabled", settings.DemoModeEnabled).
		Bool("public_stats_enabled", settings.PublicStatsEnabled).
		Msg("platform settings updated")
	return settings, nil
}

// SetOverride pins the public visibility of one journal, publisher or
// scientific area regardless of mode and thresholds.
func (s *SettingsService) SetOverride(req *OverrideRequest) (*models.PlatformSettings, error) {
	if !models.ValidEntityType(req.EntityType) {
		return nil, ErrInvalidEntityType
	}

	settings, err := s.Get()
	if err != nil {
		return nil, err
	}

	overrides := settings.Overrides()
	overrides.ForType(req.EntityType)[req.EntityID] = req.Visible
	settings.SetOverrides(overrides)

	if err := s.db.Save(settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

// RemoveOverride drops a pinned visibility, returning the entity to the
// normal decision flow. Removing a missing override is not an error.
func (s *SettingsService) RemoveOverride(entityType, entityID string) (*models.PlatformSettings, error) {
	if !models.ValidEntityType(entityType) {
		return nil, ErrInvalidEntityType
	}

	settings, err := s.Get()
	if err != nil {
		return nil, err
	}

	overrides := settings.Overrides()
	delete(overrides.ForType(entityType), entityID)
	settings.SetOverrides(overrides)

	if err := s.db.Save(settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

type VisibilityStatus struct {
	VisibilityMode     string  `json:"visibility_mode"`
	PublicStatsEnabled bool    `json:"public_stats_enabled"`
	DemoModeEnabled    bool    `json:"demo_mode_enabled"`
	Message            *string `json:"message"`
}

// Status reports the platform visibility state the frontend uses for its
// banner logic.
func (s *SettingsService) Status() (*VisibilityStatus, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}
	return &VisibilityStatus{
		VisibilityMode:     settings.VisibilityMode,
		PublicStatsEnabled: settings.PublicStatsEnabled,
		DemoModeEnabled:    settings.DemoModeEnabled,
		Message:            VisibilityMessage(settings),
	}, nil
}

// VisibilityMessage picks the banner text for the current visibility
// state. The tone is institutional and neutral on purpose; nothing may
// suggest the platform is empty or in testing.
func VisibilityMessage(settings *models.PlatformSettings) *string {
	var msg string
	switch {
	case settings.VisibilityMode == models.VisibilityUserOnly:
		msg = "As estatísticas agregadas são exibidas automaticamente quando há volume mínimo de dados para garantir interpretação adequada."
	case settings.VisibilityMode == models.VisibilityThresholdBased && !settings.PublicStatsEnabled:
		msg = "Sua contribuição ajuda a construir uma infraestrutura de dados para análise do processo editorial científico."
	case settings.VisibilityMode == models.VisibilityAdminForced && !settings.PublicStatsEnabled:
		msg = "As estatísticas públicas estão em revisão metodológica."
	default:
		return nil
	}
	return &msg
}
