package services

import (
	"testing"

	"github.com/editorialstats/backend/internal/models"
)

func TestSettingsGet_CreatesSingletonOnce(t *testing.T) {
	db := openTestDB(t)
	svc := NewSettingsService(db)

	first, err := svc.Get()
	if err != nil {
		t.Fatalf("first get: %v", err)
	}
	if first.SettingsID != models.GlobalSettingsID {
		t.Errorf("expected settings id %q, got %q", models.GlobalSettingsID, first.SettingsID)
	}
	if first.VisibilityMode != models.VisibilityUserOnly {
		t.Errorf("expected default mode user_only, got %q", first.VisibilityMode)
	}
	if !first.DemoModeEnabled || first.PublicStatsEnabled {
		t.Errorf("unexpected default flags: demo=%v public=%v", first.DemoModeEnabled, first.PublicStatsEnabled)
	}

	second, err := svc.Get()
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if second.SettingsID != first.SettingsID {
		t.Errorf("second get returned a different row: %q", second.SettingsID)
	}

	var count int64
	db.Model(&models.PlatformSettings{}).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly one settings row, got %d", count)
	}
}

func TestSettingsUpdate_PersistsAcrossReads(t *testing.T) {
	db := openTestDB(t)
	svc := NewSettingsService(db)

	mode := models.VisibilityThresholdBased
	public := true
	if _, err := svc.Update(&SettingsUpdateRequest{VisibilityMode: &mode, PublicStatsEnabled: &public}); err != nil {
		t.Fatalf("update: %v", err)
	}

	settings, err := svc.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if settings.VisibilityMode != models.VisibilityThresholdBased {
		t.Errorf("expected threshold_based, got %q", settings.VisibilityMode)
	}
	if !settings.PublicStatsEnabled {
		t.Error("expected public stats enabled")
	}

	var count int64
	db.Model(&models.PlatformSettings{}).Count(&count)
	if count != 1 {
		t.Errorf("update must not create a second row, got %d", count)
	}
}
