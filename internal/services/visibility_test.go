package services

import (
	"testing"

	"github.com/editorialstats/backend/internal/models"
)

func settingsWithMode(mode string, publicEnabled bool) *models.PlatformSettings {
	settings := models.DefaultPlatformSettings()
	settings.VisibilityMode = mode
	settings.PublicStatsEnabled = publicEnabled
	return &settings
}

func TestVisibility_AdminOverrideWins(t *testing.T) {
	settings := settingsWithMode(models.VisibilityUserOnly, false)
	overrides := settings.Overrides()
	overrides.Journals["jrn_abc"] = true
	settings.SetOverrides(overrides)

	svc := NewVisibilityService(nil)
	decision := svc.Check(settings, models.EntityJournal, "jrn_abc")

	if !decision.Visible {
		t.Error("override should force visibility even in user_only mode")
	}
	if decision.Reason != ReasonAdminOverride {
		t.Errorf("reason = %q, expected %q", decision.Reason, ReasonAdminOverride)
	}
}

func TestVisibility_AdminOverrideCanHide(t *testing.T) {
	settings := settingsWithMode(models.VisibilityAdminForced, true)
	overrides := settings.Overrides()
	overrides.Publishers["pub_xyz"] = false
	settings.SetOverrides(overrides)

	svc := NewVisibilityService(nil)
	decision := svc.Check(settings, models.EntityPublisher, "pub_xyz")

	if decision.Visible {
		t.Error("override should hide the publisher despite forced mode")
	}
	if decision.Reason != ReasonAdminOverride {
		t.Errorf("reason = %q, expected %q", decision.Reason, ReasonAdminOverride)
	}
}

func TestVisibility_UserOnlyHidesEverything(t *testing.T) {
	settings := settingsWithMode(models.VisibilityUserOnly, true)

	svc := NewVisibilityService(nil)
	decision := svc.Check(settings, models.EntityJournal, "jrn_abc")

	if decision.Visible {
		t.Error("user_only mode must hide all entities")
	}
	if decision.Reason != ReasonUserOnlyMode {
		t.Errorf("reason = %q, expected %q", decision.Reason, ReasonUserOnlyMode)
	}
}

func TestVisibility_AdminForcedFollowsPublicFlag(t *testing.T) {
	svc := NewVisibilityService(nil)

	on := svc.Check(settingsWithMode(models.VisibilityAdminForced, true), models.EntityArea, "1.01")
	if !on.Visible || on.Reason != ReasonAdminForced {
		t.Errorf("expected visible admin_forced decision, got %+v", on)
	}
	if !on.ThresholdMet {
		t.Error("forced mode reports thresholds as met")
	}

	off := svc.Check(settingsWithMode(models.VisibilityAdminForced, false), models.EntityArea, "1.01")
	if off.Visible {
		t.Error("forced mode with public stats off must hide")
	}
}

func TestVisibilityMessage(t *testing.T) {
	userOnly := VisibilityMessage(settingsWithMode(models.VisibilityUserOnly, false))
	if userOnly == nil || *userOnly == "" {
		t.Error("expected a banner message in user_only mode")
	}

	collecting := VisibilityMessage(settingsWithMode(models.VisibilityThresholdBased, false))
	if collecting == nil || *collecting == "" {
		t.Error("expected a banner message while thresholds gate public stats")
	}

	review := VisibilityMessage(settingsWithMode(models.VisibilityAdminForced, false))
	if review == nil || *review == "" {
		t.Error("expected a banner message while forced stats are disabled")
	}

	open := VisibilityMessage(settingsWithMode(models.VisibilityThresholdBased, true))
	if open != nil {
		t.Errorf("expected no banner once stats are public, got %q", *open)
	}
}
