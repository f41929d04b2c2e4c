package services

import (
	"testing"

	"github.com/editorialstats/backend/internal/models"
	"github.com/editorialstats/backend/internal/utils"
)

func TestCheck_ThresholdCountsFromDatabase(t *testing.T) {
	db := openTestDB(t)
	svc := NewVisibilityService(db)

	settings := models.DefaultPlatformSettings()
	settings.VisibilityMode = models.VisibilityThresholdBased
	settings.PublicStatsEnabled = true

	for i, user := range []string{"hash_1", "hash_2", "hash_3"} {
		sub := validSubmission()
		sub.SubmissionID = utils.NewID("sub")
		sub.UserHashedID = user
		sub.JournalID = "journal_x"
		sub.PublisherID = "pub_x"
		sub.ValidForStats = true
		if err := db.Create(sub).Error; err != nil {
			t.Fatalf("seed submission %d: %v", i, err)
		}
	}

	decision := svc.Check(&settings, models.EntityJournal, "journal_x")
	if decision.Reason != ReasonThresholdCheck {
		t.Errorf("expected threshold_check, got %q", decision.Reason)
	}
	if decision.SubmissionCount != 3 || decision.UniqueUsers != 3 {
		t.Errorf("expected 3 submissions from 3 users, got %d/%d", decision.SubmissionCount, decision.UniqueUsers)
	}
	if !decision.ThresholdMet || !decision.Visible {
		t.Errorf("expected visible with thresholds met, got %+v", decision)
	}

	// One more report from a user already counted raises the submission
	// count but not the unique users.
	extra := validSubmission()
	extra.SubmissionID = utils.NewID("sub")
	extra.UserHashedID = "hash_1"
	extra.JournalID = "journal_y"
	extra.PublisherID = "pub_x"
	extra.ValidForStats = true
	if err := db.Create(extra).Error; err != nil {
		t.Fatalf("seed submission: %v", err)
	}

	other := svc.Check(&settings, models.EntityJournal, "journal_y")
	if other.ThresholdMet || other.Visible {
		t.Errorf("expected journal_y below thresholds, got %+v", other)
	}
	if other.SubmissionCount != 1 || other.UniqueUsers != 1 {
		t.Errorf("expected 1 submission from 1 user, got %d/%d", other.SubmissionCount, other.UniqueUsers)
	}
}
