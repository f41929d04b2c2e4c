package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/editorialstats/backend/internal/models"
	"github.com/editorialstats/backend/internal/utils"
)

func seedPublicSettings(t *testing.T, db *gorm.DB) {
	t.Helper()
	settings := models.DefaultPlatformSettings()
	settings.VisibilityMode = models.VisibilityThresholdBased
	settings.PublicStatsEnabled = true
	if err := db.Create(&settings).Error; err != nil {
		t.Fatalf("seed settings: %v", err)
	}
}

func seedCatalogEntry(t *testing.T, db *gorm.DB, publisherID, journalID string) {
	t.Helper()
	publisher := models.Publisher{PublisherID: publisherID, Name: publisherID, IsVerified: true}
	if err := db.Create(&publisher).Error; err != nil {
		t.Fatalf("seed publisher: %v", err)
	}
	journal := models.Journal{JournalID: journalID, Name: journalID, PublisherID: publisherID, IsVerified: true}
	if err := db.Create(&journal).Error; err != nil {
		t.Fatalf("seed journal: %v", err)
	}
}

func seedStatSubmissions(t *testing.T, db *gorm.DB, journalID, publisherID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		sub := validSubmission()
		sub.SubmissionID = utils.NewID("sub")
		sub.UserHashedID = fmt.Sprintf("hash_%s_%d", journalID, i)
		sub.JournalID = journalID
		sub.PublisherID = publisherID
		sub.Status = models.StatusPending
		sub.ValidForStats = true
		if err := db.Create(sub).Error; err != nil {
			t.Fatalf("seed submission: %v", err)
		}
	}
}

func TestJournals_SuppressGroupsBelowAnonymityMinimum(t *testing.T) {
	db := openTestDB(t)
	seedPublicSettings(t, db)
	seedCatalogEntry(t, db, "pub_a", "journal_a")
	seedCatalogEntry(t, db, "pub_b", "journal_b")
	seedStatSubmissions(t, db, "journal_a", "pub_a", 4)
	seedStatSubmissions(t, db, "journal_b", "pub_b", 5)

	svc := NewAnalyticsService(db)
	journals, err := svc.Journals("")
	if err != nil {
		t.Fatalf("journals: %v", err)
	}
	if len(journals) != 1 {
		t.Fatalf("expected only the 5 case journal, got %d entries", len(journals))
	}
	if journals[0].JournalID != "journal_b" {
		t.Errorf("expected journal_b, got %s", journals[0].JournalID)
	}
	if journals[0].TotalCases != 5 {
		t.Errorf("expected 5 cases, got %d", journals[0].TotalCases)
	}
}

func TestPublishers_SuppressGroupsBelowAnonymityMinimum(t *testing.T) {
	db := openTestDB(t)
	seedPublicSettings(t, db)
	seedCatalogEntry(t, db, "pub_a", "journal_a")
	seedCatalogEntry(t, db, "pub_b", "journal_b")
	seedStatSubmissions(t, db, "journal_a", "pub_a", 4)
	seedStatSubmissions(t, db, "journal_b", "pub_b", 5)

	svc := NewAnalyticsService(db)
	publishers, err := svc.Publishers()
	if err != nil {
		t.Fatalf("publishers: %v", err)
	}
	if len(publishers) != 1 {
		t.Fatalf("expected only the 5 case publisher, got %d entries", len(publishers))
	}
	if publishers[0].PublisherID != "pub_b" {
		t.Errorf("expected pub_b, got %s", publishers[0].PublisherID)
	}
}

func TestJournals_FlaggedAndInvalidRowsExcluded(t *testing.T) {
	db := openTestDB(t)
	seedPublicSettings(t, db)
	seedCatalogEntry(t, db, "pub_a", "journal_a")
	seedStatSubmissions(t, db, "journal_a", "pub_a", 4)

	// A flagged report and an invalid one must not push the group over
	// the minimum.
	flagged := validSubmission()
	flagged.SubmissionID = utils.NewID("sub")
	flagged.UserHashedID = "hash_flagged"
	flagged.JournalID = "journal_a"
	flagged.PublisherID = "pub_a"
	flagged.Status = models.StatusFlagged
	flagged.ValidForStats = true
	if err := db.Create(flagged).Error; err != nil {
		t.Fatalf("seed flagged: %v", err)
	}
	invalid := validSubmission()
	invalid.SubmissionID = utils.NewID("sub")
	invalid.UserHashedID = "hash_invalid"
	invalid.JournalID = "journal_a"
	invalid.PublisherID = "pub_a"
	invalid.Status = models.StatusPending
	invalid.ValidForStats = false
	if err := db.Create(invalid).Error; err != nil {
		t.Fatalf("seed invalid: %v", err)
	}

	svc := NewAnalyticsService(db)
	journals, err := svc.Journals("")
	if err != nil {
		t.Fatalf("journals: %v", err)
	}
	if len(journals) != 0 {
		t.Errorf("expected no entries with only 4 countable cases, got %d", len(journals))
	}
}

func TestOverview_EmptyDistributionsMarshalAsObjects(t *testing.T) {
	db := openTestDB(t)
	seedPublicSettings(t, db)

	svc := NewAnalyticsService(db)
	overview, err := svc.Overview()
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if overview.SufficientData {
		t.Error("expected insufficient data on an empty platform")
	}
	if overview.Message == nil {
		t.Error("expected the insufficient data message")
	}

	payload, err := json.Marshal(overview)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, field := range []string{"decision_distribution", "reviewer_distribution", "time_distribution", "quality_indices"} {
		want := fmt.Sprintf("%q:{}", field)
		if !strings.Contains(string(payload), want) {
			t.Errorf("expected %s to marshal as an empty object, got %s", field, payload)
		}
	}
}
