package services

import (
	"testing"
	"time"

	"github.com/editorialstats/backend/internal/utils"
)

func TestValidate_DuplicateWithinWindow(t *testing.T) {
	db := openTestDB(t)
	svc := NewValidatorService(db)

	first := validSubmission()
	first.SubmissionID = utils.NewID("sub")
	first.UserHashedID = "hash_a"
	first.JournalID = "journal_x"
	first.PublisherID = "pub_x"
	if err := db.Create(first).Error; err != nil {
		t.Fatalf("seed submission: %v", err)
	}

	second := validSubmission()
	second.UserHashedID = "hash_a"
	second.JournalID = "journal_x"

	res, err := svc.Validate(second)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if res.IsUnique {
		t.Error("second report on the same journal within 30 days should not be unique")
	}
	if !hasIssue(res, "duplicate_within_30_days") {
		t.Errorf("expected duplicate_within_30_days, got %v", res.Issues)
	}
	if res.Valid() {
		t.Error("duplicate report should not be valid for stats")
	}
}

func TestValidate_OldReportDoesNotBlock(t *testing.T) {
	db := openTestDB(t)
	svc := NewValidatorService(db)

	old := validSubmission()
	old.SubmissionID = utils.NewID("sub")
	old.UserHashedID = "hash_a"
	old.JournalID = "journal_x"
	old.PublisherID = "pub_x"
	old.CreatedAt = time.Now().UTC().Add(-31 * 24 * time.Hour)
	if err := db.Create(old).Error; err != nil {
		t.Fatalf("seed submission: %v", err)
	}

	second := validSubmission()
	second.UserHashedID = "hash_a"
	second.JournalID = "journal_x"

	res, err := svc.Validate(second)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !res.IsUnique {
		t.Errorf("a 31 day old report should not count as a duplicate: %v", res.Issues)
	}
	if !res.Valid() {
		t.Errorf("expected valid result, got %+v", res)
	}
}

func TestValidate_QueryFailureSurfaces(t *testing.T) {
	db := openTestDB(t)
	svc := NewValidatorService(db)

	if err := db.Migrator().DropTable("submissions"); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	if _, err := svc.Validate(validSubmission()); err == nil {
		t.Error("expected the duplicate lookup failure to be returned, not swallowed")
	}
}

func TestValidate_OtherUserOrJournalIsUnique(t *testing.T) {
	db := openTestDB(t)
	svc := NewValidatorService(db)

	first := validSubmission()
	first.SubmissionID = utils.NewID("sub")
	first.UserHashedID = "hash_a"
	first.JournalID = "journal_x"
	first.PublisherID = "pub_x"
	if err := db.Create(first).Error; err != nil {
		t.Fatalf("seed submission: %v", err)
	}

	otherUser := validSubmission()
	otherUser.UserHashedID = "hash_b"
	otherUser.JournalID = "journal_x"
	if res, err := svc.Validate(otherUser); err != nil || !res.IsUnique {
		t.Errorf("another user's report should be unique: res=%+v err=%v", res, err)
	}

	otherJournal := validSubmission()
	otherJournal.UserHashedID = "hash_a"
	otherJournal.JournalID = "journal_y"
	if res, err := svc.Validate(otherJournal); err != nil || !res.IsUnique {
		t.Errorf("a report on another journal should be unique: res=%+v err=%v", res, err)
	}
}
