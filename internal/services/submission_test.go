package services

import (
	"testing"

	"github.com/editorialstats/backend/internal/models"
)

func strPtr(s string) *string { return &s }

func TestCollapseArea(t *testing.T) {
	tests := []struct {
		name     string
		flat     string
		grande   *string
		area     *string
		subarea  *string
		expected string
	}{
		{name: "flat only", flat: "1.01", expected: "1.01"},
		{name: "grande only", grande: strPtr("1"), expected: "1"},
		{name: "grande and area", grande: strPtr("1"), area: strPtr("1.01"), expected: "1.01"},
		{name: "full hierarchy", grande: strPtr("1"), area: strPtr("1.01"), subarea: strPtr("1.01.01"), expected: "1.01.01"},
		{name: "hierarchy wins over flat", flat: "9", grande: strPtr("1"), area: strPtr("1.03"), expected: "1.03"},
		{name: "empty grande falls back to flat", flat: "2.05", grande: strPtr(""), expected: "2.05"},
		{name: "nothing", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CollapseArea(tt.flat, tt.grande, tt.area, tt.subarea); got != tt.expected {
				t.Errorf("CollapseArea = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestBuildInsights_Rates(t *testing.T) {
	subs := []models.Submission{
		{JournalID: "j1", ScientificArea: "1.01", Status: models.StatusValidated, ReviewerCount: "0", DecisionType: "desk_reject", TimeToDecision: "0-30"},
		{JournalID: "j1", ScientificArea: "1.01", Status: models.StatusPending, ReviewerCount: "1", DecisionType: "reject_after_review", TimeToDecision: "31-90"},
		{JournalID: "j2", ScientificArea: "2.03", Status: models.StatusPending, ReviewerCount: "2+", DecisionType: "accept", TimeToDecision: "90+"},
		{JournalID: "j2", ScientificArea: "2.03", Status: models.StatusFlagged, ReviewerCount: "2+", DecisionType: "accept", TimeToDecision: "90+"},
	}
	names := map[string]string{"j1": "Journal One", "j2": "Journal Two"}

	insights := buildInsights(subs, names)

	if !insights.HasData {
		t.Fatal("expected has_data")
	}
	if insights.Summary.TotalSubmissions != 4 {
		t.Errorf("total = %d, expected 4", insights.Summary.TotalSubmissions)
	}
	if insights.Summary.Validated != 1 || insights.Summary.Pending != 2 {
		t.Errorf("validated/pending = %d/%d, expected 1/2", insights.Summary.Validated, insights.Summary.Pending)
	}
	if insights.Insights.NoPeerReviewRate != 25 {
		t.Errorf("no peer review rate = %v, expected 25", insights.Insights.NoPeerReviewRate)
	}
	if insights.Insights.DeskRejectRate != 25 {
		t.Errorf("desk reject rate = %v, expected 25", insights.Insights.DeskRejectRate)
	}
	if insights.TimeDistribution.Slow90PlusDays != 50 {
		t.Errorf("slow rate = %v, expected 50", insights.TimeDistribution.Slow90PlusDays)
	}
	if insights.AreasDistribution["1.01"] != 2 || insights.AreasDistribution["2.03"] != 2 {
		t.Errorf("areas = %v", insights.AreasDistribution)
	}
}

func TestBuildInsights_TopJournalsRanked(t *testing.T) {
	subs := []models.Submission{
		{JournalID: "j1", TimeToDecision: "0-30"},
		{JournalID: "j2", TimeToDecision: "0-30"},
		{JournalID: "j2", TimeToDecision: "0-30"},
		{JournalID: "j3", TimeToDecision: "0-30"},
		{JournalID: "j2", TimeToDecision: "0-30"},
		{JournalID: "j3", TimeToDecision: "0-30"},
	}
	names := map[string]string{"j1": "One", "j2": "Two", "j3": "Three"}

	insights := buildInsights(subs, names)

	if len(insights.TopJournals) != 3 {
		t.Fatalf("expected 3 journals, got %d", len(insights.TopJournals))
	}
	if insights.TopJournals[0].Name != "Two" || insights.TopJournals[0].Count != 3 {
		t.Errorf("top journal = %+v, expected Two with 3", insights.TopJournals[0])
	}
	if insights.TopJournals[1].Name != "Three" {
		t.Errorf("second journal = %+v, expected Three", insights.TopJournals[1])
	}
}
