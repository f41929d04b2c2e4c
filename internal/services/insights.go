package services

import (
	"sort"

	"github.com/editorialstats/backend/internal/models"
)

type InsightsSummary struct {
	TotalSubmissions   int    `json:"total_submissions"`
	Validated          int    `json:"validated"`
	Pending            int    `json:"pending"`
	ContributionImpact string `json:"contribution_impact"`
}

type InsightsRates struct {
	NoPeerReviewRate   float64 `json:"no_peer_review_rate"`
	SingleReviewerRate float64 `json:"single_reviewer_rate"`
	DeskRejectRate     float64 `json:"desk_reject_rate"`
}

type InsightsTimeDistribution struct {
	Fast0to30Days    float64 `json:"fast_0_30_days"`
	Medium31to90Days float64 `json:"medium_31_90_days"`
	Slow90PlusDays   float64 `json:"slow_90_plus_days"`
}

type TopJournal struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type MyInsights struct {
	HasData           bool                      `json:"has_data"`
	Message           string                    `json:"message,omitempty"`
	Summary           *InsightsSummary          `json:"summary,omitempty"`
	Insights          *InsightsRates            `json:"insights,omitempty"`
	TimeDistribution  *InsightsTimeDistribution `json:"time_distribution,omitempty"`
	TopJournals       []TopJournal              `json:"top_journals,omitempty"`
	AreasDistribution map[string]int            `json:"areas_distribution,omitempty"`
}

// Insights aggregates the caller's own reports so contributors see value
// from the platform before public statistics open up. Sample data never
// counts here.
func (s *SubmissionService) Insights(user *models.User) (*MyInsights, error) {
	var subs []models.Submission
	err := s.db.Where("user_hashed_id = ? AND is_sample = ?", user.HashedID, false).
		Find(&subs).Error
	if err != nil {
		return nil, err
	}

	if len(subs) == 0 {
		return &MyInsights{
			HasData: false,
			Message: "Submit your first editorial decision to start seeing your personal insights.",
		}, nil
	}

	return buildInsights(subs, s.journalNames(subs)), nil
}

func (s *SubmissionService) journalNames(subs []models.Submission) map[string]string {
	names := map[string]string{}
	for _, sub := range subs {
		if _, ok := names[sub.JournalID]; ok {
			continue
		}
		var journal models.Journal
		if err := s.db.Where("journal_id = ?", sub.JournalID).First(&journal).Error; err == nil {
			names[sub.JournalID] = journal.Name
		}
	}
	return names
}

// buildInsights computes the personal metrics from a user's reports.
func buildInsights(subs []models.Submission, journalNames map[string]string) *MyInsights {
	total := len(subs)
	var validated, pending int
	var noReviewer, oneReviewer, deskRejects int
	var fast, medium, slow int
	byJournal := map[string]int{}
	byArea := map[string]int{}

	for _, sub := range subs {
		switch sub.Status {
		case models.StatusValidated:
			validated++
		case models.StatusPending:
			pending++
		}
		switch sub.ReviewerCount {
		case "0":
			noReviewer++
		case "1":
			oneReviewer++
		}
		if sub.DecisionType == "desk_reject" {
			deskRejects++
		}
		switch sub.TimeToDecision {
		case "0-30":
			fast++
		case "31-90":
			medium++
		case "90+":
			slow++
		}
		byJournal[sub.JournalID]++
		byArea[sub.ScientificArea]++
	}

	type journalCount struct {
		id    string
		count int
	}
	ranked := make([]journalCount, 0, len(byJournal))
	for id, count := range byJournal {
		ranked = append(ranked, journalCount{id, count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].id < ranked[j].id
	})

	topJournals := []TopJournal{}
	for _, jc := range ranked {
		if len(topJournals) == 5 {
			break
		}
		if name, ok := journalNames[jc.id]; ok {
			topJournals = append(topJournals, TopJournal{Name: name, Count: jc.count})
		}
	}

	pct := func(n int) float64 {
		return round1(float64(n) / float64(total) * 100)
	}

	return &MyInsights{
		HasData: true,
		Summary: &InsightsSummary{
			TotalSubmissions:   total,
			Validated:          validated,
			Pending:            pending,
			ContributionImpact: "Your submissions contribute to improving transparency in scholarly publishing.",
		},
		Insights: &InsightsRates{
			NoPeerReviewRate:   pct(noReviewer),
			SingleReviewerRate: pct(oneReviewer),
			DeskRejectRate:     pct(deskRejects),
		},
		TimeDistribution: &InsightsTimeDistribution{
			Fast0to30Days:    pct(fast),
			Medium31to90Days: pct(medium),
			Slow90PlusDays:   pct(slow),
		},
		TopJournals:       topJournals,
		AreasDistribution: byArea,
	}
}
