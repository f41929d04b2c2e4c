package services

import (
	"testing"
)

func TestComputeScores_AllClean(t *testing.T) {
	card := computeScores(caseCounts{
		TotalCases:      10,
		EditorTechnical: 10,
		CoherentReviews: 10,
	})

	if card.TransparencyScore != 100 {
		t.Errorf("transparency = %v, expected 100", card.TransparencyScore)
	}
	if card.ReviewDepthScore != 100 {
		t.Errorf("review depth = %v, expected 100", card.ReviewDepthScore)
	}
	if card.EditorialEffortScore != 100 {
		t.Errorf("editorial effort = %v, expected 100", card.EditorialEffortScore)
	}
	if card.ConsistencyScore != 100 {
		t.Errorf("consistency = %v, expected 100", card.ConsistencyScore)
	}
	if card.DeskRejectRate != 0 || card.NoPeerReviewRate != 0 {
		t.Errorf("rates = %v / %v, expected 0 / 0", card.DeskRejectRate, card.NoPeerReviewRate)
	}
}

func TestComputeScores_PenaltyFormulas(t *testing.T) {
	// Half the cases had no reviewer, a quarter were desk rejects.
	card := computeScores(caseCounts{
		TotalCases:  20,
		NoReviewer:  10,
		DeskRejects: 5,
	})

	// 100 - 0.5*50 - 0.25*30 = 67.5
	if card.TransparencyScore != 67.5 {
		t.Errorf("transparency = %v, expected 67.5", card.TransparencyScore)
	}
	if card.DeskRejectRate != 25 {
		t.Errorf("desk reject rate = %v, expected 25", card.DeskRejectRate)
	}
	if card.NoPeerReviewRate != 50 {
		t.Errorf("no peer review rate = %v, expected 50", card.NoPeerReviewRate)
	}
}

func TestComputeScores_ReviewDepth(t *testing.T) {
	// 10 single-reviewer cases and 5 generic reviews out of 20.
	card := computeScores(caseCounts{
		TotalCases:     20,
		OneReviewer:    10,
		GenericReviews: 5,
	})

	// 100 - 0.5*40 - 0.25*40 = 70
	if card.ReviewDepthScore != 70 {
		t.Errorf("review depth = %v, expected 70", card.ReviewDepthScore)
	}
}

func TestComputeScores_ClampedAtZero(t *testing.T) {
	// Worst case on every axis drives the raw formula below zero.
	card := computeScores(caseCounts{
		TotalCases:     10,
		OneReviewer:    10,
		GenericReviews: 10,
	})

	if card.ReviewDepthScore != 0 {
		t.Errorf("review depth = %v, expected clamp to 0", card.ReviewDepthScore)
	}
}

func TestComputeScores_Rounding(t *testing.T) {
	// 1/3 coherent = 33.333... which must round to one decimal.
	card := computeScores(caseCounts{
		TotalCases:      3,
		CoherentReviews: 1,
	})

	if card.ConsistencyScore != 33.3 {
		t.Errorf("consistency = %v, expected 33.3", card.ConsistencyScore)
	}
}

func TestRound1(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{0, 0},
		{33.333333, 33.3},
		{66.666666, 66.7},
		{99.95, 100},
		{12.34, 12.3},
	}
	for _, tt := range tests {
		if got := round1(tt.input); got != tt.expected {
			t.Errorf("round1(%v) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestClamp100(t *testing.T) {
	if got := clamp100(-4.5); got != 0 {
		t.Errorf("clamp100(-4.5) = %v, expected 0", got)
	}
	if got := clamp100(104.5); got != 100 {
		t.Errorf("clamp100(104.5) = %v, expected 100", got)
	}
	if got := clamp100(55.5); got != 55.5 {
		t.Errorf("clamp100(55.5) = %v, expected 55.5", got)
	}
}

func TestSumCounts(t *testing.T) {
	total := sumCounts(map[string]int64{"agree": 10, "neutral": 3, "disagree": 2})
	if total != 15 {
		t.Errorf("total = %d, expected 15", total)
	}
	if sumCounts(nil) != 0 {
		t.Error("expected 0 for nil map")
	}
}
