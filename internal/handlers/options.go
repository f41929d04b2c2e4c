package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/editorialstats/backend/internal/taxonomy"
	"github.com/editorialstats/backend/pkg/response"
)

// OptionsHandler serves the static form vocabularies and the CNPq area
// taxonomy. Everything here is public and unauthenticated.
type OptionsHandler struct{}

func NewOptionsHandler() *OptionsHandler {
	return &OptionsHandler{}
}

type option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type scaleOption struct {
	ID          int    `json:"id"`
	Value       int    `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

type choiceOption struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// ScientificAreas returns the top-level areas in the legacy flat format
// GET /api/options/scientific-areas
func (h *OptionsHandler) ScientificAreas(c *gin.Context) {
	type legacyArea struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		NameEN string `json:"name_en"`
	}
	areas := taxonomy.GrandeAreas()
	out := make([]legacyArea, 0, len(areas))
	for _, ga := range areas {
		out = append(out, legacyArea{ID: ga.Code, Name: ga.Name, NameEN: ga.NameEN})
	}
	response.Success(c, out)
}

// GrandeAreas returns the top taxonomy level
// GET /api/options/cnpq/grande-areas
func (h *OptionsHandler) GrandeAreas(c *gin.Context) {
	response.Success(c, taxonomy.GrandeAreas())
}

// Areas returns the mid-level areas under one grande área
// GET /api/options/cnpq/areas/:code
func (h *OptionsHandler) Areas(c *gin.Context) {
	areas := taxonomy.Areas(c.Param("code"))
	if areas == nil {
		response.NotFound(c, "grande área not found")
		return
	}
	response.Success(c, areas)
}

// Subareas returns the leaf subareas under one área. An empty list is a
// valid answer; some áreas have no subáreas.
// GET /api/options/cnpq/subareas/:code
func (h *OptionsHandler) Subareas(c *gin.Context) {
	subareas := taxonomy.Subareas(c.Param("code"))
	if subareas == nil {
		response.NotFound(c, "área not found")
		return
	}
	response.Success(c, subareas)
}

// LookupArea resolves a full area code at any level
// GET /api/options/cnpq/lookup/:code
func (h *OptionsHandler) LookupArea(c *gin.Context) {
	info := taxonomy.Lookup(c.Param("code"))
	if info == nil {
		response.NotFound(c, "area code not found")
		return
	}
	response.Success(c, info)
}

// ManuscriptTypes GET /api/options/manuscript-types
func (h *OptionsHandler) ManuscriptTypes(c *gin.Context) {
	response.Success(c, []option{
		{ID: "experimental", Name: "Experimental"},
		{ID: "methodological", Name: "Methodological"},
		{ID: "review", Name: "Review"},
		{ID: "short_communication", Name: "Short Communication"},
	})
}

// DecisionTypes GET /api/options/decision-types
func (h *OptionsHandler) DecisionTypes(c *gin.Context) {
	response.Success(c, []option{
		{ID: "desk_reject", Name: "Desk Reject"},
		{ID: "reject_after_review", Name: "Reject After Review"},
		{ID: "major_revision", Name: "Major Revision"},
		{ID: "minor_revision", Name: "Minor Revision"},
	})
}

// ReviewerCounts GET /api/options/reviewer-counts
func (h *OptionsHandler) ReviewerCounts(c *gin.Context) {
	response.Success(c, []option{
		{ID: "0", Name: "0 (No reviewers)"},
		{ID: "1", Name: "1 reviewer"},
		{ID: "2+", Name: "2 or more reviewers"},
	})
}

// TimeRanges GET /api/options/time-ranges
func (h *OptionsHandler) TimeRanges(c *gin.Context) {
	response.Success(c, []option{
		{ID: "0-30", Name: "0–30 days"},
		{ID: "31-90", Name: "31–90 days"},
		{ID: "90+", Name: "90+ days"},
	})
}

// APCRanges GET /api/options/apc-ranges
func (h *OptionsHandler) APCRanges(c *gin.Context) {
	response.Success(c, []option{
		{ID: "no_apc", Name: "No APC"},
		{ID: "under_1000", Name: "< $1,000"},
		{ID: "1000_3000", Name: "$1,000–$3,000"},
		{ID: "over_3000", Name: "> $3,000"},
	})
}

// ReviewCommentTypes GET /api/options/review-comment-types
func (h *OptionsHandler) ReviewCommentTypes(c *gin.Context) {
	response.Success(c, []option{
		{ID: "methodology", Name: "Methodology"},
		{ID: "statistics", Name: "Statistics"},
		{ID: "conceptual", Name: "Conceptual Discussion"},
		{ID: "formatting_language", Name: "Formatting/Language Only"},
		{ID: "generic_editorial", Name: "Generic/Editorial Only"},
	})
}

// EditorCommentTypes GET /api/options/editor-comment-types
func (h *OptionsHandler) EditorCommentTypes(c *gin.Context) {
	response.Success(c, []option{
		{ID: "yes_technical", Name: "Yes – Technical"},
		{ID: "yes_generic", Name: "Yes – Generic"},
		{ID: "no", Name: "No"},
	})
}

// CoherenceOptions GET /api/options/coherence-options
func (h *OptionsHandler) CoherenceOptions(c *gin.Context) {
	response.Success(c, []option{
		{ID: "yes", Name: "Yes"},
		{ID: "partially", Name: "Partially"},
		{ID: "no", Name: "No"},
	})
}

// ReviewQualityScale GET /api/options/review-quality-scale
func (h *OptionsHandler) ReviewQualityScale(c *gin.Context) {
	response.Success(c, []scaleOption{
		{ID: 1, Value: 1, Label: "Very Low", Description: "Review provided minimal useful feedback"},
		{ID: 2, Value: 2, Label: "Low", Description: "Review had significant gaps"},
		{ID: 3, Value: 3, Label: "Average", Description: "Review met basic expectations"},
		{ID: 4, Value: 4, Label: "High", Description: "Review was thorough and helpful"},
		{ID: 5, Value: 5, Label: "Very High", Description: "Review was exceptional in quality"},
	})
}

// FeedbackClarityScale GET /api/options/feedback-clarity-scale
func (h *OptionsHandler) FeedbackClarityScale(c *gin.Context) {
	response.Success(c, []scaleOption{
		{ID: 1, Value: 1, Label: "Very Unclear", Description: "Feedback was difficult to understand or act upon"},
		{ID: 2, Value: 2, Label: "Unclear", Description: "Feedback lacked clarity in several areas"},
		{ID: 3, Value: 3, Label: "Neutral", Description: "Feedback was understandable but not detailed"},
		{ID: 4, Value: 4, Label: "Clear", Description: "Feedback was mostly clear and actionable"},
		{ID: 5, Value: 5, Label: "Very Clear", Description: "Feedback was highly clear and actionable"},
	})
}

// DecisionFairness GET /api/options/decision-fairness
func (h *OptionsHandler) DecisionFairness(c *gin.Context) {
	response.Success(c, []choiceOption{
		{ID: "agree", Label: "Agree", Description: "The decision aligned with the review feedback"},
		{ID: "neutral", Label: "Neutral", Description: "No strong opinion on the alignment"},
		{ID: "disagree", Label: "Disagree", Description: "The decision did not align with the review feedback"},
	})
}

// WouldRecommend GET /api/options/would-recommend
func (h *OptionsHandler) WouldRecommend(c *gin.Context) {
	response.Success(c, []choiceOption{
		{ID: "yes", Label: "Yes", Description: "Would recommend based on the editorial process"},
		{ID: "neutral", Label: "Neutral", Description: "No strong recommendation either way"},
		{ID: "no", Label: "No", Description: "Would not recommend based on the editorial process"},
	})
}
