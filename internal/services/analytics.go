package services

import (
	"math"

	"gorm.io/gorm"

	"github.com/editorialstats/backend/internal/models"
)

// KAnonymityThreshold is the minimum number of cases behind any publicly
// displayed figure. Groups below it are suppressed entirely.
const KAnonymityThreshold = 5

// ObservationThreshold is the minimum total before the raw observation
// count itself is revealed. Below it the platform reports the count as
// still collecting.
const ObservationThreshold = 400

type AnalyticsService struct {
	db       *gorm.DB
	settings *SettingsService
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{
		db:       db,
		settings: NewSettingsService(db),
	}
}

// caseCounts is one aggregation group: how many cases fell into each of
// the buckets the scores are computed from.
type caseCounts struct {
	GroupID         string `gorm:"column:group_id"`
	PublisherID     string `gorm:"column:publisher_id"`
	TotalCases      int64  `gorm:"column:total_cases"`
	DeskRejects     int64  `gorm:"column:desk_rejects"`
	NoReviewer      int64  `gorm:"column:no_reviewer"`
	OneReviewer     int64  `gorm:"column:one_reviewer"`
	GenericReviews  int64  `gorm:"column:generic_reviews"`
	EditorTechnical int64  `gorm:"column:editor_technical"`
	CoherentReviews int64  `gorm:"column:coherent_reviews"`
}

// scoreCard holds the derived 0-100 metrics for one entity.
type scoreCard struct {
	TransparencyScore    float64
	ReviewDepthScore     float64
	EditorialEffortScore float64
	ConsistencyScore     float64
	DeskRejectRate       float64
	NoPeerReviewRate     float64
}

// computeScores turns raw bucket counts into the four composite scores
// and two headline rates. Scores are penalty formulas over rates, clamped
// to [0, 100] and rounded to one decimal.
func computeScores(c caseCounts) scoreCard {
	total := float64(c.TotalCases)
	deskRejectRate := float64(c.DeskRejects) / total
	noReviewerRate := float64(c.NoReviewer) / total
	oneReviewerRate := float64(c.OneReviewer) / total
	genericRate := float64(c.GenericReviews) / total

	return scoreCard{
		TransparencyScore:    clamp100(round1(100 - noReviewerRate*50 - deskRejectRate*30)),
		ReviewDepthScore:     clamp100(round1(100 - oneReviewerRate*40 - genericRate*40)),
		EditorialEffortScore: clamp100(round1(float64(c.EditorTechnical) / total * 100)),
		ConsistencyScore:     clamp100(round1(float64(c.CoherentReviews) / total * 100)),
		DeskRejectRate:       round1(deskRejectRate * 100),
		NoPeerReviewRate:     round1(noReviewerRate * 100),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// caseCountSelect is the bucket aggregation shared by publisher and
// journal analytics. The generic review check matches the tag inside the
// serialized comment list.
const caseCountSelect = `COUNT(*) AS total_cases,
SUM(CASE WHEN decision_type = 'desk_reject' THEN 1 ELSE 0 END) AS desk_rejects,
SUM(CASE WHEN reviewer_count = '0' THEN 1 ELSE 0 END) AS no_reviewer,
SUM(CASE WHEN reviewer_count = '1' THEN 1 ELSE 0 END) AS one_reviewer,
SUM(CASE WHEN review_comments LIKE '%"generic_editorial"%' THEN 1 ELSE 0 END) AS generic_reviews,
SUM(CASE WHEN editor_comments = 'yes_technical' THEN 1 ELSE 0 END) AS editor_technical,
SUM(CASE WHEN perceived_coherence = 'yes' THEN 1 ELSE 0 END) AS coherent_reviews`

type PublisherAnalytics struct {
	PublisherID          string  `json:"publisher_id"`
	PublisherName        string  `json:"publisher_name"`
	TotalCases           int64   `json:"total_cases"`
	TransparencyScore    float64 `json:"transparency_score"`
	ReviewDepthScore     float64 `json:"review_depth_score"`
	EditorialEffortScore float64 `json:"editorial_effort_score"`
	ConsistencyScore     float64 `json:"consistency_score"`
	DeskRejectRate       float64 `json:"desk_reject_rate"`
	NoPeerReviewRate     float64 `json:"no_peer_review_rate"`
}

// Publishers returns per-publisher score cards for verified publishers
// with enough cases. An empty list is returned while public stats are off.
func (s *AnalyticsService) Publishers() ([]PublisherAnalytics, error) {
	settings, err := s.settings.Get()
	if err != nil {
		return nil, err
	}
	if settings.VisibilityMode == models.VisibilityUserOnly && !settings.PublicStatsEnabled {
		return []PublisherAnalytics{}, nil
	}

	verified := s.db.Model(&models.Publisher{}).
		Select("publisher_id").
		Where("is_verified = ?", true)

	var groups []caseCounts
	err = baseScope(s.db, settings).
		Select("publisher_id AS group_id, " + caseCountSelect).
		Where("publisher_id IN (?)", verified).
		Group("publisher_id").
		Having("COUNT(*) >= ?", KAnonymityThreshold).
		Scan(&groups).Error
	if err != nil {
		return nil, err
	}

	analytics := make([]PublisherAnalytics, 0, len(groups))
	for _, g := range groups {
		var publisher models.Publisher
		if err := s.db.Where("publisher_id = ?", g.GroupID).First(&publisher).Error; err != nil {
			continue
		}
		card := computeScores(g)
		analytics = append(analytics, PublisherAnalytics{
			PublisherID:          g.GroupID,
			PublisherName:        publisher.Name,
			TotalCases:           g.TotalCases,
			TransparencyScore:    card.TransparencyScore,
			ReviewDepthScore:     card.ReviewDepthScore,
			EditorialEffortScore: card.EditorialEffortScore,
			ConsistencyScore:     card.ConsistencyScore,
			DeskRejectRate:       card.DeskRejectRate,
			NoPeerReviewRate:     card.NoPeerReviewRate,
		})
	}
	return analytics, nil
}

type JournalAnalytics struct {
	JournalID            string  `json:"journal_id"`
	JournalName          string  `json:"journal_name"`
	PublisherID          string  `json:"publisher_id"`
	PublisherName        string  `json:"publisher_name"`
	TotalCases           int64   `json:"total_cases"`
	TransparencyScore    float64 `json:"transparency_score"`
	ReviewDepthScore     float64 `json:"review_depth_score"`
	EditorialEffortScore float64 `json:"editorial_effort_score"`
	ConsistencyScore     float64 `json:"consistency_score"`
	DeskRejectRate       float64 `json:"desk_reject_rate"`
	NoPeerReviewRate     float64 `json:"no_peer_review_rate"`
}

// Journals returns per-journal score cards for verified journals with
// enough cases, optionally limited to one publisher.
func (s *AnalyticsService) Journals(publisherID string) ([]JournalAnalytics, error) {
	settings, err := s.settings.Get()
	if err != nil {
		return nil, err
	}
	if settings.VisibilityMode == models.VisibilityUserOnly && !settings.PublicStatsEnabled {
		return []JournalAnalytics{}, nil
	}

	verified := s.db.Model(&models.Journal{}).
		Select("journal_id").
		Where("is_verified = ?", true)
	if publisherID != "" {
		verified = verified.Where("publisher_id = ?", publisherID)
	}

	scope := baseScope(s.db, settings).
		Select("journal_id AS group_id, MIN(publisher_id) AS publisher_id, " + caseCountSelect).
		Where("journal_id IN (?)", verified)
	if publisherID != "" {
		scope = scope.Where("publisher_id = ?", publisherID)
	}

	var groups []caseCounts
	err = scope.Group("journal_id").
		Having("COUNT(*) >= ?", KAnonymityThreshold).
		Scan(&groups).Error
	if err != nil {
		return nil, err
	}

	analytics := make([]JournalAnalytics, 0, len(groups))
	for _, g := range groups {
		var journal models.Journal
		var publisher models.Publisher
		if err := s.db.Where("journal_id = ?", g.GroupID).First(&journal).Error; err != nil {
			continue
		}
		if err := s.db.Where("publisher_id = ?", g.PublisherID).First(&publisher).Error; err != nil {
			continue
		}
		card := computeScores(g)
		analytics = append(analytics, JournalAnalytics{
			JournalID:            g.GroupID,
			JournalName:          journal.Name,
			PublisherID:          g.PublisherID,
			PublisherName:        publisher.Name,
			TotalCases:           g.TotalCases,
			TransparencyScore:    card.TransparencyScore,
			ReviewDepthScore:     card.ReviewDepthScore,
			EditorialEffortScore: card.EditorialEffortScore,
			ConsistencyScore:     card.ConsistencyScore,
			DeskRejectRate:       card.DeskRejectRate,
			NoPeerReviewRate:     card.NoPeerReviewRate,
		})
	}
	return analytics, nil
}

type AreaAnalytics struct {
	Area             string  `json:"area"`
	TotalCases       int64   `json:"total_cases"`
	DeskRejectRate   float64 `json:"desk_reject_rate"`
	NoPeerReviewRate float64 `json:"no_peer_review_rate"`
	FastDecisionRate float64 `json:"fast_decision_rate"`
	SlowDecisionRate float64 `json:"slow_decision_rate"`
}

// Areas returns decision pattern rates grouped by scientific area.
func (s *AnalyticsService) Areas() ([]AreaAnalytics, error) {
	settings, err := s.settings.Get()
	if err != nil {
		return nil, err
	}
	if settings.VisibilityMode == models.VisibilityUserOnly && !settings.PublicStatsEnabled {
		return []AreaAnalytics{}, nil
	}

	type areaCounts struct {
		GroupID       string `gorm:"column:group_id"`
		TotalCases    int64  `gorm:"column:total_cases"`
		DeskRejects   int64  `gorm:"column:desk_rejects"`
		NoReviewer    int64  `gorm:"column:no_reviewer"`
		FastDecisions int64  `gorm:"column:fast_decisions"`
		SlowDecisions int64  `gorm:"column:slow_decisions"`
	}

	var groups []areaCounts
	err = baseScope(s.db, settings).
		Select(`scientific_area AS group_id, COUNT(*) AS total_cases,
SUM(CASE WHEN decision_type = 'desk_reject' THEN 1 ELSE 0 END) AS desk_rejects,
SUM(CASE WHEN reviewer_count = '0' THEN 1 ELSE 0 END) AS no_reviewer,
SUM(CASE WHEN time_to_decision = '0-30' THEN 1 ELSE 0 END) AS fast_decisions,
SUM(CASE WHEN time_to_decision = '90+' THEN 1 ELSE 0 END) AS slow_decisions`).
		Group("scientific_area").
		Having("COUNT(*) >= ?", KAnonymityThreshold).
		Scan(&groups).Error
	if err != nil {
		return nil, err
	}

	analytics := make([]AreaAnalytics, 0, len(groups))
	for _, g := range groups {
		total := float64(g.TotalCases)
		analytics = append(analytics, AreaAnalytics{
			Area:             g.GroupID,
			TotalCases:       g.TotalCases,
			DeskRejectRate:   round1(float64(g.DeskRejects) / total * 100),
			NoPeerReviewRate: round1(float64(g.NoReviewer) / total * 100),
			FastDecisionRate: round1(float64(g.FastDecisions) / total * 100),
			SlowDecisionRate: round1(float64(g.SlowDecisions) / total * 100),
		})
	}
	return analytics, nil
}

// QualityIndex is one derived 0-100 indicator with its source
// distribution where one exists.
type QualityIndex struct {
	Value        float64          `json:"value"`
	Scale        string           `json:"scale"`
	Description  string           `json:"description"`
	Distribution map[string]int64 `json:"distribution,omitempty"`
}

type OverviewResponse struct {
	TotalSubmissions     *int64                  `json:"total_submissions"`
	SufficientData       bool                    `json:"sufficient_data"`
	VisibilityRestricted bool                    `json:"visibility_restricted"`
	Message              *string                 `json:"message,omitempty"`
	ObservationStatus    string                  `json:"observation_status"`
	DecisionDistribution map[string]int64        `json:"decision_distribution"`
	ReviewerDistribution map[string]int64        `json:"reviewer_distribution"`
	TimeDistribution     map[string]int64        `json:"time_distribution"`
	IndicesAvailable     bool                    `json:"indices_available"`
	QualityIndices       map[string]QualityIndex `json:"quality_indices"`
}

const insufficientDataMessage = "As estatísticas agregadas são exibidas automaticamente quando há volume mínimo de dados para garantir interpretação adequada."

// Overview returns the platform-wide statistics. The observation count is
// revealed only past the collection threshold, and every distribution
// bucket is suppressed below the anonymity minimum.
func (s *AnalyticsService) Overview() (*OverviewResponse, error) {
	settings, err := s.settings.Get()
	if err != nil {
		return nil, err
	}

	var total int64
	if err := baseScope(s.db, settings).Count(&total).Error; err != nil {
		return nil, err
	}

	// Distributions marshal as empty objects, not null, when suppressed.
	resp := &OverviewResponse{
		ObservationStatus:    "collecting",
		DecisionDistribution: map[string]int64{},
		ReviewerDistribution: map[string]int64{},
		TimeDistribution:     map[string]int64{},
		QualityIndices:       map[string]QualityIndex{},
	}
	if total >= ObservationThreshold {
		resp.ObservationStatus = "available"
		resp.TotalSubmissions = &total
	}

	if settings.VisibilityMode == models.VisibilityUserOnly && !settings.PublicStatsEnabled {
		resp.VisibilityRestricted = true
		resp.Message = VisibilityMessage(settings)
		return resp, nil
	}

	if total < KAnonymityThreshold {
		msg := insufficientDataMessage
		resp.Message = &msg
		return resp, nil
	}

	resp.SufficientData = true
	if resp.DecisionDistribution, err = s.distribution(settings, "decision_type"); err != nil {
		return nil, err
	}
	if resp.ReviewerDistribution, err = s.distribution(settings, "reviewer_count"); err != nil {
		return nil, err
	}
	if resp.TimeDistribution, err = s.distribution(settings, "time_to_decision"); err != nil {
		return nil, err
	}

	resp.IndicesAvailable, resp.QualityIndices, err = s.qualityIndices(settings)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// distribution counts cases per value of one categorical column,
// suppressing buckets under the anonymity threshold.
func (s *AnalyticsService) distribution(settings *models.PlatformSettings, column string) (map[string]int64, error) {
	type bucket struct {
		Value string `gorm:"column:value"`
		Count int64  `gorm:"column:count"`
	}
	var buckets []bucket
	err := baseScope(s.db, settings).
		Select(column + " AS value, COUNT(*) AS count").
		Group(column).
		Having("COUNT(*) >= ?", KAnonymityThreshold).
		Scan(&buckets).Error
	if err != nil {
		return nil, err
	}
	dist := make(map[string]int64, len(buckets))
	for _, b := range buckets {
		dist[b.Value] = b.Count
	}
	return dist, nil
}

// qualityIndices derives the assessment indices from the optional quality
// fields. Each index needs its own minimum of responses before it shows.
func (s *AnalyticsService) qualityIndices(settings *models.PlatformSettings) (bool, map[string]QualityIndex, error) {
	indices := map[string]QualityIndex{}
	available := false

	type qualityAvg struct {
		AvgQuality float64 `gorm:"column:avg_quality"`
		AvgClarity float64 `gorm:"column:avg_clarity"`
		Count      int64   `gorm:"column:count"`
	}
	var q qualityAvg
	err := baseScope(s.db, settings).
		Where("overall_review_quality IS NOT NULL").
		Select("COALESCE(AVG(overall_review_quality), 0) AS avg_quality, COALESCE(AVG(feedback_clarity), 0) AS avg_clarity, COUNT(*) AS count").
		Scan(&q).Error
	if err != nil {
		return false, nil, err
	}

	if q.Count >= KAnonymityThreshold {
		available = true
		if q.AvgQuality > 0 {
			indices["average_review_quality"] = QualityIndex{
				Value:       round1(q.AvgQuality / 5 * 100),
				Scale:       "0-100",
				Description: "Average quality of peer review feedback",
			}
		}
		if q.AvgClarity > 0 {
			indices["feedback_clarity_index"] = QualityIndex{
				Value:       round1(q.AvgClarity / 5 * 100),
				Scale:       "0-100",
				Description: "Average clarity and actionability of feedback",
			}
		}
	}

	fairness, err := s.optionalDistribution(settings, "decision_fairness")
	if err != nil {
		return false, nil, err
	}
	if total := sumCounts(fairness); total >= KAnonymityThreshold {
		available = true
		indices["decision_fairness_index"] = QualityIndex{
			Value:       round1(float64(fairness["agree"]) / float64(total) * 100),
			Scale:       "0-100",
			Description: "Percentage reporting decision aligned with feedback",
			Distribution: map[string]int64{
				"agree":    fairness["agree"],
				"neutral":  fairness["neutral"],
				"disagree": fairness["disagree"],
			},
		}
	}

	recommend, err := s.optionalDistribution(settings, "would_recommend")
	if err != nil {
		return false, nil, err
	}
	if total := sumCounts(recommend); total >= KAnonymityThreshold {
		available = true
		indices["recommendation_index"] = QualityIndex{
			Value:       round1(float64(recommend["yes"]) / float64(total) * 100),
			Scale:       "0-100",
			Description: "Percentage who would recommend based on editorial process",
			Distribution: map[string]int64{
				"yes":     recommend["yes"],
				"neutral": recommend["neutral"],
				"no":      recommend["no"],
			},
		}
	}

	return available, indices, nil
}

// optionalDistribution is like distribution but over a nullable column
// and without per-bucket suppression; the caller gates on the total.
func (s *AnalyticsService) optionalDistribution(settings *models.PlatformSettings, column string) (map[string]int64, error) {
	type bucket struct {
		Value string `gorm:"column:value"`
		Count int64  `gorm:"column:count"`
	}
	var buckets []bucket
	err := baseScope(s.db, settings).
		Where(column + " IS NOT NULL").
		Select(column + " AS value, COUNT(*) AS count").
		Group(column).
		Scan(&buckets).Error
	if err != nil {
		return nil, err
	}
	dist := make(map[string]int64, len(buckets))
	for _, b := range buckets {
		dist[b.Value] = b.Count
	}
	return dist, nil
}

func sumCounts(dist map[string]int64) int64 {
	var total int64
	for _, c := range dist {
		total += c
	}
	return total
}
