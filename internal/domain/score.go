package domain

import (
	"fmt"
	"strings"
)

// Mode is a named scoring profile selected by the user's goal.
type Mode string

const (
	ModeProfileBuilding Mode = "profile-building"
	ModeLearning        Mode = "learning"
	ModeQuickWins       Mode = "quick-wins"
)

// ParseMode accepts the canonical names case-insensitively. An empty string selects profile-building.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeProfileBuilding:
		return ModeProfileBuilding, nil
	case ModeLearning:
		return ModeLearning, nil
	case ModeQuickWins:
		return ModeQuickWins, nil
	default:
		return "", fmt.Errorf("unknown mode %q", s)
	}
}

// ScoringWeights combines the three dimension scores into the final score.
type ScoringWeights struct {
	Relevance   float64 `json:"relevance"`
	Quality     float64 `json:"quality"`
	Opportunity float64 `json:"opportunity"`
}

// WeightOverrides replaces individual mode weights; nil fields keep the mode default.
type WeightOverrides struct {
	Relevance   *float64 `json:"relevance,omitempty" validate:"omitempty,gte=0,lte=1"`
	Quality     *float64 `json:"quality,omitempty" validate:"omitempty,gte=0,lte=1"`
	Opportunity *float64 `json:"opportunity,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// Apply returns w with every non-nil override substituted.
func (o *WeightOverrides) Apply(w ScoringWeights) ScoringWeights {
	if o == nil {
		return w
	}
	if o.Relevance != nil {
		w.Relevance = *o.Relevance
	}
	if o.Quality != nil {
		w.Quality = *o.Quality
	}
	if o.Opportunity != nil {
		w.Opportunity = *o.Opportunity
	}
	return w
}

// ScoreOptions selects the mode and optional weight overrides for one scoring call.
type ScoreOptions struct {
	Mode            Mode             `json:"mode"`
	WeightOverrides *WeightOverrides `json:"weight_overrides,omitempty"`
}

// ScoreBreakdown lists every named sub-score, each in [0,1].
type ScoreBreakdown struct {
	LanguageMatch    float64 `json:"language_match"`
	TopicMatch       float64 `json:"topic_match"`
	ReadmeMatch      float64 `json:"readme_match"`
	Stars            float64 `json:"stars"`
	Activity         float64 `json:"activity"`
	Documentation    float64 `json:"documentation"`
	Issues           float64 `json:"issues"`
	Contributors     float64 `json:"contributors"`
	CommitActivity   float64 `json:"commit_activity"`
	IssueResponse    float64 `json:"issue_response"`
	DependencyHealth float64 `json:"dependency_health"`
	ReadmeQuality    float64 `json:"readme_quality"`
	SkillMatch       float64 `json:"skill_match"`
}

// RepositoryScore is the result of scoring one repository.
type RepositoryScore struct {
	Relevance   float64 `json:"relevance"`
	Quality     float64 `json:"quality"`
	Opportunity float64 `json:"opportunity"`
	// Final is clamped to [0,1] before the freshness multiplier, so it can reach 1.2.
	Final     float64        `json:"final"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}

// ScoredRepo pairs a repository with its score.
type ScoredRepo struct {
	Repo  *Repo           `json:"repo"`
	Score RepositoryScore `json:"score"`
}
