package domain

import "time"

// SearchQuery describes one repository search issued to the search collaborator.
type SearchQuery struct {
	Language        string
	Topic           string
	MinStars        int
	MaxStars        int // 0 means unbounded
	PushedAfter     time.Time
	GoodFirstIssues bool
	PerPage         int
}

// RecommendRequest is the caller-facing request of a recommendation run. A nil Enrich
// keeps the configured enrichment default; a set value overrides it either way.
type RecommendRequest struct {
	Skills          []string         `json:"skills"`
	Goal            string           `json:"goal" validate:"omitempty,oneof=profile-building learning quick-wins"`
	Page            int              `json:"page" validate:"gte=0"`
	PerPage         int              `json:"per_page" validate:"gte=0,lte=50"`
	Enrich          *bool            `json:"enrich,omitempty"`
	WeightOverrides *WeightOverrides `json:"weight_overrides,omitempty" validate:"omitempty"`
}

// Recommendation is one presented result.
type Recommendation struct {
	Repo        *Repo           `json:"repo"`
	Score       RepositoryScore `json:"score"`
	Explanation string          `json:"explanation"`
}

// RecommendResult is one page of ranked recommendations.
type RecommendResult struct {
	Skills  []NormalizedSkill `json:"skills"`
	Mode    Mode              `json:"mode"`
	Page    int               `json:"page"`
	PerPage int               `json:"per_page"`
	Total   int               `json:"total"`
	Items   []Recommendation  `json:"items"`
}
