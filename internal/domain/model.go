package domain

import (
	"strings"
	"time"
)

// Repo is a read-only view of a candidate repository returned by the search collaborator.
type Repo struct {
	// Basic information (from GitHub)
	ID          int64    `json:"id"`
	Name        string   `json:"name"` // e.g. "gohugoio/hugo"
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Homepage    string   `json:"homepage"`
	License     string   `json:"license"` // SPDX name, "Other" when GitHub cannot classify it
	Language    string   `json:"language"`
	Topics      []string `json:"topics"`

	Stars           int `json:"stars"`
	Forks           int `json:"forks"`
	OpenIssues      int `json:"open_issues_count"`
	GoodFirstIssues int `json:"good_first_issues"`

	Archived bool `json:"archived"`
	Fork     bool `json:"fork"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	PushedAt  time.Time `json:"pushed_at"`

	// Enriched is nil when no enrichment ran for this repository.
	Enriched *EnrichedData `json:"enriched,omitempty"`
}

// LastActivity returns the later of the updated and pushed timestamps.
func (r *Repo) LastActivity() time.Time {
	if r.PushedAt.After(r.UpdatedAt) {
		return r.PushedAt
	}
	return r.UpdatedAt
}

// DaysSinceActivity reports whole and fractional days between now and LastActivity.
// A repository with no timestamps is treated as inactive for ten years.
func (r *Repo) DaysSinceActivity(now time.Time) float64 {
	last := r.LastActivity()
	if last.IsZero() {
		return 3650
	}
	days := now.Sub(last).Hours() / 24
	if days < 0 {
		return 0
	}
	return days
}

// SearchText is the lowercased description plus topics, used for keyword bonuses.
func (r *Repo) SearchText() string {
	return strings.ToLower(r.Description + " " + strings.Join(r.Topics, " "))
}

// EnrichedData holds the optional deeper analyses of a repository.
// Every block may be nil independently; a nil block scores 0.
type EnrichedData struct {
	Commits      *CommitAnalysis     `json:"commits,omitempty"`
	Issues       *IssueAnalysis      `json:"issues,omitempty"`
	Dependencies *DependencyAnalysis `json:"dependencies,omitempty"`
	Readme       *ReadmeAnalysis     `json:"readme,omitempty"`
}

// CommitAnalysis summarises recent commit history. All signals are in [0,1].
type CommitAnalysis struct {
	Frequency               float64 `json:"frequency"`
	Recency                 float64 `json:"recency"`
	ContributorDistribution float64 `json:"contributor_distribution"`
	MessageQuality          float64 `json:"message_quality"`
	BranchActivity          float64 `json:"branch_activity"`
}

// IssueAnalysis summarises how the maintainers handle issues. All signals are in [0,1].
type IssueAnalysis struct {
	ResponseTime        float64 `json:"response_time"` // 1 means fast first responses
	ResolutionRate      float64 `json:"resolution_rate"`
	MaintainerActivity  float64 `json:"maintainer_activity"`
	CommunityEngagement float64 `json:"community_engagement"`
	IssueQuality        float64 `json:"issue_quality"`
	LabelUsage          float64 `json:"label_usage"`
}

// DependencyAnalysis summarises the declared dependencies. All signals are in [0,1].
type DependencyAnalysis struct {
	Health               float64 `json:"health"`
	Security             float64 `json:"security"`
	UpdateFrequency      float64 `json:"update_frequency"`
	OutdatedRatio        float64 `json:"outdated_ratio"` // 1 means every dependency is outdated
	LicenseCompatibility float64 `json:"license_compatibility"`
}

// ReadmeAnalysis summarises the README. Signals are in [0,1].
type ReadmeAnalysis struct {
	ContentQuality    float64  `json:"content_quality"`
	LearningResources float64  `json:"learning_resources"`
	SetupDifficulty   float64  `json:"setup_difficulty"` // 1 means hard to set up
	ExtractedSkills   []string `json:"extracted_skills"`
}
