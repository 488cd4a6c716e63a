package enrichment

import (
	"slices"
	"strings"
	"time"

	"github-skill-scout/internal/domain"
)

// Issue is one sampled issue. FirstResponseAt is zero when nobody but the author replied or
// when the response was not fetched.
type Issue struct {
	Number              int
	Title               string
	Body                string
	Labels              []string
	Comments            int
	CreatedAt           time.Time
	ClosedAt            time.Time
	FirstResponseAt     time.Time
	MaintainerResponded bool
	PullRequest         bool
}

const detailedBodyLength = 100

// AnalyzeIssues summarises how a repository handles its issues. Pull requests are ignored.
// It returns nil when the sample holds no issues.
func AnalyzeIssues(issues []Issue) *domain.IssueAnalysis {
	var total, closed, maintained, detailed, labelled, comments int
	var responseHours []float64
	for _, is := range issues {
		if is.PullRequest {
			continue
		}
		total++
		if !is.ClosedAt.IsZero() {
			closed++
		}
		if is.MaintainerResponded {
			maintained++
		}
		if len(strings.TrimSpace(is.Body)) >= detailedBodyLength {
			detailed++
		}
		if len(is.Labels) > 0 {
			labelled++
		}
		comments += max(is.Comments, 0)
		if !is.FirstResponseAt.IsZero() && !is.CreatedAt.IsZero() && is.FirstResponseAt.After(is.CreatedAt) {
			responseHours = append(responseHours, is.FirstResponseAt.Sub(is.CreatedAt).Hours())
		}
	}
	if total == 0 {
		return nil
	}

	n := float64(total)
	return &domain.IssueAnalysis{
		ResponseTime:        responseScore(responseHours),
		ResolutionRate:      float64(closed) / n,
		MaintainerActivity:  float64(maintained) / n,
		CommunityEngagement: min(float64(comments)/n/5, 1),
		IssueQuality:        float64(detailed) / n,
		LabelUsage:          float64(labelled) / n,
	}
}

// responseScore rates the median first-response delay.
func responseScore(hours []float64) float64 {
	if len(hours) == 0 {
		return 0
	}
	slices.Sort(hours)
	median := hours[len(hours)/2]
	if len(hours)%2 == 0 {
		median = (hours[len(hours)/2-1] + hours[len(hours)/2]) / 2
	}

	switch {
	case median <= 24:
		return 1.0
	case median <= 72:
		return 0.8
	case median <= 168:
		return 0.6
	case median <= 720:
		return 0.3
	default:
		return 0.1
	}
}
