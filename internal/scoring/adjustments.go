package scoring

import (
	"math"
	"strings"

	"github-skill-scout/internal/domain"
)

const (
	freshnessWindowDays = 7
	freshnessMultiplier = 1.2
)

var (
	learningKeywords   = []string{"tutorial", "example", "beginner", "learn", "guide", "course", "workshop"}
	productionKeywords = []string{"production", "enterprise", "scalable"}
)

// modeBonus rewards what each goal is looking for.
func modeBonus(mode domain.Mode, repo *domain.Repo, daysSinceActivity float64) float64 {
	bonus := 0.0

	switch mode {
	case domain.ModeLearning:
		if containsAny(repo.SearchText(), learningKeywords) {
			bonus += 0.10
		}
		switch {
		case repo.GoodFirstIssues >= 5:
			bonus += 0.10
		case repo.GoodFirstIssues > 0:
			bonus += 0.05
		}
		if repo.Enriched != nil && repo.Enriched.Readme != nil && repo.Enriched.Readme.LearningResources >= 0.5 {
			bonus += 0.05
		}

	case domain.ModeQuickWins:
		if repo.OpenIssues >= 5 && repo.OpenIssues <= 50 {
			bonus += 0.10
		}
		if daysSinceActivity <= 7 {
			bonus += 0.05
		}
		if repo.GoodFirstIssues > 0 {
			bonus += 0.05
		}

	default:
		switch {
		case repo.Stars >= 1000:
			bonus += 0.10
		case repo.Stars >= 500:
			bonus += 0.05
		}
		if containsAny(repo.SearchText(), productionKeywords) {
			bonus += 0.05
		}
	}

	return bonus
}

// sizePenalty punishes mega-popular and mega-noisy repositories regardless of mode.
func sizePenalty(repo *domain.Repo) float64 {
	penalty := 0.0
	if repo.OpenIssues > 5000 {
		penalty += 0.30
	}
	if repo.Stars > 1000 {
		penalty += math.Log10(float64(repo.Stars)) * 0.08
	}
	if repo.Stars > 10000 {
		penalty += 0.10
	}
	return penalty
}

// modePenalty filters out repositories that do not serve the goal. Penalties add up.
func modePenalty(mode domain.Mode, repo *domain.Repo, documentation, daysSinceActivity, ageDays float64) float64 {
	penalty := 0.0
	if repo.Stars < 10 {
		penalty += 0.20
	}

	switch mode {
	case domain.ModeLearning:
		if repo.GoodFirstIssues == 0 {
			penalty += 0.15
		}
		if daysSinceActivity > 180 {
			penalty += 0.20
		}
		if documentation < 0.3 {
			penalty += 0.10
		}

	case domain.ModeQuickWins:
		if repo.OpenIssues > 1000 {
			penalty += 0.20
		}
		if repo.OpenIssues == 0 {
			penalty += 0.30
		}
		if repo.GoodFirstIssues == 0 {
			penalty += 0.20
		}
		if repo.Stars > 20000 {
			penalty += 0.15
		}
		if daysSinceActivity > 90 {
			penalty += 0.20
		}

	default:
		if repo.Stars < 50 {
			penalty += 0.50
		}
		if ageDays < 30 {
			penalty += 0.10
		}
		if repo.Stars > 50000 {
			penalty += 0.10
		}
	}

	return penalty
}

// freshness boosts repositories active within the last week. It is applied after clamping.
func freshness(daysSinceActivity float64) float64 {
	if daysSinceActivity <= freshnessWindowDays {
		return freshnessMultiplier
	}
	return 1.0
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
