package scoring

import "github-skill-scout/internal/domain"

type relevanceWeights struct {
	language, topic, readme, skillMatch float64
}

type qualityWeights struct {
	stars, activity, documentation, commitActivity, dependencyHealth, readmeQuality float64
}

type opportunityWeights struct {
	issues, contributors, issueResponse float64
}

// modeProfile is the full weight table of one mode.
type modeProfile struct {
	weights     domain.ScoringWeights
	relevance   relevanceWeights
	quality     qualityWeights
	opportunity opportunityWeights
}

var profiles = map[domain.Mode]modeProfile{
	domain.ModeProfileBuilding: {
		weights:     domain.ScoringWeights{Relevance: 0.6, Quality: 0.3, Opportunity: 0.1},
		relevance:   relevanceWeights{language: 0.3, topic: 0.3, readme: 0.2, skillMatch: 0.2},
		quality:     qualityWeights{stars: 0.25, activity: 0.20, documentation: 0.15, commitActivity: 0.20, dependencyHealth: 0.10, readmeQuality: 0.10},
		opportunity: opportunityWeights{issues: 0.5, contributors: 0.3, issueResponse: 0.2},
	},
	domain.ModeLearning: {
		weights:     domain.ScoringWeights{Relevance: 0.3, Quality: 0.5, Opportunity: 0.2},
		relevance:   relevanceWeights{language: 0.2, topic: 0.4, readme: 0.2, skillMatch: 0.2},
		quality:     qualityWeights{stars: 0.10, activity: 0.15, documentation: 0.30, commitActivity: 0.10, dependencyHealth: 0.05, readmeQuality: 0.30},
		opportunity: opportunityWeights{issues: 0.6, contributors: 0.2, issueResponse: 0.2},
	},
	domain.ModeQuickWins: {
		weights:     domain.ScoringWeights{Relevance: 0.2, Quality: 0.1, Opportunity: 0.7},
		relevance:   relevanceWeights{language: 0.2, topic: 0.2, readme: 0.3, skillMatch: 0.3},
		quality:     qualityWeights{stars: 0.10, activity: 0.30, documentation: 0.15, commitActivity: 0.25, dependencyHealth: 0.10, readmeQuality: 0.10},
		opportunity: opportunityWeights{issues: 0.6, contributors: 0.1, issueResponse: 0.3},
	},
}

// profileFor falls back to profile-building for unknown modes.
func profileFor(mode domain.Mode) modeProfile {
	if p, ok := profiles[mode]; ok {
		return p
	}
	return profiles[domain.ModeProfileBuilding]
}

// ModeWeights returns the default relevance/quality/opportunity weights of mode.
func ModeWeights(mode domain.Mode) domain.ScoringWeights {
	return profileFor(mode).weights
}
