package scoring

import (
	"strings"

	"github-skill-scout/internal/domain"
)

// FallbackExplanation is returned when no sub-score is notable.
const FallbackExplanation = "General match for your skills"

type notable struct {
	threshold float64
	phrase    string
	value     func(domain.ScoreBreakdown) float64
}

// Order matters: phrases are listed relevance first, then quality, then opportunity.
var notables = []notable{
	{0.8, "Strong language match", func(b domain.ScoreBreakdown) float64 { return b.LanguageMatch }},
	{0.5, "Relevant topics", func(b domain.ScoreBreakdown) float64 { return b.TopicMatch }},
	{0.5, "Description matches your skills", func(b domain.ScoreBreakdown) float64 { return b.ReadmeMatch }},
	{0.5, "README mentions your skills", func(b domain.ScoreBreakdown) float64 { return b.SkillMatch }},
	{0.5, "Established community", func(b domain.ScoreBreakdown) float64 { return b.Stars }},
	{0.8, "Actively maintained", func(b domain.ScoreBreakdown) float64 { return b.Activity }},
	{0.7, "Well documented", func(b domain.ScoreBreakdown) float64 { return b.Documentation }},
	{0.8, "Beginner-friendly issues", func(b domain.ScoreBreakdown) float64 { return b.Issues }},
	{0.5, "Active contributor base", func(b domain.ScoreBreakdown) float64 { return b.Contributors }},
	{0.7, "Frequent commits", func(b domain.ScoreBreakdown) float64 { return b.CommitActivity }},
	{0.7, "Responsive maintainers", func(b domain.ScoreBreakdown) float64 { return b.IssueResponse }},
	{0.7, "Healthy dependencies", func(b domain.ScoreBreakdown) float64 { return b.DependencyHealth }},
	{0.7, "High-quality README", func(b domain.ScoreBreakdown) float64 { return b.ReadmeQuality }},
}

// Explain summarises a breakdown as a comma-separated list of its notable sub-scores.
func Explain(b domain.ScoreBreakdown) string {
	var phrases []string
	for _, n := range notables {
		if n.value(b) >= n.threshold {
			phrases = append(phrases, n.phrase)
		}
	}
	if len(phrases) == 0 {
		return FallbackExplanation
	}
	return strings.Join(phrases, ", ")
}
