package enrichment

import (
	"context"
	"regexp"
	"strings"

	"github-skill-scout/internal/domain"
	"github-skill-scout/internal/skill"
)

var (
	installHeading  = regexp.MustCompile(`(?im)^#{1,6}\s*(installation|install|setup|getting started|quick ?start)\b`)
	oneLineInstall  = regexp.MustCompile(`(?i)\b(go install|go get|npm (install|i) |yarn add|pnpm add|pip3? install|cargo (install|add)|brew install|gem install|docker run)\b`)
	headingLine     = regexp.MustCompile(`(?m)^#{1,6}\s+\S`)
	tokenSeparators = regexp.MustCompile(`[^a-z0-9+#./\-]+`)

	learningPhrases = []string{
		"tutorial", "example", "getting started", "quick start", "quickstart", "documentation",
		"docs", "guide", "walkthrough", "course", "learn", "beginner",
	}
	setupHurdles = []string{
		"prerequisite", "requirements", "requires", "docker-compose", "kubernetes cluster",
		"environment variable", "build from source", "compile from source", "make install",
	}
)

// ambiguous names and aliases that double as plain English or common abbreviations.
var ambiguousTokens = map[string]struct{}{
	"go": {}, "rest": {}, "ui": {}, "ux": {}, "ml": {}, "ci": {}, "pg": {}, "ai": {}, "ng": {},
	"rs": {}, "py": {}, "ts": {}, "js": {}, "kube": {}, "sh": {}, "tf": {}, "pd": {}, "kt": {},
	"rb": {}, "cs": {}, "next": {}, "express": {}, "spring": {}, "crypto": {}, "containers": {},
}

// minAmbiguousHits is how often an ambiguous token must appear before it counts as a skill.
const minAmbiguousHits = 3

// ReadmeAnalyzer scores README text with heuristics and extracts skills known to the graph.
type ReadmeAnalyzer struct {
	graph *skill.Graph
}

// NewReadmeAnalyzer creates a heuristic analyzer.
func NewReadmeAnalyzer(graph *skill.Graph) *ReadmeAnalyzer {
	return &ReadmeAnalyzer{graph: graph}
}

// AnalyzeReadme implements port.ReadmeAnalyzer. It never fails.
func (a *ReadmeAnalyzer) AnalyzeReadme(_ context.Context, _ *domain.Repo, readme string) (*domain.ReadmeAnalysis, error) {
	return a.Analyze(readme), nil
}

// Analyze returns nil for an empty README.
func (a *ReadmeAnalyzer) Analyze(readme string) *domain.ReadmeAnalysis {
	if strings.TrimSpace(readme) == "" {
		return nil
	}
	lower := strings.ToLower(readme)

	return &domain.ReadmeAnalysis{
		ContentQuality:    contentQuality(readme),
		LearningResources: learningResources(lower),
		SetupDifficulty:   setupDifficulty(readme, lower),
		ExtractedSkills:   a.ExtractSkills(readme),
	}
}

func contentQuality(readme string) float64 {
	score := 0.0

	switch words := len(strings.Fields(readme)); {
	case words >= 300:
		score += 0.3
	case words >= 100:
		score += 0.2
	default:
		score += 0.1
	}

	switch headings := len(headingLine.FindAllStringIndex(readme, -1)); {
	case headings >= 5:
		score += 0.25
	case headings >= 2:
		score += 0.15
	}

	if strings.Count(readme, "```") >= 2 {
		score += 0.2
	}
	if strings.Count(readme, "](") >= 3 {
		score += 0.1
	}
	if strings.Contains(readme, "![") {
		score += 0.15
	}
	return min(score, 1)
}

func learningResources(lower string) float64 {
	hits := 0
	for _, p := range learningPhrases {
		if strings.Contains(lower, p) {
			hits++
		}
	}
	score := float64(hits) / 4
	if strings.Contains(lower, "contributing") {
		score += 0.2
	}
	return min(score, 1)
}

// setupDifficulty starts neutral, gets easier with install docs and harder with every hurdle.
func setupDifficulty(readme, lower string) float64 {
	easy := 0.0
	if installHeading.MatchString(readme) {
		easy += 0.2
	}
	if oneLineInstall.MatchString(readme) {
		easy += 0.2
	}
	hurdles := 0
	for _, h := range setupHurdles {
		if strings.Contains(lower, h) {
			hurdles++
		}
	}
	return max(0, min(0.5-easy+0.1*float64(hurdles), 1))
}

// ExtractSkills returns the canonical names of skills mentioned in text, in catalog order.
// Names and aliases match whole tokens or runs of up to three tokens.
func (a *ReadmeAnalyzer) ExtractSkills(text string) []string {
	if a.graph == nil || text == "" {
		return []string{}
	}

	counts := ngramCounts(text, 3)
	out := []string{}
	for _, name := range a.graph.Names() {
		node, _ := a.graph.Node(name)
		candidates := append([]string{node.Name}, node.Aliases...)
		for _, c := range candidates {
			c = strings.ToLower(c)
			if len(c) < 2 {
				continue
			}
			need := 1
			if _, ok := ambiguousTokens[c]; ok {
				need = minAmbiguousHits
			}
			if counts[c] >= need {
				out = append(out, name)
				break
			}
		}
	}
	return out
}

// ngramCounts counts every run of 1..n tokens, joined by a single space.
func ngramCounts(text string, n int) map[string]int {
	raw := tokenSeparators.Split(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.Trim(t, ".-/")
		if t != "" {
			tokens = append(tokens, t)
		}
	}

	counts := make(map[string]int, len(tokens)*n)
	for i := range tokens {
		for size := 1; size <= n && i+size <= len(tokens); size++ {
			counts[strings.Join(tokens[i:i+size], " ")]++
		}
	}
	return counts
}
