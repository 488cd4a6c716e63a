package scoring

import (
	"math"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github-skill-scout/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScorer() *Scorer {
	return NewScorer(testGraph, WithNow(func() time.Time { return fixedNow }))
}

func fullEnrichment(extracted ...string) *domain.EnrichedData {
	return &domain.EnrichedData{
		Commits:      &domain.CommitAnalysis{Frequency: 1, Recency: 1, ContributorDistribution: 1, MessageQuality: 1, BranchActivity: 1},
		Issues:       &domain.IssueAnalysis{ResponseTime: 1, ResolutionRate: 1, MaintainerActivity: 1, CommunityEngagement: 1, IssueQuality: 1, LabelUsage: 1},
		Dependencies: &domain.DependencyAnalysis{Health: 1, Security: 1, UpdateFrequency: 1, OutdatedRatio: 0, LicenseCompatibility: 1},
		Readme:       &domain.ReadmeAnalysis{ContentQuality: 1, LearningResources: 1, SetupDifficulty: 0, ExtractedSkills: extracted},
	}
}

// goCLI matches a Go user on every relevance dimension.
func goCLI(pushedDaysAgo int) *domain.Repo {
	return &domain.Repo{
		Name:            "acme/gocli",
		Description:     "A go cli for backend concurrency with golang",
		Homepage:        "https://gocli.dev",
		License:         "MIT License",
		Language:        "Go",
		Topics:          []string{"go", "cli"},
		Stars:           300,
		Forks:           100,
		OpenIssues:      20,
		GoodFirstIssues: 5,
		CreatedAt:       fixedNow.AddDate(-1, 0, 0),
		UpdatedAt:       fixedNow.AddDate(0, 0, -pushedDaysAgo),
		PushedAt:        fixedNow.AddDate(0, 0, -pushedDaysAgo),
		Enriched:        fullEnrichment("go"),
	}
}

func TestScorer_NilRepo(t *testing.T) {
	got := newTestScorer().Score(nil, skills("go"), domain.ScoreOptions{})
	assert.Equal(t, domain.RepositoryScore{}, got)
}

func TestScorer_ZeroStarProfileBuilding(t *testing.T) {
	repo := &domain.Repo{
		Name:      "someone/abandoned",
		CreatedAt: fixedNow.AddDate(-2, 0, 0),
		PushedAt:  fixedNow.AddDate(0, 0, -400),
	}

	got := newTestScorer().Score(repo, skills("rust"), domain.ScoreOptions{Mode: domain.ModeProfileBuilding})

	assert.InDelta(t, 0.02, got.Quality, 1e-9)
	assert.Equal(t, 0.0, got.Relevance)
	// 0.2 for fewer than 10 stars and 0.5 for fewer than 50 wipe out the weighted sum.
	assert.Equal(t, 0.0, got.Final)
}

func TestScorer_QualityNeverExceedsOne(t *testing.T) {
	repo := goCLI(1)
	repo.Stars = 500

	for _, mode := range []domain.Mode{domain.ModeProfileBuilding, domain.ModeLearning, domain.ModeQuickWins} {
		t.Run(string(mode), func(t *testing.T) {
			got := newTestScorer().Score(repo, skills("go"), domain.ScoreOptions{Mode: mode})
			assert.Equal(t, 1.0, got.Quality)
		})
	}
}

func TestScorer_FreshnessMultiplier(t *testing.T) {
	s := newTestScorer()
	opts := domain.ScoreOptions{Mode: domain.ModeQuickWins}

	fresh := s.Score(goCLI(1), skills("go"), opts)
	assert.InDelta(t, 1.2, fresh.Final, 1e-9)
	assert.Equal(t, 1.0, fresh.Relevance)

	stale := s.Score(goCLI(10), skills("go"), opts)
	assert.InDelta(t, 1.0, stale.Final, 1e-9)
}

func TestScorer_WeightOverrides(t *testing.T) {
	repo := &domain.Repo{
		Name:      "acme/popular",
		Stars:     600,
		CreatedAt: fixedNow.AddDate(-2, 0, 0),
		PushedAt:  fixedNow.AddDate(0, 0, -400),
	}
	s := newTestScorer()

	def := s.Score(repo, nil, domain.ScoreOptions{Mode: domain.ModeProfileBuilding})
	// quality 0.17·0.3 + opportunity 0.322·0.1 + 0.05 star bonus.
	assert.InDelta(t, 0.1332, def.Final, 1e-9)

	zero := 0.0
	overridden := s.Score(repo, nil, domain.ScoreOptions{
		Mode:            domain.ModeProfileBuilding,
		WeightOverrides: &domain.WeightOverrides{Relevance: &zero, Quality: &zero, Opportunity: &zero},
	})
	assert.InDelta(t, 0.05, overridden.Final, 1e-9)
	assert.Equal(t, def.Breakdown, overridden.Breakdown)
}

func TestScorer_UnknownModeFallsBackToProfileBuilding(t *testing.T) {
	s := newTestScorer()
	repo := goCLI(20)

	want := s.Score(repo, skills("go"), domain.ScoreOptions{Mode: domain.ModeProfileBuilding})
	got := s.Score(repo, skills("go"), domain.ScoreOptions{Mode: "speedrun"})
	assert.Equal(t, want, got)
}

func TestScorer_MissingEnrichmentDegrades(t *testing.T) {
	repo := goCLI(20)
	repo.Enriched = nil

	got := newTestScorer().Score(repo, skills("go"), domain.ScoreOptions{})

	assert.Zero(t, got.Breakdown.CommitActivity)
	assert.Zero(t, got.Breakdown.IssueResponse)
	assert.Zero(t, got.Breakdown.DependencyHealth)
	assert.Zero(t, got.Breakdown.ReadmeQuality)
	assert.Zero(t, got.Breakdown.SkillMatch)
	assert.Greater(t, got.Final, 0.0)
}

func TestScorer_ScoresStayInRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	s := newTestScorer()
	userSkills := skills("go", "react", "docker")
	modes := []domain.Mode{domain.ModeProfileBuilding, domain.ModeLearning, domain.ModeQuickWins}

	for i := 0; i < 300; i++ {
		repo := &domain.Repo{
			Language:        []string{"Go", "JavaScript", "Rust", ""}[rng.IntN(4)],
			Topics:          [][]string{nil, {"go"}, {"react", "ui"}, {"database"}}[rng.IntN(4)],
			Description:     []string{"", "a docker tool for beginners", "production ready react components"}[rng.IntN(3)],
			Stars:           rng.IntN(100000),
			Forks:           rng.IntN(5000),
			OpenIssues:      rng.IntN(8000),
			GoodFirstIssues: rng.IntN(50),
			CreatedAt:       fixedNow.AddDate(0, 0, -rng.IntN(3000)),
			PushedAt:        fixedNow.AddDate(0, 0, -rng.IntN(800)),
		}
		if rng.IntN(2) == 0 {
			repo.Enriched = fullEnrichment("go", "javascript")
		}

		got := s.Score(repo, userSkills, domain.ScoreOptions{Mode: modes[i%len(modes)]})

		assert.GreaterOrEqual(t, got.Final, 0.0)
		assert.LessOrEqual(t, got.Final, 1.2)
		for _, v := range []float64{got.Relevance, got.Quality, got.Opportunity} {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
		b := got.Breakdown
		for _, v := range []float64{
			b.LanguageMatch, b.TopicMatch, b.ReadmeMatch, b.Stars, b.Activity, b.Documentation,
			b.Issues, b.Contributors, b.CommitActivity, b.IssueResponse, b.DependencyHealth,
			b.ReadmeQuality, b.SkillMatch,
		} {
			require.False(t, math.IsNaN(v))
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
}

func TestScorer_ConcurrentUse(t *testing.T) {
	s := newTestScorer()
	userSkills := skills("go")
	want := s.Score(goCLI(3), userSkills, domain.ScoreOptions{})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, s.Score(goCLI(3), userSkills, domain.ScoreOptions{}))
		}()
	}
	wg.Wait()
}

func TestModeWeights(t *testing.T) {
	assert.Equal(t, domain.ScoringWeights{Relevance: 0.6, Quality: 0.3, Opportunity: 0.1}, ModeWeights(domain.ModeProfileBuilding))
	assert.Equal(t, domain.ScoringWeights{Relevance: 0.3, Quality: 0.5, Opportunity: 0.2}, ModeWeights(domain.ModeLearning))
	assert.Equal(t, domain.ScoringWeights{Relevance: 0.2, Quality: 0.1, Opportunity: 0.7}, ModeWeights(domain.ModeQuickWins))
	assert.Equal(t, ModeWeights(domain.ModeProfileBuilding), ModeWeights(""))
}

func TestModeWeightTablesSumToOne(t *testing.T) {
	for mode, p := range profiles {
		r, q, o := p.relevance, p.quality, p.opportunity
		assert.InDelta(t, 1.0, p.weights.Relevance+p.weights.Quality+p.weights.Opportunity, 1e-9, mode)
		assert.InDelta(t, 1.0, r.language+r.topic+r.readme+r.skillMatch, 1e-9, mode)
		assert.InDelta(t, 1.0, q.stars+q.activity+q.documentation+q.commitActivity+q.dependencyHealth+q.readmeQuality, 1e-9, mode)
		assert.InDelta(t, 1.0, o.issues+o.contributors+o.issueResponse, 1e-9, mode)
	}
}
