package scoring

import (
	"time"

	"github-skill-scout/internal/domain"
	"github-skill-scout/internal/skill"
)

// Scorer computes RepositoryScores. It keeps no per-call state and is safe for concurrent use.
type Scorer struct {
	graph   *skill.Graph
	nowFunc func() time.Time
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithNow sets the clock used for activity, freshness and age.
func WithNow(now func() time.Time) Option {
	return func(s *Scorer) {
		if now != nil {
			s.nowFunc = now
		}
	}
}

// NewScorer creates a scorer. graph decides which keywords count as languages.
func NewScorer(graph *skill.Graph, opts ...Option) *Scorer {
	s := &Scorer{
		graph:   graph,
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score rates one repository against the normalized skills.
//
// The final score is
//
//	clamp01(relevance·w_r + quality·w_q + opportunity·w_o + bonuses − penalties) × freshness
//
// where freshness is 1.2 for repositories active within a week, so Final can reach 1.2.
// Missing optional data never fails: the affected sub-score degrades to its default.
func (s *Scorer) Score(repo *domain.Repo, skills []domain.NormalizedSkill, opts domain.ScoreOptions) domain.RepositoryScore {
	if repo == nil {
		return domain.RepositoryScore{}
	}

	now := s.nowFunc()
	profile := profileFor(opts.Mode)
	weights := opts.WeightOverrides.Apply(profile.weights)

	b := s.breakdown(repo, skills, now)

	relevance := b.LanguageMatch*profile.relevance.language +
		b.TopicMatch*profile.relevance.topic +
		b.ReadmeMatch*profile.relevance.readme +
		b.SkillMatch*profile.relevance.skillMatch

	quality := b.Stars*profile.quality.stars +
		b.Activity*profile.quality.activity +
		b.Documentation*profile.quality.documentation +
		b.CommitActivity*profile.quality.commitActivity +
		b.DependencyHealth*profile.quality.dependencyHealth +
		b.ReadmeQuality*profile.quality.readmeQuality
	if repo.Stars >= 50 && repo.Stars <= 500 {
		quality += 0.1
	}
	quality += min(float64(repo.Forks)/20, 0.05)
	quality = clamp01(quality)

	opportunity := b.Issues*profile.opportunity.issues +
		b.Contributors*profile.opportunity.contributors +
		b.IssueResponse*profile.opportunity.issueResponse

	final := relevance*weights.Relevance + quality*weights.Quality + opportunity*weights.Opportunity

	days := repo.DaysSinceActivity(now)
	age := ageDays(repo, now)

	final += modeBonus(opts.Mode, repo, days)
	final -= sizePenalty(repo)
	final -= modePenalty(opts.Mode, repo, b.Documentation, days, age)
	final = clamp01(final) * freshness(days)

	return domain.RepositoryScore{
		Relevance:   clamp01(relevance),
		Quality:     quality,
		Opportunity: clamp01(opportunity),
		Final:       final,
		Breakdown:   b,
	}
}

func (s *Scorer) breakdown(repo *domain.Repo, skills []domain.NormalizedSkill, now time.Time) domain.ScoreBreakdown {
	var isLanguage func(string) bool
	if s.graph != nil {
		isLanguage = s.graph.IsLanguage
	}

	return domain.ScoreBreakdown{
		LanguageMatch:    LanguageMatch(repo, skills, isLanguage),
		TopicMatch:       TopicMatch(repo, skills),
		ReadmeMatch:      ReadmeMatch(repo, skills),
		Stars:            StarsScore(repo),
		Activity:         ActivityScore(repo, now),
		Documentation:    DocumentationScore(repo),
		Issues:           IssueScore(repo),
		Contributors:     ContributorScore(repo),
		CommitActivity:   CommitActivityScore(repo),
		IssueResponse:    IssueResponseScore(repo),
		DependencyHealth: DependencyHealthScore(repo),
		ReadmeQuality:    ReadmeQualityScore(repo),
		SkillMatch:       SkillMatchScore(repo, skills),
	}
}

// ageDays is the repository age; unknown creation dates count as old.
func ageDays(repo *domain.Repo, now time.Time) float64 {
	if repo.CreatedAt.IsZero() {
		return 3650
	}
	return now.Sub(repo.CreatedAt).Hours() / 24
}
