package service

import (
	"cmp"
	"context"
	"fmt"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	"github-skill-scout/internal/adapter/cache"
	"github-skill-scout/internal/common"
	"github-skill-scout/internal/domain"
	"github-skill-scout/internal/logging"
	"github-skill-scout/internal/metrics"
	"github-skill-scout/internal/port"
	"github-skill-scout/internal/ranking"
	"github-skill-scout/internal/scoring"
	"github-skill-scout/internal/skill"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultPerPage is the page size when a request leaves it unset.
	DefaultPerPage = 10

	// Search window and goldilocks star band of planned queries.
	pushedWithin   = 90 * 24 * time.Hour
	bandMinStars   = 50
	bandMaxStars   = 5000
	defaultQueries = 6
)

// Config tunes the recommendation pipeline.
type Config struct {
	DefaultMode   domain.Mode
	MaxQueries    int
	SearchPerPage int
	SkillsTTL     time.Duration
	ResultsTTL    time.Duration
	ScoreWorkers  int
	DigestTitle   string
	DefaultEnrich bool
}

// RecommendService is the caller-facing API: skill normalization, scoring and the
// search → filter → hydrate → score → rank → paginate pipeline.
type RecommendService struct {
	normalizer *skill.Normalizer
	scorer     *scoring.Scorer
	ranker     *ranking.Ranker

	searcher port.Searcher
	filter   port.Filter
	hydrator port.Hydrator
	cache    port.Cache // nil disables memoization
	notifier port.Notifier

	cfg      Config
	validate *validator.Validate
	nowFunc  func() time.Time
}

// Deps groups the collaborators of RecommendService. Only Normalizer, Scorer and Ranker are required
// for the scoring API; Recommend additionally needs Searcher.
type Deps struct {
	Normalizer *skill.Normalizer
	Scorer     *scoring.Scorer
	Ranker     *ranking.Ranker
	Searcher   port.Searcher
	Filter     port.Filter
	Hydrator   port.Hydrator
	Cache      port.Cache
	Notifier   port.Notifier
}

// NewRecommendService wires the service.
func NewRecommendService(deps Deps, cfg Config) *RecommendService {
	if cfg.DefaultMode == "" {
		cfg.DefaultMode = domain.ModeProfileBuilding
	}
	if cfg.MaxQueries <= 0 {
		cfg.MaxQueries = defaultQueries
	}
	if cfg.ScoreWorkers <= 0 {
		cfg.ScoreWorkers = runtime.GOMAXPROCS(0)
	}
	if cfg.DigestTitle == "" {
		cfg.DigestTitle = "Repositories for your skills"
	}
	if deps.Ranker == nil {
		deps.Ranker = ranking.NewRanker()
	}
	return &RecommendService{
		normalizer: deps.Normalizer,
		scorer:     deps.Scorer,
		ranker:     deps.Ranker,
		searcher:   deps.Searcher,
		filter:     deps.Filter,
		hydrator:   deps.Hydrator,
		cache:      deps.Cache,
		notifier:   deps.Notifier,
		cfg:        cfg,
		validate:   validator.New(),
		nowFunc:    time.Now,
	}
}

type skillsKey struct {
	Skills  []string `json:"skills"`
	Catalog string   `json:"catalog"`
}

// NormalizeSkills resolves raw skill strings against the catalog. The input is sorted first, so the
// output depends only on the set of skills and is the same whether or not it came from the cache.
func (s *RecommendService) NormalizeSkills(ctx context.Context, raw []string) []domain.NormalizedSkill {
	if len(raw) == 0 {
		return []domain.NormalizedSkill{}
	}
	sorted := slices.Clone(raw)
	slices.Sort(sorted)
	key := cache.GenerateKey("skills", skillsKey{Skills: sorted, Catalog: skill.CatalogVersion})

	var cached []domain.NormalizedSkill
	if s.load(ctx, "skills", key, &cached) {
		return cached
	}
	out := s.normalizer.Normalize(sorted)
	s.store(ctx, "skills", key, out, s.cfg.SkillsTTL)
	return out
}

// GetExpandedSkills returns the flat keyword bag of the normalized skills.
func (s *RecommendService) GetExpandedSkills(skills []domain.NormalizedSkill) []string {
	return skill.ExpandedSkills(skills)
}

// ScoreRepository scores one repository.
func (s *RecommendService) ScoreRepository(repo *domain.Repo, skills []domain.NormalizedSkill, opts domain.ScoreOptions) domain.RepositoryScore {
	return s.scorer.Score(repo, skills, opts)
}

// ScoreRepositories scores a batch in parallel and returns it ranked. Nil repositories are skipped.
func (s *RecommendService) ScoreRepositories(repos []*domain.Repo, skills []domain.NormalizedSkill, opts domain.ScoreOptions) []domain.ScoredRepo {
	scored := make([]domain.ScoredRepo, len(repos))

	var g errgroup.Group
	g.SetLimit(s.cfg.ScoreWorkers)
	for i, repo := range repos {
		if repo == nil {
			continue
		}
		g.Go(func() error {
			scored[i] = domain.ScoredRepo{Repo: repo, Score: s.scorer.Score(repo, skills, opts)}
			return nil
		})
	}
	_ = g.Wait()

	scored = slices.DeleteFunc(scored, func(sr domain.ScoredRepo) bool { return sr.Repo == nil })
	mode := opts.Mode
	if mode == "" {
		mode = domain.ModeProfileBuilding
	}
	metrics.ReposScored.WithLabelValues(string(mode)).Add(float64(len(scored)))
	return s.ranker.Rank(scored)
}

// GetScoringExplanation summarizes the notable sub-scores of a breakdown.
func (s *RecommendService) GetScoringExplanation(b domain.ScoreBreakdown) string {
	return scoring.Explain(b)
}

// weightedSkill is the part of a normalized skill that shapes query planning and scoring.
type weightedSkill struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

type resultsKey struct {
	Skills    []weightedSkill         `json:"skills"`
	Mode      domain.Mode             `json:"mode"`
	Overrides *domain.WeightOverrides `json:"overrides,omitempty"`
	Enrich    bool                    `json:"enrich"`
	Catalog   string                  `json:"catalog"`
}

// Recommend runs the full pipeline and returns one page of ranked recommendations.
// Invalid options yield INVALID_INPUT; an empty skill list yields an empty result.
func (s *RecommendService) Recommend(ctx context.Context, req domain.RecommendRequest) (*domain.RecommendResult, error) {
	start := time.Now()

	if err := s.validate.Struct(req); err != nil {
		return nil, common.WrapError(common.ErrCodeInvalidInput, "invalid recommend request", err)
	}
	mode := s.cfg.DefaultMode
	if req.Goal != "" {
		m, err := domain.ParseMode(req.Goal)
		if err != nil {
			return nil, common.WrapError(common.ErrCodeInvalidInput, "invalid goal", err)
		}
		mode = m
	}
	page, perPage := pageParams(req.Page, req.PerPage)
	enrich := s.cfg.DefaultEnrich
	if req.Enrich != nil {
		enrich = *req.Enrich
	}

	skills := s.NormalizeSkills(ctx, req.Skills)
	result := &domain.RecommendResult{
		Skills:  skills,
		Mode:    mode,
		Page:    page,
		PerPage: perPage,
		Items:   []domain.Recommendation{},
	}
	if len(skills) == 0 {
		return result, nil
	}

	key := cache.GenerateKey("results", resultsKey{
		Skills:    keySkills(skills),
		Mode:      mode,
		Overrides: req.WeightOverrides,
		Enrich:    enrich,
		Catalog:   skill.CatalogVersion,
	})

	var ranked []domain.ScoredRepo
	cached := s.load(ctx, "results", key, &ranked)
	if !cached {
		var complete bool
		var err error
		ranked, complete, err = s.rankCandidates(ctx, skills, domain.ScoreOptions{Mode: mode, WeightOverrides: req.WeightOverrides}, enrich)
		if err != nil {
			return nil, err
		}
		if complete {
			s.store(ctx, "results", key, ranked, s.cfg.ResultsTTL)
		}
	}

	result.Total = len(ranked)
	for _, sr := range paginate(ranked, page, perPage) {
		result.Items = append(result.Items, domain.Recommendation{
			Repo:        sr.Repo,
			Score:       sr.Score,
			Explanation: scoring.Explain(sr.Score.Breakdown),
		})
	}

	metrics.RecommendDuration.WithLabelValues(string(mode), strconv.FormatBool(cached)).Observe(time.Since(start).Seconds())
	logging.Info().
		Str("mode", string(mode)).
		Int("skills", len(skills)).
		Int("total", result.Total).
		Int("page", page).
		Bool("cached", cached).
		Dur("took", time.Since(start)).
		Msg("recommendation ready")
	return result, nil
}

// keySkills sorts skills by name and weight, so the key is independent of input order
// but still changes when a weight does.
func keySkills(skills []domain.NormalizedSkill) []weightedSkill {
	out := make([]weightedSkill, 0, len(skills))
	for _, sk := range skills {
		out = append(out, weightedSkill{Name: sk.Normalized, Weight: sk.Weight})
	}
	slices.SortFunc(out, func(a, b weightedSkill) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.Weight, b.Weight)
	})
	return out
}

// rankCandidates searches, filters, hydrates, scores and ranks. complete is false when any search
// failed, so a partial list is not memoized.
func (s *RecommendService) rankCandidates(ctx context.Context, skills []domain.NormalizedSkill, opts domain.ScoreOptions, enrich bool) ([]domain.ScoredRepo, bool, error) {
	if s.searcher == nil {
		return nil, false, common.NewError(common.ErrCodeInternal, "no searcher configured")
	}

	queries := PlanQueries(skills, opts.Mode, s.nowFunc(), s.cfg.MaxQueries, s.cfg.SearchPerPage)
	var (
		candidates []*domain.Repo
		failed     int
		lastErr    error
	)
	for _, q := range queries {
		repos, err := s.searcher.SearchRepositories(ctx, q)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, false, ctxErr
			}
			failed++
			lastErr = err
			logging.Warn().Err(err).Str("language", q.Language).Str("topic", q.Topic).Msg("search failed, skipping query")
			continue
		}
		candidates = append(candidates, repos...)
	}
	if len(queries) > 0 && failed == len(queries) {
		return nil, false, common.WrapError(common.ErrCodeGitHubAPI, fmt.Sprintf("all %d searches failed", failed), lastErr)
	}

	if s.filter != nil {
		candidates = s.filter.Filter(candidates)
	}
	logging.Debug().Int("queries", len(queries)).Int("candidates", len(candidates)).Msg("candidates collected")

	if s.hydrator != nil && len(candidates) > 0 {
		hydrated, err := s.hydrator.Hydrate(ctx, candidates, enrich)
		if err != nil {
			return nil, false, err
		}
		candidates = hydrated
	}

	return s.ScoreRepositories(candidates, skills, opts), failed == 0, nil
}

// PlanQueries builds at most maxQueries searches: language skills become language qualifiers,
// everything else a topic. Heavier skills are planned first.
func PlanQueries(skills []domain.NormalizedSkill, mode domain.Mode, now time.Time, maxQueries, perPage int) []domain.SearchQuery {
	ordered := slices.Clone(skills)
	slices.SortStableFunc(ordered, func(a, b domain.NormalizedSkill) int {
		switch {
		case a.Weight > b.Weight:
			return -1
		case a.Weight < b.Weight:
			return 1
		}
		return 0
	})

	seen := make(map[string]struct{}, len(ordered))
	queries := make([]domain.SearchQuery, 0, min(len(ordered), maxQueries))
	for _, sk := range ordered {
		if len(queries) >= maxQueries {
			break
		}
		name := strings.ToLower(strings.TrimSpace(sk.Normalized))
		if name == "" {
			continue
		}

		q := domain.SearchQuery{
			PushedAfter:     now.Add(-pushedWithin),
			GoodFirstIssues: mode == domain.ModeLearning || mode == domain.ModeQuickWins,
			PerPage:         perPage,
		}
		if sk.Category == domain.CategoryLanguage {
			q.Language = name
		} else {
			q.Topic = strings.Join(strings.Fields(name), "-")
		}
		if mode != domain.ModeQuickWins {
			q.MinStars, q.MaxStars = bandMinStars, bandMaxStars
		}

		id := q.Language + "|" + q.Topic
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		queries = append(queries, q)
	}
	return queries
}

// NotifyTop pushes the first topN recommendations of result as a digest.
func (s *RecommendService) NotifyTop(ctx context.Context, result *domain.RecommendResult, topN int) error {
	if s.notifier == nil {
		return common.NewError(common.ErrCodeNotification, "no notifier configured")
	}
	if result == nil || len(result.Items) == 0 {
		logging.Info().Msg("nothing to notify")
		return nil
	}
	items := result.Items
	if topN > 0 && topN < len(items) {
		items = items[:topN]
	}
	title := fmt.Sprintf("%s (%s)", s.cfg.DigestTitle, result.Mode)
	return s.notifier.NotifyDigest(ctx, title, items)
}

func pageParams(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > ranking.MaxResults {
		perPage = ranking.MaxResults
	}
	return page, perPage
}

func paginate(items []domain.ScoredRepo, page, perPage int) []domain.ScoredRepo {
	start := (page - 1) * perPage
	if start >= len(items) {
		return nil
	}
	return items[start:min(start+perPage, len(items))]
}

// load decodes a cached value into out. Backend and decode errors count as misses.
func (s *RecommendService) load(ctx context.Context, kind, key string, out any) bool {
	if s.cache == nil {
		return false
	}
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheErrors.WithLabelValues(kind, "get").Inc()
		logging.Warn().Err(err).Str("kind", kind).Msg("cache read failed, treating as miss")
		return false
	}
	if !ok {
		metrics.CacheMisses.WithLabelValues(kind).Inc()
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		metrics.CacheErrors.WithLabelValues(kind, "decode").Inc()
		logging.Warn().Err(err).Str("kind", kind).Msg("cached value is corrupt, treating as miss")
		return false
	}
	metrics.CacheHits.WithLabelValues(kind).Inc()
	return true
}

func (s *RecommendService) store(ctx context.Context, kind, key string, value any, ttl time.Duration) {
	if s.cache == nil || ttl <= 0 {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		metrics.CacheErrors.WithLabelValues(kind, "encode").Inc()
		return
	}
	if err := s.cache.Set(ctx, key, raw, ttl); err != nil {
		metrics.CacheErrors.WithLabelValues(kind, "set").Inc()
		logging.Warn().Err(err).Str("kind", kind).Msg("cache write failed")
	}
}
