package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github-skill-scout/internal/adapter/cache"
	"github-skill-scout/internal/adapter/filter"
	"github-skill-scout/internal/common"
	"github-skill-scout/internal/domain"
	"github-skill-scout/internal/ranking"
	"github-skill-scout/internal/scoring"
	"github-skill-scout/internal/skill"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) SearchRepositories(ctx context.Context, q domain.SearchQuery) ([]*domain.Repo, error) {
	args := m.Called(ctx, q)
	repos, _ := args.Get(0).([]*domain.Repo)
	return repos, args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	raw, _ := args.Get(0).([]byte)
	return raw, args.Bool(1), args.Error(2)
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

type MockHydrator struct {
	mock.Mock
}

func (m *MockHydrator) Hydrate(ctx context.Context, repos []*domain.Repo, enrich bool) ([]*domain.Repo, error) {
	args := m.Called(ctx, repos, enrich)
	out, _ := args.Get(0).([]*domain.Repo)
	return out, args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyDigest(ctx context.Context, title string, items []domain.Recommendation) error {
	args := m.Called(ctx, title, items)
	return args.Error(0)
}

var (
	graph   = skill.NewDefaultGraph()
	testNow = time.Now()
)

func keepOrder(int, func(i, j int)) {}

func newService(deps Deps, cfg Config) *RecommendService {
	deps.Normalizer = skill.NewNormalizer(graph)
	deps.Scorer = scoring.NewScorer(graph, scoring.WithNow(func() time.Time { return testNow }))
	deps.Ranker = ranking.NewRanker(ranking.WithShuffler(keepOrder))
	if cfg.SkillsTTL == 0 {
		cfg.SkillsTTL = time.Hour
	}
	if cfg.ResultsTTL == 0 {
		cfg.ResultsTTL = time.Hour
	}
	return NewRecommendService(deps, cfg)
}

// goRepos returns n active Go repositories in the small tier with descending stars.
func goRepos(n int) []*domain.Repo {
	now := testNow
	out := make([]*domain.Repo, 0, n)
	for i := range n {
		out = append(out, &domain.Repo{
			ID:          int64(i + 1),
			Name:        fmt.Sprintf("acme/tool-%02d", i),
			Description: "A golang cli with backend concurrency helpers",
			License:     "MIT",
			Language:    "Go",
			Topics:      []string{"go", "cli"},
			Stars:       450 - i*10,
			Forks:       20,
			OpenIssues:  10,
			CreatedAt:   now.AddDate(-2, 0, 0),
			UpdatedAt:   now.Add(-48 * time.Hour),
			PushedAt:    now.Add(-48 * time.Hour),
		})
	}
	return out
}

func TestNormalizeSkills(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		svc := newService(Deps{}, Config{})
		got := svc.NormalizeSkills(context.Background(), nil)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("cached by sorted input", func(t *testing.T) {
		mem := cache.NewMemory(10)
		svc := newService(Deps{Cache: mem}, Config{})

		first := svc.NormalizeSkills(context.Background(), []string{"React", "golang"})
		second := svc.NormalizeSkills(context.Background(), []string{"golang", "React"})

		assert.Equal(t, first, second)
		assert.Equal(t, 1, mem.Len())
		require.Len(t, first, 2)
		assert.ElementsMatch(t, []string{"go", "react"}, []string{first[0].Normalized, first[1].Normalized})
	})

	t.Run("identical without cache", func(t *testing.T) {
		withCache := newService(Deps{Cache: cache.NewMemory(10)}, Config{})
		without := newService(Deps{}, Config{})
		in := []string{"k8s", "docker", "python", "quantum basket weaving"}

		_ = withCache.NormalizeSkills(context.Background(), in)
		assert.Equal(t, without.NormalizeSkills(context.Background(), in), withCache.NormalizeSkills(context.Background(), in))
	})

	t.Run("backend errors are misses", func(t *testing.T) {
		mc := new(MockCache)
		mc.On("Get", mock.Anything, mock.Anything).Return(nil, false, errors.New("connection refused"))
		mc.On("Set", mock.Anything, mock.Anything, mock.Anything, time.Hour).Return(errors.New("connection refused"))
		svc := newService(Deps{Cache: mc}, Config{})

		got := svc.NormalizeSkills(context.Background(), []string{"go"})
		require.Len(t, got, 1)
		assert.Equal(t, "go", got[0].Normalized)
		mc.AssertExpectations(t)
	})

	t.Run("corrupt entry is recomputed", func(t *testing.T) {
		mc := new(MockCache)
		mc.On("Get", mock.Anything, mock.Anything).Return([]byte("{not json"), true, nil)
		mc.On("Set", mock.Anything, mock.Anything, mock.Anything, time.Hour).Return(nil)
		svc := newService(Deps{Cache: mc}, Config{})

		got := svc.NormalizeSkills(context.Background(), []string{"go"})
		require.Len(t, got, 1)
		assert.Equal(t, domain.CategoryLanguage, got[0].Category)
	})
}

func TestGetExpandedSkills(t *testing.T) {
	svc := newService(Deps{}, Config{})
	skills := svc.NormalizeSkills(context.Background(), []string{"go"})

	got := svc.GetExpandedSkills(skills)
	assert.Contains(t, got, "go")
	assert.Contains(t, got, "golang")
	assert.Contains(t, got, "concurrency")
}

func TestScoreRepositories(t *testing.T) {
	svc := newService(Deps{}, Config{ScoreWorkers: 2})
	skills := svc.NormalizeSkills(context.Background(), []string{"go"})
	opts := domain.ScoreOptions{Mode: domain.ModeLearning}

	repos := goRepos(6)
	repos[3].Language = "Haskell"
	repos[3].Topics = nil
	repos[3].Description = "monads"
	in := append([]*domain.Repo{nil}, repos...)

	ranked := svc.ScoreRepositories(in, skills, opts)
	require.Len(t, ranked, 6)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score.Final, ranked[i].Score.Final)
	}
	for _, sr := range ranked {
		assert.Equal(t, svc.ScoreRepository(sr.Repo, skills, opts), sr.Score, sr.Repo.Name)
	}
	assert.Equal(t, "acme/tool-03", ranked[len(ranked)-1].Repo.Name)
}

func TestGetScoringExplanation(t *testing.T) {
	svc := newService(Deps{}, Config{})
	assert.Equal(t, scoring.Explain(domain.ScoreBreakdown{LanguageMatch: 1}), svc.GetScoringExplanation(domain.ScoreBreakdown{LanguageMatch: 1}))
	assert.NotEmpty(t, svc.GetScoringExplanation(domain.ScoreBreakdown{}))
}

func TestPlanQueries(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	pushed := now.Add(-90 * 24 * time.Hour)
	norm := skill.NewNormalizer(graph)

	tests := []struct {
		name string
		raw  []string
		mode domain.Mode
		max  int
		want []domain.SearchQuery
	}{
		{
			name: "profile building uses the star band",
			raw:  []string{"go", "ml"},
			mode: domain.ModeProfileBuilding,
			max:  6,
			want: []domain.SearchQuery{
				{Language: "go", MinStars: 50, MaxStars: 5000, PushedAfter: pushed, PerPage: 30},
				{Topic: "machine-learning", MinStars: 50, MaxStars: 5000, PushedAfter: pushed, PerPage: 30},
			},
		},
		{
			name: "learning asks for good first issues",
			raw:  []string{"docker"},
			mode: domain.ModeLearning,
			max:  6,
			want: []domain.SearchQuery{
				{Topic: "docker", MinStars: 50, MaxStars: 5000, PushedAfter: pushed, GoodFirstIssues: true, PerPage: 30},
			},
		},
		{
			name: "quick wins drops the band",
			raw:  []string{"rust"},
			mode: domain.ModeQuickWins,
			max:  6,
			want: []domain.SearchQuery{
				{Language: "rust", PushedAfter: pushed, GoodFirstIssues: true, PerPage: 30},
			},
		},
		{
			name: "capped and heavier skills first",
			raw:  []string{"docker", "go", "golang"},
			mode: domain.ModeProfileBuilding,
			max:  1,
			want: []domain.SearchQuery{
				{Language: "go", MinStars: 50, MaxStars: 5000, PushedAfter: pushed, PerPage: 30},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlanQueries(norm.Normalize(tt.raw), tt.mode, now, tt.max, 30)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecommend_Pipeline(t *testing.T) {
	searcher := new(MockSearcher)
	searcher.On("SearchRepositories", mock.Anything, mock.MatchedBy(func(q domain.SearchQuery) bool {
		return q.Language == "go"
	})).Return(goRepos(12), nil)

	archived := &domain.Repo{ID: 99, Name: "acme/old", Language: "Go", Stars: 300, Archived: true, PushedAt: time.Now()}
	searcher.On("SearchRepositories", mock.Anything, mock.MatchedBy(func(q domain.SearchQuery) bool {
		return q.Topic == "docker"
	})).Return(append(goRepos(2), archived), nil)

	svc := newService(Deps{Searcher: searcher, Filter: filter.NewRepoFilter(365)}, Config{})

	res, err := svc.Recommend(context.Background(), domain.RecommendRequest{
		Skills:  []string{"golang", "docker"},
		Goal:    "learning",
		Page:    3,
		PerPage: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ModeLearning, res.Mode)
	assert.Equal(t, 12, res.Total)
	assert.Equal(t, 3, res.Page)
	assert.Equal(t, 5, res.PerPage)
	require.Len(t, res.Items, 2)
	for _, item := range res.Items {
		assert.NotEmpty(t, item.Explanation)
		assert.NotEqual(t, "acme/old", item.Repo.Name)
	}
	searcher.AssertNumberOfCalls(t, "SearchRepositories", 2)
}

func TestRecommend_Defaults(t *testing.T) {
	searcher := new(MockSearcher)
	searcher.On("SearchRepositories", mock.Anything, mock.Anything).Return(goRepos(15), nil)
	svc := newService(Deps{Searcher: searcher}, Config{DefaultMode: domain.ModeQuickWins})

	res, err := svc.Recommend(context.Background(), domain.RecommendRequest{Skills: []string{"go"}})
	require.NoError(t, err)
	assert.Equal(t, domain.ModeQuickWins, res.Mode)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, DefaultPerPage, res.PerPage)
	assert.Len(t, res.Items, DefaultPerPage)
	assert.Equal(t, 15, res.Total)
}

func TestRecommend_PageOutOfRange(t *testing.T) {
	searcher := new(MockSearcher)
	searcher.On("SearchRepositories", mock.Anything, mock.Anything).Return(goRepos(3), nil)
	svc := newService(Deps{Searcher: searcher}, Config{})

	res, err := svc.Recommend(context.Background(), domain.RecommendRequest{Skills: []string{"go"}, Page: 4})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
}

func TestRecommend_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		req  domain.RecommendRequest
	}{
		{"unknown goal", domain.RecommendRequest{Skills: []string{"go"}, Goal: "fame"}},
		{"negative page", domain.RecommendRequest{Skills: []string{"go"}, Page: -1}},
		{"page too large", domain.RecommendRequest{Skills: []string{"go"}, PerPage: 51}},
		{"override out of range", domain.RecommendRequest{Skills: []string{"go"}, WeightOverrides: &domain.WeightOverrides{Quality: ptr(1.5)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher := new(MockSearcher)
			svc := newService(Deps{Searcher: searcher}, Config{})

			_, err := svc.Recommend(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, common.IsCode(err, common.ErrCodeInvalidInput), err.Error())
			searcher.AssertNotCalled(t, "SearchRepositories", mock.Anything, mock.Anything)
		})
	}
}

func ptr(v float64) *float64 { return &v }

func TestRecommend_EmptySkills(t *testing.T) {
	searcher := new(MockSearcher)
	svc := newService(Deps{Searcher: searcher}, Config{})

	res, err := svc.Recommend(context.Background(), domain.RecommendRequest{Skills: []string{"  ", ""}})
	require.NoError(t, err)
	assert.Empty(t, res.Skills)
	assert.Empty(t, res.Items)
	assert.Zero(t, res.Total)
	searcher.AssertNotCalled(t, "SearchRepositories", mock.Anything, mock.Anything)
}

func TestRecommend_ResultCache(t *testing.T) {
	searcher := new(MockSearcher)
	searcher.On("SearchRepositories", mock.Anything, mock.Anything).Return(goRepos(8), nil)
	svc := newService(Deps{Searcher: searcher, Cache: cache.NewMemory(10)}, Config{})
	req := domain.RecommendRequest{Skills: []string{"go"}, PerPage: 4}

	first, err := svc.Recommend(context.Background(), req)
	require.NoError(t, err)

	req.Page = 2
	second, err := svc.Recommend(context.Background(), req)
	require.NoError(t, err)

	searcher.AssertNumberOfCalls(t, "SearchRepositories", 1)
	assert.Equal(t, 8, second.Total)
	require.Len(t, second.Items, 4)
	seen := map[string]bool{}
	for _, item := range append(first.Items, second.Items...) {
		assert.False(t, seen[item.Repo.Name], "duplicate %s", item.Repo.Name)
		seen[item.Repo.Name] = true
	}

	// A different goal is a different key.
	req.Goal = "quick-wins"
	_, err = svc.Recommend(context.Background(), req)
	require.NoError(t, err)
	searcher.AssertNumberOfCalls(t, "SearchRepositories", 2)
}

func TestRecommend_ResultCacheKeysOnWeights(t *testing.T) {
	searcher := new(MockSearcher)
	searcher.On("SearchRepositories", mock.Anything, mock.Anything).Return(goRepos(3), nil)
	svc := newService(Deps{Searcher: searcher, Cache: cache.NewMemory(20)}, Config{MaxQueries: 1})

	_, err := svc.Recommend(context.Background(), domain.RecommendRequest{Skills: []string{"go", "rust"}})
	require.NoError(t, err)
	searcher.AssertNumberOfCalls(t, "SearchRepositories", 1)

	// a repeated skill gains weight and may plan different queries
	_, err = svc.Recommend(context.Background(), domain.RecommendRequest{Skills: []string{"rust", "rust", "go"}})
	require.NoError(t, err)
	searcher.AssertNumberOfCalls(t, "SearchRepositories", 2)

	// input order alone is still a hit
	_, err = svc.Recommend(context.Background(), domain.RecommendRequest{Skills: []string{"rust", "go"}})
	require.NoError(t, err)
	searcher.AssertNumberOfCalls(t, "SearchRepositories", 2)
}

func TestKeySkills(t *testing.T) {
	skills := []domain.NormalizedSkill{
		{Normalized: "rust", Weight: 2},
		{Normalized: "go", Weight: 1},
	}
	assert.Equal(t, []weightedSkill{{Name: "go", Weight: 1}, {Name: "rust", Weight: 2}}, keySkills(skills))
	assert.NotEqual(t, keySkills(skills), keySkills(skills[1:]))
}

func TestRecommend_PartialSearchFailure(t *testing.T) {
	searcher := new(MockSearcher)
	searcher.On("SearchRepositories", mock.Anything, mock.MatchedBy(func(q domain.SearchQuery) bool {
		return q.Language == "go"
	})).Return(goRepos(4), nil)
	searcher.On("SearchRepositories", mock.Anything, mock.MatchedBy(func(q domain.SearchQuery) bool {
		return q.Topic == "docker"
	})).Return(nil, errors.New("502 bad gateway"))

	mem := cache.NewMemory(10)
	svc := newService(Deps{Searcher: searcher, Cache: mem}, Config{})

	res, err := svc.Recommend(context.Background(), domain.RecommendRequest{Skills: []string{"go", "docker"}})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Total)
	// Only the skills entry is cached; the partial result is not.
	assert.Equal(t, 1, mem.Len())
}

func TestRecommend_AllSearchesFail(t *testing.T) {
	searcher := new(MockSearcher)
	searcher.On("SearchRepositories", mock.Anything, mock.Anything).Return(nil, errors.New("502 bad gateway"))
	svc := newService(Deps{Searcher: searcher}, Config{})

	_, err := svc.Recommend(context.Background(), domain.RecommendRequest{Skills: []string{"go", "docker"}})
	require.Error(t, err)
	assert.True(t, common.IsCode(err, common.ErrCodeGitHubAPI))
}

func TestRecommend_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	searcher := new(MockSearcher)
	searcher.On("SearchRepositories", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(nil, context.Canceled)
	svc := newService(Deps{Searcher: searcher}, Config{})

	_, err := svc.Recommend(ctx, domain.RecommendRequest{Skills: []string{"go", "docker"}})
	assert.ErrorIs(t, err, context.Canceled)
	searcher.AssertNumberOfCalls(t, "SearchRepositories", 1)
}

func TestRecommend_Hydrates(t *testing.T) {
	repos := goRepos(3)
	searcher := new(MockSearcher)
	searcher.On("SearchRepositories", mock.Anything, mock.Anything).Return(repos, nil)

	hydrator := new(MockHydrator)
	hydrator.On("Hydrate", mock.Anything, mock.Anything, true).
		Run(func(args mock.Arguments) {
			for _, r := range args.Get(1).([]*domain.Repo) {
				r.GoodFirstIssues = 7
			}
		}).
		Return(repos, nil)

	svc := newService(Deps{Searcher: searcher, Hydrator: hydrator}, Config{})
	enrich := true
	res, err := svc.Recommend(context.Background(), domain.RecommendRequest{Skills: []string{"go"}, Enrich: &enrich})
	require.NoError(t, err)
	require.Len(t, res.Items, 3)
	for _, item := range res.Items {
		assert.Equal(t, 7, item.Repo.GoodFirstIssues)
	}
	hydrator.AssertExpectations(t)
}

func TestRecommend_EnrichOverride(t *testing.T) {
	yes, no := true, false
	tests := []struct {
		name          string
		defaultEnrich bool
		enrich        *bool
		want          bool
	}{
		{name: "config default", defaultEnrich: true, enrich: nil, want: true},
		{name: "request turns it off", defaultEnrich: true, enrich: &no, want: false},
		{name: "request turns it on", defaultEnrich: false, enrich: &yes, want: true},
		{name: "off by default", defaultEnrich: false, enrich: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repos := goRepos(2)
			searcher := new(MockSearcher)
			searcher.On("SearchRepositories", mock.Anything, mock.Anything).Return(repos, nil)
			hydrator := new(MockHydrator)
			hydrator.On("Hydrate", mock.Anything, mock.Anything, tt.want).Return(repos, nil)

			svc := newService(Deps{Searcher: searcher, Hydrator: hydrator}, Config{DefaultEnrich: tt.defaultEnrich})
			_, err := svc.Recommend(context.Background(), domain.RecommendRequest{Skills: []string{"go"}, Enrich: tt.enrich})
			require.NoError(t, err)
			hydrator.AssertExpectations(t)
		})
	}
}

func TestNotifyTop(t *testing.T) {
	result := &domain.RecommendResult{Mode: domain.ModeLearning}
	for _, r := range goRepos(4) {
		result.Items = append(result.Items, domain.Recommendation{Repo: r, Explanation: "Strong language match"})
	}

	t.Run("top n", func(t *testing.T) {
		notifier := new(MockNotifier)
		notifier.On("NotifyDigest", mock.Anything, "Repositories for your skills (learning)", result.Items[:2]).Return(nil)
		svc := newService(Deps{Notifier: notifier}, Config{})

		require.NoError(t, svc.NotifyTop(context.Background(), result, 2))
		notifier.AssertExpectations(t)
	})

	t.Run("empty result", func(t *testing.T) {
		notifier := new(MockNotifier)
		svc := newService(Deps{Notifier: notifier}, Config{})

		require.NoError(t, svc.NotifyTop(context.Background(), &domain.RecommendResult{}, 5))
		notifier.AssertNotCalled(t, "NotifyDigest", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("notifier error", func(t *testing.T) {
		notifier := new(MockNotifier)
		notifier.On("NotifyDigest", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("webhook down"))
		svc := newService(Deps{Notifier: notifier}, Config{})

		assert.EqualError(t, svc.NotifyTop(context.Background(), result, 0), "webhook down")
	})

	t.Run("no notifier", func(t *testing.T) {
		svc := newService(Deps{}, Config{})
		err := svc.NotifyTop(context.Background(), result, 1)
		assert.True(t, common.IsCode(err, common.ErrCodeNotification))
	})
}

func TestPaginate(t *testing.T) {
	items := make([]domain.ScoredRepo, 7)
	assert.Len(t, paginate(items, 1, 5), 5)
	assert.Len(t, paginate(items, 2, 5), 2)
	assert.Empty(t, paginate(items, 3, 5))

	page, perPage := pageParams(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultPerPage, perPage)
}
