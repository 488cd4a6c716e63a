package github

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github-skill-scout/internal/common"
	"github-skill-scout/internal/domain"
	"github-skill-scout/internal/logging"
	"github-skill-scout/internal/metrics"

	"github.com/google/go-github/v53/github"
	"github.com/sony/gobreaker/v2"
)

const (
	defaultPerPage    = 30
	defaultMaxRetries = 3
	defaultRetryDelay = time.Second
	breakerName       = "github-search"
)

// Searcher implements port.Searcher and port.IssueCounter on the GitHub search API.
// Every call runs through a circuit breaker wrapping an exponential-backoff retry loop.
type Searcher struct {
	client     *github.Client
	breaker    *gobreaker.CircuitBreaker[any]
	maxRetries int
	retryDelay time.Duration
}

// SearcherOption configures a Searcher.
type SearcherOption func(*Searcher)

// WithRetry overrides the retry budget of each call.
func WithRetry(maxRetries int, initialDelay time.Duration) SearcherOption {
	return func(s *Searcher) {
		s.maxRetries = maxRetries
		s.retryDelay = initialDelay
	}
}

// WithBreakerSettings replaces the default circuit breaker settings.
func WithBreakerSettings(settings gobreaker.Settings) SearcherOption {
	return func(s *Searcher) {
		s.breaker = newBreaker(settings)
	}
}

// NewSearcher wraps client.
func NewSearcher(client *github.Client, opts ...SearcherOption) *Searcher {
	s := &Searcher{
		client:     client,
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.breaker == nil {
		s.breaker = newBreaker(DefaultBreakerSettings())
	}
	return s
}

// DefaultBreakerSettings opens the breaker after 5 consecutive failed calls and probes again after 30s.
func DefaultBreakerSettings() gobreaker.Settings {
	return gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
}

func newBreaker(settings gobreaker.Settings) *gobreaker.CircuitBreaker[any] {
	if settings.Name == "" {
		settings.Name = breakerName
	}
	settings.IsSuccessful = func(err error) bool {
		return err == nil || clientError(err) || errors.Is(err, context.Canceled)
	}
	settings.OnStateChange = func(name string, from, to gobreaker.State) {
		metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
		logging.Warn().
			Str("breaker", name).
			Str("from", from.String()).
			Str("to", to.String()).
			Msg("circuit breaker state changed")
	}
	metrics.CircuitBreakerState.WithLabelValues(settings.Name).Set(float64(gobreaker.StateClosed))
	return gobreaker.NewCircuitBreaker[any](settings)
}

// call runs fn under the breaker and the retry loop, recording metrics for endpoint.
func (s *Searcher) call(ctx context.Context, endpoint string, fn func() error) error {
	start := time.Now()
	_, err := s.breaker.Execute(func() (any, error) {
		return nil, common.Do(ctx, fn,
			common.WithMaxRetries(s.maxRetries),
			common.WithInitialDelay(s.retryDelay),
			common.WithRetryIf(retryable),
		)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.GitHubRequests.WithLabelValues(endpoint, "rejected").Inc()
		return err
	}
	metrics.ObserveGitHub(endpoint, start, err)
	return err
}

// SearchRepositories runs one repository search, most-starred first.
func (s *Searcher) SearchRepositories(ctx context.Context, q domain.SearchQuery) ([]*domain.Repo, error) {
	query := BuildQuery(q)
	perPage := q.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	opts := &github.SearchOptions{
		Sort:  "stars",
		Order: "desc",
		ListOptions: github.ListOptions{
			PerPage: perPage,
		},
	}

	var result *github.RepositoriesSearchResult
	err := s.call(ctx, "search_repositories", func() error {
		var apiErr error
		result, _, apiErr = s.client.Search.Repositories(ctx, query, opts)
		return apiErr
	})
	if err != nil {
		return nil, common.WrapError(common.ErrCodeGitHubAPI, fmt.Sprintf("repository search %q failed", query), err)
	}

	repos := make([]*domain.Repo, 0, len(result.Repositories))
	for _, item := range result.Repositories {
		repos = append(repos, toDomain(item))
	}
	logging.Debug().Str("query", query).Int("results", len(repos)).Msg("repository search")
	return repos, nil
}

// CountGoodFirstIssues returns the number of open issues labelled "good first issue".
func (s *Searcher) CountGoodFirstIssues(ctx context.Context, repo *domain.Repo) (int, error) {
	if repo == nil || repo.Name == "" {
		return 0, common.NewError(common.ErrCodeInvalidInput, "repository name is required")
	}
	query := fmt.Sprintf(`repo:%s label:"good first issue" state:open is:issue`, repo.Name)
	opts := &github.SearchOptions{ListOptions: github.ListOptions{PerPage: 1}}

	var result *github.IssuesSearchResult
	err := s.call(ctx, "search_issues", func() error {
		var apiErr error
		result, _, apiErr = s.client.Search.Issues(ctx, query, opts)
		return apiErr
	})
	if err != nil {
		return 0, common.WrapError(common.ErrCodeGitHubAPI, fmt.Sprintf("good first issue count for %s failed", repo.Name), err)
	}
	return result.GetTotal(), nil
}

// GetRepository fetches one repository by its "owner/name".
func (s *Searcher) GetRepository(ctx context.Context, fullName string) (*domain.Repo, error) {
	owner, name, err := splitName(&domain.Repo{Name: fullName})
	if err != nil {
		return nil, err
	}

	var item *github.Repository
	err = s.call(ctx, "get_repository", func() error {
		var apiErr error
		item, _, apiErr = s.client.Repositories.Get(ctx, owner, name)
		return apiErr
	})
	if err != nil {
		return nil, common.WrapError(common.ErrCodeGitHubAPI, fmt.Sprintf("fetching %s failed", fullName), err)
	}
	return toDomain(item), nil
}

// BuildQuery renders q in GitHub search syntax.
func BuildQuery(q domain.SearchQuery) string {
	var parts []string
	if q.Language != "" {
		parts = append(parts, "language:"+quote(q.Language))
	}
	if q.Topic != "" {
		parts = append(parts, "topic:"+quote(q.Topic))
	}
	switch {
	case q.MaxStars > 0:
		parts = append(parts, fmt.Sprintf("stars:%d..%d", q.MinStars, q.MaxStars))
	case q.MinStars > 0:
		parts = append(parts, fmt.Sprintf("stars:>=%d", q.MinStars))
	}
	if !q.PushedAfter.IsZero() {
		parts = append(parts, "pushed:>"+q.PushedAfter.UTC().Format("2006-01-02"))
	}
	if q.GoodFirstIssues {
		parts = append(parts, "good-first-issues:>0")
	}
	parts = append(parts, "archived:false")
	return strings.Join(parts, " ")
}

func quote(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if strings.ContainsAny(v, " \t") {
		return `"` + v + `"`
	}
	return v
}

func toDomain(item *github.Repository) *domain.Repo {
	license := ""
	if l := item.GetLicense(); l != nil {
		license = l.GetSPDXID()
		if license == "NOASSERTION" {
			license = "Other"
		}
	}
	return &domain.Repo{
		ID:          item.GetID(),
		Name:        item.GetFullName(),
		URL:         item.GetHTMLURL(),
		Description: item.GetDescription(),
		Homepage:    item.GetHomepage(),
		License:     license,
		Language:    item.GetLanguage(),
		Topics:      item.Topics,
		Stars:       item.GetStargazersCount(),
		Forks:       item.GetForksCount(),
		OpenIssues:  item.GetOpenIssuesCount(),
		Archived:    item.GetArchived(),
		Fork:        item.GetFork(),
		CreatedAt:   item.GetCreatedAt().Time,
		UpdatedAt:   item.GetUpdatedAt().Time,
		PushedAt:    item.GetPushedAt().Time,
	}
}
