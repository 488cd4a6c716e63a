package port

import (
	"context"
	"time"

	"github-skill-scout/internal/domain"
)

// Searcher finds candidate repositories, e.g. through the GitHub search API.
type Searcher interface {
	SearchRepositories(ctx context.Context, query domain.SearchQuery) ([]*domain.Repo, error)
}

// IssueCounter counts open issues labelled as good first issues.
type IssueCounter interface {
	CountGoodFirstIssues(ctx context.Context, repo *domain.Repo) (int, error)
}

// Enricher fetches history for one repository and returns its analysis blocks.
// Blocks it could not compute are left nil.
type Enricher interface {
	Enrich(ctx context.Context, repo *domain.Repo) (*domain.EnrichedData, error)
}

// ReadmeAnalyzer rates README text. The heuristic analyzer and the LLM analyzer both implement it.
type ReadmeAnalyzer interface {
	AnalyzeReadme(ctx context.Context, repo *domain.Repo, readme string) (*domain.ReadmeAnalysis, error)
}

// Cache is a byte-oriented TTL cache. A miss is (nil, false, nil); errors mean the backend failed
// and callers treat them as a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Notifier pushes a digest of recommendations (Feishu, DingTalk, ...).
type Notifier interface {
	NotifyDigest(ctx context.Context, title string, items []domain.Recommendation) error
}

// Filter drops candidates that are not worth scoring.
type Filter interface {
	Filter(repos []*domain.Repo) []*domain.Repo
}

// Hydrator fills good-first-issue counts and, when enrich is set, enrichment blocks.
// Repositories are updated in place; failures for one repository never abort the batch.
type Hydrator interface {
	Hydrate(ctx context.Context, repos []*domain.Repo, enrich bool) ([]*domain.Repo, error)
}
