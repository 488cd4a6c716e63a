package port_test

import (
	"context"
	"testing"
	"time"

	"github-skill-scout/internal/adapter/analyzer"
	"github-skill-scout/internal/adapter/cache"
	"github-skill-scout/internal/adapter/feishu"
	"github-skill-scout/internal/adapter/filter"
	"github-skill-scout/internal/adapter/gemini"
	"github-skill-scout/internal/adapter/github"
	"github-skill-scout/internal/adapter/repository"
	"github-skill-scout/internal/domain"
	"github-skill-scout/internal/enrichment"
	"github-skill-scout/internal/port"

	"github.com/stretchr/testify/assert"
)

// Compile-time checks that every adapter satisfies its port.
var (
	_ port.Searcher       = (*github.Searcher)(nil)
	_ port.IssueCounter   = (*github.Searcher)(nil)
	_ port.Enricher       = (*github.Enricher)(nil)
	_ port.ReadmeAnalyzer = (*enrichment.ReadmeAnalyzer)(nil)
	_ port.ReadmeAnalyzer = (*gemini.ReadmeAnalyzer)(nil)
	_ port.Cache          = (*cache.Memory)(nil)
	_ port.Cache          = (*repository.PostgresCache)(nil)
	_ port.Notifier       = (*feishu.Notifier)(nil)
	_ port.Filter         = (*filter.RepoFilter)(nil)
	_ port.Hydrator       = (*analyzer.Hydrator)(nil)
)

type nop struct{}

func (nop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (nop) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (nop) NotifyDigest(context.Context, string, []domain.Recommendation) error { return nil }

func TestInterfaces(t *testing.T) {
	var c port.Cache = nop{}
	v, ok, err := c.Get(context.Background(), "k")
	assert.Nil(t, v)
	assert.False(t, ok)
	assert.NoError(t, err)

	var n port.Notifier = nop{}
	assert.NoError(t, n.NotifyDigest(context.Background(), "digest", nil))
}
