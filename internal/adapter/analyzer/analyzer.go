// Package analyzer hydrates search candidates with data the search API does not return:
// good-first-issue counts and, optionally, enrichment blocks.
package analyzer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github-skill-scout/internal/domain"
	"github-skill-scout/internal/logging"
	"github-skill-scout/internal/metrics"
	"github-skill-scout/internal/port"
)

const (
	DefaultMaxGoroutines = 3
	defaultRepoTimeout   = 30 * time.Second
)

// Hydrator fills GoodFirstIssues and Enriched on candidates with a bounded worker pool.
// Failures are logged per repository; the repository keeps whatever data it already had.
type Hydrator struct {
	counter       port.IssueCounter
	enricher      port.Enricher
	maxGoroutines int
	repoTimeout   time.Duration
}

// NewHydrator creates a hydrator. Either collaborator may be nil to skip its step.
func NewHydrator(counter port.IssueCounter, enricher port.Enricher) *Hydrator {
	return &Hydrator{
		counter:       counter,
		enricher:      enricher,
		maxGoroutines: DefaultMaxGoroutines,
		repoTimeout:   defaultRepoTimeout,
	}
}

// SetMaxGoroutines sets the worker count. Non-positive values are ignored.
func (h *Hydrator) SetMaxGoroutines(n int) {
	if n > 0 {
		h.maxGoroutines = n
	}
}

// SetRepoTimeout bounds the work spent on a single repository.
func (h *Hydrator) SetRepoTimeout(d time.Duration) {
	if d > 0 {
		h.repoTimeout = d
	}
}

// Hydrate processes repos in place and returns them in their original order.
// enrich selects whether the enricher runs. A cancelled context stops the remaining
// jobs; the partially hydrated slice is returned with the context error.
func (h *Hydrator) Hydrate(ctx context.Context, repos []*domain.Repo, enrich bool) ([]*domain.Repo, error) {
	if len(repos) == 0 {
		return repos, nil
	}
	workers := min(h.maxGoroutines, len(repos))
	logging.Debug().Int("repos", len(repos)).Int("workers", workers).Bool("enrich", enrich).Msg("hydrating candidates")

	jobs := make(chan *domain.Repo, len(repos))
	for _, repo := range repos {
		if repo != nil {
			jobs <- repo
		}
	}
	close(jobs)

	var (
		wg       sync.WaitGroup
		failures atomic.Int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for repo := range jobs {
				if ctx.Err() != nil {
					return
				}
				failures.Add(int32(h.hydrateOne(ctx, repo, enrich, workerID)))
			}
		}(i + 1)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		logging.Warn().Err(err).Msg("hydration interrupted")
		return repos, err
	}
	if n := failures.Load(); n > 0 {
		logging.Warn().Int32("failures", n).Int("repos", len(repos)).Msg("hydration finished with failures")
	}
	return repos, nil
}

// hydrateOne returns the number of failed steps.
func (h *Hydrator) hydrateOne(ctx context.Context, repo *domain.Repo, enrich bool, workerID int) int {
	repoCtx, cancel := context.WithTimeout(ctx, h.repoTimeout)
	defer cancel()

	log := logging.With().Int("worker", workerID).Str("repo", repo.Name).Logger()
	failed := 0

	if h.counter != nil {
		n, err := h.counter.CountGoodFirstIssues(repoCtx, repo)
		if err != nil {
			failed++
			metrics.EnrichmentFailures.WithLabelValues("good_first_issues").Inc()
			log.Warn().Err(err).Msg("good first issue count failed")
		} else {
			repo.GoodFirstIssues = n
		}
	}

	if enrich && h.enricher != nil {
		data, err := h.enricher.Enrich(repoCtx, repo)
		if err != nil {
			failed++
			metrics.EnrichmentFailures.WithLabelValues("enrich").Inc()
			log.Warn().Err(err).Msg("enrichment failed")
		} else {
			repo.Enriched = data
		}
	}

	log.Debug().Int("good_first_issues", repo.GoodFirstIssues).Bool("enriched", repo.Enriched != nil).Msg("hydrated")
	return failed
}
