package filter

import (
	"time"

	"github-skill-scout/internal/domain"
	"github-skill-scout/internal/logging"
)

// DefaultMaxInactiveDays drops repositories without activity for about a year.
const DefaultMaxInactiveDays = 365

// RepoFilter prunes search candidates before they are hydrated and scored.
type RepoFilter struct {
	maxInactive time.Duration
	nowFunc     func() time.Time
}

// NewRepoFilter creates a filter. maxInactiveDays <= 0 uses DefaultMaxInactiveDays.
func NewRepoFilter(maxInactiveDays int) *RepoFilter {
	if maxInactiveDays <= 0 {
		maxInactiveDays = DefaultMaxInactiveDays
	}
	return &RepoFilter{
		maxInactive: time.Duration(maxInactiveDays) * 24 * time.Hour,
		nowFunc:     time.Now,
	}
}

// Filter removes duplicates (first occurrence wins), nil entries, archived repositories,
// forks and repositories inactive for longer than the cut-off. Input order is preserved.
func (f *RepoFilter) Filter(repos []*domain.Repo) []*domain.Repo {
	current := time.Now()
	maxInactive := time.Duration(DefaultMaxInactiveDays) * 24 * time.Hour
	if f != nil {
		maxInactive = f.maxInactive
		if f.nowFunc != nil {
			current = f.nowFunc()
		}
	}

	filtered := make([]*domain.Repo, 0, len(repos))
	var archived, forks, stale int
	for _, repo := range Dedupe(repos) {
		switch {
		case repo.Archived:
			archived++
		case repo.Fork:
			forks++
		case isStale(repo, current, maxInactive):
			stale++
		default:
			filtered = append(filtered, repo)
		}
	}

	logging.Debug().
		Int("in", len(repos)).
		Int("out", len(filtered)).
		Int("archived", archived).
		Int("forks", forks).
		Int("stale", stale).
		Msg("filtered candidates")
	return filtered
}

func isStale(repo *domain.Repo, now time.Time, maxInactive time.Duration) bool {
	last := repo.LastActivity()
	if last.IsZero() {
		return true
	}
	return now.Sub(last) > maxInactive
}

// Dedupe drops nil entries and repeated repositories. Repositories are identified by ID,
// or by full name when the ID is unset.
func Dedupe(repos []*domain.Repo) []*domain.Repo {
	seenIDs := make(map[int64]struct{}, len(repos))
	seenNames := make(map[string]struct{})
	out := make([]*domain.Repo, 0, len(repos))
	for _, repo := range repos {
		if repo == nil {
			continue
		}
		if repo.ID != 0 {
			if _, ok := seenIDs[repo.ID]; ok {
				continue
			}
			seenIDs[repo.ID] = struct{}{}
		} else {
			if _, ok := seenNames[repo.Name]; ok {
				continue
			}
			seenNames[repo.Name] = struct{}{}
		}
		out = append(out, repo)
	}
	return out
}
