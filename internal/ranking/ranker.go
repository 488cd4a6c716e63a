// Package ranking orders scored repositories for presentation.
//
// The output is NOT a pure score sort. Near-tied scores are shuffled, and the list is re-interleaved
// by repository size so that small and medium projects are over-represented relative to their scores.
// That bias is a product decision.
package ranking

import (
	"cmp"
	"math"
	"math/rand/v2"
	"slices"
	"sync"

	"github-skill-scout/internal/domain"
)

const (
	// MaxResults caps every ranked list.
	MaxResults = 50
	// TieBand is the relative score distance under which repositories count as tied.
	TieBand = 0.03

	mediumTierStars = 500
	largeTierStars  = 2000
)

// Tier is a star-count bucket used for size diversity.
type Tier int

const (
	TierSmall Tier = iota
	TierMedium
	TierLarge
)

func (t Tier) String() string {
	switch t {
	case TierSmall:
		return "small"
	case TierMedium:
		return "medium"
	default:
		return "large"
	}
}

// TierOf buckets a star count. Repositories under 50 stars fall into the small tier.
func TierOf(stars int) Tier {
	switch {
	case stars >= largeTierStars:
		return TierLarge
	case stars >= mediumTierStars:
		return TierMedium
	default:
		return TierSmall
	}
}

// emission pattern; an exhausted tier yields to the smallest non-empty one.
var pattern = [...]Tier{TierSmall, TierSmall, TierMedium, TierLarge}

// Shuffler permutes n elements through swap. rand.Shuffle has this signature.
type Shuffler func(n int, swap func(i, j int))

// Ranker sorts, tie-shuffles and size-interleaves scored repositories.
type Ranker struct {
	shuffle Shuffler
	limit   int
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithShuffler replaces the random tie-band shuffle.
func WithShuffler(s Shuffler) Option {
	return func(r *Ranker) {
		if s != nil {
			r.shuffle = s
		}
	}
}

// WithSeed makes the tie-band shuffle reproducible.
func WithSeed(seed uint64) Option {
	return func(r *Ranker) {
		rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		var mu sync.Mutex
		r.shuffle = func(n int, swap func(i, j int)) {
			mu.Lock()
			defer mu.Unlock()
			rng.Shuffle(n, swap)
		}
	}
}

// WithLimit lowers the output cap. Values outside 1..MaxResults are ignored.
func WithLimit(n int) Option {
	return func(r *Ranker) {
		if n > 0 && n <= MaxResults {
			r.limit = n
		}
	}
}

// NewRanker creates a ranker using the global random source.
func NewRanker(opts ...Option) *Ranker {
	r := &Ranker{
		shuffle: rand.Shuffle,
		limit:   MaxResults,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rank returns at most the configured limit of repositories. The input slice is not modified.
func (r *Ranker) Rank(items []domain.ScoredRepo) []domain.ScoredRepo {
	sorted := make([]domain.ScoredRepo, 0, len(items))
	for _, it := range items {
		if it.Repo != nil {
			sorted = append(sorted, it)
		}
	}

	SortByScore(sorted)
	for _, band := range TieBands(sorted) {
		if len(band) < 2 {
			continue
		}
		r.shuffle(len(band), func(i, j int) { band[i], band[j] = band[j], band[i] })
	}

	return interleave(sorted, r.limit)
}

// SortByScore orders by final score, highest first. Equal scores keep their input order.
func SortByScore(items []domain.ScoredRepo) {
	slices.SortStableFunc(items, func(a, b domain.ScoredRepo) int {
		return cmp.Compare(b.Score.Final, a.Score.Final)
	})
}

// TieBands splits a sorted list into consecutive runs whose members are within TieBand of the
// run's first member. The returned slices alias items.
func TieBands(items []domain.ScoredRepo) [][]domain.ScoredRepo {
	var bands [][]domain.ScoredRepo
	start := 0
	for i := 1; i <= len(items); i++ {
		if i < len(items) && sameBand(items[start].Score.Final, items[i].Score.Final) {
			continue
		}
		if i > start {
			bands = append(bands, items[start:i:i])
		}
		start = i
	}
	return bands
}

func sameBand(head, score float64) bool {
	if head == 0 {
		return score == 0
	}
	return math.Abs(head-score)/head <= TieBand
}

func interleave(items []domain.ScoredRepo, limit int) []domain.ScoredRepo {
	var tiers [3][]domain.ScoredRepo
	for _, it := range items {
		t := TierOf(it.Repo.Stars)
		tiers[t] = append(tiers[t], it)
	}

	n := min(len(items), limit)
	out := make([]domain.ScoredRepo, 0, n)
	for step := 0; len(out) < n; step++ {
		t := pattern[step%len(pattern)]
		if len(tiers[t]) == 0 {
			t = smallestNonEmpty(tiers)
		}
		out = append(out, tiers[t][0])
		tiers[t] = tiers[t][1:]
	}
	return out
}

func smallestNonEmpty(tiers [3][]domain.ScoredRepo) Tier {
	for t := TierSmall; t <= TierLarge; t++ {
		if len(tiers[t]) > 0 {
			return t
		}
	}
	return TierLarge
}
