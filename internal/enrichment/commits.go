// Package enrichment turns raw repository history into the analysis blocks the scorer consumes.
// Every analyzer is a pure function of its input; fetching is done by the adapters.
package enrichment

import (
	"regexp"
	"strings"
	"time"

	"github-skill-scout/internal/domain"
)

// CommitWindowDays is how far back commit frequency is measured.
const CommitWindowDays = 90

// Commit is one entry of a repository's default-branch history.
type Commit struct {
	SHA     string
	Author  string
	Message string
	Date    time.Time
}

var (
	conventionalCommit = regexp.MustCompile(`^(feat|fix|docs|chore|refactor|test|perf|build|ci|style|revert)(\([^)]+\))?!?: \S`)
	genericSubjects    = map[string]struct{}{
		"wip": {}, "fix": {}, "fixes": {}, "update": {}, "updates": {}, "changes": {},
		"minor": {}, "misc": {}, "test": {}, "cleanup": {}, "tmp": {}, ".": {},
	}
)

// AnalyzeCommits summarises recent commits and the branch count. It returns nil without commits.
func AnalyzeCommits(commits []Commit, branches int, now time.Time) *domain.CommitAnalysis {
	if len(commits) == 0 {
		return nil
	}

	windowStart := now.AddDate(0, 0, -CommitWindowDays)
	var (
		inWindow int
		newest   time.Time
		good     int
		authors  = make(map[string]int)
	)
	for _, c := range commits {
		if !c.Date.Before(windowStart) {
			inWindow++
		}
		if c.Date.After(newest) {
			newest = c.Date
		}
		if goodMessage(c.Message) {
			good++
		}
		author := strings.ToLower(strings.TrimSpace(c.Author))
		if author == "" {
			author = "unknown"
		}
		authors[author]++
	}

	perWeek := float64(inWindow) / (CommitWindowDays / 7.0)

	return &domain.CommitAnalysis{
		Frequency:               min(perWeek/5, 1),
		Recency:                 commitRecency(newest, now),
		ContributorDistribution: distribution(authors, len(commits)),
		MessageQuality:          float64(good) / float64(len(commits)),
		BranchActivity:          branchActivity(branches),
	}
}

func commitRecency(newest, now time.Time) float64 {
	if newest.IsZero() {
		return 0
	}
	days := now.Sub(newest).Hours() / 24
	switch {
	case days <= 1:
		return 1.0
	case days <= 7:
		return 0.9
	case days <= 30:
		return 0.7
	case days <= 90:
		return 0.4
	case days <= 365:
		return 0.2
	default:
		return 0
	}
}

// distribution is 0 for a single-author history and reaches 1 once nobody authored more than half.
func distribution(authors map[string]int, total int) float64 {
	top := 0
	for _, n := range authors {
		top = max(top, n)
	}
	share := float64(top) / float64(total)
	return min((1-share)*2, 1)
}

func goodMessage(message string) bool {
	subject, _, _ := strings.Cut(strings.TrimSpace(message), "\n")
	subject = strings.TrimSpace(subject)
	if conventionalCommit.MatchString(subject) {
		return true
	}
	if _, generic := genericSubjects[strings.ToLower(subject)]; generic {
		return false
	}
	return len(subject) >= 10
}

func branchActivity(branches int) float64 {
	if branches <= 0 {
		return 0
	}
	return min(float64(branches)/5, 1)
}
