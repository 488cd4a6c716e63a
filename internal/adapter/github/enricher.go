package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github-skill-scout/internal/common"
	"github-skill-scout/internal/domain"
	"github-skill-scout/internal/enrichment"
	"github-skill-scout/internal/logging"
	"github-skill-scout/internal/metrics"
	"github-skill-scout/internal/port"

	"github.com/google/go-github/v53/github"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// EnricherConfig bounds how much history the Enricher samples per repository.
type EnricherConfig struct {
	RequestsPerSecond float64
	CommitSample      int
	IssueSample       int
	// ResponseSample is how many commented issues get their comments fetched
	// to measure the first response time.
	ResponseSample int
	MaxRetries     int
	RetryDelay     time.Duration
}

// DefaultEnricherConfig returns conservative sampling limits.
func DefaultEnricherConfig() EnricherConfig {
	return EnricherConfig{
		RequestsPerSecond: 5,
		CommitSample:      100,
		IssueSample:       30,
		ResponseSample:    5,
		MaxRetries:        2,
		RetryDelay:        time.Second,
	}
}

// Enricher implements port.Enricher. It fetches commits, branches, issues, the README and
// the dependency manifest of a repository and turns them into analysis blocks.
type Enricher struct {
	client  *github.Client
	readme  port.ReadmeAnalyzer
	limiter *rate.Limiter
	cfg     EnricherConfig
	nowFunc func() time.Time
}

// NewEnricher creates an Enricher. readme rates the README text; nil skips the README block.
func NewEnricher(client *github.Client, readme port.ReadmeAnalyzer, cfg EnricherConfig) *Enricher {
	def := DefaultEnricherConfig()
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = def.RequestsPerSecond
	}
	if cfg.CommitSample <= 0 {
		cfg.CommitSample = def.CommitSample
	}
	if cfg.IssueSample <= 0 {
		cfg.IssueSample = def.IssueSample
	}
	if cfg.ResponseSample < 0 {
		cfg.ResponseSample = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = def.RetryDelay
	}
	burst := max(1, int(cfg.RequestsPerSecond))
	return &Enricher{
		client:  client,
		readme:  readme,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst),
		cfg:     cfg,
		nowFunc: time.Now,
	}
}

// Enrich computes every block it can. A failed step is logged and leaves its block nil;
// only an invalid repository or a cancelled context is returned as an error.
func (e *Enricher) Enrich(ctx context.Context, repo *domain.Repo) (*domain.EnrichedData, error) {
	owner, name, err := splitName(repo)
	if err != nil {
		return nil, err
	}
	now := e.nowFunc()
	data := &domain.EnrichedData{}
	log := logging.With().Str("repo", repo.Name).Logger()

	if commits, branches, err := e.fetchCommits(ctx, owner, name, now); err != nil {
		stepFailed(&log, "commits", err)
	} else {
		data.Commits = enrichment.AnalyzeCommits(commits, branches, now)
	}

	if issues, err := e.fetchIssues(ctx, owner, name); err != nil {
		stepFailed(&log, "issues", err)
	} else {
		data.Issues = enrichment.AnalyzeIssues(issues)
	}

	if manifest, updated, err := e.fetchManifest(ctx, owner, name, repo.Language); err != nil {
		stepFailed(&log, "dependencies", err)
	} else {
		data.Dependencies = enrichment.AnalyzeDependencies(manifest, repo.License, updated, now)
	}

	if e.readme != nil {
		text, err := e.fetchReadme(ctx, owner, name)
		if err != nil {
			stepFailed(&log, "readme", err)
		} else if text != "" {
			analysis, err := e.readme.AnalyzeReadme(ctx, repo, text)
			if err != nil {
				stepFailed(&log, "readme_analysis", err)
			} else {
				data.Readme = analysis
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return data, nil
}

func stepFailed(log *zerolog.Logger, step string, err error) {
	metrics.EnrichmentFailures.WithLabelValues(step).Inc()
	log.Warn().Err(err).Str("step", step).Msg("enrichment step failed")
}

func splitName(repo *domain.Repo) (string, string, error) {
	if repo == nil {
		return "", "", common.NewError(common.ErrCodeInvalidInput, "repository is nil")
	}
	owner, name, ok := strings.Cut(repo.Name, "/")
	if !ok || owner == "" || name == "" {
		return "", "", common.NewError(common.ErrCodeInvalidInput, fmt.Sprintf("invalid repository name %q", repo.Name))
	}
	return owner, name, nil
}

// do paces and retries one API call.
func (e *Enricher) do(ctx context.Context, endpoint string, fn func() error) error {
	return common.Do(ctx, func() error {
		if err := e.limiter.Wait(ctx); err != nil {
			return common.Permanent(err)
		}
		start := time.Now()
		err := fn()
		metrics.ObserveGitHub(endpoint, start, err)
		return err
	},
		common.WithMaxRetries(e.cfg.MaxRetries),
		common.WithInitialDelay(e.cfg.RetryDelay),
		common.WithRetryIf(retryable),
	)
}

func (e *Enricher) fetchCommits(ctx context.Context, owner, name string, now time.Time) ([]enrichment.Commit, int, error) {
	opts := &github.CommitsListOptions{
		Since:       now.AddDate(0, 0, -enrichment.CommitWindowDays),
		ListOptions: github.ListOptions{PerPage: e.cfg.CommitSample},
	}
	var raw []*github.RepositoryCommit
	err := e.do(ctx, "list_commits", func() error {
		var apiErr error
		raw, _, apiErr = e.client.Repositories.ListCommits(ctx, owner, name, opts)
		return apiErr
	})
	if err != nil {
		return nil, 0, common.WrapError(common.ErrCodeGitHubAPI, "list commits failed", err)
	}

	var branches []*github.Branch
	err = e.do(ctx, "list_branches", func() error {
		var apiErr error
		branches, _, apiErr = e.client.Repositories.ListBranches(ctx, owner, name,
			&github.BranchListOptions{ListOptions: github.ListOptions{PerPage: 100}})
		return apiErr
	})
	if err != nil {
		return nil, 0, common.WrapError(common.ErrCodeGitHubAPI, "list branches failed", err)
	}

	commits := make([]enrichment.Commit, 0, len(raw))
	for _, c := range raw {
		author := c.GetAuthor().GetLogin()
		if author == "" {
			author = c.GetCommit().GetAuthor().GetName()
		}
		commits = append(commits, enrichment.Commit{
			SHA:     c.GetSHA(),
			Author:  author,
			Message: c.GetCommit().GetMessage(),
			Date:    c.GetCommit().GetAuthor().GetDate().Time,
		})
	}
	return commits, len(branches), nil
}

var maintainerAssociations = []string{"OWNER", "MEMBER", "COLLABORATOR"}

func (e *Enricher) fetchIssues(ctx context.Context, owner, name string) ([]enrichment.Issue, error) {
	opts := &github.IssueListByRepoOptions{
		State:       "all",
		Sort:        "created",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: e.cfg.IssueSample},
	}
	var raw []*github.Issue
	err := e.do(ctx, "list_issues", func() error {
		var apiErr error
		raw, _, apiErr = e.client.Issues.ListByRepo(ctx, owner, name, opts)
		return apiErr
	})
	if err != nil {
		return nil, common.WrapError(common.ErrCodeGitHubAPI, "list issues failed", err)
	}

	issues := make([]enrichment.Issue, 0, len(raw))
	sampled := 0
	for _, is := range raw {
		issue := enrichment.Issue{
			Number:      is.GetNumber(),
			Title:       is.GetTitle(),
			Body:        is.GetBody(),
			Comments:    is.GetComments(),
			CreatedAt:   is.GetCreatedAt().Time,
			ClosedAt:    is.GetClosedAt().Time,
			PullRequest: is.IsPullRequest(),
		}
		for _, l := range is.Labels {
			issue.Labels = append(issue.Labels, l.GetName())
		}
		if !issue.PullRequest && issue.Comments > 0 && sampled < e.cfg.ResponseSample {
			sampled++
			if err := e.firstResponse(ctx, owner, name, is, &issue); err != nil {
				logging.Debug().Err(err).Int("issue", issue.Number).Msg("first response lookup failed")
			}
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

// firstResponse fills the first reply by someone other than the issue author.
func (e *Enricher) firstResponse(ctx context.Context, owner, name string, is *github.Issue, out *enrichment.Issue) error {
	opts := &github.IssueListCommentsOptions{
		Sort:        github.String("created"),
		Direction:   github.String("asc"),
		ListOptions: github.ListOptions{PerPage: 10},
	}
	var comments []*github.IssueComment
	err := e.do(ctx, "list_issue_comments", func() error {
		var apiErr error
		comments, _, apiErr = e.client.Issues.ListComments(ctx, owner, name, is.GetNumber(), opts)
		return apiErr
	})
	if err != nil {
		return err
	}
	author := is.GetUser().GetLogin()
	for _, c := range comments {
		if c.GetUser().GetLogin() == author {
			continue
		}
		out.FirstResponseAt = c.GetCreatedAt().Time
		out.MaintainerResponded = slices.Contains(maintainerAssociations, c.GetAuthorAssociation())
		return nil
	}
	return nil
}

func (e *Enricher) fetchReadme(ctx context.Context, owner, name string) (string, error) {
	var content *github.RepositoryContent
	err := e.do(ctx, "get_readme", func() error {
		var apiErr error
		content, _, apiErr = e.client.Repositories.GetReadme(ctx, owner, name, nil)
		return apiErr
	})
	if isNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", common.WrapError(common.ErrCodeGitHubAPI, "get readme failed", err)
	}
	text, err := content.GetContent()
	if err != nil {
		return "", common.WrapError(common.ErrCodeGitHubAPI, "decode readme failed", err)
	}
	return text, nil
}

// manifestOrder tries the manifest matching the primary language first.
func manifestOrder(language string) []string {
	preferred := map[string]string{
		"go":         "go.mod",
		"javascript": "package.json",
		"typescript": "package.json",
		"rust":       "Cargo.toml",
		"python":     "requirements.txt",
	}[strings.ToLower(language)]

	order := make([]string, 0, len(enrichment.ManifestFiles))
	if preferred != "" {
		order = append(order, preferred)
	}
	for _, f := range enrichment.ManifestFiles {
		if f != preferred {
			order = append(order, f)
		}
	}
	return order
}

// fetchManifest returns the first manifest found at the repository root and the date of its
// latest commit. A repository without any known manifest yields a nil manifest.
func (e *Enricher) fetchManifest(ctx context.Context, owner, name, language string) (*enrichment.Manifest, time.Time, error) {
	for _, file := range manifestOrder(language) {
		var content *github.RepositoryContent
		err := e.do(ctx, "get_contents", func() error {
			var apiErr error
			content, _, _, apiErr = e.client.Repositories.GetContents(ctx, owner, name, file, nil)
			return apiErr
		})
		if isNotFound(err) || (err == nil && content == nil) {
			continue
		}
		if err != nil {
			return nil, time.Time{}, common.WrapError(common.ErrCodeGitHubAPI, "get "+file+" failed", err)
		}
		raw, err := content.GetContent()
		if err != nil {
			return nil, time.Time{}, common.WrapError(common.ErrCodeGitHubAPI, "decode "+file+" failed", err)
		}
		manifest, err := enrichment.ParseManifest(file, []byte(raw))
		if err != nil {
			return nil, time.Time{}, err
		}
		return manifest, e.lastTouched(ctx, owner, name, file), nil
	}
	return nil, time.Time{}, nil
}

// lastTouched returns the date of the newest commit touching path, or zero when unknown.
func (e *Enricher) lastTouched(ctx context.Context, owner, name, path string) time.Time {
	var commits []*github.RepositoryCommit
	err := e.do(ctx, "list_commits", func() error {
		var apiErr error
		commits, _, apiErr = e.client.Repositories.ListCommits(ctx, owner, name, &github.CommitsListOptions{
			Path:        path,
			ListOptions: github.ListOptions{PerPage: 1},
		})
		return apiErr
	})
	if err != nil || len(commits) == 0 {
		return time.Time{}
	}
	return commits[0].GetCommit().GetCommitter().GetDate().Time
}

func isNotFound(err error) bool {
	var respErr *github.ErrorResponse
	return errors.As(err, &respErr) && respErr.Response != nil && respErr.Response.StatusCode == http.StatusNotFound
}
