// Command debug prints how skills normalize and how a single repository scores against them.
//
//	go run ./cmd/debug -skills "golang,k8s" -repo kubernetes/kompose -enrich
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github-skill-scout/internal/adapter/gemini"
	"github-skill-scout/internal/adapter/github"
	"github-skill-scout/internal/config"
	"github-skill-scout/internal/domain"
	"github-skill-scout/internal/enrichment"
	"github-skill-scout/internal/logging"
	"github-skill-scout/internal/port"
	"github-skill-scout/internal/scoring"
	"github-skill-scout/internal/skill"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	skills := flag.String("skills", "", "comma separated skills")
	repoName := flag.String("repo", "", "repository to score, e.g. owner/name")
	goal := flag.String("goal", "", "only show this mode (default: all modes)")
	enrich := flag.Bool("enrich", false, "fetch enrichment data before scoring")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: "console"})

	graph := skill.NewDefaultGraph()
	normalized := skill.NewNormalizer(graph).Normalize(splitSkills(*skills))
	printSkills(os.Stdout, normalized)
	if *repoName == "" {
		return
	}

	modes := []domain.Mode{domain.ModeProfileBuilding, domain.ModeLearning, domain.ModeQuickWins}
	if *goal != "" {
		m, err := domain.ParseMode(*goal)
		if err != nil {
			logging.Fatal().Err(err).Msg("invalid goal")
		}
		modes = []domain.Mode{m}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := github.NewClient(cfg.GitHub.Token, cfg.GitHub.BaseURL, cfg.GitHub.Timeout)
	if err != nil {
		logging.Fatal().Err(err).Msg("github client")
	}
	searcher := github.NewSearcher(client)

	repo, err := searcher.GetRepository(ctx, *repoName)
	if err != nil {
		logging.Fatal().Err(err).Str("repo", *repoName).Msg("fetching repository failed")
	}
	if n, err := searcher.CountGoodFirstIssues(ctx, repo); err != nil {
		logging.Warn().Err(err).Msg("good first issue count unavailable")
	} else {
		repo.GoodFirstIssues = n
	}

	if *enrich {
		var readme port.ReadmeAnalyzer = enrichment.NewReadmeAnalyzer(graph)
		if key := cfg.Enrichment.GeminiAPIKey; key != "" {
			ai, err := gemini.NewReadmeAnalyzer(ctx, key, cfg.Enrichment.GeminiModel, graph, readme)
			if err != nil {
				logging.Fatal().Err(err).Msg("gemini")
			}
			defer ai.Close()
			readme = ai
		}
		data, err := github.NewEnricher(client, readme, github.DefaultEnricherConfig()).Enrich(ctx, repo)
		if err != nil {
			logging.Warn().Err(err).Msg("enrichment failed")
		}
		repo.Enriched = data
	}

	scorer := scoring.NewScorer(graph)
	printRepo(os.Stdout, repo)
	for _, m := range modes {
		printScore(os.Stdout, m, scorer.Score(repo, normalized, domain.ScoreOptions{Mode: m}))
	}
}

func splitSkills(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func printSkills(w io.Writer, skills []domain.NormalizedSkill) {
	fmt.Fprintln(w, "== normalization")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "INPUT\tSKILL\tCATEGORY\tWEIGHT")
	for _, s := range skills {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\n", s.Original, s.Normalized, s.Category, s.Weight)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "\n== expanded keywords\n%s\n\n", strings.Join(skill.ExpandedSkills(skills), ", "))
}

func printRepo(w io.Writer, r *domain.Repo) {
	fmt.Fprintf(w, "== %s\n", r.Name)
	fmt.Fprintf(w, "language=%s stars=%d forks=%d open_issues=%d good_first_issues=%d last_activity=%s\n",
		r.Language, r.Stars, r.Forks, r.OpenIssues, r.GoodFirstIssues, r.LastActivity().Format(time.DateOnly))
	if e := r.Enriched; e != nil {
		fmt.Fprintf(w, "enriched: commits=%t issues=%t dependencies=%t readme=%t\n",
			e.Commits != nil, e.Issues != nil, e.Dependencies != nil, e.Readme != nil)
	}
	fmt.Fprintln(w)
}

func printScore(w io.Writer, mode domain.Mode, s domain.RepositoryScore) {
	b := s.Breakdown
	fmt.Fprintf(w, "-- %s: final=%.3f relevance=%.3f quality=%.3f opportunity=%.3f\n",
		mode, s.Final, s.Relevance, s.Quality, s.Opportunity)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := []struct {
		name  string
		value float64
	}{
		{"language_match", b.LanguageMatch},
		{"topic_match", b.TopicMatch},
		{"readme_match", b.ReadmeMatch},
		{"skill_match", b.SkillMatch},
		{"stars", b.Stars},
		{"activity", b.Activity},
		{"documentation", b.Documentation},
		{"issues", b.Issues},
		{"contributors", b.Contributors},
		{"commit_activity", b.CommitActivity},
		{"issue_response", b.IssueResponse},
		{"dependency_health", b.DependencyHealth},
		{"readme_quality", b.ReadmeQuality},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "  %s\t%.3f\n", r.name, r.value)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "  why: %s\n\n", scoring.Explain(b))
}
