package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github-skill-scout/internal/adapter/analyzer"
	"github-skill-scout/internal/adapter/cache"
	"github-skill-scout/internal/adapter/feishu"
	"github-skill-scout/internal/adapter/filter"
	"github-skill-scout/internal/adapter/gemini"
	"github-skill-scout/internal/adapter/github"
	"github-skill-scout/internal/adapter/repository"
	"github-skill-scout/internal/common"
	"github-skill-scout/internal/config"
	"github-skill-scout/internal/domain"
	"github-skill-scout/internal/enrichment"
	"github-skill-scout/internal/logging"
	"github-skill-scout/internal/metrics"
	"github-skill-scout/internal/port"
	"github-skill-scout/internal/ranking"
	"github-skill-scout/internal/scoring"
	"github-skill-scout/internal/service"
	"github-skill-scout/internal/skill"

	"github.com/goccy/go-json"
)

const cycleTimeout = 5 * time.Minute

type options struct {
	configPath  string
	skills      []string
	goal        string
	page        int
	perPage     int
	enrich      *bool // nil keeps enrichment.enabled from config
	interval    int
	notify      bool
	jsonOutput  bool
	metricsAddr string
}

func parseFlags(args []string) (options, error) {
	var opts options
	var skills string
	var enrich bool

	fs := flag.NewFlagSet("skill-scout", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "YAML config file (default: $SCOUT_CONFIG or ./config.yaml)")
	fs.StringVar(&skills, "skills", "", "comma separated skills, e.g. \"go, k8s, react\"")
	fs.StringVar(&opts.goal, "goal", "", "profile-building, learning or quick-wins (default from config)")
	fs.IntVar(&opts.page, "page", 1, "result page, starting at 1")
	fs.IntVar(&opts.perPage, "per-page", service.DefaultPerPage, "results per page, at most 50")
	fs.BoolVar(&enrich, "enrich", false, "fetch commit, issue, README and dependency history for every candidate (default from config)")
	fs.IntVar(&opts.interval, "interval", 0, "re-run every N minutes, 0 runs once")
	fs.BoolVar(&opts.notify, "notify", false, "push the top results to the Feishu webhook")
	fs.BoolVar(&opts.jsonOutput, "json", false, "print the result as JSON")
	fs.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (overrides config)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "enrich" {
			opts.enrich = &enrich
		}
	})

	for _, s := range strings.Split(skills, ",") {
		if s = strings.TrimSpace(s); s != "" {
			opts.skills = append(opts.skills, s)
		}
	}
	if len(opts.skills) == 0 {
		opts.skills = fs.Args()
	}
	if len(opts.skills) == 0 {
		return options{}, common.NewError(common.ErrCodeInvalidInput, "no skills given, use -skills \"go,react\"")
	}
	if opts.interval < 0 {
		return options{}, common.NewError(common.ErrCodeInvalidInput, "interval must not be negative")
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		logging.Fatal().Err(err).Msg("skill scout failed")
	}
}

func run(ctx context.Context, cfg *config.Config, opts options, out io.Writer) error {
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	addr := cfg.Metrics.Addr
	if opts.metricsAddr != "" {
		addr = opts.metricsAddr
	}
	if addr != "" {
		srv := serveMetrics(addr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	req := domain.RecommendRequest{
		Skills:  opts.skills,
		Goal:    opts.goal,
		Page:    opts.page,
		PerPage: opts.perPage,
		Enrich:  opts.enrich,
	}
	cycle := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, cycleTimeout)
		defer cancel()
		a.housekeeping(ctx)
		return recommendOnce(ctx, a.svc, req, opts.notify, cfg.Notify.TopN, opts.jsonOutput, out)
	}

	if opts.interval == 0 {
		return cycle(ctx)
	}
	return runScheduled(ctx, time.Duration(opts.interval)*time.Minute, cycle)
}

// runScheduled runs cycle immediately and then on every tick until ctx is done.
// A failed cycle is logged and the schedule continues.
func runScheduled(ctx context.Context, interval time.Duration, cycle func(context.Context) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logging.Info().Dur("interval", interval).Msg("scheduled mode started, Ctrl+C to stop")
	for {
		if err := cycle(ctx); err != nil && ctx.Err() == nil {
			logging.Error().Err(err).Msg("recommendation cycle failed")
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			logging.Info().Msg("stop signal received, exiting")
			return nil
		}
	}
}

func recommendOnce(ctx context.Context, svc *service.RecommendService, req domain.RecommendRequest, notify bool, topN int, jsonOutput bool, out io.Writer) error {
	res, err := svc.Recommend(ctx, req)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	} else {
		printResult(out, res)
	}

	if notify {
		if err := svc.NotifyTop(ctx, res, topN); err != nil {
			logging.Error().Err(err).Msg("digest notification failed")
		}
	}
	return nil
}

func printResult(out io.Writer, res *domain.RecommendResult) {
	names := make([]string, 0, len(res.Skills))
	for _, s := range res.Skills {
		names = append(names, s.Normalized)
	}
	fmt.Fprintf(out, "skills: %s | mode: %s | page %d (%d per page) of %d results\n\n",
		strings.Join(names, ", "), res.Mode, res.Page, res.PerPage, res.Total)
	if len(res.Items) == 0 {
		fmt.Fprintln(out, "no repositories found")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tREPOSITORY\tSTARS\tSCORE\tWHY")
	offset := (res.Page - 1) * res.PerPage
	for i, item := range res.Items {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%.2f\t%s\n", offset+i+1, item.Repo.Name, item.Repo.Stars, item.Score.Final, item.Explanation)
	}
	_ = tw.Flush()
}

func serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Str("addr", addr).Msg("metrics server stopped")
		}
	}()
	logging.Info().Str("addr", addr).Msg("serving metrics on /metrics")
	return srv
}

// app owns the wired service and the resources that need closing.
type app struct {
	svc     *service.RecommendService
	closers []func()
	// janitor drops expired cache entries before each cycle.
	janitor func(ctx context.Context)
}

func (a *app) housekeeping(ctx context.Context) {
	if a.janitor != nil {
		a.janitor(ctx)
	}
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}
	graph := skill.NewDefaultGraph()

	client, err := github.NewClient(cfg.GitHub.Token, cfg.GitHub.BaseURL, cfg.GitHub.Timeout)
	if err != nil {
		return nil, err
	}
	searcher := github.NewSearcher(client)

	var readme port.ReadmeAnalyzer = enrichment.NewReadmeAnalyzer(graph)
	if key := cfg.Enrichment.GeminiAPIKey; key != "" {
		ai, err := gemini.NewReadmeAnalyzer(ctx, key, cfg.Enrichment.GeminiModel, graph, readme)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = ai.Close() })
		readme = ai
	}

	ecfg := github.DefaultEnricherConfig()
	ecfg.RequestsPerSecond = cfg.GitHub.RequestsPerSecond
	ecfg.CommitSample = cfg.Enrichment.CommitSample
	ecfg.IssueSample = cfg.Enrichment.IssueSample
	enricher := github.NewEnricher(client, readme, ecfg)

	hydrator := analyzer.NewHydrator(searcher, enricher)
	hydrator.SetMaxGoroutines(cfg.Enrichment.Concurrency)

	store, err := newCache(cfg.Cache, a)
	if err != nil {
		a.close()
		return nil, err
	}

	var notifier port.Notifier
	if cfg.Notify.FeishuWebhook != "" {
		notifier = feishu.NewNotifier(cfg.Notify.FeishuWebhook)
	}

	var rankOpts []ranking.Option
	if cfg.Scoring.Seed != 0 {
		rankOpts = append(rankOpts, ranking.WithSeed(cfg.Scoring.Seed))
	}

	a.svc = service.NewRecommendService(service.Deps{
		Normalizer: skill.NewNormalizer(graph),
		Scorer:     scoring.NewScorer(graph),
		Ranker:     ranking.NewRanker(rankOpts...),
		Searcher:   searcher,
		Filter:     filter.NewRepoFilter(cfg.Scoring.StaleDays),
		Hydrator:   hydrator,
		Cache:      store,
		Notifier:   notifier,
	}, service.Config{
		DefaultMode:   domain.Mode(cfg.Scoring.DefaultMode),
		MaxQueries:    cfg.GitHub.MaxQueries,
		SearchPerPage: cfg.GitHub.PerPage,
		SkillsTTL:     cfg.Cache.SkillsTTL,
		ResultsTTL:    cfg.Cache.ResultsTTL,
		DefaultEnrich: cfg.Enrichment.Enabled,
	})
	return a, nil
}

// newCache returns nil for the "none" backend, which disables memoization.
func newCache(cfg config.CacheConfig, a *app) (port.Cache, error) {
	switch cfg.Backend {
	case "none":
		return nil, nil
	case "postgres":
		pg, err := repository.NewPostgresCache(cfg.DSN)
		if err != nil {
			return nil, err
		}
		a.janitor = func(ctx context.Context) {
			if n, err := pg.PurgeExpired(ctx); err != nil {
				logging.Warn().Err(err).Msg("cache purge failed")
			} else if n > 0 {
				logging.Debug().Int64("purged", n).Msg("expired cache entries removed")
			}
		}
		return pg, nil
	default:
		mem := cache.NewMemory(cfg.MaxEntries)
		a.janitor = func(context.Context) {
			if n := mem.Cleanup(); n > 0 {
				logging.Debug().Int("purged", n).Msg("expired cache entries removed")
			}
		}
		return mem, nil
	}
}
