package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/SuryaYadav707/Article-Analyzer/internal/config"
	"github.com/SuryaYadav707/Article-Analyzer/internal/core/analyze"
	"github.com/SuryaYadav707/Article-Analyzer/internal/core/batch"
	"github.com/SuryaYadav707/Article-Analyzer/internal/core/classify"
	"github.com/SuryaYadav707/Article-Analyzer/internal/core/discover"
	"github.com/SuryaYadav707/Article-Analyzer/internal/core/fetch"
	"github.com/SuryaYadav707/Article-Analyzer/internal/logger"
	"github.com/SuryaYadav707/Article-Analyzer/internal/platform/ai"
	"github.com/SuryaYadav707/Article-Analyzer/internal/ratelimit"
	"github.com/SuryaYadav707/Article-Analyzer/prompts"
)

func main() {
	app := &cli.App{
		Name:  "analyzer",
		Usage: "fetch pages, classify them with Gemini, and write structured JSON results",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "file with one URL per line"},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML batch file describing the run"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: "results.json", Usage: "path for the JSON results"},
			&cli.IntFlag{Name: "rate", Aliases: []string{"r"}, Value: 5, Usage: "AI requests allowed per minute"},
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Value: 1, Usage: "URLs processed concurrently"},
			&cli.DurationFlag{Name: "delay", Value: 2 * time.Second, Usage: "politeness delay after each URL"},
			&cli.DurationFlag{Name: "timeout", Value: 30 * time.Second, Usage: "per-page fetch timeout"},
			&cli.StringFlag{Name: "engine", Value: "browser", Usage: "fetch engine: browser or http"},
			&cli.StringFlag{Name: "model", Usage: "Gemini model name"},
			&cli.BoolFlag{Name: "readable", Usage: "reduce pages to their readable article body"},
			&cli.BoolFlag{Name: "markdown", Usage: "include a markdown rendering of the page"},
			&cli.StringFlag{Name: "seed", Usage: "discover URLs by crawling out from this page"},
			&cli.IntFlag{Name: "depth", Value: 1, Usage: "discovery crawl depth"},
			&cli.IntFlag{Name: "max-pages", Value: 20, Usage: "cap on discovered URLs"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	cfg := config.LoadCLI()

	var bf config.BatchFile
	if path := c.String("config"); path != "" {
		var err error
		bf, err = config.LoadBatchFile(path)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
	}

	// Settings layer as: environment, then batch file, then flags.
	if bf.Rate > 0 {
		cfg.RatePerMinute = bf.Rate
	}
	if bf.Workers > 0 {
		cfg.Workers = bf.Workers
	}
	if bf.Engine != "" {
		cfg.FetchEngine = bf.Engine
	}
	if bf.Model != "" {
		cfg.LLMModel = bf.Model
	}
	if bf.Delay != "" {
		d, err := time.ParseDuration(bf.Delay)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		cfg.PolitenessDelay = d
	}
	if c.IsSet("rate") {
		cfg.RatePerMinute = c.Int("rate")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("engine") {
		cfg.FetchEngine = c.String("engine")
	}
	if c.IsSet("model") {
		cfg.LLMModel = c.String("model")
	}
	if c.IsSet("delay") {
		cfg.PolitenessDelay = c.Duration("delay")
	}
	if c.IsSet("timeout") {
		cfg.FetchTimeout = c.Duration("timeout")
	}
	if err := cfg.Validate(); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if cfg.GeminiAPIKey == "" {
		return cli.Exit("GEMINI_API_KEY is required", 1)
	}

	output := c.String("output")
	if !c.IsSet("output") && bf.Output != "" {
		output = bf.Output
	}
	seed := c.String("seed")
	if seed == "" {
		seed = bf.Seed
	}

	logr := logger.New("analyzer")

	// Resolve the URL list: explicit file, batch file, seed discovery, then
	// the built-in sample batch.
	var urls []string
	switch {
	case c.String("file") != "":
		loaded, err := batch.LoadURLs(c.String("file"))
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		urls = loaded
	case len(bf.URLs) > 0:
		urls = bf.URLs
	case seed != "":
		found, err := discover.New().Discover(seed, discover.Options{Depth: c.Int("depth"), Limit: c.Int("max-pages")})
		if err != nil {
			return cli.Exit("discovery failed: "+err.Error(), 1)
		}
		logr.LogInfof("discovered %d URLs from %s", len(found), seed)
		urls = found
	default:
		urls = batch.DefaultURLs
	}
	if len(urls) == 0 {
		return cli.Exit("no URLs to analyze", 1)
	}

	aiLimiter, err := ratelimit.New(cfg.RatePerMinute, ratelimit.WithQuotaCooldown(cfg.QuotaCooldown))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	aiSvc, err := ai.NewService(ai.Config{APIKey: cfg.GeminiAPIKey, Model: cfg.LLMModel})
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	classifier := classify.NewClassifier(aiLimiter, aiSvc, prompts.NewSystemPrompts(), classify.Config{
		MaxAttempts: cfg.MaxAttempts,
		BackoffBase: cfg.BackoffBase,
		BackoffMax:  cfg.BackoffMax,
	}, logger.New("Classifier"))

	engine, err := fetch.NewEngine(cfg.FetchEngine, fetch.Config{
		Timeout:     cfg.FetchTimeout,
		SettleDelay: cfg.SettleDelay,
	}, logger.New("Fetch"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer engine.Close()

	analyzer := analyze.NewAnalyzer(classifier, analyze.Config{
		MaxTextChars:     cfg.MaxTextChars,
		MaxPromptChars:   cfg.MaxPromptChars,
		SnippetMaxChars:  cfg.SnippetMaxChars,
		MaxCategoryLinks: cfg.MaxCategoryLink,
		Readable:         c.Bool("readable"),
		IncludeMarkdown:  c.Bool("markdown"),
	}, logger.New("Analyzer"))

	runner := batch.NewRunner(engine, analyzer, batch.Config{Workers: cfg.Workers, Delay: cfg.PolitenessDelay}, logr)

	// An interrupt cancels the batch; whatever finished is still written out.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logr.LogInfof("analyzing %d URLs at %d req/min with %d workers (%s engine)", len(urls), cfg.RatePerMinute, cfg.Workers, cfg.FetchEngine)
	results := runner.Run(ctx, urls)
	if ctx.Err() != nil {
		logr.LogWarnf("interrupted, writing partial results")
	}

	if err := writeResults(output, results); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	printResults(results)

	sum := batch.Summarize(results)
	logr.LogSuccessf("Saved %d results to %s (%d succeeded, %d failed)", sum.Total, output, sum.Succeeded, sum.Failed)
	return nil
}

func writeResults(path string, results []*analyze.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func printResults(results []*analyze.Result) {
	line := strings.Repeat("=", 80)
	fmt.Println(line)
	fmt.Println("ANALYSIS RESULTS")
	fmt.Println(line)
	for i, res := range results {
		if res.Failed() {
			fmt.Printf("%2d. %s\n    error: %s\n", i+1, res.URL, *res.Errors)
			continue
		}
		fmt.Printf("%2d. %s\n    site_type=%s sections=%d\n", i+1, res.URL, res.SiteType, len(res.Content))
	}
	fmt.Println(line)
}
