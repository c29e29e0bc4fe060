package main

import (
	"bytes"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"

	"github.com/SuryaYadav707/Article-Analyzer/internal/config"
	"github.com/SuryaYadav707/Article-Analyzer/internal/core/analyze"
	"github.com/SuryaYadav707/Article-Analyzer/internal/core/batch"
	"github.com/SuryaYadav707/Article-Analyzer/internal/core/classify"
	"github.com/SuryaYadav707/Article-Analyzer/internal/core/discover"
	"github.com/SuryaYadav707/Article-Analyzer/internal/core/fetch"
	"github.com/SuryaYadav707/Article-Analyzer/internal/core/job"
	"github.com/SuryaYadav707/Article-Analyzer/internal/logger"
	"github.com/SuryaYadav707/Article-Analyzer/internal/platform/ai"
	rds "github.com/SuryaYadav707/Article-Analyzer/internal/platform/redis"
	tasks "github.com/SuryaYadav707/Article-Analyzer/internal/platform/tasks"
	"github.com/SuryaYadav707/Article-Analyzer/internal/ratelimit"
	"github.com/SuryaYadav707/Article-Analyzer/internal/server"
	"github.com/SuryaYadav707/Article-Analyzer/internal/worker"
	"github.com/SuryaYadav707/Article-Analyzer/prompts"
)

func main() {
	cfg := config.Load()
	log.Printf("[analyzer] starting at %s (env=%s)\n", cfg.HTTPAddr, cfg.AppEnv)

	logr := logger.New("main")

	// Redis client
	redisSvc, err := rds.New(rds.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer redisSvc.Close()

	// Asynq client and server
	taskClient := tasks.New(redisSvc)
	asynqServer := asynq.NewServer(redisSvc.AsynqRedisOpt(), asynq.Config{
		Concurrency: 10,
		Queues:      map[string]int{"default": 1},
	})

	// AI pipeline: one limiter shared by every classification in the process.
	aiLimiter, err := ratelimit.New(cfg.RatePerMinute, ratelimit.WithQuotaCooldown(cfg.QuotaCooldown))
	if err != nil {
		log.Fatal(err)
	}
	aiSvc, err := ai.NewService(ai.Config{APIKey: cfg.GeminiAPIKey, Model: cfg.LLMModel})
	if err != nil {
		log.Fatalf("failed to initialize AI service: %v", err)
	}
	classifier := classify.NewClassifier(aiLimiter, aiSvc, prompts.NewSystemPrompts(), classify.Config{
		MaxAttempts: cfg.MaxAttempts,
		BackoffBase: cfg.BackoffBase,
		BackoffMax:  cfg.BackoffMax,
	}, logger.New("Classifier"))

	// Page pipeline
	engine, err := fetch.NewEngine(cfg.FetchEngine, fetch.Config{
		Timeout:     cfg.FetchTimeout,
		SettleDelay: cfg.SettleDelay,
	}, logger.New("Fetch"))
	if err != nil {
		log.Fatal(err)
	}
	defer engine.Close()

	analyzer := analyze.NewAnalyzer(classifier, analyze.Config{
		MaxTextChars:     cfg.MaxTextChars,
		MaxPromptChars:   cfg.MaxPromptChars,
		SnippetMaxChars:  cfg.SnippetMaxChars,
		MaxCategoryLinks: cfg.MaxCategoryLink,
	}, logger.New("Analyzer"))

	// Core services
	jobSvc := job.NewJobService(redisSvc)
	discoverSvc := discover.New()
	batchSvc := batch.NewService(jobSvc, taskClient, engine, analyzer, discoverSvc, cfg)
	analyzeHandler := analyze.NewHandler(engine, analyzer, redisSvc)

	// Worker mux
	mux := worker.NewMux()
	mux.HandleFunc(tasks.TypeAnalyzeBatch, batchSvc.HandleBatchTask)

	// Start worker
	go func() {
		if err := asynqServer.Start(mux.Mux()); err != nil {
			log.Printf("[worker] stopped: %v\n", err)
		}
	}()

	// HTTP server
	app := fiber.New(fiber.Config{
		AppName: "Article Analyzer",
		JSONEncoder: func(v interface{}) ([]byte, error) {
			var buf bytes.Buffer
			encoder := json.NewEncoder(&buf)
			encoder.SetEscapeHTML(false)
			if err := encoder.Encode(v); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		},
	})

	deps := server.Dependencies{
		Job:       jobSvc,
		Batch:     batchSvc,
		Analyze:   analyzeHandler,
		Discover:  discoverSvc,
		Redis:     redisSvc,
		AILimiter: aiLimiter,
	}
	healthHandler := server.RegisterRoutes(app, deps)

	// Mark application as ready after all services are initialized
	go func() {
		time.Sleep(5 * time.Second)
		healthHandler.SetReady()
	}()

	// Graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdown
		logr.LogInfof("Shutting down...")
		asynqServer.Shutdown()
		_ = app.ShutdownWithTimeout(5 * time.Second)
	}()

	if err := app.Listen(cfg.HTTPAddr); err != nil {
		log.Fatalf("server listen: %v", err)
	}
}
