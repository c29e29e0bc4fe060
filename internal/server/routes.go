package server

import (
	"github.com/SuryaYadav707/Article-Analyzer/internal/core/analyze"
	"github.com/SuryaYadav707/Article-Analyzer/internal/core/batch"
	"github.com/SuryaYadav707/Article-Analyzer/internal/core/discover"
	"github.com/SuryaYadav707/Article-Analyzer/internal/core/job"
	"github.com/SuryaYadav707/Article-Analyzer/internal/health"
	"github.com/SuryaYadav707/Article-Analyzer/internal/platform/redis"
	"github.com/SuryaYadav707/Article-Analyzer/internal/ratelimit"

	"github.com/gofiber/fiber/v2"
)

type Dependencies struct {
	Job       *job.JobService
	Batch     *batch.Service
	Analyze   *analyze.Handler
	Discover  *discover.Service
	Redis     *redis.Service
	AILimiter *ratelimit.Limiter
}

func RegisterRoutes(app *fiber.App, d Dependencies) *health.HealthHandler {
	// Health endpoints
	healthHandler := health.NewHealthHandler(d.Redis, d.AILimiter)
	app.Get("/v1/health", health.HealthLimiter(), healthHandler.HandleHealth)

	api := app.Group("/v1")

	api.Get("/analyze", d.Analyze.HandleAnalyze)

	batchHandler := batch.NewHandler(d.Job, d.Batch)
	api.Post("/batches", batchHandler.HandleCreateBatch)
	api.Get("/batches/:jobId", batchHandler.HandleGetBatch)

	discoverHandler := discover.NewHandler(d.Discover)
	api.Get("/discover", discoverHandler.HandleDiscover)

	return healthHandler
}
