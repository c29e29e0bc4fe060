package analyze

import (
	"context"

	"github.com/SuryaYadav707/Article-Analyzer/internal/core/fetch"
	"github.com/SuryaYadav707/Article-Analyzer/internal/logger"
	"github.com/SuryaYadav707/Article-Analyzer/internal/utils/parser"

	"github.com/gofiber/fiber/v2"
)

// Fetcher retrieves a rendered page for a URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*fetch.Page, error)
}

// Cache is the slice of the Redis service the handler uses to reuse recent
// results for the same URL.
type Cache interface {
	CacheGet(ctx context.Context, key string, dest interface{}) error
	CacheSet(ctx context.Context, key string, val interface{}, ttlSeconds int) error
}

const resultTTLSeconds = 600

// Handler serves synchronous single-URL analysis.
type Handler struct {
	fetcher  Fetcher
	analyzer *Analyzer
	cache    Cache
	log      *logger.Logger
}

func NewHandler(fetcher Fetcher, analyzer *Analyzer, cache Cache) *Handler {
	return &Handler{fetcher: fetcher, analyzer: analyzer, cache: cache, log: logger.New("AnalyzeHandler")}
}

type analyzeParams struct {
	URL   string `form:"url"`
	Fresh bool   `form:"fresh"`
}

type AnalyzeResponse struct {
	Success bool    `json:"success"`
	Cached  bool    `json:"cached,omitempty"`
	Result  *Result `json:"result,omitempty"`
}

func (h *Handler) HandleAnalyze(c *fiber.Ctx) error {
	var p analyzeParams
	if err := parser.ParseQuery(c, &p); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	if p.URL == "" {
		return errorJSON(c, fiber.StatusBadRequest, "url query parameter is required")
	}
	if err := fetch.ValidateURL(p.URL); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	cacheKey := "analyze:" + p.URL
	if h.cache != nil && !p.Fresh {
		var cached Result
		if err := h.cache.CacheGet(c.Context(), cacheKey, &cached); err == nil {
			h.log.LogDebugf("cache hit for %s", p.URL)
			return c.JSON(AnalyzeResponse{Success: true, Cached: true, Result: &cached})
		}
	}

	page, err := h.fetcher.Fetch(c.Context(), p.URL)
	if err != nil {
		h.log.LogWarnf("fetch failed for %s: %v", p.URL, err)
		return errorJSON(c, fiber.StatusBadGateway, "fetch failed: "+err.Error())
	}
	result := h.analyzer.Analyze(c.Context(), page)

	if h.cache != nil && !result.Failed() {
		if err := h.cache.CacheSet(c.Context(), cacheKey, result, resultTTLSeconds); err != nil {
			h.log.LogWarnf("cache store failed for %s: %v", p.URL, err)
		}
	}
	return c.JSON(AnalyzeResponse{Success: true, Result: result})
}

func errorJSON(c *fiber.Ctx, code int, msg string) error {
	return c.Status(code).JSON(fiber.Map{"success": false, "error": msg})
}
