package discover

import (
	"github.com/SuryaYadav707/Article-Analyzer/internal/utils/parser"

	"github.com/gofiber/fiber/v2"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

type discoverParams struct {
	URL               string `form:"url"`
	Depth             int    `form:"depth"`
	Limit             int    `form:"limit"`
	IncludeSubdomains bool   `form:"include_subdomains"`
}

type Response struct {
	Success bool     `json:"success"`
	Count   int      `json:"count"`
	Links   []string `json:"links"`
}

func (h *Handler) HandleDiscover(c *fiber.Ctx) error {
	var p discoverParams
	if err := parser.ParseQuery(c, &p); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	if p.URL == "" {
		return errorJSON(c, fiber.StatusBadRequest, "url query parameter is required")
	}
	links, err := h.svc.Discover(p.URL, Options{Depth: p.Depth, Limit: p.Limit, IncludeSubdomains: p.IncludeSubdomains})
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(Response{Success: true, Count: len(links), Links: links})
}

func errorJSON(c *fiber.Ctx, code int, msg string) error {
	return c.Status(code).JSON(fiber.Map{"success": false, "error": msg})
}
