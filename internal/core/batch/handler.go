package batch

import (
	"github.com/SuryaYadav707/Article-Analyzer/internal/core/job"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	job   *job.JobService
	batch *Service
}

func NewHandler(jobSvc *job.JobService, svc *Service) *Handler {
	return &Handler{job: jobSvc, batch: svc}
}

type CreateResponse struct {
	Success bool   `json:"success"`
	JobID   string `json:"job_id"`
}

// StatusResponse exposes progress counters while the job runs and the full
// result set once it completes.
type StatusResponse struct {
	Success bool           `json:"success"`
	JobID   string         `json:"job_id"`
	Status  job.Status     `json:"status"`
	Data    *job.BatchData `json:"data,omitempty"`
}

func (h *Handler) HandleCreateBatch(c *fiber.Ctx) error {
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid body")
	}
	if len(req.URLs) == 0 && req.Seed == "" {
		return errorJSON(c, fiber.StatusBadRequest, "either urls or seed is required")
	}
	id, err := h.batch.Enqueue(c.Context(), req)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.Status(fiber.StatusAccepted).JSON(CreateResponse{Success: true, JobID: id})
}

func (h *Handler) HandleGetBatch(c *fiber.Ctx) error {
	id := c.Params("jobId")
	j, err := h.job.GetJobStatus(c.Context(), id)
	if err != nil {
		return errorJSON(c, fiber.StatusNotFound, "not_found")
	}
	return c.JSON(StatusResponse{Success: true, JobID: id, Status: j.Status, Data: j.Data})
}

func errorJSON(c *fiber.Ctx, code int, msg string) error {
	return c.Status(code).JSON(fiber.Map{"success": false, "error": msg})
}
