package job

import (
	"time"

	"github.com/SuryaYadav707/Article-Analyzer/internal/core/analyze"
)

// Job is the Redis-backed record for a queued batch analysis. It is what
// status polling returns, so its shape is part of the API.
type Job struct {
	JobID     string     `json:"job_id"`
	Type      Type       `json:"type"`
	Status    Status     `json:"status"`
	Data      *BatchData `json:"data,omitempty"`
	CreatedAt time.Time  `json:"created_at,omitempty"`
	UpdatedAt time.Time  `json:"updated_at,omitempty"`
}

type Type string

const (
	TypeBatch Type = "batch_analysis"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// BatchData carries progress counters while a job runs and the full result
// set once it finishes. Total stays 0 for seed jobs until discovery resolves
// the URL list.
type BatchData struct {
	Seed      string            `json:"seed,omitempty"`
	Completed int               `json:"completed"`
	Total     int               `json:"total"`
	Succeeded int               `json:"succeeded,omitempty"`
	Failed    int               `json:"failed,omitempty"`
	Error     string            `json:"error,omitempty"`
	Results   []*analyze.Result `json:"results,omitempty"`
}
