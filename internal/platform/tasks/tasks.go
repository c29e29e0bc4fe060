package tasks

import (
	"encoding/json"
	"time"

	"github.com/SuryaYadav707/Article-Analyzer/internal/platform/redis"

	"github.com/hibiken/asynq"
)

const (
	TypeAnalyzeBatch = "analyze:batch"
)

// AnalyzeBatchPayload is the task body for a queued batch analysis. Either
// URLs or Seed must be set; when Seed is given the worker discovers the URL
// list before analyzing.
type AnalyzeBatchPayload struct {
	JobID    string   `json:"job_id"`
	URLs     []string `json:"urls,omitempty"`
	Seed     string   `json:"seed,omitempty"`
	MaxPages int      `json:"max_pages,omitempty"`
	Depth    int      `json:"depth,omitempty"`
}

func NewAnalyzeBatchTask(p AnalyzeBatchPayload) (*asynq.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeAnalyzeBatch, b), nil
}

type Client struct{ c *asynq.Client }

func New(r *redis.Service) *Client { return &Client{c: asynq.NewClient(r.AsynqRedisOpt())} }

// Enqueue submits a task. A zero timeout lets it run unbounded.
func (t *Client) Enqueue(task *asynq.Task, queue string, maxRetries int, timeout time.Duration) error {
	_, err := t.c.Enqueue(task, asynq.Queue(queue), asynq.MaxRetry(maxRetries), asynq.Timeout(timeout))
	return err
}
