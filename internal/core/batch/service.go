package batch

import (
	"context"
	"encoding/json"

	"github.com/SuryaYadav707/Article-Analyzer/internal/config"
	"github.com/SuryaYadav707/Article-Analyzer/internal/core/discover"
	"github.com/SuryaYadav707/Article-Analyzer/internal/core/job"
	"github.com/SuryaYadav707/Article-Analyzer/internal/logger"
	tasks "github.com/SuryaYadav707/Article-Analyzer/internal/platform/tasks"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Request describes a batch submitted over the API: an explicit URL list, or
// a seed URL to discover one from.
type Request struct {
	URLs     []string `json:"urls,omitempty"`
	Seed     string   `json:"seed,omitempty"`
	MaxPages int      `json:"max_pages,omitempty"`
	Depth    int      `json:"depth,omitempty"`
}

// Service queues batches and processes them from the worker. A fresh Runner
// is built per task so its progress callback can report into that job's
// record.
type Service struct {
	job      *job.JobService
	tasks    *tasks.Client
	fetcher  Fetcher
	analyzer PageAnalyzer
	discover *discover.Service
	cfg      config.Config
	log      *logger.Logger
}

func NewService(jobSvc *job.JobService, taskClient *tasks.Client, fetcher Fetcher, analyzer PageAnalyzer, disc *discover.Service, cfg config.Config) *Service {
	return &Service{
		job:      jobSvc,
		tasks:    taskClient,
		fetcher:  fetcher,
		analyzer: analyzer,
		discover: disc,
		cfg:      cfg,
		log:      logger.New("BatchService"),
	}
}

func (s *Service) Enqueue(ctx context.Context, req Request) (string, error) {
	id := uuid.New().String()
	if err := s.job.InitPending(ctx, id, len(req.URLs), req.Seed); err != nil {
		return "", err
	}
	task, err := tasks.NewAnalyzeBatchTask(tasks.AnalyzeBatchPayload{
		JobID:    id,
		URLs:     req.URLs,
		Seed:     req.Seed,
		MaxPages: req.MaxPages,
		Depth:    req.Depth,
	})
	if err != nil {
		return "", err
	}
	if err := s.tasks.Enqueue(task, "default", s.cfg.TaskMaxRetries, s.cfg.TaskTimeout); err != nil {
		return "", err
	}
	s.log.LogInfof("enqueued batch job %s (%d urls, seed=%s)", id, len(req.URLs), req.Seed)
	return id, nil
}

// HandleBatchTask is the asynq handler for queued batches. Per-URL failures
// are recorded as error results and never fail the task; only discovery of a
// seed can fail the whole job, and the returned error lets asynq retry it.
func (s *Service) HandleBatchTask(ctx context.Context, task *asynq.Task) error {
	var p tasks.AnalyzeBatchPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return err
	}
	s.log.LogInfof("processing batch job %s", p.JobID)
	if err := s.job.SetProcessing(ctx, p.JobID); err != nil {
		return err
	}

	urls := p.URLs
	if len(urls) == 0 && p.Seed != "" {
		found, err := s.discover.Discover(p.Seed, discover.Options{Depth: p.Depth, Limit: p.MaxPages})
		if err != nil {
			s.log.LogErrorf("batch job %s: discovery from %s failed: %v", p.JobID, p.Seed, err)
			_ = s.job.Complete(ctx, p.JobID, job.StatusFailed, &job.BatchData{Seed: p.Seed, Error: err.Error()})
			return err
		}
		urls = found
	}

	runner := NewRunner(s.fetcher, s.analyzer, Config{Workers: s.cfg.Workers, Delay: s.cfg.PolitenessDelay}, s.log, WithProgress(func(completed, total int) {
		_ = s.job.SetProgress(ctx, p.JobID, completed, total)
	}))
	results := runner.Run(ctx, urls)

	sum := Summarize(results)
	data := &job.BatchData{
		Seed:      p.Seed,
		Completed: sum.Total,
		Total:     sum.Total,
		Succeeded: sum.Succeeded,
		Failed:    sum.Failed,
		Results:   results,
	}
	s.log.LogInfof("completing batch job %s: success=%d failed=%d total=%d", p.JobID, sum.Succeeded, sum.Failed, sum.Total)
	return s.job.Complete(ctx, p.JobID, job.StatusCompleted, data)
}
