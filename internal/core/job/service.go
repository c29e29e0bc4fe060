package job

import (
	"context"
	"fmt"
	"time"

	rds "github.com/SuryaYadav707/Article-Analyzer/internal/platform/redis"
)

type JobService struct{ redis *rds.Service }

func NewJobService(redis *rds.Service) *JobService { return &JobService{redis: redis} }

func (s *JobService) GetJobStatus(ctx context.Context, jobID string) (*Job, error) {
	var job Job
	if err := s.redis.CacheGet(ctx, key(jobID), &job); err != nil {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}
	return &job, nil
}

// store persists the job with a status-dependent TTL and notifies any
// subscribers on the job's channel. A nil data keeps whatever was stored
// before, so status flips never erase progress or results.
func (s *JobService) store(ctx context.Context, jobID string, status Status, data *BatchData) error {
	var job Job
	_ = s.redis.CacheGet(ctx, key(jobID), &job)
	job.JobID = jobID
	job.Type = TypeBatch
	job.Status = status
	if data != nil {
		job.Data = data
	}
	now := time.Now().UTC()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now
	if err := s.redis.CacheSet(ctx, key(jobID), job, ttl(status)); err != nil {
		return err
	}
	_ = s.redis.Client().Publish(ctx, key(jobID), "updated").Err()
	return nil
}

func (s *JobService) InitPending(ctx context.Context, jobID string, total int, seed string) error {
	return s.store(ctx, jobID, StatusPending, &BatchData{Seed: seed, Total: total})
}

func (s *JobService) SetProcessing(ctx context.Context, jobID string) error {
	return s.store(ctx, jobID, StatusProcessing, nil)
}

// SetProgress updates the completed/total counters without touching results.
func (s *JobService) SetProgress(ctx context.Context, jobID string, completed, total int) error {
	var job Job
	if err := s.redis.CacheGet(ctx, key(jobID), &job); err != nil && !rds.IsMiss(err) {
		return err
	}
	data := job.Data
	if data == nil {
		data = &BatchData{}
	}
	data.Completed = completed
	data.Total = total
	return s.store(ctx, jobID, StatusProcessing, data)
}

func (s *JobService) Complete(ctx context.Context, jobID string, status Status, data *BatchData) error {
	return s.store(ctx, jobID, status, data)
}

func key(id string) string { return "job:" + id }

func ttl(s Status) int {
	if s == StatusCompleted || s == StatusFailed {
		return 3600
	}
	return 600
}
