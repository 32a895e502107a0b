package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/agentmeet-team/agentmeet/internal/domain/entities"
	"github.com/agentmeet-team/agentmeet/internal/domain/repositories"
)

// wakeKey is the Redis list workers block on between polls
const wakeKey = "agentmeet:summary:wake"

// Enqueuer is the fire-and-forget boundary between the webhook dispatcher
// and the summarization pipeline.
type Enqueuer interface {
	EnqueueSummary(ctx context.Context, meetingID uuid.UUID, transcriptURL string) error
}

// Waiter lets workers block until new work arrives or the timeout passes
type Waiter interface {
	WaitForWake(ctx context.Context, timeout time.Duration)
}

// SummaryQueue is a durable at-least-once queue: the job row is the source
// of truth, the Redis push only wakes a worker early. A lost push delays a
// job until the next poll; it never drops one.
type SummaryQueue struct {
	jobs   repositories.SummaryJobRepository
	redis  *redis.Client
	logger *zap.Logger
}

// NewSummaryQueue creates a summary queue
func NewSummaryQueue(jobs repositories.SummaryJobRepository, redisClient *redis.Client, logger *zap.Logger) *SummaryQueue {
	return &SummaryQueue{
		jobs:   jobs,
		redis:  redisClient,
		logger: logger,
	}
}

// EnqueueSummary durably records a summarization job for a meeting
func (q *SummaryQueue) EnqueueSummary(ctx context.Context, meetingID uuid.UUID, transcriptURL string) error {
	job := entities.NewSummaryJob(meetingID, transcriptURL)
	if err := q.jobs.Create(ctx, job); err != nil {
		return err
	}

	if q.redis != nil {
		if err := q.redis.LPush(ctx, wakeKey, job.ID.String()).Err(); err != nil {
			// Poll loop will still find the row
			if q.logger != nil {
				q.logger.Warn("failed to push summary wake signal",
					zap.String("job_id", job.ID.String()),
					zap.Error(err),
				)
			}
		}
	}

	if q.logger != nil {
		q.logger.Info("summary job enqueued",
			zap.String("job_id", job.ID.String()),
			zap.String("meeting_id", meetingID.String()),
		)
	}
	return nil
}

// WaitForWake blocks until a wake signal arrives or the timeout passes
func (q *SummaryQueue) WaitForWake(ctx context.Context, timeout time.Duration) {
	if q.redis == nil {
		select {
		case <-ctx.Done():
		case <-time.After(timeout):
		}
		return
	}
	// BRPOP returns redis.Nil on timeout; both outcomes just resume polling
	_, _ = q.redis.BRPop(ctx, timeout, wakeKey).Result()
}
