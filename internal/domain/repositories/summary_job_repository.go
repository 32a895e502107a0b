package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/agentmeet-team/agentmeet/internal/domain/entities"
)

// SummaryJobRepository defines the interface for summary job data access
type SummaryJobRepository interface {
	// Create inserts a new pending job
	Create(ctx context.Context, job *entities.SummaryJob) error

	// FindByID retrieves a job by its ID; nil when absent
	FindByID(ctx context.Context, id uuid.UUID) (*entities.SummaryJob, error)

	// ListPending retrieves pending jobs ordered oldest first
	ListPending(ctx context.Context, limit int) ([]entities.SummaryJob, error)

	// Claim atomically moves a pending job to running. Returns false when
	// another worker already claimed it.
	Claim(ctx context.Context, jobID uuid.UUID) (bool, error)

	// SaveCheckpoint persists intermediate pipeline output on the job row
	SaveCheckpoint(ctx context.Context, jobID uuid.UUID, checkpoint entities.SummaryJobCheckpoint) error

	// MarkCompleted marks a job as done
	MarkCompleted(ctx context.Context, jobID uuid.UUID) error

	// MarkFailed records a failure; re-queues as pending while retries remain
	MarkFailed(ctx context.Context, jobID uuid.UUID, errMsg string) error

	// ResetStale re-queues running jobs whose workers died
	ResetStale(ctx context.Context) (int64, error)
}
