package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/agentmeet-team/agentmeet/internal/domain/entities"
	"github.com/agentmeet-team/agentmeet/internal/domain/repositories"
)

// summaryJobRepository implements the SummaryJobRepository interface
type summaryJobRepository struct {
	db *gorm.DB
}

// NewSummaryJobRepository creates a new summary job repository
func NewSummaryJobRepository(db *gorm.DB) repositories.SummaryJobRepository {
	return &summaryJobRepository{db: db}
}

// Create inserts a new pending job
func (r *summaryJobRepository) Create(ctx context.Context, job *entities.SummaryJob) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	return r.db.WithContext(ctx).Create(job).Error
}

// FindByID retrieves a job by ID
func (r *summaryJobRepository) FindByID(ctx context.Context, jobID uuid.UUID) (*entities.SummaryJob, error) {
	var job entities.SummaryJob
	if err := r.db.WithContext(ctx).Where("id = ?", jobID).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// ListPending retrieves pending jobs ordered oldest first
func (r *summaryJobRepository) ListPending(ctx context.Context, limit int) ([]entities.SummaryJob, error) {
	if limit == 0 {
		limit = 10
	}
	var jobs []entities.SummaryJob
	if err := r.db.WithContext(ctx).
		Where("status = ?", entities.SummaryJobStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// Claim atomically moves a pending job to running. Only one worker wins when
// several see the same pending row.
func (r *summaryJobRepository) Claim(ctx context.Context, jobID uuid.UUID) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&entities.SummaryJob{}).
		Where("id = ? AND status = ?", jobID, entities.SummaryJobStatusPending).
		Updates(map[string]interface{}{
			"status":     entities.SummaryJobStatusRunning,
			"started_at": now,
			"updated_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SaveCheckpoint persists intermediate pipeline output on the job row
func (r *summaryJobRepository) SaveCheckpoint(ctx context.Context, jobID uuid.UUID, checkpoint entities.SummaryJobCheckpoint) error {
	return r.db.WithContext(ctx).
		Model(&entities.SummaryJob{}).
		Where("id = ?", jobID).
		Updates(map[string]interface{}{
			"checkpoint": datatypes.NewJSONType(checkpoint),
			"updated_at": time.Now(),
		}).Error
}

// MarkCompleted marks a job as done
func (r *summaryJobRepository) MarkCompleted(ctx context.Context, jobID uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.SummaryJob{}).
		Where("id = ?", jobID).
		Updates(map[string]interface{}{
			"status":       entities.SummaryJobStatusCompleted,
			"completed_at": now,
			"updated_at":   now,
		}).Error
}

// MarkFailed records a failure. While retries remain the job goes back to
// pending so the poll loop picks it up again; otherwise it is failed for good.
func (r *summaryJobRepository) MarkFailed(ctx context.Context, jobID uuid.UUID, errMsg string) error {
	now := time.Now()
	requeue := r.db.WithContext(ctx).
		Model(&entities.SummaryJob{}).
		Where("id = ? AND retry_count < max_retries - 1", jobID).
		Updates(map[string]interface{}{
			"status":      entities.SummaryJobStatusPending,
			"retry_count": gorm.Expr("retry_count + 1"),
			"last_error":  errMsg,
			"updated_at":  now,
		})
	if requeue.Error != nil {
		return requeue.Error
	}
	if requeue.RowsAffected > 0 {
		return nil
	}

	return r.db.WithContext(ctx).
		Model(&entities.SummaryJob{}).
		Where("id = ?", jobID).
		Updates(map[string]interface{}{
			"status":      entities.SummaryJobStatusFailed,
			"retry_count": gorm.Expr("retry_count + 1"),
			"last_error":  errMsg,
			"updated_at":  now,
		}).Error
}

// ResetStale re-queues running jobs untouched for over ten minutes. Covers
// workers that died mid-job; completed steps survive in the checkpoint.
func (r *summaryJobRepository) ResetStale(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-10 * time.Minute)
	result := r.db.WithContext(ctx).
		Model(&entities.SummaryJob{}).
		Where("status = ? AND updated_at < ?", entities.SummaryJobStatusRunning, cutoff).
		Updates(map[string]interface{}{
			"status":     entities.SummaryJobStatusPending,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}
