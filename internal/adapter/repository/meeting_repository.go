package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agentmeet-team/agentmeet/internal/domain/entities"
	"github.com/agentmeet-team/agentmeet/internal/domain/repositories"
)

// meetingRepository implements the MeetingRepository interface
type meetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) repositories.MeetingRepository {
	return &meetingRepository{db: db}
}

// Create creates a new meeting
func (r *meetingRepository) Create(ctx context.Context, meeting *entities.Meeting) error {
	return r.db.WithContext(ctx).Create(meeting).Error
}

// FindByID retrieves a meeting by its ID
func (r *meetingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	var meeting entities.Meeting
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&meeting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrMeetingNotFound
		}
		return nil, err
	}
	return &meeting, nil
}

// FindByIDWithStatus retrieves a meeting only if it has the given status
func (r *meetingRepository) FindByIDWithStatus(ctx context.Context, id uuid.UUID, status entities.MeetingStatus) (*entities.Meeting, error) {
	var meeting entities.Meeting
	err := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, status).
		First(&meeting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrMeetingNotFound
		}
		return nil, err
	}
	return &meeting, nil
}

// Activate sets status=active and startedAt. The status predicate is the
// only guard against double-activation under concurrent webhook delivery.
func (r *meetingRepository) Activate(ctx context.Context, id uuid.UUID, startedAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ? AND status NOT IN ?", id, []entities.MeetingStatus{
			entities.MeetingStatusActive,
			entities.MeetingStatusProcessing,
			entities.MeetingStatusCompleted,
			entities.MeetingStatusCancelled,
		}).
		Updates(map[string]interface{}{
			"status":     entities.MeetingStatusActive,
			"started_at": startedAt,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

// MarkProcessing sets status=processing and endedAt for an active meeting
func (r *meetingRepository) MarkProcessing(ctx context.Context, id uuid.UUID, endedAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ? AND status = ?", id, entities.MeetingStatusActive).
		Updates(map[string]interface{}{
			"status":     entities.MeetingStatusProcessing,
			"ended_at":   endedAt,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

// SetTranscriptURL persists the transcript location
func (r *meetingRepository) SetTranscriptURL(ctx context.Context, id uuid.UUID, url string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"transcript_url": url,
			"updated_at":     time.Now(),
		})
	return result.RowsAffected, result.Error
}

// SetRecordingURL persists the recording location
func (r *meetingRepository) SetRecordingURL(ctx context.Context, id uuid.UUID, url string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"recording_url": url,
			"updated_at":    time.Now(),
		})
	return result.RowsAffected, result.Error
}

// CompleteWithSummary writes the summary and sets status=completed.
// Safe under at-least-once pipeline delivery: rewriting the same summary
// for an already completed meeting is a no-op in effect.
func (r *meetingRepository) CompleteWithSummary(ctx context.Context, id uuid.UUID, summary string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"summary":    summary,
			"status":     entities.MeetingStatusCompleted,
			"updated_at": time.Now(),
		}).Error
}
