package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/agentmeet-team/agentmeet/internal/domain/entities"
)

// MeetingRepository defines the interface for meeting data access.
// The conditional mutations return the number of rows changed: webhook
// redelivery and concurrent events for the same meeting are serialized only
// by these status-predicated updates.
type MeetingRepository interface {
	// Create creates a new meeting
	Create(ctx context.Context, meeting *entities.Meeting) error

	// FindByID retrieves a meeting by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)

	// FindByIDWithStatus retrieves a meeting only if it has the given status
	FindByIDWithStatus(ctx context.Context, id uuid.UUID, status entities.MeetingStatus) (*entities.Meeting, error)

	// Activate sets status=active and startedAt, guarded so it only applies
	// to meetings that are not already active/processing/completed/cancelled.
	// Returns the number of rows updated.
	Activate(ctx context.Context, id uuid.UUID, startedAt time.Time) (int64, error)

	// MarkProcessing sets status=processing and endedAt for an active meeting.
	// Returns the number of rows updated.
	MarkProcessing(ctx context.Context, id uuid.UUID, endedAt time.Time) (int64, error)

	// SetTranscriptURL persists the transcript location. Returns rows updated
	// so callers can distinguish a missing meeting.
	SetTranscriptURL(ctx context.Context, id uuid.UUID, url string) (int64, error)

	// SetRecordingURL persists the recording location (idempotent write)
	SetRecordingURL(ctx context.Context, id uuid.UUID, url string) (int64, error)

	// CompleteWithSummary writes the summary and sets status=completed.
	// Idempotent upsert by meeting id.
	CompleteWithSummary(ctx context.Context, id uuid.UUID, summary string) error
}

// AgentRepository defines the interface for agent data access
type AgentRepository interface {
	Create(ctx context.Context, agent *entities.Agent) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Agent, error)
	// FindByIDs batch-resolves a set of agent ids (speaker enrichment)
	FindByIDs(ctx context.Context, ids []string) ([]*entities.Agent, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	// FindByIDs batch-resolves a set of user ids (speaker enrichment)
	FindByIDs(ctx context.Context, ids []string) ([]*entities.User, error)
}
