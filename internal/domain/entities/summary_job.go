package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SummaryJobStatus represents the status of a summarization job
type SummaryJobStatus string

const (
	SummaryJobStatusPending   SummaryJobStatus = "pending"   // Enqueued, waiting for a worker
	SummaryJobStatusRunning   SummaryJobStatus = "running"   // Claimed by a worker
	SummaryJobStatusCompleted SummaryJobStatus = "completed" // Summary persisted to the meeting
	SummaryJobStatusFailed    SummaryJobStatus = "failed"    // Exhausted retries
)

// SummaryJobCheckpoint holds durable intermediate pipeline output so a
// restarted job does not repeat completed steps. Enriched is set once the
// fetch/parse/enrich steps have all succeeded.
type SummaryJobCheckpoint struct {
	Enriched []EnrichedTranscriptItem `json:"enriched,omitempty"`
}

// SummaryJob is the durable queue row behind the summarization pipeline.
// One job per transcription_ready event, keyed by meeting. Delivery is
// at-least-once; every step tolerates re-execution.
type SummaryJob struct {
	ID            uuid.UUID                                `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID     uuid.UUID                                `json:"meeting_id" gorm:"type:uuid;not null;index"`
	TranscriptURL string                                   `json:"transcript_url" gorm:"type:text;not null"`
	Status        SummaryJobStatus                         `json:"status" gorm:"type:varchar(20);not null;index;default:'pending'"`
	Checkpoint    datatypes.JSONType[SummaryJobCheckpoint] `json:"checkpoint,omitempty" gorm:"type:jsonb"`
	RetryCount    int                                      `json:"retry_count" gorm:"type:integer;default:0"`
	MaxRetries    int                                      `json:"max_retries" gorm:"type:integer;default:3"`
	LastError     *string                                  `json:"last_error,omitempty" gorm:"type:text"`
	StartedAt     *time.Time                               `json:"started_at,omitempty"`
	CompletedAt   *time.Time                               `json:"completed_at,omitempty"`
	CreatedAt     time.Time                                `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time                                `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewSummaryJob creates a pending summarization job
func NewSummaryJob(meetingID uuid.UUID, transcriptURL string) *SummaryJob {
	return &SummaryJob{
		ID:            uuid.New(),
		MeetingID:     meetingID,
		TranscriptURL: transcriptURL,
		Status:        SummaryJobStatusPending,
		RetryCount:    0,
		MaxRetries:    3,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

// HasEnrichedCheckpoint reports whether the fetch/parse/enrich steps already
// ran to completion for this job.
func (j *SummaryJob) HasEnrichedCheckpoint() bool {
	return len(j.Checkpoint.Data().Enriched) > 0
}

// IsRetryable checks if the job can be retried
func (j *SummaryJob) IsRetryable() bool {
	return j.RetryCount < j.MaxRetries
}

// TableName specifies the table name for GORM
func (SummaryJob) TableName() string {
	return "summary_jobs"
}
