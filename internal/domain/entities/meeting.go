package entities

import (
	"time"

	"github.com/google/uuid"
)

// MeetingStatus represents the lifecycle status of a meeting
type MeetingStatus string

const (
	MeetingStatusUpcoming   MeetingStatus = "upcoming"
	MeetingStatusActive     MeetingStatus = "active"
	MeetingStatusProcessing MeetingStatus = "processing"
	MeetingStatusCompleted  MeetingStatus = "completed"
	MeetingStatusCancelled  MeetingStatus = "cancelled"
)

// Meeting represents a session between a user and an AI agent.
// Status moves upcoming -> active -> processing -> completed; cancelled is
// reachable from upcoming/active only. Transitions are applied with
// status-predicated updates so webhook redelivery cannot regress a meeting.
type Meeting struct {
	ID            uuid.UUID     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name          string        `json:"name" gorm:"type:varchar(255);not null"`
	UserID        uuid.UUID     `json:"user_id" gorm:"type:uuid;not null;index"`
	AgentID       uuid.UUID     `json:"agent_id" gorm:"type:uuid;not null;index"`
	Agent         *Agent        `json:"agent,omitempty" gorm:"foreignKey:AgentID"`
	Status        MeetingStatus `json:"status" gorm:"type:varchar(20);not null;default:'upcoming';index"`
	StartedAt     *time.Time    `json:"started_at,omitempty"`
	EndedAt       *time.Time    `json:"ended_at,omitempty"`
	TranscriptURL *string       `json:"transcript_url,omitempty" gorm:"type:text"`
	RecordingURL  *string       `json:"recording_url,omitempty" gorm:"type:text"`
	Summary       *string       `json:"summary,omitempty" gorm:"type:text"`
	CreatedAt     time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Meeting
func (Meeting) TableName() string {
	return "meetings"
}

// IsCompleted checks if the meeting has finished processing
func (m *Meeting) IsCompleted() bool {
	return m.Status == MeetingStatusCompleted
}

// CanActivate reports whether a session_started event may activate the meeting
func (m *Meeting) CanActivate() bool {
	switch m.Status {
	case MeetingStatusActive, MeetingStatusProcessing, MeetingStatusCompleted, MeetingStatusCancelled:
		return false
	}
	return true
}
