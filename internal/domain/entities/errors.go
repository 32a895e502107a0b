package entities

import "errors"

// Domain errors
var (
	ErrMeetingNotFound = errors.New("meeting not found")
	ErrAgentNotFound   = errors.New("agent not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrJobNotFound     = errors.New("summary job not found")

	ErrEmptyTranscript = errors.New("transcript has no items")
)
