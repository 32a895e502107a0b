package webhook

// Event type discriminators sent by the call/chat provider
const (
	EventSessionStarted    = "call.session_started"
	EventParticipantLeft   = "call.session_participant_left"
	EventSessionEnded      = "call.session_ended"
	EventTranscriptionReady = "call.transcription_ready"
	EventRecordingReady    = "call.recording_ready"
	EventMessageNew        = "message.new"
)

// Envelope carries just the discriminator so the dispatcher can pick a
// payload type before fully decoding.
type Envelope struct {
	Type string `json:"type"`
}

// SessionStartedEvent announces a call session has begun. The meeting ID
// rides in the call's custom data.
type SessionStartedEvent struct {
	Type string `json:"type"`
	Call struct {
		Custom struct {
			MeetingID string `json:"meetingId"`
		} `json:"custom"`
	} `json:"call"`
}

// ParticipantLeftEvent announces a participant left. CallCID has the form
// "type:id".
type ParticipantLeftEvent struct {
	Type    string `json:"type"`
	CallCID string `json:"call_cid"`
}

// SessionEndedEvent announces the call session finished
type SessionEndedEvent struct {
	Type string `json:"type"`
	Call struct {
		Custom struct {
			MeetingID string `json:"meetingId"`
		} `json:"custom"`
	} `json:"call"`
}

// TranscriptionReadyEvent announces the transcript file is available
type TranscriptionReadyEvent struct {
	Type          string `json:"type"`
	CallCID       string `json:"call_cid"`
	CallTranscription struct {
		URL string `json:"url"`
	} `json:"call_transcription"`
}

// RecordingReadyEvent announces the session recording is available
type RecordingReadyEvent struct {
	Type          string `json:"type"`
	CallCID       string `json:"call_cid"`
	CallRecording struct {
		URL string `json:"url"`
	} `json:"call_recording"`
}

// MessageNewEvent announces a new chat message on a meeting channel
type MessageNewEvent struct {
	Type      string `json:"type"`
	User      struct {
		ID string `json:"id"`
	} `json:"user"`
	ChannelID string `json:"channel_id"`
	Message   struct {
		Text string `json:"text"`
	} `json:"message"`
}
