package entities

// TranscriptItem is one utterance from the provider's transcript document.
// The document is newline-delimited JSON, one item per line. Timestamps are
// millisecond epochs.
type TranscriptItem struct {
	SpeakerID string `json:"speaker_id"`
	Type      string `json:"type,omitempty"`
	Text      string `json:"text"`
	StartTs   int64  `json:"start_ts"`
	StopTs    int64  `json:"stop_ts"`
}

// SpeakerLabel is the display identity merged onto a transcript item during
// enrichment. It is never persisted with the item.
type SpeakerLabel struct {
	Name string `json:"name"`
}

// EnrichedTranscriptItem is a transcript item with its resolved speaker label.
type EnrichedTranscriptItem struct {
	TranscriptItem
	User SpeakerLabel `json:"user"`
}
