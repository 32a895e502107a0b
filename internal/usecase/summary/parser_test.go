package summary

import (
	"strings"
	"testing"
)

func TestParseTranscript(t *testing.T) {
	doc := []byte(`{"speaker_id":"u1","type":"speech","text":"hello there","start_ts":1000,"stop_ts":2500}
{"speaker_id":"a1","type":"speech","text":"hi, how can I help?","start_ts":3000,"stop_ts":5000}

{"speaker_id":"u1","type":"speech","text":"question about billing","start_ts":6000,"stop_ts":9000}
`)

	items, err := ParseTranscript(doc)
	if err != nil {
		t.Fatalf("ParseTranscript: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].SpeakerID != "u1" || items[0].Text != "hello there" {
		t.Errorf("first item mismatch: %+v", items[0])
	}
	if items[1].StartTs != 3000 || items[1].StopTs != 5000 {
		t.Errorf("timestamps mismatch: %+v", items[1])
	}
}

func TestParseTranscriptEmpty(t *testing.T) {
	items, err := ParseTranscript(nil)
	if err != nil {
		t.Fatalf("ParseTranscript: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
}

func TestParseTranscriptMalformedLine(t *testing.T) {
	doc := []byte(`{"speaker_id":"u1","text":"ok","start_ts":1,"stop_ts":2}
not json at all
`)
	_, err := ParseTranscript(doc)
	if err == nil {
		t.Fatal("expected error for malformed line")
	}
	if got := err.Error(); !strings.Contains(got, "line 2") {
		t.Errorf("error should name the line: %v", err)
	}
}

func TestSpeakerIDs(t *testing.T) {
	doc := []byte(`{"speaker_id":"u1","text":"a","start_ts":1,"stop_ts":2}
{"speaker_id":"a1","text":"b","start_ts":3,"stop_ts":4}
{"speaker_id":"u1","text":"c","start_ts":5,"stop_ts":6}
`)
	items, err := ParseTranscript(doc)
	if err != nil {
		t.Fatalf("ParseTranscript: %v", err)
	}

	ids := SpeakerIDs(items)
	if len(ids) != 2 || ids[0] != "u1" || ids[1] != "a1" {
		t.Errorf("unexpected speaker ids: %v", ids)
	}
}
