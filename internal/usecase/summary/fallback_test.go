package summary

import (
	"strings"
	"testing"

	"github.com/agentmeet-team/agentmeet/internal/domain/entities"
)

func enrichedItem(speaker, name, text string, start, stop int64) entities.EnrichedTranscriptItem {
	return entities.EnrichedTranscriptItem{
		TranscriptItem: entities.TranscriptItem{
			SpeakerID: speaker,
			Text:      text,
			StartTs:   start,
			StopTs:    stop,
		},
		User: entities.SpeakerLabel{Name: name},
	}
}

func TestFallbackSummaryStatistics(t *testing.T) {
	items := []entities.EnrichedTranscriptItem{
		enrichedItem("u1", "Ana", "let's review the incident timeline", 0, 120000),
		enrichedItem("a1", "Coach", "ok", 130000, 150000),
		enrichedItem("u1", "Ana", "the paging delay was the root cause of the slow response", 200000, 600000),
	}

	got := FallbackSummary(items, 5, 100)

	// 2 distinct speakers, 3 exchanges, (600000-0)/1000/60 = 10 minutes
	if !strings.Contains(got, "involved 2 participants") {
		t.Errorf("participant count missing:\n%s", got)
	}
	if !strings.Contains(got, "approximately 10 minutes") {
		t.Errorf("duration missing:\n%s", got)
	}
	if !strings.Contains(got, "included 3 exchanges") {
		t.Errorf("message count missing:\n%s", got)
	}
	if !strings.Contains(got, "### Overview") || !strings.Contains(got, "### Notes") {
		t.Errorf("markdown structure missing:\n%s", got)
	}
	// "ok" is too short to be an excerpt
	if strings.Contains(got, "- ok") {
		t.Errorf("short utterance should not appear as excerpt:\n%s", got)
	}
	if !strings.Contains(got, "let's review the incident timeline...") {
		t.Errorf("excerpt missing:\n%s", got)
	}
	if !strings.Contains(got, "automatically generated summary") {
		t.Errorf("auto-generation note missing:\n%s", got)
	}
}

func TestFallbackSummaryTruncatesExcerpts(t *testing.T) {
	long := strings.Repeat("x", 250)
	items := []entities.EnrichedTranscriptItem{
		enrichedItem("u1", "Ana", long, 0, 60000),
	}

	got := FallbackSummary(items, 5, 100)
	want := strings.Repeat("x", 100) + "..."
	if !strings.Contains(got, want) {
		t.Errorf("excerpt not truncated to 100 chars")
	}
	if strings.Contains(got, strings.Repeat("x", 101)) {
		t.Errorf("excerpt exceeds limit")
	}
}

func TestFallbackSummaryCapsExcerptCount(t *testing.T) {
	items := make([]entities.EnrichedTranscriptItem, 0, 8)
	for i := 0; i < 8; i++ {
		items = append(items, enrichedItem("u1", "Ana", "a reasonably long utterance", int64(i*1000), int64(i*1000+500)))
	}

	got := FallbackSummary(items, 5, 100)
	if n := strings.Count(got, "a reasonably long utterance..."); n != 5 {
		t.Errorf("expected 5 excerpts, got %d", n)
	}
}

func TestFallbackSummaryEmptyTranscript(t *testing.T) {
	got := FallbackSummary(nil, 5, 100)
	if !strings.Contains(got, "involved 0 participants") {
		t.Errorf("empty transcript should report zero participants:\n%s", got)
	}
	if !strings.Contains(got, "approximately 0 minutes") {
		t.Errorf("empty transcript should report zero duration:\n%s", got)
	}
}
