package summary

import (
	"fmt"
	"math"
	"strings"

	"github.com/agentmeet-team/agentmeet/internal/domain/entities"
)

// FallbackSummary builds a deterministic statistics summary from the
// transcript, used when the AI provider is unavailable. It keeps the same
// Overview/Notes markdown shape the AI output uses so consumers render both
// the same way.
func FallbackSummary(items []entities.EnrichedTranscriptItem, excerptCount, excerptChars int) string {
	if excerptCount <= 0 {
		excerptCount = 5
	}
	if excerptChars <= 0 {
		excerptChars = 100
	}

	speakers := make(map[string]struct{}, len(items))
	for _, item := range items {
		speakers[item.SpeakerID] = struct{}{}
	}
	participants := len(speakers)
	totalMessages := len(items)

	duration := 0
	if len(items) > 0 {
		elapsed := items[len(items)-1].StopTs - items[0].StartTs
		duration = int(math.Round(float64(elapsed) / 1000.0 / 60.0))
	}

	excerpts := make([]string, 0, excerptCount)
	for _, item := range items {
		if len(excerpts) == excerptCount {
			break
		}
		if len(item.Text) <= 10 {
			continue
		}
		excerpts = append(excerpts, truncate(item.Text, excerptChars)+"...")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "### Overview\nThis meeting involved %d participants and lasted approximately %d minutes. The conversation included %d exchanges covering various topics and discussions.\n\n", participants, duration, totalMessages)
	fmt.Fprintf(&b, "### Notes\n#### Meeting Participants\n- %d participants\n\n", participants)

	b.WriteString("#### Key Discussion Points\n")
	for _, excerpt := range excerpts {
		fmt.Fprintf(&b, "- %s\n", excerpt)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "#### Meeting Statistics\n- Total messages: %d\n- Duration: ~%d minutes\n- Participants: %d\n\n", totalMessages, duration, participants)
	b.WriteString("*Note: This is an automatically generated summary. For enhanced analysis, please check your AI provider configuration.*")

	return b.String()
}

// truncate cuts s to at most n runes
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
