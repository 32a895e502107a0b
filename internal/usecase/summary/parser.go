package summary

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/agentmeet-team/agentmeet/internal/domain/entities"
)

// transcript lines can carry long utterances
const maxLineBytes = 1024 * 1024

// ParseTranscript decodes a newline-delimited JSON transcript document into
// items. Blank lines are skipped; a malformed line fails the whole document
// with its line number.
func ParseTranscript(data []byte) ([]entities.TranscriptItem, error) {
	items := make([]entities.TranscriptItem, 0, 64)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var item entities.TranscriptItem
		if err := json.Unmarshal(line, &item); err != nil {
			return nil, fmt.Errorf("parse transcript line %d: %w", lineNo, err)
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	return items, nil
}

// SpeakerIDs returns the unique speaker ids in first-appearance order
func SpeakerIDs(items []entities.TranscriptItem) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.SpeakerID]; ok {
			continue
		}
		seen[item.SpeakerID] = struct{}{}
		ids = append(ids, item.SpeakerID)
	}
	return ids
}
