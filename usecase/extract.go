package usecase

import (
	"encoding/json"
	"regexp"
	"strings"

	pkgError "github.com/hackatransparency/alfred-vision/pkg/error"
)

var (
	jsonFenceRegex = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	anyFenceRegex  = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
)

// extractJSON pulls a JSON object out of raw model text. Models often wrap
// the payload in markdown fences or chat filler, so it falls back through
// progressively looser matches before giving up.
func extractJSON(text string) (map[string]any, error) {
	var payload map[string]any
	if err := json.Unmarshal([]byte(text), &payload); err == nil {
		return payload, nil
	}

	if match := jsonFenceRegex.FindStringSubmatch(text); match != nil {
		if err := json.Unmarshal([]byte(match[1]), &payload); err == nil {
			return payload, nil
		}
	}

	if match := anyFenceRegex.FindStringSubmatch(text); match != nil {
		if err := json.Unmarshal([]byte(match[1]), &payload); err == nil {
			return payload, nil
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err == nil {
			return payload, nil
		}
	}

	return nil, pkgError.ExtractionError("no valid JSON found in model response")
}
