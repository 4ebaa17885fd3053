package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// extractJSON tries to extract JSON from a response that might have extra text.
func extractJSON(text string) string {
	// Look for JSON object
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")

	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}

	// Look for JSON array
	start = strings.Index(text, "[")
	end = strings.LastIndex(text, "]")

	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}

	return text
}

// decodeResponse unmarshals the raw completion into dst, falling back to the
// extracted JSON span when the model wrapped its output in prose or fences.
func decodeResponse(raw string, dst any) error {
	if err := json.Unmarshal([]byte(raw), dst); err == nil {
		return nil
	}

	if err := json.Unmarshal([]byte(extractJSON(raw)), dst); err != nil {
		return fmt.Errorf("failed to parse LLM response as JSON: %w", err)
	}

	return nil
}
