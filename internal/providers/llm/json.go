package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

func decodeJSON(text string, target any) error {
	if err := json.Unmarshal([]byte(extractJSON(text)), target); err != nil {
		return fmt.Errorf("failed to unmarshal model response: %w", err)
	}
	return nil
}

// extractJSON pulls a JSON object or array out of model output that may be
// wrapped in markdown fences or surrounding prose.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	switch {
	case startArr != -1 && endArr > startArr && (startObj == -1 || startArr < startObj):
		return text[startArr : endArr+1]
	case startObj != -1 && endObj > startObj:
		return text[startObj : endObj+1]
	case startArr != -1 && endArr > startArr:
		return text[startArr : endArr+1]
	}
	return strings.TrimSpace(text)
}
