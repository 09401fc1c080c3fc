// internal/enrichment/parse.go
package enrichment

import (
	"encoding/json"
	"errors"
	"strings"
)

type webhookItem struct {
	Output string `json:"output"`
}

// parseTags decodes a classification webhook response: a non-empty array
// whose first element carries an "output" string, itself a JSON object
// mapping category names to tag lists, possibly fenced as a code block.
// Category lists are flattened into one unordered collection; duplicates
// across categories are preserved.
func parseTags(body []byte) ([]string, error) {
	var items []webhookItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, &StageError{Stage: StageDecode, Err: err}
	}
	if len(items) == 0 {
		return nil, &StageError{Stage: StageDecode, Err: errors.New("empty response sequence")}
	}

	payload := stripCodeFence(items[0].Output)

	var categories map[string][]string
	if err := json.Unmarshal([]byte(payload), &categories); err != nil {
		return nil, &StageError{Stage: StageParse, Err: err}
	}

	tags := make([]string, 0)
	for _, list := range categories {
		tags = append(tags, list...)
	}
	return tags, nil
}

// stripCodeFence removes a surrounding ``` fence, including an optional
// language tag on the opening line. Unfenced input passes through untouched.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}

	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
