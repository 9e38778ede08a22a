package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed is returned when content cannot be parsed as JSON,
// either directly, from a markdown code fence, or from an embedded object.
var ErrParseFailed = errors.New("failed to parse response")

var jsonBlockRegex = regexp.MustCompile(`(?s)` + "```" + `(?:json)?\s*\n?(.*?)\n?` + "```")

// Parse unmarshals model output into T. Models occasionally wrap the JSON
// in a markdown fence or surround it with prose, so three readings are
// attempted in order: the whole content, the first fenced block, and the span
// between the first '{' and the last '}'.
func Parse[T any](content string) (T, error) {
	var result T
	content = strings.TrimSpace(content)

	for _, candidate := range candidates(content) {
		var attempt T
		if err := json.Unmarshal([]byte(candidate), &attempt); err == nil {
			return attempt, nil
		}
	}

	return result, fmt.Errorf("%w: %s", ErrParseFailed, content)
}

func candidates(content string) []string {
	out := []string{content}

	if matches := jsonBlockRegex.FindStringSubmatch(content); len(matches) >= 2 {
		out = append(out, strings.TrimSpace(matches[1]))
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		out = append(out, content[start:end+1])
	}

	return out
}
