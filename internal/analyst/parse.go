package analyst

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSONObject reports that a model reply contained no recoverable JSON
// object after fence stripping.
var ErrNoJSONObject = errors.New("no JSON object in model reply")

// CleanJSONResponse extracts the JSON object from a raw model reply. Models
// wrap replies in markdown fences or surround them with prose despite
// instructions, so fences are stripped first and then everything outside the
// outermost { ... } pair is discarded.
func CleanJSONResponse(raw string) (string, error) {
	cleaned := trimCodeFence(raw)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("%w: %q", ErrNoJSONObject, truncateForError(cleaned))
	}

	return strings.TrimSpace(cleaned[start : end+1]), nil
}

func trimCodeFence(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "```") {
		v = strings.TrimPrefix(v, "```")
		v = strings.TrimSpace(v)
		if strings.HasPrefix(strings.ToLower(v), "json") {
			v = strings.TrimSpace(v[4:])
		}
	}
	v = strings.TrimSuffix(v, "```")
	return strings.TrimSpace(v)
}

func truncateForError(v string) string {
	const max = 80
	if len(v) > max {
		return v[:max] + "..."
	}
	return v
}
