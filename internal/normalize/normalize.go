// Package normalize recovers a JSON array of records from free-form
// provider text. It never fails: text that yields no array produces an
// empty slice.
package normalize

import (
	"encoding/json"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/justsurfingit/lead-scout/internal/metrics"
)

// wrapperKeys are checked in order when a candidate parses to an object.
var wrapperKeys = []string{"leads", "jobs", "results", "data"}

// closers are appended to a repaired candidate, in order.
var closers = []string{"", "]", "}]", "}}]"}

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// trailingGarbageRe matches everything after the last '}' or ']'.
var trailingGarbageRe = regexp.MustCompile(`[^}\]]+$`)

// Records extracts the best-effort record array from text. Candidates are
// tried in order: every fenced block body, the span from the first '[' to
// the last ']', then the whole trimmed text. A candidate that does not
// parse directly is retried with its tail repaired.
func Records(text string) []any {
	if strings.TrimSpace(text) == "" {
		return []any{}
	}

	for _, candidate := range candidates(text) {
		if candidate == "" {
			continue
		}
		if list, ok := parseList(candidate); ok {
			return list
		}
		if list, ok := repair(candidate); ok {
			metrics.NormalizerRepairs.Inc()
			return list
		}
	}

	zap.L().Debug("normalize: no record array found", zap.Int("text_len", len(text)))
	metrics.NormalizerMisses.Inc()
	return []any{}
}

// Objects is Records restricted to JSON objects. Scalars or nested arrays
// inside the recovered array are skipped.
func Objects(text string) []map[string]any {
	records := Records(text)
	out := make([]map[string]any, 0, len(records))
	for _, r := range records {
		if m, ok := r.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func candidates(text string) []string {
	var out []string
	for _, m := range fenceRe.FindAllStringSubmatch(text, -1) {
		out = append(out, strings.TrimSpace(m[1]))
	}

	first := strings.Index(text, "[")
	last := strings.LastIndex(text, "]")
	if first != -1 && last > first {
		out = append(out, strings.TrimSpace(text[first:last+1]))
	}

	return append(out, strings.TrimSpace(text))
}

func repair(candidate string) ([]any, bool) {
	fixed := trailingGarbageRe.ReplaceAllString(candidate, "")
	if fixed == "" {
		return nil, false
	}
	for _, c := range closers {
		if list, ok := parseList(fixed + c); ok {
			return list, true
		}
	}
	return nil, false
}

// parseList parses s and returns the array it holds, either directly or
// under one of the wrapper keys.
func parseList(s string) ([]any, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}

	switch t := v.(type) {
	case []any:
		return t, true
	case map[string]any:
		for _, k := range wrapperKeys {
			if list, ok := t[k].([]any); ok {
				return list, true
			}
		}
	}
	return nil, false
}
