package analysis

import (
	"encoding/json"
	"strings"
)

// ExtractionError reports that no parseable JSON object could be recovered
// from the model output. Raw always carries the original text verbatim so the
// failure can be diagnosed downstream.
type ExtractionError struct {
	Raw string
}

func (e *ExtractionError) Error() string {
	return "no JSON object found in model response"
}

// ExtractObject recovers a JSON object from untrusted free text. The model is
// instructed to emit a bare JSON object but may wrap it in prose or markdown
// code fences. Strategies are tried in order:
//
//  1. parse the whole trimmed text,
//  2. strip markdown code fences and parse again,
//  3. take the first '{' and its matching '}' via a balanced-brace scan.
//
// Each strategy is independently testable; if all fail the original text is
// preserved in the returned ExtractionError.
func ExtractObject(raw string) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(raw)

	if obj, ok := parseObject(trimmed); ok {
		return obj, nil
	}

	if obj, ok := parseObject(stripCodeFence(trimmed)); ok {
		return obj, nil
	}

	if candidate, ok := balancedObject(trimmed); ok {
		if obj, ok := parseObject(candidate); ok {
			return obj, nil
		}
	}

	return nil, &ExtractionError{Raw: raw}
}

// parseObject reports whether s is exactly one valid JSON object.
func parseObject(s string) (json.RawMessage, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") || !json.Valid([]byte(s)) {
		return nil, false
	}
	return json.RawMessage(s), true
}

// stripCodeFence removes a surrounding markdown code fence, with or without a
// language tag.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		// Drop the language tag line (e.g. "json").
		s = s[idx+1:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// balancedObject returns the substring from the first '{' to its matching '}'.
// The scan tracks string literals and escapes, so braces inside string values
// do not unbalance it. A naive first-'{' to last-'}' slice would not survive
// prose containing stray braces after the object.
func balancedObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}

		switch {
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && c == '{':
			depth++
		case !inString && c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}
