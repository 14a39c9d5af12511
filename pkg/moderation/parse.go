package moderation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fencedBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// secondaryVerdict mirrors the strict-JSON contract requested from
// completion-style providers. Pointer fields distinguish absent from
// zero-valued.
type secondaryVerdict struct {
	IsSafe        *bool    `json:"is_safe"`
	Confidence    *float64 `json:"confidence"`
	ViolationType *string  `json:"violation_type"`
	Reasoning     string   `json:"reasoning"`
}

// parseSecondaryText extracts a Verdict from free-form provider output.
// Extraction strategies are tried in order: the whole text as JSON, the
// contents of a fenced code block, the first {...} span. The first candidate
// that decodes as JSON is then validated against the verdict contract; any
// failure is reported as an error so the caller can substitute the safe
// default.
func parseSecondaryText(text string) (*Verdict, error) {
	candidate, ok := firstDecodable(text)
	if !ok {
		return nil, fmt.Errorf("no JSON object found in provider output")
	}

	var raw secondaryVerdict
	if err := json.Unmarshal([]byte(candidate), &raw); err != nil {
		return nil, fmt.Errorf("decode provider output: %w", err)
	}

	if raw.IsSafe == nil || raw.Confidence == nil || raw.ViolationType == nil {
		return nil, fmt.Errorf("provider output missing required fields")
	}

	violation, err := ParseViolationType(*raw.ViolationType)
	if err != nil {
		return nil, err
	}

	verdict := &Verdict{
		IsSafe:        *raw.IsSafe,
		Confidence:    *raw.Confidence,
		ViolationType: violation,
		Reasoning:     raw.Reasoning,
	}
	if err := verdict.Validate(); err != nil {
		return nil, err
	}
	return verdict, nil
}

// firstDecodable returns the first extraction candidate that decodes as a
// JSON object.
func firstDecodable(text string) (string, bool) {
	candidates := []string{strings.TrimSpace(text)}
	if block, ok := extractFencedBlock(text); ok {
		candidates = append(candidates, block)
	}
	if span, ok := extractFirstObject(text); ok {
		candidates = append(candidates, span)
	}

	for _, c := range candidates {
		if c == "" {
			continue
		}
		var probe map[string]json.RawMessage
		if err := json.Unmarshal([]byte(c), &probe); err == nil {
			return c, true
		}
	}
	return "", false
}

func extractFencedBlock(text string) (string, bool) {
	match := fencedBlockRe.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	return strings.TrimSpace(match[1]), true
}

// extractFirstObject scans for the first balanced {...} span, taking JSON
// string literals into account.
func extractFirstObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
