// Package ai holds shared helpers for reasoning service adapters: response
// cleaning, defensive JSON field extraction, and token counting.
package ai

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	boldRe        = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicRe      = regexp.MustCompile(`\*([^*]+)\*`)
	trailingComma = regexp.MustCompile(`,(\s*[}\]])`)
	unquotedKeyRe = regexp.MustCompile(`(\w+):`)
)

// CleanJSON repairs the usual damage models inflict on JSON output:
// markdown fences, prose around the object, smart punctuation, trailing
// commas. Returns the best-effort cleaned string; IsValidJSON tells the
// caller whether it worked.
func CleanJSON(response string) string {
	response = stripMarkdownFences(response)
	response = extractObject(response)
	if IsValidJSON(response) {
		return response
	}
	response = boldRe.ReplaceAllString(response, `"$1"`)
	response = italicRe.ReplaceAllString(response, `"$1"`)
	response = strings.ReplaceAll(response, "`", `"`)
	response = trailingComma.ReplaceAllString(response, "$1")
	if IsValidJSON(response) {
		return response
	}
	response = unquotedKeyRe.ReplaceAllString(response, `"$1":`)
	response = strings.ReplaceAll(response, "'", `"`)
	return extractObject(response)
}

func stripMarkdownFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// extractObject returns the first brace-balanced JSON object in s, or s
// unchanged when none is found.
func extractObject(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return s
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
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return s
}

// IsValidJSON reports whether s parses as JSON.
func IsValidJSON(s string) bool {
	var v any
	return json.Unmarshal([]byte(s), &v) == nil
}
