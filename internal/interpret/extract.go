package interpret

import (
	"regexp"
	"strings"
)

var fencePattern = regexp.MustCompile("(?s)```(?:json|JSON)?[ \\t]*\\r?\\n?(.*?)```")

// extractJSON locates the JSON object in a model reply. A fenced code block
// wins; otherwise the first balanced top-level object is used, and if the
// braces never balance the span from the first '{' to the last '}'.
func extractJSON(raw string) (string, bool) {
	if m := fencePattern.FindStringSubmatch(raw); m != nil {
		body := strings.TrimSpace(m[1])
		if obj, ok := balancedObject(body); ok {
			return obj, true
		}
		if body != "" {
			return body, true
		}
	}

	if obj, ok := balancedObject(raw); ok {
		return obj, true
	}

	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start == -1 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// balancedObject returns the first {...} span whose braces balance, ignoring
// braces inside JSON string literals.
func balancedObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
