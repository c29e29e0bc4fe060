package classify

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FirstJSONObject finds the first balanced {...} region in s and
// strict-parses it. Models wrap their JSON in prose and code fences; the
// scanner tolerates both but the region itself must parse cleanly.
func FirstJSONObject(s string) (map[string]any, error) {
	s = stripCodeFences(s)

	start := strings.IndexByte(s, '{')
	if start < 0 {
		return nil, fmt.Errorf("no JSON object in response")
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
				var obj map[string]any
				if err := json.Unmarshal([]byte(s[start:i+1]), &obj); err != nil {
					return nil, fmt.Errorf("invalid JSON object in response: %w", err)
				}
				return obj, nil
			}
		}
	}
	return nil, fmt.Errorf("unbalanced JSON object in response")
}

// stripCodeFences removes markdown code fencing some models insist on.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ParseLabels extracts and validates the labels for a classification kind
// from raw model output. Any unknown label rejects the whole response; an
// unrecognized spelling is treated as a parse failure, never accepted.
func ParseLabels(kind Kind, raw string) ([]string, error) {
	obj, err := FirstJSONObject(raw)
	if err != nil {
		return nil, err
	}
	if kind == KindSiteType {
		return parseSiteType(obj)
	}
	return parseCategories(obj)
}

func parseCategories(obj map[string]any) ([]string, error) {
	value, exists := obj["categories"]
	if !exists {
		// Repair the single-label shape some responses use.
		if single, ok := obj["category"].(string); ok {
			label, known := CanonicalCategory(single)
			if !known {
				return nil, fmt.Errorf("unknown category %q", single)
			}
			return []string{label}, nil
		}
		return nil, fmt.Errorf(`response has no "categories" field`)
	}

	arr, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf(`"categories" should be an array, got %T`, value)
	}

	var labels []string
	seen := make(map[string]bool)
	for _, entry := range arr {
		s, ok := entry.(string)
		if !ok {
			return nil, fmt.Errorf("category entry should be a string, got %T", entry)
		}
		label, known := CanonicalCategory(s)
		if !known {
			return nil, fmt.Errorf("unknown category %q", s)
		}
		if !seen[label] {
			seen[label] = true
			labels = append(labels, label)
		}
	}
	// An empty array is a valid "nothing matched" answer; the analyzer's
	// Other guarantee covers it.
	return labels, nil
}

func parseSiteType(obj map[string]any) ([]string, error) {
	value, exists := obj["site_type"]
	if !exists {
		return nil, fmt.Errorf(`response has no "site_type" field`)
	}
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf(`"site_type" should be a string, got %T`, value)
	}
	label, known := CanonicalSiteType(s)
	if !known {
		return nil, fmt.Errorf("unknown site type %q", s)
	}
	return []string{label}, nil
}
