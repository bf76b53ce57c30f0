// Package strings provides slice normalization helpers for user-supplied lists.
package strings

import (
	"strings"
)

// DedupeAndTrim removes duplicates and empty strings from a slice,
// trimming whitespace from each element. Order is preserved.
//
//	DedupeAndTrim([]string{"  go ", "sql", "go", "", "  "}) // []string{"go", "sql"}
func DedupeAndTrim(values []string) []string {
	return normalize(values, false, true)
}

// TrimAll trims every element and drops empties, keeping duplicates.
func TrimAll(values []string) []string {
	return normalize(values, false, false)
}

// TrimLower trims and lowercases every element and drops empties. Duplicates
// are kept: job tags are only ever matched by membership.
func TrimLower(values []string) []string {
	return normalize(values, true, false)
}

// DedupeAndTrimLower is like DedupeAndTrim but also lowercases each element.
func DedupeAndTrimLower(values []string) []string {
	return normalize(values, true, true)
}

func normalize(values []string, lower, dedupe bool) []string {
	if len(values) == 0 {
		return values
	}

	var seen map[string]struct{}
	if dedupe {
		seen = make(map[string]struct{}, len(values))
	}
	result := make([]string, 0, len(values))

	for _, v := range values {
		v = strings.TrimSpace(v)
		if lower {
			v = strings.ToLower(v)
		}
		if v == "" {
			continue
		}
		if dedupe {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
		}
		result = append(result, v)
	}

	return result
}

// LongerThan returns the first element whose rune length exceeds limit.
func LongerThan(values []string, limit int) (string, bool) {
	for _, v := range values {
		if len([]rune(v)) > limit {
			return v, true
		}
	}
	return "", false
}
