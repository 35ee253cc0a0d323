package models

import (
	"strconv"
	"time"
)

// Store documents are schema-flexible, so every read goes through these
// coercions: malformed numerics become 0, negatives clamp to 0, missing
// strings become "" and missing arrays become empty.

func docString(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func docNumber(m map[string]any, key string) float64 {
	v, ok := m[key]
	if !ok {
		return 0
	}
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case float32:
		n = float64(t)
	case int:
		n = float64(t)
	case int32:
		n = float64(t)
	case int64:
		n = float64(t)
	case string:
		parsed, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0
		}
		n = parsed
	default:
		return 0
	}
	if n < 0 {
		return 0
	}
	return n
}

func docInt(m map[string]any, key string) int {
	return int(docNumber(m, key))
}

func docBool(m map[string]any, key string, fallback bool) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return fallback
}

func docStrings(m map[string]any, key string) []string {
	out := []string{}
	switch t := m[key].(type) {
	case []string:
		out = append(out, t...)
	case []any:
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

func docTime(m map[string]any, key string) time.Time {
	switch t := m[key].(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
