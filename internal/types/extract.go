package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Argument extraction utilities.
//
// Function-call arguments arrive as an untyped map decoded from provider
// JSON, so values can be string, float64 (all JSON numbers), bool, or
// []any. These helpers replace bare type assertions that panic on
// mismatch.

// ExtractString extracts a string representation from a call argument.
func ExtractString(arg any) string {
	switch v := arg.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ExtractFloat64 extracts a numeric value from a call argument.
// Returns (value, true) on success, (0, false) if the type is incompatible.
func ExtractFloat64(arg any) (float64, bool) {
	switch v := arg.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// ExtractInt extracts an integer value from a call argument.
// Returns (value, true) on success, (0, false) if the type is incompatible.
func ExtractInt(arg any) (int, bool) {
	f, ok := ExtractFloat64(arg)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// ExtractBool extracts a boolean value from a call argument.
// Handles bool directly and "true"/"false" strings.
func ExtractBool(arg any) (bool, bool) {
	switch v := arg.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
		return false, false
	default:
		return false, false
	}
}

// ExtractStringSlice extracts a list of strings from a call argument.
// Provider JSON decodes arrays as []any; single scalar values are
// promoted to a one-element slice.
func ExtractStringSlice(arg any) []string {
	switch v := arg.(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := strings.TrimSpace(ExtractString(item)); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		return []string{s}
	case nil:
		return nil
	default:
		s := strings.TrimSpace(ExtractString(v))
		if s == "" {
			return nil
		}
		return []string{s}
	}
}
