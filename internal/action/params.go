package action

import (
	"fmt"
	"strconv"
	"strings"
)

// stringParam returns the first non-empty string value among the given
// keys, trimmed.
func stringParam(params map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := params[k].(string); ok {
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// numberParam extracts a numeric parameter. JSON numbers decode as
// float64; numeric strings are accepted too, as the model sometimes
// quotes them.
func numberParam(params map[string]any, key string) (float64, bool) {
	switch v := params[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// missingParam builds an ErrMissingParameter failure for the given action.
func missingParam(action string, names string) error {
	return fmt.Errorf("%w: %s requires %s", ErrMissingParameter, action, names)
}
