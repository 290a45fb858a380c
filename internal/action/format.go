package action

import (
	"encoding/json"
	"strings"
)

// Format renders a dispatch result for the conversation log. It is pure
// and never panics: a result carrying an error field uses the failure
// template regardless of action, known actions get their capability's
// template, and everything else (including malformed known results)
// falls back to the generic completion template.
func (d *Dispatcher) Format(action string, result any) string {
	if msg, ok := resultError(result); ok {
		return FormatFailure(action, msg)
	}

	if c, ok := d.caps[action]; ok {
		if s, ok := c.Format(result); ok {
			return s
		}
	}

	return displayName(action) + " completed: " + stringify(result)
}

// FormatFailure renders the fixed failure template for an action.
func FormatFailure(action, errMsg string) string {
	return displayName(action) + " failed: " + errMsg
}

// resultError extracts a provider-reported error field from a payload.
func resultError(result any) (string, bool) {
	m, ok := result.(map[string]any)
	if !ok {
		return "", false
	}
	msg, ok := m["error"].(string)
	return msg, ok && msg != ""
}

func displayName(action string) string {
	return strings.ReplaceAll(action, "_", " ")
}

func stringify(result any) string {
	if s, ok := result.(string); ok {
		return s
	}
	data, err := json.Marshal(result)
	if err != nil {
		return "done"
	}
	return string(data)
}
