// Package directive classifies model replies as plain text or action
// directives. Classification is total: it never errors and never panics,
// and anything that is not an unambiguous directive is plain text.
package directive

import (
	"encoding/json"
	"strings"

	"github.com/soyeahso/arise/internal/domain"
)

// sentinel is the discriminator value a directive must carry in its
// "type" field.
const sentinel = "action"

// rawDirective mirrors the wire shape {"type":"action","action":...,"params":{...}}.
type rawDirective struct {
	Type   string         `json:"type"`
	Action string         `json:"action"`
	Params map[string]any `json:"params"`
}

// Classify inspects a model reply and returns it as an explicit sum:
// plain text (Directive nil) or an action directive. The cheap brace
// guard runs before any JSON decode, so ordinary prose never pays for
// parsing. Replies that look structured but fail to decode, or decode
// without the action discriminator, come back as plain text with
// Ambiguous set.
func Classify(replyText string) domain.Reply {
	trimmed := strings.TrimSpace(replyText)

	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return domain.Reply{Text: replyText}
	}

	var raw rawDirective
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return domain.Reply{Text: replyText, Ambiguous: true}
	}

	if raw.Type != sentinel || raw.Action == "" || raw.Params == nil {
		return domain.Reply{Text: replyText, Ambiguous: true}
	}

	return domain.Reply{
		Text: replyText,
		Directive: &domain.ActionDirective{
			Action: raw.Action,
			Params: raw.Params,
		},
	}
}
