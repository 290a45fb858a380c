package domain

// ActionDirective is a structured instruction parsed from model output.
// It is transient: only its effects (turns and tasks) are persisted.
type ActionDirective struct {
	Action string         `json:"action"`
	Params map[string]any `json:"params"`
}

// Reply is the classified form of a model response: plain text when
// Directive is nil, an action directive otherwise. Ambiguous marks
// replies that looked like structured output but failed to decode or
// lacked the action discriminator; they are still treated as plain text.
type Reply struct {
	Text      string
	Directive *ActionDirective
	Ambiguous bool
}

// IsDirective reports whether the reply carries an action directive.
func (r Reply) IsDirective() bool { return r.Directive != nil }
