package speech

import (
	"regexp"
	"strings"
)

// maxSpokenLength is the ceiling above which replies are read, not spoken.
const maxSpokenLength = 500

// codeIndicators mark text as too technical to voice.
var codeIndicators = []string{"```", "function", "const ", "let ", "var ", "import ", "export ", "func ", "package "}

// ShouldSpeak decides whether an assistant reply is worth voicing:
// non-empty, short enough, not code-like, not a technical API error.
func ShouldSpeak(text string) bool {
	if text == "" {
		return false
	}
	if len(text) > maxSpokenLength {
		return false
	}
	for _, indicator := range codeIndicators {
		if strings.Contains(text, indicator) {
			return false
		}
	}
	if strings.HasPrefix(text, "Error:") && strings.Contains(text, "API") {
		return false
	}
	return true
}

var (
	boldRe   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe = regexp.MustCompile(`\*(.*?)\*`)
	codeRe   = regexp.MustCompile("`(.*?)`")
	urlRe    = regexp.MustCompile(`https?://\S+`)
	spaceRe  = regexp.MustCompile(`\s+`)
	lineRe   = regexp.MustCompile(`\n+`)
)

// symbolWords replaces glyphs a synthesizer reads badly.
var symbolWords = strings.NewReplacer(
	"&", "and",
	"@", "at",
	"#", "number",
	"$", "dollar",
	"%", "percent",
)

// FormatForSpeech strips markdown, spells out symbols, replaces URLs
// with "link" and collapses whitespace so synthesis sounds natural.
func FormatForSpeech(text string) string {
	out := boldRe.ReplaceAllString(text, "$1")
	out = italicRe.ReplaceAllString(out, "$1")
	out = codeRe.ReplaceAllString(out, "$1")
	out = symbolWords.Replace(out)
	out = urlRe.ReplaceAllString(out, "link")
	out = lineRe.ReplaceAllString(out, ". ")
	out = spaceRe.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// commandPatterns map spoken phrasings to likely action identifiers.
var commandPatterns = []struct {
	action string
	re     *regexp.Regexp
}{
	{"fetch_weather", regexp.MustCompile(`(?i)what'?s the weather|weather in|weather for|check weather`)},
	{"get_time", regexp.MustCompile(`(?i)what time|current time|what'?s the time`)},
	{"create_todo", regexp.MustCompile(`(?i)create todo|add todo|new todo|make a todo`)},
	{"fetch_github_stats", regexp.MustCompile(`(?i)github stats|check github|repository stats`)},
	{"calculate", regexp.MustCompile(`(?i)calculate|compute|how much is`)},
	{"search_web", regexp.MustCompile(`(?i)search for|look up|find`)},
}

// ParseCommand guesses which action a transcript is asking for. It is a
// hint for the UI, not a dispatch decision; the model still classifies.
func ParseCommand(transcript string) (string, bool) {
	cleaned := strings.TrimSpace(strings.ToLower(transcript))
	for _, p := range commandPatterns {
		if p.re.MatchString(cleaned) {
			return p.action, true
		}
	}
	return "", false
}
