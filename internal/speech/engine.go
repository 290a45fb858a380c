// Package speech is the optional voice boundary: synthesis of assistant
// replies and recognition of spoken input. Engines are feature-detected
// at construction; unsupported platforms get no-op engines whose calls
// return false, so callers never branch on availability.
package speech

// Result is one recognized utterance.
type Result struct {
	Transcript string
	Confidence float64
	Final      bool
}

// SpeakOptions tune a single synthesis call. Zero values pick the
// defaults (rate 0.9, pitch 1.0, volume 0.8).
type SpeakOptions struct {
	Rate    float64
	Pitch   float64
	Volume  float64
	OnStart func()
	OnEnd   func()
	OnError func(error)
}

// Synthesizer turns text into audio.
type Synthesizer interface {
	// Speak starts speaking and returns whether synthesis began.
	Speak(text string, opts SpeakOptions) bool

	// Stop cancels any in-progress speech.
	Stop()

	// Speaking reports whether synthesis is active.
	Speaking() bool
}

// Recognizer captures one utterance of voice input.
type Recognizer interface {
	// Start begins listening and returns whether recognition began.
	// onEnd fires exactly once per successful Start, after the final
	// result or an error. Callbacks are delivered from the engine's
	// own goroutine, never from inside Start.
	Start(onResult func(Result), onError func(error), onEnd func()) bool

	// Stop cancels any in-progress recognition.
	Stop()
}

// NopSynthesizer is the unsupported-platform synthesizer.
type NopSynthesizer struct{}

func (NopSynthesizer) Speak(string, SpeakOptions) bool { return false }
func (NopSynthesizer) Stop()                           {}
func (NopSynthesizer) Speaking() bool                  { return false }

// NopRecognizer is the unsupported-platform recognizer.
type NopRecognizer struct{}

func (NopRecognizer) Start(func(Result), func(error), func()) bool { return false }
func (NopRecognizer) Stop()                                        {}
