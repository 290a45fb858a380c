package speech

import (
	"sync"

	"github.com/soyeahso/arise/internal/logging"
)

// Manager coordinates one synthesizer/recognizer pair for a session.
// Synthesis and recognition are mutually exclusive: starting one stops
// the other first, so the microphone never hears the speaker. Construct
// one per session; there is no shared instance.
type Manager struct {
	mu        sync.Mutex
	synth     Synthesizer
	rec       Recognizer
	listening bool
	log       *logging.Logger
}

// NewManager creates a manager over the given engines. Nil engines fall
// back to no-ops.
func NewManager(synth Synthesizer, rec Recognizer, log *logging.Logger) *Manager {
	if synth == nil {
		synth = NopSynthesizer{}
	}
	if rec == nil {
		rec = NopRecognizer{}
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Manager{synth: synth, rec: rec, log: log.Sub("speech")}
}

// Speak voices the text, stopping any active recognition first. Returns
// whether synthesis began.
func (m *Manager) Speak(text string, opts SpeakOptions) bool {
	if text == "" {
		return false
	}
	if opts.Rate == 0 {
		opts.Rate = 0.9
	}
	if opts.Pitch == 0 {
		opts.Pitch = 1.0
	}
	if opts.Volume == 0 {
		opts.Volume = 0.8
	}

	// The lock stays held across the engine start: a concurrent
	// StartListening cannot slip in between stopping recognition and
	// synthesis actually beginning.
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listening {
		m.rec.Stop()
		m.listening = false
	}
	m.synth.Stop()

	ok := m.synth.Speak(text, opts)
	m.log.Debug().Bool("started", ok).Int("chars", len(text)).Msg("speak")
	return ok
}

// StopSpeaking cancels any in-progress synthesis.
func (m *Manager) StopSpeaking() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.synth.Stop()
}

// IsSpeaking reports whether synthesis is active.
func (m *Manager) IsSpeaking() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.synth.Speaking()
}

// StartListening begins voice capture, stopping any active synthesis
// first. Returns whether recognition began. Like Speak, the lock spans
// the engine start, so a synthesis racing in waits its turn.
func (m *Manager) StartListening(onResult func(Result), onError func(error), onEnd func()) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.synth.Speaking() {
		m.synth.Stop()
	}
	if m.listening {
		m.rec.Stop()
	}
	m.listening = true

	ok := m.rec.Start(onResult, onError, func() {
		m.mu.Lock()
		m.listening = false
		m.mu.Unlock()
		if onEnd != nil {
			onEnd()
		}
	})
	if !ok {
		m.listening = false
	}
	m.log.Debug().Bool("started", ok).Msg("listen")
	return ok
}

// StopListening cancels any in-progress recognition.
func (m *Manager) StopListening() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listening {
		m.rec.Stop()
		m.listening = false
	}
}

// IsListening reports whether recognition is active.
func (m *Manager) IsListening() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listening
}

// Close stops both engines. The manager is unusable afterwards only by
// convention; calls stay safe.
func (m *Manager) Close() {
	m.StopListening()
	m.StopSpeaking()
}
