package monosynth

import (
	"fmt"
	"strings"
	"sync"

	intaudio "github.com/cbegin/monosynth-go/internal/audio"
	intsynth "github.com/cbegin/monosynth-go/internal/synth"
)

// Params is the voice's full control surface; see DefaultParams.
type Params = intsynth.Params

// Status is the read-only view the audio thread publishes after each block.
type Status = intsynth.Status

// DefaultParams returns the power-on patch.
func DefaultParams() Params { return intsynth.DefaultParams() }

// NoteToFreq converts a MIDI note number to Hz (A4 = 440).
func NoteToFreq(note int) float64 { return intsynth.NoteToFreq(note) }

type Backend string

const (
	BackendEbiten Backend = "ebiten"
	BackendOto    Backend = "oto"
)

// ParseBackend accepts "ebiten" or "oto".
func ParseBackend(name string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(name))) {
	case BackendEbiten:
		return BackendEbiten, nil
	case BackendOto:
		return BackendOto, nil
	}
	return "", fmt.Errorf("%w: %q (expected ebiten|oto)", ErrUnknownBackend, name)
}

type PlayerOption func(*playerConfig)

type playerConfig struct {
	backend   Backend
	sampleTap func([]float32)
	params    *Params
}

func defaultPlayerConfig() playerConfig {
	return playerConfig{backend: BackendEbiten}
}

func WithBackend(b Backend) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.backend = b
	}
}

// WithSampleTap installs a callback invoked with each generated stereo buffer.
// The callback runs on the audio thread; keep work brief and non-blocking.
func WithSampleTap(tap func([]float32)) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.sampleTap = tap
	}
}

// WithParams sets the initial patch instead of DefaultParams.
func WithParams(p Params) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.params = &p
	}
}

// Player connects one synth engine to an audio device. All methods are
// safe to call from any goroutine other than the audio thread.
type Player struct {
	mu         sync.Mutex
	sampleRate int
	backend    Backend
	engine     *intsynth.Engine
	audio      intaudio.Output
}

// NewPlayer opens the audio device and starts streaming silence until the
// first note.
func NewPlayer(sampleRate int, opts ...PlayerOption) (*Player, error) {
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	cfg := defaultPlayerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	engine := intsynth.NewEngine(sampleRate)
	if cfg.params != nil {
		engine.SetParams(*cfg.params)
	}
	out, err := newOutput(cfg.backend, sampleRate, engine, cfg.sampleTap)
	if err != nil {
		return nil, err
	}
	out.Play()
	return &Player{
		sampleRate: sampleRate,
		backend:    cfg.backend,
		engine:     engine,
		audio:      out,
	}, nil
}

func newOutput(b Backend, sampleRate int, src intaudio.SampleSource, tap func([]float32)) (intaudio.Output, error) {
	switch b {
	case BackendEbiten:
		out, err := intaudio.NewPlayer(sampleRate, src, tap)
		if err != nil {
			return nil, fmt.Errorf("open ebiten audio: %w", err)
		}
		return out, nil
	case BackendOto:
		out, err := intaudio.NewOtoPlayer(sampleRate, src, tap)
		if err != nil {
			return nil, fmt.Errorf("open oto audio: %w", err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, b)
}

func (p *Player) SampleRate() int  { return p.sampleRate }
func (p *Player) Backend() Backend { return p.backend }

func trigger(ok bool) error {
	if !ok {
		return ErrTriggerQueueFull
	}
	return nil
}

// NoteOn gates the voice at its current frequency.
func (p *Player) NoteOn() error { return trigger(p.engine.NoteOn()) }

// PlayNote retunes the voice to the MIDI note and gates it.
func (p *Player) PlayNote(note int) error {
	p.engine.UpdateParams(func(pr *Params) { pr.Frequency = NoteToFreq(note) })
	return p.NoteOn()
}

func (p *Player) NoteOff() error        { return trigger(p.engine.NoteOff()) }
func (p *Player) StartSequencer() error { return trigger(p.engine.StartSequencer()) }
func (p *Player) StopSequencer() error  { return trigger(p.engine.StopSequencer()) }
func (p *Player) ResetLFO() error       { return trigger(p.engine.ResetLFO()) }

// Params returns the most recently published parameters.
func (p *Player) Params() Params { return p.engine.Params() }

// SetParams publishes a whole new patch. Out-of-range values are clamped.
func (p *Player) SetParams(pr Params) { p.engine.SetParams(pr) }

// UpdateParams edits a copy of the current patch and publishes it.
func (p *Player) UpdateParams(fn func(*Params)) Params { return p.engine.UpdateParams(fn) }

func (p *Player) Status() Status { return p.engine.Status() }

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio != nil {
		p.audio.Pause()
	}
}

func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio != nil {
		p.audio.Play()
	}
}

// Close stops the device. Further calls return ErrClosed.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio == nil {
		return ErrClosed
	}
	err := p.audio.Close()
	p.audio = nil
	return err
}
