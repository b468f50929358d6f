package synth

import (
	"math"

	"github.com/cbegin/monosynth-go/internal/lfo"
	"github.com/cbegin/monosynth-go/internal/sequencer"
	"github.com/cbegin/monosynth-go/internal/waveform"
)

// Parameter ranges enforced on the control side by Sanitize.
const (
	MinFrequency   = 20.0
	MaxFrequency   = 20000.0
	MinEnvTime     = 0.001
	MaxEnvTime     = 10.0
	MinCutoff      = 20.0
	MaxCutoff      = 20000.0
	MaxLFORate     = 50.0
	MinStepLength  = 0.01
	MaxStepLength  = 4.0
	DefaultGate    = 0.8
	referencePitch = 440.0
)

// Params is the complete, externally writable parameter set. The control
// thread publishes whole Params values; the audio thread never sees a
// partially written one.
type Params struct {
	Wave      waveform.Kind
	Frequency float64 // Hz
	Amplitude float64 // 0..1

	Attack  float64 // seconds
	Decay   float64 // seconds
	Sustain float64 // 0..1
	Release float64 // seconds

	Cutoff float64 // Hz

	LFORate      float64 // Hz
	LFODepth     float64 // 0..1
	LFOWave      waveform.Kind
	LFOTarget    lfo.Target
	LFORetrigger bool // restart the LFO cycle on every note on

	Pattern sequencer.Pattern
	Gate    float64 // fraction of each step the note is held
}

// DefaultParams mirrors the voice's power-on state.
func DefaultParams() Params {
	return Params{
		Wave:      waveform.Sine,
		Frequency: 440,
		Amplitude: 0.5,
		Attack:    0.01,
		Decay:     0.1,
		Sustain:   0.8,
		Release:   0.2,
		Cutoff:    1000,
		LFORate:   4,
		LFODepth:  0.3,
		LFOWave:   waveform.Sine,
		LFOTarget: lfo.TargetNone,
		Pattern:   sequencer.DefaultPattern(),
		Gate:      DefaultGate,
	}
}

// Sanitize clamps every field into the range the real-time path relies on.
// NaN values are replaced by their defaults.
func (p Params) Sanitize() Params {
	d := DefaultParams()
	if p.Wave < waveform.Sine || p.Wave > waveform.Saw {
		p.Wave = d.Wave
	}
	if p.LFOWave < waveform.Sine || p.LFOWave > waveform.Saw {
		p.LFOWave = d.LFOWave
	}
	if p.LFOTarget < lfo.TargetNone || p.LFOTarget > lfo.TargetFilter {
		p.LFOTarget = lfo.TargetNone
	}
	p.Frequency = clamp(p.Frequency, MinFrequency, MaxFrequency, d.Frequency)
	p.Amplitude = clamp(p.Amplitude, 0, 1, d.Amplitude)
	p.Attack = clamp(p.Attack, MinEnvTime, MaxEnvTime, d.Attack)
	p.Decay = clamp(p.Decay, MinEnvTime, MaxEnvTime, d.Decay)
	p.Sustain = clamp(p.Sustain, 0, 1, d.Sustain)
	p.Release = clamp(p.Release, MinEnvTime, MaxEnvTime, d.Release)
	p.Cutoff = clamp(p.Cutoff, MinCutoff, MaxCutoff, d.Cutoff)
	p.LFORate = clamp(p.LFORate, 0, MaxLFORate, d.LFORate)
	p.LFODepth = clamp(p.LFODepth, 0, 1, d.LFODepth)
	p.Gate = clamp(p.Gate, 0.05, 1, d.Gate)
	for i := range p.Pattern {
		s := &p.Pattern[i]
		if s.Note < 0 || s.Note > 127 {
			s.Note = sequencer.Rest
		}
		s.Length = clamp(s.Length, MinStepLength, MaxStepLength, 0.25)
	}
	return p
}

func clamp(v, lo, hi, fallback float64) float64 {
	if math.IsNaN(v) {
		return fallback
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NoteToFreq converts a MIDI note number to Hz with A4 (69) at 440 Hz.
func NoteToFreq(note int) float64 {
	return referencePitch * math.Pow(2, float64(note-69)/12)
}

// apply pushes a snapshot into the voice and sequencer. The frequency is
// only pushed when it differs from prev, so unrelated edits leave a
// sequencer-set pitch alone. prev is nil for the first snapshot.
func (p *Params) apply(prev *Params, v *Voice, seq *sequencer.Sequencer) {
	v.SetWave(p.Wave)
	if prev == nil || p.Frequency != prev.Frequency {
		v.SetFrequency(p.Frequency)
	}
	v.SetAmplitude(p.Amplitude)
	v.SetEnvelope(p.Attack, p.Decay, p.Sustain, p.Release)
	v.SetLFO(p.LFORate, p.LFODepth, p.LFOWave, p.LFOTarget)
	v.SetCutoff(p.Cutoff)
	seq.SetPattern(p.Pattern)
	seq.SetGate(p.Gate)
}
