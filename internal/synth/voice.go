// Package synth is the real-time core: a single Voice that chains the
// oscillator, envelope, LFO and filter, and an Engine that feeds the voice
// from control-thread parameter snapshots and triggers.
package synth

import (
	"github.com/cbegin/monosynth-go/internal/envelope"
	"github.com/cbegin/monosynth-go/internal/filter"
	"github.com/cbegin/monosynth-go/internal/lfo"
	"github.com/cbegin/monosynth-go/internal/waveform"
)

// Modulation scaling at full LFO excursion, and the filter sweep range.
const (
	vibratoDepth   = 0.03
	tremoloDepth   = 0.5
	filterLFODepth = 0.8
	minSweepCutoff = 100.0
	maxSweepCutoff = 8000.0
)

// Voice is one monophonic synthesis pipeline. All sub-components are owned
// by value; Process never allocates.
type Voice struct {
	wave          waveform.Kind
	baseFrequency float64
	amplitude     float64
	baseCutoff    float64
	phase         float64

	env    envelope.Envelope
	lfo    lfo.LFO
	filter filter.OnePole
}

// NewVoice returns a voice with the power-on patch: sine at 440 Hz,
// amplitude 0.5, cutoff 1 kHz, LFO 4 Hz at depth 0.3 routed nowhere.
func NewVoice(sampleRate float64) *Voice {
	return &Voice{
		wave:          waveform.Sine,
		baseFrequency: 440,
		amplitude:     0.5,
		baseCutoff:    1000,
		env:           envelope.Default(),
		lfo:           lfo.New(4, 0.3),
		filter:        filter.New(sampleRate, 1000),
	}
}

// modulation is the parameter set a single frame is rendered with.
type modulation struct {
	frequency float64
	amplitude float64
	cutoff    float64
}

// modulate routes one LFO sample to exactly one destination.
func (v *Voice) modulate(lfoVal float64) modulation {
	m := modulation{frequency: v.baseFrequency, amplitude: v.amplitude, cutoff: v.baseCutoff}
	switch v.lfo.Target() {
	case lfo.TargetPitch:
		m.frequency = v.baseFrequency * (1 + lfoVal*vibratoDepth)
	case lfo.TargetAmplitude:
		m.amplitude = v.amplitude * (1 + lfoVal*tremoloDepth)
		if m.amplitude < 0 {
			m.amplitude = 0
		}
	case lfo.TargetFilter:
		m.cutoff = v.baseCutoff * (1 + lfoVal*filterLFODepth)
		if m.cutoff < minSweepCutoff {
			m.cutoff = minSweepCutoff
		}
		if m.cutoff > maxSweepCutoff {
			m.cutoff = maxSweepCutoff
		}
	}
	return m
}

// Process renders one frame dt seconds long. The order is fixed: envelope
// and LFO each advance exactly once, and a filter sweep reaches the filter
// before this frame's sample does.
func (v *Voice) Process(dt float64) float64 {
	envVal := v.env.Process(dt)
	lfoVal := v.lfo.Process(dt)

	m := v.modulate(lfoVal)
	if v.lfo.Target() == lfo.TargetFilter {
		v.filter.SetCutoff(m.cutoff)
	}

	v.phase = waveform.Advance(v.phase, m.frequency, dt)
	sample := waveform.Generate(v.wave, v.phase)
	sample *= m.amplitude * envVal
	return v.filter.Process(sample)
}

func (v *Voice) NoteOn()  { v.env.NoteOn() }
func (v *Voice) NoteOff() { v.env.NoteOff() }

// SetFrequency retunes the oscillator; overlapping notes simply retarget it.
func (v *Voice) SetFrequency(hz float64) { v.baseFrequency = hz }
func (v *Voice) SetAmplitude(a float64)  { v.amplitude = a }
func (v *Voice) SetWave(k waveform.Kind) { v.wave = k }

// SetCutoff stores the base cutoff. Unless the LFO is sweeping the filter,
// the filter follows it immediately.
func (v *Voice) SetCutoff(hz float64) {
	v.baseCutoff = hz
	if v.lfo.Target() != lfo.TargetFilter {
		v.filter.SetCutoff(hz)
	}
}

func (v *Voice) SetEnvelope(attack, decay, sustain, release float64) {
	v.env.Set(attack, decay, sustain, release)
}

// SetLFO configures the modulator. Leaving the Filter target hands the
// filter back to the base cutoff.
func (v *Voice) SetLFO(rateHz, depth float64, wave waveform.Kind, target lfo.Target) {
	v.lfo.Set(rateHz, depth, wave)
	if v.lfo.Target() == target {
		return
	}
	v.lfo.SetTarget(target)
	if target != lfo.TargetFilter {
		v.filter.SetCutoff(v.baseCutoff)
	}
}

// ResetLFO restarts the LFO cycle, for note-synchronised modulation.
func (v *Voice) ResetLFO() { v.lfo.Reset() }

func (v *Voice) Wave() waveform.Kind { return v.wave }
func (v *Voice) Frequency() float64  { return v.baseFrequency }
func (v *Voice) Amplitude() float64  { return v.amplitude }
func (v *Voice) Cutoff() float64     { return v.baseCutoff }
func (v *Voice) Phase() float64      { return v.phase }

func (v *Voice) Envelope() *envelope.Envelope { return &v.env }
func (v *Voice) LFO() *lfo.LFO                { return &v.lfo }
func (v *Voice) Filter() *filter.OnePole      { return &v.filter }
