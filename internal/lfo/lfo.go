package lfo

import (
	"strings"

	"github.com/cbegin/monosynth-go/internal/waveform"
)

// Target routes the LFO output to one voice parameter.
type Target int

const (
	TargetNone Target = iota
	TargetPitch
	TargetAmplitude
	TargetFilter
)

// Targets lists every routing in selector order.
var Targets = [...]Target{TargetNone, TargetPitch, TargetAmplitude, TargetFilter}

func (t Target) String() string {
	switch t {
	case TargetNone:
		return "none"
	case TargetPitch:
		return "pitch"
	case TargetAmplitude:
		return "amp"
	case TargetFilter:
		return "filter"
	}
	return "unknown"
}

// Next cycles through the targets, wrapping after TargetFilter.
func (t Target) Next() Target {
	return Targets[(int(t)+1)%len(Targets)]
}

// ParseTarget maps "vibrato", "pitch", "tremolo", "amp", ... to a Target.
func ParseTarget(name string) (Target, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "off", "":
		return TargetNone, true
	case "pitch", "vibrato":
		return TargetPitch, true
	case "amp", "amplitude", "tremolo":
		return TargetAmplitude, true
	case "filter", "cutoff", "sweep":
		return TargetFilter, true
	}
	return TargetNone, false
}

// LFO is a low-frequency oscillator producing modulation in [-depth, +depth].
// A disabled LFO neither outputs nor advances, so re-enabling resumes from
// the phase it stopped at.
type LFO struct {
	rateHz   float64
	depth    float64
	waveform waveform.Kind
	target   Target
	enabled  bool
	phase    float64 // radians, [0, 2π)
}

// New returns a disabled sine LFO with the given rate and depth.
func New(rateHz, depth float64) LFO {
	return LFO{rateHz: rateHz, depth: depth, waveform: waveform.Sine}
}

// Set configures rate, depth and shape.
func (l *LFO) Set(rateHz, depth float64, wave waveform.Kind) {
	l.rateHz = rateHz
	l.depth = depth
	l.waveform = wave
}

// SetTarget routes the output and enables the LFO for any target but None.
func (l *LFO) SetTarget(t Target) {
	l.target = t
	l.enabled = t != TargetNone
}

// SetEnabled overrides the enable flag without touching the target.
func (l *LFO) SetEnabled(enabled bool) {
	l.enabled = enabled
}

// Process advances the LFO by dt seconds and returns the scaled output.
func (l *LFO) Process(dt float64) float64 {
	if !l.enabled {
		return 0
	}
	l.phase = waveform.Advance(l.phase, l.rateHz, dt)
	return waveform.Generate(l.waveform, l.phase) * l.depth
}

// Reset zeros the LFO phase.
func (l *LFO) Reset() {
	l.phase = 0
}

func (l *LFO) Target() Target { return l.target }
func (l *LFO) Enabled() bool  { return l.enabled }
func (l *LFO) Phase() float64 { return l.phase }
