package waveform

import (
	"math"
	"strings"
)

const twoPi = math.Pi * 2

// Kind selects one of the four oscillator shapes.
type Kind int

const (
	Sine Kind = iota
	Square
	Triangle
	Saw
)

// Kinds lists every waveform in selector order.
var Kinds = [...]Kind{Sine, Square, Triangle, Saw}

func (k Kind) String() string {
	switch k {
	case Sine:
		return "sine"
	case Square:
		return "square"
	case Triangle:
		return "triangle"
	case Saw:
		return "saw"
	}
	return "unknown"
}

// Next cycles through the waveforms, wrapping after Saw.
func (k Kind) Next() Kind {
	return Kinds[(int(k)+1)%len(Kinds)]
}

// ParseKind maps a name such as "tri" or "sawtooth" to a Kind.
func ParseKind(name string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sine", "sin":
		return Sine, true
	case "square", "sqr", "pulse":
		return Square, true
	case "triangle", "tri":
		return Triangle, true
	case "saw", "sawtooth":
		return Saw, true
	}
	return Sine, false
}

// Generate evaluates the waveform at phase (radians). Any real phase is
// accepted; the result is always in [-1, 1].
func Generate(kind Kind, phase float64) float64 {
	switch kind {
	case Sine:
		return math.Sin(phase)
	case Square:
		if math.Sin(phase) > 0 {
			return 1
		}
		return -1
	case Triangle:
		t := phase / twoPi
		return 2*math.Abs(2*(t-math.Floor(t+0.5))) - 1
	case Saw:
		t := phase / twoPi
		return 2 * (t - math.Floor(t+0.5))
	}
	return 0
}

// Advance adds 2π·freq·dt to phase and wraps the result into [0, 2π).
func Advance(phase, freq, dt float64) float64 {
	phase += twoPi * freq * dt
	for phase >= twoPi {
		phase -= twoPi
	}
	for phase < 0 {
		phase += twoPi
	}
	return phase
}
