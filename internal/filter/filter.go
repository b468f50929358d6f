package filter

import "math"

// OnePole is a first-order low-pass filter with a single history sample.
//
// Cutoff is in Hz. It is mapped to the dimensionless coefficient
// c = 2π·cutoff/sampleRate and the smoothing factor alpha = c/(c+1),
// which is the classic RC low-pass dt/(RC+dt).
type OnePole struct {
	sampleRate float64
	cutoff     float64
	alpha      float64
	prev       float64
}

// New creates a filter for the given sample rate with its cutoff at cutoffHz.
func New(sampleRate, cutoffHz float64) OnePole {
	f := OnePole{sampleRate: sampleRate}
	f.SetCutoff(cutoffHz)
	return f
}

// SetCutoff changes the cutoff frequency. No bounds are enforced: a
// non-positive cutoff or sample rate is a caller error.
func (f *OnePole) SetCutoff(hz float64) {
	f.cutoff = hz
	c := 2 * math.Pi * hz / f.sampleRate
	f.alpha = c / (c + 1)
}

func (f *OnePole) Cutoff() float64 { return f.cutoff }

// Alpha returns the current smoothing factor in (0, 1).
func (f *OnePole) Alpha() float64 { return f.alpha }

func (f *OnePole) Process(in float64) float64 {
	out := f.alpha*in + (1-f.alpha)*f.prev
	f.prev = out
	return out
}

// Reset clears the history sample.
func (f *OnePole) Reset() {
	f.prev = 0
}
