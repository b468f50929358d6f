package filter

import (
	"math"
	"testing"
)

func TestConvergesToConstantInput(t *testing.T) {
	for _, start := range []float64{-3, 0, 0.25, 7} {
		f := New(44100, 500)
		f.prev = start
		var out float64
		for i := 0; i < 20000; i++ {
			out = f.Process(0.42)
		}
		if math.Abs(out-0.42) > 1e-9 {
			t.Errorf("start %f: output %f did not converge to 0.42", start, out)
		}
	}
}

func TestAlphaMapping(t *testing.T) {
	f := New(48000, 1000)
	c := 2 * math.Pi * 1000 / 48000
	if want := c / (c + 1); math.Abs(f.Alpha()-want) > 1e-15 {
		t.Fatalf("alpha = %f, want %f", f.Alpha(), want)
	}
	if f.Cutoff() != 1000 {
		t.Fatalf("cutoff = %f, want 1000", f.Cutoff())
	}
}

func TestHigherCutoffPassesMore(t *testing.T) {
	lo := New(44100, 200)
	hi := New(44100, 5000)
	// first response to a unit step is alpha
	if a, b := lo.Process(1), hi.Process(1); a >= b {
		t.Fatalf("step response lo=%f hi=%f, want lo < hi", a, b)
	}
}

func TestAttenuatesAboveCutoff(t *testing.T) {
	f := New(44100, 100)
	var peak float64
	for i := 0; i < 44100; i++ {
		in := math.Sin(2 * math.Pi * 5000 * float64(i) / 44100)
		out := f.Process(in)
		if i > 4410 {
			peak = math.Max(peak, math.Abs(out))
		}
	}
	if peak > 0.1 {
		t.Fatalf("5 kHz peak through 100 Hz low-pass = %f, want < 0.1", peak)
	}
}

func TestReset(t *testing.T) {
	f := New(44100, 1000)
	f.Process(1)
	f.Reset()
	if got := f.Process(0); got != 0 {
		t.Fatalf("after reset got %f, want 0", got)
	}
}
