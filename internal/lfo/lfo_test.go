package lfo

import (
	"math"
	"testing"

	"github.com/cbegin/monosynth-go/internal/waveform"
)

func TestLFODisabledReturnsZero(t *testing.T) {
	l := New(5, 1)
	for _, dt := range []float64{0, 1.0 / 44100, 0.5, 3} {
		if v := l.Process(dt); v != 0 {
			t.Fatalf("disabled LFO returned %f for dt=%f", v, dt)
		}
	}
	if l.Phase() != 0 {
		t.Fatalf("disabled LFO advanced phase to %f", l.Phase())
	}
}

func TestLFOResumesPhaseAfterReenable(t *testing.T) {
	l := New(2, 1)
	l.SetTarget(TargetPitch)
	const dt = 1.0 / 1000
	for i := 0; i < 137; i++ {
		l.Process(dt)
	}
	stopped := l.Phase()
	l.SetTarget(TargetNone)
	for i := 0; i < 500; i++ {
		l.Process(dt)
	}
	if l.Phase() != stopped {
		t.Fatalf("phase moved while disabled: %f -> %f", stopped, l.Phase())
	}
	l.SetTarget(TargetPitch)
	l.Process(dt)
	want := stopped + 2*math.Pi*2*dt
	if math.Abs(l.Phase()-want) > 1e-12 {
		t.Fatalf("phase after re-enable = %f, want %f", l.Phase(), want)
	}
}

func TestLFOSineScaledByDepth(t *testing.T) {
	l := New(1, 0.3)
	l.SetTarget(TargetAmplitude)
	const sr = 100.0
	var peak float64
	for i := 0; i < 100; i++ {
		v := l.Process(1 / sr)
		if math.Abs(v) > 0.3+1e-12 {
			t.Fatalf("sample %d = %f exceeds depth", i, v)
		}
		peak = math.Max(peak, v)
	}
	if math.Abs(peak-0.3) > 1e-3 {
		t.Fatalf("peak = %f, want ~0.3", peak)
	}
}

func TestLFOSquareShape(t *testing.T) {
	l := New(1, 2)
	l.Set(1, 2, waveform.Square)
	l.SetTarget(TargetFilter)
	const sr = 100.0
	if v := l.Process(1 / sr); v != 2 {
		t.Errorf("square first half: got %f, want 2", v)
	}
	for i := 1; i < 60; i++ {
		l.Process(1 / sr)
	}
	if v := l.Process(1 / sr); v != -2 {
		t.Errorf("square second half: got %f, want -2", v)
	}
}

func TestLFOPhaseWrapsAndResets(t *testing.T) {
	l := New(13, 1)
	l.SetTarget(TargetPitch)
	for i := 0; i < 10000; i++ {
		l.Process(1.0 / 441)
		if p := l.Phase(); p < 0 || p >= 2*math.Pi {
			t.Fatalf("phase %f out of range", p)
		}
	}
	l.Reset()
	if l.Phase() != 0 {
		t.Fatalf("phase after reset = %f", l.Phase())
	}
}

func TestTargetEnablesLFO(t *testing.T) {
	l := New(4, 0.3)
	if l.Enabled() {
		t.Fatal("new LFO should be disabled")
	}
	for _, tg := range []Target{TargetPitch, TargetAmplitude, TargetFilter} {
		l.SetTarget(tg)
		if !l.Enabled() {
			t.Errorf("target %s should enable the LFO", tg)
		}
	}
	l.SetTarget(TargetNone)
	if l.Enabled() {
		t.Error("target none should disable the LFO")
	}
}

func TestParseTarget(t *testing.T) {
	cases := map[string]Target{"vibrato": TargetPitch, "tremolo": TargetAmplitude, "filter": TargetFilter, "none": TargetNone}
	for name, want := range cases {
		if got, ok := ParseTarget(name); !ok || got != want {
			t.Errorf("ParseTarget(%q) = %v,%v want %v", name, got, ok, want)
		}
	}
	if _, ok := ParseTarget("pan"); ok {
		t.Error("ParseTarget(pan) should fail")
	}
}
