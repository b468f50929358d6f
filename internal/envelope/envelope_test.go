package envelope

import (
	"math"
	"testing"
)

const dt = 1.0 / 44100

func TestIdleOutputsZero(t *testing.T) {
	e := Default()
	for i := 0; i < 100; i++ {
		if v := e.Process(dt); v != 0 {
			t.Fatalf("idle envelope produced %f", v)
		}
	}
	if e.Active() {
		t.Fatal("fresh envelope should be idle")
	}
}

func TestAttackReachesPeakThenDecay(t *testing.T) {
	e := New(0.01, 0.1, 0.8, 0.2)
	e.NoteOn()
	calls := int(math.Ceil(0.01/dt)) + 1
	peak := 0.0
	for i := 0; i < calls; i++ {
		peak = math.Max(peak, e.Process(dt))
	}
	if e.Stage() != Decay {
		t.Fatalf("stage after %d calls = %s, want decay", calls, e.Stage())
	}
	if peak != 1 {
		t.Fatalf("peak = %f, want 1", peak)
	}
}

func TestDecaySettlesOnSustain(t *testing.T) {
	e := New(0.001, 0.05, 0.6, 0.2)
	e.NoteOn()
	for i := 0; i < int(0.2/dt); i++ {
		e.Process(dt)
	}
	if e.Stage() != Sustain {
		t.Fatalf("stage = %s, want sustain", e.Stage())
	}
	if math.Abs(e.Value()-0.6) > 1e-12 {
		t.Fatalf("sustain value = %f, want 0.6", e.Value())
	}
}

func TestReleaseFromSustainReachesIdle(t *testing.T) {
	const sustain, release = 0.8, 0.2
	e := New(0.01, 0.1, sustain, release)
	e.NoteOn()
	for e.Stage() != Sustain {
		e.Process(dt)
	}
	e.NoteOff()
	limit := int(math.Ceil(release/sustain/dt)) + 1
	n := 0
	for ; n < limit && e.Stage() != Idle; n++ {
		e.Process(dt)
	}
	if e.Stage() != Idle {
		t.Fatalf("still %s after %d calls (value %f)", e.Stage(), n, e.Value())
	}
	if e.Value() != 0 {
		t.Fatalf("value at idle = %f, want 0", e.Value())
	}
	for i := 0; i < 1000; i++ {
		if v := e.Process(dt); v != 0 || e.Stage() != Idle {
			t.Fatalf("envelope left idle without a trigger: %s %f", e.Stage(), v)
		}
	}
}

func TestNoteOnRetriggersDuringRelease(t *testing.T) {
	e := New(0.01, 0.1, 0.5, 0.5)
	e.NoteOn()
	for e.Stage() != Sustain {
		e.Process(dt)
	}
	e.NoteOff()
	for i := 0; i < 100; i++ {
		e.Process(dt)
	}
	level := e.Value()
	e.NoteOn()
	if e.Stage() != Attack {
		t.Fatalf("stage = %s, want attack", e.Stage())
	}
	if v := e.Process(dt); v <= level {
		t.Fatalf("attack should rise from %f, got %f", level, v)
	}
}

func TestNoteOffFromIdleReturnsToIdle(t *testing.T) {
	e := Default()
	e.NoteOff()
	if e.Stage() != Release {
		t.Fatalf("stage = %s, want release", e.Stage())
	}
	e.Process(dt)
	if e.Stage() != Idle {
		t.Fatalf("stage = %s, want idle", e.Stage())
	}
}

func TestZeroSustainReleaseTerminates(t *testing.T) {
	e := New(0.1, 0.1, 0, 0.05)
	e.NoteOn()
	for i := 0; i < 1000; i++ {
		e.Process(dt)
	}
	e.NoteOff()
	for i := 0; i < int(0.05/dt)+2; i++ {
		e.Process(dt)
	}
	if e.Stage() != Idle {
		t.Fatalf("stage = %s, want idle", e.Stage())
	}
}
