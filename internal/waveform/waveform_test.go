package waveform

import (
	"math"
	"testing"
)

const tol = 1e-9

func TestSineMatchesMathSin(t *testing.T) {
	for i := -200; i <= 200; i++ {
		p := float64(i) * 0.137
		if got, want := Generate(Sine, p), math.Sin(p); math.Abs(got-want) > tol {
			t.Fatalf("sine(%f) = %f, want %f", p, got, want)
		}
	}
}

func TestSquareIsBipolar(t *testing.T) {
	for i := -500; i <= 500; i++ {
		p := float64(i)*0.0731 + 0.001
		v := Generate(Square, p)
		if v != 1 && v != -1 {
			t.Fatalf("square(%f) = %f, want +1 or -1", p, v)
		}
	}
	if v := Generate(Square, math.Pi/2); v != 1 {
		t.Errorf("square first half: got %f, want 1", v)
	}
	if v := Generate(Square, 3*math.Pi/2); v != -1 {
		t.Errorf("square second half: got %f, want -1", v)
	}
}

func TestOutputStaysInUnitRange(t *testing.T) {
	for _, k := range Kinds {
		for i := -1000; i <= 1000; i++ {
			p := float64(i) * 0.0417
			v := Generate(k, p)
			if v < -1-tol || v > 1+tol {
				t.Fatalf("%s(%f) = %f out of range", k, p, v)
			}
		}
	}
}

func TestTriangleAndSawArePeriodic(t *testing.T) {
	for _, k := range []Kind{Triangle, Saw} {
		for i := 0; i < 300; i++ {
			p := float64(i)*0.0613 - 5
			a := Generate(k, p)
			b := Generate(k, p+twoPi)
			if math.Abs(a-b) > 1e-6 {
				t.Fatalf("%s not periodic at %f: %f vs %f", k, p, a, b)
			}
		}
	}
}

func TestTriangleShape(t *testing.T) {
	cases := []struct {
		phase float64
		want  float64
	}{
		{0, -1},
		{math.Pi / 2, 0},
		{math.Pi, 1},
		{3 * math.Pi / 2, 0},
	}
	for _, tc := range cases {
		if got := Generate(Triangle, tc.phase); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("triangle(%f) = %f, want %f", tc.phase, got, tc.want)
		}
	}
}

func TestSawRamp(t *testing.T) {
	if got := Generate(Saw, 0); got != 0 {
		t.Errorf("saw(0) = %f, want 0", got)
	}
	if got := Generate(Saw, math.Pi/2); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("saw(pi/2) = %f, want 0.5", got)
	}
	if got := Generate(Saw, 3*math.Pi/2); math.Abs(got+0.5) > 1e-9 {
		t.Errorf("saw(3pi/2) = %f, want -0.5", got)
	}
}

func TestAdvanceWraps(t *testing.T) {
	p := 0.0
	for i := 0; i < 100000; i++ {
		p = Advance(p, 1234.5, 1.0/44100)
		if p < 0 || p >= twoPi {
			t.Fatalf("phase %f escaped [0, 2pi) at step %d", p, i)
		}
	}
}

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{"sine": Sine, "SQR": Square, " tri ": Triangle, "sawtooth": Saw}
	for name, want := range cases {
		got, ok := ParseKind(name)
		if !ok || got != want {
			t.Errorf("ParseKind(%q) = %v,%v want %v", name, got, ok, want)
		}
	}
	if _, ok := ParseKind("noise"); ok {
		t.Error("ParseKind(noise) should fail")
	}
	if Saw.Next() != Sine {
		t.Error("Saw.Next() should wrap to Sine")
	}
}
