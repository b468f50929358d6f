package audio

import (
	"encoding/binary"
	"math"
	"testing"
)

type rampSource struct {
	next float32
}

func (s *rampSource) Process(dst []float32) {
	for i := 0; i+1 < len(dst); i += 2 {
		dst[i] = s.next
		dst[i+1] = -s.next
		s.next += 0.25
	}
}

func TestStreamReaderEncodesFloat32LE(t *testing.T) {
	var tapped int
	r := NewStreamReader(&rampSource{}, func(buf []float32) { tapped += len(buf) })
	p := make([]byte, 4*8+3) // trailing partial frame is ignored
	n, err := r.Read(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n != 4*8 {
		t.Fatalf("n = %d, want %d", n, 4*8)
	}
	for i := 0; i < 8; i++ {
		got := math.Float32frombits(binary.LittleEndian.Uint32(p[i*4:]))
		want := float32(i/2) * 0.25
		if i%2 == 1 {
			want = -want
		}
		if got != want {
			t.Errorf("sample %d = %f, want %f", i, got, want)
		}
	}
	if tapped != 8 {
		t.Errorf("tap saw %d samples, want 8", tapped)
	}
	if r.Reads() != 1 {
		t.Errorf("reads = %d, want 1", r.Reads())
	}
}

func TestStreamReaderShortBuffer(t *testing.T) {
	r := NewStreamReader(&rampSource{}, nil)
	n, err := r.Read(make([]byte, 7))
	if n != 0 || err != nil {
		t.Fatalf("read of less than one frame = %d, %v", n, err)
	}
}

func TestStreamReaderReusesBuffer(t *testing.T) {
	r := NewStreamReader(&rampSource{}, nil)
	p := make([]byte, 4096)
	r.Read(p)
	allocs := testing.AllocsPerRun(50, func() {
		r.Read(p)
	})
	if allocs != 0 {
		t.Fatalf("Read allocated %v times per run", allocs)
	}
}
