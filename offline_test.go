package monosynth

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/cbegin/monosynth-go/internal/lfo"
	"github.com/cbegin/monosynth-go/internal/sequencer"
	"github.com/cbegin/monosynth-go/internal/waveform"
)

func TestRenderSamplesIsDeterministic(t *testing.T) {
	p := DefaultParams()
	p.Wave = waveform.Saw
	p.LFOTarget = lfo.TargetFilter
	a, err := RenderSamples(p, 48000, 57, 0.3, 0.6)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	b, err := RenderSamples(p, 48000, 57, 0.3, 0.6)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(a) == 0 || len(a) != len(b) {
		t.Fatalf("lengths %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs: %f vs %f", i, a[i], b[i])
		}
	}
}

func TestRenderSamplesReleasesToSilence(t *testing.T) {
	p := DefaultParams()
	p.Release = 0.05
	out, err := RenderSamples(p, 44100, 69, 0.2, 0.5)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var peak float64
	for _, s := range out[:2*8820] {
		peak = math.Max(peak, math.Abs(float64(s)))
	}
	if peak < 0.05 {
		t.Fatalf("held note peak = %f, want audible", peak)
	}
	tail := out[len(out)-2000:]
	for i, s := range tail {
		if math.Abs(float64(s)) > 1e-4 {
			t.Fatalf("tail sample %d = %f, want silence", i, s)
		}
	}
}

func TestRendererSequencer(t *testing.T) {
	p := DefaultParams()
	p.Pattern[0] = sequencer.Step{Note: 60, Length: 0.1}
	p.Pattern[1] = sequencer.Step{Note: 67, Length: 0.1}
	r, err := NewRenderer(8000, p)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if err := r.StartSequencer(); err != nil {
		t.Fatalf("start: %v", err)
	}
	r.Render(0.125)
	st := r.Status()
	if !st.SequencerOn || st.Step != 1 {
		t.Fatalf("status = %+v, want step 1 playing", st)
	}
	if len(r.Samples()) != 2*1000 {
		t.Fatalf("samples = %d, want 2000", len(r.Samples()))
	}
}

func TestNewRendererRejectsBadRate(t *testing.T) {
	if _, err := NewRenderer(0, DefaultParams()); !errors.Is(err, ErrInvalidSampleRate) {
		t.Fatalf("err = %v, want ErrInvalidSampleRate", err)
	}
	if _, err := NewPlayer(-1); !errors.Is(err, ErrInvalidSampleRate) {
		t.Fatalf("err = %v, want ErrInvalidSampleRate", err)
	}
}

func TestWriteWAVHeader(t *testing.T) {
	samples := []float32{0, 0.5, -0.5, 1}
	var buf bytes.Buffer
	if err := WriteWAV(&buf, samples, 44100); err != nil {
		t.Fatalf("write: %v", err)
	}
	wav := buf.Bytes()
	if len(wav) != 44+16 {
		t.Fatalf("len = %d, want 60", len(wav))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" || string(wav[12:16]) != "fmt " || string(wav[36:40]) != "data" {
		t.Fatal("bad chunk ids")
	}
	if size := binary.LittleEndian.Uint32(wav[4:]); size != 36+16 {
		t.Fatalf("chunk size = %d, want 52", size)
	}
	if f := binary.LittleEndian.Uint16(wav[20:]); f != 3 {
		t.Fatalf("format = %d, want 3 (IEEE float)", f)
	}
	if ch := binary.LittleEndian.Uint16(wav[22:]); ch != 2 {
		t.Fatalf("channels = %d, want 2", ch)
	}
	if rate := binary.LittleEndian.Uint32(wav[24:]); rate != 44100 {
		t.Fatalf("rate = %d", rate)
	}
	if align := binary.LittleEndian.Uint16(wav[32:]); align != 8 {
		t.Fatalf("block align = %d, want 8", align)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(wav[44+4:])); got != 0.5 {
		t.Fatalf("sample 1 = %f, want 0.5", got)
	}
	if err := WriteWAV(&buf, samples, 0); !errors.Is(err, ErrInvalidSampleRate) {
		t.Fatalf("err = %v, want ErrInvalidSampleRate", err)
	}
}

func TestRenderSamplesClampsGate(t *testing.T) {
	tests := []struct {
		name string
		gate float64
	}{
		{"negative", -1},
		{"zero", 0},
		{"longer than render", 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := RenderSamples(DefaultParams(), 8000, 69, tc.gate, 0.5)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if len(out) != 2*4000 {
				t.Fatalf("len = %d, want %d", len(out), 2*4000)
			}
		})
	}
	for _, secs := range []float64{0, -1, math.NaN()} {
		if _, err := RenderSamples(DefaultParams(), 8000, 69, 0.1, secs); !errors.Is(err, ErrInvalidDuration) {
			t.Fatalf("seconds %v: err = %v, want ErrInvalidDuration", secs, err)
		}
	}
}

func TestRendererReportsFullTriggerQueue(t *testing.T) {
	r, err := NewRenderer(8000, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 64; i++ {
		if err := r.NoteOn(); err != nil {
			t.Fatalf("note on %d: %v", i, err)
		}
	}
	if err := r.NoteOn(); !errors.Is(err, ErrTriggerQueueFull) {
		t.Fatalf("err = %v, want ErrTriggerQueueFull", err)
	}
	if d := r.Status().DroppedTrigger; d != 1 {
		t.Fatalf("dropped = %d, want 1", d)
	}
	r.Render(0.01)
	if err := r.NoteOn(); err != nil {
		t.Fatalf("note on after drain: %v", err)
	}
}

func TestParseBackend(t *testing.T) {
	if b, err := ParseBackend("OTO"); err != nil || b != BackendOto {
		t.Fatalf("ParseBackend(OTO) = %q, %v", b, err)
	}
	if _, err := ParseBackend("alsa"); !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("err = %v, want ErrUnknownBackend", err)
	}
}
