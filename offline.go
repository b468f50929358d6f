package monosynth

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	intsynth "github.com/cbegin/monosynth-go/internal/synth"
)

// Renderer drives an engine without an audio device. The control methods
// behave exactly as on a Player, and Render advances time.
type Renderer struct {
	engine *intsynth.Engine
	out    []float32
}

func NewRenderer(sampleRate int, params Params) (*Renderer, error) {
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	e := intsynth.NewEngine(sampleRate)
	e.SetParams(params)
	return &Renderer{engine: e}, nil
}

func (r *Renderer) SampleRate() int { return r.engine.SampleRate() }

func (r *Renderer) NoteOn() error { return trigger(r.engine.NoteOn()) }

func (r *Renderer) PlayNote(note int) error {
	r.engine.UpdateParams(func(pr *Params) { pr.Frequency = NoteToFreq(note) })
	return r.NoteOn()
}

func (r *Renderer) NoteOff() error        { return trigger(r.engine.NoteOff()) }
func (r *Renderer) StartSequencer() error { return trigger(r.engine.StartSequencer()) }
func (r *Renderer) StopSequencer() error  { return trigger(r.engine.StopSequencer()) }
func (r *Renderer) ResetLFO() error       { return trigger(r.engine.ResetLFO()) }

func (r *Renderer) Params() Params                       { return r.engine.Params() }
func (r *Renderer) SetParams(p Params)                   { r.engine.SetParams(p) }
func (r *Renderer) UpdateParams(fn func(*Params)) Params { return r.engine.UpdateParams(fn) }
func (r *Renderer) Status() Status                       { return r.engine.Status() }

// Render appends seconds of interleaved stereo output.
func (r *Renderer) Render(seconds float64) {
	frames := int(float64(r.engine.SampleRate()) * seconds)
	if frames <= 0 {
		return
	}
	start := len(r.out)
	r.out = append(r.out, make([]float32, frames*2)...)
	r.engine.Process(r.out[start:])
}

// Samples returns everything rendered so far.
func (r *Renderer) Samples() []float32 { return r.out }

// RenderSamples renders seconds of a single note held for gate seconds.
// gate is clamped to [0, seconds].
func RenderSamples(params Params, sampleRate int, note int, gate, seconds float64) ([]float32, error) {
	if !(seconds > 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDuration, seconds)
	}
	r, err := NewRenderer(sampleRate, params)
	if err != nil {
		return nil, err
	}
	if err := r.PlayNote(note); err != nil {
		return nil, err
	}
	if math.IsNaN(gate) {
		gate = 0
	}
	gate = math.Max(0, math.Min(gate, seconds))
	r.Render(gate)
	if err := r.NoteOff(); err != nil {
		return nil, err
	}
	r.Render(seconds - gate)
	return r.Samples(), nil
}

// wavHeader is the 44-byte RIFF header of a stereo IEEE-float WAV file.
type wavHeader struct {
	RIFF          [4]byte
	ChunkSize     uint32
	WAVE          [4]byte
	Fmt           [4]byte
	FmtSize       uint32
	Format        uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Data          [4]byte
	DataSize      uint32
}

const (
	wavFormatFloat = 3
	wavChannels    = 2
)

// WriteWAV writes interleaved stereo samples, as produced by Renderer, as a
// 32-bit float WAV stream.
func WriteWAV(w io.Writer, samples []float32, sampleRate int) error {
	if sampleRate <= 0 {
		return ErrInvalidSampleRate
	}
	dataSize := uint32(len(samples) * 4)
	h := wavHeader{
		RIFF:          [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataSize,
		WAVE:          [4]byte{'W', 'A', 'V', 'E'},
		Fmt:           [4]byte{'f', 'm', 't', ' '},
		FmtSize:       16,
		Format:        wavFormatFloat,
		Channels:      wavChannels,
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * wavChannels * 4),
		BlockAlign:    wavChannels * 4,
		BitsPerSample: 32,
		Data:          [4]byte{'d', 'a', 't', 'a'},
		DataSize:      dataSize,
	}
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("wav header: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, samples); err != nil {
		return fmt.Errorf("wav data: %w", err)
	}
	return bw.Flush()
}
