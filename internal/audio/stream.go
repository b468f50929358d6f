package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"
	"sync/atomic"
	"time"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

// SampleSource renders interleaved stereo float32 frames into dst.
type SampleSource interface {
	Process(dst []float32)
}

// StreamReader adapts a SampleSource to the float32 little-endian byte
// stream both backends pull from. Read runs on the driver's audio thread;
// it reuses its scratch buffer and takes no locks.
type StreamReader struct {
	source SampleSource
	buf    []float32
	tap    func([]float32)
	reads  atomic.Uint64
}

func NewStreamReader(source SampleSource, tap func([]float32)) *StreamReader {
	return &StreamReader{source: source, tap: tap, buf: make([]float32, 8192)}
}

func (r *StreamReader) Read(p []byte) (int, error) {
	frames := len(p) / 8
	if frames == 0 {
		return 0, nil
	}
	need := frames * 2
	if cap(r.buf) < need {
		// only when the driver asks for a larger buffer than ever before
		r.buf = make([]float32, need)
	}
	r.buf = r.buf[:need]
	r.source.Process(r.buf)
	for i := 0; i < need; i++ {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(r.buf[i]))
	}
	if r.tap != nil {
		r.tap(r.buf)
	}
	r.reads.Add(1)
	return frames * 8, nil
}

// Reads counts completed Read calls.
func (r *StreamReader) Reads() uint64 { return r.reads.Load() }

func (r *StreamReader) Close() error { return nil }

// Output is a running audio device.
type Output interface {
	Play()
	Pause()
	IsPlaying() bool
	Close() error
}

var _ io.ReadCloser = (*StreamReader)(nil)

func errSampleRateMismatch(have, want int) error {
	return fmt.Errorf("audio context already initialized at %d Hz (requested %d Hz)", have, want)
}

// Player plays a SampleSource through ebiten's shared audio context.
type Player struct {
	player *ebitaudio.Player
	reader io.ReadCloser
}

var (
	audioContextOnce sync.Once
	audioContext     *ebitaudio.Context
	audioSampleRate  int
)

func sharedAudioContext(sampleRate int) (*ebitaudio.Context, error) {
	audioContextOnce.Do(func() {
		audioSampleRate = sampleRate
		audioContext = ebitaudio.NewContext(sampleRate)
	})
	if audioSampleRate != sampleRate {
		return nil, errSampleRateMismatch(audioSampleRate, sampleRate)
	}
	return audioContext, nil
}

// NewPlayer opens an ebiten player pulling from source. tap, if non-nil,
// sees every rendered buffer on the audio thread.
func NewPlayer(sampleRate int, source SampleSource, tap func([]float32)) (*Player, error) {
	ctx, err := sharedAudioContext(sampleRate)
	if err != nil {
		return nil, err
	}
	reader := NewStreamReader(source, tap)
	pl, err := ctx.NewPlayerF32(reader)
	if err != nil {
		return nil, err
	}
	// keep latency low enough for a playable keyboard
	pl.SetBufferSize(20 * time.Millisecond)
	return &Player{
		player: pl,
		reader: reader,
	}, nil
}

func (p *Player) Play()  { p.player.Play() }
func (p *Player) Pause() { p.player.Pause() }
func (p *Player) IsPlaying() bool {
	return p.player.IsPlaying()
}

func (p *Player) Close() error {
	p.player.Pause()
	if err := p.player.Close(); err != nil {
		return err
	}
	return p.reader.Close()
}
