package audio

import (
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// OtoPlayer drives a SampleSource straight through an oto/v3 context,
// without ebiten.
type OtoPlayer struct {
	ctx     *oto.Context
	player  *oto.Player
	reader  *StreamReader
	mu      sync.Mutex // setup and control only; never taken by Read
	started bool
}

var (
	otoOnce sync.Once
	otoCtx  *oto.Context
	otoErr  error
	otoRate int
)

func sharedOtoContext(sampleRate int) (*oto.Context, error) {
	otoOnce.Do(func() {
		otoRate = sampleRate
		var ready chan struct{}
		otoCtx, ready, otoErr = oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 2,
			Format:       oto.FormatFloat32LE,
			BufferSize:   20 * time.Millisecond,
		})
		if otoErr == nil {
			<-ready
		}
	})
	if otoErr != nil {
		return nil, otoErr
	}
	if otoRate != sampleRate {
		return nil, errSampleRateMismatch(otoRate, sampleRate)
	}
	return otoCtx, nil
}

func NewOtoPlayer(sampleRate int, source SampleSource, tap func([]float32)) (*OtoPlayer, error) {
	ctx, err := sharedOtoContext(sampleRate)
	if err != nil {
		return nil, err
	}
	reader := NewStreamReader(source, tap)
	return &OtoPlayer{
		ctx:    ctx,
		player: ctx.NewPlayer(reader),
		reader: reader,
	}, nil
}

func (p *OtoPlayer) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		p.player.Play()
		p.started = true
	}
}

func (p *OtoPlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		p.player.Pause()
		p.started = false
	}
}

func (p *OtoPlayer) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.player.IsPlaying()
}

func (p *OtoPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started = false
	if err := p.player.Close(); err != nil {
		return err
	}
	return p.reader.Close()
}
