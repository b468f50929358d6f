package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/cbegin/monosynth-go"
	"github.com/cbegin/monosynth-go/internal/sequencer"
)

// pianoKeys maps the home row to C4..C5, black keys on the row above.
var pianoKeys = map[byte]int{
	'a': 60, 'w': 61, 's': 62, 'e': 63, 'd': 64, 'f': 65, 't': 66,
	'g': 67, 'y': 68, 'h': 69, 'u': 70, 'j': 71, 'k': 72,
}

const (
	keyEsc   = 0x1b
	keyCtrlC = 0x03

	minKeyFreq = 100
	maxKeyFreq = 2000
)

// noteGate releases a key-pressed note after hold, unless another key
// re-arms it first. Terminals report no key-up events.
type noteGate struct {
	mu    sync.Mutex
	pl    *monosynth.Player
	hold  time.Duration
	timer *time.Timer
	last  int
}

func (g *noteGate) press(note int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.timer != nil {
		g.timer.Stop()
	}
	g.last = note
	if err := g.pl.PlayNote(note); err != nil {
		logger.Debug("note on dropped", slog.Any("error", err))
	}
	g.timer = time.AfterFunc(g.hold, func() { _ = g.pl.NoteOff() })
}

func (g *noteGate) lastNote() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}

func (g *noteGate) release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	_ = g.pl.NoteOff()
}

func runPlay(cmd *cobra.Command, args []string) error {
	backend, err := monosynth.ParseBackend(backendName)
	if err != nil {
		return err
	}
	params, err := patchFromFlags()
	if err != nil {
		return err
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return fmt.Errorf("play needs an interactive terminal")
	}

	pl, err := monosynth.NewPlayer(sampleRate, monosynth.WithBackend(backend), monosynth.WithParams(params))
	if err != nil {
		return err
	}
	defer pl.Close()

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	keys := make(chan []byte, 16)
	// Blocking stdin reads cannot be interrupted; the reader goroutine is
	// abandoned on exit.
	go func() {
		buf := make([]byte, 8)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				close(keys)
				return
			}
			k := make([]byte, n)
			copy(k, buf[:n])
			keys <- k
		}
	}()

	ng := &noteGate{pl: pl, hold: hold, last: pianoKeys['a']}
	rec := &stepRecorder{}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return nil
			case k, ok := <-keys:
				if !ok || !handleKey(pl, ng, rec, k) {
					return nil
				}
			}
		}
	})
	g.Go(func() error {
		t := time.NewTicker(100 * time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				fmt.Print("\r\n")
				return nil
			case <-t.C:
				fmt.Print("\r" + statusLine(pl) + "\x1b[K")
			}
		}
	})
	g.Go(func() error {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			cancel()
			return fmt.Errorf("caught signal %s", sig)
		case <-ctx.Done():
			return nil
		}
	})
	err = g.Wait()
	ng.release()
	return err
}

// stepRecorder writes notes into consecutive pattern steps, wrapping after
// the last one.
type stepRecorder struct {
	pos int
}

func (r *stepRecorder) record(pl *monosynth.Player, note int) {
	pos := r.pos
	pl.UpdateParams(func(p *monosynth.Params) { p.Pattern[pos].Note = note })
	r.pos = (r.pos + 1) % sequencer.Steps
}

// handleKey applies one key press and reports whether to keep running.
func handleKey(pl *monosynth.Player, ng *noteGate, rec *stepRecorder, k []byte) bool {
	if len(k) >= 3 && k[0] == keyEsc && k[1] == '[' {
		switch k[2] {
		case 'A':
			nudgeFrequency(pl, 10)
		case 'B':
			nudgeFrequency(pl, -10)
		case 'C':
			pl.UpdateParams(func(p *monosynth.Params) { p.Cutoff *= 1.1 })
		case 'D':
			pl.UpdateParams(func(p *monosynth.Params) { p.Cutoff /= 1.1 })
		}
		return true
	}
	if len(k) != 1 {
		return true
	}
	c := k[0]
	if n, ok := pianoKeys[c]; ok {
		ng.press(n)
		return true
	}
	switch c {
	case 'q', keyEsc, keyCtrlC:
		return false
	case 'x':
		ng.release()
	case ' ':
		if pl.Status().SequencerOn {
			_ = pl.StopSequencer()
		} else {
			_ = pl.StartSequencer()
		}
	case '1':
		pl.UpdateParams(func(p *monosynth.Params) { p.Wave = p.Wave.Next() })
	case '2':
		pl.UpdateParams(func(p *monosynth.Params) { p.LFOTarget = p.LFOTarget.Next() })
	case '3':
		pl.UpdateParams(func(p *monosynth.Params) { p.LFOWave = p.LFOWave.Next() })
	case 'p':
		rec.record(pl, ng.lastNote())
	case 'o':
		rec.record(pl, sequencer.Rest)
	case 'c':
		pl.UpdateParams(func(p *monosynth.Params) { p.Pattern = sequencer.DefaultPattern() })
		rec.pos = 0
	case 'l':
		_ = pl.ResetLFO()
	case 'r':
		pl.UpdateParams(func(p *monosynth.Params) { p.LFORetrigger = !p.LFORetrigger })
	}
	return true
}

func nudgeFrequency(pl *monosynth.Player, delta float64) {
	pl.UpdateParams(func(p *monosynth.Params) {
		p.Frequency = math.Max(minKeyFreq, math.Min(maxKeyFreq, p.Frequency+delta))
	})
}

func statusLine(pl *monosynth.Player) string {
	st := pl.Status()
	p := pl.Params()
	meter := strings.Repeat("#", int(st.Level*20+0.5))
	seq := "--"
	if st.SequencerOn {
		seq = fmt.Sprintf("%02d %s", st.Step+1, noteName(st.StepNote))
	}
	return fmt.Sprintf("%-8s %-20s %7.1fHz %-8s cut %6.0fHz lfo %s/%s seq %s",
		st.Stage, meter, p.Frequency, p.Wave, p.Cutoff, p.LFOTarget, p.LFOWave, seq)
}
