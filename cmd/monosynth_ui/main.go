package main

import (
	"flag"
	"fmt"
	"image"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/cbegin/monosynth-go"
	"github.com/cbegin/monosynth-go/internal/lfo"
	"github.com/cbegin/monosynth-go/internal/sequencer"
)

const (
	windowW    = 900
	windowH    = 620
	scopeLen   = 1024
	pianoWhite = 8
)

// keyNotes maps the computer keyboard onto C4..C5.
var keyNotes = map[ebiten.Key]int{
	ebiten.KeyA: 60, ebiten.KeyW: 61, ebiten.KeyS: 62, ebiten.KeyE: 63,
	ebiten.KeyD: 64, ebiten.KeyF: 65, ebiten.KeyT: 66, ebiten.KeyG: 67,
	ebiten.KeyY: 68, ebiten.KeyH: 69, ebiten.KeyU: 70, ebiten.KeyJ: 71,
	ebiten.KeyK: 72,
}

var (
	whiteNotes = [pianoWhite]int{60, 62, 64, 65, 67, 69, 71, 72}
	// blackAfter[i] is the black key to the right of white key i, or 0.
	blackAfter = [pianoWhite]int{61, 63, 0, 66, 68, 70, 0, 0}
)

type game struct {
	player   *monosynth.Player
	scope    *scope
	scopeBuf []float32

	dragging  int // slider index, -1 when idle
	heldNote  int // -1 when no key is down
	heldByKey ebiten.Key
	lastNote  int
	mouseNote bool
	status    string
}

type uiLayout struct {
	sliders []image.Rectangle
	wave    image.Rectangle
	lfoWave image.Rectangle
	target  image.Rectangle
	retrig  image.Rectangle
	seq     image.Rectangle
	lfoRst  image.Rectangle
	scope   image.Rectangle
	steps   image.Rectangle
	piano   image.Rectangle
	status  image.Rectangle
}

func newGame(backend monosynth.Backend) (*game, error) {
	s := &scope{}
	pl, err := monosynth.NewPlayer(48000, monosynth.WithBackend(backend), monosynth.WithSampleTap(s.Tap))
	if err != nil {
		return nil, err
	}
	return &game{
		player:   pl,
		scope:    s,
		scopeBuf: make([]float32, scopeLen),
		dragging: -1,
		heldNote: -1,
		lastNote: 60,
		status:   "Ready",
	}, nil
}

func (g *game) layoutRects() uiLayout {
	var l uiLayout
	y := 12
	for range sliders {
		l.sliders = append(l.sliders, image.Rect(12, y, 452, y+36))
		y += 40
	}
	bx, bw, bh := 468, 134, 32
	l.wave = image.Rect(bx, 12, bx+bw, 12+bh)
	l.lfoWave = image.Rect(bx+bw+8, 12, bx+2*bw+8, 12+bh)
	l.target = image.Rect(bx+2*bw+16, 12, windowW-12, 12+bh)
	l.retrig = image.Rect(bx, 52, bx+bw, 52+bh)
	l.seq = image.Rect(bx+bw+8, 52, bx+2*bw+8, 52+bh)
	l.lfoRst = image.Rect(bx+2*bw+16, 52, windowW-12, 52+bh)
	l.scope = image.Rect(bx, 96, windowW-12, 300)
	l.steps = image.Rect(bx, 308, windowW-12, 332)
	l.piano = image.Rect(12, 350, windowW-12, 570)
	l.status = image.Rect(12, 580, windowW-12, 608)
	return l
}

func (g *game) Update() error {
	g.handleKeys()
	g.handleMouse()
	return nil
}

func (g *game) handleKeys() {
	for k, n := range keyNotes {
		if inpututil.IsKeyJustPressed(k) {
			g.noteOn(n)
			g.heldByKey = k
		}
	}
	if g.heldNote >= 0 && !g.mouseNote && inpututil.IsKeyJustReleased(g.heldByKey) {
		g.noteOff()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		g.nudgeFrequency(10)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		g.nudgeFrequency(-10)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.toggleSequencer()
	}
	if inpututil.IsKeyJustPressed(ebiten.Key1) {
		g.player.UpdateParams(func(p *monosynth.Params) { p.Wave = p.Wave.Next() })
	}
	if inpututil.IsKeyJustPressed(ebiten.Key2) {
		g.player.UpdateParams(func(p *monosynth.Params) { p.LFOTarget = p.LFOTarget.Next() })
	}
}

func (g *game) handleMouse() {
	l := g.layoutRects()
	mx, my := ebiten.CursorPosition()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		for i, r := range l.sliders {
			if pointInRect(mx, my, r) {
				g.dragging = i
			}
		}
		switch {
		case pointInRect(mx, my, l.wave):
			g.player.UpdateParams(func(p *monosynth.Params) { p.Wave = p.Wave.Next() })
		case pointInRect(mx, my, l.lfoWave):
			g.player.UpdateParams(func(p *monosynth.Params) { p.LFOWave = p.LFOWave.Next() })
		case pointInRect(mx, my, l.target):
			g.player.UpdateParams(func(p *monosynth.Params) { p.LFOTarget = p.LFOTarget.Next() })
		case pointInRect(mx, my, l.retrig):
			g.player.UpdateParams(func(p *monosynth.Params) { p.LFORetrigger = !p.LFORetrigger })
		case pointInRect(mx, my, l.seq):
			g.toggleSequencer()
		case pointInRect(mx, my, l.lfoRst):
			g.report(g.player.ResetLFO())
		case pointInRect(mx, my, l.steps):
			g.toggleStep(stepAt(mx, l.steps))
		case pointInRect(mx, my, l.piano):
			if n, ok := pianoKeyAt(mx, my, l.piano); ok {
				g.noteOn(n)
				g.mouseNote = true
			}
		}
	}
	if g.dragging >= 0 {
		if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
			g.dragging = -1
		} else {
			s := sliders[g.dragging]
			v := s.valueAt(mx, l.sliders[g.dragging])
			g.player.UpdateParams(func(p *monosynth.Params) { s.set(p, v) })
		}
	}
	if g.mouseNote && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.mouseNote = false
		g.noteOff()
	}
}

func (g *game) noteOn(note int) {
	g.heldNote = note
	g.lastNote = note
	g.report(g.player.PlayNote(note))
}

func (g *game) noteOff() {
	g.heldNote = -1
	g.report(g.player.NoteOff())
}

// toggleStep sets step i to the last played note, or back to a rest.
func (g *game) toggleStep(i int) {
	note := g.lastNote
	g.player.UpdateParams(func(p *monosynth.Params) {
		if p.Pattern[i].Note == note {
			p.Pattern[i].Note = sequencer.Rest
		} else {
			p.Pattern[i].Note = note
		}
	})
}

func stepAt(x int, rect image.Rectangle) int {
	i := (x - rect.Min.X) / max(1, rect.Dx()/sequencer.Steps)
	return min(max(i, 0), sequencer.Steps-1)
}

func (g *game) nudgeFrequency(delta float64) {
	g.player.UpdateParams(func(p *monosynth.Params) {
		p.Frequency = clamp(p.Frequency+delta, 100, 2000)
	})
}

func (g *game) toggleSequencer() {
	if g.player.Status().SequencerOn {
		g.report(g.player.StopSequencer())
	} else {
		g.report(g.player.StartSequencer())
	}
}

func (g *game) report(err error) {
	if err != nil {
		g.status = "ERROR - " + err.Error()
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(bgColor)
	l := g.layoutRects()
	p := g.player.Params()
	st := g.player.Status()

	for i, s := range sliders {
		g.drawSlider(screen, l.sliders[i], s, &p)
	}
	g.drawButton(screen, l.wave, "Wave: "+p.Wave.String(), false)
	g.drawButton(screen, l.lfoWave, "LFO: "+p.LFOWave.String(), false)
	g.drawButton(screen, l.target, "Target: "+p.LFOTarget.String(), p.LFOTarget != lfo.TargetNone)
	g.drawButton(screen, l.retrig, "Retrigger", p.LFORetrigger)
	g.drawButton(screen, l.seq, "Sequencer", st.SequencerOn)
	g.drawButton(screen, l.lfoRst, "LFO Reset", false)
	g.drawScope(screen, l.scope)
	g.drawSteps(screen, l.steps, p, st)
	g.drawPiano(screen, l.piano)

	fillRect(screen, l.status, sunkenBgColor)
	drawSunkenBorder(screen, l.status)
	msg := fmt.Sprintf("%s  %-7s level %.2f  %.1f Hz  %s", g.status, st.Stage, st.Level, p.Frequency, g.player.Backend())
	drawLabelColor(screen, msg, l.status.Min.X+8, l.status.Min.Y+18)
}

func (g *game) drawSteps(screen *ebiten.Image, rect image.Rectangle, p monosynth.Params, st monosynth.Status) {
	w := rect.Dx() / sequencer.Steps
	for i := 0; i < sequencer.Steps; i++ {
		r := image.Rect(rect.Min.X+i*w, rect.Min.Y, rect.Min.X+(i+1)*w-2, rect.Max.Y)
		switch {
		case st.SequencerOn && st.Step == i:
			fillRect(screen, r, activeKeyColor)
		case p.Pattern[i].Note == sequencer.Rest:
			fillRect(screen, r, borderColor)
		default:
			fillRect(screen, r, sliderFillColor)
		}
		drawBorder(screen, r)
	}
}

func (g *game) drawPiano(screen *ebiten.Image, rect image.Rectangle) {
	ww := rect.Dx() / pianoWhite
	for i, n := range whiteNotes {
		r := image.Rect(rect.Min.X+i*ww, rect.Min.Y, rect.Min.X+(i+1)*ww, rect.Max.Y)
		c := bevelLight
		if n == g.heldNote {
			c = activeKeyColor
		}
		fillRect(screen, r, c)
		drawBorder(screen, r)
	}
	for i, n := range blackAfter {
		if n == 0 {
			continue
		}
		r := blackKeyRect(rect, i)
		c := bevelDarker
		if n == g.heldNote {
			c = activeKeyColor
		}
		fillRect(screen, r, c)
	}
}

func blackKeyRect(piano image.Rectangle, white int) image.Rectangle {
	ww := piano.Dx() / pianoWhite
	bw := ww / 2
	x := piano.Min.X + (white+1)*ww - bw/2
	return image.Rect(x, piano.Min.Y, x+bw, piano.Min.Y+piano.Dy()*2/3)
}

// pianoKeyAt resolves black keys first since they overlap the white ones.
func pianoKeyAt(x, y int, piano image.Rectangle) (int, bool) {
	for i, n := range blackAfter {
		if n != 0 && pointInRect(x, y, blackKeyRect(piano, i)) {
			return n, true
		}
	}
	ww := piano.Dx() / pianoWhite
	i := (x - piano.Min.X) / ww
	if i < 0 || i >= pianoWhite || !pointInRect(x, y, piano) {
		return 0, false
	}
	return whiteNotes[i], true
}

func (g *game) Layout(outsideW, outsideH int) (int, int) {
	return windowW, windowH
}

func (g *game) Close() {
	if err := g.player.Close(); err != nil {
		log.Printf("close: %v", err)
	}
}

func main() {
	backendName := flag.String("backend", "ebiten", "audio backend: ebiten|oto")
	flag.Parse()

	backend, err := monosynth.ParseBackend(*backendName)
	if err != nil {
		log.Fatal(err)
	}
	g, err := newGame(backend)
	if err != nil {
		log.Fatal(err)
	}
	defer g.Close()

	ebiten.SetWindowSize(windowW, windowH)
	ebiten.SetWindowTitle("monosynth")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
