package main

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"github.com/cbegin/monosynth-go"
)

var (
	bgColor         = color.RGBA{192, 192, 192, 255}
	panelColor      = color.RGBA{192, 192, 192, 255}
	borderColor     = color.RGBA{128, 128, 128, 255}
	textColor       = color.RGBA{255, 255, 255, 255}
	labelColor      = color.RGBA{0, 0, 0, 255}
	highlightColor  = color.RGBA{0, 0, 128, 255}
	bevelLight      = color.RGBA{255, 255, 255, 255}
	bevelDarker     = color.RGBA{64, 64, 64, 255}
	sunkenBgColor   = color.RGBA{24, 24, 32, 255}
	sliderFillColor = color.RGBA{0, 0, 128, 255}
	activeKeyColor  = color.RGBA{255, 128, 0, 255}
)

// slider edits one parameter in display units.
type slider struct {
	label  string
	min    float64
	max    float64
	format string
	get    func(p *monosynth.Params) float64
	set    func(p *monosynth.Params, v float64)
}

var sliders = []slider{
	{"Volume", 0, 100, "%.0f%%",
		func(p *monosynth.Params) float64 { return p.Amplitude * 100 },
		func(p *monosynth.Params, v float64) { p.Amplitude = v / 100 }},
	{"Filter", 100, 5000, "%.0f Hz",
		func(p *monosynth.Params) float64 { return p.Cutoff },
		func(p *monosynth.Params, v float64) { p.Cutoff = v }},
	{"LFO Rate", 1, 20, "%.1f Hz",
		func(p *monosynth.Params) float64 { return p.LFORate },
		func(p *monosynth.Params, v float64) { p.LFORate = v }},
	{"LFO Depth", 0, 100, "%.0f%%",
		func(p *monosynth.Params) float64 { return p.LFODepth * 100 },
		func(p *monosynth.Params, v float64) { p.LFODepth = v / 100 }},
	{"Attack", 1, 500, "%.0f ms",
		func(p *monosynth.Params) float64 { return p.Attack * 1000 },
		func(p *monosynth.Params, v float64) { p.Attack = v / 1000 }},
	{"Decay", 1, 500, "%.0f ms",
		func(p *monosynth.Params) float64 { return p.Decay * 1000 },
		func(p *monosynth.Params, v float64) { p.Decay = v / 1000 }},
	{"Sustain", 0, 100, "%.0f%%",
		func(p *monosynth.Params) float64 { return p.Sustain * 100 },
		func(p *monosynth.Params, v float64) { p.Sustain = v / 100 }},
	{"Release", 1, 500, "%.0f ms",
		func(p *monosynth.Params) float64 { return p.Release * 1000 },
		func(p *monosynth.Params, v float64) { p.Release = v / 1000 }},
}

func (s slider) trackRect(rect image.Rectangle) image.Rectangle {
	return image.Rect(rect.Min.X+180, rect.Min.Y+rect.Dy()/2-4, rect.Max.X-16, rect.Min.Y+rect.Dy()/2+4)
}

// valueAt maps a mouse x coordinate to a slider value.
func (s slider) valueAt(mx int, rect image.Rectangle) float64 {
	track := s.trackRect(rect)
	t := clamp(float64(mx-track.Min.X)/float64(max(1, track.Dx())), 0, 1)
	return s.min + t*(s.max-s.min)
}

func (g *game) drawSlider(screen *ebiten.Image, rect image.Rectangle, s slider, p *monosynth.Params) {
	g.drawPanel(screen, rect)
	v := s.get(p)
	drawLabel(screen, s.label+" "+fmt.Sprintf(s.format, v), rect.Min.X+8, rect.Min.Y+rect.Dy()/2+4)

	track := s.trackRect(rect)
	if track.Dx() < 20 {
		return
	}
	fillRect(screen, track, bevelDarker)
	fillW := int(float64(track.Dx()) * clamp((v-s.min)/(s.max-s.min), 0, 1))
	if fillW > 2 {
		fillRect(screen, image.Rect(track.Min.X+1, track.Min.Y+1, track.Min.X+fillW, track.Max.Y-1), sliderFillColor)
	}
	knobX := min(max(track.Min.X+fillW-5, track.Min.X-5), track.Max.X-5)
	knob := image.Rect(knobX, track.Min.Y-4, knobX+10, track.Max.Y+4)
	fillRect(screen, knob, panelColor)
	drawBorder(screen, knob)
}

func (g *game) drawPanel(screen *ebiten.Image, rect image.Rectangle) {
	fillRect(screen, rect, panelColor)
	drawBorder(screen, rect)
}

func (g *game) drawDarkPanel(screen *ebiten.Image, rect image.Rectangle) {
	fillRect(screen, rect, color.RGBA{0, 0, 0, 255})
	drawSunkenBorder(screen, rect)
}

func (g *game) drawButton(screen *ebiten.Image, rect image.Rectangle, label string, pressed bool) {
	if pressed {
		fillRect(screen, rect, highlightColor)
		drawSunkenBorder(screen, rect)
	} else {
		g.drawPanel(screen, rect)
	}
	c := color.Color(labelColor)
	if pressed {
		c = textColor
	}
	w := text.BoundString(basicfont.Face7x13, label).Dx()
	text.Draw(screen, label, basicfont.Face7x13, rect.Min.X+(rect.Dx()-w)/2, rect.Min.Y+rect.Dy()/2+4, c)
}

func drawLabel(screen *ebiten.Image, msg string, x, baselineY int) {
	text.Draw(screen, msg, basicfont.Face7x13, x, baselineY, labelColor)
}

func fillRect(screen *ebiten.Image, r image.Rectangle, c color.Color) {
	ebitenutil.DrawRect(screen, float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()), c)
}

// drawBorder draws a raised bevel.
func drawBorder(screen *ebiten.Image, rect image.Rectangle) {
	x, y := float64(rect.Min.X), float64(rect.Min.Y)
	w, h := float64(rect.Dx()), float64(rect.Dy())
	ebitenutil.DrawRect(screen, x, y, w-1, 1, bevelLight)
	ebitenutil.DrawRect(screen, x, y+1, 1, h-2, bevelLight)
	ebitenutil.DrawRect(screen, x, y+h-1, w, 1, bevelDarker)
	ebitenutil.DrawRect(screen, x+w-1, y, 1, h, bevelDarker)
	ebitenutil.DrawRect(screen, x+1, y+h-2, w-3, 1, borderColor)
	ebitenutil.DrawRect(screen, x+w-2, y+1, 1, h-3, borderColor)
}

// drawSunkenBorder draws an inset bevel.
func drawSunkenBorder(screen *ebiten.Image, rect image.Rectangle) {
	x, y := float64(rect.Min.X), float64(rect.Min.Y)
	w, h := float64(rect.Dx()), float64(rect.Dy())
	ebitenutil.DrawRect(screen, x, y, w-1, 1, borderColor)
	ebitenutil.DrawRect(screen, x, y+1, 1, h-2, borderColor)
	ebitenutil.DrawRect(screen, x, y+h-1, w, 1, bevelLight)
	ebitenutil.DrawRect(screen, x+w-1, y, 1, h, bevelLight)
	ebitenutil.DrawRect(screen, x+1, y+1, w-3, 1, bevelDarker)
	ebitenutil.DrawRect(screen, x+1, y+2, 1, h-4, bevelDarker)
}

func clamp(v, minV, maxV float64) float64 {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return image.Pt(x, y).In(rect)
}

func drawLabelColor(screen *ebiten.Image, msg string, x, baselineY int) {
	text.Draw(screen, msg, basicfont.Face7x13, x, baselineY, textColor)
}
