package main

import (
	"image"
	"image/color"
	"math"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const scopeRingLen = 8192

// scope keeps the most recent mono output for the oscilloscope. Tap runs on
// the audio thread and never blocks; readers may see a slightly torn window.
type scope struct {
	ring     [scopeRingLen]atomic.Uint32
	writePos atomic.Uint64
	peak     float64
}

func (s *scope) Tap(samples []float32) {
	pos := s.writePos.Load()
	for i := 0; i+1 < len(samples); i += 2 {
		mono := (samples[i] + samples[i+1]) * 0.5
		s.ring[pos%scopeRingLen].Store(math.Float32bits(mono))
		pos++
	}
	s.writePos.Store(pos)
}

// snapshot copies the newest len(dst) samples into dst.
func (s *scope) snapshot(dst []float32) {
	end := s.writePos.Load()
	n := uint64(len(dst))
	for i := uint64(0); i < n; i++ {
		idx := end + scopeRingLen - n + i
		dst[i] = math.Float32frombits(s.ring[idx%scopeRingLen].Load())
	}
}

func (g *game) drawScope(screen *ebiten.Image, rect image.Rectangle) {
	g.drawDarkPanel(screen, rect)
	inner := rect.Inset(3)
	width, height := inner.Dx(), inner.Dy()
	if width < 2 || height < 4 {
		return
	}
	g.scope.snapshot(g.scopeBuf)
	samples := g.scopeBuf
	midY := float64(inner.Min.Y + height/2)
	ebitenutil.DrawRect(screen, float64(inner.Min.X), midY, float64(width), 1, color.RGBA{40, 44, 58, 100})

	// Auto-gain: fast attack, slow release.
	peak := 0.0
	for _, v := range samples {
		peak = math.Max(peak, math.Abs(float64(v)))
	}
	peak = math.Max(peak, 0.01)
	if peak > g.scope.peak {
		g.scope.peak = g.scope.peak*0.3 + peak*0.7
	} else {
		g.scope.peak = g.scope.peak*0.995 + peak*0.005
	}
	gain := float64(height/2-2) / math.Max(g.scope.peak, 0.01)

	trigger := findZeroCrossing(samples, len(samples)/2)
	visible := len(samples) / 2
	waveColor := color.RGBA{80, 200, 255, 220}
	prevX := float64(inner.Min.X)
	prevY := midY - float64(samples[trigger])*gain
	for px := 1; px < width; px++ {
		si := trigger + px*visible/width
		if si >= len(samples) {
			si = len(samples) - 1
		}
		x := float64(inner.Min.X + px)
		y := midY - float64(samples[si])*gain
		ebitenutil.DrawLine(screen, prevX, prevY, x, y, waveColor)
		prevX, prevY = x, y
	}
}

// findZeroCrossing returns the first rising zero crossing within searchLen.
func findZeroCrossing(samples []float32, searchLen int) int {
	if searchLen > len(samples)-2 {
		searchLen = len(samples) - 2
	}
	for i := 1; i < searchLen; i++ {
		if samples[i-1] <= 0 && samples[i] > 0 {
			return i
		}
	}
	return 0
}
