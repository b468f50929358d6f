// Package envelope implements the ADSR gain envelope of the voice.
//
// Each stage owns its own transition function. Triggers (NoteOn, NoteOff)
// are the only way into Attack and Release; every other transition happens
// when the level crosses the stage's threshold.
package envelope

// Stage identifies where the envelope is in its lifecycle.
type Stage int

const (
	Idle Stage = iota
	Attack
	Decay
	Sustain
	Release
)

func (s Stage) String() string {
	switch s {
	case Idle:
		return "idle"
	case Attack:
		return "attack"
	case Decay:
		return "decay"
	case Sustain:
		return "sustain"
	case Release:
		return "release"
	}
	return "unknown"
}

// Envelope is a linear ADSR generator. Attack, Decay and Release are in
// seconds and must be positive; Sustain is a level in [0, 1].
type Envelope struct {
	attack  float64
	decay   float64
	sustain float64
	release float64

	stage Stage
	value float64
}

// New returns an idle envelope with the given times and sustain level.
func New(attack, decay, sustain, release float64) Envelope {
	return Envelope{attack: attack, decay: decay, sustain: sustain, release: release}
}

// Default matches the voice's power-on patch: 10ms/100ms/0.8/200ms.
func Default() Envelope {
	return New(0.01, 0.1, 0.8, 0.2)
}

// Set replaces all four parameters. The current stage and level are kept.
func (e *Envelope) Set(attack, decay, sustain, release float64) {
	e.attack = attack
	e.decay = decay
	e.sustain = sustain
	e.release = release
}

func (e *Envelope) Stage() Stage   { return e.stage }
func (e *Envelope) Value() float64 { return e.value }

// Active reports whether the envelope is producing a non-idle level.
func (e *Envelope) Active() bool { return e.stage != Idle }

// NoteOn (re)enters Attack from whatever level the envelope is at.
func (e *Envelope) NoteOn() {
	e.stage = Attack
}

// NoteOff enters Release from any stage, including Idle.
func (e *Envelope) NoteOff() {
	e.stage = Release
}

// Process advances the envelope by dt seconds and returns the new level.
func (e *Envelope) Process(dt float64) float64 {
	switch e.stage {
	case Attack:
		e.stepAttack(dt)
	case Decay:
		e.stepDecay(dt)
	case Sustain:
		e.value = e.sustain
	case Release:
		e.stepRelease(dt)
	default:
		e.value = 0
	}
	return e.value
}

func (e *Envelope) stepAttack(dt float64) {
	e.value += dt / e.attack
	if e.value >= 1 {
		e.value = 1
		e.stage = Decay
	}
}

func (e *Envelope) stepDecay(dt float64) {
	e.value -= dt * (1 - e.sustain) / e.decay
	if e.value <= e.sustain {
		e.value = e.sustain
		e.stage = Sustain
	}
}

func (e *Envelope) stepRelease(dt float64) {
	// A zero sustain level would give a flat release slope and the
	// envelope would never reach Idle from Attack or Decay.
	level := e.sustain
	if level <= 0 {
		level = 1
	}
	e.value -= dt * level / e.release
	if e.value <= 0 {
		e.value = 0
		e.stage = Idle
	}
}
