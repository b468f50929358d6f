package sequencer

import "math"

// Steps is the fixed pattern length.
const Steps = 16

// Rest marks a step that plays no note.
const Rest = -1

const (
	defaultLength = 0.25
	defaultGate   = 0.8
)

// Step is one slot of the pattern. Note is a MIDI note number or Rest;
// Length is the step duration in seconds.
type Step struct {
	Note   int
	Length float64
}

// Pattern is a complete 16-step sequence.
type Pattern [Steps]Step

// DefaultPattern is all rests at a quarter second per step.
func DefaultPattern() Pattern {
	var p Pattern
	for i := range p {
		p[i] = Step{Note: Rest, Length: defaultLength}
	}
	return p
}

// EventKind identifies what the sequencer asks of the voice.
type EventKind int

const (
	EventNone EventKind = iota
	EventStepOn
	EventStepOff
)

// Event is returned from Update. Step and Note describe the step that
// caused it.
type Event struct {
	Kind EventKind
	Step int
	Note int
}

// Sequencer walks a 16-step pattern in real time. It never touches the
// voice itself; the caller turns events into note triggers.
type Sequencer struct {
	pattern     Pattern
	gate        float64
	currentStep int
	timer       float64
	playing     bool
	armed       bool // first step not yet announced
	gateOpen    bool
	stopPending bool
}

// New returns a stopped sequencer holding DefaultPattern.
func New() *Sequencer {
	return &Sequencer{pattern: DefaultPattern(), gate: defaultGate}
}

// SetPattern replaces the pattern. Non-positive lengths fall back to the
// default so the step clock always advances.
func (s *Sequencer) SetPattern(p Pattern) {
	for i := range p {
		if !(p[i].Length > 0) || math.IsInf(p[i].Length, 0) {
			p[i].Length = defaultLength
		}
	}
	s.pattern = p
}

func (s *Sequencer) Pattern() Pattern { return s.pattern }

// SetGate sets the note-on fraction of each step, clamped to (0, 1].
func (s *Sequencer) SetGate(gate float64) {
	if !(gate > 0) {
		gate = defaultGate
	}
	if gate > 1 {
		gate = 1
	}
	s.gate = gate
}

func (s *Sequencer) CurrentStep() int { return s.currentStep }
func (s *Sequencer) Playing() bool    { return s.playing }

// Start rewinds to step 0 and begins playback.
func (s *Sequencer) Start() {
	s.playing = true
	s.currentStep = 0
	s.timer = 0
	s.armed = true
	s.stopPending = false
}

// Stop halts playback. A sounding step is released on the next Update.
func (s *Sequencer) Stop() {
	if s.playing && s.gateOpen {
		s.stopPending = true
	}
	s.playing = false
	s.armed = false
}

// Update advances the step clock by dt seconds and returns at most one
// event.
func (s *Sequencer) Update(dt float64) Event {
	if s.stopPending {
		s.stopPending = false
		s.gateOpen = false
		return Event{Kind: EventStepOff, Step: s.currentStep, Note: s.pattern[s.currentStep].Note}
	}
	if !s.playing {
		return Event{}
	}
	if s.armed {
		s.armed = false
		if ev, ok := s.enter(); ok {
			return ev
		}
	}
	s.timer += dt
	step := s.pattern[s.currentStep]
	if s.timer >= step.Length {
		s.timer = 0
		s.currentStep = (s.currentStep + 1) % Steps
		if ev, ok := s.enter(); ok {
			return ev
		}
		return Event{}
	}
	if s.gateOpen && s.timer >= step.Length*s.gate {
		s.gateOpen = false
		return Event{Kind: EventStepOff, Step: s.currentStep, Note: step.Note}
	}
	return Event{}
}

// enter announces the current step: a note opens the gate, a rest closes
// one left open by the previous step.
func (s *Sequencer) enter() (Event, bool) {
	step := s.pattern[s.currentStep]
	if step.Note != Rest {
		s.gateOpen = true
		return Event{Kind: EventStepOn, Step: s.currentStep, Note: step.Note}, true
	}
	if s.gateOpen {
		s.gateOpen = false
		return Event{Kind: EventStepOff, Step: s.currentStep, Note: step.Note}, true
	}
	return Event{}, false
}
