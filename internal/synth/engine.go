package synth

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/cbegin/monosynth-go/internal/envelope"
	"github.com/cbegin/monosynth-go/internal/sequencer"
)

// Status is a display snapshot published by the audio thread after every
// block.
type Status struct {
	Stage          envelope.Stage
	Level          float64
	LFOPhase       float64
	Phase          float64
	Step           int
	StepNote       int // sequencer.Rest when the current step is silent
	SequencerOn    bool
	Frames         uint64
	DroppedTrigger uint64
}

// Engine owns the voice and bridges the control and audio threads.
//
// The control side publishes complete Params snapshots through an atomic
// pointer and pushes triggers into a lock-free ring. Process, called from
// the audio thread, picks both up at the block boundary and then renders
// without locks or allocation.
type Engine struct {
	sampleRate float64
	dt         float64

	// audio thread only
	voice   *Voice
	seq     *sequencer.Sequencer
	applied *Params
	retrig  bool

	// shared
	params  atomic.Pointer[Params]
	queue   triggerQueue
	control sync.Mutex // serialises producers; never taken by Process

	stage    atomic.Int32
	level    atomic.Uint64
	lfoPhase atomic.Uint64
	phase    atomic.Uint64
	step     atomic.Int32
	stepNote atomic.Int32
	seqOn    atomic.Bool
	frames   atomic.Uint64
}

// NewEngine returns an engine with DefaultParams already applied.
func NewEngine(sampleRate int) *Engine {
	e := &Engine{
		sampleRate: float64(sampleRate),
		dt:         1 / float64(sampleRate),
		voice:      NewVoice(float64(sampleRate)),
		seq:        sequencer.New(),
	}
	p := DefaultParams()
	e.params.Store(&p)
	p.apply(nil, e.voice, e.seq)
	e.applied = &p
	return e
}

func (e *Engine) SampleRate() int { return int(e.sampleRate) }

// Params returns the most recently published parameter set.
func (e *Engine) Params() Params {
	return *e.params.Load()
}

// SetParams sanitises p and publishes it for the next audio block.
func (e *Engine) SetParams(p Params) {
	p = p.Sanitize()
	e.control.Lock()
	e.params.Store(&p)
	e.control.Unlock()
}

// UpdateParams applies fn to a copy of the current parameters and
// publishes the result. Concurrent callers are serialised.
func (e *Engine) UpdateParams(fn func(*Params)) Params {
	e.control.Lock()
	defer e.control.Unlock()
	p := *e.params.Load()
	fn(&p)
	p = p.Sanitize()
	e.params.Store(&p)
	return p
}

func (e *Engine) push(t Trigger) bool {
	e.control.Lock()
	defer e.control.Unlock()
	return e.queue.Push(t)
}

// NoteOn gates the voice. It returns false if the trigger ring was full.
func (e *Engine) NoteOn() bool         { return e.push(TriggerNoteOn) }
func (e *Engine) NoteOff() bool        { return e.push(TriggerNoteOff) }
func (e *Engine) StartSequencer() bool { return e.push(TriggerSequencerStart) }
func (e *Engine) StopSequencer() bool  { return e.push(TriggerSequencerStop) }
func (e *Engine) ResetLFO() bool       { return e.push(TriggerLFOReset) }

// Status returns the state published at the end of the last block.
func (e *Engine) Status() Status {
	return Status{
		Stage:          envelope.Stage(e.stage.Load()),
		Level:          math.Float64frombits(e.level.Load()),
		LFOPhase:       math.Float64frombits(e.lfoPhase.Load()),
		Phase:          math.Float64frombits(e.phase.Load()),
		Step:           int(e.step.Load()),
		StepNote:       int(e.stepNote.Load()),
		SequencerOn:    e.seqOn.Load(),
		Frames:         e.frames.Load(),
		DroppedTrigger: e.queue.Dropped(),
	}
}

// Process fills dst with interleaved stereo frames; both channels carry the
// same sample. It is the audio callback and must stay allocation free.
func (e *Engine) Process(dst []float32) {
	e.beginBlock()
	frames := len(dst) / 2
	for i := 0; i < frames; i++ {
		s := float32(e.renderFrame())
		dst[i*2] = s
		dst[i*2+1] = s
	}
	e.endBlock(uint64(frames))
}

func (e *Engine) beginBlock() {
	if p := e.params.Load(); p != e.applied {
		p.apply(e.applied, e.voice, e.seq)
		e.applied = p
		e.retrig = p.LFORetrigger
	}
	for {
		t, ok := e.queue.Pop()
		if !ok {
			break
		}
		e.handle(t)
	}
}

func (e *Engine) handle(t Trigger) {
	switch t {
	case TriggerNoteOn:
		// Played notes sound at the published frequency even if the
		// sequencer retuned the voice since.
		e.voice.SetFrequency(e.applied.Frequency)
		e.noteOn()
	case TriggerNoteOff:
		e.voice.NoteOff()
	case TriggerSequencerStart:
		e.seq.Start()
	case TriggerSequencerStop:
		e.seq.Stop()
	case TriggerLFOReset:
		e.voice.ResetLFO()
	}
}

func (e *Engine) noteOn() {
	if e.retrig {
		e.voice.ResetLFO()
	}
	e.voice.NoteOn()
}

func (e *Engine) renderFrame() float64 {
	switch ev := e.seq.Update(e.dt); ev.Kind {
	case sequencer.EventStepOn:
		e.voice.SetFrequency(NoteToFreq(ev.Note))
		e.noteOn()
	case sequencer.EventStepOff:
		e.voice.NoteOff()
	}
	return e.voice.Process(e.dt)
}

func (e *Engine) endBlock(frames uint64) {
	env := e.voice.Envelope()
	e.stage.Store(int32(env.Stage()))
	e.level.Store(math.Float64bits(env.Value()))
	e.lfoPhase.Store(math.Float64bits(e.voice.LFO().Phase()))
	e.phase.Store(math.Float64bits(e.voice.Phase()))
	step := e.seq.CurrentStep()
	e.step.Store(int32(step))
	e.stepNote.Store(int32(e.seq.Pattern()[step].Note))
	e.seqOn.Store(e.seq.Playing())
	e.frames.Add(frames)
}
