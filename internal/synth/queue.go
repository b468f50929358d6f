package synth

import "sync/atomic"

// Trigger is a discrete control event delivered to the audio thread.
type Trigger uint8

const (
	TriggerNoteOn Trigger = iota + 1
	TriggerNoteOff
	TriggerSequencerStart
	TriggerSequencerStop
	TriggerLFOReset
)

func (t Trigger) String() string {
	switch t {
	case TriggerNoteOn:
		return "note-on"
	case TriggerNoteOff:
		return "note-off"
	case TriggerSequencerStart:
		return "seq-start"
	case TriggerSequencerStop:
		return "seq-stop"
	case TriggerLFOReset:
		return "lfo-reset"
	}
	return "unknown"
}

// queueSize must be a power of two.
const queueSize = 64

// triggerQueue is a single-producer/single-consumer ring. Push is only
// called by the (serialised) control side, Pop only by the audio thread.
// Neither blocks nor allocates.
type triggerQueue struct {
	buf     [queueSize]Trigger
	head    atomic.Uint32 // next slot to read, owned by the consumer
	tail    atomic.Uint32 // next slot to write, owned by the producer
	dropped atomic.Uint64
}

// Push appends t, or counts it as dropped and returns false when full.
func (q *triggerQueue) Push(t Trigger) bool {
	tail := q.tail.Load()
	if tail-q.head.Load() == queueSize {
		q.dropped.Add(1)
		return false
	}
	q.buf[tail%queueSize] = t
	q.tail.Store(tail + 1)
	return true
}

// Pop removes the oldest trigger.
func (q *triggerQueue) Pop() (Trigger, bool) {
	head := q.head.Load()
	if head == q.tail.Load() {
		return 0, false
	}
	t := q.buf[head%queueSize]
	q.head.Store(head + 1)
	return t, true
}

func (q *triggerQueue) Len() int {
	return int(q.tail.Load() - q.head.Load())
}

func (q *triggerQueue) Dropped() uint64 {
	return q.dropped.Load()
}
