package monosynth

import "errors"

// Sentinel errors returned by the Player and rendering helpers.
var (
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	ErrUnknownBackend    = errors.New("unknown audio backend")
	ErrTriggerQueueFull  = errors.New("trigger queue full")
	ErrClosed            = errors.New("player closed")
	ErrInvalidDuration   = errors.New("render duration must be positive")
)
