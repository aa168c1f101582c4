package emitter

import "errors"

var (
	// ErrChannelFull is returned when a consumer is not keeping up and
	// the message was dropped.
	ErrChannelFull = errors.New("emitter channel full")

	// ErrEmitterClosed is returned when emitting after Close.
	ErrEmitterClosed = errors.New("emitter is closed")
)
