package midi

import (
	"fmt"
)

// Sink accepts encoded messages for delivery
type Sink interface {
	Send(msg []byte) error
}

// SendError wraps a failure from a sink
type SendError struct {
	Sink string
	Err  error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send via %s: %v", e.Sink, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// SinkFunc adapts a plain function to Sink
type SinkFunc func(msg []byte) error

func (f SinkFunc) Send(msg []byte) error {
	return f(msg)
}

// Discard drops every message. Used when no output is configured.
var Discard Sink = SinkFunc(func([]byte) error { return nil })
