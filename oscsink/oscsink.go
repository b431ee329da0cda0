// Package oscsink delivers encoded note messages as OSC packets, one int32
// argument per MIDI byte. Receivers that speak raw MIDI over OSC (e.g. a
// Max or Pd patch listening on the address) can forward them untouched.
package oscsink

import (
	"errors"
	"fmt"

	"github.com/hypebeast/go-osc/osc"

	"bouncyquencer/midi"
)

var ErrNoAddress = errors.New("osc address must start with /")

// Sink sends each message to a single OSC address
type Sink struct {
	client  *osc.Client
	address string
	target  string
}

// New returns a sink for host:port. Nothing is dialed until the first Send.
func New(host string, port int, address string) (*Sink, error) {
	if len(address) == 0 || address[0] != '/' {
		return nil, fmt.Errorf("%w: %q", ErrNoAddress, address)
	}
	return &Sink{
		client:  osc.NewClient(host, port),
		address: address,
		target:  fmt.Sprintf("osc://%s:%d%s", host, port, address),
	}, nil
}

// Name identifies the sink in errors and logs
func (s *Sink) Name() string {
	return s.target
}

func (s *Sink) Send(msg []byte) error {
	m := osc.NewMessage(s.address)
	for _, b := range msg {
		m.Append(int32(b))
	}
	if err := s.client.Send(m); err != nil {
		return &midi.SendError{Sink: s.target, Err: err}
	}
	return nil
}

var _ midi.Sink = (*Sink)(nil)
