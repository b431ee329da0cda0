package midi

import (
	"errors"
	"fmt"
	"time"

	"bouncyquencer/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

// CoreMIDI can hang while enumerating ports
const scanTimeout = 3 * time.Second

var (
	ErrScanTimeout  = errors.New("MIDI port scan timed out")
	ErrPortNotFound = errors.New("MIDI output port not found")
)

// OutPorts lists the names of available MIDI output ports
func OutPorts() ([]string, error) {
	outs, err := scanOutPorts()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(outs))
	for _, p := range outs {
		names = append(names, p.String())
	}
	return names, nil
}

func scanOutPorts() ([]drivers.Out, error) {
	ch := make(chan []drivers.Out, 1)
	go func() {
		ch <- gomidi.GetOutPorts()
	}()

	select {
	case outs := <-ch:
		return outs, nil
	case <-time.After(scanTimeout):
		// User needs to run: sudo killall coreaudiod midiserver
		return nil, ErrScanTimeout
	}
}

// PortSink sends encoded messages to a MIDI output port
type PortSink struct {
	name string
	port drivers.Out
	send func(msg gomidi.Message) error
}

// OpenPort finds the output port with the given name and opens it
func OpenPort(name string) (*PortSink, error) {
	outs, err := scanOutPorts()
	if err != nil {
		return nil, err
	}
	for _, port := range outs {
		if port.String() != name {
			continue
		}
		send, err := gomidi.SendTo(port)
		if err != nil {
			return nil, fmt.Errorf("open output %q: %w", name, err)
		}
		debug.Log("midi", "opened output port %q", name)
		return &PortSink{name: name, port: port, send: send}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrPortNotFound, name)
}

func (s *PortSink) Name() string {
	return s.name
}

func (s *PortSink) Send(msg []byte) error {
	if err := s.send(gomidi.Message(msg)); err != nil {
		return &SendError{Sink: s.name, Err: err}
	}
	return nil
}

func (s *PortSink) Close() error {
	return s.port.Close()
}
