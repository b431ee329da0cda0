package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"bouncyquencer/midi"
	"bouncyquencer/oscsink"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	var err error
	switch os.Args[1] {
	case "list":
		err = listPorts()
	case "note":
		err = testNote(os.Args[2:])
	case "osc":
		err = testOSC(os.Args[2:])
	case "poll":
		pollPorts()
	default:
		usage()
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list                          - List MIDI output ports")
	fmt.Println("  note <port> [note vel ch ms]  - Send a note pair to a port")
	fmt.Println("  osc <host> <port> [address]   - Send a note pair over OSC")
	fmt.Println("  poll                          - Poll for port changes")
}

func listPorts() error {
	fmt.Println("=== MIDI Output Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	ports, err := midi.OutPorts()
	if err != nil {
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
		return err
	}
	for i, p := range ports {
		fmt.Printf("  %d: %s\n", i, p)
	}
	return nil
}

// pairArgs parses optional note, velocity, channel and length in ms
func pairArgs(args []string) (on, off midi.TimedEvent, err error) {
	vals := []int{60, 100, 1, 250}
	for i, a := range args {
		if i >= len(vals) {
			break
		}
		if vals[i], err = strconv.Atoi(a); err != nil {
			return on, off, fmt.Errorf("argument %d: %w", i+1, err)
		}
		if vals[i] < 0 || (i < 3 && vals[i] > 255) {
			return on, off, fmt.Errorf("argument %d: %d out of range", i+1, vals[i])
		}
	}
	on, off = midi.NotePair(uint8(vals[2]), uint8(vals[0]), uint8(vals[1]), 0, time.Duration(vals[3])*time.Millisecond)
	return on, off, nil
}

// sendPair drains a start/stop pair through the queue in real time, the same
// way the simulation does
func sendPair(sink midi.Sink, on, off midi.TimedEvent) error {
	q := midi.NewEventQueue()
	q.PushPair(on, off)

	start := time.Now()
	for q.Len() > 0 {
		ev, ok := q.PopIfDue(time.Since(start))
		if !ok {
			time.Sleep(time.Millisecond)
			continue
		}
		msg, err := midi.Encode(ev)
		if err != nil {
			return err
		}
		fmt.Printf("  %s -> % x\n", ev, msg)
		if err := sink.Send(msg); err != nil {
			return err
		}
	}
	return nil
}

func testNote(args []string) error {
	if len(args) < 1 {
		usage()
		return nil
	}
	on, off, err := pairArgs(args[1:])
	if err != nil {
		return err
	}

	sink, err := midi.OpenPort(args[0])
	if err != nil {
		return err
	}
	defer sink.Close()

	fmt.Printf("Using output: %s\n", sink.Name())
	return sendPair(sink, on, off)
}

func testOSC(args []string) error {
	if len(args) < 2 {
		usage()
		return nil
	}
	port, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("port: %w", err)
	}
	address := "/bouncyquencer/note"
	if len(args) > 2 {
		address = args[2]
	}

	sink, err := oscsink.New(args[0], port, address)
	if err != nil {
		return err
	}
	on, off, err := pairArgs(nil)
	if err != nil {
		return err
	}

	fmt.Printf("Using output: %s\n", sink.Name())
	return sendPair(sink, on, off)
}

func pollPorts() {
	fmt.Println("Polling for port changes every 2 seconds...")
	fmt.Println("Connect/disconnect devices to test. Ctrl+C to exit.")

	last := ""
	for {
		ports, err := midi.OutPorts()
		if err != nil {
			fmt.Printf("\n[%s] %v\n", time.Now().Format("15:04:05"), err)
		} else if current := strings.Join(ports, ","); current != last {
			fmt.Printf("\n[%s] Port change detected!\n", time.Now().Format("15:04:05"))
			fmt.Printf("  Outputs: %v\n", ports)
			last = current
		}

		time.Sleep(2 * time.Second)
	}
}
