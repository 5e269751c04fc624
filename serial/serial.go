// Package serial reads newline-terminated commands from the USB serial port
// and writes back one response line per command.
package serial

import (
	"time"
)

const (
	bufferSize = 128
	idleDelay  = 5 * time.Millisecond
)

// Port is the subset of machine.Serialer the console uses.
type Port interface {
	ReadByte() (byte, error)
	Write(data []byte) (int, error)
}

// Dispatcher turns one command line into a response line.
type Dispatcher interface {
	Dispatch(line string) string
}

// DispatchFunc adapts a plain function to Dispatcher.
type DispatchFunc func(line string) string

func (f DispatchFunc) Dispatch(line string) string {
	return f(line)
}

type Serial struct {
	serial     Port
	dispatcher Dispatcher
	inIndex    int
	inBuffer   [bufferSize]byte
	overflow   bool
}

func NewSerial(serial Port, dispatcher Dispatcher) *Serial {
	return &Serial{
		serial:     serial,
		dispatcher: dispatcher,
	}
}

// Handle runs the console loop forever.
func (s *Serial) Handle() {
	for {
		if !s.Poll() {
			time.Sleep(idleDelay)
		}
	}
}

// Poll consumes one byte if available and dispatches a completed line.
// It returns false when no byte was waiting.
func (s *Serial) Poll() bool {
	b, err := s.serial.ReadByte()
	if err != nil {
		return false
	}

	if line, ok := s.feed(b); ok {
		s.write(s.dispatcher.Dispatch(line))
	}
	return true
}

func (s *Serial) feed(b byte) (string, bool) {
	switch b {
	case '\r':
		return "", false
	case '\n':
		in := string(s.inBuffer[:s.inIndex])
		dropped := s.overflow
		s.inIndex = 0
		s.overflow = false
		if dropped {
			return "", false
		}
		return in, true
	}

	// An overlong line is discarded up to its newline
	if s.inIndex == bufferSize {
		s.overflow = true
		s.inIndex = 0
	}
	if s.overflow {
		return "", false
	}

	s.inBuffer[s.inIndex] = b
	s.inIndex++
	return "", false
}

func (s *Serial) write(out string) {
	s.serial.Write([]byte(out + "\n"))
}
