package uplink

import (
	"io"
	"sync"
)

// SerialUplink implements a length-prefixed frame connection over any
// io.ReadWriter (in practice a go.bug.st/serial.Port opened by the
// caller). Downward frames are drained by a background goroutine into a
// buffered channel so PollDown never blocks the router's step loop.
type SerialUplink struct {
	rw     io.ReadWriter
	reader *Reader
	down   chan []byte

	mu        sync.Mutex
	connected bool
}

// NewSerialUplink wraps rw, sized for frames up to maxSize, and starts
// the background read loop. The caller is responsible for opening (and
// eventually closing) rw.
func NewSerialUplink(rw io.ReadWriter, maxSize int) *SerialUplink {
	u := &SerialUplink{
		rw:        rw,
		reader:    NewReader(rw, maxSize),
		down:      make(chan []byte, 32),
		connected: true,
	}
	go u.readLoop()
	return u
}

func (u *SerialUplink) readLoop() {
	for {
		frame, err := u.reader.ReadFrame()
		if err != nil {
			if err == ErrOversizedFrame {
				continue
			}
			u.mu.Lock()
			u.connected = false
			u.mu.Unlock()
			close(u.down)
			return
		}
		u.down <- frame
	}
}

// Send length-prefixes payload and writes it to the underlying stream.
// It reports false on any write error (which also marks the connection
// disconnected for IsConnected's sake).
func (u *SerialUplink) Send(payload []byte) bool {
	_, err := u.rw.Write(Encode(payload))
	if err != nil {
		u.mu.Lock()
		u.connected = false
		u.mu.Unlock()
		return false
	}
	return true
}

// PollDown returns the next frame the host sent down, if any is already
// buffered. It never blocks.
func (u *SerialUplink) PollDown() ([]byte, bool) {
	select {
	case frame, ok := <-u.down:
		return frame, ok
	default:
		return nil, false
	}
}

// IsConnected reports false once the read loop has stopped or a Send has
// failed to write.
func (u *SerialUplink) IsConnected() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.connected
}
