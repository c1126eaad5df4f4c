// Package stub provides a host-side fake radio driver for simulation and
// tests: sent frames land in a log instead of the air, and an optional
// peer callback can deliver them synchronously the way a real receive
// interrupt would.
package stub

import "sync"

// SentFrame records one Send call's destination and payload.
type SentFrame struct {
	Dest []byte
	Data []byte
}

// Driver implements radio.Driver by logging every send and, if OnSend is
// set, handing the frame straight to a peer's Deliver call. This is
// enough to simulate an RSN/TGW pair on a single host without a
// background relay goroutine.
type Driver struct {
	mu       sync.Mutex
	sent     []SentFrame
	failNext bool
	onSend   func(dest, data []byte)
}

func New() *Driver { return &Driver{} }

// SetOnSend installs the callback invoked synchronously from Send with a
// copy of the destination and payload. Pass nil to disconnect.
func (d *Driver) SetOnSend(f func(dest, data []byte)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onSend = f
}

// Send records the frame, reports success (unless FailNextSend was
// armed), and — if a peer callback is installed — delivers it.
func (d *Driver) Send(dest []byte, data []byte) bool {
	d.mu.Lock()
	frame := SentFrame{
		Dest: append([]byte(nil), dest...),
		Data: append([]byte(nil), data...),
	}
	d.sent = append(d.sent, frame)
	fail := d.failNext
	d.failNext = false
	onSend := d.onSend
	d.mu.Unlock()

	if fail {
		return false
	}
	if onSend != nil {
		onSend(frame.Dest, frame.Data)
	}
	return true
}

// FailNextSend arms a one-shot failure for the next Send call, used to
// exercise the lost_rx / retransmit paths in tests.
func (d *Driver) FailNextSend() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failNext = true
}

// SentLog returns a snapshot of every frame Send has recorded so far.
func (d *Driver) SentLog() []SentFrame {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]SentFrame, len(d.sent))
	copy(out, d.sent)
	return out
}

// LastSent returns the most recent frame sent, or nil if none yet.
func (d *Driver) LastSent() ([]byte, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.sent) == 0 {
		return nil, false
	}
	return d.sent[len(d.sent)-1].Data, true
}
