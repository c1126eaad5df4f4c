// Package radio implements the two ends of the connectionless datagram
// radio link: RSNLink for the battery-powered sensor node (single-slot
// mailbox, best-effort send) and GatewayLink for the gateway (bounded
// receive FIFO, per-node peer table, three-tier destination resolution).
package radio

import (
	"sync"

	"github.com/fieldsensor/rsntgw/wire"
)

// Driver is the minimal radio transport both links are built on: a
// best-effort broadcast-or-unicast transmit and a way to learn whether the
// last transmit succeeded. Real hardware builds satisfy this with an
// ESP-NOW-equivalent radio; host builds satisfy it with radio/stub.
type Driver interface {
	// Send transmits data to dest (nil or all-0xFF means broadcast) and
	// reports whether the underlying radio accepted it for transmission.
	Send(dest []byte, data []byte) bool
}

// BroadcastMAC is the sentinel destination meaning "send to everyone",
// used whenever no specific peer MAC is known or trusted.
var BroadcastMAC = []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

func isBroadcast(mac []byte) bool {
	if len(mac) != 6 {
		return true
	}
	for _, b := range mac {
		if b != 0xFF {
			return false
		}
	}
	return true
}

// RSNLink is the RSN-side radio link: a single-slot mailbox fed by the
// driver's receive callback, and a best-effort transmit path that tracks
// whether the last send succeeded. The mailbox holds at most one frame;
// a newer arrival overwrites whatever wasn't yet drained, which is
// expected and harmless given the RSN's duty cycle.
type RSNLink struct {
	driver Driver

	mu        sync.Mutex
	hasPacket bool
	pending   []byte

	lastSendOK bool
	peerMAC    []byte
}

// NewRSNLink builds a link with an unknown peer (broadcast fallback).
func NewRSNLink(driver Driver) *RSNLink {
	return &RSNLink{driver: driver}
}

// Deliver is called by the driver's receive callback (which may run
// outside the main scheduling context) to hand a decoded frame to the
// link.
func (l *RSNLink) Deliver(peerMAC []byte, data []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending = append([]byte(nil), data...)
	l.hasPacket = true
	if len(peerMAC) == 6 {
		l.peerMAC = append([]byte(nil), peerMAC...)
	}
}

// TryReceive drains the mailbox if it holds a frame, clearing has_packet
// atomically with the read. It returns (nil, false) when nothing is
// pending.
func (l *RSNLink) TryReceive() ([]byte, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.hasPacket {
		return nil, false
	}
	l.hasPacket = false
	return l.pending, true
}

// TryReceiveKind drains the mailbox only if it holds a frame of the
// given kind, mirroring proto_try_receive_handshake/_config: a pending
// frame of a different kind is left in place rather than consumed, so
// it's still there for whichever caller is actually expecting it. It
// returns (nil, false) when nothing is pending or the pending frame
// doesn't match kind.
func (l *RSNLink) TryReceiveKind(kind wire.Kind) ([]byte, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.hasPacket {
		return nil, false
	}
	hdr, err := wire.DecodeHeader(l.pending)
	if err != nil || hdr.Kind != kind {
		return nil, false
	}
	l.hasPacket = false
	return l.pending, true
}

// SendBroadcast always targets the broadcast address, used for HELLO so a
// re-paired or restarted gateway with a new MAC can still be reached.
func (l *RSNLink) SendBroadcast(data []byte) bool {
	l.lastSendOK = l.driver.Send(BroadcastMAC, data)
	return l.lastSendOK
}

// Send targets the last-learned peer MAC, falling back to broadcast when
// none is known.
func (l *RSNLink) Send(data []byte) bool {
	dest := l.peerMAC
	if len(dest) == 0 || isBroadcast(dest) {
		dest = BroadcastMAC
	}
	l.lastSendOK = l.driver.Send(dest, data)
	return l.lastSendOK
}

// LastSendOK reports whether the most recent Send/SendBroadcast call
// succeeded.
func (l *RSNLink) LastSendOK() bool {
	return l.lastSendOK
}
