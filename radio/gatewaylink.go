package radio

import (
	"sync"
	"time"
)

// RXFIFOCapacity bounds the gateway's receive queue between the radio's
// callback and the router's main loop.
const RXFIFOCapacity = 16

// MaxNodes bounds the peer table; a gateway beyond this many paired nodes
// has no free slot left for a new one.
const MaxNodes = 8

// unpairedMACTTL is how long the "recent unassigned" MAC slot stays valid
// for resolving a send before the gateway falls back to broadcast.
const unpairedMACTTL = 8 * time.Second

// overflowLogInterval rate-limits the FIFO-full log line so a sustained
// burst doesn't flood the gateway's log.
const overflowLogInterval = 500 * time.Millisecond

// RXEntry is one received frame queued for the router's main loop.
type RXEntry struct {
	NodeID uint8
	RSSI   int8
	Data   []byte
}

type nodeSlot struct {
	inUse      bool
	nodeID     uint8
	mac        []byte
	lastRSSI   int8
	lastSeenAt time.Time
}

// Now abstracts time.Now so TTL logic is deterministic in tests.
type Now func() time.Time

// GatewayLink is the gateway-side radio link: a bounded receive FIFO, a
// per-node MAC table, and the three-tier destination resolution a send
// uses to find a node's current address.
type GatewayLink struct {
	now Now

	mu      sync.Mutex
	fifo    []RXEntry
	nodes   [MaxNodes]nodeSlot
	unMAC   []byte
	unAt    time.Time
	hasUn   bool
	lastOvf time.Time

	onOverflow func()
}

// NewGatewayLink builds an empty link. now defaults to time.Now when nil.
func NewGatewayLink(now Now) *GatewayLink {
	if now == nil {
		now = time.Now
	}
	return &GatewayLink{now: now}
}

// SetOverflowHandler installs a callback invoked (rate-limited to once
// per overflowLogInterval) whenever the receive FIFO drops a frame.
func (g *GatewayLink) SetOverflowHandler(f func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onOverflow = f
}

// Deliver is called by the radio's receive callback with a verbatim
// frame, its sender's MAC and RSSI. The node table is updated
// regardless of whether the frame gets enqueued, so a sustained FIFO
// overflow never stops a node's MAC/RSSI/last_seen from being learned
// or refreshed; the frame itself is dropped (newest arrival) if the
// FIFO is full.
func (g *GatewayLink) Deliver(nodeID uint8, mac []byte, rssi int8, data []byte) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.updateNodeTable(nodeID, mac, rssi)

	if len(g.fifo) >= RXFIFOCapacity {
		now := g.now()
		if now.Sub(g.lastOvf) > overflowLogInterval {
			g.lastOvf = now
			if g.onOverflow != nil {
				g.onOverflow()
			}
		}
		return
	}
	g.fifo = append(g.fifo, RXEntry{NodeID: nodeID, RSSI: rssi, Data: append([]byte(nil), data...)})
}

func (g *GatewayLink) updateNodeTable(nodeID uint8, mac []byte, rssi int8) {
	if len(mac) != 6 {
		return
	}
	now := g.now()
	if nodeID != 0 {
		slot := g.findOrAllocate(nodeID)
		if slot != nil {
			slot.mac = append([]byte(nil), mac...)
			slot.lastRSSI = rssi
			slot.lastSeenAt = now
		}
		return
	}
	g.unMAC = append([]byte(nil), mac...)
	g.unAt = now
	g.hasUn = true
}

func (g *GatewayLink) findNode(nodeID uint8) *nodeSlot {
	for i := range g.nodes {
		if g.nodes[i].inUse && g.nodes[i].nodeID == nodeID {
			return &g.nodes[i]
		}
	}
	return nil
}

func (g *GatewayLink) findOrAllocate(nodeID uint8) *nodeSlot {
	if slot := g.findNode(nodeID); slot != nil {
		return slot
	}
	for i := range g.nodes {
		if !g.nodes[i].inUse {
			g.nodes[i] = nodeSlot{inUse: true, nodeID: nodeID, mac: append([]byte(nil), BroadcastMAC...)}
			return &g.nodes[i]
		}
	}
	return nil
}

// Poll dequeues the oldest pending frame, or returns ok=false if empty.
func (g *GatewayLink) Poll() (RXEntry, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.fifo) == 0 {
		return RXEntry{}, false
	}
	entry := g.fifo[0]
	g.fifo = g.fifo[1:]
	return entry, true
}

// SetNodeMAC records mac as the known address of nodeID, allocating a
// table slot if necessary.
func (g *GatewayLink) SetNodeMAC(nodeID uint8, mac []byte) {
	g.mu.Lock()
	defer g.mu.Unlock()
	slot := g.findOrAllocate(nodeID)
	if slot != nil {
		slot.mac = append([]byte(nil), mac...)
	}
}

// NodeMAC returns the known MAC for nodeID, or (nil, false).
func (g *GatewayLink) NodeMAC(nodeID uint8) ([]byte, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	slot := g.findNode(nodeID)
	if slot == nil || isBroadcast(slot.mac) {
		return nil, false
	}
	return slot.mac, true
}

// resolveDestination implements the three-tier lookup: node-table MAC,
// then the recent-unassigned MAC within its TTL, then broadcast. It
// reports whether the unassigned slot was the source, so the caller can
// promote it into the node table on a successful send.
func (g *GatewayLink) resolveDestination(nodeID uint8) (dest []byte, fromUnassigned bool) {
	if slot := g.findNode(nodeID); slot != nil && !isBroadcast(slot.mac) {
		return slot.mac, false
	}
	if nodeID != 0 && g.hasUn && g.now().Sub(g.unAt) <= unpairedMACTTL {
		return g.unMAC, true
	}
	return BroadcastMAC, false
}

// SendToNode resolves nodeID's destination and transmits via driver. A
// successful send through the unassigned-MAC path promotes that MAC into
// the node table and clears the unassigned slot.
func (g *GatewayLink) SendToNode(driver Driver, nodeID uint8, data []byte) bool {
	g.mu.Lock()
	dest, fromUnassigned := g.resolveDestination(nodeID)
	destCopy := append([]byte(nil), dest...)
	g.mu.Unlock()

	ok := driver.Send(destCopy, data)

	if ok && fromUnassigned {
		g.mu.Lock()
		slot := g.findOrAllocate(nodeID)
		if slot != nil {
			slot.mac = destCopy
		}
		g.hasUn = false
		g.mu.Unlock()
	}
	return ok
}
