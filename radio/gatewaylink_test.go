package radio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldsensor/rsntgw/radio/stub"
)

func fixedNow(t time.Time) Now {
	return func() time.Time { return t }
}

func TestGatewayLinkFIFOCapacityDropsNewest(t *testing.T) {
	link := NewGatewayLink(fixedNow(time.Unix(0, 0)))
	for i := 0; i < RXFIFOCapacity+1; i++ {
		link.Deliver(1, []byte{1, 2, 3, 4, 5, 6}, -40, []byte{byte(i)})
	}
	var drained []RXEntry
	for {
		e, ok := link.Poll()
		if !ok {
			break
		}
		drained = append(drained, e)
	}
	require.Len(t, drained, RXFIFOCapacity)
	assert.Equal(t, byte(0), drained[0].Data[0])
	assert.Equal(t, byte(RXFIFOCapacity-1), drained[len(drained)-1].Data[0])
}

func TestGatewayLinkOverflowRateLimited(t *testing.T) {
	now := time.Unix(0, 0)
	link := NewGatewayLink(fixedNow(now))
	var overflowCount int
	link.SetOverflowHandler(func() { overflowCount++ })

	for i := 0; i < RXFIFOCapacity+5; i++ {
		link.Deliver(1, []byte{1, 2, 3, 4, 5, 6}, -40, []byte{0})
	}
	assert.Equal(t, 1, overflowCount)
}

// TGW MAC promotion scenario: HELLO from an unknown MAC with node_id=0,
// then a send to node_id=5 within the TTL resolves via the unassigned
// slot and, on success, promotes that MAC into node 5's table entry.
func TestGatewayLinkMACPromotion(t *testing.T) {
	mac := []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}
	start := time.Unix(1000, 0)
	current := start
	link := NewGatewayLink(func() time.Time { return current })

	link.Deliver(0, mac, -50, []byte{0x01}) // HELLO, node_id unknown

	driver := stub.New()
	current = start.Add(2 * time.Second)
	ok := link.SendToNode(driver, 5, []byte{0xC0})
	require.True(t, ok)

	sent := driver.SentLog()
	require.Len(t, sent, 1)
	assert.Equal(t, mac, sent[0].Dest)

	gotMAC, known := link.NodeMAC(5)
	require.True(t, known)
	assert.Equal(t, mac, gotMAC)

	// Unassigned slot was cleared: a second unrelated node falls back to
	// broadcast rather than reusing the promoted MAC.
	current = start.Add(3 * time.Second)
	link.SendToNode(driver, 6, []byte{0x02})
	sent = driver.SentLog()
	require.Len(t, sent, 2)
	assert.Equal(t, BroadcastMAC, sent[1].Dest)
}

func TestGatewayLinkUnassignedMACExpiresAfterTTL(t *testing.T) {
	mac := []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}
	start := time.Unix(1000, 0)
	current := start
	link := NewGatewayLink(func() time.Time { return current })

	link.Deliver(0, mac, -50, []byte{0x01})

	driver := stub.New()
	current = start.Add(9 * time.Second) // beyond the 8s TTL
	link.SendToNode(driver, 5, []byte{0x02})

	sent := driver.SentLog()
	require.Len(t, sent, 1)
	assert.Equal(t, BroadcastMAC, sent[0].Dest)
}

func TestGatewayLinkPrefersKnownNodeMACOverUnassigned(t *testing.T) {
	knownMAC := []byte{1, 1, 1, 1, 1, 1}
	unassignedMAC := []byte{2, 2, 2, 2, 2, 2}
	link := NewGatewayLink(fixedNow(time.Unix(0, 0)))

	link.SetNodeMAC(5, knownMAC)
	link.Deliver(0, unassignedMAC, -40, []byte{0x01})

	driver := stub.New()
	link.SendToNode(driver, 5, []byte{0x02})

	sent := driver.SentLog()
	require.Len(t, sent, 1)
	assert.Equal(t, knownMAC, sent[0].Dest)
}
