package radio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldsensor/rsntgw/radio/stub"
)

func TestRSNLinkDeliverAndTryReceive(t *testing.T) {
	link := NewRSNLink(stub.New())
	_, ok := link.TryReceive()
	assert.False(t, ok)

	link.Deliver([]byte{1, 2, 3, 4, 5, 6}, []byte{0xAA, 0xBB})
	data, ok := link.TryReceive()
	require.True(t, ok)
	assert.Equal(t, []byte{0xAA, 0xBB}, data)

	// Draining clears the mailbox.
	_, ok = link.TryReceive()
	assert.False(t, ok)
}

func TestRSNLinkDeliverOverwritesUndrainedFrame(t *testing.T) {
	link := NewRSNLink(stub.New())
	link.Deliver(nil, []byte{1})
	link.Deliver(nil, []byte{2})
	data, ok := link.TryReceive()
	require.True(t, ok)
	assert.Equal(t, []byte{2}, data)
}

func TestRSNLinkSendBroadcastForcesBroadcast(t *testing.T) {
	driver := stub.New()
	link := NewRSNLink(driver)
	link.Deliver([]byte{1, 2, 3, 4, 5, 6}, []byte{0x01}) // learns a peer MAC
	link.SendBroadcast([]byte{0xAA})

	sent := driver.SentLog()
	require.Len(t, sent, 1)
	assert.Equal(t, BroadcastMAC, sent[0].Dest)
}

func TestRSNLinkSendUsesLearnedPeerFallsBackToBroadcast(t *testing.T) {
	driver := stub.New()
	link := NewRSNLink(driver)

	// No peer learned yet: falls back to broadcast.
	link.Send([]byte{0x01})
	sent := driver.SentLog()
	require.Len(t, sent, 1)
	assert.Equal(t, BroadcastMAC, sent[0].Dest)

	// After learning a peer, sends target it.
	peer := []byte{1, 2, 3, 4, 5, 6}
	link.Deliver(peer, []byte{0x02})
	link.Send([]byte{0x03})
	sent = driver.SentLog()
	require.Len(t, sent, 2)
	assert.Equal(t, peer, sent[1].Dest)
}

func TestRSNLinkLastSendOK(t *testing.T) {
	driver := stub.New()
	link := NewRSNLink(driver)
	link.Send([]byte{0x01})
	assert.True(t, link.LastSendOK())

	driver.FailNextSend()
	link.Send([]byte{0x01})
	assert.False(t, link.LastSendOK())
}
