package tgw

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldsensor/rsntgw/radio"
	"github.com/fieldsensor/rsntgw/radio/stub"
	"github.com/fieldsensor/rsntgw/spool"
	"github.com/fieldsensor/rsntgw/store"
	"github.com/fieldsensor/rsntgw/uplink"
	"github.com/fieldsensor/rsntgw/wire"
)

// fakeUplink is an in-memory stand-in for the host serial connection: Send
// appends to a captured log (or is rejected, to exercise the spool path),
// and downward frames are fed in by the test via PushDown.
type fakeUplink struct {
	connected bool
	sent      [][]byte
	down      [][]byte
	rejectAll bool
}

func (f *fakeUplink) Send(frame []byte) bool {
	if f.rejectAll {
		return false
	}
	f.sent = append(f.sent, frame)
	return true
}

func (f *fakeUplink) PollDown() ([]byte, bool) {
	if len(f.down) == 0 {
		return nil, false
	}
	frame := f.down[0]
	f.down = f.down[1:]
	return frame, true
}

func (f *fakeUplink) IsConnected() bool { return f.connected }

func (f *fakeUplink) PushDown(frame []byte) { f.down = append(f.down, frame) }

// fixedClock returns a plain (unnamed) func() time.Time, assignable to
// either radio.Now or tgw.Clock without an explicit conversion.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func encodeConfigFrame(t *testing.T, sleepSeconds uint16) []byte {
	t.Helper()
	data, err := wire.EncodeConfig(wire.ConfigFrame{
		Header:           wire.Header{},
		SleepSeconds:     sleepSeconds,
		PowerUpMs:        100,
		SettleMs:         150,
		SampleIntervalMs: 50,
		BatteryBucket:    wire.BatteryHigh,
		LostRXLimit:      3,
	})
	require.NoError(t, err)
	return data
}

// Scenario 5: a HELLO arrives from an unknown MAC with node_id unassigned.
// The host then pushes a CONFIG for node 5; the router rescues the node
// with a best-effort HANDSHAKE, persists the per-node config, and sends
// the CONFIG itself resolved via the promoted MAC.
func TestRouterMACPromotionOnConfigPush(t *testing.T) {
	mac := []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}
	link := radio.NewGatewayLink(fixedClock(time.Unix(1000, 0)))
	driver := stub.New()
	up := &fakeUplink{connected: true}
	nodeCfgs := store.NewNodeConfigStore(t.TempDir() + "/nodecfg.yaml")
	r := NewRouter(link, driver, nodeCfgs, spool.New(), up, fixedClock(time.Unix(1000, 0)), nil)

	hello, err := wire.EncodeHello(wire.HelloFrame{Header: wire.Header{Kind: wire.KindHello, NodeID: 0}, Capabilities: 0x000F})
	require.NoError(t, err)
	link.Deliver(0, mac, -50, hello)

	r.Step()
	require.Len(t, up.sent, 1)
	assert.Equal(t, uplink.TagHello, up.sent[0][0])

	cfgFrame := encodeConfigFrame(t, 5)
	down := append([]byte{uplink.TagConfig, 5}, cfgFrame...)
	up.PushDown(down)

	r.Step()

	sent := driver.SentLog()
	require.Len(t, sent, 2) // handshake rescue, then config
	assert.Equal(t, mac, sent[0].Dest)
	assert.Equal(t, mac, sent[1].Dest)

	hs, err := wire.DecodeHandshake(sent[0].Data)
	require.NoError(t, err)
	assert.Equal(t, uint8(5), hs.Header.NodeID)

	cfg, err := wire.DecodeConfig(sent[1].Data)
	require.NoError(t, err)
	assert.Equal(t, uint8(5), cfg.Header.NodeID)
	assert.Equal(t, uint16(5), cfg.SleepSeconds)

	saved, ok := nodeCfgs.Load(5)
	require.True(t, ok)
	assert.Equal(t, uint16(5), saved.SleepSeconds)

	gotMAC, known := link.NodeMAC(5)
	require.True(t, known)
	assert.Equal(t, mac, gotMAC)
}

// Scenario 6: telemetry arriving while the uplink is disconnected is
// spooled, and drains in FIFO order once the uplink reconnects.
func TestRouterSpoolsTelemetryThenDrainsOnReconnect(t *testing.T) {
	link := radio.NewGatewayLink(fixedClock(time.Unix(2000, 0)))
	driver := stub.New()
	up := &fakeUplink{connected: false}
	r := NewRouter(link, driver, nil, spool.New(), up, fixedClock(time.Unix(2000, 0)), nil)

	for cycle := uint8(0); cycle < 3; cycle++ {
		telem, err := wire.EncodeTelemetry(wire.TelemetryFrame{
			Header: wire.Header{Kind: wire.KindTelemetry, NodeID: 5},
			Cycle:  uint32(cycle),
		})
		require.NoError(t, err)
		link.Deliver(5, []byte{1, 2, 3, 4, 5, 6}, -40, telem)
	}

	r.Step()
	assert.Empty(t, up.sent)
	assert.True(t, r.Spool.HasPending())

	up.connected = true
	r.Step()

	require.Len(t, up.sent, 3)
	for i, frame := range up.sent {
		assert.Equal(t, uplink.TagTelemetry, frame[0])
		payload := frame[7:]
		cfg, err := wire.DecodeTelemetry(payload)
		require.NoError(t, err)
		assert.Equal(t, uint32(i), cfg.Cycle)
	}
	assert.False(t, r.Spool.HasPending())
}

// A telemetry frame with a mismatched length never reaches the uplink or
// the spool.
func TestRouterDropsUndersizedTelemetry(t *testing.T) {
	link := radio.NewGatewayLink(fixedClock(time.Unix(3000, 0)))
	driver := stub.New()
	up := &fakeUplink{connected: true}
	r := NewRouter(link, driver, nil, spool.New(), up, fixedClock(time.Unix(3000, 0)), nil)

	link.Deliver(5, []byte{1, 2, 3, 4, 5, 6}, -40, []byte{byte(wire.KindTelemetry), 5, 0, 1, 1, 0, 0})

	r.Step()
	assert.Empty(t, up.sent)
	assert.False(t, r.Spool.HasPending())
}

// DEBUG frames are consumed silently: they never reach the uplink.
func TestRouterConsumesDebugSilently(t *testing.T) {
	link := radio.NewGatewayLink(fixedClock(time.Unix(4000, 0)))
	driver := stub.New()
	up := &fakeUplink{connected: true}
	r := NewRouter(link, driver, nil, spool.New(), up, fixedClock(time.Unix(4000, 0)), nil)

	debug, err := wire.EncodeDebug(wire.DebugFrame{Header: wire.Header{Kind: wire.KindDebug, NodeID: 5}})
	require.NoError(t, err)
	link.Deliver(5, []byte{1, 2, 3, 4, 5, 6}, -40, debug)

	r.Step()
	assert.Empty(t, up.sent)
}
