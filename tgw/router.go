// Package tgw implements the gateway's packet router: the three-phase
// step loop that drains inbound radio frames toward the host uplink (or
// the spool, while it's disconnected), and drains downward uplink frames
// toward paired nodes — including the best-effort HANDSHAKE rescue sent
// ahead of every CONFIG.
package tgw

import (
	"time"

	"go.uber.org/zap"

	"github.com/fieldsensor/rsntgw/radio"
	"github.com/fieldsensor/rsntgw/spool"
	"github.com/fieldsensor/rsntgw/store"
	"github.com/fieldsensor/rsntgw/uplink"
	"github.com/fieldsensor/rsntgw/wire"
)

// HWVersion and FWVersion are stamped into every CONFIG/HANDSHAKE the
// router re-builds on the node's behalf.
const (
	HWVersion uint8 = 1
	FWVersion uint8 = 1
)

// Uplink is the host-facing side of the router: frames queued with Send
// reach the host if connected, PollDown drains whatever the host sent
// down, and IsConnected gates spool flushing.
type Uplink interface {
	Send(frame []byte) bool
	PollDown() ([]byte, bool)
	IsConnected() bool
}

// Clock abstracts time.Now so telemetry local timestamps are
// deterministic in tests.
type Clock func() time.Time

// Router is the gateway's packet router, wired to a radio link, a
// per-node config store, a telemetry spool and the host uplink.
type Router struct {
	Link     *radio.GatewayLink
	Driver   radio.Driver
	NodeCfgs *store.NodeConfigStore
	Spool    *spool.Spool
	Uplink   Uplink
	Clock    Clock
	Log      *zap.Logger

	helloCount uint32
	telemCount uint32
	bootAt     time.Time
}

// NewRouter wires a router ready for Step. clock defaults to time.Now
// and log to a no-op logger when nil.
func NewRouter(link *radio.GatewayLink, driver radio.Driver, nodeCfgs *store.NodeConfigStore, sp *spool.Spool, up Uplink, clock Clock, log *zap.Logger) *Router {
	if clock == nil {
		clock = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{
		Link: link, Driver: driver, NodeCfgs: nodeCfgs, Spool: sp, Uplink: up, Clock: clock, Log: log,
		bootAt: clock(),
	}
}

func (r *Router) millis() uint32 {
	return uint32(r.Clock().Sub(r.bootAt).Milliseconds())
}

// Step runs one full router cycle: drain pending radio frames, drain
// pending uplink frames, then flush whatever telemetry is spooled.
func (r *Router) Step() {
	r.handleRadioFrames()
	r.handleUplinkFrames()
	r.flushSpool()
}

func (r *Router) handleRadioFrames() {
	for {
		entry, ok := r.Link.Poll()
		if !ok {
			return
		}
		hdr, err := wire.Validate(entry.Data)
		if err != nil {
			continue
		}
		switch hdr.Kind {
		case wire.KindHello:
			r.helloCount++
			r.Log.Debug("hello", zap.Uint8("node_id", entry.NodeID), zap.Int8("rssi", entry.RSSI))
			r.Uplink.Send(uplink.PackUpward(uplink.TagHello, entry.NodeID, entry.RSSI, 0, entry.Data))
		case wire.KindTelemetry:
			if len(entry.Data) != wire.TelemetrySize {
				r.Log.Warn("dropping telemetry with size mismatch", zap.Int("len", len(entry.Data)))
				continue
			}
			r.telemCount++
			item := spool.Item{
				NodeID:      entry.NodeID,
				RSSI:        entry.RSSI,
				TimestampMs: r.millis(),
				Frame:       append([]byte(nil), entry.Data...),
			}
			if r.Uplink.IsConnected() {
				r.pushTelem(item)
			} else if !r.Spool.Push(item) {
				r.Log.Warn("telemetry spool full; dropping newest item", zap.Uint8("node_id", entry.NodeID))
			}
		case wire.KindConfigAck:
			r.Log.Debug("config ack", zap.Uint8("node_id", entry.NodeID))
			r.Uplink.Send(uplink.PackUpward(uplink.TagConfigAck, entry.NodeID, entry.RSSI, 0, entry.Data))
		case wire.KindDebug:
			// consumed silently
		}
	}
}

// pushTelem sends a spooled or just-arrived telemetry item upward,
// requeuing it in the spool if the uplink rejects the send.
func (r *Router) pushTelem(item spool.Item) {
	frame := uplink.PackUpward(uplink.TagTelemetry, item.NodeID, item.RSSI, item.TimestampMs, item.Frame)
	if !r.Uplink.Send(frame) {
		if !r.Spool.Push(item) {
			r.Log.Warn("failed to requeue telemetry after uplink error", zap.Uint8("node_id", item.NodeID))
		}
	}
}

func (r *Router) handleUplinkFrames() {
	for {
		buf, ok := r.Uplink.PollDown()
		if !ok {
			return
		}
		if len(buf) < 1 {
			continue
		}
		switch buf[0] {
		case uplink.TagConfig:
			r.handleDownConfig(buf)
		case uplink.TagHandshake:
			r.handleDownHandshake(buf)
		}
	}
}

// handleDownConfig re-stamps the host-supplied CONFIG payload with a
// router-owned header, persists it per-node, sends a best-effort
// HANDSHAKE ahead of it (rescuing a node still stuck in pairing), then
// delivers the CONFIG itself.
func (r *Router) handleDownConfig(buf []byte) {
	if len(buf) < 2+wire.ConfigSize {
		return
	}
	nodeID := buf[1]
	cfg, err := wire.DecodeConfig(buf[2:])
	if err != nil {
		return
	}
	cfg.Header = wire.Header{Kind: wire.KindConfig, NodeID: nodeID, Mode: wire.ModeRunning, HWVersion: HWVersion, FWVersion: FWVersion}

	r.sendHandshake(nodeID)

	if r.NodeCfgs != nil {
		rc := store.RSNConfig{
			SleepSeconds: cfg.SleepSeconds, PowerUpMs: cfg.PowerUpMs, SettleMs: cfg.SettleMs,
			SampleIntervalMs: cfg.SampleIntervalMs, LEDMode: cfg.LEDMode, BattBucket: uint8(cfg.BatteryBucket),
			LostRXLimit: cfg.LostRXLimit, DebugMode: cfg.DebugMode, ResetFlags: cfg.ResetFlags,
		}
		if err := r.NodeCfgs.Save(nodeID, rc); err != nil {
			r.Log.Warn("save node config failed", zap.Uint8("node_id", nodeID), zap.Error(err))
		}
	}

	data, err := wire.EncodeConfig(cfg)
	if err != nil {
		return
	}
	ok := r.Link.SendToNode(r.Driver, nodeID, data)
	r.Log.Debug("config sent", zap.Uint8("node_id", nodeID), zap.Bool("ok", ok))
}

// handleDownHandshake forwards a host-initiated HANDSHAKE directly,
// re-stamping its header the same way handleDownConfig does.
func (r *Router) handleDownHandshake(buf []byte) {
	if len(buf) < 2 {
		return
	}
	nodeID := buf[1]
	r.sendHandshake(nodeID)
}

func (r *Router) sendHandshake(nodeID uint8) bool {
	hs := wire.HandshakeFrame{Header: wire.Header{Kind: wire.KindHandshake, NodeID: nodeID, Mode: wire.ModeRunning, HWVersion: HWVersion, FWVersion: FWVersion}}
	data, err := wire.EncodeHandshake(hs)
	if err != nil {
		return false
	}
	ok := r.Link.SendToNode(r.Driver, nodeID, data)
	r.Log.Debug("handshake sent", zap.Uint8("node_id", nodeID), zap.Bool("ok", ok))
	return ok
}

func (r *Router) flushSpool() {
	if !r.Uplink.IsConnected() {
		return
	}
	for r.Spool.HasPending() {
		item, ok := r.Spool.Pop()
		if !ok {
			break
		}
		r.pushTelem(item)
	}
}
