package rsn

import (
	"go.uber.org/zap"

	"github.com/fieldsensor/rsntgw/store"
	"github.com/fieldsensor/rsntgw/wire"
)

func (m *Machine) stepBoot() State {
	m.logDebug("entering boot")
	return StateCheckConfig
}

func (m *Machine) stepCheckConfig() State {
	if m.status.ConfigValid && m.status.NodeID != wire.NodeIDUnassigned {
		if m.status.DebugMode {
			m.mode = wire.ModeDebug
		} else {
			m.mode = wire.ModeRunning
		}
		m.logDebug("valid config", zap.Uint8("node_id", m.status.NodeID), zap.Bool("debug_mode", m.status.DebugMode))
		if m.status.DebugMode {
			return StateDebugLoop
		}
		return StateRunningMeasure
	}

	m.mode = wire.ModePairing
	m.status.WaitingHandshake = true
	m.status.WaitingConfig = true
	m.logDebug("config invalid, entering pairing")
	return StatePairingHello
}

func (m *Machine) stepPairingHello() State {
	m.pairingAttempts++
	hello := wire.HelloFrame{Header: m.header(wire.KindHello), Capabilities: capabilities}
	data, err := wire.EncodeHello(hello)
	ok := false
	if err == nil {
		ok = m.Link.SendBroadcast(data)
	}
	m.logDebug("hello sent", zap.Bool("ok", ok), zap.Uint8("attempt", m.pairingAttempts))
	return StatePairingWaitHandshake
}

func (m *Machine) stepPairingWaitHandshake() State {
	if data, ok := m.Link.TryReceiveKind(wire.KindHandshake); ok {
		if hdr, err := wire.Validate(data); err == nil && hdr.Kind == wire.KindHandshake {
			if hs, err := wire.DecodeHandshake(data); err == nil {
				m.status.NodeID = hs.Header.NodeID
				m.status.WaitingHandshake = false
				m.status.WaitingConfig = true
				m.status.RXFailed = 0
				m.pairingAttempts = 0
				m.lastTxOK = true
				m.saveStatus()
				m.logDebug("handshake accepted", zap.Uint8("node_id", m.status.NodeID))
				return StateRunningRX
			}
		}
	}

	if m.elapsedInState() > pairingWaitTimeout {
		if m.pairingAttempts < maxPairingAttempts {
			m.logDebug("pairing wait timeout, retrying hello", zap.Uint8("attempt", m.pairingAttempts))
			return StatePairingHello
		}
		m.logDebug("pairing wait timeout, giving up for this cycle")
		return StateSleep
	}
	return StatePairingWaitHandshake
}

func (m *Machine) stepRunningMeasure() State {
	m.runMeasurementCycle()
	return StateRunningTX
}

func (m *Machine) stepRunningTX() State {
	ok := false
	if data, err := wire.EncodeTelemetry(m.telem); err == nil {
		ok = m.Link.Send(data)
	}
	m.lastTxOK = ok
	m.logDebug("telemetry sent", zap.Bool("ok", ok))
	return StateRunningRX
}

func (m *Machine) stepRunningRX() State {
	m.lastTxOK = m.Link.LastSendOK()

	if data, ok := m.Link.TryReceiveKind(wire.KindConfig); ok {
		if hdr, err := wire.Validate(data); err == nil && hdr.Kind == wire.KindConfig {
			if cfg, err := wire.DecodeConfig(data); err == nil {
				m.applyConfig(cfg)
				m.logDebug("config received")
				return StateRunningConfig
			}
		}
	}

	if m.status.WaitingConfig && m.elapsedInState() > rxWaitTimeout {
		m.logDebug("waiting-config timeout, sleeping")
		return StateSleep
	}

	if !m.lastTxOK {
		m.status.RXFailed++
		m.logDebug("tx failure", zap.Uint32("rx_failed", m.status.RXFailed))
		if m.config.LostRXLimit > 0 && uint32(m.config.LostRXLimit) <= m.status.RXFailed {
			return StateLostRX
		}
		if m.status.LowBattFlag {
			return StateLowBatt
		}
		return StateSleep
	}

	m.status.RXFailed = 0
	m.status.LostRXFlag = false
	if m.status.LowBattFlag {
		return StateLowBatt
	}
	return StateSleep
}

// applyConfig copies a received CONFIG payload field-by-field into the
// in-memory config, rescuing the node_id from the header when a
// handshake was lost. Sanitization happens on the next load, not here —
// matching the firmware's split between apply-time and load-time.
func (m *Machine) applyConfig(cfg wire.ConfigFrame) {
	if cfg.Header.NodeID != wire.NodeIDUnassigned && cfg.Header.NodeID != m.status.NodeID {
		m.status.NodeID = cfg.Header.NodeID
		m.status.WaitingHandshake = false
	}
	m.config = store.RSNConfig{
		SleepSeconds:     cfg.SleepSeconds,
		PowerUpMs:        cfg.PowerUpMs,
		SettleMs:         cfg.SettleMs,
		SampleIntervalMs: cfg.SampleIntervalMs,
		LEDMode:          cfg.LEDMode,
		BattBucket:       uint8(cfg.BatteryBucket),
		LostRXLimit:      cfg.LostRXLimit,
		DebugMode:        cfg.DebugMode,
		ResetFlags:       cfg.ResetFlags,
	}
}

func (m *Machine) stepRunningConfig() State {
	m.status.ConfigValid = true
	m.status.WaitingConfig = false
	m.status.DebugMode = m.config.DebugMode != 0
	m.status.LowBattFlag = m.config.BattBucket == uint8(wire.BatteryLow)
	if m.status.DebugMode {
		m.mode = wire.ModeDebug
	} else {
		m.mode = wire.ModeRunning
	}
	m.logDebugEnabled = m.status.DebugMode || m.config.DebugMode != 0 || m.logDebugEnabled

	m.saveConfig()
	m.saveStatus()

	m.logDebug("config applied",
		zap.Uint16("sleep_s", m.config.SleepSeconds),
		zap.Uint16("settle_ms", m.config.SettleMs),
		zap.Bool("debug_mode", m.status.DebugMode),
	)

	ack := wire.ConfigAckFrame{Header: m.header(wire.KindConfigAck), Status: 0}
	if data, err := wire.EncodeConfigAck(ack); err == nil {
		m.Link.Send(data)
	}

	if m.status.DebugMode {
		return StateDebugLoop
	}
	return StateRunningMeasure
}

func (m *Machine) stepLostRX() State {
	m.status.LostRXFlag = true
	m.logDebug("lost rx", zap.Uint32("rx_failed", m.status.RXFailed), zap.Uint8("limit", m.config.LostRXLimit))

	if m.config.LostRXLimit > 0 && uint32(m.config.LostRXLimit) <= m.status.RXFailed {
		m.status.ConfigValid = false
		m.status.NodeID = wire.NodeIDUnassigned
		m.status.WaitingHandshake = true
		m.status.RXFailed = 0
		m.logDebug("returning to pairing")
		return StatePairingHello
	}
	return StateSleep
}

func (m *Machine) stepLowBatt() State {
	m.logDebug("low battery")
	return StateSleep
}

func (m *Machine) stepDebugLoop() State {
	interval := m.config.SampleIntervalMs
	if interval == 0 {
		interval = store.DefaultSampleIntervalMs
	}
	if m.elapsedInState() >= durationMs(interval) {
		m.runMeasurementCycle()
		if data, err := wire.EncodeTelemetry(m.telem); err == nil {
			m.Link.Send(data)
		}
		if data, err := wire.EncodeDebug(m.buildDebugFrame()); err == nil {
			m.Link.Send(data)
		}
		m.stateEnterAt = m.Clock()
		m.logDebug("debug cycle: measurement + telemetry + debug sent")
	}
	return StateDebugLoop
}

func (m *Machine) stepSleep() State {
	sleepSeconds := uint32(m.config.SleepSeconds)
	if sleepSeconds == 0 {
		sleepSeconds = store.DefaultSleepSeconds
	}
	if m.status.LowBattFlag {
		sleepSeconds = sleepSeconds * 13 / 10 // +30% on low battery
	}
	if m.status.LostRXFlag {
		sleepSeconds += sleepSeconds / 2 // extend sleep while trying to recover
	}
	m.logDebug("sleeping",
		zap.Uint32("sleep_s", sleepSeconds),
		zap.Bool("low_batt", m.status.LowBattFlag),
		zap.Bool("lost_rx", m.status.LostRXFlag),
	)
	m.saveStatus()
	if m.SleepFn != nil {
		m.SleepFn(durationSeconds(sleepSeconds))
	}

	// A real device's deep sleep ends in a hardware reboot that re-enters
	// rsn_init; a duty cycle here is the same machine resuming at Boot.
	m.bootInit()
	return StateBoot
}
