package rsn

import (
	"time"

	"go.uber.org/zap"

	"github.com/fieldsensor/rsntgw/measure"
	"github.com/fieldsensor/rsntgw/store"
	"github.com/fieldsensor/rsntgw/wire"
)

// runMeasurementCycle runs one full soil/vbat/ntc burst, folds the result
// into m.telem and bumps the cycle counter. It does not transmit; callers
// decide whether that happens via Running_TX or inline (Debug_Loop).
func (m *Machine) runMeasurementCycle() {
	powerUpMs := m.config.PowerUpMs
	if powerUpMs == 0 {
		powerUpMs = store.DefaultPowerUpMs
	}
	settleMs := m.config.SettleMs
	if settleMs == 0 {
		settleMs = store.DefaultSettleMs
	}
	sampleIntervalMs := m.config.SampleIntervalMs
	if sampleIntervalMs == 0 {
		sampleIntervalMs = store.DefaultSampleIntervalMs
	}

	m.Sleeper.Sleep(time.Duration(powerUpMs) * time.Millisecond)
	result := measure.RunAll(m.Channels, m.Sleeper, measure.DefaultSamples, settleMs, sampleIntervalMs)

	m.status.LowBattFlag = m.config.BattBucket == uint8(wire.BatteryLow)

	m.telem = wire.TelemetryFrame{
		Header:        m.header(wire.KindTelemetry),
		Cycle:         m.status.CycleCount,
		TimestampMs:   uint32(m.Clock().Sub(m.bootAt).Milliseconds()),
		BatteryBucket: wire.BatteryBucket(m.config.BattBucket),
		Flags:         m.populateTelemFlags(),
		Soil:          result.Soil,
		Vbat:          result.Vbat,
		NTC:           result.NTC,
		LastRSSI:      0x7F,
	}
	m.lastSoilRaw = result.SoilRaw
	m.status.CycleCount++

	m.logDebug("measurement",
		zap.Uint16("soil_mean", result.Soil.Mean),
		zap.Uint16("soil_median", result.Soil.Median),
		zap.Uint16("vbat_mean", result.Vbat.Mean),
		zap.Uint16("ntc_mean", result.NTC.Mean),
	)
}

// populateTelemFlags folds the node's current condition into the
// telemetry flag bitmask.
func (m *Machine) populateTelemFlags() wire.TelemFlags {
	var f wire.TelemFlags
	if m.status.LowBattFlag {
		f |= wire.TelemFlagLowBatt
	}
	if m.status.LostRXFlag {
		f |= wire.TelemFlagLostRX
	}
	if m.status.DebugMode {
		f |= wire.TelemFlagDebug
	}
	switch m.status.LastResetCause {
	case ResetWatchdog:
		f |= wire.TelemFlagWatchdogReset
	case ResetBrownout:
		f |= wire.TelemFlagBrownoutReset
	}
	if m.status.CycleCount == 0 {
		f |= wire.TelemFlagFirstBoot
	}
	return f
}

// buildDebugFrame packs the most recent burst's raw soil samples into a
// DEBUG frame, padding unused slots with zero.
func (m *Machine) buildDebugFrame() wire.DebugFrame {
	f := wire.DebugFrame{
		Header:        m.header(wire.KindDebug),
		RXFailedCount: uint16(m.status.RXFailed),
	}
	n := len(m.lastSoilRaw)
	if n > wire.NumSoilRawSlots {
		n = wire.NumSoilRawSlots
	}
	f.NumSoilRaw = uint8(n)
	copy(f.SoilRaw[:n], m.lastSoilRaw)
	return f
}
