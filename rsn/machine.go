package rsn

import (
	"time"

	"go.uber.org/zap"

	"github.com/fieldsensor/rsntgw/measure"
	"github.com/fieldsensor/rsntgw/radio"
	"github.com/fieldsensor/rsntgw/store"
	"github.com/fieldsensor/rsntgw/wire"
)

// HWVersion and FWVersion are stamped into every outgoing header.
const (
	HWVersion uint8 = 1
	FWVersion uint8 = 1
)

const (
	pairingWaitTimeout = 4 * time.Second
	rxWaitTimeout      = 4 * time.Second
	maxPairingAttempts = 3

	capabilities = wire.CapSoil | wire.CapVbat | wire.CapNTC | wire.CapRGB
)

// Clock abstracts time.Now so state timers and timestamps are
// deterministic in tests.
type Clock func() time.Time

// SleepFunc is invoked with the computed sleep duration whenever the
// machine enters Sleep. A real device build suspends the caller for real
// (deep sleep); a host simulation can fast-forward a fake clock instead.
type SleepFunc func(time.Duration)

// Machine is the RSN state machine.
type Machine struct {
	Backend  store.Backend
	Link     *radio.RSNLink
	Channels measure.Channels
	Sleeper  measure.Sleeper
	SleepFn  SleepFunc
	Clock    Clock
	Log      *zap.Logger

	status store.Status
	config store.RSNConfig
	mode   wire.Mode

	state        State
	prevState    State
	stateEnterAt time.Time
	bootAt       time.Time

	pairingAttempts uint8
	lastTxOK        bool
	logDebugEnabled bool

	telem       wire.TelemetryFrame
	lastSoilRaw []uint16
}

// NewMachine loads persisted status and config from backend and returns a
// machine parked in StateBoot, ready for its first Step call.
func NewMachine(backend store.Backend, link *radio.RSNLink, channels measure.Channels, sleeper measure.Sleeper, sleepFn SleepFunc, clock Clock, resetCause uint8, log *zap.Logger) (*Machine, error) {
	status, err := backend.LoadStatus()
	if err != nil {
		return nil, err
	}
	cfg, err := backend.LoadConfig()
	if err != nil {
		return nil, err
	}
	if clock == nil {
		clock = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	status.LastResetCause = resetCause

	m := &Machine{
		Backend:  backend,
		Link:     link,
		Channels: channels,
		Sleeper:  sleeper,
		SleepFn:  sleepFn,
		Clock:    clock,
		Log:      log,
		status:    status,
		config:    cfg,
		state:     StateBoot,
		prevState: StateBoot,
	}
	m.bootAt = clock()
	m.stateEnterAt = m.bootAt
	m.bootInit()
	return m, nil
}

// bootInit mirrors rsn_init's mode/log-level derivation, run once at
// construction and again on every simulated wake from deep sleep.
func (m *Machine) bootInit() {
	m.logDebugEnabled = m.status.DebugMode || m.config.DebugMode != 0 || m.logDebugEnabled
	if m.status.DebugMode {
		m.mode = wire.ModeDebug
	} else {
		m.mode = wire.ModeRunning
	}
	m.pairingAttempts = 0
}

// State returns the machine's current state.
func (m *Machine) State() State { return m.state }

// Status returns a copy of the persisted runtime status.
func (m *Machine) Status() store.Status { return m.status }

// Config returns a copy of the current operating config.
func (m *Machine) Config() store.RSNConfig { return m.config }

// Step advances the machine by exactly one state and returns the state it
// lands in.
func (m *Machine) Step() State {
	if m.state != m.prevState {
		m.prevState = m.state
		m.stateEnterAt = m.Clock()
	}

	var next State
	switch m.state {
	case StateBoot:
		next = m.stepBoot()
	case StateCheckConfig:
		next = m.stepCheckConfig()
	case StatePairingHello:
		next = m.stepPairingHello()
	case StatePairingWaitHandshake:
		next = m.stepPairingWaitHandshake()
	case StateRunningMeasure:
		next = m.stepRunningMeasure()
	case StateRunningTX:
		next = m.stepRunningTX()
	case StateRunningRX:
		next = m.stepRunningRX()
	case StateRunningConfig:
		next = m.stepRunningConfig()
	case StateLostRX:
		next = m.stepLostRX()
	case StateLowBatt:
		next = m.stepLowBatt()
	case StateDebugLoop:
		next = m.stepDebugLoop()
	case StateSleep:
		next = m.stepSleep()
	default:
		next = m.state
	}
	m.state = next
	return m.state
}

func (m *Machine) header(kind wire.Kind) wire.Header {
	return wire.Header{
		Kind:      kind,
		NodeID:    m.status.NodeID,
		Mode:      m.mode,
		HWVersion: HWVersion,
		FWVersion: FWVersion,
	}
}

func (m *Machine) elapsedInState() time.Duration {
	return m.Clock().Sub(m.stateEnterAt)
}

func (m *Machine) saveStatus() {
	if err := m.Backend.SaveStatus(m.status); err != nil {
		m.Log.Warn("save status failed", zap.Error(err))
	}
}

func (m *Machine) saveConfig() {
	if err := m.Backend.SaveConfig(m.config); err != nil {
		m.Log.Warn("save config failed", zap.Error(err))
	}
}

func (m *Machine) logDebug(msg string, fields ...zap.Field) {
	if !m.logDebugEnabled {
		return
	}
	m.Log.Debug(msg, fields...)
}
