// Package store implements the namespaced key/value persistence the RSN
// and TGW use for runtime status and configuration: load/save with
// sanitization on read, so a corrupt or missing key never produces an
// out-of-range operating parameter.
package store

import "fmt"

// Default values substituted by Sanitize when a loaded config field is
// zero (the firmware's own "unset" sentinel) or out of range.
const (
	DefaultSleepSeconds     = 3
	MaxSleepSeconds         = 36000
	DefaultPowerUpMs        = 100
	DefaultSettleMs         = 150
	DefaultSampleIntervalMs = 50
	DefaultLostRXLimit      = 3
)

// Status is the RSN's persisted runtime state: everything that must
// survive a deep-sleep reboot besides the config itself.
type Status struct {
	NodeID           uint8
	ConfigValid      bool
	DebugMode        bool
	LowBattFlag      bool
	LostRXFlag       bool
	WaitingHandshake bool
	WaitingConfig    bool
	LastResetCause   uint8
	RXFailed         uint32
	CycleCount       uint32
}

// RSNConfig is the RSN's persisted operating configuration, as pushed down
// by the gateway in a CONFIG frame.
type RSNConfig struct {
	SleepSeconds     uint16
	PowerUpMs        uint16
	SettleMs         uint16
	SampleIntervalMs uint16
	LEDMode          uint8
	BattBucket       uint8
	LostRXLimit      uint8
	DebugMode        uint8
	ResetFlags       uint8
}

// Sanitize enforces the load-time bounds documented in the wire config
// payload: sleep_seconds is clamped into [1, MaxSleepSeconds]; the other
// zero-able fields fall back to their defaults.
func Sanitize(c RSNConfig) RSNConfig {
	if c.SleepSeconds == 0 {
		c.SleepSeconds = DefaultSleepSeconds
	}
	if c.SleepSeconds > MaxSleepSeconds {
		c.SleepSeconds = MaxSleepSeconds
	}
	if c.LostRXLimit == 0 {
		c.LostRXLimit = DefaultLostRXLimit
	}
	if c.PowerUpMs == 0 {
		c.PowerUpMs = DefaultPowerUpMs
	}
	if c.SettleMs == 0 {
		c.SettleMs = DefaultSettleMs
	}
	if c.SampleIntervalMs == 0 {
		c.SampleIntervalMs = DefaultSampleIntervalMs
	}
	return c
}

// Backend is satisfied by anything that can hold the two RSN namespaces
// durably (or, for tests, in memory). All operations are per-key
// transactional: a failed write never corrupts a previously stored value.
type Backend interface {
	LoadStatus() (Status, error)
	SaveStatus(Status) error
	LoadConfig() (RSNConfig, error)
	SaveConfig(RSNConfig) error
}

// NodeConfigKey formats the zero-padded per-node key used by the gateway's
// namespace (tgw_cfg/cfgNN).
func NodeConfigKey(nodeID uint8) string {
	return fmt.Sprintf("cfg%02d", nodeID)
}
