// Package rsn implements the remote sensor node's duty-cycled state
// machine: boot, pairing, measurement, transmit/receive, config
// application, and the low-power paths (lost RX, low battery, sleep).
// One Step call advances the machine by exactly one state, mirroring the
// firmware's single dispatch-per-loop-iteration structure.
package rsn

// State enumerates the node's operating states.
type State uint8

const (
	StateBoot State = iota
	StateCheckConfig
	StatePairingHello
	StatePairingWaitHandshake
	StateRunningMeasure
	StateRunningTX
	StateRunningRX
	StateRunningConfig
	StateLostRX
	StateLowBatt
	StateDebugLoop
	StateSleep
)

// Reset cause codes captured at construction time and folded into the
// next TELEMETRY's flags. Real hardware builds derive this from the
// platform's reset-reason register; host builds pass ResetNormal.
const (
	ResetNormal uint8 = iota
	ResetWatchdog
	ResetBrownout
)
