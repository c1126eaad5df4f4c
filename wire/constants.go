// Package wire implements bit-exact encoding and decoding of the RSN/TGW
// radio frames: a common 5-byte header plus one payload per packet kind.
// All multi-byte integers are little-endian; there is no padding.
package wire

// Kind identifies the payload carried after the Header.
type Kind uint8

const (
	KindHello      Kind = 0x01
	KindHandshake  Kind = 0x02
	KindTelemetry  Kind = 0x03
	KindConfig     Kind = 0x04
	KindConfigAck  Kind = 0x05
	KindDebug      Kind = 0x06
)

// NodeIDUnassigned is the header node_id value before pairing completes.
const NodeIDUnassigned uint8 = 0

// Mode mirrors rsn_mode_t: the logical mode carried in every header.
type Mode uint8

const (
	ModeRunning Mode = 0
	ModePairing Mode = 1
	ModeDebug   Mode = 2
)

// Capability bits carried in the HELLO payload.
const (
	CapSoil Capabilities = 1 << 0
	CapVbat Capabilities = 1 << 1
	CapNTC  Capabilities = 1 << 2
	CapRGB  Capabilities = 1 << 3
)

type Capabilities uint16

// Telemetry flag bits.
const (
	TelemFlagLowBatt       TelemFlags = 1 << 0
	TelemFlagLostRX        TelemFlags = 1 << 1
	TelemFlagDebug         TelemFlags = 1 << 2
	TelemFlagWatchdogReset TelemFlags = 1 << 3
	TelemFlagBrownoutReset TelemFlags = 1 << 4
	TelemFlagFirstBoot     TelemFlags = 1 << 5
)

type TelemFlags uint8

// HeaderSize is the fixed 5-byte common header prepended to every frame.
const HeaderSize = 5

// MaxFrameSize bounds any encoded frame, header included.
const MaxFrameSize = 128

// Fixed sizes of each kind's full frame (header + payload), used by Decode
// to validate a buffer before interpreting its contents.
const (
	HelloSize     = HeaderSize + 2  // capabilities:u16
	HandshakeSize = HeaderSize      // header only
	ConfigSize    = HeaderSize + 13 // see ConfigFrame
	ConfigAckSize = HeaderSize + 1  // status:u8
	// TelemetrySize: cycle(4)+ts(4)+batt(1)+flags(1)+3*5 u16 stats(30)+rssi(1) = 41
	TelemetrySize = HeaderSize + 41
	// DebugSize: rx_failed(2) + num_soil_raw(1) + 16 raw u16 samples(32) = 35
	DebugSize = HeaderSize + 2 + 1 + 2*16
)

// BatteryBucket mirrors rsn_batt_status_t.
type BatteryBucket uint8

const (
	BatteryLow  BatteryBucket = 0
	BatteryMed  BatteryBucket = 1
	BatteryHigh BatteryBucket = 2
)
