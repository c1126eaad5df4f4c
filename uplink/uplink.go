// Package uplink implements the length-prefixed serial framing between the
// gateway and its host: [length-LSB][length-MSB][payload...], where
// payload byte 0 is an uplink tag identifying what follows.
package uplink

import "encoding/binary"

// Upward tags: frames the gateway sends to the host.
const (
	TagHello     byte = 0xA1
	TagTelemetry byte = 0xA2
	TagConfigAck byte = 0xA3
)

// Downward tags: frames the host sends to the gateway.
const (
	TagConfig    byte = 0xB1
	TagHandshake byte = 0xB2
)

// Encode prepends the 2-byte little-endian length prefix to payload.
func Encode(payload []byte) []byte {
	out := make([]byte, 2+len(payload))
	binary.LittleEndian.PutUint16(out[0:2], uint16(len(payload)))
	copy(out[2:], payload)
	return out
}

// PackUpward builds an upward payload: tag, node_id, RSSI (as the raw
// two's-complement byte), an optional 4-byte little-endian local
// timestamp (telemetry only), then the verbatim radio frame.
func PackUpward(tag byte, nodeID uint8, rssi int8, localTimestampMs uint32, radioFrame []byte) []byte {
	hasTimestamp := tag == TagTelemetry
	size := 3 + len(radioFrame)
	if hasTimestamp {
		size += 4
	}
	buf := make([]byte, size)
	buf[0] = tag
	buf[1] = nodeID
	buf[2] = byte(rssi)
	idx := 3
	if hasTimestamp {
		binary.LittleEndian.PutUint32(buf[idx:], localTimestampMs)
		idx += 4
	}
	copy(buf[idx:], radioFrame)
	return buf
}
