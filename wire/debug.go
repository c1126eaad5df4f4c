package wire

import "encoding/binary"

// NumSoilRawSlots is the fixed capacity of the raw soil sample array
// carried by a DEBUG frame, regardless of how many samples were actually
// taken during the burst.
const NumSoilRawSlots = 16

// DebugFrame carries the raw (pre-statistics) soil ADC samples from the
// most recent burst, plus the cumulative RX failure counter. Only emitted
// when the node is running in debug mode.
type DebugFrame struct {
	Header        Header
	RXFailedCount uint16
	NumSoilRaw    uint8
	SoilRaw       [NumSoilRawSlots]uint16
}

func EncodeDebug(f DebugFrame) ([]byte, error) {
	if DebugSize > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}
	data := make([]byte, DebugSize)
	putHeader(data, f.Header)
	off := HeaderSize
	binary.LittleEndian.PutUint16(data[off:], f.RXFailedCount)
	off += 2
	data[off] = f.NumSoilRaw
	off++
	for i := 0; i < NumSoilRawSlots; i++ {
		binary.LittleEndian.PutUint16(data[off:], f.SoilRaw[i])
		off += 2
	}
	return data, nil
}

func DecodeDebug(data []byte) (DebugFrame, error) {
	if len(data) < DebugSize {
		return DebugFrame{}, ErrTooShort
	}
	f := DebugFrame{Header: getHeader(data)}
	off := HeaderSize
	f.RXFailedCount = binary.LittleEndian.Uint16(data[off:])
	off += 2
	f.NumSoilRaw = data[off]
	off++
	for i := 0; i < NumSoilRawSlots; i++ {
		f.SoilRaw[i] = binary.LittleEndian.Uint16(data[off:])
		off += 2
	}
	return f, nil
}
