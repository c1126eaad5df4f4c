package wire

import "encoding/binary"

// ConfigFrame carries operating parameters pushed by the gateway down to a
// node. Its header carries the target node_id, which a node still without
// one adopts on receipt.
type ConfigFrame struct {
	Header            Header
	SleepSeconds      uint16
	PowerUpMs         uint16
	SettleMs          uint16
	SampleIntervalMs  uint16
	LEDMode           uint8
	BatteryBucket     BatteryBucket
	LostRXLimit       uint8
	DebugMode         uint8
	ResetFlags        uint8
}

func EncodeConfig(f ConfigFrame) ([]byte, error) {
	if ConfigSize > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}
	data := make([]byte, ConfigSize)
	putHeader(data, f.Header)
	off := HeaderSize
	binary.LittleEndian.PutUint16(data[off:], f.SleepSeconds)
	off += 2
	binary.LittleEndian.PutUint16(data[off:], f.PowerUpMs)
	off += 2
	binary.LittleEndian.PutUint16(data[off:], f.SettleMs)
	off += 2
	binary.LittleEndian.PutUint16(data[off:], f.SampleIntervalMs)
	off += 2
	data[off] = f.LEDMode
	off++
	data[off] = byte(f.BatteryBucket)
	off++
	data[off] = f.LostRXLimit
	off++
	data[off] = f.DebugMode
	off++
	data[off] = f.ResetFlags
	return data, nil
}

func DecodeConfig(data []byte) (ConfigFrame, error) {
	if len(data) < ConfigSize {
		return ConfigFrame{}, ErrTooShort
	}
	f := ConfigFrame{Header: getHeader(data)}
	off := HeaderSize
	f.SleepSeconds = binary.LittleEndian.Uint16(data[off:])
	off += 2
	f.PowerUpMs = binary.LittleEndian.Uint16(data[off:])
	off += 2
	f.SettleMs = binary.LittleEndian.Uint16(data[off:])
	off += 2
	f.SampleIntervalMs = binary.LittleEndian.Uint16(data[off:])
	off += 2
	f.LEDMode = data[off]
	off++
	f.BatteryBucket = BatteryBucket(data[off])
	off++
	f.LostRXLimit = data[off]
	off++
	f.DebugMode = data[off]
	off++
	f.ResetFlags = data[off]
	return f, nil
}
