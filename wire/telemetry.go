package wire

import "encoding/binary"

// ChannelStats is the five-number burst summary computed for one ADC
// channel: mean, median, min, max and population standard deviation, all
// expressed in raw ADC counts.
type ChannelStats struct {
	Mean   uint16
	Median uint16
	Min    uint16
	Max    uint16
	Stddev uint16
}

func putChannelStats(data []byte, s ChannelStats) {
	binary.LittleEndian.PutUint16(data[0:], s.Mean)
	binary.LittleEndian.PutUint16(data[2:], s.Median)
	binary.LittleEndian.PutUint16(data[4:], s.Min)
	binary.LittleEndian.PutUint16(data[6:], s.Max)
	binary.LittleEndian.PutUint16(data[8:], s.Stddev)
}

func getChannelStats(data []byte) ChannelStats {
	return ChannelStats{
		Mean:   binary.LittleEndian.Uint16(data[0:]),
		Median: binary.LittleEndian.Uint16(data[2:]),
		Min:    binary.LittleEndian.Uint16(data[4:]),
		Max:    binary.LittleEndian.Uint16(data[6:]),
		Stddev: binary.LittleEndian.Uint16(data[8:]),
	}
}

// channelStatsSize is the encoded width of one ChannelStats block.
const channelStatsSize = 10

// TelemetryFrame reports one completed measurement cycle: raw burst
// statistics for the soil, battery and NTC channels plus the battery
// bucket, telemetry flags and last observed RSSI.
type TelemetryFrame struct {
	Header        Header
	Cycle         uint32
	TimestampMs   uint32
	BatteryBucket BatteryBucket
	Flags         TelemFlags
	Soil          ChannelStats
	Vbat          ChannelStats
	NTC           ChannelStats
	LastRSSI      int8 // 0x7F when no RSSI sample is available
}

func EncodeTelemetry(f TelemetryFrame) ([]byte, error) {
	if TelemetrySize > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}
	data := make([]byte, TelemetrySize)
	putHeader(data, f.Header)
	off := HeaderSize
	binary.LittleEndian.PutUint32(data[off:], f.Cycle)
	off += 4
	binary.LittleEndian.PutUint32(data[off:], f.TimestampMs)
	off += 4
	data[off] = byte(f.BatteryBucket)
	off++
	data[off] = byte(f.Flags)
	off++
	putChannelStats(data[off:], f.Soil)
	off += channelStatsSize
	putChannelStats(data[off:], f.Vbat)
	off += channelStatsSize
	putChannelStats(data[off:], f.NTC)
	off += channelStatsSize
	data[off] = byte(f.LastRSSI)
	return data, nil
}

func DecodeTelemetry(data []byte) (TelemetryFrame, error) {
	if len(data) < TelemetrySize {
		return TelemetryFrame{}, ErrTooShort
	}
	f := TelemetryFrame{Header: getHeader(data)}
	off := HeaderSize
	f.Cycle = binary.LittleEndian.Uint32(data[off:])
	off += 4
	f.TimestampMs = binary.LittleEndian.Uint32(data[off:])
	off += 4
	f.BatteryBucket = BatteryBucket(data[off])
	off++
	f.Flags = TelemFlags(data[off])
	off++
	f.Soil = getChannelStats(data[off:])
	off += channelStatsSize
	f.Vbat = getChannelStats(data[off:])
	off += channelStatsSize
	f.NTC = getChannelStats(data[off:])
	off += channelStatsSize
	f.LastRSSI = int8(data[off])
	return f, nil
}
