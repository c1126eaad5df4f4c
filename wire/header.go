package wire

// Header is the common 5-byte prefix of every frame: kind tag, node_id
// (0 = unassigned), mode, hardware version, firmware version.
type Header struct {
	Kind      Kind
	NodeID    uint8
	Mode      Mode
	HWVersion uint8
	FWVersion uint8
}

func putHeader(data []byte, h Header) {
	data[0] = byte(h.Kind)
	data[1] = h.NodeID
	data[2] = byte(h.Mode)
	data[3] = h.HWVersion
	data[4] = h.FWVersion
}

func getHeader(data []byte) Header {
	return Header{
		Kind:      Kind(data[0]),
		NodeID:    data[1],
		Mode:      Mode(data[2]),
		HWVersion: data[3],
		FWVersion: data[4],
	}
}

// DecodeHeader peeks the common header without committing to a specific
// kind's payload decoder, so a caller can dispatch on Kind first.
func DecodeHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, ErrTooShort
	}
	return getHeader(data), nil
}
