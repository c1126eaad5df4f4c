package wire

// ConfigAckFrame is returned by the RSN after applying a CONFIG frame.
type ConfigAckFrame struct {
	Header Header
	Status uint8 // 0 = applied cleanly, non-zero = rejected/sanitized
}

func EncodeConfigAck(f ConfigAckFrame) ([]byte, error) {
	if ConfigAckSize > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}
	data := make([]byte, ConfigAckSize)
	putHeader(data, f.Header)
	data[HeaderSize] = f.Status
	return data, nil
}

func DecodeConfigAck(data []byte) (ConfigAckFrame, error) {
	if len(data) < ConfigAckSize {
		return ConfigAckFrame{}, ErrTooShort
	}
	return ConfigAckFrame{
		Header: getHeader(data),
		Status: data[HeaderSize],
	}, nil
}
