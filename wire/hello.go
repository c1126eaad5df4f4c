package wire

import "encoding/binary"

// HelloFrame is broadcast by an unpaired RSN to announce itself.
type HelloFrame struct {
	Header       Header
	Capabilities Capabilities
}

func EncodeHello(f HelloFrame) ([]byte, error) {
	if HelloSize > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}
	data := make([]byte, HelloSize)
	putHeader(data, f.Header)
	binary.LittleEndian.PutUint16(data[HeaderSize:], uint16(f.Capabilities))
	return data, nil
}

func DecodeHello(data []byte) (HelloFrame, error) {
	if len(data) < HelloSize {
		return HelloFrame{}, ErrTooShort
	}
	return HelloFrame{
		Header:       getHeader(data),
		Capabilities: Capabilities(binary.LittleEndian.Uint16(data[HeaderSize:])),
	}, nil
}
