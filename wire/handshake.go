package wire

// HandshakeFrame is sent by the gateway to assign a node_id to an RSN that
// just announced itself with HELLO. It carries no payload beyond the header:
// the assigned node_id rides in Header.NodeID.
type HandshakeFrame struct {
	Header Header
}

func EncodeHandshake(f HandshakeFrame) ([]byte, error) {
	if HandshakeSize > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}
	data := make([]byte, HandshakeSize)
	putHeader(data, f.Header)
	return data, nil
}

func DecodeHandshake(data []byte) (HandshakeFrame, error) {
	if len(data) < HandshakeSize {
		return HandshakeFrame{}, ErrTooShort
	}
	return HandshakeFrame{Header: getHeader(data)}, nil
}
