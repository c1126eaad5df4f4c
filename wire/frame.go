package wire

// sizeForKind returns the fixed frame size for a known kind, and false for
// anything outside the enumerated set.
func sizeForKind(k Kind) (int, bool) {
	switch k {
	case KindHello:
		return HelloSize, true
	case KindHandshake:
		return HandshakeSize, true
	case KindTelemetry:
		return TelemetrySize, true
	case KindConfig:
		return ConfigSize, true
	case KindConfigAck:
		return ConfigAckSize, true
	case KindDebug:
		return DebugSize, true
	default:
		return 0, false
	}
}

// Validate checks that data is at least as long as its declared kind
// requires, without decoding the payload. Callers that only need to route
// on Kind (the TGW packet router, for instance) use this instead of
// decoding twice.
func Validate(data []byte) (Header, error) {
	h, err := DecodeHeader(data)
	if err != nil {
		return Header{}, err
	}
	size, ok := sizeForKind(h.Kind)
	if !ok {
		return Header{}, ErrUnknownKind
	}
	if len(data) < size {
		return Header{}, ErrTooShort
	}
	return h, nil
}
