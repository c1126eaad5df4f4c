package wire

import "errors"

var (
	// ErrTooShort is returned when a buffer is smaller than the declared
	// kind's fixed frame size. Malformed: the caller should drop the frame.
	ErrTooShort = errors.New("wire: frame too short for its kind")
	// ErrUnknownKind is returned when the header's kind tag is outside the
	// enumerated set. Malformed: the caller should drop the frame.
	ErrUnknownKind = errors.New("wire: unknown packet kind")
	// ErrFrameTooLarge is returned by Encode when a frame would exceed
	// MaxFrameSize; Encode never truncates silently.
	ErrFrameTooLarge = errors.New("wire: encoded frame exceeds MaxFrameSize")
)
