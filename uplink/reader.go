package uplink

import (
	"encoding/binary"
	"errors"
	"io"
)

// ErrOversizedFrame is returned when a declared length exceeds the reader's
// buffer or is zero; the caller should treat this as a dropped frame, not a fatal
// error — the bytes have already been discarded to keep the stream aligned.
var ErrOversizedFrame = errors.New("uplink: frame length exceeds buffer capacity")

// discardChunkSize mirrors the firmware's fixed-size sink buffer used to
// drain bytes it has no room to keep.
const discardChunkSize = 32

// Reader decodes length-prefixed frames from a serial stream, honoring the
// same discard-on-oversized/partial-read behavior as the firmware: bytes
// that can't fit the caller's buffer are consumed and thrown away so the
// next length prefix stays aligned.
type Reader struct {
	r       io.Reader
	maxSize int
}

// NewReader wraps r, rejecting (and discarding) any declared frame length
// greater than maxSize.
func NewReader(r io.Reader, maxSize int) *Reader {
	return &Reader{r: r, maxSize: maxSize}
}

// ReadFrame returns the next frame's payload. It returns ErrOversizedFrame
// (after discarding the oversized frame's bytes) rather than failing the
// stream, so the caller can keep polling.
func (r *Reader) ReadFrame() ([]byte, error) {
	var lenBuf [2]byte
	if _, err := io.ReadFull(r.r, lenBuf[:]); err != nil {
		return nil, err
	}
	length := int(binary.LittleEndian.Uint16(lenBuf[:]))
	if length == 0 || length > r.maxSize {
		r.discard(length)
		return nil, ErrOversizedFrame
	}

	buf := make([]byte, length)
	n, err := io.ReadFull(r.r, buf)
	if err != nil {
		if n > 0 && n < length {
			r.discard(length - n)
		}
		return nil, err
	}
	return buf, nil
}

func (r *Reader) discard(remaining int) {
	sink := make([]byte, discardChunkSize)
	for remaining > 0 {
		chunk := remaining
		if chunk > discardChunkSize {
			chunk = discardChunkSize
		}
		n, err := r.r.Read(sink[:chunk])
		if n == 0 || err != nil {
			return
		}
		remaining -= n
	}
}
