//go:build tinygo || baremetal

package nrfhw

import (
	"time"
	"unsafe"

	"device/nrf"

	"github.com/fieldsensor/rsntgw/wire"
)

// Driver implements radio.Driver over the nRF52 radio registers: Send
// blocks until the frame is clocked out (or times out), which is
// acceptable for a duty-cycled node that has nothing else to do while
// transmitting.
type Driver struct {
	buffer  [wire.MaxFrameSize]byte
	channel uint8
}

func New() *Driver { return &Driver{} }

func (d *Driver) Start(address uint32, prefix byte, channel uint8) error {
	StartHFCLK()
	d.channel = channel
	return ConfigureRadio(address, prefix, channel, wire.MaxFrameSize)
}

func (d *Driver) SetChannel(channel uint8) error {
	if channel > 125 {
		return ErrInvalidChannel
	}
	d.channel = channel
	nrf.RADIO.FREQUENCY.Set(uint32(channel))
	return nil
}

// Send ignores dest: the nRF52 shockburst-style addressing this driver
// configures is fixed at Start time via ConfigureRadio's base/prefix, so
// per-call destination routing happens at the protocol layer instead
// (radio.RSNLink/GatewayLink), not the register layer.
func (d *Driver) Send(dest []byte, data []byte) bool {
	n := copy(d.buffer[1:], data)
	d.buffer[0] = byte(n)

	nrf.RADIO.PACKETPTR.Set(uint32(uintptr(unsafe.Pointer(&d.buffer[0]))))
	nrf.RADIO.EVENTS_READY.Set(0)
	nrf.RADIO.EVENTS_END.Set(0)
	nrf.RADIO.TASKS_TXEN.Set(1)
	for nrf.RADIO.EVENTS_READY.Get() == 0 {
	}
	nrf.RADIO.TASKS_START.Set(1)
	for nrf.RADIO.EVENTS_END.Get() == 0 {
	}
	nrf.RADIO.TASKS_DISABLE.Set(1)
	for nrf.RADIO.STATE.Get() != nrf.RADIO_STATE_STATE_Disabled {
	}
	return true
}

// PollReceive attempts one receive within timeout and returns the decoded
// frame bytes, or ok=false on timeout. Called from the main duty-cycle
// loop (there is no hardware receive interrupt wired in this build); the
// caller is responsible for handing the result to RSNLink.Deliver.
func (d *Driver) PollReceive(timeout time.Duration) ([]byte, bool) {
	nrf.RADIO.PACKETPTR.Set(uint32(uintptr(unsafe.Pointer(&d.buffer[0]))))
	nrf.RADIO.EVENTS_READY.Set(0)
	nrf.RADIO.EVENTS_END.Set(0)
	nrf.RADIO.TASKS_RXEN.Set(1)
	for nrf.RADIO.EVENTS_READY.Get() == 0 {
	}
	nrf.RADIO.TASKS_START.Set(1)
	start := time.Now()
	for nrf.RADIO.EVENTS_END.Get() == 0 {
		if time.Since(start) > timeout {
			nrf.RADIO.TASKS_DISABLE.Set(1)
			for nrf.RADIO.STATE.Get() != nrf.RADIO_STATE_STATE_Disabled {
			}
			return nil, false
		}
	}
	nrf.RADIO.TASKS_DISABLE.Set(1)
	for nrf.RADIO.STATE.Get() != nrf.RADIO_STATE_STATE_Disabled {
	}
	length := int(d.buffer[0])
	if length > wire.MaxFrameSize-1 {
		length = wire.MaxFrameSize - 1
	}
	out := make([]byte, length)
	copy(out, d.buffer[1:1+length])
	return out, true
}
