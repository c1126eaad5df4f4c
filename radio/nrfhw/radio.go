//go:build tinygo || baremetal

// Package nrfhw drives the nRF52 radio peripheral directly for the
// TinyGo-targeted RSN/TGW hardware builds. It implements radio.Driver over
// raw register access, the same shape as a real ESP-NOW/nRF bring-up.
package nrfhw

import "device/nrf"

// ErrInvalidChannel is returned for a channel outside the radio's usable
// range.
type channelError struct{}

func (channelError) Error() string { return "nrfhw: invalid channel" }

var ErrInvalidChannel error = channelError{}

// StartHFCLK starts the high-frequency clock the radio needs before any
// TX/RX operation.
func StartHFCLK() {
	nrf.CLOCK.EVENTS_HFCLKSTARTED.Set(0)
	nrf.CLOCK.TASKS_HFCLKSTART.Set(1)
	for nrf.CLOCK.EVENTS_HFCLKSTARTED.Get() == 0 {
	}
}

// ConfigureRadio sets up mode, power and addressing for the given channel,
// with a frame length field sized for wire.MaxFrameSize rather than the
// older fixed-payload protocol this driver was adapted from.
func ConfigureRadio(address uint32, prefix byte, channel uint8, maxFrameSize uint32) error {
	if channel > 125 {
		return ErrInvalidChannel
	}

	nrf.RADIO.POWER.Set(1)
	nrf.RADIO.MODE.Set(nrf.RADIO_MODE_MODE_Nrf_1Mbit)
	nrf.RADIO.TXPOWER.Set(nrf.RADIO_TXPOWER_TXPOWER_0dBm)
	nrf.RADIO.FREQUENCY.Set(uint32(channel))

	nrf.RADIO.BASE0.Set(address)
	nrf.RADIO.PREFIX0.Set(uint32(prefix))
	nrf.RADIO.TXADDRESS.Set(0)
	nrf.RADIO.RXADDRESSES.Set(1)

	nrf.RADIO.PCNF0.Set(
		(8 << nrf.RADIO_PCNF0_LFLEN_Pos) |
			(0 << nrf.RADIO_PCNF0_S0LEN_Pos) |
			(0 << nrf.RADIO_PCNF0_S1LEN_Pos))

	nrf.RADIO.PCNF1.Set(
		(maxFrameSize << nrf.RADIO_PCNF1_MAXLEN_Pos) |
			(0 << nrf.RADIO_PCNF1_STATLEN_Pos) |
			(3 << nrf.RADIO_PCNF1_BALEN_Pos) |
			(nrf.RADIO_PCNF1_ENDIAN_Little << nrf.RADIO_PCNF1_ENDIAN_Pos))

	nrf.RADIO.CRCCNF.Set(0) // the wire frames carry no radio-layer CRC of their own
	return nil
}
