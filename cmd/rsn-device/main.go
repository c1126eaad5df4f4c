//go:build tinygo || baremetal

// Command rsn-device is the sensor node's firmware entrypoint: it wires
// the duty-cycle state machine to the real nRF52 radio (radio/nrfhw), the
// board's ADC channels, and a flash-backed persistence store, then drives
// Step in a tight loop forever. There is no CLI and no configuration
// surface here by design — everything the node needs comes from the
// radio link or its own persisted config.
package main

import (
	"machine"
	"time"

	"github.com/fieldsensor/rsntgw/measure"
	"github.com/fieldsensor/rsntgw/radio"
	"github.com/fieldsensor/rsntgw/radio/nrfhw"
	"github.com/fieldsensor/rsntgw/rsn"
	"github.com/fieldsensor/rsntgw/store"
)

// Pin assignments carried over from the original sensor board: soil
// (capacitive) ADC, battery divider, NTC divider.
const (
	pinSoil = machine.ADC0
	pinVbat = machine.ADC1
	pinNTC  = machine.ADC2
)

const (
	radioAddress = 0xE7E7E7E7
	radioPrefix  = 0xE7
	radioChannel = 80
)

// adcSampler adapts a TinyGo ADC pin to measure.Sampler.
type adcSampler struct{ pin machine.ADC }

func (s adcSampler) Sample() uint16 { return s.pin.Get() }

// realSleep satisfies both measure.Sleeper and rsn.SleepFunc's shape so
// it can feed burst delays and duty-cycle sleeps alike.
type realSleep struct{}

func (realSleep) Sleep(d time.Duration) { time.Sleep(d) }

func resetCause() uint8 {
	// TinyGo's machine package exposes no portable reset-reason register
	// across targets; every boot reports normal until a board-specific
	// readout is wired in.
	return rsn.ResetNormal
}

func main() {
	machine.InitADC()
	soil := machine.ADC{Pin: pinSoil}
	soil.Configure(machine.ADCConfig{})
	vbat := machine.ADC{Pin: pinVbat}
	vbat.Configure(machine.ADCConfig{})
	ntc := machine.ADC{Pin: pinNTC}
	ntc.Configure(machine.ADCConfig{})

	channels := measure.Channels{
		Soil: adcSampler{soil},
		Vbat: adcSampler{vbat},
		NTC:  adcSampler{ntc},
	}

	driver := nrfhw.New()
	if err := driver.Start(radioAddress, radioPrefix, radioChannel); err != nil {
		println("radio start failed:", err.Error())
		return
	}
	link := radio.NewRSNLink(driver)

	// Assumes the target exposes a mounted filesystem at this path (e.g.
	// littlefs over internal flash); boards without one need a backend
	// wired to their own flash API instead.
	backend := store.NewFileBackend("/rsn.yaml")
	sleep := realSleep{}

	m, err := rsn.NewMachine(backend, link, channels, sleep, sleep.Sleep, time.Now, resetCause(), nil)
	if err != nil {
		println("machine init failed:", err.Error())
		return
	}

	for {
		data, ok := driver.PollReceive(50 * time.Millisecond)
		if ok {
			link.Deliver(nil, data)
		}
		m.Step()
	}
}
