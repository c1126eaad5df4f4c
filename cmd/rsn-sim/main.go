// Command rsn-sim runs one RSN and one TGW router against each other on a
// single host process, with a fake driver standing in for the radio medium
// and a fake clock standing in for real duty-cycle sleeps. It's meant for
// exercising the state machine and the router together without hardware.
package main

import (
	"flag"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fieldsensor/rsntgw/measure"
	"github.com/fieldsensor/rsntgw/radio"
	"github.com/fieldsensor/rsntgw/radio/stub"
	"github.com/fieldsensor/rsntgw/rsn"
	"github.com/fieldsensor/rsntgw/spool"
	"github.com/fieldsensor/rsntgw/store"
	"github.com/fieldsensor/rsntgw/tgw"
	"github.com/fieldsensor/rsntgw/uplink"
	"github.com/fieldsensor/rsntgw/wire"
)

var (
	rsnMAC = []byte{0x02, 0x00, 0x00, 0x00, 0x00, 0x01}
	tgwMAC = []byte{0x02, 0x00, 0x00, 0x00, 0x00, 0x02}
)

// simClock is a shared fake clock: Sleep advances it instantly instead of
// blocking, so a simulated duty cycle that would take hours on a real
// device runs in milliseconds here.
type simClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *simClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *simClock) Sleep(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// logUplink stands in for the host serial connection: every upward frame
// is logged instead of written to a real port.
type logUplink struct {
	log       *zap.Logger
	connected bool
}

func (u *logUplink) Send(frame []byte) bool {
	if !u.connected || len(frame) == 0 {
		return false
	}
	switch frame[0] {
	case uplink.TagHello:
		u.log.Info("uplink: hello", zap.Uint8("node_id", frame[1]), zap.Int8("rssi", int8(frame[2])))
	case uplink.TagTelemetry:
		telem, err := wire.DecodeTelemetry(frame[7:])
		if err == nil {
			u.log.Info("uplink: telemetry",
				zap.Uint8("node_id", frame[1]),
				zap.Uint32("cycle", telem.Cycle),
				zap.Uint16("soil_mean", telem.Soil.Mean),
				zap.Uint16("vbat_mean", telem.Vbat.Mean),
			)
		}
	case uplink.TagConfigAck:
		u.log.Info("uplink: config ack", zap.Uint8("node_id", frame[1]))
	}
	return true
}

func (u *logUplink) PollDown() ([]byte, bool) { return nil, false }
func (u *logUplink) IsConnected() bool        { return u.connected }

func main() {
	steps := flag.Int("steps", 40, "number of Step calls to run on the RSN side")
	sleepSeconds := flag.Uint("sleep-seconds", 3, "seed sleep_seconds in the simulated RSN config")
	dev := flag.Bool("dev", false, "use zap's development logger instead of production")
	flag.Parse()

	var log *zap.Logger
	var err error
	if *dev {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	clock := &simClock{now: time.Unix(0, 0)}

	gatewayLink := radio.NewGatewayLink(clock.Now)
	rsnDriver := stub.New()
	gatewayDriver := stub.New()

	// Cross-wire the two stub drivers so a Send on one side reaches the
	// other's link directly, standing in for the air between them.
	rsnDriver.SetOnSend(func(dest, data []byte) {
		hdr, err := wire.DecodeHeader(data)
		if err != nil {
			return
		}
		gatewayLink.Deliver(hdr.NodeID, rsnMAC, -40, data)
	})
	rsnLink := radio.NewRSNLink(rsnDriver)
	gatewayDriver.SetOnSend(func(dest, data []byte) {
		rsnLink.Deliver(tgwMAC, data)
	})

	channels := measure.Channels{
		Soil: measure.SamplerFunc(func() uint16 { return 400 }),
		Vbat: measure.SamplerFunc(func() uint16 { return 3000 }),
		NTC:  measure.SamplerFunc(func() uint16 { return 512 }),
	}

	backend := store.NewMemoryBackend()
	cfg, _ := backend.LoadConfig()
	cfg.SleepSeconds = uint16(*sleepSeconds)
	_ = backend.SaveConfig(cfg)

	machine, err := rsn.NewMachine(backend, rsnLink, channels, clock, clock.Sleep, clock.Now, rsn.ResetNormal, log.Named("rsn"))
	if err != nil {
		panic(err)
	}

	router := tgw.NewRouter(gatewayLink, gatewayDriver, nil, spool.New(), &logUplink{log: log.Named("uplink"), connected: true}, clock.Now, log.Named("tgw"))

	for i := 0; i < *steps; i++ {
		state := machine.Step()
		log.Debug("rsn step", zap.Int("i", i), zap.Uint8("state", uint8(state)))
		router.Step()
	}

	fmt.Printf("ran %d steps; final node_id=%d config_valid=%v\n", *steps, machine.Status().NodeID, machine.Status().ConfigValid)
}
