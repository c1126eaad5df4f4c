// Command tgw is the gateway process's host-side build: it owns the real
// serial connection up to the attached host computer and runs the packet
// router's step loop against it. The radio side uses radio/stub here,
// standing in for the gateway hardware's actual radio driver (nrfhw, a
// TinyGo build not buildable from this host binary); production gateway
// firmware swaps that driver in under its own build tag.
package main

import (
	"flag"
	"os"
	"time"

	"go.bug.st/serial"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fieldsensor/rsntgw/radio"
	"github.com/fieldsensor/rsntgw/radio/stub"
	"github.com/fieldsensor/rsntgw/spool"
	"github.com/fieldsensor/rsntgw/store"
	"github.com/fieldsensor/rsntgw/tgw"
	"github.com/fieldsensor/rsntgw/uplink"
	"github.com/fieldsensor/rsntgw/wire"
)

const stepInterval = 20 * time.Millisecond

func main() {
	configPath := flag.String("config", "tgw.yaml", "path to the gateway's YAML config file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		panic(err)
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = zapcore.InfoLevel
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	log, err := zcfg.Build()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	port, err := serial.Open(cfg.SerialPort, &serial.Mode{BaudRate: cfg.BaudRate})
	if err != nil {
		log.Fatal("open serial port", zap.String("port", cfg.SerialPort), zap.Error(err))
	}
	defer port.Close()

	up := uplink.NewSerialUplink(port, wire.MaxFrameSize+8)

	link := radio.NewGatewayLink(time.Now)
	driver := stub.New()
	nodeCfgs := store.NewNodeConfigStore(cfg.NodeCfgPath)
	router := tgw.NewRouter(link, driver, nodeCfgs, spool.New(), up, time.Now, log.Named("tgw"))

	log.Info("gateway up",
		zap.String("serial_port", cfg.SerialPort),
		zap.Int("baud_rate", cfg.BaudRate),
		zap.Uint8("radio_channel", cfg.RadioChannel),
	)

	ticker := time.NewTicker(stepInterval)
	defer ticker.Stop()
	for range ticker.C {
		if !up.IsConnected() {
			log.Warn("uplink disconnected, exiting")
			os.Exit(1)
		}
		router.Step()
	}
}
