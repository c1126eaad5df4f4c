package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the gateway process's own runtime configuration: where to
// find the host serial port, how fast to talk to it, which radio
// channel to listen on, and how verbose to log. This has nothing to do
// with the per-node RSNConfig pushed over the radio link.
type Config struct {
	SerialPort   string `yaml:"serial_port"`
	BaudRate     int    `yaml:"baud_rate"`
	RadioChannel uint8  `yaml:"radio_channel"`
	LogLevel     string `yaml:"log_level"`
	NodeCfgPath  string `yaml:"node_config_path"`
}

func loadConfig(path string) (Config, error) {
	cfg := Config{BaudRate: 115200, LogLevel: "info", NodeCfgPath: "tgw_nodes.yaml"}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.SerialPort == "" {
		return cfg, fmt.Errorf("config %s: serial_port is required", path)
	}
	return cfg, nil
}
