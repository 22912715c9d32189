package fxcli

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type fileConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	LocalAddr       string `toml:"local_addr"`
	GeneralTimeout  string `toml:"general_timeout"`
	RealtimeTimeout string `toml:"realtime_timeout"`
	SettleDelay     string `toml:"settle_delay"`
	PollInterval    string `toml:"poll_interval"`
	DrainBudget     string `toml:"drain_budget"`
	ReadBuffer      int    `toml:"read_buffer"`
	WriteBuffer     int    `toml:"write_buffer"`
	TOS             int    `toml:"tos"`
	MaxDatagram     int    `toml:"max_datagram"`
	CloseTimeout    string `toml:"close_timeout"`
	KeepAlive       string `toml:"keep_alive"`

	Realtime struct {
		Priority   int   `toml:"priority"`
		CPUs       []int `toml:"cpus"`
		LockMemory bool  `toml:"lock_memory"`
	} `toml:"realtime"`
}

// LoadConfigFile reads a TOML client configuration from path.
//
// Keys left out of the file keep their defaults. Durations are Go duration
// strings such as "5ms". opts are applied after the file, so they override
// it. Example file:
//
//	host = "192.168.10.10"
//	port = 5101
//	realtime_timeout = "5ms"
//	keep_alive = "1s"
//
//	[realtime]
//	priority = 80
//	cpus = [3]
func LoadConfigFile(path string, opts ...Option) (*Config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("fxcli: load config: %w", err)
	}

	if !meta.IsDefined("host") || !meta.IsDefined("port") {
		return nil, fmt.Errorf("fxcli: load config: host and port are required")
	}

	var fileOpts []Option

	if meta.IsDefined("local_addr") {
		fileOpts = append(fileOpts, WithLocalAddr(strings.TrimSpace(raw.LocalAddr)))
	}

	durations := []struct {
		key   string
		value string
		opt   func(time.Duration) Option
	}{
		{"general_timeout", raw.GeneralTimeout, WithGeneralTimeout},
		{"realtime_timeout", raw.RealtimeTimeout, WithRealtimeTimeout},
		{"settle_delay", raw.SettleDelay, WithSettleDelay},
		{"poll_interval", raw.PollInterval, WithPollInterval},
		{"drain_budget", raw.DrainBudget, WithDrainBudget},
		{"close_timeout", raw.CloseTimeout, WithCloseTimeout},
		{"keep_alive", raw.KeepAlive, WithKeepAlive},
	}
	for _, d := range durations {
		if !meta.IsDefined(d.key) {
			continue
		}
		v, err := time.ParseDuration(strings.TrimSpace(d.value))
		if err != nil {
			return nil, fmt.Errorf("fxcli: parse %s: %w", d.key, err)
		}
		fileOpts = append(fileOpts, d.opt(v))
	}

	if meta.IsDefined("read_buffer") {
		fileOpts = append(fileOpts, WithReadBuffer(raw.ReadBuffer))
	}
	if meta.IsDefined("write_buffer") {
		fileOpts = append(fileOpts, WithWriteBuffer(raw.WriteBuffer))
	}
	if meta.IsDefined("tos") {
		fileOpts = append(fileOpts, WithTOS(raw.TOS))
	}
	if meta.IsDefined("max_datagram") {
		fileOpts = append(fileOpts, WithMaxDatagram(raw.MaxDatagram))
	}
	if meta.IsDefined("realtime") {
		fileOpts = append(fileOpts, WithRealtime(raw.Realtime.Priority, raw.Realtime.CPUs, raw.Realtime.LockMemory))
	}

	cfg, err := NewConfig(strings.TrimSpace(raw.Host), raw.Port, append(fileOpts, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("fxcli: load config: %w", err)
	}

	return cfg, nil
}
