package fxcli

import (
	"errors"
	"fmt"
	"net"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/fxlink/go-fxcli/internal/rtsched"
	"github.com/fxlink/go-fxcli/logger"
)

// Config holds the parameters of a Client.
type Config struct {
	// host is the IP address or host name of the firmware.
	host string
	// port is the UDP port of the firmware.
	port int
	// localAddr optionally binds the socket to a fixed local address.
	// Defaults to an ephemeral port on the outgoing interface.
	localAddr string

	// generalTimeout bounds the wait for acknowledgments of start, stop,
	// e-stop, set-zero, ping and identification commands.
	// Defaults to 200 milliseconds.
	generalTimeout time.Duration
	// realtimeTimeout bounds the wait for REQ and STATUS replies.
	// Defaults to 5 milliseconds.
	realtimeTimeout time.Duration
	// settleDelay is slept after a successful fire-and-confirm command.
	// Defaults to 0 (disabled).
	settleDelay time.Duration

	// pollInterval bounds each readability wait of the receive engine.
	// It is also the time needed by Close to unblock the engine in the
	// worst case. Defaults to 1 millisecond.
	pollInterval time.Duration
	// drainBudget bounds how long the engine keeps draining datagrams once
	// the socket became readable. Defaults to 2 milliseconds.
	drainBudget time.Duration

	// readBuffer is the SO_RCVBUF size in bytes; 0 keeps the OS default.
	// Defaults to 1 MiB to absorb bursts.
	readBuffer int
	// writeBuffer is the SO_SNDBUF size in bytes; 0 keeps the OS default.
	writeBuffer int
	// tos is the IPv4 TOS byte (IPv6 traffic class); 0 keeps the default.
	tos int
	// maxDatagram is the receive buffer size per datagram.
	// Defaults to 2048 bytes.
	maxDatagram int

	// closeTimeout bounds how long Close waits for the engine to stop.
	// Defaults to 1 second.
	closeTimeout time.Duration

	// keepAliveInterval enables a periodic PING when greater than zero.
	// Defaults to 0 (disabled).
	keepAliveInterval time.Duration

	// realtime is the scheduling request for the receive engine thread.
	realtime rtsched.Settings

	logger   logger.Logger
	observer Observer
}

// NewConfig creates a client configuration for the firmware at host:port
// with default values, then applies opts in order.
//
// See the WithXXX functions for the available options.
func NewConfig(host string, port int, opts ...Option) (*Config, error) {
	cfg := &Config{
		generalTimeout:  200 * time.Millisecond,
		realtimeTimeout: 5 * time.Millisecond,
		pollInterval:    time.Millisecond,
		drainBudget:     2 * time.Millisecond,
		readBuffer:      1 << 20,
		maxDatagram:     2048,
		closeTimeout:    time.Second,
		logger:          logger.GetLogger(),
		observer:        NopObserver{},
	}

	if err := withRemoteHost(host).apply(cfg); err != nil {
		return cfg, err
	}

	if err := withPort(port).apply(cfg); err != nil {
		return cfg, err
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

// Addr returns the firmware address as "host:port".
func (cfg *Config) Addr() string {
	return net.JoinHostPort(cfg.host, strconv.Itoa(cfg.port))
}

// GeneralTimeout returns the acknowledgment timeout of control commands.
func (cfg *Config) GeneralTimeout() time.Duration { return cfg.generalTimeout }

// RealtimeTimeout returns the reply timeout of REQ and STATUS queries.
func (cfg *Config) RealtimeTimeout() time.Duration { return cfg.realtimeTimeout }

// Logger returns the configured logger.
func (cfg *Config) Logger() logger.Logger { return cfg.logger }

func (cfg *Config) endpointOptions() (endpointOptions, error) {
	raddr, err := net.ResolveUDPAddr("udp", cfg.Addr())
	if err != nil {
		return endpointOptions{}, fmt.Errorf("fxcli: resolve %s: %w", cfg.Addr(), err)
	}

	var laddr *net.UDPAddr
	if cfg.localAddr != "" {
		laddr, err = net.ResolveUDPAddr("udp", cfg.localAddr)
		if err != nil {
			return endpointOptions{}, fmt.Errorf("fxcli: resolve local %s: %w", cfg.localAddr, err)
		}
	}

	return endpointOptions{
		laddr:       laddr,
		raddr:       raddr,
		readBuffer:  cfg.readBuffer,
		writeBuffer: cfg.writeBuffer,
		tos:         cfg.tos,
	}, nil
}

// Option represents a functional option for configuring a Config.
type Option interface {
	apply(*Config) error
}

type optFunc struct {
	name      string
	applyFunc func(*Config) error
}

func (o *optFunc) apply(cfg *Config) error {
	if cfg == nil {
		return ErrConfigNil
	}
	return o.applyFunc(cfg)
}

func newOptFunc(name string, f func(*Config) error) *optFunc {
	return &optFunc{name: name, applyFunc: f}
}

func withRemoteHost(host string) Option {
	return newOptFunc("withRemoteHost", func(cfg *Config) error {
		if ip := net.ParseIP(host); ip != nil {
			cfg.host = host
			return nil
		}

		host = strings.TrimSuffix(strings.TrimPrefix(host, "."), ".")
		if host != "" {
			if _, err := net.LookupHost(host); err == nil {
				cfg.host = host
				return nil
			}
		}

		return errors.New("invalid host")
	})
}

func withPort(port int) Option {
	return newOptFunc("withPort", func(cfg *Config) error {
		if port < 1 || port > 65535 {
			return errors.New("port is out of range [1, 65535]")
		}
		cfg.port = port

		return nil
	})
}

// WithLocalAddr binds the client socket to addr ("ip:port"). The binding is
// kept when the socket is recreated after a fault.
func WithLocalAddr(addr string) Option {
	return newOptFunc("WithLocalAddr", func(cfg *Config) error {
		if _, err := net.ResolveUDPAddr("udp", addr); err != nil {
			return fmt.Errorf("invalid local address: %w", err)
		}
		cfg.localAddr = addr

		return nil
	})
}

// WithGeneralTimeout sets the acknowledgment timeout for start, stop,
// e-stop, set-zero, ping and identification commands.
//
// The timeout should be between 1 millisecond and 60 seconds.
// The default value is 200 milliseconds.
func WithGeneralTimeout(d time.Duration) Option {
	return newOptFunc("WithGeneralTimeout", func(cfg *Config) error {
		if d < time.Millisecond || d > 60*time.Second {
			return errors.New("general timeout out of range [1ms, 60s]")
		}
		cfg.generalTimeout = d

		return nil
	})
}

// WithRealtimeTimeout sets the reply timeout for REQ and STATUS queries.
//
// The timeout should be between 100 microseconds and 1 second.
// The default value is 5 milliseconds.
func WithRealtimeTimeout(d time.Duration) Option {
	return newOptFunc("WithRealtimeTimeout", func(cfg *Config) error {
		if d < 100*time.Microsecond || d > time.Second {
			return errors.New("realtime timeout out of range [100us, 1s]")
		}
		cfg.realtimeTimeout = d

		return nil
	})
}

// WithSettleDelay sets a delay slept after each successful fire-and-confirm
// command, giving the drives time to settle before the next command.
//
// The delay should be between 0 and 10 seconds. The default value is 0.
func WithSettleDelay(d time.Duration) Option {
	return newOptFunc("WithSettleDelay", func(cfg *Config) error {
		if d < 0 || d > 10*time.Second {
			return errors.New("settle delay out of range [0, 10s]")
		}
		cfg.settleDelay = d

		return nil
	})
}

// WithPollInterval sets the bound of each readability wait of the receive
// engine. The value should be between 100 microseconds and 100
// milliseconds. The default value is 1 millisecond.
func WithPollInterval(d time.Duration) Option {
	return newOptFunc("WithPollInterval", func(cfg *Config) error {
		if d < 100*time.Microsecond || d > 100*time.Millisecond {
			return errors.New("poll interval out of range [100us, 100ms]")
		}
		cfg.pollInterval = d

		return nil
	})
}

// WithDrainBudget sets how long the receive engine keeps draining queued
// datagrams in one iteration. The value should be between 100 microseconds
// and 100 milliseconds. The default value is 2 milliseconds.
func WithDrainBudget(d time.Duration) Option {
	return newOptFunc("WithDrainBudget", func(cfg *Config) error {
		if d < 100*time.Microsecond || d > 100*time.Millisecond {
			return errors.New("drain budget out of range [100us, 100ms]")
		}
		cfg.drainBudget = d

		return nil
	})
}

// WithReadBuffer sets the socket receive buffer size in bytes. 0 keeps the
// OS default. The default value is 1 MiB.
func WithReadBuffer(size int) Option {
	return newOptFunc("WithReadBuffer", func(cfg *Config) error {
		if size < 0 {
			return errors.New("read buffer size must not be negative")
		}
		cfg.readBuffer = size

		return nil
	})
}

// WithWriteBuffer sets the socket send buffer size in bytes. 0 keeps the OS
// default, which is also the default value.
func WithWriteBuffer(size int) Option {
	return newOptFunc("WithWriteBuffer", func(cfg *Config) error {
		if size < 0 {
			return errors.New("write buffer size must not be negative")
		}
		cfg.writeBuffer = size

		return nil
	})
}

// WithTOS sets the IPv4 type-of-service byte (IPv6 traffic class) of
// outgoing datagrams, e.g. 0xb8 for DSCP EF. 0 keeps the OS default.
func WithTOS(tos int) Option {
	return newOptFunc("WithTOS", func(cfg *Config) error {
		if tos < 0 || tos > 255 {
			return errors.New("tos out of range [0, 255]")
		}
		cfg.tos = tos

		return nil
	})
}

// WithMaxDatagram sets the largest reply size accepted; longer datagrams
// are truncated. The value should be between 64 and 65535 bytes.
// The default value is 2048 bytes.
func WithMaxDatagram(size int) Option {
	return newOptFunc("WithMaxDatagram", func(cfg *Config) error {
		if size < 64 || size > 65535 {
			return errors.New("max datagram size out of range [64, 65535]")
		}
		cfg.maxDatagram = size

		return nil
	})
}

// WithCloseTimeout sets how long Close waits for the receive engine to stop.
// The value should be between 1 millisecond and 30 seconds.
// The default value is 1 second.
func WithCloseTimeout(d time.Duration) Option {
	return newOptFunc("WithCloseTimeout", func(cfg *Config) error {
		if d < time.Millisecond || d > 30*time.Second {
			return errors.New("close timeout out of range [1ms, 30s]")
		}
		cfg.closeTimeout = d

		return nil
	})
}

// WithKeepAlive enables a periodic PING every interval. Failed pings are
// counted in ClientMetrics and logged; they never close the client.
// 0 disables the keep-alive, which is the default.
func WithKeepAlive(interval time.Duration) Option {
	return newOptFunc("WithKeepAlive", func(cfg *Config) error {
		if interval != 0 && interval < 10*time.Millisecond {
			return errors.New("keep-alive interval must be 0 or at least 10ms")
		}
		cfg.keepAliveInterval = interval

		return nil
	})
}

// WithRealtime asks for SCHED_FIFO priority, CPU affinity and locked memory
// for the receive engine thread. Requests the kernel denies are logged at
// debug level and ignored.
func WithRealtime(priority int, cpus []int, lockMemory bool) Option {
	return newOptFunc("WithRealtime", func(cfg *Config) error {
		if priority < 0 || priority > 99 {
			return errors.New("realtime priority out of range [0, 99]")
		}
		if slices.ContainsFunc(cpus, func(cpu int) bool { return cpu < 0 }) {
			return errors.New("realtime cpu index must not be negative")
		}
		cfg.realtime = rtsched.Settings{Priority: priority, CPUs: slices.Clone(cpus), LockMemory: lockMemory}

		return nil
	})
}

// WithLogger sets the logger of the client. The default is the package
// logger returned by logger.GetLogger.
func WithLogger(l logger.Logger) Option {
	return newOptFunc("WithLogger", func(cfg *Config) error {
		if l == nil {
			return errors.New("logger is nil")
		}
		cfg.logger = l

		return nil
	})
}

// WithObserver installs an observability hook. The default is NopObserver.
func WithObserver(o Observer) Option {
	return newOptFunc("WithObserver", func(cfg *Config) error {
		if o == nil {
			return errors.New("observer is nil")
		}
		cfg.observer = o

		return nil
	})
}
