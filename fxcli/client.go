package fxcli

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/fxlink/go-fxcli/fxwire"
	"github.com/fxlink/go-fxcli/internal/demux"
	"github.com/fxlink/go-fxcli/internal/pool"
	"github.com/fxlink/go-fxcli/internal/seqtrack"
	"github.com/fxlink/go-fxcli/internal/task"
	"github.com/fxlink/go-fxcli/logger"
)

const keepAliveTaskName = "keepAlive"

// Client is a UDP command client for one firmware endpoint.
//
// A Client is safe for concurrent use. It is ready when NewClient returns
// and must be closed with Close.
type Client struct {
	cfg      *Config
	logger   logger.Logger
	observer Observer

	ep      *endpoint
	demux   *demux.Demux
	seq     *seqtrack.Tracker
	bufPool *pool.BufferPool
	taskMgr *task.Manager
	metrics ClientMetrics

	// exchangeMu serializes clear, send and wait on one tag.
	exchangeMu [fxwire.NumTags]sync.Mutex

	// ctx is the context NewClient was called with; its end closes the
	// client.
	ctx     context.Context
	ctxMu   sync.Mutex
	stopCtx func() bool

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// NewClient opens the socket described by cfg and starts the receive
// engine. When ctx is done the client is closed as if by Close.
func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	opts, err := cfg.endpointOptions()
	if err != nil {
		return nil, err
	}

	ep, err := openEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("fxcli: open endpoint: %w", err)
	}

	l := cfg.logger.With("remote", cfg.Addr())
	c := &Client{
		cfg:      cfg,
		logger:   l,
		observer: cfg.observer,
		ep:       ep,
		demux:    demux.New(),
		seq:      seqtrack.New(),
		bufPool:  pool.NewBufferPool(cfg.maxDatagram),
		taskMgr:  task.NewManager(ctx, l),
		ctx:      ctx,
	}

	if err := c.taskMgr.StartPinned(receiveTaskName, c.setupEngineThread, c.receiveTask); err != nil {
		c.abort()
		return nil, fmt.Errorf("fxcli: start receive engine: %w", err)
	}

	if cfg.keepAliveInterval > 0 {
		if _, err := c.taskMgr.StartInterval(keepAliveTaskName, c.keepAliveTask, cfg.keepAliveInterval); err != nil {
			c.abort()
			return nil, fmt.Errorf("fxcli: start keep-alive: %w", err)
		}
	}

	c.ctxMu.Lock()
	c.stopCtx = context.AfterFunc(ctx, func() {
		c.logger.Info("context done, closing client", "method", "NewClient", "error", ctx.Err())
		_ = c.Close()
	})
	c.ctxMu.Unlock()

	c.logger.Info("client opened", "method", "NewClient", "local", ep.localAddr())

	return c, nil
}

// Dial is a shortcut for NewConfig followed by NewClient.
func Dial(ctx context.Context, host string, port int, opts ...Option) (*Client, error) {
	cfg, err := NewConfig(host, port, opts...)
	if err != nil {
		return nil, err
	}

	return NewClient(ctx, cfg)
}

// Close stops the receive engine and closes the socket. Operations issued
// after Close fail immediately. Close is idempotent; it returns
// ErrCloseTimeout when the engine did not stop within the close timeout.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)

		c.ctxMu.Lock()
		if c.stopCtx != nil {
			c.stopCtx()
		}
		c.ctxMu.Unlock()

		c.taskMgr.Stop()
		if err := c.ep.close(); err != nil {
			c.logger.Debug("close socket", "method", "Close", "error", err)
		}

		if !c.taskMgr.WaitTimeout(c.cfg.closeTimeout) {
			c.closeErr = ErrCloseTimeout
			c.logger.Error("receive engine did not stop", "method", "Close", "timeout", c.cfg.closeTimeout)

			return
		}

		c.logger.Info("client closed", "method", "Close")
	})

	return c.closeErr
}

// isClosed reports whether Close ran or the context of the client is done.
func (c *Client) isClosed() bool {
	return c.closed.Load() || c.ctx.Err() != nil
}

func (c *Client) abort() {
	c.closed.Store(true)
	c.taskMgr.Stop()
	_ = c.ep.close()
	c.taskMgr.WaitTimeout(c.cfg.closeTimeout)
}

// keepAliveTask pings the firmware. Failures are counted and logged but
// never end the task.
func (c *Client) keepAliveTask() bool {
	if c.isClosed() {
		return false
	}

	c.metrics.incKeepAliveSendCount()
	if c.Ping() == "" {
		if c.isClosed() {
			return false
		}
		c.metrics.incKeepAliveErrCount()
		c.logger.Warn("keep-alive ping unanswered", "method", "keepAliveTask", "timeout", c.cfg.generalTimeout)
	}

	return true
}

// Metrics returns the client metrics.
func (c *Client) Metrics() *ClientMetrics {
	return &c.metrics
}

// Config returns the client configuration.
func (c *Client) Config() *Config {
	return c.cfg
}

// Generation returns the socket generation; it starts at 1 and increases
// every time the socket is recreated.
func (c *Client) Generation() uint64 {
	return c.ep.generation()
}

// LocalAddr returns the local address of the current socket, or nil while
// the socket is being recreated.
func (c *Client) LocalAddr() net.Addr {
	return c.ep.localAddr()
}

// RemoteAddr returns the firmware address.
func (c *Client) RemoteAddr() net.Addr {
	return c.ep.opts.raddr
}

// UnknownWords returns how often each unrecognized routing word was seen.
func (c *Client) UnknownWords() map[string]int64 {
	return c.demux.UnknownWords()
}

// LastSeq returns the last sequence number seen on replies tagged tag.
func (c *Client) LastSeq(tag fxwire.Tag) (uint64, bool) {
	return c.seq.Last(tag)
}

// SeqResets returns how often a reply sequence restarted or went backwards.
func (c *Client) SeqResets() uint64 {
	return c.seq.Resets()
}

// Overwritten returns how many unread replies were replaced by newer ones.
func (c *Client) Overwritten() uint64 {
	return c.demux.Overwritten()
}
