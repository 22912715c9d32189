package fxcli

import (
	"errors"
	"net"
	"time"

	"github.com/fxlink/go-fxcli/fxwire"
	"github.com/fxlink/go-fxcli/internal/rtsched"
	"github.com/fxlink/go-fxcli/logger"
)

const receiveTaskName = "receiveEngine"

// setupEngineThread runs once on the locked engine thread.
func (c *Client) setupEngineThread() {
	if !c.cfg.realtime.Enabled() {
		return
	}

	res := rtsched.Apply(c.cfg.realtime)
	c.logger.Debug("realtime scheduling applied", append([]any{"method", "setupEngineThread"}, res.KeyValues()...)...)
}

// receiveTask is one iteration of the receive engine: wait for the socket to
// become readable, drain what is queued within the drain budget and route
// every datagram. It returns false once the client is closed.
func (c *Client) receiveTask() bool {
	if c.isClosed() {
		return false
	}

	conn, gen, err := c.ep.current()
	if err != nil {
		if errors.Is(err, ErrClientClosed) {
			return false
		}
		if !c.recoverEndpoint(gen, err) {
			time.Sleep(c.cfg.pollInterval)
		}

		return true
	}

	bufp := c.bufPool.Get()
	defer c.bufPool.Put(bufp)
	buf := *bufp

	_ = conn.SetReadDeadline(time.Now().Add(c.cfg.pollInterval))
	n, err := conn.Read(buf)
	if err != nil {
		return c.handleRecvErr(gen, err)
	}
	c.accept(buf[:n])

	// the wait deadline would cut the drain short
	_ = conn.SetReadDeadline(time.Time{})

	if err := c.drain(conn, buf, time.Now().Add(c.cfg.drainBudget)); err != nil {
		return c.handleRecvErr(gen, err)
	}

	return true
}

// drain routes queued datagrams until the receive queue is empty or the
// deadline passes. It returns the error that ended the drain, which is
// transient for an empty queue, or nil when the deadline cut it short and
// the rest waits for the next iteration.
func (c *Client) drain(conn *net.UDPConn, buf []byte, deadline time.Time) error {
	for time.Now().Before(deadline) {
		n, err := recvNow(conn, buf)
		if err != nil {
			return err
		}
		c.accept(buf[:n])
	}

	c.metrics.incDrainCutCount()

	return nil
}

func (c *Client) handleRecvErr(gen uint64, err error) bool {
	if c.isClosed() {
		return false
	}

	if !isFatal(err) {
		return true
	}

	if !c.recoverEndpoint(gen, err) && c.ep.generation() == gen {
		time.Sleep(c.cfg.pollInterval)
	}

	return true
}

// recoverEndpoint replaces the socket of generation gen after cause. It is
// shared by the engine and the send path; only the first caller for a
// generation does the work. It reports whether a new socket is up.
func (c *Client) recoverEndpoint(gen uint64, cause error) bool {
	replaced, err := c.ep.replace(gen)
	switch {
	case errors.Is(err, ErrClientClosed):
		return false
	case err != nil:
		c.metrics.incRecreateErrCount()
		c.logger.Error("failed to recreate socket",
			"method", "recoverEndpoint", "cause", cause, "error", err)
		c.observer.OnRecreate(cause, err)

		return false
	case !replaced:
		return false
	}

	c.metrics.incRecreateCount()
	if isSocketFault(cause) {
		c.logger.Warn("socket recreated",
			"method", "recoverEndpoint", "cause", cause, "generation", gen+1)
	} else {
		c.logger.Error("socket recreated after unexpected error",
			"method", "recoverEndpoint", "cause", cause, "generation", gen+1)
	}
	c.observer.OnRecreate(cause, nil)

	return true
}

// accept parses one datagram and routes it to its tag slot.
func (c *Client) accept(b []byte) {
	c.metrics.incRecvCount()
	debug := c.logger.Level() == logger.DebugLevel

	r, err := fxwire.ParseReply(string(b))
	switch {
	case errors.Is(err, fxwire.ErrUnknownTag):
		c.metrics.incUnknownTagCount()
		c.demux.Route(r)
		if debug {
			c.logger.Debug("drop reply with unknown tag", "method", "accept", "word", r.Word)
		}

		return
	case err != nil:
		c.metrics.incMalformedCount()
		if debug {
			c.logger.Debug("drop malformed reply", "method", "accept", "error", err, "len", len(b))
		}

		return
	}

	r.Arrival = time.Now()

	if r.HasSeq {
		if lost := c.seq.Observe(r.Tag, r.Seq); lost > 0 {
			c.metrics.addSeqGap(lost)
			c.logger.Warn("reply sequence gap",
				"method", "accept", "tag", r.Tag, "seq", r.Seq, "lost", lost)
		}
	}

	if c.demux.Route(r) {
		c.metrics.incRoutedCount()
	}

	if debug {
		c.logger.Debug("reply routed", "method", "accept", "tag", r.Tag, "len", len(b))
	}
}
