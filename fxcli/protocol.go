package fxcli

import (
	"errors"
	"fmt"
	"time"

	"github.com/fxlink/go-fxcli/fxwire"
	"github.com/fxlink/go-fxcli/logger"
)

// Exchange sends cmd and waits up to timeout for the next reply tagged tag.
//
// The tag slot is cleared before sending, so only a reply that arrives after
// the call started can satisfy it. Concurrent exchanges on the same tag are
// serialized; exchanges on different tags run in parallel. Exchange sends
// at most once and never retries.
//
// It returns ErrInvalidTag, ErrClientClosed, an error wrapping ErrSendFailed
// or ErrReplyTimeout.
func (c *Client) Exchange(tag fxwire.Tag, cmd string, timeout time.Duration) (fxwire.Reply, error) {
	if !tag.Valid() {
		return fxwire.Reply{}, ErrInvalidTag
	}
	if c.isClosed() {
		return fxwire.Reply{}, ErrClientClosed
	}

	mu := &c.exchangeMu[tag.Index()]
	mu.Lock()
	defer mu.Unlock()

	s := c.demux.Slot(tag)
	s.Clear()

	start := time.Now()
	if err := c.send(tag, cmd); err != nil {
		return fxwire.Reply{}, err
	}

	r, ok := s.WaitAndTake(timeout)
	if !ok {
		c.metrics.incTimeoutCount()
		c.observer.OnTimeout(tag, timeout)
		if c.logger.Level() == logger.DebugLevel {
			c.logger.Debug("reply timeout", "method", "Exchange", "tag", tag, "timeout", timeout)
		}

		return fxwire.Reply{}, ErrReplyTimeout
	}

	c.observer.OnReply(tag, time.Since(start))

	return r, nil
}

// send writes cmd as one datagram. A fatal socket error triggers socket
// recreation before the failure is returned.
func (c *Client) send(tag fxwire.Tag, cmd string) error {
	gen, err := c.ep.send([]byte(cmd))
	if err != nil {
		if errors.Is(err, ErrClientClosed) || c.isClosed() {
			return ErrClientClosed
		}

		c.metrics.incSendErrCount()
		c.logger.Warn("failed to send command", "method", "send", "tag", tag, "error", err)
		if isFatal(err) {
			c.recoverEndpoint(gen, err)
		}

		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}

	c.metrics.incSendCount()
	c.observer.OnSend(tag, cmd)
	if c.logger.Level() == logger.DebugLevel {
		c.logger.Debug("command sent", "method", "send", "tag", tag, "cmd", cmd)
	}

	return nil
}

// confirm runs a fire-and-confirm command and sleeps the settle delay after
// a confirmed one.
func (c *Client) confirm(tag fxwire.Tag, ids []uint8) bool {
	cmd, err := fxwire.BuildCommand(tag, ids)
	if err != nil {
		return false
	}

	if _, err := c.Exchange(tag, cmd, c.cfg.generalTimeout); err != nil {
		return false
	}

	if c.cfg.settleDelay > 0 {
		time.Sleep(c.cfg.settleDelay)
	}

	return true
}

// query runs a command and returns the raw reply payload, or "" when no
// reply arrived within timeout.
func (c *Client) query(tag fxwire.Tag, ids []uint8, timeout time.Duration) string {
	cmd, err := fxwire.BuildCommand(tag, ids)
	if err != nil {
		return ""
	}

	r, err := c.Exchange(tag, cmd, timeout)
	if err != nil {
		return ""
	}

	return r.Payload
}

// MotorStart enables the motors with the given ids, or every motor when no
// id is given. It reports whether the firmware acknowledged in time.
func (c *Client) MotorStart(ids ...uint8) bool {
	return c.confirm(fxwire.TagStart, ids)
}

// MotorStop disables the motors with the given ids, or every motor.
func (c *Client) MotorStop(ids ...uint8) bool {
	return c.confirm(fxwire.TagStop, ids)
}

// MotorEStop emergency-stops the motors with the given ids, or every motor.
func (c *Client) MotorEStop(ids ...uint8) bool {
	return c.confirm(fxwire.TagEStop, ids)
}

// MotorSetZero sets the current position of the given motors as zero.
func (c *Client) MotorSetZero(ids ...uint8) bool {
	return c.confirm(fxwire.TagSetZero, ids)
}

// Ping returns the raw PING reply, or "" when the firmware did not answer
// within the general timeout.
func (c *Client) Ping() string {
	return c.query(fxwire.TagPing, nil, c.cfg.generalTimeout)
}

// WhoAmI returns the raw identification reply, or "".
func (c *Client) WhoAmI() string {
	return c.query(fxwire.TagWhoAmI, nil, c.cfg.generalTimeout)
}

// Req requests telemetry of the given motors and returns the raw reply, or
// "" when none arrived within the real-time timeout.
func (c *Client) Req(ids ...uint8) string {
	return c.query(fxwire.TagReq, ids, c.cfg.realtimeTimeout)
}

// Status returns the raw controller status reply, or "".
func (c *Client) Status() string {
	return c.query(fxwire.TagStatus, nil, c.cfg.realtimeTimeout)
}

// OperationControl sends one MIT setpoint frame per motor id without waiting
// for an acknowledgment. All slices must have the length of ids.
func (c *Client) OperationControl(ids []uint8, pos, vel, kp, kd, tau []float32) error {
	cmd, err := fxwire.BuildControl(ids, pos, vel, kp, kd, tau)
	if err != nil {
		return err
	}

	return c.sendControl(cmd)
}

// SendControl is OperationControl taking one struct per motor.
func (c *Client) SendControl(frames ...fxwire.ControlFrame) error {
	cmd, err := fxwire.BuildControlFrames(frames...)
	if err != nil {
		return err
	}

	return c.sendControl(cmd)
}

func (c *Client) sendControl(cmd string) error {
	if c.isClosed() {
		return ErrClientClosed
	}

	return c.send(fxwire.TagControl, cmd)
}

// Flush drops every unread reply. It waits for running exchanges to finish.
func (c *Client) Flush() {
	for i := range c.exchangeMu {
		c.exchangeMu[i].Lock()
	}

	c.demux.ClearAll()

	for i := len(c.exchangeMu) - 1; i >= 0; i-- {
		c.exchangeMu[i].Unlock()
	}
}
