package fxcli

import (
	"time"

	"github.com/fxlink/go-fxcli/fxwire"
)

// Observer receives client events. Methods are called synchronously from
// the caller goroutine (OnSend, OnReply, OnTimeout) or from the goroutine
// that recreated the socket (OnRecreate), so implementations must be fast
// and safe for concurrent use.
type Observer interface {
	// OnSend is called after a command datagram has been sent.
	OnSend(tag fxwire.Tag, cmd string)
	// OnReply is called when an exchange received its reply.
	OnReply(tag fxwire.Tag, latency time.Duration)
	// OnTimeout is called when an exchange gave up waiting.
	OnTimeout(tag fxwire.Tag, timeout time.Duration)
	// OnRecreate is called after a socket fault was handled. err is nil when
	// the new socket is up.
	OnRecreate(cause error, err error)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) OnSend(fxwire.Tag, string)           {}
func (NopObserver) OnReply(fxwire.Tag, time.Duration)   {}
func (NopObserver) OnTimeout(fxwire.Tag, time.Duration) {}
func (NopObserver) OnRecreate(error, error)             {}
