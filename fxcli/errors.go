package fxcli

import "errors"

var (
	// ErrConfigNil indicates that a nil Config was provided.
	ErrConfigNil = errors.New("fxcli: config is nil")

	// ErrClientClosed indicates an operation on a closed client.
	ErrClientClosed = errors.New("fxcli: client closed")

	// ErrCloseTimeout indicates that the receive engine did not stop within
	// the configured close timeout.
	ErrCloseTimeout = errors.New("fxcli: close timeout")
)

var (
	// ErrInvalidTag indicates an exchange on a tag that has no reply slot.
	ErrInvalidTag = errors.New("fxcli: invalid reply tag")

	// ErrSendFailed indicates that a command datagram could not be sent. It
	// wraps the underlying socket error.
	ErrSendFailed = errors.New("fxcli: send failed")

	// ErrReplyTimeout indicates that no matching reply arrived in time.
	ErrReplyTimeout = errors.New("fxcli: reply timeout")

	// ErrEndpointDown indicates that the socket is being recreated after a
	// fault and no handle is available.
	ErrEndpointDown = errors.New("fxcli: socket unavailable")
)
