//go:build unix

package fxcli

import (
	"errors"
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// socketFaults are the errors after which the socket is unusable, or at
// least must be replaced to get rid of a pending error.
var socketFaults = []error{
	unix.EBADF,
	unix.ECONNRESET,
	unix.ECONNREFUSED,
	unix.ENETDOWN,
	unix.ENETUNREACH,
	unix.ENOTCONN,
	net.ErrClosed,
	ErrEndpointDown,
}

// isTransient reports whether err only means "nothing to do right now".
func isTransient(err error) bool {
	return errors.Is(err, os.ErrDeadlineExceeded) ||
		errors.Is(err, unix.EAGAIN) ||
		errors.Is(err, unix.EWOULDBLOCK) ||
		errors.Is(err, unix.EINTR)
}

// isSocketFault reports whether err is one of the known socket faults.
func isSocketFault(err error) bool {
	for _, fault := range socketFaults {
		if errors.Is(err, fault) {
			return true
		}
	}

	return false
}
