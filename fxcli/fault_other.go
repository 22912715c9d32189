//go:build !unix

package fxcli

import (
	"errors"
	"net"
	"os"
)

func isTransient(err error) bool {
	return errors.Is(err, os.ErrDeadlineExceeded)
}

func isSocketFault(err error) bool {
	return errors.Is(err, net.ErrClosed) || errors.Is(err, ErrEndpointDown)
}
