//go:build !unix

package fxcli

import (
	"net"
	"time"
)

// drainWait is the read deadline used to emulate a non-blocking receive.
const drainWait = 50 * time.Microsecond

// recvNow receives one queued datagram, waiting at most drainWait.
func recvNow(conn *net.UDPConn, buf []byte) (int, error) {
	if err := conn.SetReadDeadline(time.Now().Add(drainWait)); err != nil {
		return 0, err
	}

	return conn.Read(buf)
}
