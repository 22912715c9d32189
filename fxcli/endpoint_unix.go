//go:build unix

package fxcli

import (
	"net"

	"golang.org/x/sys/unix"
)

// recvNow receives one queued datagram without blocking. It returns
// unix.EAGAIN when the receive queue is empty.
func recvNow(conn *net.UDPConn, buf []byte) (int, error) {
	rc, err := conn.SyscallConn()
	if err != nil {
		return 0, err
	}

	var (
		n    int
		rerr error
	)
	err = rc.Read(func(fd uintptr) bool {
		n, _, rerr = unix.Recvfrom(int(fd), buf, unix.MSG_DONTWAIT)
		return true
	})
	if err != nil {
		return 0, err
	}

	return n, rerr
}
