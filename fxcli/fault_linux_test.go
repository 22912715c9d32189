//go:build linux

package fxcli

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestIsFatal_Errno(t *testing.T) {
	require.False(t, isFatal(unix.EAGAIN))
	require.False(t, isFatal(unix.EINTR))
	require.True(t, isFatal(unix.ECONNREFUSED))
	require.True(t, isSocketFault(&net.OpError{Op: "read", Err: unix.ECONNRESET}))
	require.False(t, isSocketFault(unix.EPERM))
}

// A connected UDP socket reports ICMP port unreachable as ECONNREFUSED on
// the next receive.
func TestClient_RecoverConnRefused(t *testing.T) {
	require := require.New(t)

	l, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(err)
	port := l.LocalAddr().(*net.UDPAddr).Port
	require.NoError(l.Close())

	c, err := Dial(context.Background(), "127.0.0.1", port,
		WithLogger(newTestLogger()),
		WithGeneralTimeout(20*time.Millisecond),
	)
	require.NoError(err)
	defer c.Close()

	require.Empty(c.Ping())

	require.Eventually(func() bool {
		return c.Metrics().RecreateCount.Load() >= 1
	}, time.Second, time.Millisecond)
	require.Greater(c.Generation(), uint64(1))
}
