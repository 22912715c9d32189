package fxcli

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fxlink/go-fxcli/fxwire"
	"github.com/fxlink/go-fxcli/logger"
)

// replyFunc returns the datagrams the fake firmware answers cmd with.
type replyFunc func(cmd string) []string

// fakeFirmware is a loopback UDP peer that records commands and answers
// them through a replyFunc.
type fakeFirmware struct {
	t    testing.TB
	conn *net.UDPConn
	wg   sync.WaitGroup

	mu       sync.Mutex
	handler  replyFunc
	commands []string
}

func newFakeFirmware(t testing.TB, handler replyFunc) *fakeFirmware {
	t.Helper()

	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)

	fw := &fakeFirmware{t: t, conn: conn, handler: handler}
	fw.wg.Add(1)
	go fw.serve()

	t.Cleanup(func() {
		_ = fw.conn.Close()
		fw.wg.Wait()
	})

	return fw
}

func (fw *fakeFirmware) serve() {
	defer fw.wg.Done()

	buf := make([]byte, 2048)
	for {
		n, addr, err := fw.conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			continue
		}

		cmd := string(buf[:n])
		fw.mu.Lock()
		fw.commands = append(fw.commands, cmd)
		handler := fw.handler
		fw.mu.Unlock()

		if handler == nil {
			continue
		}
		for _, reply := range handler(cmd) {
			_, _ = fw.conn.WriteToUDP([]byte(reply), addr)
		}
	}
}

func (fw *fakeFirmware) port() int {
	return fw.conn.LocalAddr().(*net.UDPAddr).Port
}

func (fw *fakeFirmware) setHandler(handler replyFunc) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	fw.handler = handler
}

func (fw *fakeFirmware) received() []string {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	return append([]string(nil), fw.commands...)
}

// sendTo writes unsolicited replies to the current socket of c.
func (fw *fakeFirmware) sendTo(c *Client, replies ...string) {
	fw.t.Helper()

	addr, ok := c.LocalAddr().(*net.UDPAddr)
	require.True(fw.t, ok)

	// the client socket is bound to the wildcard address on some systems
	dst := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: addr.Port}
	for _, reply := range replies {
		_, err := fw.conn.WriteToUDP([]byte(reply), dst)
		require.NoError(fw.t, err)
	}
}

// ackAll acknowledges every command with "OK <KEYWORD>".
func ackAll(cmd string) []string {
	return []string{"OK <" + keywordOf(cmd) + ">"}
}

func keywordOf(cmd string) string {
	kw := strings.TrimPrefix(cmd, fxwire.CommandPrefix)
	if i := strings.IndexByte(kw, ' '); i >= 0 {
		kw = kw[:i]
	}

	return kw
}

func newTestLogger() *logger.MockLogger {
	return logger.NewMockLogger().AllowAll()
}

func newTestClient(t testing.TB, fw *fakeFirmware, opts ...Option) *Client {
	t.Helper()

	opts = append([]Option{WithLogger(newTestLogger())}, opts...)
	c, err := Dial(context.Background(), "127.0.0.1", fw.port(), opts...)
	require.NoError(t, err)

	t.Cleanup(func() { _ = c.Close() })

	return c
}

// recordingObserver records the tags of observed events.
type recordingObserver struct {
	mu        sync.Mutex
	sends     []fxwire.Tag
	replies   []fxwire.Tag
	timeouts  []fxwire.Tag
	recreates []error
}

func (o *recordingObserver) OnSend(tag fxwire.Tag, _ string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sends = append(o.sends, tag)
}

func (o *recordingObserver) OnReply(tag fxwire.Tag, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.replies = append(o.replies, tag)
}

func (o *recordingObserver) OnTimeout(tag fxwire.Tag, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.timeouts = append(o.timeouts, tag)
}

func (o *recordingObserver) OnRecreate(_ error, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.recreates = append(o.recreates, err)
}
