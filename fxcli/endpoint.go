package fxcli

import (
	"fmt"
	"net"
	"sync"

	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

type endpointOptions struct {
	laddr       *net.UDPAddr
	raddr       *net.UDPAddr
	readBuffer  int
	writeBuffer int
	tos         int
}

// endpoint owns the connected UDP socket. Sends and receives take the read
// lock only to fetch the handle; replace and close take the write lock.
//
// Each socket has a generation number. A fault is handled only when it was
// observed on the current generation, so the engine and a failed send never
// recreate the socket twice for one fault.
type endpoint struct {
	opts endpointOptions

	mu     sync.RWMutex
	conn   *net.UDPConn // nil while down after a failed recreation
	gen    uint64
	closed bool
}

func openEndpoint(opts endpointOptions) (*endpoint, error) {
	conn, err := dialUDP(opts)
	if err != nil {
		return nil, err
	}

	return &endpoint{opts: opts, conn: conn, gen: 1}, nil
}

// dialUDP creates a connected UDP socket with opts applied. Connecting lets
// the kernel filter foreign senders and report ICMP errors on the socket.
func dialUDP(opts endpointOptions) (*net.UDPConn, error) {
	conn, err := net.DialUDP("udp", opts.laddr, opts.raddr)
	if err != nil {
		return nil, err
	}

	if opts.readBuffer > 0 {
		if err := conn.SetReadBuffer(opts.readBuffer); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("set read buffer: %w", err)
		}
	}

	if opts.writeBuffer > 0 {
		if err := conn.SetWriteBuffer(opts.writeBuffer); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("set write buffer: %w", err)
		}
	}

	if opts.tos > 0 {
		if opts.raddr.IP.To4() != nil {
			err = ipv4.NewConn(conn).SetTOS(opts.tos)
		} else {
			err = ipv6.NewConn(conn).SetTrafficClass(opts.tos)
		}
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("set tos: %w", err)
		}
	}

	return conn, nil
}

// current returns the socket handle and its generation. It returns
// ErrClientClosed after close and ErrEndpointDown, with the generation to
// pass to replace, while no socket is available.
func (ep *endpoint) current() (*net.UDPConn, uint64, error) {
	ep.mu.RLock()
	defer ep.mu.RUnlock()

	switch {
	case ep.closed:
		return nil, ep.gen, ErrClientClosed
	case ep.conn == nil:
		return nil, ep.gen, ErrEndpointDown
	}

	return ep.conn, ep.gen, nil
}

// send writes b as one datagram and returns the generation it was sent on.
func (ep *endpoint) send(b []byte) (uint64, error) {
	conn, gen, err := ep.current()
	if err != nil {
		return gen, err
	}

	_, err = conn.Write(b)

	return gen, err
}

// replace closes the socket of generation gen and opens a new one with the
// same options. It returns false without doing anything when gen is stale,
// i.e. the fault was already handled. A failed open leaves the endpoint
// down under a new generation, so the next replace retries.
func (ep *endpoint) replace(gen uint64) (bool, error) {
	ep.mu.Lock()
	defer ep.mu.Unlock()

	if ep.closed {
		return false, ErrClientClosed
	}
	if gen != ep.gen {
		return false, nil
	}

	if ep.conn != nil {
		_ = ep.conn.Close()
		ep.conn = nil
	}
	ep.gen++

	conn, err := dialUDP(ep.opts)
	if err != nil {
		return false, err
	}
	ep.conn = conn

	return true, nil
}

// generation returns the current socket generation.
func (ep *endpoint) generation() uint64 {
	ep.mu.RLock()
	defer ep.mu.RUnlock()

	return ep.gen
}

func (ep *endpoint) localAddr() net.Addr {
	ep.mu.RLock()
	defer ep.mu.RUnlock()

	if ep.conn == nil {
		return nil
	}

	return ep.conn.LocalAddr()
}

func (ep *endpoint) close() error {
	ep.mu.Lock()
	defer ep.mu.Unlock()

	if ep.closed {
		return nil
	}
	ep.closed = true

	if ep.conn == nil {
		return nil
	}

	return ep.conn.Close()
}
