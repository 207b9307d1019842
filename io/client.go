// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package io

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultTimeout is the default per-attempt wait for a response.
const DefaultTimeout = 1500 * time.Millisecond

// MinTimeout and MaxTimeout bound the timeout a caller may request.
const (
	MinTimeout = 10 * time.Millisecond
	MaxTimeout = 10 * time.Second
)

// clampTimeout clamps d to [MinTimeout, MaxTimeout], substituting
// DefaultTimeout for a zero value.
func clampTimeout(d time.Duration) time.Duration {
	if d == 0 {
		d = DefaultTimeout
	}
	if d < MinTimeout {
		return MinTimeout
	}
	if d > MaxTimeout {
		return MaxTimeout
	}
	return d
}

// errNoFreeSequence is returned by send when all 256 sequence numbers are
// in flight. This is allowed to be fatal for the current call, per spec.
var errNoFreeSequence = errors.New("io: no free sequence number")

type waiter struct {
	ch chan *Response
}

// Client is a UDP request/response endpoint bound to one controller's
// (host, port). One Client serves one remote; concurrent Send calls against
// the same Client are safe and are correlated independently by sequence
// byte.
type Client struct {
	addr *net.UDPAddr
	name string // for log lines and errors

	clock clockwork.Clock

	mu      sync.Mutex
	conn    *net.UDPConn
	next    byte
	pending map[byte]*waiter
	closed  bool
}

// NewClient constructs a Client for the given remote (host, port). It does
// not open a socket; call Open before Send.
func NewClient(host string, port int) *Client {
	return &Client{
		addr:    &net.UDPAddr{IP: net.ParseIP(host), Port: port},
		name:    fmt.Sprintf("%s:%d", host, port),
		clock:   clockwork.NewRealClock(),
		pending: map[byte]*waiter{},
	}
}

// SetClock overrides the clock used for timeouts; intended for tests.
func (c *Client) SetClock(clock clockwork.Clock) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clock = clock
}

// Open binds a connected UDP socket to the remote and starts the read loop.
func (c *Client) Open(ctx context.Context) error {
	conn, err := net.DialUDP("udp", nil, c.addr)
	if err != nil {
		return &connError{op: "dial", err: err}
	}
	c.mu.Lock()
	c.conn = conn
	c.closed = false
	c.mu.Unlock()
	go c.readLoop(ctx, conn)
	return nil
}

// Close tears down the socket and cancels all outstanding waiters with a
// TIMEOUT response.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	conn := c.conn
	pending := c.pending
	c.pending = map[byte]*waiter{}
	c.mu.Unlock()

	for _, w := range pending {
		select {
		case w.ch <- &Response{Timeout: true}:
		default:
		}
	}
	if conn != nil {
		return conn.Close()
	}
	return nil
}

// readLoop reads datagrams until the socket is closed, validating and
// routing each response to its waiter.
func (c *Client) readLoop(ctx context.Context, conn *net.UDPConn) {
	buf := make([]byte, 2048)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			// Socket closed or fatal read error; nothing left to do here, the
			// pending waiters were already cancelled by Close.
			return
		}
		resp, err := DecodeResponse(buf[:n])
		if err != nil {
			// Malformed ingress is silently discarded, per spec; never raise.
			log.Printf("io: %s: discarding malformed response: %s", c.name, err)
			continue
		}
		c.dispatch(resp)
	}
}

// dispatch routes a decoded response to its waiter, if any is still
// registered for its sequence byte. Unmatched or duplicate responses are
// discarded.
func (c *Client) dispatch(resp *Response) {
	c.mu.Lock()
	w, ok := c.pending[resp.Seq]
	if ok {
		delete(c.pending, resp.Seq)
	}
	c.mu.Unlock()
	if !ok {
		return
	}
	select {
	case w.ch <- resp:
	default:
	}
}

// allocSeq finds a sequence byte with no in-flight waiter and registers one
// for it, returning the byte and its response channel.
func (c *Client) allocSeq() (byte, chan *Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	start := c.next
	for {
		seq := c.next
		c.next++
		if _, busy := c.pending[seq]; !busy {
			ch := make(chan *Response, 1)
			c.pending[seq] = &waiter{ch: ch}
			return seq, ch, nil
		}
		if c.next == start {
			return 0, nil, errNoFreeSequence
		}
	}
}

func (c *Client) forgetSeq(seq byte) {
	c.mu.Lock()
	delete(c.pending, seq)
	c.mu.Unlock()
}

// Send transmits req (after setting its sequence) and waits up to timeout
// for a matching response, retrying up to retries additional times on
// timeout while reusing the same sequence byte so a late duplicate from a
// prior attempt can still satisfy the waiter. If no response matches after
// retries+1 total attempts, it returns a Response with Timeout set to true.
func (c *Client) Send(ctx context.Context, req *Request, timeout time.Duration, retries int) (*Response, error) {
	timeout = clampTimeout(timeout)

	c.mu.Lock()
	conn := c.conn
	closed := c.closed
	clock := c.clock
	c.mu.Unlock()
	if closed || conn == nil {
		return nil, &connError{op: "send", err: errors.New("client not open")}
	}

	seq, ch, err := c.allocSeq()
	if err != nil {
		return nil, err
	}
	defer c.forgetSeq(seq)
	req.Seq = seq
	frame := req.Encode()

	start := clock.Now()
	for attempt := 1; attempt <= retries+1; attempt++ {
		if _, err := conn.Write(frame); err != nil {
			return nil, &connError{op: "write", err: err}
		}
		select {
		case resp := <-ch:
			resp.Attempts = attempt
			resp.Elapsed = clock.Now().Sub(start)
			return resp, nil
		case <-clock.After(timeout):
			// Retry with the same sequence byte.
		case <-ctx.Done():
			return &Response{Timeout: true, Attempts: attempt, Elapsed: clock.Now().Sub(start)}, nil
		}
	}
	return &Response{Timeout: true, Attempts: retries + 1, Elapsed: clock.Now().Sub(start)}, nil
}

// connError is a small unexported carrier; the exceptions package provides
// the typed errors the protocol layer surfaces to callers. Keeping the io
// layer's own connection error unexported avoids a dependency from io (the
// lowest layer) up to exceptions.
type connError struct {
	op  string
	err error
}

func (e *connError) Error() string { return fmt.Sprintf("io: %s: %s", e.op, e.err) }
func (e *connError) Unwrap() error { return e.err }
