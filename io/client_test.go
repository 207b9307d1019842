// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package io

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

// fakeController is a minimal UDP peer used in place of a real TPI Advanced
// controller, mirroring the fake-peripheral idiom the teacher uses for
// gpiotest/spitest: each test configures scripted behavior, not a real
// socket round-trip with a real device.
type fakeController struct {
	conn *net.UDPConn
	addr *net.UDPAddr

	mu       sync.Mutex
	dropN    int // drop this many requests per sequence before answering
	seenSeqs map[byte]int
}

func newFakeController(t *testing.T) *fakeController {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1")})
	if err != nil {
		t.Fatalf("ListenUDP: %s", err)
	}
	f := &fakeController{conn: conn, addr: conn.LocalAddr().(*net.UDPAddr), seenSeqs: map[byte]int{}}
	return f
}

func (f *fakeController) Close() { f.conn.Close() }

// serveEchoOK replies OK to every request with the request's own sequence,
// used by the no-cross-talk property test.
func (f *fakeController) serveEchoOK(t *testing.T) {
	t.Helper()
	go func() {
		buf := make([]byte, 64)
		for {
			_, src, err := f.conn.ReadFromUDP(buf)
			if err != nil {
				return
			}
			seq := buf[1]
			resp := append([]byte{RespOK, seq, 0x00}, 0)
			resp[3] = checksum(resp[:3])
			_, _ = f.conn.WriteToUDP(resp, src)
		}
	}()
}

// serveDropThenAnswer drops the first dropN attempts for each sequence, then
// answers OK, used by the retry property test.
func (f *fakeController) serveDropThenAnswer(t *testing.T, dropN int) {
	t.Helper()
	go func() {
		buf := make([]byte, 64)
		for {
			_, src, err := f.conn.ReadFromUDP(buf)
			if err != nil {
				return
			}
			seq := buf[1]
			f.mu.Lock()
			f.seenSeqs[seq]++
			count := f.seenSeqs[seq]
			f.mu.Unlock()
			if count <= dropN {
				continue
			}
			resp := append([]byte{RespOK, seq, 0x00}, 0)
			resp[3] = checksum(resp[:3])
			_, _ = f.conn.WriteToUDP(resp, src)
		}
	}()
}

func (f *fakeController) hostPort() (string, int) {
	return f.addr.IP.String(), f.addr.Port
}

func TestClient_ConcurrentSendNoCrossTalk(t *testing.T) {
	fc := newFakeController(t)
	defer fc.Close()
	fc.serveEchoOK(t)

	host, port := fc.hostPort()
	c := NewClient(host, port)
	if err := c.Open(context.Background()); err != nil {
		t.Fatalf("Open: %s", err)
	}
	defer c.Close()

	const n = 32
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := &Request{Cmd: byte(i), Kind: KindBasic, Address: byte(i)}
			resp, err := c.Send(context.Background(), req, 2*time.Second, 0)
			if err != nil {
				errs <- err
				return
			}
			if resp.Timeout {
				errs <- errTimeoutUnexpected
				return
			}
			if resp.Seq != req.Seq {
				errs <- errSeqMismatch
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

var (
	errTimeoutUnexpected = simpleErr("unexpected timeout")
	errSeqMismatch       = simpleErr("response seq did not match request seq")
)

type simpleErr string

func (e simpleErr) Error() string { return string(e) }

func TestClient_RetrySucceedsWithinBudget(t *testing.T) {
	fc := newFakeController(t)
	defer fc.Close()
	fc.serveDropThenAnswer(t, 2) // drops first 2 attempts, answers the 3rd

	host, port := fc.hostPort()
	c := NewClient(host, port)
	clock := clockwork.NewFakeClock()
	c.SetClock(clock)
	if err := c.Open(context.Background()); err != nil {
		t.Fatalf("Open: %s", err)
	}
	defer c.Close()

	done := make(chan *Response, 1)
	go func() {
		req := &Request{Cmd: 0x01, Kind: KindBasic}
		resp, err := c.Send(context.Background(), req, 50*time.Millisecond, 2)
		if err != nil {
			t.Error(err)
		}
		done <- resp
	}()

	// Advance the fake clock past each retry's timeout, with a short real
	// sleep between to let the fake controller's goroutine observe the
	// dropped attempt before the next one is sent.
	for i := 0; i < 2; i++ {
		time.Sleep(20 * time.Millisecond)
		clock.Advance(60 * time.Millisecond)
	}

	select {
	case resp := <-done:
		if resp.Timeout {
			t.Errorf("Send with retries=2 against a peer dropping 2: want success, got timeout")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Send did not return")
	}
}

func TestClient_RetriesExhausted(t *testing.T) {
	fc := newFakeController(t)
	defer fc.Close()
	fc.serveDropThenAnswer(t, 5) // always drops more than we'll retry

	host, port := fc.hostPort()
	c := NewClient(host, port)
	clock := clockwork.NewFakeClock()
	c.SetClock(clock)
	if err := c.Open(context.Background()); err != nil {
		t.Fatalf("Open: %s", err)
	}
	defer c.Close()

	done := make(chan *Response, 1)
	go func() {
		req := &Request{Cmd: 0x01, Kind: KindBasic}
		resp, _ := c.Send(context.Background(), req, 20*time.Millisecond, 1)
		done <- resp
	}()
	for i := 0; i < 2; i++ {
		time.Sleep(10 * time.Millisecond)
		clock.Advance(30 * time.Millisecond)
	}
	select {
	case resp := <-done:
		if !resp.Timeout {
			t.Errorf("want TIMEOUT, got %+v", resp)
		}
		if resp.Attempts != 2 {
			t.Errorf("Attempts = %d, want 2", resp.Attempts)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Send did not return")
	}
}

func TestClient_SequenceMismatchNeverSatisfiesWaiter(t *testing.T) {
	// S3 from the spec: the reply carries seq=0x22, which matches no request
	// in flight (this client's first request goes out with seq=0x00).
	fc := newFakeController(t)
	defer fc.Close()
	go func() {
		buf := make([]byte, 64)
		n, src, err := fc.conn.ReadFromUDP(buf)
		if err != nil || n == 0 {
			return
		}
		resp := []byte{RespOK, 0x22, 0x00, 0}
		resp[3] = checksum(resp[:3])
		_, _ = fc.conn.WriteToUDP(resp, src)
	}()

	host, port := fc.hostPort()
	c := NewClient(host, port)
	clock := clockwork.NewFakeClock()
	c.SetClock(clock)
	if err := c.Open(context.Background()); err != nil {
		t.Fatalf("Open: %s", err)
	}
	defer c.Close()

	done := make(chan *Response, 1)
	go func() {
		req := &Request{Cmd: 0x01, Kind: KindBasic}
		resp, _ := c.Send(context.Background(), req, 20*time.Millisecond, 0)
		done <- resp
	}()
	time.Sleep(20 * time.Millisecond)
	clock.Advance(30 * time.Millisecond)
	select {
	case resp := <-done:
		if !resp.Timeout {
			t.Errorf("want TIMEOUT on sequence mismatch, got %+v", resp)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Send did not return")
	}
}

func TestClient_MalformedIngressNeverSatisfiesWaiter(t *testing.T) {
	fc := newFakeController(t)
	defer fc.Close()
	go func() {
		buf := make([]byte, 64)
		n, src, err := fc.conn.ReadFromUDP(buf)
		if err != nil || n == 0 {
			return
		}
		// Bad checksum.
		_, _ = fc.conn.WriteToUDP([]byte{RespOK, buf[1], 0x00, 0xFF}, src)
	}()

	host, port := fc.hostPort()
	c := NewClient(host, port)
	clock := clockwork.NewFakeClock()
	c.SetClock(clock)
	if err := c.Open(context.Background()); err != nil {
		t.Fatalf("Open: %s", err)
	}
	defer c.Close()

	done := make(chan *Response, 1)
	go func() {
		req := &Request{Cmd: 0x01, Kind: KindBasic}
		resp, _ := c.Send(context.Background(), req, 20*time.Millisecond, 0)
		done <- resp
	}()
	time.Sleep(20 * time.Millisecond)
	clock.Advance(30 * time.Millisecond)
	select {
	case resp := <-done:
		if !resp.Timeout {
			t.Errorf("want TIMEOUT on malformed response, got %+v", resp)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Send did not return")
	}
}

func TestClient_CloseCancelsWaiters(t *testing.T) {
	fc := newFakeController(t)
	defer fc.Close()
	// No server goroutine: nothing ever answers.

	host, port := fc.hostPort()
	c := NewClient(host, port)
	if err := c.Open(context.Background()); err != nil {
		t.Fatalf("Open: %s", err)
	}

	done := make(chan *Response, 1)
	go func() {
		req := &Request{Cmd: 0x01, Kind: KindBasic}
		resp, _ := c.Send(context.Background(), req, 5*time.Second, 0)
		done <- resp
	}()
	time.Sleep(20 * time.Millisecond)
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %s", err)
	}
	select {
	case resp := <-done:
		if !resp.Timeout {
			t.Errorf("Close(): want waiters cancelled with TIMEOUT, got %+v", resp)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Send did not return after Close")
	}
}
