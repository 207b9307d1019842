// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package api

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/zencontrol/zencontrol-go/exceptions"
)

// fakeController answers every request with a canned response built by the
// supplied function, letting each test script the exact ingress bytes a
// wrapper method is expected to decode.
type fakeController struct {
	conn *net.UDPConn
}

func newFakeController(t *testing.T, respond func(reqSeq byte) []byte) *fakeController {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatal(err)
	}
	f := &fakeController{conn: conn}
	t.Cleanup(func() { conn.Close() })
	go func() {
		buf := make([]byte, 2048)
		for {
			n, addr, err := conn.ReadFromUDP(buf)
			if err != nil {
				return
			}
			reqSeq := buf[1]
			resp := respond(reqSeq)
			if resp == nil {
				continue
			}
			conn.WriteToUDP(resp, addr)
		}
	}()
	return f
}

func (f *fakeController) hostPort() (string, int) {
	addr := f.conn.LocalAddr().(*net.UDPAddr)
	return "127.0.0.1", addr.Port
}

func encodeAnswer(seq byte, data []byte) []byte {
	buf := append([]byte{RespAnswerForTest, seq, byte(len(data))}, data...)
	return append(buf, xorForTest(buf))
}

// RespAnswerForTest mirrors io.RespAnswer without importing the io package
// into the test; kept local to the test file.
const RespAnswerForTest = 0xA1

func xorForTest(b []byte) byte {
	var x byte
	for _, c := range b {
		x ^= c
	}
	return x
}

func TestProtocol_QueryControllerLabel_CachesResult(t *testing.T) {
	calls := 0
	fc := newFakeController(t, func(seq byte) []byte {
		calls++
		return encodeAnswer(seq, []byte("Kitchen"))
	})
	host, port := fc.hostPort()

	p := NewProtocol()
	clock := clockwork.NewFakeClock()
	p.Cache().SetClock(clock)
	ctx := context.Background()
	if err := p.AddController(ctx, 1, host, port); err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	got, err := p.QueryControllerLabel(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Kitchen" {
		t.Errorf("got %q, want Kitchen", got)
	}

	got2, err := p.QueryControllerLabel(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got2 != "Kitchen" {
		t.Errorf("got %q, want Kitchen", got2)
	}
	if calls != 1 {
		t.Errorf("expected the cache to short-circuit the second call, controller saw %d requests", calls)
	}

	clock.Advance(CacheTTL + time.Second)
	if _, err := p.QueryControllerLabel(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("expected a cache miss after TTL expiry, controller saw %d requests", calls)
	}
}

func TestProtocol_QueryLevel_DecodesSingleByte(t *testing.T) {
	fc := newFakeController(t, func(seq byte) []byte {
		return encodeAnswer(seq, []byte{200})
	})
	host, port := fc.hostPort()

	p := NewProtocol()
	ctx := context.Background()
	if err := p.AddController(ctx, 1, host, port); err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	addr, _ := NewAddress(AddressECG, 2)
	level, err := p.QueryLevel(ctx, 1, addr)
	if err != nil {
		t.Fatal(err)
	}
	if level != 200 {
		t.Errorf("got %d, want 200", level)
	}
}

func TestProtocol_UnregisteredController_Errors(t *testing.T) {
	p := NewProtocol()
	if _, err := p.QueryControllerLabel(context.Background(), 99); err == nil {
		t.Error("expected an error for an unregistered controller, got nil")
	}
}

func TestProtocol_Timeout_ReturnsTimeoutErrorNotConnectionError(t *testing.T) {
	fc := newFakeController(t, func(seq byte) []byte { return nil }) // never answers
	host, port := fc.hostPort()

	p := NewProtocol()
	ctx := context.Background()
	if err := p.AddController(ctx, 1, host, port); err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	_, err := p.QueryLevel(ctx, 1, Address{Kind: AddressECG})
	if err == nil {
		t.Fatal("expected a timeout error")
	}
	var te *exceptions.TimeoutError
	if !errors.As(err, &te) {
		t.Errorf("err = %v (%T), want *exceptions.TimeoutError", err, err)
	}
}
