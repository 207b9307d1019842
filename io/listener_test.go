// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package io

import (
	"net"
	"testing"
	"time"
)

func TestListener_UnicastDecodesValidEvent(t *testing.T) {
	l, err := NewUnicastListener("127.0.0.1", 0)
	if err != nil {
		t.Fatalf("NewUnicastListener: %s", err)
	}
	defer l.Close()

	addr := l.conn.LocalAddr().(*net.UDPAddr)
	src, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		t.Fatalf("DialUDP: %s", err)
	}
	defer src.Close()

	// S5: target=10, event 0x0B, payload=[0xFE, 0x80].
	b := []byte{0x5A, 0x43, 0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF, 0x00, 0x0A, 0x0B, 0x02, 0xFE, 0x80}
	b = append(b, checksum(b))
	if _, err := src.Write(b); err != nil {
		t.Fatalf("Write: %s", err)
	}

	select {
	case ev := <-l.Events():
		if ev.Target != 10 || ev.Code != 0x0B {
			t.Errorf("got %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

func TestListener_MalformedFrameCountedAndDropped(t *testing.T) {
	l, err := NewUnicastListener("127.0.0.1", 0)
	if err != nil {
		t.Fatalf("NewUnicastListener: %s", err)
	}
	defer l.Close()

	addr := l.conn.LocalAddr().(*net.UDPAddr)
	src, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		t.Fatalf("DialUDP: %s", err)
	}
	defer src.Close()

	if _, err := src.Write([]byte{0x00, 0x00, 1, 2, 3}); err != nil {
		t.Fatalf("Write: %s", err)
	}

	// Follow with a valid frame so we can observe the stream moved past the
	// invalid one without a callback firing for it.
	valid := []byte{0x5A, 0x43, 0, 0, 0, 0, 0, 0, 0x00, 0x01, 0x05, 0x01, 0x02}
	valid = append(valid, checksum(valid))
	if _, err := src.Write(valid); err != nil {
		t.Fatalf("Write: %s", err)
	}

	select {
	case ev := <-l.Events():
		if ev.Code != 0x05 {
			t.Errorf("got %+v, want the valid follow-up event", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
	if l.InvalidCount() == 0 {
		t.Error("InvalidCount() = 0, want at least 1 for the malformed datagram")
	}
}

func TestListener_CloseEndsEventStream(t *testing.T) {
	l, err := NewUnicastListener("127.0.0.1", 0)
	if err != nil {
		t.Fatalf("NewUnicastListener: %s", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %s", err)
	}
	select {
	case _, ok := <-l.Events():
		if ok {
			t.Error("Events() produced a value after Close")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Events() channel never closed")
	}
}
