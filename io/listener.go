// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package io

import (
	"log"
	"net"
	"strings"
	"sync"
	"sync/atomic"
)

// MulticastGroup and MulticastPort are the well-known TPI Advanced event
// multicast endpoint.
const (
	MulticastGroup = "239.255.90.67"
	MulticastPort  = 6969
)

// Listener is a single UDP socket receiving push-event frames, in either
// multicast or unicast mode. One Listener serves the whole process, not one
// per controller: controllers are distinguished by source IP on each Event.
type Listener struct {
	conn *net.UDPConn

	mu     sync.Mutex
	events chan *Event
	done   chan struct{}

	invalidCount int64
}

// NewMulticastListener binds 0.0.0.0:6969 and joins the TPI Advanced event
// multicast group on the given interface (nil for the default interface).
func NewMulticastListener(iface *net.Interface) (*Listener, error) {
	addr := &net.UDPAddr{IP: net.ParseIP(MulticastGroup), Port: MulticastPort}
	conn, err := net.ListenMulticastUDP("udp", iface, addr)
	if err != nil {
		return nil, &connError{op: "listen-multicast", err: err}
	}
	return newListener(conn), nil
}

// NewUnicastListener binds the given local address and port. Controllers
// must be configured (via set_tpi_event_unicast_address) to send events to
// this endpoint.
func NewUnicastListener(listenIP string, port int) (*Listener, error) {
	addr := &net.UDPAddr{IP: net.ParseIP(listenIP), Port: port}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, &connError{op: "listen-unicast", err: err}
	}
	return newListener(conn), nil
}

func newListener(conn *net.UDPConn) *Listener {
	l := &Listener{
		conn:   conn,
		events: make(chan *Event, 64),
		done:   make(chan struct{}),
	}
	go l.readLoop()
	return l
}

// readLoop reads datagrams until Close, decoding and forwarding valid
// events. Malformed frames are counted and dropped, never raised.
func (l *Listener) readLoop() {
	buf := make([]byte, 2048)
	for {
		n, src, err := l.conn.ReadFromUDP(buf)
		if err != nil {
			close(l.events)
			return
		}
		ev, err := DecodeEvent(buf[:n])
		if err != nil {
			atomic.AddInt64(&l.invalidCount, 1)
			log.Printf("io: listener: discarding malformed event from %s: %s", src, err)
			continue
		}
		ev.SourceIP = stripZone(src.IP.String())
		select {
		case l.events <- ev:
		case <-l.done:
			return
		}
	}
}

// stripZone removes an IPv6 zone suffix, if any, so SourceIP compares
// cleanly against configured controller hosts.
func stripZone(ip string) string {
	if i := strings.IndexByte(ip, '%'); i >= 0 {
		return ip[:i]
	}
	return ip
}

// Events returns the channel of decoded events. It is closed when the
// Listener is closed or its socket errors.
func (l *Listener) Events() <-chan *Event {
	return l.events
}

// InvalidCount returns the number of malformed datagrams discarded so far,
// for diagnostics.
func (l *Listener) InvalidCount() int64 {
	return atomic.LoadInt64(&l.invalidCount)
}

// Close ends the event stream and releases the socket.
func (l *Listener) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	select {
	case <-l.done:
		return nil
	default:
		close(l.done)
	}
	return l.conn.Close()
}
