// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package io implements the wire-level pieces of the Zencontrol TPI Advanced
// protocol: request/response framing, the UDP request/response client with
// sequence correlation, and the UDP event listener.
package io

import (
	"errors"
	"time"
)

// Request magic byte, the first byte of every egress frame.
const requestMagic = 0x04

// Response types, the first byte of every ingress response frame.
const (
	RespOK        byte = 0xA0
	RespAnswer    byte = 0xA1
	RespNoAnswer  byte = 0xA2
	RespError     byte = 0xA3
	respInvalid   byte = 0x00 // synthetic, never seen on the wire
)

// Event sentinel, the first two bytes of every event frame.
var eventSentinel = [2]byte{0x5A, 0x43}

// RequestKind selects how a Request's payload is shaped on the wire.
type RequestKind int

const (
	// KindBasic: payload is exactly 4 bytes [address, d0, d1, d2], zero-padded.
	KindBasic RequestKind = iota
	// KindDALIColour: payload is exactly 8 bytes
	// [address, level, colour_tag, colour_bytes...].
	KindDALIColour
	// KindDynamic: payload is [len, bytes...].
	KindDynamic
	// KindCommand: payload is passed through verbatim.
	KindCommand
)

// Request is an egress TPI Advanced request frame.
type Request struct {
	Seq     byte
	Cmd     byte
	Kind    RequestKind
	Address byte   // only meaningful for KindBasic / KindDALIColour
	Data    []byte // kind-specific, see RequestKind

	_ struct{}
}

// payload returns the kind-shaped payload bytes, not including
// magic/seq/cmd/checksum.
func (r *Request) payload() []byte {
	switch r.Kind {
	case KindBasic:
		p := make([]byte, 4)
		p[0] = r.Address
		copy(p[1:], r.Data)
		return p
	case KindDALIColour:
		p := make([]byte, 8)
		p[0] = r.Address
		copy(p[1:], r.Data)
		return p
	case KindDynamic:
		if len(r.Data) > 255 {
			// Callers are expected to keep dynamic payloads within the
			// single-length-byte budget; truncate defensively rather than
			// wrap around.
			return append([]byte{255}, r.Data[:255]...)
		}
		return append([]byte{byte(len(r.Data))}, r.Data...)
	case KindCommand:
		return r.Data
	default:
		return nil
	}
}

// Encode renders the request as wire bytes, including the trailing XOR
// checksum.
func (r *Request) Encode() []byte {
	p := r.payload()
	buf := make([]byte, 0, 3+len(p)+1)
	buf = append(buf, requestMagic, r.Seq, r.Cmd)
	buf = append(buf, p...)
	buf = append(buf, checksum(buf))
	return buf
}

// Response is a decoded ingress TPI Advanced response frame.
type Response struct {
	Type byte
	Seq  byte
	Data []byte

	// Timeout is set when no matching response arrived within the retry
	// budget; Type/Seq/Data are zero-valued in that case.
	Timeout bool
	// Attempts and Elapsed describe the Send call that produced this
	// Response: how many transmit attempts were made and how long the call
	// took in total. Populated on both success and timeout.
	Attempts int
	Elapsed  time.Duration

	_ struct{}
}

// IsOK reports whether the response is a bare acknowledgement.
func (r *Response) IsOK() bool { return !r.Timeout && r.Type == RespOK }

// ErrCode decodes the first data byte of an ERROR response, or false if the
// response is not an error.
func (r *Response) ErrCode() (byte, bool) {
	if r.Timeout || r.Type != RespError || len(r.Data) == 0 {
		return 0, false
	}
	return r.Data[0], true
}

// ErrInvalidFrame is returned by DecodeResponse on any malformed ingress
// datagram: bad length, bad checksum, or unrecognized response type. Per the
// spec, the network is a hostile input — callers must never propagate this
// as a protocol error, only discard the datagram.
var ErrInvalidFrame = errors.New("io: invalid frame")

// DecodeResponse parses a response frame: TT SS LL [data...] XX.
func DecodeResponse(b []byte) (*Response, error) {
	if len(b) < 4 {
		return nil, ErrInvalidFrame
	}
	respType, seq, length := b[0], b[1], b[2]
	total := 4 + int(length)
	if len(b) != total {
		return nil, ErrInvalidFrame
	}
	switch respType {
	case RespOK, RespAnswer, RespNoAnswer, RespError:
	default:
		return nil, ErrInvalidFrame
	}
	if checksum(b[:len(b)-1]) != b[len(b)-1] {
		return nil, ErrInvalidFrame
	}
	data := make([]byte, length)
	copy(data, b[3:3+length])
	return &Response{Type: respType, Seq: seq, Data: data}, nil
}

// Event is a decoded ingress push-event frame, tagged with the address it
// arrived from so the dispatcher can resolve its source controller.
type Event struct {
	MAC       [6]byte
	Target    uint16
	Code      byte
	Payload   []byte
	SourceIP  string

	_ struct{}
}

// DecodeEvent parses an event frame: 5A 43 MM*6 TT TT EE LL [payload...] XX.
// Invalid frames are reported via the error return; callers must discard
// them silently rather than raise, per spec.
func DecodeEvent(b []byte) (*Event, error) {
	// sentinel(2) + mac(6) + target(2) + code(1) + len(1) + checksum(1) = 13
	if len(b) < 13 {
		return nil, ErrInvalidFrame
	}
	if b[0] != eventSentinel[0] || b[1] != eventSentinel[1] {
		return nil, ErrInvalidFrame
	}
	length := b[11]
	total := 12 + int(length) + 1
	if len(b) != total {
		return nil, ErrInvalidFrame
	}
	if checksum(b[:len(b)-1]) != b[len(b)-1] {
		return nil, ErrInvalidFrame
	}
	e := &Event{
		Target: uint16(b[8])<<8 | uint16(b[9]),
		Code:   b[10],
	}
	copy(e.MAC[:], b[2:8])
	e.Payload = make([]byte, length)
	copy(e.Payload, b[12:12+length])
	return e, nil
}

// checksum computes the XOR of every byte in b.
func checksum(b []byte) byte {
	var x byte
	for _, c := range b {
		x ^= c
	}
	return x
}
