// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package api

import (
	"context"
	"net"
)

// filterPageSize is how many (address, instance) pairs one filter-query
// call returns at a time.
const filterPageSize = 15

// SetEventEmitState enables or disables event emission on a controller and
// configures which transports and mask it uses. One call carries the whole
// state: the mode byte followed by the big-endian 16-bit mask. No disable is
// sent first; how a controller that is already emitting with a different
// mask reacts to this is not characterized.
func (p *Protocol) SetEventEmitState(ctx context.Context, controllerID int, mode EventMode, mask EventMask) (bool, error) {
	enc := mask.Encode()
	data := []byte{mode.Encode(), enc[0], enc[1]}
	return p.commandOK(ctx, controllerID, OpEventEmitEnable, 255, data)
}

// QueryEventEmitState returns a controller's current event-emission mode
// and mask.
func (p *Protocol) QueryEventEmitState(ctx context.Context, controllerID int) (EventMode, EventMask, error) {
	b, err := p.queryBytes(ctx, controllerID, OpEventEmitQuery, 255, false)
	if err != nil || len(b) < 3 {
		return EventMode{}, 0, err
	}
	return DecodeEventMode(b[0]), DecodeEventMask([2]byte{b[1], b[2]}), nil
}

// SetEventUnicastAddress configures where a controller sends unicast
// events.
func (p *Protocol) SetEventUnicastAddress(ctx context.Context, controllerID int, ip net.IP, port uint16) (bool, error) {
	ip4 := ip.To4()
	if ip4 == nil {
		ip4 = net.IPv4zero.To4()
	}
	data := append(append([]byte{}, ip4...), byte(port>>8), byte(port))
	return p.commandOK(ctx, controllerID, OpEventUnicastSet, 255, data)
}

// QueryEventUnicastAddress returns the controller's configured unicast
// event destination.
func (p *Protocol) QueryEventUnicastAddress(ctx context.Context, controllerID int) (net.IP, uint16, error) {
	b, err := p.queryBytes(ctx, controllerID, OpEventUnicastQuery, 255, false)
	if err != nil || len(b) < 6 {
		return nil, 0, err
	}
	return net.IPv4(b[0], b[1], b[2], b[3]), uint16(b[4])<<8 | uint16(b[5]), nil
}

// AddEventFilter suppresses event emission for one (address, instance)
// pair. instance of -1 filters the whole address.
func (p *Protocol) AddEventFilter(ctx context.Context, controllerID int, addr Address, instance int) (bool, error) {
	return p.commandOK(ctx, controllerID, OpEventFilterAdd, addr.Byte(), []byte{filterInstanceByte(instance)})
}

// ClearEventFilter removes a previously added filter entry.
func (p *Protocol) ClearEventFilter(ctx context.Context, controllerID int, addr Address, instance int) (bool, error) {
	return p.commandOK(ctx, controllerID, OpEventFilterClear, addr.Byte(), []byte{filterInstanceByte(instance)})
}

// FilterEntry is one (address, instance) pair currently filtered from
// event emission.
type FilterEntry struct {
	Address  byte
	Instance int // -1 means "whole address"

	_ struct{}
}

// QueryEventFilters enumerates every currently configured filter entry,
// paginating across filterPageSize-sized windows transparently.
func (p *Protocol) QueryEventFilters(ctx context.Context, controllerID int) ([]FilterEntry, error) {
	var out []FilterEntry
	for start := 0; ; start += filterPageSize {
		b, err := p.queryBytesWithData(ctx, controllerID, OpEventFilterQuery, 255, []byte{byte(start)}, false)
		if err != nil {
			return out, err
		}
		if len(b) == 0 {
			break
		}
		for i := 0; i+1 < len(b); i += 2 {
			out = append(out, FilterEntry{Address: b[i], Instance: filterInstanceFromByte(b[i+1])})
		}
		if len(b)/2 < filterPageSize {
			break
		}
	}
	return out, nil
}

func filterInstanceByte(instance int) byte {
	if instance < 0 {
		return 0xFF
	}
	return byte(instance)
}

func filterInstanceFromByte(b byte) int {
	if b == 0xFF {
		return -1
	}
	return int(b)
}
