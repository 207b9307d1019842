// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package api

import "context"

// addressWindowSize is how many ECD addresses one
// QueryAddressesWithInstances call covers; the full 0..63 range is
// enumerated in windows this wide.
const addressWindowSize = 16

// QueryAddressesWithInstances enumerates every ECD address (0..63) that has
// at least one instance, paginating across start-address windows
// transparently.
func (p *Protocol) QueryAddressesWithInstances(ctx context.Context, controllerID int) ([]int, error) {
	var out []int
	for start := 0; start < 64; start += addressWindowSize {
		ids, err := p.queryIntListWithData(ctx, controllerID, OpQueryAddressesWithInstances, 0x00, []byte{0x00, 0x00, byte(start)}, false)
		if err != nil {
			return out, err
		}
		for _, id := range ids {
			out = append(out, start+id)
		}
	}
	return out, nil
}

// QueryInstancesByAddr returns the instance numbers present on an ECD
// address.
func (p *Protocol) QueryInstancesByAddr(ctx context.Context, controllerID int, addr Address) ([]int, error) {
	return p.queryIntList(ctx, controllerID, OpQueryInstancesByAddr, addr.Byte(), false)
}

// QueryInstanceGroups returns the group numbers an instance reports events
// into.
func (p *Protocol) QueryInstanceGroups(ctx context.Context, controllerID int, addr Address, instance int) ([]int, error) {
	return p.queryIntListWithData(ctx, controllerID, OpQueryInstanceGroups, addr.Byte(), []byte{0x00, 0x00, byte(instance)}, true)
}

// QueryInstanceFitting returns an instance's fitting number.
func (p *Protocol) QueryInstanceFitting(ctx context.Context, controllerID int, addr Address, instance int) (uint64, error) {
	return p.queryIntWithData(ctx, controllerID, OpQueryInstanceFitting, addr.Byte(), []byte{0x00, 0x00, byte(instance)}, true)
}

// QueryInstanceLabel returns an instance's configured label.
func (p *Protocol) QueryInstanceLabel(ctx context.Context, controllerID int, addr Address, instance int) (string, error) {
	return p.queryStringWithData(ctx, controllerID, OpQueryInstanceLabel, addr.Byte(), []byte{0x00, 0x00, byte(instance)}, true)
}

// QueryOccupancyTimers returns an occupancy-sensor instance's hold and
// report timers, in seconds, as [hold, report].
func (p *Protocol) QueryOccupancyTimers(ctx context.Context, controllerID int, addr Address, instance int) ([]byte, error) {
	return p.queryBytesWithData(ctx, controllerID, OpQueryOccupancyTimers, addr.Byte(), []byte{0x00, 0x00, byte(instance)}, true)
}

// QueryLEDState returns an instance's current LED indicator state.
func (p *Protocol) QueryLEDState(ctx context.Context, controllerID int, addr Address, instance int) (byte, error) {
	b, err := p.queryBytesWithData(ctx, controllerID, OpQueryLEDState, addr.Byte(), []byte{0x00, 0x00, byte(instance)}, false)
	if err != nil || len(b) == 0 {
		return 0, err
	}
	return b[0], nil
}

// SetLEDState overrides an instance's LED indicator state.
func (p *Protocol) SetLEDState(ctx context.Context, controllerID int, addr Address, instance int, on bool) (bool, error) {
	flag := byte(0x01)
	if on {
		flag = 0x02
	}
	return p.commandOK(ctx, controllerID, OpSetLEDState, addr.Byte(), []byte{0x00, flag, byte(instance)})
}
