// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package api

import "context"

// ProfileInfo describes a controller's active profile configuration.
type ProfileInfo struct {
	Current  uint16
	Behavior byte

	_ struct{}
}

// QueryProfileInfo returns the controller's current profile info.
func (p *Protocol) QueryProfileInfo(ctx context.Context, controllerID int) (ProfileInfo, error) {
	b, err := p.queryBytes(ctx, controllerID, OpQueryProfileInfo, 0x00, false)
	if err != nil || len(b) < 3 {
		return ProfileInfo{}, err
	}
	return ProfileInfo{Current: uint16(b[0])<<8 | uint16(b[1]), Behavior: b[2]}, nil
}

// QueryProfileNumbers returns every profile number configured on the
// controller.
func (p *Protocol) QueryProfileNumbers(ctx context.Context, controllerID int) ([]int, error) {
	return p.queryIntList(ctx, controllerID, OpQueryProfileNumbers, 0x00, true)
}

// QueryProfileLabel returns a profile's configured label.
func (p *Protocol) QueryProfileLabel(ctx context.Context, controllerID int, profile uint16) (string, error) {
	return p.queryStringWithData(ctx, controllerID, OpQueryProfileLabel, 0x00, []byte{0x00, byte(profile >> 8), byte(profile)}, true)
}

// QueryProfileCurrent returns the controller's currently active profile
// number.
func (p *Protocol) QueryProfileCurrent(ctx context.Context, controllerID int) (uint16, error) {
	v, err := p.queryInt(ctx, controllerID, OpQueryProfileCurrent, 0x00, false)
	return uint16(v), err
}

// ChangeProfileNumber switches the controller's active profile.
// ProfileReturnToScheduled hands control back to the controller's own
// schedule.
func (p *Protocol) ChangeProfileNumber(ctx context.Context, controllerID int, profile uint16) (bool, error) {
	return p.commandOK(ctx, controllerID, OpChangeProfileNumber, 0x00, []byte{0x00, byte(profile >> 8), byte(profile)})
}
