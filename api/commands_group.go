// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package api

import "context"

// QueryGroupNumbers returns the group numbers a given ECG/ECD address
// belongs to.
func (p *Protocol) QueryGroupNumbers(ctx context.Context, controllerID int, addr Address) ([]int, error) {
	return p.queryIntList(ctx, controllerID, OpQueryGroupNumbers, addr.Byte(), false)
}

// QueryGroupLabel returns a group's configured label.
func (p *Protocol) QueryGroupLabel(ctx context.Context, controllerID int, group int) (string, error) {
	addr, err := NewAddress(AddressGroup, group)
	if err != nil {
		return "", err
	}
	return p.queryString(ctx, controllerID, OpQueryGroupLabel, addr.Byte(), true)
}

// QueryGroupMembership returns the addresses that belong to addr's group
// membership bitmap.
func (p *Protocol) QueryGroupMembership(ctx context.Context, controllerID int, addr Address) ([]int, error) {
	return p.queryIntList(ctx, controllerID, OpQueryGroupMembershipByAddr, addr.Byte(), false)
}

// QueryGroupByNumber returns the member addresses of a group, by its number.
func (p *Protocol) QueryGroupByNumber(ctx context.Context, controllerID int, group int) ([]int, error) {
	addr, err := NewAddress(AddressGroup, group)
	if err != nil {
		return nil, err
	}
	return p.queryIntList(ctx, controllerID, OpQueryGroupByNumber, addr.Byte(), false)
}

// QueryGroupSceneNumbers returns the scene numbers configured for a group.
func (p *Protocol) QueryGroupSceneNumbers(ctx context.Context, controllerID int, group int) ([]int, error) {
	addr, err := NewAddress(AddressGroup, group)
	if err != nil {
		return nil, err
	}
	return p.queryIntList(ctx, controllerID, OpQueryGroupSceneNumbers, addr.Byte(), true)
}

// QueryGroupSceneLabels returns a group's per-scene labels, indexed by scene
// number.
func (p *Protocol) QueryGroupSceneLabels(ctx context.Context, controllerID int, group int) ([]byte, error) {
	addr, err := NewAddress(AddressGroup, group)
	if err != nil {
		return nil, err
	}
	return p.queryBytes(ctx, controllerID, OpQueryGroupSceneLabels, addr.Byte(), true)
}
