// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package api

import "context"

// QueryControllerVersion returns the controller's firmware version string.
func (p *Protocol) QueryControllerVersion(ctx context.Context, controllerID int) (string, error) {
	return p.queryString(ctx, controllerID, OpQueryControllerVersion, 0x00, true)
}

// QueryControllerLabel returns the controller's configured label.
func (p *Protocol) QueryControllerLabel(ctx context.Context, controllerID int) (string, error) {
	return p.queryString(ctx, controllerID, OpQueryControllerLabel, 0x00, true)
}

// QueryControllerFittingNumber returns the controller's fitting number.
func (p *Protocol) QueryControllerFittingNumber(ctx context.Context, controllerID int) (uint64, error) {
	return p.queryInt(ctx, controllerID, OpQueryControllerFittingNum, 0x00, true)
}

// QueryControllerStartupComplete reports whether the controller finished
// its startup sequence.
func (p *Protocol) QueryControllerStartupComplete(ctx context.Context, controllerID int) (bool, error) {
	return p.queryBool(ctx, controllerID, OpQueryControllerStartupDone, 0x00)
}

// QueryControllerDALIReady reports whether the controller's DALI bus is
// ready to accept commands.
func (p *Protocol) QueryControllerDALIReady(ctx context.Context, controllerID int) (bool, error) {
	return p.queryBool(ctx, controllerID, OpQueryControllerDALIReady, 0x00)
}

// Shared single-address query helpers used across command families.

func (p *Protocol) queryString(ctx context.Context, controllerID int, opcode Opcode, address byte, cacheable bool) (string, error) {
	v, err := p.sendBasic(ctx, controllerID, opcode, address, nil, ReturnAsString, cacheable, sendOpts{})
	if err != nil || v == nil {
		return "", err
	}
	return v.(string), nil
}

func (p *Protocol) queryInt(ctx context.Context, controllerID int, opcode Opcode, address byte, cacheable bool) (uint64, error) {
	v, err := p.sendBasic(ctx, controllerID, opcode, address, nil, ReturnAsInt, cacheable, sendOpts{})
	if err != nil || v == nil {
		return 0, err
	}
	return v.(uint64), nil
}

func (p *Protocol) queryBool(ctx context.Context, controllerID int, opcode Opcode, address byte) (bool, error) {
	v, err := p.sendBasic(ctx, controllerID, opcode, address, nil, ReturnAsBool, false, sendOpts{})
	if err != nil || v == nil {
		return false, err
	}
	return v.(bool), nil
}

func (p *Protocol) queryBytes(ctx context.Context, controllerID int, opcode Opcode, address byte, cacheable bool) ([]byte, error) {
	v, err := p.sendBasic(ctx, controllerID, opcode, address, nil, ReturnAsBytes, cacheable, sendOpts{})
	if err != nil || v == nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (p *Protocol) queryIntList(ctx context.Context, controllerID int, opcode Opcode, address byte, cacheable bool) ([]int, error) {
	v, err := p.sendBasic(ctx, controllerID, opcode, address, nil, ReturnAsIntList, cacheable, sendOpts{})
	if err != nil || v == nil {
		return nil, err
	}
	return v.([]int), nil
}

// Variants that carry an extra data byte (or bytes) alongside the address,
// for opcodes whose BASIC payload needs more than just the target address
// (e.g. an instance number).

func (p *Protocol) queryStringWithData(ctx context.Context, controllerID int, opcode Opcode, address byte, data []byte, cacheable bool) (string, error) {
	v, err := p.sendBasic(ctx, controllerID, opcode, address, data, ReturnAsString, cacheable, sendOpts{})
	if err != nil || v == nil {
		return "", err
	}
	return v.(string), nil
}

func (p *Protocol) queryIntWithData(ctx context.Context, controllerID int, opcode Opcode, address byte, data []byte, cacheable bool) (uint64, error) {
	v, err := p.sendBasic(ctx, controllerID, opcode, address, data, ReturnAsInt, cacheable, sendOpts{})
	if err != nil || v == nil {
		return 0, err
	}
	return v.(uint64), nil
}

func (p *Protocol) queryBytesWithData(ctx context.Context, controllerID int, opcode Opcode, address byte, data []byte, cacheable bool) ([]byte, error) {
	v, err := p.sendBasic(ctx, controllerID, opcode, address, data, ReturnAsBytes, cacheable, sendOpts{})
	if err != nil || v == nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (p *Protocol) queryIntListWithData(ctx context.Context, controllerID int, opcode Opcode, address byte, data []byte, cacheable bool) ([]int, error) {
	v, err := p.sendBasic(ctx, controllerID, opcode, address, data, ReturnAsIntList, cacheable, sendOpts{})
	if err != nil || v == nil {
		return nil, err
	}
	return v.([]int), nil
}

func (p *Protocol) commandOK(ctx context.Context, controllerID int, opcode Opcode, address byte, data []byte) (bool, error) {
	v, err := p.sendBasic(ctx, controllerID, opcode, address, data, ReturnAsOK, false, sendOpts{})
	if err != nil || v == nil {
		ok, _ := v.(bool)
		return ok, err
	}
	return v.(bool), nil
}
