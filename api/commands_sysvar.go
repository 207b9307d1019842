// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package api

import "context"

// QuerySystemVariable returns a system variable's raw signed 16-bit value.
// This is the BASIC-frame form; the push-event form carries a separately
// scaled raw/magnitude pair (see DecodeSystemVariableEvent) and the two are
// not interchangeable.
func (p *Protocol) QuerySystemVariable(ctx context.Context, controllerID int, variable byte) (int16, error) {
	b, err := p.queryBytes(ctx, controllerID, OpSystemVariableGet, variable, false)
	if err != nil || len(b) < 2 {
		return 0, err
	}
	return int16(uint16(b[0])<<8 | uint16(b[1])), nil
}

// SetSystemVariable writes a system variable's signed 16-bit value. The
// variable number travels in the address byte, not the data payload.
func (p *Protocol) SetSystemVariable(ctx context.Context, controllerID int, variable byte, value int16) (bool, error) {
	u := uint16(value)
	return p.commandOK(ctx, controllerID, OpSystemVariableSet, variable, []byte{0x00, byte(u >> 8), byte(u)})
}

// QuerySystemVariableName returns a system variable's configured label.
func (p *Protocol) QuerySystemVariableName(ctx context.Context, controllerID int, variable byte) (string, error) {
	return p.queryString(ctx, controllerID, OpSystemVariableName, variable, true)
}

// DecodeSystemVariableEvent decodes a system-variable-change push event's
// 5-byte payload: a signed 32-bit raw value and a signed 8-bit power-of-ten
// magnitude, combined as raw * 10^magnitude. The event's own target field
// carries the variable number, not the payload, so this returns only the
// scaled value.
func DecodeSystemVariableEvent(payload []byte) (value float64, err error) {
	if len(payload) < 5 {
		return 0, errShortSysvarEvent(len(payload))
	}
	raw := int32(uint32(payload[0])<<24 | uint32(payload[1])<<16 | uint32(payload[2])<<8 | uint32(payload[3]))
	magnitude := int8(payload[4])
	value = float64(raw)
	if magnitude >= 0 {
		for i := int8(0); i < magnitude; i++ {
			value *= 10
		}
	} else {
		for i := int8(0); i < -magnitude; i++ {
			value /= 10
		}
	}
	return value, nil
}

type errShortSysvarEvent int

func (e errShortSysvarEvent) Error() string {
	return "api: system variable event payload too short"
}
