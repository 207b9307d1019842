// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package api implements the TPI Advanced command surface: the typed data
// model (Address, Instance, Colour, EventMask, EventMode), the Protocol
// layer that wraps every documented command, and the Events dispatcher that
// decodes and routes push events.
package api

import "fmt"

// AddressKind selects the wire-level encoding of an Address's numeric field.
type AddressKind int

const (
	AddressBroadcast AddressKind = iota
	AddressECG
	AddressECD
	AddressGroup
)

func (k AddressKind) String() string {
	switch k {
	case AddressBroadcast:
		return "broadcast"
	case AddressECG:
		return "ecg"
	case AddressECD:
		return "ecd"
	case AddressGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Address identifies a DALI target on one controller: a broadcast, an ECG
// (control gear), an ECD (control device), or a group.
type Address struct {
	Kind   AddressKind
	Number int // kind-specific range; meaningless for Broadcast

	_ struct{}
}

// NewAddress validates (kind, number) and constructs an Address. ECG/ECD
// accept 0..63, group accepts 0..15, broadcast ignores number.
func NewAddress(kind AddressKind, number int) (Address, error) {
	switch kind {
	case AddressBroadcast:
		return Address{Kind: kind}, nil
	case AddressECG, AddressECD:
		if number < 0 || number > 63 {
			return Address{}, fmt.Errorf("api: %s address number %d out of range [0,63]", kind, number)
		}
	case AddressGroup:
		if number < 0 || number > 15 {
			return Address{}, fmt.Errorf("api: group address number %d out of range [0,15]", number)
		}
	default:
		return Address{}, fmt.Errorf("api: unknown address kind %d", kind)
	}
	return Address{Kind: kind, Number: number}, nil
}

// Byte encodes the address as it appears on the wire: ECG -> n, group ->
// n+64, ECD -> n+64, broadcast -> 255.
func (a Address) Byte() byte {
	switch a.Kind {
	case AddressECG:
		return byte(a.Number)
	case AddressGroup, AddressECD:
		return byte(a.Number + 64)
	default:
		return 255
	}
}

// DecodeAddress decodes a wire byte back into an Address given which kind it
// is known to represent (the wire encoding is ambiguous between group and
// ECD without external context — a response's opcode or event code always
// disambiguates which is meant).
func DecodeAddress(kind AddressKind, b byte) (Address, error) {
	switch kind {
	case AddressECG:
		return NewAddress(AddressECG, int(b))
	case AddressGroup, AddressECD:
		return NewAddress(kind, int(b)-64)
	case AddressBroadcast:
		return Address{Kind: AddressBroadcast}, nil
	default:
		return Address{}, fmt.Errorf("api: unknown address kind %d", kind)
	}
}

func (a Address) String() string {
	if a.Kind == AddressBroadcast {
		return "broadcast"
	}
	return fmt.Sprintf("%s%d", a.Kind, a.Number)
}

// InstanceKind enumerates the ECD instance types.
type InstanceKind int

const (
	InstancePushButton InstanceKind = iota
	InstanceAbsoluteInput
	InstanceOccupancySensor
	InstanceLightSensor
	InstanceGeneralSensor
)

func (k InstanceKind) String() string {
	switch k {
	case InstancePushButton:
		return "push_button"
	case InstanceAbsoluteInput:
		return "absolute_input"
	case InstanceOccupancySensor:
		return "occupancy_sensor"
	case InstanceLightSensor:
		return "light_sensor"
	case InstanceGeneralSensor:
		return "general_sensor"
	default:
		return "unknown"
	}
}

// Instance identifies one input/sensor slot on an ECD.
type Instance struct {
	Address Address
	Kind    InstanceKind
	Number  int // 0..31
	Active  bool
	Error   bool

	_ struct{}
}

// NewInstance validates and constructs an Instance. The address must be an
// ECD address.
func NewInstance(addr Address, kind InstanceKind, number int, active, hasError bool) (Instance, error) {
	if addr.Kind != AddressECD {
		return Instance{}, fmt.Errorf("api: instance address must be ECD, got %s", addr.Kind)
	}
	if number < 0 || number > 31 {
		return Instance{}, fmt.Errorf("api: instance number %d out of range [0,31]", number)
	}
	return Instance{Address: addr, Kind: kind, Number: number, Active: active, Error: hasError}, nil
}

// ColourTag selects which arm of a Colour is meaningful.
type ColourTag int

const (
	ColourTC ColourTag = iota
	ColourRGBWAF
	ColourXY
)

// Wire colour-tag bytes used in DALI_COLOUR request payloads and colour
// decode. Confirmed against the spec's literal S4 example (TC kelvin=4000
// encodes with tag byte 0x20); XY's tag is not pinned down by any literal
// example and is assigned 0x10 by elimination.
const (
	colourTagXY     byte = 0x10
	colourTagTC     byte = 0x20
	colourTagRGBWAF byte = 0x80
)

// Colour is a tagged variant: exactly one of its arms is meaningful,
// selected by Tag.
type Colour struct {
	Tag ColourTag

	// Tag == ColourTC
	Kelvin uint16

	// Tag == ColourRGBWAF
	R, G, B, W, A, F uint8

	// Tag == ColourXY
	X, Y uint16

	_ struct{}
}

// NewColourTC constructs a kelvin colour, validating the 1000..20000 range.
func NewColourTC(kelvin uint16) (Colour, error) {
	if kelvin < 1000 || kelvin > 20000 {
		return Colour{}, fmt.Errorf("api: kelvin %d out of range [1000,20000]", kelvin)
	}
	return Colour{Tag: ColourTC, Kelvin: kelvin}, nil
}

// NewColourRGBWAF constructs an RGBWAF colour; all channels are already
// full-range uint8 so there is nothing to validate.
func NewColourRGBWAF(r, g, b, w, a, f uint8) Colour {
	return Colour{Tag: ColourRGBWAF, R: r, G: g, B: b, W: w, A: a, F: f}
}

// NewColourXY constructs an XY colour, validating the 0..65535 range (the
// full uint16 range, kept as an explicit constructor for symmetry with the
// other two tags and so a future narrower range can be added without
// breaking callers).
func NewColourXY(x, y uint16) Colour {
	return Colour{Tag: ColourXY, X: x, Y: y}
}

// Encode renders the colour as its 7-byte wire encoding, tag byte first.
func (c Colour) Encode() []byte {
	switch c.Tag {
	case ColourTC:
		return []byte{colourTagTC, byte(c.Kelvin >> 8), byte(c.Kelvin), 0, 0, 0, 0}
	case ColourXY:
		return []byte{colourTagXY, byte(c.X >> 8), byte(c.X), byte(c.Y >> 8), byte(c.Y), 0, 0}
	case ColourRGBWAF:
		return []byte{colourTagRGBWAF, c.R, c.G, c.B, c.W, c.A, c.F}
	default:
		return make([]byte, 7)
	}
}

// EncodeForSet renders the colour as the 6-byte (tag + 5 data bytes) form
// used inside a DALI_COLOUR command frame, whose fixed 8-byte payload
// (address + level + tag + 5 data bytes) has one byte less room than the
// general 7-byte (tag + 6 data bytes) colour encoding used for queries and
// scene-colour-data blocks. For RGBWAF this drops the trailing "F" (amber)
// channel; TC and XY only ever use the first two/four data bytes so nothing
// meaningful is lost for them.
func (c Colour) EncodeForSet() []byte {
	full := c.Encode()
	return full[:6]
}

// DecodeColour decodes a colour from its wire form: 3 bytes (tag + kelvin)
// or 7 bytes (tag + tag-specific data).
func DecodeColour(b []byte) (Colour, error) {
	if len(b) < 3 {
		return Colour{}, fmt.Errorf("api: colour payload too short (%d bytes)", len(b))
	}
	switch b[0] {
	case colourTagTC:
		return Colour{Tag: ColourTC, Kelvin: uint16(b[1])<<8 | uint16(b[2])}, nil
	case colourTagXY:
		if len(b) < 5 {
			return Colour{}, fmt.Errorf("api: xy colour payload too short (%d bytes)", len(b))
		}
		return Colour{Tag: ColourXY, X: uint16(b[1])<<8 | uint16(b[2]), Y: uint16(b[3])<<8 | uint16(b[4])}, nil
	case colourTagRGBWAF:
		if len(b) < 7 {
			return Colour{}, fmt.Errorf("api: rgbwaf colour payload too short (%d bytes)", len(b))
		}
		return Colour{Tag: ColourRGBWAF, R: b[1], G: b[2], B: b[3], W: b[4], A: b[5], F: b[6]}, nil
	default:
		return Colour{}, fmt.Errorf("api: unknown colour tag %#x", b[0])
	}
}

// ZenEventCode enumerates the 12 push-event codes.
type ZenEventCode int

const (
	EventButtonPress ZenEventCode = iota
	EventButtonHold
	EventAbsoluteInput
	EventLevelChangeLegacy
	EventGroupLevelChangeLegacy
	EventSceneChange
	EventIsOccupied
	EventSystemVariableChange
	EventColourChange
	EventProfileChange
	EventGroupOccupied
	EventLevelChangeV2
)

// EventMask is a 12-bit set of event codes, serialized as a 16-bit
// big-endian value.
type EventMask uint16

// With returns a copy of the mask with code c set.
func (m EventMask) With(c ZenEventCode) EventMask {
	return m | 1<<uint(c)
}

// Without returns a copy of the mask with code c cleared.
func (m EventMask) Without(c ZenEventCode) EventMask {
	return m &^ (1 << uint(c))
}

// Has reports whether code c is set in the mask.
func (m EventMask) Has(c ZenEventCode) bool {
	return m&(1<<uint(c)) != 0
}

// Bitmask returns the mask's raw integer value, primarily for tests that
// verify EventMask.With(c).Bitmask() == 1<<c.
func (m EventMask) Bitmask() uint16 {
	return uint16(m)
}

// Encode serializes the mask as big-endian bytes.
func (m EventMask) Encode() [2]byte {
	return [2]byte{byte(m >> 8), byte(m)}
}

// DecodeEventMask parses a big-endian 16-bit mask.
func DecodeEventMask(b [2]byte) EventMask {
	return EventMask(uint16(b[0])<<8 | uint16(b[1]))
}

// EventMode describes how a controller is configured to emit events.
type EventMode struct {
	Enabled   bool
	Filtering bool
	Unicast   bool
	Multicast bool

	_ struct{}
}

// Encode serializes the mode as one byte. Multicast is stored inverted on
// the wire, per spec.
func (m EventMode) Encode() byte {
	var b byte
	if m.Enabled {
		b |= 1 << 0
	}
	if m.Filtering {
		b |= 1 << 1
	}
	if m.Unicast {
		b |= 1 << 2
	}
	if !m.Multicast {
		b |= 1 << 3
	}
	return b
}

// DecodeEventMode parses a wire byte into an EventMode.
func DecodeEventMode(b byte) EventMode {
	return EventMode{
		Enabled:   b&(1<<0) != 0,
		Filtering: b&(1<<1) != 0,
		Unicast:   b&(1<<2) != 0,
		Multicast: b&(1<<3) == 0,
	}
}
