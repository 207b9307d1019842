// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package api

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAddress_ByteRoundTrip(t *testing.T) {
	tests := []struct {
		kind AddressKind
		n    int
	}{
		{AddressECG, 0},
		{AddressECG, 63},
		{AddressGroup, 0},
		{AddressGroup, 15},
		{AddressECD, 0},
		{AddressECD, 63},
	}
	for _, tt := range tests {
		addr, err := NewAddress(tt.kind, tt.n)
		if err != nil {
			t.Fatalf("NewAddress(%v, %d): %v", tt.kind, tt.n, err)
		}
		got, err := DecodeAddress(tt.kind, addr.Byte())
		if err != nil {
			t.Fatalf("DecodeAddress: %v", err)
		}
		if got != addr {
			t.Errorf("round trip mismatch: got %+v, want %+v", got, addr)
		}
	}
}

func TestAddress_RejectsOutOfRange(t *testing.T) {
	if _, err := NewAddress(AddressECG, 64); err == nil {
		t.Error("NewAddress(ECG, 64): want error, got nil")
	}
	if _, err := NewAddress(AddressGroup, 16); err == nil {
		t.Error("NewAddress(Group, 16): want error, got nil")
	}
}

func TestColour_EncodeDecode_TC(t *testing.T) {
	c, err := NewColourTC(4000)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeColour(c.Encode())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(c, got); diff != "" {
		t.Errorf("DecodeColour(Encode()) mismatch (-want +got):\n%s", diff)
	}
}

func TestColour_EncodeDecode_RGBWAF(t *testing.T) {
	c := NewColourRGBWAF(10, 20, 30, 40, 50, 60)
	got, err := DecodeColour(c.Encode())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(c, got); diff != "" {
		t.Errorf("DecodeColour(Encode()) mismatch (-want +got):\n%s", diff)
	}
}

func TestColour_EncodeDecode_XY(t *testing.T) {
	c := NewColourXY(12345, 54321)
	got, err := DecodeColour(c.Encode())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(c, got); diff != "" {
		t.Errorf("DecodeColour(Encode()) mismatch (-want +got):\n%s", diff)
	}
}

func TestColour_EncodeForSet_DropsTrailingByte(t *testing.T) {
	c := NewColourRGBWAF(1, 2, 3, 4, 5, 6)
	full := c.Encode()
	short := c.EncodeForSet()
	if len(short) != 6 {
		t.Fatalf("EncodeForSet: got length %d, want 6", len(short))
	}
	if diff := cmp.Diff(full[:6], short); diff != "" {
		t.Errorf("EncodeForSet mismatch (-want +got):\n%s", diff)
	}
}

func TestColour_TCWireTag(t *testing.T) {
	// Confirmed against the S4 scenario: group2 at level 200, kelvin 4000
	// encodes as [0x42, 0xC8, 0x20, 0x0F, 0xA0] (group 2 is 2+64 = 0x42).
	c, err := NewColourTC(4000)
	if err != nil {
		t.Fatal(err)
	}
	got := c.EncodeForSet()
	want := []byte{0x20, 0x0F, 0xA0, 0, 0, 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("EncodeForSet mismatch (-want +got):\n%s", diff)
	}
}

func TestEventMask_WithWithoutHas(t *testing.T) {
	var m EventMask
	m = m.With(EventButtonPress).With(EventColourChange)
	if !m.Has(EventButtonPress) || !m.Has(EventColourChange) {
		t.Fatal("expected both bits set")
	}
	if m.Has(EventSceneChange) {
		t.Fatal("unexpected bit set")
	}
	m = m.Without(EventButtonPress)
	if m.Has(EventButtonPress) {
		t.Fatal("bit should have been cleared")
	}
	if got, want := m.Bitmask(), uint16(1<<uint(EventColourChange)); got != want {
		t.Errorf("Bitmask() = %#x, want %#x", got, want)
	}
}

func TestEventMask_EncodeDecodeRoundTrip(t *testing.T) {
	m := EventMask(0).With(EventButtonHold).With(EventProfileChange).With(EventLevelChangeV2)
	got := DecodeEventMask(m.Encode())
	if got != m {
		t.Errorf("round trip: got %#x, want %#x", got, m)
	}
}

func TestEventMode_EncodeDecodeRoundTrip(t *testing.T) {
	modes := []EventMode{
		{Enabled: true, Filtering: false, Unicast: true, Multicast: false},
		{Enabled: true, Filtering: true, Unicast: false, Multicast: true},
		{},
	}
	for _, m := range modes {
		got := DecodeEventMode(m.Encode())
		if diff := cmp.Diff(m, got); diff != "" {
			t.Errorf("EventMode round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestEventMode_MulticastBitInverted(t *testing.T) {
	m := EventMode{Multicast: true}
	if m.Encode()&(1<<3) != 0 {
		t.Error("multicast bit should be 0 on the wire when Multicast is true")
	}
	m = EventMode{Multicast: false}
	if m.Encode()&(1<<3) == 0 {
		t.Error("multicast bit should be 1 on the wire when Multicast is false")
	}
}
