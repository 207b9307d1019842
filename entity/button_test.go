// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package entity

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/zencontrol/zencontrol-go/api"
)

func addrForTest() api.Address {
	addr, _ := api.NewAddress(api.AddressECD, 0)
	return addr
}

func TestButton_PressFiresOnPress(t *testing.T) {
	b := newButton(1, addrForTest(), 0, "test")
	called := false
	b.OnPress = func() { called = true }
	b.onPressEvent()
	if !called {
		t.Fatal("expected OnPress to fire")
	}
}

func TestButton_HoldBurstFiresStartOnce(t *testing.T) {
	clock := clockwork.NewFakeClock()
	b := newButton(1, addrForTest(), 0, "test")
	b.clock = clock
	starts := 0
	b.OnLongPressStart = func() { starts++ }

	b.onHoldEvent()
	clock.Advance(500 * time.Millisecond)
	b.onHoldEvent()
	clock.Advance(500 * time.Millisecond)
	b.onHoldEvent()

	if starts != 1 {
		t.Errorf("expected exactly one OnLongPressStart across a burst, got %d", starts)
	}
}

func TestButton_ExpireHolds_FiresEndAfterSilence(t *testing.T) {
	clock := clockwork.NewFakeClock()
	b := newButton(1, addrForTest(), 0, "test")
	b.clock = clock
	ends := 0
	b.OnLongPressEnd = func() { ends++ }

	b.onHoldEvent()
	b.ExpireHolds()
	if ends != 0 {
		t.Fatal("should not expire immediately")
	}

	clock.Advance(holdRepeatWindow + 1)
	b.ExpireHolds()
	if ends != 1 {
		t.Errorf("expected OnLongPressEnd to fire once after silence, got %d", ends)
	}

	b.ExpireHolds()
	if ends != 1 {
		t.Error("OnLongPressEnd must not re-fire on subsequent checks")
	}
}
