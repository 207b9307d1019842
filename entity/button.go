// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package entity

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/zencontrol/zencontrol-go/api"
)

// holdRepeatWindow bounds how long a gap between two consecutive hold
// events may be before the hold is considered to have ended, rather than
// still being pressed.
const holdRepeatWindow = 2 * time.Second

// longPressRepeatThreshold is how many hold-event repeats must arrive in
// one burst before it counts as a long press (roughly one repeat every
// 500ms, so 2 repeats is about a one-second hold).
const longPressRepeatThreshold = 2

// Button is one push-button instance on an ECD.
type Button struct {
	ControllerID int
	Address      api.Address
	Instance     int
	Name         string

	clock clockwork.Clock

	mu             sync.Mutex
	held           bool
	lastHoldAt     time.Time
	holdCount      int
	longPressFired bool

	OnPress func()
	OnLongPressStart func()
	OnLongPressEnd   func()

	_ struct{}
}

func newButton(controllerID int, addr api.Address, instance int, name string) *Button {
	return &Button{ControllerID: controllerID, Address: addr, Instance: instance, Name: name, clock: clockwork.NewRealClock()}
}

// onPressEvent handles a single button-press event: a short press, never
// repeated by the controller.
func (b *Button) onPressEvent() {
	if b.OnPress != nil {
		b.OnPress()
	}
}

// onHoldEvent handles a button-hold event. The controller repeats these
// roughly every 500ms for as long as the button stays physically held;
// this bridge counts repeats within a burst and fires OnLongPressStart
// exactly once, when the burst reaches longPressRepeatThreshold, rather
// than on the first hold event (a single hold report can also arrive for a
// press shorter than the long-press threshold). The caller is expected to
// periodically call ExpireHolds to detect the end of a burst once events
// stop arriving.
func (b *Button) onHoldEvent() {
	b.mu.Lock()
	if !b.held {
		b.holdCount = 0
		b.longPressFired = false
	}
	b.held = true
	b.holdCount++
	b.lastHoldAt = b.clock.Now()
	fire := b.holdCount >= longPressRepeatThreshold && !b.longPressFired
	if fire {
		b.longPressFired = true
	}
	b.mu.Unlock()

	if fire && b.OnLongPressStart != nil {
		b.OnLongPressStart()
	}
}

// ExpireHolds checks whether this button's hold burst has gone silent for
// longer than holdRepeatWindow and, if so, fires OnLongPressEnd exactly
// once. Intended to be called periodically (e.g. by Client's event loop) for
// every known button.
func (b *Button) ExpireHolds() {
	b.mu.Lock()
	expired := b.held && b.clock.Now().Sub(b.lastHoldAt) > holdRepeatWindow
	if expired {
		b.held = false
		b.holdCount = 0
		b.longPressFired = false
	}
	b.mu.Unlock()

	if expired && b.OnLongPressEnd != nil {
		b.OnLongPressEnd()
	}
}
