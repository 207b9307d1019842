// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package entity

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/zencontrol/zencontrol-go/api"
)

// MotionSensor is one occupancy-sensor instance on an ECD.
//
// The controller reports occupied transitions as events; it does not push
// an explicit "now vacant" event for every sensor firmware revision, so
// this tracks a local hold timer to decay Occupied back to false even if
// the expected vacant event is missed. The hold time starts at 10 seconds;
// RefreshHoldTime replaces it with the controller's configured value, and
// nothing calls RefreshHoldTime automatically.
type MotionSensor struct {
	ControllerID int
	Address      api.Address
	Instance     int
	Name         string

	client *Client
	clock  clockwork.Clock

	mu         sync.RWMutex
	occupied   bool
	holdExpiry time.Time
	holdTime   time.Duration

	OnOccupied func()
	OnVacant   func()

	_ struct{}
}

func newMotionSensor(c *Client, controllerID int, addr api.Address, instance int, name string) *MotionSensor {
	return &MotionSensor{ControllerID: controllerID, Address: addr, Instance: instance, Name: name, client: c, clock: clockwork.NewRealClock(), holdTime: 10 * time.Second}
}

// Occupied reports the sensor's last known occupancy state, decaying to
// false once the hold timer has lapsed.
func (m *MotionSensor) Occupied() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.occupied && m.clock.Now().After(m.holdExpiry) {
		return false
	}
	return m.occupied
}

// RefreshHoldTime queries the controller for this instance's configured
// hold and report timers, updating the local decay window.
func (m *MotionSensor) RefreshHoldTime(ctx context.Context) error {
	timers, err := m.client.protocol.QueryOccupancyTimers(ctx, m.ControllerID, m.Address, m.Instance)
	if err != nil || len(timers) == 0 {
		return err
	}
	m.mu.Lock()
	m.holdTime = time.Duration(timers[0]) * time.Second
	m.mu.Unlock()
	return nil
}

// onOccupiedEvent handles an is-occupied push event.
func (m *MotionSensor) onOccupiedEvent(occupied bool) {
	m.mu.Lock()
	wasOccupied := m.occupied && m.clock.Now().Before(m.holdExpiry)
	m.occupied = occupied
	if occupied {
		m.holdExpiry = m.clock.Now().Add(m.holdTime)
	}
	m.mu.Unlock()

	if occupied && !wasOccupied && m.OnOccupied != nil {
		m.OnOccupied()
	}
	if !occupied && wasOccupied && m.OnVacant != nil {
		m.OnVacant()
	}
}

// CheckDecay re-evaluates the hold timer and fires OnVacant if it has just
// lapsed. Intended to be called periodically by Client's event loop.
func (m *MotionSensor) CheckDecay() {
	m.mu.Lock()
	expired := m.occupied && m.clock.Now().After(m.holdExpiry)
	if expired {
		m.occupied = false
	}
	m.mu.Unlock()

	if expired && m.OnVacant != nil {
		m.OnVacant()
	}
}
