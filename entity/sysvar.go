// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package entity

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// byMeEchoWindow bounds how long after this bridge writes a system variable
// it should suppress the controller's own change event for that write,
// rather than re-delivering it to the caller as if it were an external
// change.
const byMeEchoWindow = 2 * time.Second

// SystemVariable is one of a controller's system variables.
type SystemVariable struct {
	ControllerID int
	Number       byte
	Name         string

	client *Client
	clock  clockwork.Clock

	mu          sync.RWMutex
	value       float64
	lastSetAt   time.Time
	lastSetByMe bool

	// OnChange fires for every observed change not suppressed as an echo of
	// this bridge's own SetValue call.
	OnChange func(value float64)

	_ struct{}
}

func newSystemVariable(c *Client, controllerID int, number byte, name string) *SystemVariable {
	return &SystemVariable{ControllerID: controllerID, Number: number, Name: name, client: c, clock: clockwork.NewRealClock()}
}

// Value returns the variable's last known value.
func (s *SystemVariable) Value() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// SetValue writes the variable's value and marks the following change
// event (if it arrives within byMeEchoWindow) as an echo, not delivered to
// OnChange.
func (s *SystemVariable) SetValue(ctx context.Context, value int16) error {
	_, err := s.client.protocol.SetSystemVariable(ctx, s.ControllerID, s.Number, value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.value = float64(value)
	s.lastSetAt = s.clock.Now()
	s.lastSetByMe = true
	s.mu.Unlock()
	return nil
}

// onChangeEvent handles a system-variable-change push event, suppressing it
// as an echo of a recent local SetValue.
func (s *SystemVariable) onChangeEvent(value float64) {
	s.mu.Lock()
	echo := s.lastSetByMe && s.clock.Now().Sub(s.lastSetAt) < byMeEchoWindow && value == s.value
	s.value = value
	if echo {
		s.lastSetByMe = false
	}
	s.mu.Unlock()

	if !echo && s.OnChange != nil {
		s.OnChange(value)
	}
}
