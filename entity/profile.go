// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package entity

import (
	"context"
	"sync"

	"github.com/zencontrol/zencontrol-go/api"
)

// Profile is one lighting profile configured on a controller.
type Profile struct {
	ControllerID int
	Number       uint16
	Name         string

	client *Client

	mu      sync.RWMutex
	current bool

	_ struct{}
}

func newProfile(c *Client, controllerID int, number uint16, name string) *Profile {
	return &Profile{ControllerID: controllerID, Number: number, Name: name, client: c}
}

// Current reports whether this profile is currently active on its
// controller, as last observed.
func (p *Profile) Current() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Activate switches the controller to this profile.
func (p *Profile) Activate(ctx context.Context) error {
	_, err := p.client.protocol.ChangeProfileNumber(ctx, p.ControllerID, p.Number)
	return err
}

func (p *Profile) setCurrent(current bool) {
	p.mu.Lock()
	p.current = current
	p.mu.Unlock()
}

// ReturnToScheduled hands control of controllerID back to its own schedule.
func (c *Client) ReturnToScheduled(ctx context.Context, controllerID int) error {
	_, err := c.protocol.ChangeProfileNumber(ctx, controllerID, api.ProfileReturnToScheduled)
	return err
}
