// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package entity

import (
	"context"
	"sync"

	"github.com/zencontrol/zencontrol-go/api"
)

// Light is one ECG (control gear) fixture.
type Light struct {
	ControllerID int
	Address      api.Address
	Name         string

	client *Client

	mu      sync.RWMutex
	level   byte
	colour  api.Colour
	hasColour bool

	_ struct{}
}

func newLight(c *Client, controllerID int, addr api.Address, name string) *Light {
	return &Light{ControllerID: controllerID, Address: addr, Name: name, client: c}
}

// Level returns the last level this bridge observed for the light, either
// from a query or a level-change event. It does not itself query the
// controller.
func (l *Light) Level() byte {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// Colour returns the last colour observed for the light, if any.
func (l *Light) Colour() (api.Colour, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.colour, l.hasColour
}

func (l *Light) setLevel(level byte) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

func (l *Light) setColour(c api.Colour) {
	l.mu.Lock()
	l.colour = c
	l.hasColour = true
	l.mu.Unlock()
}

// On turns the light on by recalling its last active level.
func (l *Light) On(ctx context.Context) error {
	_, err := l.client.protocol.DALIGoToLastActiveLevel(ctx, l.ControllerID, l.Address)
	return err
}

// Off turns the light off.
func (l *Light) Off(ctx context.Context) error {
	_, err := l.client.protocol.DALIOff(ctx, l.ControllerID, l.Address)
	return err
}

// SetLevel sets an absolute arc level.
func (l *Light) SetLevel(ctx context.Context, level byte) error {
	_, err := l.client.protocol.DALIArcLevel(ctx, l.ControllerID, l.Address, level)
	if err == nil {
		l.setLevel(level)
	}
	return err
}

// Fade fades to level over seconds.
func (l *Light) Fade(ctx context.Context, level byte, seconds uint16) error {
	_, err := l.client.protocol.DALICustomFade(ctx, l.ControllerID, l.Address, level, seconds)
	if err == nil {
		l.setLevel(level)
	}
	return err
}

// SetColour sets a colour and level together.
func (l *Light) SetColour(ctx context.Context, colour api.Colour, level byte) error {
	_, err := l.client.protocol.DALIColour(ctx, l.ControllerID, l.Address, colour, level)
	if err == nil {
		l.setLevel(level)
		l.setColour(colour)
	}
	return err
}

// Refresh re-queries the controller for the light's current level and
// colour, updating the cached values Level and Colour return.
func (l *Light) Refresh(ctx context.Context) error {
	level, err := l.client.protocol.QueryLevel(ctx, l.ControllerID, l.Address)
	if err != nil {
		return err
	}
	l.setLevel(level)
	if colour, err := l.client.protocol.QueryColour(ctx, l.ControllerID, l.Address); err == nil {
		l.setColour(colour)
	}
	return nil
}
