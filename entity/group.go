// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package entity

import (
	"context"
	"sync"

	"github.com/zencontrol/zencontrol-go/api"
)

// Group is a DALI group: a set of ECG members addressed together.
//
// A group's "current level" is only meaningful when every member agrees;
// the discoordinated flag marks a group whose members may have drifted from
// its last commanded level. This package does not track group membership
// and nothing in it calls onMemberDrift, so no member event sets the flag;
// SetLevel and group level-change events clear it.
type Group struct {
	ControllerID int
	Number       int
	Address      api.Address
	Name         string

	client *Client

	mu             sync.RWMutex
	level          byte
	discoordinated bool

	_ struct{}
}

func newGroup(c *Client, controllerID int, number int, addr api.Address, name string) *Group {
	return &Group{ControllerID: controllerID, Number: number, Address: addr, Name: name, client: c}
}

// Level returns the group's last commanded level, and whether the group is
// currently known to be discoordinated (in which case Level is the last
// coordinated value, not necessarily any member's current level).
func (g *Group) Level() (level byte, discoordinated bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.level, g.discoordinated
}

// SetLevel commands every member of the group to an absolute level and
// marks the group as coordinated at that level.
func (g *Group) SetLevel(ctx context.Context, level byte) error {
	_, err := g.client.protocol.DALIArcLevel(ctx, g.ControllerID, g.Address, level)
	if err != nil {
		return err
	}
	g.mu.Lock()
	g.level = level
	g.discoordinated = false
	g.mu.Unlock()
	return nil
}

// SetScene recalls a scene on every member of the group. The group's level
// is only updated from the following level-change event, since a scene's
// effective level isn't known until the controller reports it.
func (g *Group) SetScene(ctx context.Context, scene byte) error {
	_, err := g.client.protocol.DALIRecallScene(ctx, g.ControllerID, g.Address, scene)
	return err
}

// onMemberDrift marks the group discoordinated. Nothing in this package
// calls it.
func (g *Group) onMemberDrift() {
	g.mu.Lock()
	g.discoordinated = true
	g.mu.Unlock()
}

// onGroupLevelEvent updates the group's level from an observed group-scope
// level-change event, marking it coordinated again.
func (g *Group) onGroupLevelEvent(level byte) {
	g.mu.Lock()
	g.level = level
	g.discoordinated = false
	g.mu.Unlock()
}
