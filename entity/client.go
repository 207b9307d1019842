// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package entity

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/maruel/natural"
	"github.com/zencontrol/zencontrol-go/api"
	"github.com/zencontrol/zencontrol-go/config"
	zio "github.com/zencontrol/zencontrol-go/io"
)

// decayPollInterval is how often Client re-checks every registered
// button's hold burst and motion sensor's occupancy timer for expiry.
const decayPollInterval = time.Second

// Callbacks is the bundle of handlers a zencontrol bridge integration installs,
// grouped into one struct rather than many separate Subscribe calls so an
// integration can be registered with a single call and a nil field simply
// means "not interested" (see the redesign note on consolidating per-event
// subscriptions into one capability bundle).
type Callbacks struct {
	OnConnect             func(controllerID int)
	OnDisconnect          func(controllerID int)
	OnProfileChange       func(*Profile)
	OnGroupChange         func(*Group)
	OnLightChange         func(*Light)
	OnButtonPress         func(*Button)
	OnButtonLongPress     func(*Button)
	OnMotionEvent         func(*MotionSensor)
	OnSystemVariableChange func(*SystemVariable, float64)
}

// Client is the top-level zencontrol bridge: it owns one api.Protocol, one
// api.Events dispatcher, and the enumerated entity model fanned out from
// configuration and push events.
type Client struct {
	protocol *api.Protocol
	events   *api.Events

	Callbacks Callbacks

	// ClientData is an integration-owned slot, never read or written by this
	// package. It exists so an integration can stash its own per-bridge
	// state (a Home Assistant device registry handle, say) without needing a
	// side map keyed by *Client.
	ClientData interface{}

	mu          sync.RWMutex
	controllers map[int]*Controller
	lights      map[lightKey]*Light
	groups      map[groupKey]*Group
	buttons     map[instanceKey]*Button
	motion      map[instanceKey]*MotionSensor
	profiles    map[profileKey]*Profile
	sysvars     map[sysvarKey]*SystemVariable

	stopDecay chan struct{}

	_ struct{}
}

type lightKey struct {
	controllerID int
	number       int
}
type groupKey struct {
	controllerID int
	number       int
}
type instanceKey struct {
	controllerID int
	address      int
	instance     int
}
type profileKey struct {
	controllerID int
	number       uint16
}
type sysvarKey struct {
	controllerID int
	number       byte
}

// New connects to every controller in cfg and returns a ready Client. On
// any controller failing to connect, every controller connected so far is
// closed before returning the error.
func New(ctx context.Context, cfg *config.Root) (*Client, error) {
	c := &Client{
		protocol:    api.NewProtocol(),
		events:      api.NewEvents(),
		controllers: map[int]*Controller{},
		lights:      map[lightKey]*Light{},
		groups:      map[groupKey]*Group{},
		buttons:     map[instanceKey]*Button{},
		motion:      map[instanceKey]*MotionSensor{},
		profiles:    map[profileKey]*Profile{},
		sysvars:     map[sysvarKey]*SystemVariable{},
		stopDecay:   make(chan struct{}),
	}
	c.installCallbacks()
	go c.pollDecay()

	for i := range cfg.Controllers {
		cc := &cfg.Controllers[i]
		if err := c.protocol.AddController(ctx, cc.ID, cc.Host, cc.Port); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("entity: controller %q: %w", cc.Name, err)
		}
		c.events.RegisterSource(cc.ID, cc.Host)
		ent := controllerFromConfig(cc)
		c.mu.Lock()
		c.controllers[cc.ID] = &ent
		c.mu.Unlock()
		if c.Callbacks.OnConnect != nil {
			c.Callbacks.OnConnect(cc.ID)
		}
	}
	return c, nil
}

// Close tears down every controller connection and stops the background
// decay poller.
func (c *Client) Close() error {
	close(c.stopDecay)
	return c.protocol.Close()
}

// pollDecay periodically expires button-hold bursts and motion-sensor
// occupancy timers that have gone silent, since the controller does not
// always push an explicit end-of-hold or vacant event.
func (c *Client) pollDecay() {
	t := time.NewTicker(decayPollInterval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			c.mu.RLock()
			buttons := make([]*Button, 0, len(c.buttons))
			for _, b := range c.buttons {
				buttons = append(buttons, b)
			}
			sensors := make([]*MotionSensor, 0, len(c.motion))
			for _, m := range c.motion {
				sensors = append(sensors, m)
			}
			c.mu.RUnlock()
			for _, b := range buttons {
				b.ExpireHolds()
			}
			for _, m := range sensors {
				m.CheckDecay()
			}
		case <-c.stopDecay:
			return
		}
	}
}

// Protocol exposes the underlying Protocol for direct command access beyond
// the entity model (e.g. persisting its cache).
func (c *Client) Protocol() *api.Protocol { return c.protocol }

// Dispatch feeds one decoded push event through the entity model. The
// caller is responsible for reading events off an io.Listener and handing
// them here (see cmd/zenbridge for the reference wiring).
func (c *Client) Dispatch(ev *zio.Event) {
	c.events.Dispatch(ev)
}

// GetLight returns the Light entity for (controllerID, ecgNumber),
// registering it on first use.
func (c *Client) GetLight(controllerID int, ecgNumber int) *Light {
	key := lightKey{controllerID, ecgNumber}
	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok := c.lights[key]; ok {
		return l
	}
	addr, _ := api.NewAddress(api.AddressECG, ecgNumber)
	l := newLight(c, controllerID, addr, fmt.Sprintf("ecg%d", ecgNumber))
	c.lights[key] = l
	return l
}

// GetGroup returns the Group entity for (controllerID, groupNumber),
// registering it on first use.
func (c *Client) GetGroup(controllerID int, groupNumber int) *Group {
	key := groupKey{controllerID, groupNumber}
	c.mu.Lock()
	defer c.mu.Unlock()
	if g, ok := c.groups[key]; ok {
		return g
	}
	addr, _ := api.NewAddress(api.AddressGroup, groupNumber)
	g := newGroup(c, controllerID, groupNumber, addr, fmt.Sprintf("group%d", groupNumber))
	c.groups[key] = g
	return g
}

// GetButton returns the Button entity for an ECD instance, registering it
// on first use.
func (c *Client) GetButton(controllerID int, addr api.Address, instance int) *Button {
	key := instanceKey{controllerID, addr.Number, instance}
	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.buttons[key]; ok {
		return b
	}
	b := newButton(controllerID, addr, instance, fmt.Sprintf("%s.%d", addr, instance))
	c.buttons[key] = b
	return b
}

// GetMotionSensor returns the MotionSensor entity for an ECD instance,
// registering it on first use.
func (c *Client) GetMotionSensor(controllerID int, addr api.Address, instance int) *MotionSensor {
	key := instanceKey{controllerID, addr.Number, instance}
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.motion[key]; ok {
		return m
	}
	m := newMotionSensor(c, controllerID, addr, instance, fmt.Sprintf("%s.%d", addr, instance))
	c.motion[key] = m
	return m
}

// GetProfile returns the Profile entity for (controllerID, number),
// registering it on first use.
func (c *Client) GetProfile(controllerID int, number uint16) *Profile {
	key := profileKey{controllerID, number}
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.profiles[key]; ok {
		return p
	}
	p := newProfile(c, controllerID, number, fmt.Sprintf("profile%d", number))
	c.profiles[key] = p
	return p
}

// GetSystemVariable returns the SystemVariable entity for (controllerID,
// number), registering it on first use.
func (c *Client) GetSystemVariable(controllerID int, number byte) *SystemVariable {
	key := sysvarKey{controllerID, number}
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.sysvars[key]; ok {
		return s
	}
	s := newSystemVariable(c, controllerID, number, fmt.Sprintf("sysvar%d", number))
	c.sysvars[key] = s
	return s
}

// GetLights returns every registered Light, ordered naturally by name
// (so "light2" sorts before "light10").
func (c *Client) GetLights() []*Light {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Light, 0, len(c.lights))
	for _, l := range c.lights {
		out = append(out, l)
	}
	sort.Sort(byLightName(out))
	return out
}

// GetGroups returns every registered Group, ordered naturally by name.
func (c *Client) GetGroups() []*Group {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Group, 0, len(c.groups))
	for _, g := range c.groups {
		out = append(out, g)
	}
	sort.Sort(byGroupName(out))
	return out
}

// GetButtons returns every registered Button, ordered naturally by name.
func (c *Client) GetButtons() []*Button {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Button, 0, len(c.buttons))
	for _, b := range c.buttons {
		out = append(out, b)
	}
	sort.Sort(byButtonName(out))
	return out
}

// byLightName, byGroupName, byButtonName adapt natural.Less (a
// natural-sort string comparator, so numeric suffixes compare as numbers
// rather than lexically) to sort.Interface for each entity slice type.
type byLightName []*Light

func (s byLightName) Len() int           { return len(s) }
func (s byLightName) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
func (s byLightName) Less(i, j int) bool { return natural.Less(s[i].Name, s[j].Name) }

type byGroupName []*Group

func (s byGroupName) Len() int           { return len(s) }
func (s byGroupName) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
func (s byGroupName) Less(i, j int) bool { return natural.Less(s[i].Name, s[j].Name) }

type byButtonName []*Button

func (s byButtonName) Len() int           { return len(s) }
func (s byButtonName) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
func (s byButtonName) Less(i, j int) bool { return natural.Less(s[i].Name, s[j].Name) }

// installCallbacks wires api.Events callbacks to update the entity model
// and fan out to c.Callbacks.
func (c *Client) installCallbacks() {
	c.events.Callbacks.OnButtonPress = func(ev api.ButtonEvent) {
		b := c.GetButton(ev.ControllerID, ev.Address, ev.Instance)
		b.onPressEvent()
		if c.Callbacks.OnButtonPress != nil {
			c.Callbacks.OnButtonPress(b)
		}
	}
	c.events.Callbacks.OnButtonHold = func(ev api.ButtonEvent) {
		b := c.GetButton(ev.ControllerID, ev.Address, ev.Instance)
		if b.OnLongPressStart == nil {
			b.OnLongPressStart = func() {
				if c.Callbacks.OnButtonLongPress != nil {
					c.Callbacks.OnButtonLongPress(b)
				}
			}
		}
		b.onHoldEvent()
	}
	c.events.Callbacks.OnIsOccupied = func(ev api.OccupancyEvent) {
		m := c.GetMotionSensor(ev.ControllerID, ev.Address, ev.Instance)
		m.onOccupiedEvent(ev.Occupied)
		if c.Callbacks.OnMotionEvent != nil {
			c.Callbacks.OnMotionEvent(m)
		}
	}
	c.events.Callbacks.OnColourChange = func(ev api.ColourChangeEvent) {
		l := c.lightForGroupAddress(ev.ControllerID, ev.Address)
		if l == nil {
			return
		}
		l.setColour(ev.Colour)
		if c.Callbacks.OnLightChange != nil {
			c.Callbacks.OnLightChange(l)
		}
	}
	c.events.Callbacks.OnLevelChange = func(ev api.LevelChangeEvent) {
		if ev.Address.Kind == api.AddressGroup {
			g := c.GetGroup(ev.ControllerID, ev.Address.Number)
			g.onGroupLevelEvent(ev.Level)
			if c.Callbacks.OnGroupChange != nil {
				c.Callbacks.OnGroupChange(g)
			}
			return
		}
		l := c.GetLight(ev.ControllerID, ev.Address.Number)
		l.setLevel(ev.Level)
		if c.Callbacks.OnLightChange != nil {
			c.Callbacks.OnLightChange(l)
		}
	}
	c.events.Callbacks.OnProfileChange = func(ev api.ProfileChangeEvent) {
		c.mu.RLock()
		for key, p := range c.profiles {
			if key.controllerID == ev.ControllerID {
				p.setCurrent(key.number == ev.Profile)
			}
		}
		c.mu.RUnlock()
		if c.Callbacks.OnProfileChange != nil {
			c.Callbacks.OnProfileChange(c.GetProfile(ev.ControllerID, ev.Profile))
		}
	}
	c.events.Callbacks.OnSystemVariableChange = func(ev api.SystemVariableEvent) {
		s := c.GetSystemVariable(ev.ControllerID, ev.Variable)
		if s.OnChange == nil {
			s.OnChange = func(value float64) {
				if c.Callbacks.OnSystemVariableChange != nil {
					c.Callbacks.OnSystemVariableChange(s, value)
				}
			}
		}
		s.onChangeEvent(ev.Value)
	}
}

// lightForGroupAddress resolves a colour-change event's address (which is a
// group, per the wire protocol) to a representative Light entity; absent a
// per-member fan-out in this event, this returns the group's own synthetic
// Light-shaped view by constructing a Light over the group's wire address
// so callers still get level/colour tracking at the address the event
// actually named.
func (c *Client) lightForGroupAddress(controllerID int, addr api.Address) *Light {
	if addr.Kind != api.AddressGroup {
		return c.GetLight(controllerID, addr.Number)
	}
	key := lightKey{controllerID, -1 - addr.Number} // disjoint from ECG keys
	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok := c.lights[key]; ok {
		return l
	}
	l := newLight(c, controllerID, addr, fmt.Sprintf("group%d-colour", addr.Number))
	c.lights[key] = l
	return l
}
