// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package api

import (
	"log"
	"sync"

	zio "github.com/zencontrol/zencontrol-go/io"
)

// colourChangeTargetLow/High and colourChangeAnomalousLow/High bound the
// group-address range a colour-change event's target can carry. 64..79 is
// the documented range; controllers have also been observed emitting
// 127..143 for the same event, which this still accepts as group
// target-128, logging the occurrence rather than dropping the event.
const (
	colourChangeTargetLow      = 64
	colourChangeTargetHigh     = 79
	colourChangeAnomalousLow   = 127
	colourChangeAnomalousHigh  = 143
)

// ButtonEvent is the argument to OnButtonPress and OnButtonHold.
type ButtonEvent struct {
	ControllerID int
	Address      Address
	Instance     int
}

// AbsoluteInputEvent is the argument to OnAbsoluteInput.
type AbsoluteInputEvent struct {
	ControllerID int
	Address      Address
	Instance     int
	Level        int
}

// SceneChangeEvent is the argument to OnSceneChange.
type SceneChangeEvent struct {
	ControllerID int
	Address      Address
	Scene        int
}

// OccupancyEvent is the argument to OnIsOccupied and OnGroupOccupied.
type OccupancyEvent struct {
	ControllerID int
	Address      Address
	Instance     int
	Occupied     bool
}

// SystemVariableEvent is the argument to OnSystemVariableChange.
type SystemVariableEvent struct {
	ControllerID int
	Variable     byte
	Value        float64
}

// ColourChangeEvent is the argument to OnColourChange.
type ColourChangeEvent struct {
	ControllerID int
	Address      Address
	Colour       Colour
}

// ProfileChangeEvent is the argument to OnProfileChange.
type ProfileChangeEvent struct {
	ControllerID int
	Profile      uint16
}

// LevelChangeEvent is the argument to OnLevelChange.
type LevelChangeEvent struct {
	ControllerID int
	Address      Address
	Level        byte
}

// EventCallbacks is the set of typed handlers Events.Dispatch invokes. A nil
// field is simply skipped. Legacy level-change events (codes 0x03/0x04) are
// never dispatched to OnLevelChange — EventLevelChangeV2 (0x0B) superseded
// them and the legacy codes are ignored entirely.
type EventCallbacks struct {
	OnButtonPress         func(ButtonEvent)
	OnButtonHold          func(ButtonEvent)
	OnAbsoluteInput       func(AbsoluteInputEvent)
	OnSceneChange         func(SceneChangeEvent)
	OnIsOccupied          func(OccupancyEvent)
	OnSystemVariableChange func(SystemVariableEvent)
	OnColourChange        func(ColourChangeEvent)
	OnProfileChange       func(ProfileChangeEvent)
	OnGroupOccupied       func(OccupancyEvent)
	OnLevelChange         func(LevelChangeEvent)
}

// Events dispatches decoded push events to typed callbacks, after matching
// the event's source IP to a registered controller. An event from an
// unrecognized source is logged and dropped, never raised as an error —
// consistent with the rest of the protocol layer's silent-discard policy
// for anything that isn't a directly awaited response.
type Events struct {
	mu        sync.RWMutex
	sources   map[string]int
	Callbacks EventCallbacks
}

// NewEvents constructs an empty dispatcher.
func NewEvents() *Events {
	return &Events{sources: map[string]int{}}
}

// RegisterSource associates a controller's source IP (as it will appear in
// incoming event datagrams) with its id.
func (e *Events) RegisterSource(controllerID int, host string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sources[host] = controllerID
}

// Dispatch decodes one raw event and invokes the matching callback, if any.
func (e *Events) Dispatch(ev *zio.Event) {
	e.mu.RLock()
	controllerID, known := e.sources[ev.SourceIP]
	e.mu.RUnlock()
	if !known {
		log.Printf("api: event from unregistered source %s dropped", ev.SourceIP)
		return
	}

	code := ZenEventCode(ev.Code)
	switch code {
	case EventLevelChangeLegacy, EventGroupLevelChangeLegacy:
		return // superseded by EventLevelChangeV2; never dispatched
	case EventButtonPress:
		if e.Callbacks.OnButtonPress != nil {
			e.Callbacks.OnButtonPress(ButtonEvent{ControllerID: controllerID, Address: e.targetAddress(ev, code), Instance: instanceFromPayload(ev.Payload)})
		}
	case EventButtonHold:
		if e.Callbacks.OnButtonHold != nil {
			e.Callbacks.OnButtonHold(ButtonEvent{ControllerID: controllerID, Address: e.targetAddress(ev, code), Instance: instanceFromPayload(ev.Payload)})
		}
	case EventAbsoluteInput:
		if e.Callbacks.OnAbsoluteInput != nil {
			lvl := 0
			if len(ev.Payload) > 1 {
				lvl = int(ev.Payload[1])
			}
			e.Callbacks.OnAbsoluteInput(AbsoluteInputEvent{ControllerID: controllerID, Address: e.targetAddress(ev, code), Instance: instanceFromPayload(ev.Payload), Level: lvl})
		}
	case EventSceneChange:
		if e.Callbacks.OnSceneChange != nil {
			scene := 0
			if len(ev.Payload) > 0 {
				scene = int(ev.Payload[0])
			}
			e.Callbacks.OnSceneChange(SceneChangeEvent{ControllerID: controllerID, Address: e.targetAddress(ev, code), Scene: scene})
		}
	case EventIsOccupied:
		if e.Callbacks.OnIsOccupied != nil {
			e.Callbacks.OnIsOccupied(OccupancyEvent{ControllerID: controllerID, Address: e.targetAddress(ev, code), Instance: instanceFromPayload(ev.Payload), Occupied: len(ev.Payload) > 0 && ev.Payload[0] != 0})
		}
	case EventSystemVariableChange:
		if e.Callbacks.OnSystemVariableChange != nil {
			value, err := DecodeSystemVariableEvent(ev.Payload)
			if err != nil {
				log.Printf("api: malformed system variable event: %v", err)
				return
			}
			e.Callbacks.OnSystemVariableChange(SystemVariableEvent{ControllerID: controllerID, Variable: byte(ev.Target), Value: value})
		}
	case EventColourChange:
		if !validColourChangeTarget(ev.Target) {
			log.Printf("api: colour change event target %d outside known ranges, dropped", ev.Target)
			return
		}
		if ev.Target >= colourChangeAnomalousLow {
			log.Printf("api: colour change event target %d in anomalous (observed, undocumented) range", ev.Target)
		}
		if e.Callbacks.OnColourChange != nil {
			colour, err := DecodeColour(ev.Payload)
			if err != nil {
				log.Printf("api: malformed colour change event: %v", err)
				return
			}
			e.Callbacks.OnColourChange(ColourChangeEvent{ControllerID: controllerID, Address: e.targetAddress(ev, code), Colour: colour})
		}
	case EventProfileChange:
		if e.Callbacks.OnProfileChange != nil {
			profile := uint16(0)
			if len(ev.Payload) >= 2 {
				profile = uint16(ev.Payload[0])<<8 | uint16(ev.Payload[1])
			}
			e.Callbacks.OnProfileChange(ProfileChangeEvent{ControllerID: controllerID, Profile: profile})
		}
	case EventGroupOccupied:
		if e.Callbacks.OnGroupOccupied != nil {
			e.Callbacks.OnGroupOccupied(OccupancyEvent{ControllerID: controllerID, Address: e.targetAddress(ev, code), Occupied: len(ev.Payload) > 0 && ev.Payload[0] != 0})
		}
	case EventLevelChangeV2:
		if e.Callbacks.OnLevelChange != nil {
			level := byte(0)
			if len(ev.Payload) > 1 {
				level = ev.Payload[1]
			}
			e.Callbacks.OnLevelChange(LevelChangeEvent{ControllerID: controllerID, Address: e.targetAddress(ev, code), Level: level})
		}
	default:
		log.Printf("api: unhandled event code %d dropped", ev.Code)
	}
}

// targetAddress turns an event's raw target field into an Address. Group
// and ECD addresses share the same n+64 wire encoding; the event's code
// disambiguates which is meant: button, absolute-input and occupancy
// events name a physical ECD instance, while scene-change, colour-change,
// group-occupied and level-change-v2 name a group.
func (e *Events) targetAddress(ev *zio.Event, code ZenEventCode) Address {
	if ev.Target < 64 {
		addr, _ := NewAddress(AddressECG, int(ev.Target))
		return addr
	}
	n := int(ev.Target) - 64
	if code == EventColourChange && ev.Target >= colourChangeAnomalousLow {
		n = int(ev.Target) - 128
	}
	switch code {
	case EventButtonPress, EventButtonHold, EventAbsoluteInput, EventIsOccupied:
		addr, err := NewAddress(AddressECD, n)
		if err != nil {
			return Address{Kind: AddressECD, Number: n}
		}
		return addr
	default:
		addr, err := NewAddress(AddressGroup, n)
		if err != nil {
			return Address{Kind: AddressGroup, Number: n}
		}
		return addr
	}
}

func validColourChangeTarget(target uint16) bool {
	return (target >= colourChangeTargetLow && target <= colourChangeTargetHigh) ||
		(target >= colourChangeAnomalousLow && target <= colourChangeAnomalousHigh)
}

func instanceFromPayload(payload []byte) int {
	if len(payload) == 0 {
		return 0
	}
	return int(payload[0])
}
