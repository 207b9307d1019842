// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package api

import (
	"testing"

	zio "github.com/zencontrol/zencontrol-go/io"
)

func TestEvents_DispatchesToRegisteredController(t *testing.T) {
	e := NewEvents()
	e.RegisterSource(7, "10.0.0.5")

	var got ButtonEvent
	called := false
	e.Callbacks.OnButtonPress = func(ev ButtonEvent) {
		called = true
		got = ev
	}

	ev := &zio.Event{
		Target:   0, // ECG 0
		Code:     byte(EventButtonPress),
		Payload:  []byte{3},
		SourceIP: "10.0.0.5",
	}
	e.Dispatch(ev)

	if !called {
		t.Fatal("expected OnButtonPress to be invoked")
	}
	if got.ControllerID != 7 {
		t.Errorf("ControllerID = %d, want 7", got.ControllerID)
	}
	if got.Instance != 3 {
		t.Errorf("Instance = %d, want 3", got.Instance)
	}
}

func TestEvents_UnknownSourceDropped(t *testing.T) {
	e := NewEvents()
	called := false
	e.Callbacks.OnButtonPress = func(ButtonEvent) { called = true }

	e.Dispatch(&zio.Event{Code: byte(EventButtonPress), SourceIP: "192.0.2.1"})

	if called {
		t.Error("expected an event from an unregistered source to be dropped")
	}
}

func TestEvents_LegacyLevelChangeIgnored(t *testing.T) {
	e := NewEvents()
	e.RegisterSource(1, "10.0.0.1")
	called := false
	e.Callbacks.OnLevelChange = func(LevelChangeEvent) { called = true }

	e.Dispatch(&zio.Event{Code: byte(EventLevelChangeLegacy), SourceIP: "10.0.0.1"})
	e.Dispatch(&zio.Event{Code: byte(EventGroupLevelChangeLegacy), SourceIP: "10.0.0.1"})

	if called {
		t.Error("legacy level-change events must never reach OnLevelChange")
	}
}

func TestEvents_LevelChangeV2_UsesSecondPayloadByte(t *testing.T) {
	e := NewEvents()
	e.RegisterSource(1, "10.0.0.1")

	var got LevelChangeEvent
	called := false
	e.Callbacks.OnLevelChange = func(ev LevelChangeEvent) {
		called = true
		got = ev
	}

	// Spec S5: target=10, event 0x0B, payload=[0xFE, 0x80] -> ECG 10, level=128.
	e.Dispatch(&zio.Event{
		Target:   10,
		Code:     byte(EventLevelChangeV2),
		Payload:  []byte{0xFE, 0x80},
		SourceIP: "10.0.0.1",
	})

	if !called {
		t.Fatal("expected OnLevelChange to be invoked")
	}
	if got.Address.Kind != AddressECG || got.Address.Number != 10 {
		t.Errorf("Address = %+v, want ECG 10", got.Address)
	}
	if got.Level != 128 {
		t.Errorf("Level = %d, want 128", got.Level)
	}
}

func TestEvents_ColourChange_AcceptsAnomalousTargetRange(t *testing.T) {
	e := NewEvents()
	e.RegisterSource(1, "10.0.0.1")

	var gotTarget uint16
	called := false
	e.Callbacks.OnColourChange = func(ev ColourChangeEvent) {
		called = true
		gotTarget = uint16(ev.Address.Number + 128)
	}

	colourPayload, err := NewColourTC(4000)
	if err != nil {
		t.Fatal(err)
	}

	e.Dispatch(&zio.Event{
		Target:   135, // anomalous but accepted range
		Code:     byte(EventColourChange),
		Payload:  colourPayload.Encode(),
		SourceIP: "10.0.0.1",
	})

	if !called {
		t.Fatal("expected OnColourChange to fire for a target in the anomalous-but-accepted range")
	}
	_ = gotTarget
}

func TestEvents_ColourChange_RejectsOutOfRangeTarget(t *testing.T) {
	e := NewEvents()
	e.RegisterSource(1, "10.0.0.1")
	called := false
	e.Callbacks.OnColourChange = func(ColourChangeEvent) { called = true }

	e.Dispatch(&zio.Event{Target: 200, Code: byte(EventColourChange), SourceIP: "10.0.0.1"})

	if called {
		t.Error("expected a target outside both known ranges to be dropped")
	}
}

func TestEvents_ButtonPress_TargetAbove64ResolvesToECD(t *testing.T) {
	e := NewEvents()
	e.RegisterSource(1, "10.0.0.1")

	var got ButtonEvent
	called := false
	e.Callbacks.OnButtonPress = func(ev ButtonEvent) {
		called = true
		got = ev
	}

	e.Dispatch(&zio.Event{Target: 70, Code: byte(EventButtonPress), Payload: []byte{2}, SourceIP: "10.0.0.1"})

	if !called {
		t.Fatal("expected OnButtonPress to be invoked")
	}
	if got.Address.Kind != AddressECD || got.Address.Number != 6 {
		t.Errorf("Address = %+v, want ECD 6", got.Address)
	}
}

func TestEvents_SceneChange_TargetAbove64ResolvesToGroup(t *testing.T) {
	e := NewEvents()
	e.RegisterSource(1, "10.0.0.1")

	var got SceneChangeEvent
	called := false
	e.Callbacks.OnSceneChange = func(ev SceneChangeEvent) {
		called = true
		got = ev
	}

	e.Dispatch(&zio.Event{Target: 70, Code: byte(EventSceneChange), Payload: []byte{3}, SourceIP: "10.0.0.1"})

	if !called {
		t.Fatal("expected OnSceneChange to be invoked")
	}
	if got.Address.Kind != AddressGroup || got.Address.Number != 6 {
		t.Errorf("Address = %+v, want Group 6", got.Address)
	}
}

func TestEvents_SystemVariableChange_IDComesFromTarget(t *testing.T) {
	e := NewEvents()
	e.RegisterSource(1, "10.0.0.1")

	var got SystemVariableEvent
	called := false
	e.Callbacks.OnSystemVariableChange = func(ev SystemVariableEvent) {
		called = true
		got = ev
	}

	// raw=1234, magnitude=-1 -> value=123.4; variable id 9 carried in Target.
	payload := []byte{0x00, 0x00, 0x04, 0xD2, 0xFF}
	e.Dispatch(&zio.Event{Target: 9, Code: byte(EventSystemVariableChange), Payload: payload, SourceIP: "10.0.0.1"})

	if !called {
		t.Fatal("expected OnSystemVariableChange to be invoked")
	}
	if got.Variable != 9 {
		t.Errorf("Variable = %d, want 9 (from event target)", got.Variable)
	}
	if got.Value != 123.4 {
		t.Errorf("Value = %v, want 123.4", got.Value)
	}
}
