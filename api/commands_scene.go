// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package api

import (
	"context"
	"fmt"
)

// QuerySceneNumbersByAddr returns the scene numbers configured for addr.
func (p *Protocol) QuerySceneNumbersByAddr(ctx context.Context, controllerID int, addr Address) ([]int, error) {
	return p.queryIntList(ctx, controllerID, OpQuerySceneNumbersByAddr, addr.Byte(), true)
}

// QuerySceneLevelsByAddr returns addr's configured level for each of its 16
// scenes; SceneAbsent marks a scene with no configured level.
func (p *Protocol) QuerySceneLevelsByAddr(ctx context.Context, controllerID int, addr Address) ([]byte, error) {
	return p.queryBytes(ctx, controllerID, OpQuerySceneLevelsByAddr, addr.Byte(), true)
}

// QueryColourSceneMembership returns which of addr's 16 scenes carry a
// colour component, as scene numbers.
func (p *Protocol) QueryColourSceneMembership(ctx context.Context, controllerID int, addr Address) ([]int, error) {
	return p.queryIntList(ctx, controllerID, OpQueryColourSceneMembership, addr.Byte(), true)
}

// QueryColourSceneData returns addr's colour for scene number, for scenes
// 0..11. The controller splits the query across two opcodes at the scene-8
// boundary; callers need not care which.
func (p *Protocol) QueryColourSceneData(ctx context.Context, controllerID int, addr Address, scene int) (Colour, error) {
	if scene < 0 || scene > 11 {
		return Colour{}, fmt.Errorf("api: scene number %d out of range [0,11]", scene)
	}
	opcode := OpQueryColourSceneData08
	if scene >= 8 {
		opcode = OpQueryColourSceneData811
	}
	b, err := p.queryBytes(ctx, controllerID, opcode, addr.Byte(), true)
	if err != nil || b == nil {
		return Colour{}, err
	}
	return DecodeColour(b)
}
