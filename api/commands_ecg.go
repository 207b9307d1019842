// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package api

import "context"

// DALIOff turns the target off.
func (p *Protocol) DALIOff(ctx context.Context, controllerID int, addr Address) (bool, error) {
	return p.commandOK(ctx, controllerID, OpDALIOff, addr.Byte(), nil)
}

// DALIArcLevel sets an absolute arc level 0..254 (255 is reserved for "no
// change").
func (p *Protocol) DALIArcLevel(ctx context.Context, controllerID int, addr Address, level byte) (bool, error) {
	return p.commandOK(ctx, controllerID, OpDALIArcLevel, addr.Byte(), []byte{0x00, 0x00, level})
}

// DALIRecallMin recalls the configured minimum level.
func (p *Protocol) DALIRecallMin(ctx context.Context, controllerID int, addr Address) (bool, error) {
	return p.commandOK(ctx, controllerID, OpDALIRecallMin, addr.Byte(), nil)
}

// DALIRecallMax recalls the configured maximum level.
func (p *Protocol) DALIRecallMax(ctx context.Context, controllerID int, addr Address) (bool, error) {
	return p.commandOK(ctx, controllerID, OpDALIRecallMax, addr.Byte(), nil)
}

// DALIUp steps the level up once.
func (p *Protocol) DALIUp(ctx context.Context, controllerID int, addr Address) (bool, error) {
	return p.commandOK(ctx, controllerID, OpDALIUp, addr.Byte(), nil)
}

// DALIDown steps the level down once.
func (p *Protocol) DALIDown(ctx context.Context, controllerID int, addr Address) (bool, error) {
	return p.commandOK(ctx, controllerID, OpDALIDown, addr.Byte(), nil)
}

// DALIOnStepUp turns on (if off) and steps the level up once.
func (p *Protocol) DALIOnStepUp(ctx context.Context, controllerID int, addr Address) (bool, error) {
	return p.commandOK(ctx, controllerID, OpDALIOnStepUp, addr.Byte(), nil)
}

// DALIStepDownOff steps the level down once, turning off if it reaches the
// bottom.
func (p *Protocol) DALIStepDownOff(ctx context.Context, controllerID int, addr Address) (bool, error) {
	return p.commandOK(ctx, controllerID, OpDALIStepDownOff, addr.Byte(), nil)
}

// DALICustomFade fades to level over seconds (up to 65535 seconds).
func (p *Protocol) DALICustomFade(ctx context.Context, controllerID int, addr Address, level byte, seconds uint16) (bool, error) {
	return p.commandOK(ctx, controllerID, OpDALICustomFade, addr.Byte(), []byte{level, byte(seconds >> 8), byte(seconds)})
}

// DALIStopFade halts any fade currently in progress.
func (p *Protocol) DALIStopFade(ctx context.Context, controllerID int, addr Address) (bool, error) {
	return p.commandOK(ctx, controllerID, OpDALIStopFade, addr.Byte(), nil)
}

// DALIGoToLastActiveLevel restores the last non-off level.
func (p *Protocol) DALIGoToLastActiveLevel(ctx context.Context, controllerID int, addr Address) (bool, error) {
	return p.commandOK(ctx, controllerID, OpDALIGoToLastActive, addr.Byte(), nil)
}

// DALIInhibit suppresses DALI bus commands to the target for seconds (up to
// 65535 seconds).
func (p *Protocol) DALIInhibit(ctx context.Context, controllerID int, addr Address, seconds uint16) (bool, error) {
	return p.commandOK(ctx, controllerID, OpDALIInhibit, addr.Byte(), []byte{0x00, byte(seconds >> 8), byte(seconds)})
}

// DALIEnableDAPCSequence overrides fade rate for a short DAPC window.
func (p *Protocol) DALIEnableDAPCSequence(ctx context.Context, controllerID int, addr Address) (bool, error) {
	return p.queryBool(ctx, controllerID, OpDALIEnableDAPC, addr.Byte())
}

// DALIRecallScene recalls a scene number (0..15) on the target, which may
// be an individual ECG or a group address.
func (p *Protocol) DALIRecallScene(ctx context.Context, controllerID int, addr Address, scene byte) (bool, error) {
	return p.commandOK(ctx, controllerID, OpDALIRecallScene, addr.Byte(), []byte{0x00, 0x00, scene})
}

// DALIColour sets a colour (and level) on the target.
func (p *Protocol) DALIColour(ctx context.Context, controllerID int, addr Address, colour Colour, level byte) (bool, error) {
	return p.sendColour(ctx, controllerID, OpDALIColour, addr.Byte(), colour, level, sendOpts{})
}

// QueryLevel returns the target's current arc level.
func (p *Protocol) QueryLevel(ctx context.Context, controllerID int, addr Address) (byte, error) {
	b, err := p.queryBytes(ctx, controllerID, OpQueryLevel, addr.Byte(), false)
	if err != nil || len(b) == 0 {
		return 0, err
	}
	return b[0], nil
}

// QueryColour returns the target's current colour.
func (p *Protocol) QueryColour(ctx context.Context, controllerID int, addr Address) (Colour, error) {
	b, err := p.queryBytes(ctx, controllerID, OpQueryColour, addr.Byte(), false)
	if err != nil || b == nil {
		return Colour{}, err
	}
	return DecodeColour(b)
}

// ColourFeatures describes what colour capabilities a target advertises.
type ColourFeatures struct {
	SupportsXY        bool
	SupportsTunable   bool
	PrimaryCount      int
	RGBWAFChannels    int

	_ struct{}
}

// QueryColourFeatures returns the target's colour capability flags.
func (p *Protocol) QueryColourFeatures(ctx context.Context, controllerID int, addr Address) (ColourFeatures, error) {
	b, err := p.queryBytes(ctx, controllerID, OpQueryColourFeatures, addr.Byte(), true)
	if err != nil || len(b) == 0 {
		return ColourFeatures{}, err
	}
	flags := b[0]
	f := ColourFeatures{
		SupportsXY:      flags&(1<<0) != 0,
		SupportsTunable: flags&(1<<1) != 0,
	}
	if len(b) > 1 {
		f.PrimaryCount = int(b[1])
	}
	if len(b) > 2 {
		f.RGBWAFChannels = int(b[2])
	}
	return f, nil
}

// ColourTempLimits describes a target's tunable-white range.
type ColourTempLimits struct {
	PhysicalWarmest, PhysicalCoolest uint16
	SoftWarmest, SoftCoolest         uint16
	Step                             uint16

	_ struct{}
}

// QueryColourTempLimits returns the target's kelvin range and step size.
func (p *Protocol) QueryColourTempLimits(ctx context.Context, controllerID int, addr Address) (ColourTempLimits, error) {
	b, err := p.queryBytes(ctx, controllerID, OpQueryColourTempLimits, addr.Byte(), true)
	if err != nil || len(b) < 10 {
		return ColourTempLimits{}, err
	}
	u16 := func(i int) uint16 { return uint16(b[i])<<8 | uint16(b[i+1]) }
	return ColourTempLimits{
		PhysicalWarmest: u16(0),
		PhysicalCoolest: u16(2),
		SoftWarmest:     u16(4),
		SoftCoolest:     u16(6),
		Step:            u16(8),
	}, nil
}

// QueryType returns the target's DALI control gear type byte.
func (p *Protocol) QueryType(ctx context.Context, controllerID int, addr Address) (byte, error) {
	b, err := p.queryBytes(ctx, controllerID, OpQueryType, addr.Byte(), true)
	if err != nil || len(b) == 0 {
		return 0, err
	}
	return b[0], nil
}

// QueryStatus returns the target's raw 8-bit status flags.
func (p *Protocol) QueryStatus(ctx context.Context, controllerID int, addr Address) (byte, error) {
	b, err := p.queryBytes(ctx, controllerID, OpQueryStatus, addr.Byte(), false)
	if err != nil || len(b) == 0 {
		return 0, err
	}
	return b[0], nil
}

// QueryMinLevel returns the target's configured minimum level.
func (p *Protocol) QueryMinLevel(ctx context.Context, controllerID int, addr Address) (byte, error) {
	b, err := p.queryBytes(ctx, controllerID, OpQueryMinLevel, addr.Byte(), true)
	if err != nil || len(b) == 0 {
		return 0, err
	}
	return b[0], nil
}

// QueryMaxLevel returns the target's configured maximum level.
func (p *Protocol) QueryMaxLevel(ctx context.Context, controllerID int, addr Address) (byte, error) {
	b, err := p.queryBytes(ctx, controllerID, OpQueryMaxLevel, addr.Byte(), true)
	if err != nil || len(b) == 0 {
		return 0, err
	}
	return b[0], nil
}

// QueryFadeRunning reports whether a fade is currently in progress.
func (p *Protocol) QueryFadeRunning(ctx context.Context, controllerID int, addr Address) (bool, error) {
	return p.queryBool(ctx, controllerID, OpQueryFadeRunning, addr.Byte())
}

// QueryLastScene returns the last scene number recalled on the target.
func (p *Protocol) QueryLastScene(ctx context.Context, controllerID int, addr Address) (byte, error) {
	b, err := p.queryBytes(ctx, controllerID, OpQueryLastScene, addr.Byte(), false)
	if err != nil || len(b) == 0 {
		return 0, err
	}
	return b[0], nil
}

// QueryLastSceneIsCurrent reports whether the target's state still matches
// its last recalled scene.
func (p *Protocol) QueryLastSceneIsCurrent(ctx context.Context, controllerID int, addr Address) (bool, error) {
	return p.queryBool(ctx, controllerID, OpQueryLastSceneIsCurrent, addr.Byte())
}

// QueryEAN returns the target's 48-bit EAN.
func (p *Protocol) QueryEAN(ctx context.Context, controllerID int, addr Address) (uint64, error) {
	return p.queryInt(ctx, controllerID, OpQueryEAN, addr.Byte(), true)
}

// QuerySerial returns the target's 64-bit serial number.
func (p *Protocol) QuerySerial(ctx context.Context, controllerID int, addr Address) (uint64, error) {
	return p.queryInt(ctx, controllerID, OpQuerySerial, addr.Byte(), true)
}

// QueryFittingNumber returns the target's fitting number.
func (p *Protocol) QueryFittingNumber(ctx context.Context, controllerID int, addr Address) (uint64, error) {
	return p.queryInt(ctx, controllerID, OpQueryFittingNumber, addr.Byte(), true)
}
