// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package api

// Opcode is a TPI Advanced command number. The registry below is a
// compile-time constant table — per spec's redesign note, the original's
// opcode-name-to-byte map does not need to stay data-driven at runtime.
//
// Every value is taken from the reference implementation's CMD map
// (original_source/zen.py); the name in the trailing comment is that map's
// key, so the two can be diffed directly against the ground truth.
type Opcode = byte

// Controller introspection.
const (
	OpQueryControllerVersion     Opcode = 0x1C // QUERY_CONTROLLER_VERSION_NUMBER
	OpQueryControllerLabel       Opcode = 0x24 // QUERY_CONTROLLER_LABEL
	OpQueryControllerFittingNum  Opcode = 0x25 // QUERY_CONTROLLER_FITTING_NUMBER
	OpQueryControllerStartupDone Opcode = 0x27 // QUERY_CONTROLLER_STARTUP_COMPLETE
	OpQueryControllerDALIReady   Opcode = 0x26 // QUERY_IS_DALI_READY
)

// ECG control.
const (
	OpDALIInhibit        Opcode = 0xA0 // DALI_INHIBIT
	OpDALIRecallScene    Opcode = 0xA1 // DALI_SCENE
	OpDALIArcLevel       Opcode = 0xA2 // DALI_ARC_LEVEL
	OpDALIOnStepUp       Opcode = 0xA3 // DALI_ON_STEP_UP
	OpDALIStepDownOff    Opcode = 0xA4 // DALI_STEP_DOWN_OFF
	OpDALIUp             Opcode = 0xA5 // DALI_UP
	OpDALIDown           Opcode = 0xA6 // DALI_DOWN
	OpDALIRecallMax      Opcode = 0xA7 // DALI_RECALL_MAX
	OpDALIRecallMin      Opcode = 0xA8 // DALI_RECALL_MIN
	OpDALIOff            Opcode = 0xA9 // DALI_OFF
	OpDALIEnableDAPC     Opcode = 0xB2 // DALI_ENABLE_DAPC_SEQ
	OpDALICustomFade     Opcode = 0xB4 // DALI_CUSTOM_FADE
	OpDALIGoToLastActive Opcode = 0xB5 // DALI_GO_TO_LAST_ACTIVE_LEVEL
	OpDALIColour         Opcode = 0x0E // DALI_COLOUR
	OpDALIStopFade       Opcode = 0xC1 // DALI_STOP_FADE
)

// ECG query.
const (
	OpQueryLevel              Opcode = 0xAA // DALI_QUERY_LEVEL
	OpQueryType               Opcode = 0xAC // DALI_QUERY_CG_TYPE
	OpQueryColour             Opcode = 0x34 // QUERY_DALI_COLOUR
	OpQueryColourFeatures     Opcode = 0x35 // QUERY_DALI_COLOUR_FEATURES
	OpQueryColourTempLimits   Opcode = 0x38 // QUERY_DALI_COLOUR_TEMP_LIMITS
	OpQueryStatus             Opcode = 0xAB // DALI_QUERY_CONTROL_GEAR_STATUS
	OpQueryMinLevel           Opcode = 0xAF // DALI_QUERY_MIN_LEVEL
	OpQueryMaxLevel           Opcode = 0xB0 // DALI_QUERY_MAX_LEVEL
	OpQueryFadeRunning        Opcode = 0xB1 // DALI_QUERY_FADE_RUNNING
	OpQueryLastScene          Opcode = 0xAD // DALI_QUERY_LAST_SCENE
	OpQueryLastSceneIsCurrent Opcode = 0xAE // DALI_QUERY_LAST_SCENE_IS_CURRENT
	OpQueryEAN                Opcode = 0xB8 // QUERY_DALI_EAN
	OpQuerySerial             Opcode = 0xB9 // QUERY_DALI_SERIAL
	OpQueryFittingNumber      Opcode = 0x22 // QUERY_DALI_FITTING_NUMBER
)

// Group.
const (
	OpQueryGroupNumbers          Opcode = 0x09 // QUERY_GROUP_NUMBERS
	OpQueryGroupLabel            Opcode = 0x01 // QUERY_GROUP_LABEL
	OpQueryGroupMembershipByAddr Opcode = 0x15 // QUERY_GROUP_MEMBERSHIP_BY_ADDRESS
	OpQueryGroupByNumber         Opcode = 0x12 // QUERY_GROUP_BY_NUMBER
	OpQueryGroupSceneNumbers     Opcode = 0x1A // QUERY_SCENE_NUMBERS_FOR_GROUP
	OpQueryGroupSceneLabels      Opcode = 0x1B // QUERY_SCENE_LABEL_FOR_GROUP
)

// Scene.
const (
	OpQuerySceneNumbersByAddr Opcode = 0x14 // QUERY_SCENE_NUMBERS_BY_ADDRESS
	OpQuerySceneLevelsByAddr  Opcode = 0x1E // QUERY_SCENE_LEVELS_BY_ADDRESS

	// OpQueryColourSceneMembership, OpQueryColourSceneData08 and
	// OpQueryColourSceneData811 have no counterpart in
	// original_source/zen.py's CMD map: the reference implementation never
	// queries colour-scene membership or per-scene colour data, so these
	// three values are not grounded in any observed wire capture. They are
	// placeholders in an unused corner of the opcode space (the original's
	// CMD map never assigns 0xE2-0xE4) so a real value can replace them
	// without colliding with a confirmed opcode.
	OpQueryColourSceneMembership Opcode = 0xE2
	OpQueryColourSceneData08     Opcode = 0xE3
	OpQueryColourSceneData811    Opcode = 0xE4
)

// Instance.
const (
	OpQueryAddressesWithInstances Opcode = 0x16 // QUERY_DALI_ADDRESSES_WITH_INSTANCES
	OpQueryInstancesByAddr        Opcode = 0x0D // QUERY_INSTANCES_BY_ADDRESS
	OpQueryInstanceGroups         Opcode = 0x21 // QUERY_INSTANCE_GROUPS
	OpQueryInstanceFitting        Opcode = 0x23 // QUERY_DALI_INSTANCE_FITTING_NUMBER
	OpQueryInstanceLabel          Opcode = 0xB7 // QUERY_DALI_INSTANCE_LABEL
	OpQueryOccupancyTimers        Opcode = 0x0C // QUERY_OCCUPANCY_INSTANCE_TIMERS
	OpQueryLEDState               Opcode = 0x30 // QUERY_LAST_KNOWN_DALI_BUTTON_LED_STATE
	OpSetLEDState                 Opcode = 0x29 // OVERRIDE_DALI_BUTTON_LED_STATE
)

// Profile.
const (
	// OpQueryProfileInfo has no counterpart in original_source/zen.py: the
	// reference implementation exposes the active profile number
	// (QUERY_CURRENT_PROFILE_NUMBER) but never a combined
	// number-plus-behavior query. Unconfirmed; placeholder value only.
	OpQueryProfileInfo    Opcode = 0x80
	OpQueryProfileNumbers Opcode = 0x0B // QUERY_PROFILE_NUMBERS
	OpQueryProfileLabel   Opcode = 0x04 // QUERY_PROFILE_LABEL
	OpQueryProfileCurrent Opcode = 0x05 // QUERY_CURRENT_PROFILE_NUMBER
	OpChangeProfileNumber Opcode = 0xC0 // CHANGE_PROFILE_NUMBER
)

// TPI events.
const (
	OpEventEmitEnable   Opcode = 0x08 // ENABLE_TPI_EVENT_EMIT
	OpEventEmitQuery    Opcode = 0x07 // QUERY_TPI_EVENT_EMIT_STATE
	OpEventUnicastSet   Opcode = 0x40 // SET_TPI_EVENT_UNICAST_ADDRESS
	OpEventUnicastQuery Opcode = 0x41 // QUERY_TPI_EVENT_UNICAST_ADDRESS
	OpEventFilterAdd    Opcode = 0x31 // DALI_ADD_TPI_EVENT_FILTER
	OpEventFilterClear  Opcode = 0x33 // DALI_CLEAR_TPI_EVENT_FILTERS
	OpEventFilterQuery  Opcode = 0x32 // QUERY_DALI_TPI_EVENT_FILTERS
)

// System variables.
const (
	OpSystemVariableGet Opcode = 0x37 // QUERY_SYSTEM_VARIABLE
	OpSystemVariableSet Opcode = 0x36 // SET_SYSTEM_VARIABLE

	// OpSystemVariableName has no counterpart in original_source/zen.py: the
	// reference implementation never queries a system variable's label.
	// Unconfirmed; placeholder value only.
	OpSystemVariableName Opcode = 0xA2
)

// ProfileReturnToScheduled is the profile number meaning "return to
// scheduled" for OpChangeProfileNumber.
const ProfileReturnToScheduled uint16 = 0xFFFF

// ArcLevelNoChange is the sentinel ARC level meaning "no change" / "mixed".
const ArcLevelNoChange byte = 255

// SceneAbsent is the sentinel byte in a scene-levels response meaning the
// scene has no configured level for that slot.
const SceneAbsent byte = 255
