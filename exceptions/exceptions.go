// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package exceptions defines the error taxonomy raised by the zencontrol
// client: timeouts, controller-reported errors, connection failures and
// configuration mistakes.
package exceptions

import (
	"fmt"
	"time"
)

// ErrorCode is the symbolic controller error code carried by a TPI Advanced
// 0xA3 ERROR response.
type ErrorCode uint8

// Controller error codes, as documented for TPI Advanced 0xA3 responses.
const (
	ErrChecksum        ErrorCode = iota // the controller rejected our checksum
	ErrShortCircuit                     // DALI bus short circuit
	ErrReceiveError                     // DALI receive error
	ErrUnknownCommand                   // opcode not recognized
	ErrPaidFeature                      // feature requires a license
	ErrInvalidArgs                      // argument out of range
	ErrCommandRefused                   // controller refused the command
	ErrQueueFailure                     // internal queue full
	ErrResponseUnavail                  // no response data available
	ErrOtherDALIError                   // unspecified DALI bus error
	ErrMaxLimit                         // a configured maximum was hit
	ErrUnexpectedResult                 // result didn't match expectations
	ErrUnknownTarget                    // address/instance not known to controller
)

var errorCodeNames = map[ErrorCode]string{
	ErrChecksum:         "checksum",
	ErrShortCircuit:     "short-circuit",
	ErrReceiveError:     "receive-error",
	ErrUnknownCommand:   "unknown-cmd",
	ErrPaidFeature:      "paid-feature",
	ErrInvalidArgs:      "invalid-args",
	ErrCommandRefused:   "cmd-refused",
	ErrQueueFailure:     "queue-failure",
	ErrResponseUnavail:  "response-unavail",
	ErrOtherDALIError:   "other-dali-error",
	ErrMaxLimit:         "max-limit",
	ErrUnexpectedResult: "unexpected-result",
	ErrUnknownTarget:    "unknown-target",
}

// String returns the symbolic name used in log lines, e.g. "unknown-cmd".
func (c ErrorCode) String() string {
	if n, ok := errorCodeNames[c]; ok {
		return n
	}
	return fmt.Sprintf("error-code-%d", uint8(c))
}

// TimeoutError is returned when a request received no matching response
// within its retry budget.
type TimeoutError struct {
	Attempts int
	Elapsed  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout after %d attempt(s) (%s)", e.Attempts, e.Elapsed)
}

// ResponseError wraps a controller-reported 0xA3 ERROR response.
//
// The protocol layer never returns a ResponseError: on an 0xA3 response it
// logs the error code and returns null/false to the caller. The type is
// exported for code that wants to carry such an error itself.
type ResponseError struct {
	Code   ErrorCode
	Opcode byte
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("controller error %s (opcode 0x%02x)", e.Code, e.Opcode)
}

// ConnectionError wraps a socket creation, bind, or send failure.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection: %s: %s", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ConfigurationError wraps a bad or missing configuration field.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
