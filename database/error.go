// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package database

import (
	"errors"
	"fmt"

	"github.com/btcsuite/kvbridge/database/engine"
)

// ErrorCode identifies a kind of error.
type ErrorCode int

// These constants are used to identify a specific database Error.
const (
	// ErrConfig indicates an option value did not match the shape its
	// option expects.  Nothing was opened and the filesystem was not
	// touched, so the caller may retry with corrected options.
	ErrConfig ErrorCode = iota

	// ErrOpen indicates the engine failed to open.  Typical causes are an
	// invalid path, a missing database without create_if_missing, another
	// handle holding the engine's lock on the path, or corruption.  The
	// description is the engine's own diagnostic.
	ErrOpen

	// ErrOperation indicates a put, get or delete failed inside the
	// engine.  The description is the engine's own diagnostic.
	ErrOperation

	// ErrDbNotOpen indicates an operation was attempted on a handle whose
	// engine has already been released.
	ErrDbNotOpen

	// ErrCorruption indicates the engine reported on-disk corruption during
	// an operation.
	ErrCorruption

	// ErrSyncFault indicates the guard of a handle was poisoned by an
	// operation which panicked while holding it.  The engine's state can no
	// longer be vouched for.  This is the only error which escalates as a
	// panic instead of being returned.
	ErrSyncFault

	// ErrDriverUnknown indicates there is no driver registered for the
	// requested name.
	ErrDriverUnknown

	// ErrDriverRegistered indicates two drivers attempted to register with
	// the same name.
	ErrDriverRegistered

	// numErrorCodes is the maximum error code number used in tests.  This
	// value must be last.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrConfig:           "ErrConfig",
	ErrOpen:             "ErrOpen",
	ErrOperation:        "ErrOperation",
	ErrDbNotOpen:        "ErrDbNotOpen",
	ErrCorruption:       "ErrCorruption",
	ErrSyncFault:        "ErrSyncFault",
	ErrDriverUnknown:    "ErrDriverUnknown",
	ErrDriverRegistered: "ErrDriverRegistered",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error provides a single type for errors that can happen during database
// operation.  It is used to indicate several types of failures including
// invalid options, engine open failures and engine operation failures.
//
// The caller can use type assertions to determine if an error is an Error and
// access the ErrorCode field to ascertain the specific reason for the failure.
//
// The Err field holds the underlying error, typically the engine's, which may
// be nil.
type Error struct {
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue
	Err         error     // Underlying error
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying error.
func (e Error) Unwrap() error {
	return e.Err
}

// makeError creates an Error given a set of arguments.  The error code must
// be one of the error codes provided by this package.
func makeError(c ErrorCode, desc string, err error) Error {
	return Error{ErrorCode: c, Description: desc, Err: err}
}

// IsErrorCode returns whether err is an Error with a matching error code.
func IsErrorCode(err error, c ErrorCode) bool {
	var dbErr Error
	return errors.As(err, &dbErr) && dbErr.ErrorCode == c
}

// convertErr converts an engine error into an Error.  The engine's message is
// kept verbatim as the description.  Errors the engine marks as corruption or
// as coming from a closed engine are given their specific codes; everything
// else uses the passed code.  An Error is returned unchanged.
func convertErr(code ErrorCode, engineErr error) Error {
	var dbErr Error
	if errors.As(engineErr, &dbErr) {
		return dbErr
	}

	var corruptErr *engine.CorruptionError
	switch {
	case errors.As(engineErr, &corruptErr):
		code = ErrCorruption

	case errors.Is(engineErr, engine.ErrClosed):
		code = ErrDbNotOpen
	}

	return Error{ErrorCode: code, Description: engineErr.Error(), Err: engineErr}
}
