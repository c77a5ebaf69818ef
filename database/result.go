// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package database

import (
	"errors"
	"fmt"

	"github.com/btcsuite/kvbridge/database/engine"
)

// Status identifies the shape of an operation result.
type Status uint8

// These constants identify the three result shapes.
const (
	// StatusOK indicates the operation succeeded.  Results of Get carry
	// the stored value.
	StatusOK Status = iota

	// StatusNotFound indicates Get found no value for the key.  It is not
	// an error and is never produced by Put or Delete.
	StatusNotFound

	// StatusFailure indicates the operation failed.  The result carries
	// the reason.
	StatusFailure
)

// statusStrings maps each status to the tag a host sees.
var statusStrings = map[Status]string{
	StatusOK:       "ok",
	StatusNotFound: "not_found",
	StatusFailure:  "err",
}

// String returns the status tag.
func (s Status) String() string {
	if str, ok := statusStrings[s]; ok {
		return str
	}
	return fmt.Sprintf("Unknown Status (%d)", uint8(s))
}

// Result is the outcome of a point operation.
type Result struct {
	Status Status

	// Value is the stored value for a successful Get.  It is owned by the
	// caller.
	Value []byte

	// Reason is the failure description, verbatim from the engine when the
	// engine produced the failure.
	Reason string

	// Err is the Error behind a failure.
	Err error
}

// OK returns whether the operation succeeded.
func (r Result) OK() bool {
	return r.Status == StatusOK
}

// NotFound returns whether Get found no value for the key.
func (r Result) NotFound() bool {
	return r.Status == StatusNotFound
}

// Failed returns whether the operation failed.
func (r Result) Failed() bool {
	return r.Status == StatusFailure
}

// String returns the result in the host's tagged form.
func (r Result) String() string {
	switch r.Status {
	case StatusOK:
		if r.Value != nil {
			return fmt.Sprintf("{ok, %q}", r.Value)
		}
		return "ok"
	case StatusFailure:
		return fmt.Sprintf("{err, %q}", r.Reason)
	}
	return r.Status.String()
}

func okResult(value []byte) Result {
	return Result{Status: StatusOK, Value: value}
}

func notFoundResult() Result {
	return Result{Status: StatusNotFound}
}

// ResultFromError normalizes an error into a Result.  A nil error is a
// success and an Error keeps its description as the reason.
func ResultFromError(err error) Result {
	if err == nil {
		return okResult(nil)
	}
	return Result{Status: StatusFailure, Reason: err.Error(), Err: err}
}

// writeResult normalizes the outcome of an engine write.
func writeResult(err error) Result {
	if err != nil {
		return ResultFromError(convertErr(ErrOperation, err))
	}
	return okResult(nil)
}

// readResult normalizes the outcome of an engine read.  Absence of the key is
// reported as not found rather than as a failure.
func readResult(value []byte, err error) Result {
	switch {
	case err == nil:
		return okResult(value)
	case errors.Is(err, engine.ErrNotFound):
		return notFoundResult()
	}
	return ResultFromError(convertErr(ErrOperation, err))
}
