// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package database_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/btcsuite/kvbridge/database"
	"github.com/btcsuite/kvbridge/database/engine"
)

// TestStatusStringer tests the stringized output for the Status type.
func TestStatusStringer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   database.Status
		want string
	}{
		{database.StatusOK, "ok"},
		{database.StatusNotFound, "not_found"},
		{database.StatusFailure, "err"},
		{0xff, "Unknown Status (255)"},
	}

	for i, test := range tests {
		result := test.in.String()
		if result != test.want {
			t.Errorf("String #%d\ngot: %s\nwant: %s", i, result,
				test.want)
		}
	}
}

// TestResultNormalization ensures engine outcomes map onto the three result
// shapes with engine messages kept verbatim.
func TestResultNormalization(t *testing.T) {
	t.Parallel()

	ioErr := errors.New("IO error: No space left on device")
	corruptErr := &engine.CorruptionError{
		Err: errors.New("pebble: corruption: bad block checksum"),
	}

	tests := []struct {
		name       string
		result     database.Result
		wantStatus database.Status
		wantValue  []byte
		wantReason string
		wantCode   database.ErrorCode
		wantString string
	}{
		{
			name:       "write ok",
			result:     database.TstWriteResult(nil),
			wantStatus: database.StatusOK,
			wantString: "ok",
		},
		{
			name:       "write failure",
			result:     database.TstWriteResult(ioErr),
			wantStatus: database.StatusFailure,
			wantReason: ioErr.Error(),
			wantCode:   database.ErrOperation,
			wantString: fmt.Sprintf("{err, %q}", ioErr.Error()),
		},
		{
			name:       "write corruption",
			result:     database.TstWriteResult(corruptErr),
			wantStatus: database.StatusFailure,
			wantReason: corruptErr.Error(),
			wantCode:   database.ErrCorruption,
			wantString: fmt.Sprintf("{err, %q}", corruptErr.Error()),
		},
		{
			name:       "write after close",
			result:     database.TstWriteResult(engine.ErrClosed),
			wantStatus: database.StatusFailure,
			wantReason: engine.ErrClosed.Error(),
			wantCode:   database.ErrDbNotOpen,
			wantString: fmt.Sprintf("{err, %q}", engine.ErrClosed.Error()),
		},
		{
			name:       "read value",
			result:     database.TstReadResult([]byte("v"), nil),
			wantStatus: database.StatusOK,
			wantValue:  []byte("v"),
			wantString: `{ok, "v"}`,
		},
		{
			name:       "read empty value",
			result:     database.TstReadResult([]byte{}, nil),
			wantStatus: database.StatusOK,
			wantValue:  []byte{},
			wantString: `{ok, ""}`,
		},
		{
			name:       "read absent",
			result:     database.TstReadResult(nil, engine.ErrNotFound),
			wantStatus: database.StatusNotFound,
			wantString: "not_found",
		},
		{
			name:       "read failure",
			result:     database.TstReadResult(nil, ioErr),
			wantStatus: database.StatusFailure,
			wantReason: ioErr.Error(),
			wantCode:   database.ErrOperation,
			wantString: fmt.Sprintf("{err, %q}", ioErr.Error()),
		},
	}

	for _, test := range tests {
		r := test.result
		if r.Status != test.wantStatus {
			t.Errorf("%s: status got %v, want %v", test.name,
				r.Status, test.wantStatus)
			continue
		}
		if string(r.Value) != string(test.wantValue) ||
			(r.Value == nil) != (test.wantValue == nil) {

			t.Errorf("%s: value got %q, want %q", test.name,
				r.Value, test.wantValue)
		}
		if r.Reason != test.wantReason {
			t.Errorf("%s: reason got %q, want %q", test.name,
				r.Reason, test.wantReason)
		}
		if r.String() != test.wantString {
			t.Errorf("%s: string got %s, want %s", test.name,
				r.String(), test.wantString)
		}
		if !r.Failed() {
			if r.Err != nil {
				t.Errorf("%s: unexpected error %v", test.name, r.Err)
			}
			continue
		}
		if !database.IsErrorCode(r.Err, test.wantCode) {
			t.Errorf("%s: error got %v, want code %v", test.name,
				r.Err, test.wantCode)
		}
	}
}

// TestResultFromError ensures open errors convert into the result shape.
func TestResultFromError(t *testing.T) {
	t.Parallel()

	if r := database.ResultFromError(nil); !r.OK() || r.Value != nil {
		t.Fatalf("nil error: got %v, want ok", r)
	}

	err := database.TstConvertErr(database.ErrOpen,
		errors.New("lock held by current process"))
	r := database.ResultFromError(err)
	if !r.Failed() || r.Reason != "lock held by current process" {
		t.Fatalf("open error: got %v", r)
	}
	if !database.IsErrorCode(r.Err, database.ErrOpen) {
		t.Fatalf("open error: unexpected error %v", r.Err)
	}
	if r.NotFound() || r.OK() {
		t.Fatalf("open error: inconsistent predicates for %v", r)
	}
}

// TestConvertErrKeepsError ensures an Error passes through unchanged.
func TestConvertErrKeepsError(t *testing.T) {
	t.Parallel()

	in := database.Error{
		ErrorCode:   database.ErrDbNotOpen,
		Description: "database /tmp/x is not open",
	}
	got := database.TstConvertErr(database.ErrOperation,
		fmt.Errorf("put: %w", in))
	if got.ErrorCode != database.ErrDbNotOpen ||
		got.Description != in.Description {

		t.Fatalf("got %#v, want %#v", got, in)
	}
}
