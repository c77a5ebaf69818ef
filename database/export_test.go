// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
This test file is part of the database package rather than than the
database_test package so it can bridge access to the internals to properly test
cases which are either not possible or can't reliably be tested via the public
interface.  The functions, constants, and variables are only exported while the
tests are being run.
*/

package database

import "github.com/btcsuite/kvbridge/database/engine"

// TstNumErrorCodes makes the internal numErrorCodes parameter available to the
// test package.
const TstNumErrorCodes = numErrorCodes

// TstConvertErr makes the internal convertErr function available to the test
// package.
func TstConvertErr(code ErrorCode, engineErr error) Error {
	return convertErr(code, engineErr)
}

// TstReadResult makes the internal readResult function available to the test
// package.
func TstReadResult(value []byte, err error) Result {
	return readResult(value, err)
}

// TstWriteResult makes the internal writeResult function available to the
// test package.
func TstWriteResult(err error) Result {
	return writeResult(err)
}

// TstEngine exposes the engine behind a handle so tests can inspect fake
// engines without going through the guard.
func TstEngine(h *Handle) engine.Engine {
	return h.eng
}
