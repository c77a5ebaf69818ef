// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package database

import (
	"runtime"

	"github.com/btcsuite/kvbridge/database/engine"
)

// Put stores value under key.  Keys and values are arbitrary bytes and may be
// empty.  The guard is held exclusively for the duration of the write.
func (h *Handle) Put(key, value []byte) Result {
	var err error
	dispatch.run(dispatch.mode(writeMode), func() {
		err = h.withWrite(func(eng engine.Engine) error {
			return eng.Put(key, value)
		})
	})
	runtime.KeepAlive(h)
	return writeResult(err)
}

// Delete removes key.  Deleting an absent key succeeds.  The guard is held
// exclusively for the duration of the write.
func (h *Handle) Delete(key []byte) Result {
	var err error
	dispatch.run(dispatch.mode(writeMode), func() {
		err = h.withWrite(func(eng engine.Engine) error {
			return eng.Delete(key)
		})
	})
	runtime.KeepAlive(h)
	return writeResult(err)
}

// Get returns the value stored under key, or a not found result when the key
// is absent.  The guard is held shared, so gets run concurrently with each
// other but never with a put or delete on the same handle.
func (h *Handle) Get(key []byte) Result {
	var (
		value []byte
		err   error
	)
	dispatch.run(dispatch.mode(readMode), func() {
		value, err = h.withRead(func(eng engine.Engine) ([]byte, error) {
			return eng.Get(key)
		})
	})
	runtime.KeepAlive(h)
	return readResult(value, err)
}
