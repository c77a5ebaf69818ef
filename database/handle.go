// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package database

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/btcsuite/kvbridge/database/engine"
	"github.com/btcsuite/kvbridge/database/options"
)

// Handle is a shared reference to one opened engine bound to a path.
//
// The handle exclusively owns its engine.  Every access to the engine goes
// through the handle's guard: Put and Delete hold it exclusively and Get holds
// it shared, so writes on a handle are totally ordered with respect to each
// other and to reads.  The engine is closed exactly once, when the last
// reference is released.
type Handle struct {
	path    string
	driver  string
	cfg     options.Config
	ignored []string

	// guard protects eng and closed.  Closing takes it exclusively so
	// release waits for in-flight operations.
	guard  sync.RWMutex
	eng    engine.Engine
	closed bool

	refs     atomic.Int32
	poisoned atomic.Bool
}

// newHandle wraps an opened engine with one reference and registers the
// garbage collection release.
func newHandle(path, driver string, cfg *options.Config, ignored []string,
	eng engine.Engine) *Handle {

	h := &Handle{
		path:    path,
		driver:  driver,
		cfg:     *cfg,
		ignored: ignored,
		eng:     eng,
	}
	h.refs.Store(1)
	runtime.SetFinalizer(h, (*Handle).finalize)
	return h
}

// Path returns the path the handle was opened on.
func (h *Handle) Path() string {
	return h.path
}

// Driver returns the name of the engine driver behind the handle.
func (h *Handle) Driver() string {
	return h.driver
}

// Config returns a copy of the configuration the engine was opened with.
func (h *Handle) Config() *options.Config {
	cfg := h.cfg
	return &cfg
}

// IgnoredOptions returns the unrecognized option names supplied at open.
func (h *Handle) IgnoredOptions() []string {
	ignored := make([]string, len(h.ignored))
	copy(ignored, h.ignored)
	return ignored
}

// Refs returns the number of outstanding references.
func (h *Handle) Refs() int {
	return int(h.refs.Load())
}

// Ref adds a reference to the handle and returns it for the new owner, who
// must eventually call Release.  Referencing a fully released handle fails
// with ErrDbNotOpen.
func (h *Handle) Ref() (*Handle, error) {
	for {
		n := h.refs.Load()
		if n <= 0 {
			return nil, h.notOpenErr()
		}
		if h.refs.CompareAndSwap(n, n+1) {
			return h, nil
		}
	}
}

// Release drops one reference.  Dropping the last one closes the engine
// after in-flight operations finish and frees the engine's lock on the path.
// Releasing more often than referenced fails with ErrDbNotOpen.
func (h *Handle) Release() error {
	for {
		n := h.refs.Load()
		if n <= 0 {
			return h.notOpenErr()
		}
		if !h.refs.CompareAndSwap(n, n-1) {
			continue
		}
		if n > 1 {
			return nil
		}

		runtime.SetFinalizer(h, nil)
		return h.close()
	}
}

// Close is Release under the name scoped cleanup expects:
//
//	h, err := database.Open(path, opts)
//	if err != nil {
//		return err
//	}
//	defer h.Close()
func (h *Handle) Close() error {
	return h.Release()
}

// close closes the engine under the exclusive guard.
func (h *Handle) close() error {
	h.guard.Lock()
	defer h.guard.Unlock()

	if h.closed {
		return h.notOpenErr()
	}
	h.closed = true

	if h.poisoned.Load() {
		str := fmt.Sprintf("engine at %s released with a poisoned "+
			"guard -- skipping engine close", h.path)
		log.Error(str)
		return makeError(ErrSyncFault, str, nil)
	}

	log.Debugf("Closing %s database %s", h.driver, h.path)
	if err := h.eng.Close(); err != nil {
		return convertErr(ErrOperation, err)
	}
	return nil
}

// finalize releases the engine of a handle that became unreachable while
// references were still outstanding.
func (h *Handle) finalize() {
	log.Warnf("Database %s was not released before garbage collection "+
		"(%d references outstanding)", h.path, h.refs.Load())
	h.refs.Store(0)
	if err := h.close(); err != nil && !IsErrorCode(err, ErrDbNotOpen) {
		log.Errorf("Unable to close database %s: %v", h.path, err)
	}
}

func (h *Handle) notOpenErr() Error {
	str := fmt.Sprintf("database %s is not open", h.path)
	return makeError(ErrDbNotOpen, str, nil)
}

// checkPoisoned escalates when a previous operation panicked while holding
// the guard.  It must be called with the guard held.
func (h *Handle) checkPoisoned() {
	if h.poisoned.Load() {
		str := fmt.Sprintf("guard for database %s is poisoned by a "+
			"prior panic", h.path)
		panic(makeError(ErrSyncFault, str, nil))
	}
}

// poisonOnPanic marks the guard poisoned when the deferring operation is
// unwinding from a panic, then lets the panic continue.
func (h *Handle) poisonOnPanic() {
	if r := recover(); r != nil {
		h.poisoned.Store(true)
		log.Criticalf("Engine operation on %s panicked while holding "+
			"the guard: %v", h.path, r)
		panic(r)
	}
}

// Poisoned returns whether the guard was poisoned by a panicking operation.
func (h *Handle) Poisoned() bool {
	return h.poisoned.Load()
}

// withWrite runs fn with the guard held exclusively.
func (h *Handle) withWrite(fn func(engine.Engine) error) error {
	h.guard.Lock()
	defer h.guard.Unlock()

	h.checkPoisoned()
	if h.closed {
		return h.notOpenErr()
	}

	defer h.poisonOnPanic()
	return fn(h.eng)
}

// withRead runs fn with the guard held shared.
func (h *Handle) withRead(fn func(engine.Engine) ([]byte, error)) ([]byte, error) {
	h.guard.RLock()
	defer h.guard.RUnlock()

	h.checkPoisoned()
	if h.closed {
		return nil, h.notOpenErr()
	}

	defer h.poisonOnPanic()
	return fn(h.eng)
}
