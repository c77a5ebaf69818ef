// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package database_test

import (
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/btcsuite/kvbridge/database"
	"github.com/btcsuite/kvbridge/database/engine"
	"github.com/btcsuite/kvbridge/database/options"
	"github.com/stretchr/testify/require"
)

const (
	// faultyDriver names a driver whose engine panics on the key
	// panicKey.
	faultyDriver = "faulty"

	// countingDriver names a driver whose engine records how many gets
	// run at once.
	countingDriver = "counting"
)

var panicKey = []byte("panic")

// faultyEngine is an in-memory engine which panics when asked to touch
// panicKey.
type faultyEngine struct {
	mtx    sync.Mutex
	values map[string][]byte
	closed bool
}

func (e *faultyEngine) Get(key []byte) ([]byte, error) {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	if string(key) == string(panicKey) {
		panic("faulty engine: get")
	}
	v, ok := e.values[string(key)]
	if !ok {
		return nil, engine.ErrNotFound
	}
	return append([]byte{}, v...), nil
}

func (e *faultyEngine) Put(key, value []byte) error {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	if string(key) == string(panicKey) {
		panic("faulty engine: put")
	}
	e.values[string(key)] = append([]byte{}, value...)
	return nil
}

func (e *faultyEngine) Delete(key []byte) error {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	delete(e.values, string(key))
	return nil
}

func (e *faultyEngine) Close() error {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	if e.closed {
		return engine.ErrClosed
	}
	e.closed = true
	return nil
}

// countingEngine tracks the largest number of gets in flight at once.
type countingEngine struct {
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (e *countingEngine) Get(key []byte) ([]byte, error) {
	n := e.inFlight.Add(1)
	defer e.inFlight.Add(-1)
	for {
		max := e.maxSeen.Load()
		if n <= max || e.maxSeen.CompareAndSwap(max, n) {
			break
		}
	}
	time.Sleep(time.Millisecond)
	return nil, engine.ErrNotFound
}

func (e *countingEngine) Put(key, value []byte) error { return nil }
func (e *countingEngine) Delete(key []byte) error     { return nil }
func (e *countingEngine) Close() error                { return nil }

func init() {
	testDrivers := []database.Driver{
		{
			Name: faultyDriver,
			Open: func(string, *options.Config) (engine.Engine, error) {
				return &faultyEngine{values: make(map[string][]byte)}, nil
			},
		},
		{
			Name: countingDriver,
			Open: func(string, *options.Config) (engine.Engine, error) {
				return &countingEngine{}, nil
			},
		},
	}
	for _, driver := range testDrivers {
		if err := database.RegisterDriver(driver); err != nil {
			panic(err)
		}
	}
}

// recoverPanic returns the value fn panics with, or nil.
func recoverPanic(fn func()) (v interface{}) {
	defer func() {
		v = recover()
	}()
	fn()
	return nil
}

// restorePolicy resets the dispatcher once the test finishes.
func restorePolicy(t *testing.T) {
	t.Cleanup(func() {
		database.SetPolicy(database.DefaultPolicy)
		database.SetIOWorkers(runtime.NumCPU())
	})
}

// TestModeStringer tests the stringized output and parsing of dispatch modes.
func TestModeStringer(t *testing.T) {
	tests := []struct {
		in   database.Mode
		want string
	}{
		{database.ModeInline, "inline"},
		{database.ModeIO, "io"},
		{0xff, "Unknown Mode (255)"},
	}

	for i, test := range tests {
		result := test.in.String()
		if result != test.want {
			t.Errorf("String #%d\ngot: %s\nwant: %s", i, result,
				test.want)
			continue
		}

		mode, ok := database.ParseMode(test.want)
		if ok != (i < 2) || (ok && mode != test.in) {
			t.Errorf("ParseMode #%d: got %v (%v)", i, mode, ok)
		}
	}
}

// TestDispatchPolicies runs the full open, write and read cycle under every
// combination of dispatch modes.
func TestDispatchPolicies(t *testing.T) {
	restorePolicy(t)

	modes := []database.Mode{database.ModeInline, database.ModeIO}
	for _, open := range modes {
		for _, write := range modes {
			for _, read := range modes {
				policy := database.Policy{
					Open:  open,
					Write: write,
					Read:  read,
				}
				name := fmt.Sprintf("open=%v/write=%v/read=%v", open,
					write, read)
				t.Run(name, func(t *testing.T) {
					database.SetPolicy(policy)
					require.Equal(t, policy, database.CurrentPolicy())

					dbPath := filepath.Join(t.TempDir(), "db")
					h, err := database.Open(dbPath, options.Options{
						"create_if_missing": true,
					})
					require.NoError(t, err)
					defer h.Close()

					require.True(t, h.Put([]byte("k"), []byte("v")).OK())
					require.Equal(t, []byte("v"), h.Get([]byte("k")).Value)
					require.True(t, h.Delete([]byte("k")).OK())
					require.True(t, h.Get([]byte("k")).NotFound())
				})
			}
		}
	}
}

// TestIOPoolBoundsConcurrency ensures calls dispatched to the I/O pool never
// run on more workers than the pool has.
func TestIOPoolBoundsConcurrency(t *testing.T) {
	restorePolicy(t)

	database.SetIOWorkers(2)
	database.SetPolicy(database.Policy{
		Open:  database.ModeIO,
		Write: database.ModeIO,
		Read:  database.ModeIO,
	})

	h, err := database.OpenDriver(countingDriver, t.TempDir(), nil)
	require.NoError(t, err)
	defer h.Close()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				h.Get([]byte("k"))
			}
		}()
	}
	wg.Wait()

	counting, ok := database.TstEngine(h).(*countingEngine)
	require.True(t, ok)
	require.LessOrEqual(t, counting.maxSeen.Load(), int32(2))
	require.GreaterOrEqual(t, counting.maxSeen.Load(), int32(1))
}

// TestPoisonedGuard ensures a panic while holding the guard surfaces on the
// caller, poisons the handle, and escalates every later operation.
func TestPoisonedGuard(t *testing.T) {
	restorePolicy(t)

	modes := []database.Mode{database.ModeInline, database.ModeIO}
	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			database.SetPolicy(database.Policy{
				Open:  mode,
				Write: mode,
				Read:  mode,
			})

			h, err := database.OpenDriver(faultyDriver, t.TempDir(), nil)
			require.NoError(t, err)
			require.True(t, h.Put([]byte("k"), []byte("v")).OK())
			require.False(t, h.Poisoned())

			v := recoverPanic(func() { h.Put(panicKey, []byte("v")) })
			require.Equal(t, "faulty engine: put", v)
			require.True(t, h.Poisoned())

			ops := []struct {
				name string
				fn   func()
			}{
				{"get", func() { h.Get([]byte("k")) }},
				{"put", func() { h.Put([]byte("k"), []byte("v")) }},
				{"delete", func() { h.Delete([]byte("k")) }},
			}
			for _, op := range ops {
				v := recoverPanic(op.fn)
				err, ok := v.(error)
				require.True(t, ok, "%s: got panic value %v", op.name, v)
				checkDbError(t, op.name, err, database.ErrSyncFault)
			}

			err = h.Release()
			checkDbError(t, "release", err, database.ErrSyncFault)
			require.Equal(t, 0, h.Refs())
		})
	}
}

// TestReadPanicPoisons ensures a panicking read also poisons the guard.
func TestReadPanicPoisons(t *testing.T) {
	h, err := database.OpenDriver(faultyDriver, t.TempDir(), nil)
	require.NoError(t, err)

	v := recoverPanic(func() { h.Get(panicKey) })
	require.Equal(t, "faulty engine: get", v)
	require.True(t, h.Poisoned())

	err = h.Close()
	checkDbError(t, "close", err, database.ErrSyncFault)
}
