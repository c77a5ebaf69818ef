// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package database

import (
	"fmt"
	"runtime"
	"sync"
)

// Mode selects where a class of blocking calls runs.
type Mode uint8

const (
	// ModeInline runs the call on the calling goroutine.
	ModeInline Mode = iota

	// ModeIO hands the call to the I/O worker pool and waits for it to
	// complete, keeping slow engine work off the caller's scheduling path
	// and bounding how many such calls run at once.
	ModeIO
)

// String returns the mode as a human-readable name.
func (m Mode) String() string {
	switch m {
	case ModeInline:
		return "inline"
	case ModeIO:
		return "io"
	}
	return fmt.Sprintf("Unknown Mode (%d)", uint8(m))
}

// ParseMode returns the mode for the names returned by Mode.String.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "inline":
		return ModeInline, true
	case "io":
		return ModeIO, true
	}
	return 0, false
}

// Policy assigns a dispatch mode to each class of call.
type Policy struct {
	Open  Mode // OpenDefault, Open and OpenDriver
	Write Mode // Put and Delete
	Read  Mode // Get
}

// DefaultPolicy runs engine opens on the I/O pool and point operations
// inline.  Puts and deletes also perform disk I/O and may block on flush or
// compaction backpressure; callers seeing that can move writes to ModeIO.
var DefaultPolicy = Policy{Open: ModeIO, Write: ModeInline, Read: ModeInline}

// job is a unit of work for the I/O pool.  The panic value, if any, is
// handed back so it surfaces on the submitting goroutine.
type job struct {
	fn       func()
	done     chan struct{}
	panicVal interface{}
}

// ioPool is a fixed set of worker goroutines draining a job channel.
type ioPool struct {
	jobs chan *job
	wg   sync.WaitGroup
}

func newIOPool(workers int) *ioPool {
	p := &ioPool{jobs: make(chan *job)}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *ioPool) worker() {
	defer p.wg.Done()
	for j := range p.jobs {
		p.run(j)
	}
}

func (p *ioPool) run(j *job) {
	defer close(j.done)
	defer func() {
		j.panicVal = recover()
	}()
	j.fn()
}

// stop lets the workers finish the queued jobs and exit.
func (p *ioPool) stop() {
	close(p.jobs)
	p.wg.Wait()
}

// dispatcher routes calls according to the current policy.
type dispatcher struct {
	mtx    sync.RWMutex
	policy Policy
	pool   *ioPool
}

var dispatch = &dispatcher{
	policy: DefaultPolicy,
	pool:   newIOPool(runtime.NumCPU()),
}

// SetPolicy replaces the dispatch policy.  Calls already dispatched finish
// under the policy they started with.
func SetPolicy(policy Policy) {
	dispatch.mtx.Lock()
	dispatch.policy = policy
	dispatch.mtx.Unlock()

	log.Debugf("Dispatch policy set to open=%v write=%v read=%v",
		policy.Open, policy.Write, policy.Read)
}

// CurrentPolicy returns the dispatch policy in effect.
func CurrentPolicy() Policy {
	dispatch.mtx.RLock()
	defer dispatch.mtx.RUnlock()
	return dispatch.policy
}

// SetIOWorkers resizes the I/O pool.  Values below one are treated as one.
// Jobs queued on the previous pool run to completion.
func SetIOWorkers(workers int) {
	if workers < 1 {
		workers = 1
	}

	dispatch.mtx.Lock()
	old := dispatch.pool
	dispatch.pool = newIOPool(workers)
	dispatch.mtx.Unlock()

	old.stop()
	log.Debugf("I/O pool resized to %d workers", workers)
}

// mode returns the policy mode for the passed selector.
func (d *dispatcher) mode(sel func(Policy) Mode) Mode {
	d.mtx.RLock()
	defer d.mtx.RUnlock()
	return sel(d.policy)
}

// run executes fn according to mode and returns once fn has completed.  A
// panic inside fn is re-raised on the calling goroutine.  Calls are never
// cancelled once dispatched.
func (d *dispatcher) run(mode Mode, fn func()) {
	if mode != ModeIO {
		fn()
		return
	}

	j := &job{fn: fn, done: make(chan struct{})}

	// The read lock is held while enqueueing so a concurrent resize can not
	// close the job channel underneath the send.
	d.mtx.RLock()
	d.pool.jobs <- j
	d.mtx.RUnlock()

	<-j.done
	if j.panicVal != nil {
		panic(j.panicVal)
	}
}

func openMode(p Policy) Mode  { return p.Open }
func writeMode(p Policy) Mode { return p.Write }
func readMode(p Policy) Mode  { return p.Read }
