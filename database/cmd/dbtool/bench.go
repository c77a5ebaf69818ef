// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/btcsuite/kvbridge/database"
)

// benchCmd defines the configuration options for the bench command.
type benchCmd struct {
	Count     int `short:"n" long:"count" description:"Number of keys each worker writes and reads back"`
	Workers   int `short:"w" long:"workers" description:"Number of concurrent workers"`
	ValueSize int `long:"valuesize" description:"Size in bytes of each value"`
}

var (
	// benchCfg defines the configuration options for the command.
	benchCfg = benchCmd{
		Count:     1000,
		Workers:   4,
		ValueSize: 100,
	}
)

// benchKey returns the key for the i'th entry of a worker.
func benchKey(worker, i int) []byte {
	var key [12]byte
	copy(key[:4], "bnch")
	binary.BigEndian.PutUint32(key[4:8], uint32(worker))
	binary.BigEndian.PutUint32(key[8:], uint32(i))
	return key[:]
}

// runBench has each worker put count keys and read every one of them back,
// returning the first failure.
func runBench(h *database.Handle, workers, count, valueSize int) error {
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		benchErr error
	)
	fail := func(err error) {
		errOnce.Do(func() { benchErr = err })
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			value := bytes.Repeat([]byte{byte(w)}, valueSize)
			for i := 0; i < count; i++ {
				if r := h.Put(benchKey(w, i), value); r.Failed() {
					fail(r.Err)
					return
				}
			}
			for i := 0; i < count; i++ {
				r := h.Get(benchKey(w, i))
				if r.Failed() {
					fail(r.Err)
					return
				}
				if !r.OK() || !bytes.Equal(r.Value, value) {
					fail(fmt.Errorf("worker %d read back the wrong "+
						"value for entry %d: %v", w, i, r))
					return
				}
			}
		}(w)
	}
	wg.Wait()

	return benchErr
}

// Execute is the main entry point for the command.  It's invoked by the parser.
func (cmd *benchCmd) Execute(args []string) error {
	// Setup the global config options and ensure they are valid.
	if err := setupGlobalConfig(); err != nil {
		return err
	}

	if cmd.Count <= 0 || cmd.Workers <= 0 || cmd.ValueSize < 0 {
		return errors.New("count and workers must be positive and the " +
			"value size may not be negative")
	}

	// Load the database.
	h, err := loadDB()
	if err != nil {
		return err
	}
	defer h.Close()

	total := cmd.Count * cmd.Workers
	log.Infof("Writing and reading back %d entries with %d workers "+
		"(policy %+v)", total, cmd.Workers, database.CurrentPolicy())
	startTime := time.Now()
	if err := runBench(h, cmd.Workers, cmd.Count, cmd.ValueSize); err != nil {
		return err
	}
	elapsed := time.Since(startTime)
	log.Infof("Completed %d puts and %d gets in %v (%.0f ops/s)", total,
		total, elapsed, float64(2*total)/elapsed.Seconds())
	return nil
}
