// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package database

import (
	"fmt"

	"github.com/btcsuite/kvbridge/database/engine"
	"github.com/btcsuite/kvbridge/database/options"
)

// OpenDefault opens the database at path with the default driver and engine
// defaults only.  The database must already exist; no directory is created.
func OpenDefault(path string) (*Handle, error) {
	return openEngine(DefaultDriver, path, options.DefaultConfig(), nil)
}

// Open opens the database at path with the default driver, configured by
// the passed option bag.  See OpenDriver.
func Open(path string, opts options.Options) (*Handle, error) {
	return OpenDriver(DefaultDriver, path, opts)
}

// OpenDriver opens the database at path with the named driver, configured by
// the passed option bag.
//
// The options are translated before the engine is touched.  A value of the
// wrong shape fails with ErrConfig and leaves the filesystem untouched.
// Unrecognized option names are logged and reported by the handle's
// IgnoredOptions.  Engine failures, including another live handle holding
// the engine's lock on path, fail with ErrOpen carrying the engine's own
// message.
func OpenDriver(driver, path string, opts options.Options) (*Handle, error) {
	cfg, ignored, err := options.Translate(opts)
	if err != nil {
		return nil, makeError(ErrConfig, err.Error(), err)
	}
	if len(ignored) > 0 {
		log.Warnf("Ignoring unrecognized options for %s: %v", path,
			ignored)
	}

	return openEngine(driver, path, cfg, ignored)
}

// openEngine opens the engine through the named driver on the dispatch path
// the policy selects for opens.
func openEngine(driverName, path string, cfg *options.Config,
	ignored []string) (*Handle, error) {

	driver, err := lookupDriver(driverName)
	if err != nil {
		return nil, err
	}

	var eng engine.Engine
	dispatch.run(dispatch.mode(openMode), func() {
		eng, err = driver.Open(path, cfg)
	})
	if err != nil {
		log.Debugf("Unable to open %s database %s: %v", driverName, path,
			err)
		return nil, makeError(ErrOpen, err.Error(), err)
	}
	if eng == nil {
		str := fmt.Sprintf("driver %q returned no engine for %s",
			driverName, path)
		return nil, makeError(ErrOpen, str, nil)
	}

	log.Infof("Opened %s database %s (%v)", driverName, path, cfg)
	return newHandle(path, driverName, cfg, ignored, eng), nil
}
