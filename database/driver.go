// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package database

import (
	"fmt"
	"sort"
	"sync"

	"github.com/btcsuite/btclog"
	"github.com/btcsuite/kvbridge/database/engine"
	"github.com/btcsuite/kvbridge/database/engine/leveldb"
	"github.com/btcsuite/kvbridge/database/engine/pebbledb"
	"github.com/btcsuite/kvbridge/database/options"
)

// DefaultDriver is the driver used by Open and OpenDefault.
const DefaultDriver = pebbledb.DriverName

// Driver defines a structure for backend drivers to use when they registered
// themselves as a backend which implements the engine.Engine interface.
type Driver struct {
	// Name is the identifier used to uniquely identify a specific engine
	// driver.  There can be only one driver with the same name.
	Name string

	// Open is the function that will be invoked with all user-specified
	// arguments to open the engine.  It must honor cfg.CreateIfMissing.
	Open func(path string, cfg *options.Config) (engine.Engine, error)

	// UseLogger uses a specified Logger to output package logging info.
	UseLogger func(logger btclog.Logger)
}

// drivers holds all of the registered engine backends.
var (
	driversMtx sync.RWMutex
	drivers    = make(map[string]*Driver)
)

func init() {
	builtin := []Driver{
		{
			Name:      pebbledb.DriverName,
			Open:      pebbledb.NewDB,
			UseLogger: pebbledb.UseLogger,
		},
		{
			Name:      leveldb.DriverName,
			Open:      leveldb.NewDB,
			UseLogger: leveldb.UseLogger,
		},
	}
	for _, driver := range builtin {
		if err := RegisterDriver(driver); err != nil {
			panic(err)
		}
	}
}

// RegisterDriver adds a backend engine driver to available interfaces.
// ErrDriverRegistered will be returned if the name of the driver is a
// duplicate of one already registered.
func RegisterDriver(driver Driver) error {
	driversMtx.Lock()
	defer driversMtx.Unlock()

	if _, exists := drivers[driver.Name]; exists {
		str := fmt.Sprintf("driver %q is already registered",
			driver.Name)
		return makeError(ErrDriverRegistered, str, nil)
	}

	drivers[driver.Name] = &driver
	return nil
}

// SupportedDrivers returns a sorted slice of strings that represent the
// engine drivers that have been registered and are therefore supported.
func SupportedDrivers() []string {
	driversMtx.RLock()
	defer driversMtx.RUnlock()

	supportedDrivers := make([]string, 0, len(drivers))
	for name := range drivers {
		supportedDrivers = append(supportedDrivers, name)
	}
	sort.Strings(supportedDrivers)
	return supportedDrivers
}

// lookupDriver returns the driver registered under name.
func lookupDriver(name string) (*Driver, error) {
	driversMtx.RLock()
	defer driversMtx.RUnlock()

	driver, exists := drivers[name]
	if !exists {
		str := fmt.Sprintf("driver %q is not registered", name)
		return nil, makeError(ErrDriverUnknown, str, nil)
	}
	return driver, nil
}

// useDriverLoggers passes the logger to every registered driver.
func useDriverLoggers(logger btclog.Logger) {
	driversMtx.RLock()
	defer driversMtx.RUnlock()

	for _, driver := range drivers {
		if driver.UseLogger != nil {
			driver.UseLogger(logger)
		}
	}
}
