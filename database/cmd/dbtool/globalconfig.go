// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2016 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/btcsuite/kvbridge/database"
	"github.com/btcsuite/kvbridge/database/options"
	kvlog "github.com/btcsuite/kvbridge/internal/log"
	"gopkg.in/yaml.v3"
)

const (
	defaultDbDirname = "kvdata"
	defaultLogFile   = "dbtool.log"
)

var (
	knownDrivers = database.SupportedDrivers()

	// Default global config.
	cfg = &config{
		DbPath:        defaultDbDirname,
		Driver:        database.DefaultDriver,
		DispatchOpen:  database.DefaultPolicy.Open.String(),
		DispatchWrite: database.DefaultPolicy.Write.String(),
		DispatchRead:  database.DefaultPolicy.Read.String(),
		DebugLevel:    "info",
	}
)

// config defines the global configuration options.
type config struct {
	DbPath        string   `short:"b" long:"dbpath" description:"Path of the database directory"`
	Driver        string   `long:"driver" description:"Engine driver to use"`
	Opts          []string `short:"o" long:"opt" description:"Engine option as name=value -- may be repeated and overrides the options file"`
	OptsFile      string   `long:"optsfile" description:"YAML file mapping engine option names to values"`
	DispatchOpen  string   `long:"dispatchopen" description:"Where database opens run {inline, io}"`
	DispatchWrite string   `long:"dispatchwrite" description:"Where puts and deletes run {inline, io}"`
	DispatchRead  string   `long:"dispatchread" description:"Where gets run {inline, io}"`
	IOWorkers     int      `long:"ioworkers" description:"Number of I/O workers -- defaults to the number of CPUs"`
	DebugLevel    string   `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`
	LogDir        string   `long:"logdir" description:"Directory to log output in addition to stdout"`
	Hex           bool     `long:"hex" description:"Keys and values are given and printed as hex"`
}

// validDriver returns whether or not driver is a supported engine driver.
func validDriver(driver string) bool {
	for _, known := range knownDrivers {
		if driver == known {
			return true
		}
	}

	return false
}

// parseMode parses a dispatch mode flag.
func parseMode(flag, value string) (database.Mode, error) {
	mode, ok := database.ParseMode(value)
	if !ok {
		str := "the specified %s mode [%v] is invalid -- supported " +
			"modes [inline io]"
		return 0, fmt.Errorf(str, flag, value)
	}
	return mode, nil
}

// dispatchPolicy builds the dispatch policy from the global options.
func dispatchPolicy() (database.Policy, error) {
	var (
		policy database.Policy
		err    error
	)
	policy.Open, err = parseMode("dispatchopen", cfg.DispatchOpen)
	if err != nil {
		return policy, err
	}
	policy.Write, err = parseMode("dispatchwrite", cfg.DispatchWrite)
	if err != nil {
		return policy, err
	}
	policy.Read, err = parseMode("dispatchread", cfg.DispatchRead)
	return policy, err
}

// readOptionsFile loads the engine option bag from a YAML document mapping
// option names to scalar values.
func readOptionsFile(path string) (options.Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var opts options.Options
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return nil, fmt.Errorf("unable to parse options file %s: %w",
			path, err)
	}
	for name, value := range opts {
		switch value.(type) {
		case bool, int, uint64, float64, string:
		default:
			return nil, fmt.Errorf("option %s in %s is not a scalar "+
				"value", name, path)
		}
	}
	return opts, nil
}

// loadOptions merges the options file with the name=value pairs given on the
// command line.  Pairs take precedence.
func loadOptions() (options.Options, error) {
	opts := make(options.Options)
	if cfg.OptsFile != "" {
		fileOpts, err := readOptionsFile(cfg.OptsFile)
		if err != nil {
			return nil, err
		}
		for name, value := range fileOpts {
			opts[name] = value
		}
	}

	pairs, overridden, err := options.ParsePairs(cfg.Opts)
	if err != nil {
		return nil, err
	}
	for _, name := range overridden {
		log.Warnf("Option %s given more than once -- using the last "+
			"value", name)
	}
	for name, value := range pairs {
		if _, ok := opts[name]; ok {
			log.Debugf("Option %s from the command line overrides "+
				"the options file", name)
		}
		opts[name] = value
	}

	return opts, nil
}

// setupGlobalConfig examine the global configuration options for any conditions
// which are invalid as well as performs any addition setup necessary after the
// initial parse.
func setupGlobalConfig() error {
	if err := kvlog.ParseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		return err
	}

	if cfg.LogDir != "" {
		logFile := filepath.Join(cfg.LogDir, defaultLogFile)
		if err := kvlog.InitLogRotator(logFile); err != nil {
			return err
		}
	}

	if cfg.DbPath == "" {
		return errors.New("the database path may not be empty")
	}

	// Validate driver.
	if !validDriver(cfg.Driver) {
		str := "the specified driver [%v] is invalid -- " +
			"supported drivers %v"
		return fmt.Errorf(str, cfg.Driver, knownDrivers)
	}

	policy, err := dispatchPolicy()
	if err != nil {
		return err
	}
	database.SetPolicy(policy)

	if cfg.IOWorkers < 0 {
		return errors.New("the number of I/O workers may not be negative")
	}
	if cfg.IOWorkers > 0 && cfg.IOWorkers != runtime.NumCPU() {
		database.SetIOWorkers(cfg.IOWorkers)
	}

	return nil
}
