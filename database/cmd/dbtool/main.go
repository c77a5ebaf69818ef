// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2016 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/btcsuite/btclog"
	"github.com/btcsuite/kvbridge/database"
	"github.com/btcsuite/kvbridge/database/options"
	"github.com/btcsuite/kvbridge/internal/limits"
	kvlog "github.com/btcsuite/kvbridge/internal/log"
	flags "github.com/jessevdk/go-flags"
)

var log btclog.Logger

// loadDB opens the database selected by the global options and returns a
// handle to it.
func loadDB() (*database.Handle, error) {
	opts, err := loadOptions()
	if err != nil {
		return nil, err
	}

	// Make room for the engine's table files.  Bad option values are
	// reported by the open below.
	if engineCfg, _, err := options.Translate(opts); err == nil {
		want := limits.FilesFor(engineCfg)
		got, err := limits.SetLimits(want)
		switch {
		case err != nil:
			log.Warnf("Unable to raise open file limit: %v", err)
		case got < want:
			log.Warnf("Open file limit is %d, wanted %d", got, want)
		}
	}

	log.Infof("Loading %s database from '%s'", cfg.Driver, cfg.DbPath)
	h, err := database.OpenDriver(cfg.Driver, cfg.DbPath, opts)
	if err != nil {
		return nil, err
	}

	if ignored := h.IgnoredOptions(); len(ignored) > 0 {
		log.Warnf("%d unrecognized %s ignored: %v", len(ignored),
			kvlog.PickNoun(uint64(len(ignored)), "option", "options"),
			strings.Join(ignored, ", "))
	}
	log.Debugf("Database loaded with %v", h.Config())
	return h, nil
}

// realMain is the real main function for the utility.  It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is called.
func realMain() error {
	// Setup logging.
	defer os.Stdout.Sync()
	log = kvlog.KvtlLog
	defer func() {
		if kvlog.LogRotator != nil {
			kvlog.LogRotator.Close()
		}
	}()

	// Setup the parser options and commands.
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	parserFlags := flags.Options(flags.HelpFlag | flags.PassDoubleDash)
	parser := flags.NewNamedParser(appName, parserFlags)
	parser.AddGroup("Global Options", "", cfg)
	parser.AddCommand("put", "Store a value under a key", "", &putCfg)
	parser.AddCommand("get", "Fetch the value stored under a key", "",
		&getCfg)
	parser.AddCommand("delete", "Remove a key from the database", "",
		&deleteCfg)
	parser.AddCommand("checkopts",
		"Translate the configured engine options without opening the "+
			"database",
		"Translate the configured engine options and report the "+
			"resulting configuration along with any options that "+
			"would be ignored.  The database is not opened.",
		&checkOptsCfg)
	parser.AddCommand("bench",
		"Time concurrent puts and gets against the database", "",
		&benchCfg)
	parser.AddCommand("version", "Display version information and exit",
		"", &versionCfg)

	// Parse command line and invoke the Execute function for the specified
	// command.
	if _, err := parser.Parse(); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			parser.WriteHelp(os.Stderr)
		} else {
			log.Error(err)
		}

		return err
	}

	return nil
}

func main() {
	// Use all processor cores.
	runtime.GOMAXPROCS(runtime.NumCPU())

	// Work around defer not working after os.Exit()
	if err := realMain(); err != nil {
		os.Exit(1)
	}
}
