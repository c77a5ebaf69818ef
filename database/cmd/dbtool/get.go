// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"time"
)

// getCmd defines the configuration options for the get command.
type getCmd struct{}

var (
	// getCfg defines the configuration options for the command.
	getCfg = getCmd{}
)

// Execute is the main entry point for the command.  It's invoked by the parser.
func (cmd *getCmd) Execute(args []string) error {
	// Setup the global config options and ensure they are valid.
	if err := setupGlobalConfig(); err != nil {
		return err
	}

	if len(args) < 1 {
		return errors.New("required key parameter not specified")
	}
	key, err := decodeArg("key", args[0])
	if err != nil {
		return err
	}

	// Load the database.
	h, err := loadDB()
	if err != nil {
		return err
	}
	defer h.Close()

	log.Infof("Fetching key %q", args[0])
	startTime := time.Now()
	r := h.Get(key)
	switch {
	case r.Failed():
		return r.Err
	case r.NotFound():
		return fmt.Errorf("key %q not found", args[0])
	}
	log.Infof("Loaded %d bytes in %v", len(r.Value), time.Since(startTime))
	fmt.Println(formatValue(r.Value))
	return nil
}

// Usage overrides the usage display for the command.
func (cmd *getCmd) Usage() string {
	return "<key>"
}
