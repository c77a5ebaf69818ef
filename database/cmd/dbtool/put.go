// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// decodeArg converts a key or value argument to bytes, decoding hex when
// requested.
func decodeArg(what, arg string) ([]byte, error) {
	if !cfg.Hex {
		return []byte(arg), nil
	}
	b, err := hex.DecodeString(arg)
	if err != nil {
		return nil, fmt.Errorf("%s is not valid hex: %w", what, err)
	}
	return b, nil
}

// formatValue renders a stored value for display.
func formatValue(value []byte) string {
	if cfg.Hex {
		return hex.EncodeToString(value)
	}
	return string(value)
}

// putCmd defines the configuration options for the put command.
type putCmd struct{}

var (
	// putCfg defines the configuration options for the command.
	putCfg = putCmd{}
)

// Execute is the main entry point for the command.  It's invoked by the parser.
func (cmd *putCmd) Execute(args []string) error {
	// Setup the global config options and ensure they are valid.
	if err := setupGlobalConfig(); err != nil {
		return err
	}

	if len(args) < 2 {
		return errors.New("required key and value parameters not " +
			"specified")
	}
	key, err := decodeArg("key", args[0])
	if err != nil {
		return err
	}
	value, err := decodeArg("value", args[1])
	if err != nil {
		return err
	}

	// Load the database.
	h, err := loadDB()
	if err != nil {
		return err
	}
	defer h.Close()

	startTime := time.Now()
	if r := h.Put(key, value); r.Failed() {
		return r.Err
	}
	log.Infof("Stored %d bytes under %q in %v", len(value), args[0],
		time.Since(startTime))
	return nil
}

// Usage overrides the usage display for the command.
func (cmd *putCmd) Usage() string {
	return "<key> <value>"
}
