// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
)

// deleteCmd defines the configuration options for the delete command.
type deleteCmd struct{}

var (
	// deleteCfg defines the configuration options for the command.
	deleteCfg = deleteCmd{}
)

// Execute is the main entry point for the command.  It's invoked by the parser.
func (cmd *deleteCmd) Execute(args []string) error {
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

	if r := h.Delete(key); r.Failed() {
		return r.Err
	}
	log.Infof("Deleted key %q", args[0])
	return nil
}

// Usage overrides the usage display for the command.
func (cmd *deleteCmd) Usage() string {
	return "<key>"
}
