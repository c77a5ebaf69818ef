// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strings"

	"github.com/btcsuite/kvbridge/database/options"
)

// checkOptsCmd defines the configuration options for the checkopts command.
type checkOptsCmd struct {
	List bool `long:"list" description:"List the recognized option names and exit"`
}

var (
	// checkOptsCfg defines the configuration options for the command.
	checkOptsCfg = checkOptsCmd{}
)

// Execute is the main entry point for the command.  It's invoked by the parser.
func (cmd *checkOptsCmd) Execute(args []string) error {
	// Setup the global config options and ensure they are valid.
	if err := setupGlobalConfig(); err != nil {
		return err
	}

	if cmd.List {
		for _, name := range options.Names() {
			fmt.Println(name)
		}
		return nil
	}

	opts, err := loadOptions()
	if err != nil {
		return err
	}
	engineCfg, ignored, err := options.Translate(opts)
	if err != nil {
		return err
	}

	fmt.Printf("config: %v\n", engineCfg)
	if len(ignored) > 0 {
		fmt.Printf("ignored: %s\n", strings.Join(ignored, ", "))
	}
	return nil
}
