// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/btcsuite/kvbridge/internal/version"
)

// versionCmd defines the configuration options for the version command.
type versionCmd struct{}

var (
	// versionCfg defines the configuration options for the command.
	versionCfg = versionCmd{}
)

// Execute is the main entry point for the command.  It's invoked by the parser.
func (cmd *versionCmd) Execute(args []string) error {
	fmt.Printf("%s version %s (Go version %s %s/%s)\n",
		filepath.Base(os.Args[0]), version.String(), runtime.Version(),
		runtime.GOOS, runtime.GOARCH)
	return nil
}
