// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package limits raises process resource limits for the engines.
package limits

import (
	"github.com/btcsuite/kvbridge/database/options"
)

const (
	// MinFiles is the fewest descriptors an engine is run with.
	MinFiles = 1024

	// DefaultFiles is requested when the engine may keep an unbounded
	// number of table files open.
	DefaultFiles = 4096

	// reservedFiles covers the log, manifest, lock and write-ahead files
	// the engines hold besides their tables, plus the process's own.
	reservedFiles = 64
)

func clamp(want uint64) uint64 {
	if want < MinFiles {
		return MinFiles
	}
	return want
}

// FilesFor returns the descriptor limit to request for an engine opened with
// cfg.
func FilesFor(cfg *options.Config) uint64 {
	if cfg.IsSet(options.OptMaxOpenFiles) && cfg.MaxOpenFiles >= 0 {
		return clamp(uint64(cfg.MaxOpenFiles) + reservedFiles)
	}
	return DefaultFiles
}
