// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package database provides a small point-operation interface to an embedded
LSM key-value engine.

A host opens a database at a filesystem path with a bag of RocksDB-style
tuning options, receives a Handle, and performs Put, Get and Delete on opaque
byte keys and values.  The engine is released when the last reference to the
handle is released, or when an unreleased handle is garbage collected.

# Drivers

Two engines are registered by default: pebble, which is the default, and
leveldb.  Both run in process and persist to the path they are opened on.
Additional drivers may be registered with RegisterDriver.

# Options

Options are translated by the options package before anything on disk is
touched.  A recognized option with a value of the wrong shape fails the open
with ErrConfig.  Unrecognized option names are ignored, logged, and reported
by Handle.IgnoredOptions.

	h, err := database.Open(path, options.Options{
		"create_if_missing":     true,
		"set_write_buffer_size": 64 << 20,
		"set_compaction_style":  "level",
	})
	if err != nil {
		return err
	}
	defer h.Close()

# Results

Point operations return a Result with one of three shapes: ok (carrying the
value for a Get), not found (Get only) and failure (carrying the engine's own
message as the reason).  Engine failures never panic.  The single exception is
a handle whose guard was poisoned by a panicking engine call, which escalates
by panicking with an ErrSyncFault Error.

# Concurrency

A Handle is safe for concurrent use.  Puts and deletes on a handle are
serialized with respect to each other and to gets.  Gets run concurrently.
Where each class of call runs is chosen by the dispatch Policy: inline on the
calling goroutine or on a bounded pool of I/O workers.

# Errors

Errors returned by this package are of type database.Error and carry an
ErrorCode.  The underlying engine error, if any, is available through Unwrap.
*/
package database
