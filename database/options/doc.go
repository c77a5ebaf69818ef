// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package options translates a loosely typed option bag into a validated engine
configuration.

Callers hand Translate a map of option names to values, typically decoded from
a host runtime, a YAML file or command line flags.  Every recognized name has a
typed setter which checks the shape of the value before applying it to a
locally built Config.  The first value that does not match its option's shape
aborts the translation with a *DecodeError naming the option, so a Config is
either fully populated or not returned at all.

Names outside the recognized set are not rejected.  They are returned to the
caller as a sorted list of ignored options so the permissiveness stays
auditable.

Recognized options:

	create_if_missing                      bool
	create_missing_column_families         bool
	set_max_open_files                     int32
	set_use_fsync                          bool
	set_bytes_per_sync                     uint64
	optimize_for_point_lookup              uint64 (block cache size in MiB)
	set_table_cache_num_shard_bits         int32
	set_max_write_buffer_number            int32
	set_write_buffer_size                  uint (bytes)
	set_target_file_size_base              uint64 (bytes)
	set_min_write_buffer_number_to_merge   int32
	set_level_zero_stop_writes_trigger     int32
	set_level_zero_slowdown_writes_trigger int32
	set_disable_auto_compactions           bool
	set_compaction_style                   level | universal | fifo
	prefix_length                          uint (bytes)

Boolean options also accept the strings "true" and "false".  Integer options
accept any Go integer type as well as integral floating point values, which is
what YAML and JSON decoders produce.
*/
package options
