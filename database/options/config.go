// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package options

import (
	"fmt"
	"strings"
)

// CompactionStyle identifies the strategy an engine uses to merge its on-disk
// data files.
type CompactionStyle uint8

const (
	// CompactionLevel merges files level by level.  This is the default.
	CompactionLevel CompactionStyle = iota

	// CompactionUniversal merges sorted runs of similar size.
	CompactionUniversal

	// CompactionFIFO drops the oldest files once a size limit is reached.
	CompactionFIFO

	// numCompactionStyles is the maximum compaction style number used in
	// tests.  This value must be last.
	numCompactionStyles
)

// compactionStyleStrings is a map of compaction styles back to their tag as
// accepted by the set_compaction_style option.
var compactionStyleStrings = map[CompactionStyle]string{
	CompactionLevel:     "level",
	CompactionUniversal: "universal",
	CompactionFIFO:      "fifo",
}

// String returns the CompactionStyle as its option tag.
func (s CompactionStyle) String() string {
	if str, ok := compactionStyleStrings[s]; ok {
		return str
	}
	return fmt.Sprintf("Unknown CompactionStyle (%d)", uint8(s))
}

// ParseCompactionStyle returns the compaction style for the passed tag.
func ParseCompactionStyle(tag string) (CompactionStyle, bool) {
	for style, str := range compactionStyleStrings {
		if str == tag {
			return style, true
		}
	}
	return 0, false
}

// Config is the strongly typed engine configuration produced by Translate.
//
// The zero value of a field means "engine default" unless the matching
// option was set explicitly, which IsSet reports.  Drivers only override the
// engine settings the caller asked for.
type Config struct {
	CreateIfMissing             bool
	CreateMissingColumnFamilies bool

	// MaxOpenFiles of -1 keeps every table file open.
	MaxOpenFiles int32

	UseFsync     bool
	BytesPerSync uint64

	// PointLookupCacheMB is the block cache size requested through
	// optimize_for_point_lookup.
	PointLookupCacheMB uint64

	TableCacheNumShardBits      int32
	MaxWriteBufferNumber        int32
	WriteBufferSize             uint64
	TargetFileSizeBase          uint64
	MinWriteBufferNumberToMerge int32
	Level0StopWritesTrigger     int32
	Level0SlowdownWritesTrigger int32
	DisableAutoCompactions      bool
	CompactionStyle             CompactionStyle

	// PrefixLength is the length of the fixed key prefix extracted for
	// lookup acceleration.  Zero means no prefix extractor.
	PrefixLength uint64

	set uint32
}

// DefaultConfig returns the configuration used when an engine is opened
// without options.  It mirrors the RocksDB defaults: the database must
// already exist and every table file may stay open.
func DefaultConfig() *Config {
	return &Config{
		MaxOpenFiles:    -1,
		CompactionStyle: CompactionLevel,
	}
}

// IsSet reports whether the option was supplied explicitly.
func (c *Config) IsSet(opt Option) bool {
	return c.set&(1<<opt) != 0
}

// Explicit returns the explicitly supplied options in table order.
func (c *Config) Explicit() []Option {
	var opts []Option
	for opt := Option(0); opt < numOptions; opt++ {
		if c.IsSet(opt) {
			opts = append(opts, opt)
		}
	}
	return opts
}

// value returns the current value of the field behind opt.
func (c *Config) value(opt Option) interface{} {
	switch opt {
	case OptCreateIfMissing:
		return c.CreateIfMissing
	case OptCreateMissingColumnFamilies:
		return c.CreateMissingColumnFamilies
	case OptMaxOpenFiles:
		return c.MaxOpenFiles
	case OptUseFsync:
		return c.UseFsync
	case OptBytesPerSync:
		return c.BytesPerSync
	case OptOptimizeForPointLookup:
		return c.PointLookupCacheMB
	case OptTableCacheNumShardBits:
		return c.TableCacheNumShardBits
	case OptMaxWriteBufferNumber:
		return c.MaxWriteBufferNumber
	case OptWriteBufferSize:
		return c.WriteBufferSize
	case OptTargetFileSizeBase:
		return c.TargetFileSizeBase
	case OptMinWriteBufferNumberToMerge:
		return c.MinWriteBufferNumberToMerge
	case OptLevel0StopWritesTrigger:
		return c.Level0StopWritesTrigger
	case OptLevel0SlowdownWritesTrigger:
		return c.Level0SlowdownWritesTrigger
	case OptDisableAutoCompactions:
		return c.DisableAutoCompactions
	case OptCompactionStyle:
		return c.CompactionStyle
	case OptPrefixLength:
		return c.PrefixLength
	}
	return nil
}

// String returns the explicitly supplied options as space separated
// name=value pairs, or "defaults" when none were supplied.
func (c *Config) String() string {
	set := c.Explicit()
	if len(set) == 0 {
		return "defaults"
	}
	pairs := make([]string, 0, len(set))
	for _, opt := range set {
		pairs = append(pairs, fmt.Sprintf("%s=%v", opt, c.value(opt)))
	}
	return strings.Join(pairs, " ")
}
