// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package options

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Options is a loosely typed option bag mapping option names to values.
type Options map[string]interface{}

// Option identifies a recognized configuration option.
type Option uint8

// These constants identify every recognized option.
const (
	OptCreateIfMissing Option = iota
	OptCreateMissingColumnFamilies
	OptMaxOpenFiles
	OptUseFsync
	OptBytesPerSync
	OptOptimizeForPointLookup
	OptTableCacheNumShardBits
	OptMaxWriteBufferNumber
	OptWriteBufferSize
	OptTargetFileSizeBase
	OptMinWriteBufferNumberToMerge
	OptLevel0StopWritesTrigger
	OptLevel0SlowdownWritesTrigger
	OptDisableAutoCompactions
	OptCompactionStyle
	OptPrefixLength

	// numOptions is the maximum option number used in tests.  This value
	// must be last.
	numOptions
)

// maxCacheMB is the largest block cache, in MiB, whose size in bytes still
// fits a native int.
const maxCacheMB = math.MaxInt >> 20

// optionDef couples an option name with the typed setter that applies a
// value to a Config.
type optionDef struct {
	name string
	set  func(cfg *Config, v interface{}) error
}

// optionDefs is the closed table of recognized options.
var optionDefs = [numOptions]optionDef{
	OptCreateIfMissing: {"create_if_missing", boolSetter(func(c *Config, v bool) {
		c.CreateIfMissing = v
	})},
	OptCreateMissingColumnFamilies: {"create_missing_column_families", boolSetter(func(c *Config, v bool) {
		c.CreateMissingColumnFamilies = v
	})},
	OptMaxOpenFiles: {"set_max_open_files", int32Setter(func(c *Config, v int32) {
		c.MaxOpenFiles = v
	})},
	OptUseFsync: {"set_use_fsync", boolSetter(func(c *Config, v bool) {
		c.UseFsync = v
	})},
	OptBytesPerSync: {"set_bytes_per_sync", uint64Setter(math.MaxInt, func(c *Config, v uint64) {
		c.BytesPerSync = v
	})},
	OptOptimizeForPointLookup: {"optimize_for_point_lookup", uint64Setter(maxCacheMB, func(c *Config, v uint64) {
		c.PointLookupCacheMB = v
	})},
	OptTableCacheNumShardBits: {"set_table_cache_num_shard_bits", int32Setter(func(c *Config, v int32) {
		c.TableCacheNumShardBits = v
	})},
	OptMaxWriteBufferNumber: {"set_max_write_buffer_number", int32Setter(func(c *Config, v int32) {
		c.MaxWriteBufferNumber = v
	})},
	OptWriteBufferSize: {"set_write_buffer_size", uint64Setter(math.MaxInt, func(c *Config, v uint64) {
		c.WriteBufferSize = v
	})},
	OptTargetFileSizeBase: {"set_target_file_size_base", uint64Setter(math.MaxInt, func(c *Config, v uint64) {
		c.TargetFileSizeBase = v
	})},
	OptMinWriteBufferNumberToMerge: {"set_min_write_buffer_number_to_merge", int32Setter(func(c *Config, v int32) {
		c.MinWriteBufferNumberToMerge = v
	})},
	OptLevel0StopWritesTrigger: {"set_level_zero_stop_writes_trigger", int32Setter(func(c *Config, v int32) {
		c.Level0StopWritesTrigger = v
	})},
	OptLevel0SlowdownWritesTrigger: {"set_level_zero_slowdown_writes_trigger", int32Setter(func(c *Config, v int32) {
		c.Level0SlowdownWritesTrigger = v
	})},
	OptDisableAutoCompactions: {"set_disable_auto_compactions", boolSetter(func(c *Config, v bool) {
		c.DisableAutoCompactions = v
	})},
	OptCompactionStyle: {"set_compaction_style", setCompactionStyle},
	OptPrefixLength: {"prefix_length", uint64Setter(math.MaxInt, func(c *Config, v uint64) {
		c.PrefixLength = v
	})},
}

// optionsByName maps option names to their identifiers.
var optionsByName = func() map[string]Option {
	m := make(map[string]Option, numOptions)
	for opt := Option(0); opt < numOptions; opt++ {
		m[optionDefs[opt].name] = opt
	}
	return m
}()

// String returns the option name as accepted by Translate.
func (o Option) String() string {
	if o < numOptions {
		return optionDefs[o].name
	}
	return fmt.Sprintf("Unknown Option (%d)", uint8(o))
}

// Lookup returns the option identified by name.
func Lookup(name string) (Option, bool) {
	opt, ok := optionsByName[name]
	return opt, ok
}

// Names returns the names of all recognized options in table order.
func Names() []string {
	names := make([]string, 0, numOptions)
	for opt := Option(0); opt < numOptions; opt++ {
		names = append(names, optionDefs[opt].name)
	}
	return names
}

// DecodeError describes an option value which does not match the shape the
// option expects.
type DecodeError struct {
	Option string
	Value  interface{}
	Reason string
}

// Error satisfies the error interface and names the offending option.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid value %v (%T) for option %s: %s", e.Value,
		e.Value, e.Option, e.Reason)
}

// Translate converts the option bag into a validated Config.
//
// Options are applied in sorted name order so the reported error is stable
// when more than one value is invalid.  Unrecognized names are skipped and
// returned, sorted, as the second result.  On failure no Config is returned.
func Translate(opts Options) (*Config, []string, error) {
	names := make([]string, 0, len(opts))
	for name := range opts {
		names = append(names, name)
	}
	sort.Strings(names)

	cfg := DefaultConfig()
	var ignored []string
	for _, name := range names {
		opt, ok := optionsByName[name]
		if !ok {
			ignored = append(ignored, name)
			continue
		}

		value := opts[name]
		if err := optionDefs[opt].set(cfg, value); err != nil {
			return nil, nil, &DecodeError{
				Option: name,
				Value:  value,
				Reason: err.Error(),
			}
		}
		cfg.set |= 1 << opt
	}

	return cfg, ignored, nil
}

var (
	errNotBool      = errors.New("expected a boolean")
	errNotInteger   = errors.New("expected an integer")
	errNegative     = errors.New("expected a non-negative integer")
	errOutOfRange   = errors.New("integer out of range")
	errNotStyleTag  = errors.New("expected a compaction style tag")
	errUnknownStyle = errors.New("unknown compaction style, expected one " +
		"of level, universal, fifo")
)

func boolSetter(apply func(*Config, bool)) func(*Config, interface{}) error {
	return func(cfg *Config, v interface{}) error {
		b, err := decodeBool(v)
		if err != nil {
			return err
		}
		apply(cfg, b)
		return nil
	}
}

func int32Setter(apply func(*Config, int32)) func(*Config, interface{}) error {
	return func(cfg *Config, v interface{}) error {
		n, err := decodeSigned(v)
		if err != nil {
			return err
		}
		if n < math.MinInt32 || n > math.MaxInt32 {
			return errOutOfRange
		}
		apply(cfg, int32(n))
		return nil
	}
}

// uint64Setter returns a setter for an unsigned option whose values may not
// exceed max.  Every unsigned option ends up in a native int or int64 engine
// setting, so none may exceed math.MaxInt.
func uint64Setter(max uint64, apply func(*Config, uint64)) func(*Config, interface{}) error {
	return func(cfg *Config, v interface{}) error {
		n, err := decodeUnsigned(v)
		if err != nil {
			return err
		}
		if n > max {
			return errOutOfRange
		}
		apply(cfg, n)
		return nil
	}
}

func setCompactionStyle(cfg *Config, v interface{}) error {
	switch tag := v.(type) {
	case CompactionStyle:
		if tag >= numCompactionStyles {
			return errUnknownStyle
		}
		cfg.CompactionStyle = tag
		return nil

	case string:
		style, ok := ParseCompactionStyle(tag)
		if !ok {
			return errUnknownStyle
		}
		cfg.CompactionStyle = style
		return nil
	}
	return errNotStyleTag
}

func decodeBool(v interface{}) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		switch b {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return false, errNotBool
}

// decodeSigned normalizes every Go integer kind and integral floating point
// values to an int64.
func decodeSigned(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, errOutOfRange
		}
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, errOutOfRange
		}
		return int64(n), nil
	case float32:
		return floatToSigned(float64(n))
	case float64:
		return floatToSigned(n)
	}
	return 0, errNotInteger
}

// decodeUnsigned normalizes every Go integer kind and integral floating point
// values to a uint64.  Negative values are rejected.
func decodeUnsigned(v interface{}) (uint64, error) {
	switch n := v.(type) {
	case uint:
		return uint64(n), nil
	case uint8:
		return uint64(n), nil
	case uint16:
		return uint64(n), nil
	case uint32:
		return uint64(n), nil
	case uint64:
		return n, nil
	}

	if f, ok := v.(float64); ok && f >= math.MaxInt64 {
		if f != math.Trunc(f) || f >= math.MaxUint64 {
			return 0, errOutOfRange
		}
		return uint64(f), nil
	}

	n, err := decodeSigned(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errNegative
	}
	return uint64(n), nil
}

func floatToSigned(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, errNotInteger
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, errOutOfRange
	}
	return int64(f), nil
}
