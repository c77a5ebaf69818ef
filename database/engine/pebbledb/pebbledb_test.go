package pebbledb

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/btcsuite/btclog"
	"github.com/btcsuite/kvbridge/database/engine"
	"github.com/btcsuite/kvbridge/database/options"
	"github.com/cockroachdb/pebble"
	"github.com/stretchr/testify/require"
)

// createConfig returns a configuration which creates missing databases.
func createConfig(t *testing.T, extra options.Options) *options.Config {
	opts := options.Options{"create_if_missing": true}
	for name, value := range extra {
		opts[name] = value
	}
	cfg, _, err := options.Translate(opts)
	require.NoErrorf(t, err, "failed to translate options")
	return cfg
}

func TestSuitePebbleDB(t *testing.T) {
	engine.TestSuiteEngine(t, func() engine.Engine {
		dbPath := filepath.Join(t.TempDir(), "pebbledb-testsuite")

		pebbledb, err := NewDB(dbPath, createConfig(t, nil))
		require.NoErrorf(t, err, "failed to create pebbledb")
		return pebbledb
	})
}

func TestSuitePebbleDBTuned(t *testing.T) {
	engine.TestSuiteEngine(t, func() engine.Engine {
		dbPath := filepath.Join(t.TempDir(), "pebbledb-tuned")

		pebbledb, err := NewDB(dbPath, createConfig(t, options.Options{
			"set_max_open_files":             -1,
			"set_use_fsync":                  true,
			"set_bytes_per_sync":             1 << 20,
			"optimize_for_point_lookup":      8,
			"set_table_cache_num_shard_bits": 2,
			"set_write_buffer_size":          1 << 20,
			"set_target_file_size_base":      1 << 20,
			"set_disable_auto_compactions":   true,
			"set_compaction_style":           "fifo",
			"prefix_length":                  2,
		}))
		require.NoErrorf(t, err, "failed to create pebbledb")
		return pebbledb
	})
}

func TestOpenMissing(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "missing")

	cfg := options.DefaultConfig()
	_, err := NewDB(dbPath, cfg)
	require.Errorf(t, err, "expected error opening missing database")

	// No implicit directory creation.
	_, statErr := os.Stat(dbPath)
	require.Truef(t, os.IsNotExist(statErr), "database directory was created")
}

func TestOpenLocked(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "locked")

	db, err := NewDB(dbPath, createConfig(t, nil))
	require.NoErrorf(t, err, "failed to create pebbledb")

	_, err = NewDB(dbPath, createConfig(t, nil))
	require.Errorf(t, err, "expected lock contention error")

	require.NoError(t, db.Close())

	db, err = NewDB(dbPath, options.DefaultConfig())
	require.NoErrorf(t, err, "failed to reopen pebbledb after close")
	require.NoError(t, db.Close())
}

func TestNewOptions(t *testing.T) {
	cfg := createConfig(t, options.Options{
		"set_max_open_files":                     -1,
		"set_bytes_per_sync":                     4096,
		"optimize_for_point_lookup":              16,
		"set_table_cache_num_shard_bits":         20,
		"set_max_write_buffer_number":            4,
		"set_write_buffer_size":                  2 << 20,
		"set_target_file_size_base":              1 << 20,
		"set_level_zero_stop_writes_trigger":     30,
		"set_level_zero_slowdown_writes_trigger": 10,
		"set_disable_auto_compactions":           true,
		"prefix_length":                          3,
	})

	opts := newOptions(cfg)
	defer opts.Cache.Unref()

	require.False(t, opts.ErrorIfNotExists)
	require.Equal(t, unlimitedOpenFiles, opts.MaxOpenFiles)
	require.Equal(t, 4096, opts.BytesPerSync)
	require.NotNil(t, opts.Cache)
	require.Equal(t, int64(16<<20), opts.Cache.MaxSize())
	require.Equal(t, 1<<maxTableCacheShardBits, opts.Experimental.TableCacheShards)
	require.Equal(t, 4, opts.MemTableStopWritesThreshold)
	require.Equal(t, uint64(2<<20), opts.MemTableSize)
	require.Equal(t, 30, opts.L0StopWritesThreshold)
	require.Equal(t, 10, opts.L0CompactionThreshold)
	require.True(t, opts.DisableAutomaticCompactions)

	require.Len(t, opts.Levels, numLevels)
	for i, level := range opts.Levels {
		require.Equalf(t, int64(1<<20)<<i, level.TargetFileSize, "level %d", i)
		require.NotNilf(t, level.FilterPolicy, "level %d", i)
	}

	require.NotNil(t, opts.Comparer)
	require.Equal(t, pebble.DefaultComparer.Name, opts.Comparer.Name)
	require.Equal(t, 3, opts.Comparer.Split([]byte("abcdef")))
	require.Equal(t, 2, opts.Comparer.Split([]byte("ab")))
}

func TestNewOptionsDefaults(t *testing.T) {
	opts := newOptions(options.DefaultConfig())

	require.True(t, opts.ErrorIfNotExists)
	require.Zero(t, opts.MaxOpenFiles)
	require.Nil(t, opts.Cache)
	require.Nil(t, opts.Levels)
	require.Nil(t, opts.Comparer)
}

func TestNewOptionsLargeTargetFileSize(t *testing.T) {
	cfg := createConfig(t, options.Options{
		"set_target_file_size_base": int64(math.MaxInt64),
	})

	opts := newOptions(cfg)
	require.Len(t, opts.Levels, numLevels)
	for i, level := range opts.Levels {
		require.Equalf(t, int64(math.MaxInt64), level.TargetFileSize,
			"level %d", i)
	}
}

func TestPebbleLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := btclog.NewBackend(&buf).Logger("KVDB")
	logger.SetLevel(btclog.LevelDebug)

	saved := log
	UseLogger(logger)
	defer UseLogger(saved)

	dbPath := filepath.Join(t.TempDir(), "logged")
	db, err := NewDB(dbPath, createConfig(t, nil))
	require.NoErrorf(t, err, "failed to create pebbledb")
	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	require.NoError(t, db.Close())

	// Reopening replays the WAL written above.
	db, err = NewDB(dbPath, options.DefaultConfig())
	require.NoErrorf(t, err, "failed to reopen pebbledb")
	require.NoError(t, db.Close())

	require.IsType(t, pebbleLogger{}, newOptions(options.DefaultConfig()).Logger)
	require.Contains(t, buf.String(), "[DBG] KVDB:")
	require.Contains(t, buf.String(), "replayed")

	buf.Reset()
	require.PanicsWithValue(t, "invariant violated: 7", func() {
		pebbleLogger{}.Fatalf("invariant violated: %d", 7)
	})
	require.Contains(t, buf.String(), "[CRT] KVDB: invariant violated: 7")
}
