package pebbledb

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/btcsuite/btclog"
	"github.com/btcsuite/kvbridge/database/engine"
	"github.com/btcsuite/kvbridge/database/options"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/bloom"
)

const (
	// DriverName is the name the pebble driver registers under.
	DriverName = "pebble"

	// numLevels is the number of LSM levels pebble maintains.
	numLevels = 7

	// bloomBitsPerKey matches the filter RocksDB installs for
	// optimize_for_point_lookup.
	bloomBitsPerKey = 10

	// unlimitedOpenFiles stands in for a max_open_files of -1.  Pebble has
	// no unlimited setting.
	unlimitedOpenFiles = 1 << 20

	// maxTableCacheShardBits bounds the table cache shard count.  Every
	// shard runs its own release goroutine.
	maxTableCacheShardBits = 10
)

var log = btclog.Disabled

// UseLogger uses a specified Logger to output driver logging info.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// pebbleLogger routes pebble's internal logging to the driver logger.
// Pebble's informational events (WAL replay, flushes, compactions) are
// chatty, so they are logged at debug level.
type pebbleLogger struct{}

func (pebbleLogger) Infof(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

// Fatalf logs the message and panics.  Pebble only calls it on invariant
// violations and never expects it to return.
func (pebbleLogger) Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	log.Criticalf("%s", msg)
	panic(msg)
}

// NewDB opens the pebble database at dbPath with the passed configuration.
func NewDB(dbPath string, cfg *options.Config) (engine.Engine, error) {
	if err := engine.CheckExists(dbPath, cfg.CreateIfMissing); err != nil {
		return nil, err
	}

	opts := newOptions(cfg)
	if opts.Cache != nil {
		defer opts.Cache.Unref()
	}
	db, err := pebble.Open(dbPath, opts)
	if err != nil {
		return nil, convertErr(err)
	}

	writeOpts := pebble.NoSync
	if cfg.UseFsync {
		writeOpts = pebble.Sync
	}
	log.Debugf("Opened pebble database %s (%v)", dbPath, cfg)

	return &DB{db: db, writeOpts: writeOpts}, nil
}

// newOptions maps the explicitly set options onto pebble's options.  Unset
// options keep pebble's defaults.
func newOptions(cfg *options.Config) *pebble.Options {
	opts := &pebble.Options{
		ErrorIfNotExists: !cfg.CreateIfMissing,
		Logger:           pebbleLogger{},
	}

	for _, opt := range cfg.Explicit() {
		switch opt {
		case options.OptMaxOpenFiles:
			opts.MaxOpenFiles = int(cfg.MaxOpenFiles)
			if cfg.MaxOpenFiles < 0 {
				opts.MaxOpenFiles = unlimitedOpenFiles
			}

		case options.OptBytesPerSync:
			opts.BytesPerSync = int(cfg.BytesPerSync)

		case options.OptOptimizeForPointLookup:
			opts.Cache = pebble.NewCache(int64(cfg.PointLookupCacheMB) << 20)

		case options.OptTableCacheNumShardBits:
			bits := cfg.TableCacheNumShardBits
			if bits > maxTableCacheShardBits {
				bits = maxTableCacheShardBits
			}
			if bits >= 0 {
				opts.Experimental.TableCacheShards = 1 << bits
			}

		case options.OptMaxWriteBufferNumber:
			opts.MemTableStopWritesThreshold = int(cfg.MaxWriteBufferNumber)

		case options.OptWriteBufferSize:
			opts.MemTableSize = cfg.WriteBufferSize

		case options.OptLevel0StopWritesTrigger:
			opts.L0StopWritesThreshold = int(cfg.Level0StopWritesTrigger)

		case options.OptLevel0SlowdownWritesTrigger:
			opts.L0CompactionThreshold = int(cfg.Level0SlowdownWritesTrigger)

		case options.OptDisableAutoCompactions:
			opts.DisableAutomaticCompactions = cfg.DisableAutoCompactions

		case options.OptCompactionStyle:
			if cfg.CompactionStyle != options.CompactionLevel {
				log.Warnf("Pebble only supports level compaction -- "+
					"compaction style %v treated as level",
					cfg.CompactionStyle)
			}

		case options.OptPrefixLength:
			if cfg.PrefixLength > 0 {
				opts.Comparer = fixedPrefixComparer(int(cfg.PrefixLength))
			}

		case options.OptCreateIfMissing, options.OptUseFsync,
			options.OptTargetFileSizeBase:
			// Applied above, below, or at write time.

		default:
			log.Debugf("Option %v has no pebble equivalent", opt)
		}
	}

	if cfg.IsSet(options.OptOptimizeForPointLookup) ||
		cfg.IsSet(options.OptTargetFileSizeBase) {

		opts.Levels = make([]pebble.LevelOptions, numLevels)
		targetSize := int64(cfg.TargetFileSizeBase)
		for i := range opts.Levels {
			if cfg.IsSet(options.OptOptimizeForPointLookup) {
				opts.Levels[i].FilterPolicy = bloom.FilterPolicy(bloomBitsPerKey)
			}
			if targetSize > 0 {
				opts.Levels[i].TargetFileSize = targetSize
				if targetSize <= math.MaxInt64/2 {
					targetSize *= 2
				}
			}
		}
	}

	return opts
}

// fixedPrefixComparer returns the default bytewise comparer with a Split
// function extracting the first prefixLen bytes of a key.  Keys shorter than
// the prefix are their own prefix.  The name is kept so databases opened with
// and without a prefix extractor remain compatible.
func fixedPrefixComparer(prefixLen int) *pebble.Comparer {
	cmp := *pebble.DefaultComparer
	cmp.Split = func(key []byte) int {
		if len(key) < prefixLen {
			return len(key)
		}
		return prefixLen
	}
	return &cmp
}

// convertErr wraps pebble corruption errors so callers can recognize them
// without depending on pebble.
func convertErr(err error) error {
	if pebble.IsCorruptionError(err) {
		return &engine.CorruptionError{Err: err}
	}
	return err
}

type DB struct {
	db        *pebble.DB
	writeOpts *pebble.WriteOptions

	closed atomic.Bool
}

func (d *DB) Get(key []byte) ([]byte, error) {
	if d.closed.Load() {
		return nil, engine.ErrClosed
	}

	ori, closer, err := d.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, engine.ErrNotFound
	}
	if err != nil {
		return nil, convertErr(err)
	}
	defer closer.Close()

	val := make([]byte, len(ori))
	copy(val, ori)
	return val, nil
}

func (d *DB) Put(key, value []byte) error {
	if d.closed.Load() {
		return engine.ErrClosed
	}
	return convertErr(d.db.Set(key, value, d.writeOpts))
}

func (d *DB) Delete(key []byte) error {
	if d.closed.Load() {
		return engine.ErrClosed
	}
	return convertErr(d.db.Delete(key, d.writeOpts))
}

func (d *DB) Close() error {
	if d.closed.Swap(true) {
		return engine.ErrClosed
	}
	return d.db.Close()
}
