package leveldb

import (
	"github.com/btcsuite/btclog"
	"github.com/btcsuite/kvbridge/database/engine"
	"github.com/btcsuite/kvbridge/database/options"
	"github.com/syndtr/goleveldb/leveldb"
	ldberrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

const (
	// DriverName is the name the goleveldb driver registers under.
	DriverName = "leveldb"

	bloomBitsPerKey = 10

	// unlimitedOpenFiles stands in for a max_open_files of -1, which
	// goleveldb would read as "cache no open files".
	unlimitedOpenFiles = 1 << 20
)

var log = btclog.Disabled

// UseLogger uses a specified Logger to output driver logging info.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// NewDB opens the goleveldb database at dbPath with the passed configuration.
func NewDB(dbPath string, cfg *options.Config) (engine.Engine, error) {
	if err := engine.CheckExists(dbPath, cfg.CreateIfMissing); err != nil {
		return nil, err
	}

	ldb, err := leveldb.OpenFile(dbPath, newOptions(cfg))
	if err != nil {
		return nil, convertErr(err)
	}
	log.Debugf("Opened leveldb database %s (%v)", dbPath, cfg)

	return &DB{db: ldb, writeOpts: &opt.WriteOptions{Sync: cfg.UseFsync}}, nil
}

// newOptions maps the explicitly set options onto goleveldb's options.
func newOptions(cfg *options.Config) *opt.Options {
	opts := &opt.Options{
		ErrorIfMissing: !cfg.CreateIfMissing,
		Strict:         opt.DefaultStrict,
	}

	for _, o := range cfg.Explicit() {
		switch o {
		case options.OptMaxOpenFiles:
			opts.OpenFilesCacheCapacity = int(cfg.MaxOpenFiles)
			if cfg.MaxOpenFiles < 0 {
				opts.OpenFilesCacheCapacity = unlimitedOpenFiles
			}

		case options.OptOptimizeForPointLookup:
			opts.BlockCacheCapacity = int(cfg.PointLookupCacheMB) * opt.MiB
			opts.Filter = filter.NewBloomFilter(bloomBitsPerKey)

		case options.OptWriteBufferSize:
			opts.WriteBuffer = int(cfg.WriteBufferSize)

		case options.OptTargetFileSizeBase:
			opts.CompactionTableSize = int(cfg.TargetFileSizeBase)

		case options.OptLevel0StopWritesTrigger:
			opts.WriteL0PauseTrigger = int(cfg.Level0StopWritesTrigger)

		case options.OptLevel0SlowdownWritesTrigger:
			opts.WriteL0SlowdownTrigger = int(cfg.Level0SlowdownWritesTrigger)

		case options.OptDisableAutoCompactions:
			opts.DisableSeeksCompaction = cfg.DisableAutoCompactions
			opts.DisableCompactionBackoff = cfg.DisableAutoCompactions

		case options.OptCompactionStyle:
			if cfg.CompactionStyle != options.CompactionLevel {
				log.Warnf("Leveldb only supports level compaction -- "+
					"compaction style %v treated as level",
					cfg.CompactionStyle)
			}

		case options.OptCreateIfMissing, options.OptUseFsync:
			// Applied at open and write time.

		default:
			log.Debugf("Option %v has no leveldb equivalent", o)
		}
	}

	return opts
}

func convertErr(err error) error {
	if ldberrors.IsCorrupted(err) {
		return &engine.CorruptionError{Err: err}
	}
	return err
}

type DB struct {
	db        *leveldb.DB
	writeOpts *opt.WriteOptions
}

func (d *DB) Get(key []byte) ([]byte, error) {
	val, err := d.db.Get(key, nil)
	switch err {
	case nil:
		// goleveldb returns a fresh slice, but an empty value may be nil.
		if val == nil {
			val = []byte{}
		}
		return val, nil
	case leveldb.ErrNotFound:
		return nil, engine.ErrNotFound
	case leveldb.ErrClosed:
		return nil, engine.ErrClosed
	}
	return nil, convertErr(err)
}

func (d *DB) Put(key, value []byte) error {
	return d.mapClosed(d.db.Put(key, value, d.writeOpts))
}

func (d *DB) Delete(key []byte) error {
	return d.mapClosed(d.db.Delete(key, d.writeOpts))
}

func (d *DB) Close() error {
	return d.mapClosed(d.db.Close())
}

func (d *DB) mapClosed(err error) error {
	if err == leveldb.ErrClosed {
		return engine.ErrClosed
	}
	return convertErr(err)
}
