package storage

// BadgerConfig configures the Badger backend.
type BadgerConfig struct {
	// Dir is the database directory.
	Dir string `koanf:"-"`

	// GCInterval is how often the value log is garbage collected.
	GCInterval string `koanf:"gc_interval"`

	// GCDiscardRatio is the minimum reclaimable fraction of a value log
	// file for GC to rewrite it (0-1).
	GCDiscardRatio float64 `koanf:"gc_discard_ratio"`

	// CacheSize is the block cache size in bytes.
	CacheSize int64 `koanf:"cache_size"`

	// ValueLogFileSize is the maximum size of a value log file in bytes.
	ValueLogFileSize int64 `koanf:"value_log_file_size"`

	// NumMemtables is the number of memtables kept in memory.
	NumMemtables int `koanf:"num_memtables"`

	// SyncWrites fsyncs every write. The ledger is a single key rewritten
	// on every commit, so this defaults to true.
	SyncWrites bool `koanf:"sync_writes"`
}

// DefaultBadgerConfig returns the default Badger configuration.
func DefaultBadgerConfig() BadgerConfig {
	return BadgerConfig{
		GCInterval:       "10m",
		GCDiscardRatio:   0.5,
		CacheSize:        16 << 20, // 16MB
		ValueLogFileSize: 64 << 20, // 64MB
		NumMemtables:     2,
		SyncWrites:       true,
	}
}

// BadgerStats contains Badger statistics.
type BadgerStats struct {
	// TotalSize is the total disk usage in bytes.
	TotalSize uint64

	// LSMSize is the LSM tree size in bytes.
	LSMSize uint64

	// ValueLogSize is the value log size in bytes.
	ValueLogSize uint64

	// LastGCTime is the Unix millisecond timestamp of the last GC run.
	LastGCTime int64

	// GCRuns is the number of value log files rewritten by GC.
	GCRuns uint64
}
