package config

import "time"

// ServerConfig is the root configuration for corex-server.
type ServerConfig struct {
	Server    ServerSection    `koanf:"server"`
	Ledger    LedgerSection    `koanf:"ledger"`
	Storage   StorageSection   `koanf:"storage"`
	Security  SecuritySection  `koanf:"security"`
	Telemetry TelemetrySection `koanf:"telemetry"`
	Log       LogSection       `koanf:"log"`
}

// ServerSection configures the HTTP endpoint.
type ServerSection struct {
	HTTP      HTTPConfig      `koanf:"http"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Address         string        `koanf:"address"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// CallerHeader carries the base58 caller identifier.
	CallerHeader string `koanf:"caller_header"`
}

// RateLimitConfig configures per-caller request limits.
type RateLimitConfig struct {
	Enabled           bool    `koanf:"enabled"`
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`

	// FaucetPerMinute limits faucet grants per caller.
	FaucetPerMinute int `koanf:"faucet_per_minute"`
}

// LedgerSection configures genesis and authority behavior.
type LedgerSection struct {
	// MintingAuthority is the base58 identifier seeded at genesis. Empty
	// starts without an authority.
	MintingAuthority string `koanf:"minting_authority"`

	// InitialSupply is a decimal amount credited to the authority.
	InitialSupply string `koanf:"initial_supply"`

	AirdropMilestone uint64 `koanf:"airdrop_milestone"`
	StrictAuthority  bool   `koanf:"strict_authority"`
	AuthorityName    string `koanf:"authority_name"`
	AuthorityEmail   string `koanf:"authority_email"`
}

// StorageSection configures the state store.
type StorageSection struct {
	// Backend is file, badger, sqlite or memory.
	Backend string       `koanf:"backend"`
	DataDir string       `koanf:"data_dir"`
	File    FileConfig   `koanf:"file"`
	Badger  BadgerConfig `koanf:"badger"`
	SQLite  SQLiteConfig `koanf:"sqlite"`
}

// FileConfig configures the snapshot file backend.
type FileConfig struct {
	RetentionCount int `koanf:"retention_count"`
}

// BadgerConfig configures the Badger backend.
type BadgerConfig struct {
	SyncWrites     bool          `koanf:"sync_writes"`
	GCInterval     time.Duration `koanf:"gc_interval"`
	GCDiscardRatio float64       `koanf:"gc_discard_ratio"`
}

// SQLiteConfig configures the SQLite backend.
type SQLiteConfig struct {
	BusyTimeout time.Duration `koanf:"busy_timeout"`
}

// SecuritySection configures at-rest encryption.
type SecuritySection struct {
	// EncryptionKey is a passphrase; empty disables encryption.
	EncryptionKey  string `koanf:"encryption_key"`
	EncryptionSalt string `koanf:"encryption_salt"`

	// Cipher is aes-256-gcm or chacha20-poly1305.
	Cipher string `koanf:"cipher"`
}

// TelemetrySection configures metrics.
type TelemetrySection struct {
	Metrics MetricsConfig `koanf:"metrics"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
