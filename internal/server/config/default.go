package config

import (
	"strconv"
	"time"

	"github.com/yndnr/corex-go/internal/core/domain"
	"github.com/yndnr/corex-go/internal/storage"
	"github.com/yndnr/corex-go/internal/storage/snapshot"
	"github.com/yndnr/corex-go/pkg/crypto/adaptive"
)

// Default configuration values.
const (
	DefaultHTTPAddr        = "127.0.0.1:5180"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultCallerHeader    = "X-Caller-ID"

	DefaultRequestsPerSecond = 50
	DefaultBurst             = 100
	DefaultFaucetPerMinute   = 6

	DefaultDataDir        = "./data"
	DefaultGCInterval     = 10 * time.Minute
	DefaultGCDiscardRatio = 0.5
	DefaultBusyTimeout    = 5 * time.Second

	DefaultEncryptionSalt = "corex-ledger"

	DefaultMetricsPath = "/metrics"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Address:         DefaultHTTPAddr,
				ReadTimeout:     DefaultReadTimeout,
				WriteTimeout:    DefaultWriteTimeout,
				ShutdownTimeout: DefaultShutdownTimeout,
				CallerHeader:    DefaultCallerHeader,
			},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerSecond: DefaultRequestsPerSecond,
				Burst:             DefaultBurst,
				FaucetPerMinute:   DefaultFaucetPerMinute,
			},
		},
		Ledger: LedgerSection{
			InitialSupply:    strconv.FormatUint(domain.DefaultInitialSupply, 10),
			AirdropMilestone: domain.DefaultAirdropMilestone,
			AuthorityName:    domain.DefaultAuthorityName,
		},
		Storage: StorageSection{
			Backend: storage.BackendFile,
			DataDir: DefaultDataDir,
			File: FileConfig{
				RetentionCount: snapshot.DefaultRetentionCount,
			},
			Badger: BadgerConfig{
				SyncWrites:     true,
				GCInterval:     DefaultGCInterval,
				GCDiscardRatio: DefaultGCDiscardRatio,
			},
			SQLite: SQLiteConfig{
				BusyTimeout: DefaultBusyTimeout,
			},
		},
		Security: SecuritySection{
			EncryptionSalt: DefaultEncryptionSalt,
			Cipher:         string(adaptive.CipherAESGCM),
		},
		Telemetry: TelemetrySection{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    DefaultMetricsPath,
			},
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
