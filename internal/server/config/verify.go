package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/yndnr/corex-go/internal/core/domain"
	"github.com/yndnr/corex-go/internal/storage"
	"github.com/yndnr/corex-go/internal/telemetry/logger"
	"github.com/yndnr/corex-go/pkg/account"
	"github.com/yndnr/corex-go/pkg/crypto/adaptive"
)

// Verify validates the configuration and returns every problem found.
func Verify(cfg *ServerConfig) error {
	return errors.Join(
		verifyServer(&cfg.Server),
		verifyLedger(&cfg.Ledger),
		verifyStorage(&cfg.Storage),
		verifySecurity(&cfg.Security),
		verifyTelemetry(&cfg.Telemetry),
		verifyLog(&cfg.Log),
	)
}

func verifyServer(cfg *ServerSection) error {
	var errs []error
	if _, _, err := net.SplitHostPort(cfg.HTTP.Address); err != nil {
		errs = append(errs, fmt.Errorf("server.http.address: %w", err))
	}
	if cfg.HTTP.CallerHeader == "" {
		errs = append(errs, errors.New("server.http.caller_header is required"))
	}
	if cfg.HTTP.ReadTimeout < 0 || cfg.HTTP.WriteTimeout < 0 {
		errs = append(errs, errors.New("server.http timeouts must not be negative"))
	}

	rl := cfg.RateLimit
	if rl.Enabled {
		if rl.RequestsPerSecond <= 0 {
			errs = append(errs, errors.New("server.rate_limit.requests_per_second must be positive"))
		}
		if rl.Burst < 1 {
			errs = append(errs, errors.New("server.rate_limit.burst must be at least 1"))
		}
		if rl.FaucetPerMinute < 0 {
			errs = append(errs, errors.New("server.rate_limit.faucet_per_minute must not be negative"))
		}
	}
	return errors.Join(errs...)
}

func verifyLedger(cfg *LedgerSection) error {
	var errs []error
	if cfg.MintingAuthority != "" {
		id, err := account.Parse(cfg.MintingAuthority)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("ledger.minting_authority: %w", err))
		case id.IsReserved():
			errs = append(errs, errors.New("ledger.minting_authority is a reserved identifier"))
		}
	}
	if _, err := domain.ParseAmount(cfg.InitialSupply); err != nil {
		errs = append(errs, fmt.Errorf("ledger.initial_supply: %w", err))
	}
	if cfg.AirdropMilestone == 0 {
		errs = append(errs, errors.New("ledger.airdrop_milestone must be positive"))
	}
	return errors.Join(errs...)
}

func verifyStorage(cfg *StorageSection) error {
	var errs []error
	switch cfg.Backend {
	case storage.BackendFile, storage.BackendBadger, storage.BackendSQLite, storage.BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("storage.backend: unknown backend %q", cfg.Backend))
	}
	if cfg.Backend != storage.BackendMemory && cfg.DataDir == "" {
		errs = append(errs, errors.New("storage.data_dir is required"))
	}
	if cfg.File.RetentionCount < 1 {
		errs = append(errs, errors.New("storage.file.retention_count must be at least 1"))
	}
	if r := cfg.Badger.GCDiscardRatio; r <= 0 || r >= 1 {
		errs = append(errs, errors.New("storage.badger.gc_discard_ratio must be between 0 and 1"))
	}
	if cfg.Badger.GCInterval <= 0 {
		errs = append(errs, errors.New("storage.badger.gc_interval must be positive"))
	}
	return errors.Join(errs...)
}

func verifySecurity(cfg *SecuritySection) error {
	if cfg.EncryptionKey == "" {
		return nil
	}
	var errs []error
	if len(cfg.EncryptionKey) < adaptive.MinPassphraseLength {
		errs = append(errs, fmt.Errorf("security.encryption_key must be at least %d characters", adaptive.MinPassphraseLength))
	}
	if cfg.EncryptionSalt == "" {
		errs = append(errs, errors.New("security.encryption_salt is required with an encryption key"))
	}
	if _, err := adaptive.ParseCipherType(cfg.Cipher); err != nil {
		errs = append(errs, fmt.Errorf("security.cipher: %w", err))
	}
	return errors.Join(errs...)
}

func verifyTelemetry(cfg *TelemetrySection) error {
	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return errors.New("telemetry.metrics.path must start with /")
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	var errs []error
	if _, err := logger.ParseLevel(cfg.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", cfg.Format))
	}
	return errors.Join(errs...)
}
