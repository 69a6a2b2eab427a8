package config

import (
	"fmt"
	"log/slog"

	"github.com/yndnr/corex-go/internal/core/domain"
	"github.com/yndnr/corex-go/internal/core/service"
	"github.com/yndnr/corex-go/internal/storage"
	"github.com/yndnr/corex-go/internal/telemetry/logger"
	"github.com/yndnr/corex-go/internal/telemetry/metric"
	"github.com/yndnr/corex-go/pkg/account"
	"github.com/yndnr/corex-go/pkg/crypto/adaptive"
)

// stateKeyPurpose separates the state encryption key from other keys
// derived from the same passphrase.
const stateKeyPurpose = "corex/state-blob/v1"

// LoggerConfig returns the logger configuration.
func (c *ServerConfig) LoggerConfig() logger.Config {
	lc := logger.DefaultConfig()
	lc.Level = c.Log.Level
	lc.Format = c.Log.Format
	return lc
}

// Cipher derives the state encryption cipher. It returns nil when no
// encryption key is configured.
func (c *ServerConfig) Cipher() (adaptive.Cipher, error) {
	sec := c.Security
	if sec.EncryptionKey == "" {
		return nil, nil
	}

	typ, err := adaptive.ParseCipherType(sec.Cipher)
	if err != nil {
		return nil, err
	}
	master, err := adaptive.DeriveKey([]byte(sec.EncryptionKey), []byte(sec.EncryptionSalt))
	if err != nil {
		return nil, err
	}
	defer adaptive.Zero(master)

	key, err := adaptive.DeriveSubkey(master, stateKeyPurpose)
	if err != nil {
		return nil, err
	}
	defer adaptive.Zero(key)

	return adaptive.NewWithType(key, typ)
}

// StorageConfig returns the state store configuration.
func (c *ServerConfig) StorageConfig(cipher adaptive.Cipher, log *slog.Logger, metrics *metric.Registry) storage.Config {
	sc := storage.DefaultConfig(c.Storage.DataDir)
	sc.Backend = c.Storage.Backend
	sc.Snapshot.RetentionCount = c.Storage.File.RetentionCount
	sc.Badger.SyncWrites = c.Storage.Badger.SyncWrites
	sc.Badger.GCInterval = c.Storage.Badger.GCInterval.String()
	sc.Badger.GCDiscardRatio = c.Storage.Badger.GCDiscardRatio
	sc.SQLite.BusyTimeout = c.Storage.SQLite.BusyTimeout
	sc.Cipher = cipher
	sc.Logger = log
	sc.Metrics = metrics
	return sc
}

// ServiceConfig returns the ledger service configuration.
func (c *ServerConfig) ServiceConfig(log *slog.Logger, metrics *metric.Registry) *service.LedgerServiceConfig {
	sc := service.DefaultLedgerServiceConfig()
	sc.StrictAuthority = c.Ledger.StrictAuthority
	sc.Logger = log
	sc.Metrics = metrics
	return sc
}

// Genesis returns the genesis seed. ok is false when no minting authority
// is configured.
func (c *ServerConfig) Genesis() (g service.Genesis, ok bool, err error) {
	if c.Ledger.MintingAuthority == "" {
		return service.Genesis{}, false, nil
	}

	authority, err := account.Parse(c.Ledger.MintingAuthority)
	if err != nil {
		return service.Genesis{}, false, fmt.Errorf("ledger.minting_authority: %w", err)
	}
	supply, err := domain.ParseAmount(c.Ledger.InitialSupply)
	if err != nil {
		return service.Genesis{}, false, fmt.Errorf("ledger.initial_supply: %w", err)
	}

	g = service.DefaultGenesis(authority)
	g.InitialSupply = supply
	g.AirdropMilestone = c.Ledger.AirdropMilestone
	g.Profile = domain.Profile{
		Name:  c.Ledger.AuthorityName,
		Email: c.Ledger.AuthorityEmail,
	}
	return g, true, nil
}
