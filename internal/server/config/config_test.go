package config

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/yndnr/corex-go/internal/core/domain"
	"github.com/yndnr/corex-go/internal/storage"
	"github.com/yndnr/corex-go/pkg/account"
	"github.com/yndnr/corex-go/pkg/crypto/adaptive"
)

func testAuthority() account.ID {
	var id account.ID
	for i := range id {
		id[i] = 0x11
	}
	return id
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.HTTP.Address != DefaultHTTPAddr {
		t.Errorf("Address = %q, want %q", cfg.Server.HTTP.Address, DefaultHTTPAddr)
	}
	if cfg.Server.HTTP.CallerHeader != "X-Caller-ID" {
		t.Errorf("CallerHeader = %q", cfg.Server.HTTP.CallerHeader)
	}
	if cfg.Ledger.InitialSupply != "90000000000" || cfg.Ledger.AirdropMilestone != 5 {
		t.Errorf("Ledger = %+v", cfg.Ledger)
	}
	if cfg.Storage.Backend != storage.BackendFile {
		t.Errorf("Backend = %q", cfg.Storage.Backend)
	}
	if err := Verify(cfg); err != nil {
		t.Errorf("Verify(Default()) error = %v", err)
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr string
	}{
		{"bad address", func(c *ServerConfig) { c.Server.HTTP.Address = "nohost" }, "server.http.address"},
		{"zero rps", func(c *ServerConfig) { c.Server.RateLimit.RequestsPerSecond = 0 }, "requests_per_second"},
		{"bad authority", func(c *ServerConfig) { c.Ledger.MintingAuthority = "not-base58-0OIl" }, "ledger.minting_authority"},
		{"reserved authority", func(c *ServerConfig) { c.Ledger.MintingAuthority = account.Anonymous.String() }, "reserved"},
		{"bad supply", func(c *ServerConfig) { c.Ledger.InitialSupply = "-5" }, "ledger.initial_supply"},
		{"zero milestone", func(c *ServerConfig) { c.Ledger.AirdropMilestone = 0 }, "airdrop_milestone"},
		{"unknown backend", func(c *ServerConfig) { c.Storage.Backend = "tape" }, "storage.backend"},
		{"missing data dir", func(c *ServerConfig) { c.Storage.DataDir = "" }, "storage.data_dir"},
		{"short key", func(c *ServerConfig) { c.Security.EncryptionKey = "short" }, "encryption_key"},
		{"bad cipher", func(c *ServerConfig) {
			c.Security.EncryptionKey = "long enough passphrase"
			c.Security.Cipher = "rot13"
		}, "security.cipher"},
		{"metrics path", func(c *ServerConfig) { c.Telemetry.Metrics.Path = "metrics" }, "telemetry.metrics.path"},
		{"log level", func(c *ServerConfig) { c.Log.Level = "loud" }, "log.level"},
		{"log format", func(c *ServerConfig) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Verify(cfg)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Verify() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestVerify_MemoryWithoutDataDir(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = storage.BackendMemory
	cfg.Storage.DataDir = ""
	if err := Verify(cfg); err != nil {
		t.Errorf("Verify() error = %v", err)
	}
}

func TestSanitize(t *testing.T) {
	cfg := Default()
	cfg.Security.EncryptionKey = "super-secret-key-1234567890"
	cfg.Ledger.AuthorityEmail = "admin@corex.example"

	s := Sanitize(cfg)

	if cfg.Security.EncryptionKey != "super-secret-key-1234567890" {
		t.Error("Sanitize() modified the original")
	}
	if s.Security.EncryptionKey == cfg.Security.EncryptionKey || strings.Contains(s.Security.EncryptionKey, "secret") {
		t.Errorf("EncryptionKey not masked: %q", s.Security.EncryptionKey)
	}
	if s.Ledger.AuthorityEmail == cfg.Ledger.AuthorityEmail {
		t.Error("AuthorityEmail not masked")
	}
	if maskSecret("abc") != "****" {
		t.Errorf("maskSecret(short) = %q", maskSecret("abc"))
	}
}

func TestCipher(t *testing.T) {
	cfg := Default()
	c, err := cfg.Cipher()
	if err != nil || c != nil {
		t.Fatalf("Cipher() without key = %v, %v", c, err)
	}

	cfg.Security.EncryptionKey = "correct horse battery"
	cfg.Security.Cipher = string(adaptive.CipherChaCha20)
	c1, err := cfg.Cipher()
	if err != nil {
		t.Fatalf("Cipher() error = %v", err)
	}
	if c1.Type() != adaptive.CipherChaCha20 {
		t.Errorf("Type() = %s", c1.Type())
	}

	// Same passphrase and salt decrypt each other's output.
	c2, err := cfg.Cipher()
	if err != nil {
		t.Fatalf("Cipher() error = %v", err)
	}
	sealed, err := c1.Encrypt([]byte("ledger"), nil)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	plain, err := c2.Decrypt(sealed, nil)
	if err != nil || !bytes.Equal(plain, []byte("ledger")) {
		t.Errorf("Decrypt() = %q, %v", plain, err)
	}

	cfg.Security.EncryptionKey = "short"
	if _, err := cfg.Cipher(); !errors.Is(err, adaptive.ErrPassphraseTooShort) {
		t.Errorf("Cipher() short key error = %v", err)
	}
}

func TestGenesis(t *testing.T) {
	cfg := Default()
	if _, ok, err := cfg.Genesis(); ok || err != nil {
		t.Fatalf("Genesis() without authority = %v, %v", ok, err)
	}

	auth := testAuthority()
	cfg.Ledger.MintingAuthority = auth.String()
	cfg.Ledger.InitialSupply = "1000"
	cfg.Ledger.AuthorityEmail = "admin@corex.example"

	g, ok, err := cfg.Genesis()
	if err != nil || !ok {
		t.Fatalf("Genesis() = %v, %v", ok, err)
	}
	if g.Authority != auth || g.InitialSupply != domain.NewAmount(1000) || g.AirdropMilestone != 5 {
		t.Errorf("Genesis() = %+v", g)
	}
	if g.Profile.Name != "Admin" || g.Profile.Email != "admin@corex.example" {
		t.Errorf("Profile = %+v", g.Profile)
	}
}

func TestStorageConfig(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = storage.BackendBadger
	cfg.Storage.DataDir = "/var/lib/corex"
	cfg.Storage.File.RetentionCount = 9

	sc := cfg.StorageConfig(nil, nil, nil)
	if sc.Backend != storage.BackendBadger || sc.DataDir != "/var/lib/corex" {
		t.Errorf("StorageConfig() = %+v", sc)
	}
	if sc.Snapshot.RetentionCount != 9 || sc.Badger.GCInterval != "10m0s" || !sc.Badger.SyncWrites {
		t.Errorf("StorageConfig() sub-configs = %+v / %+v", sc.Snapshot, sc.Badger)
	}
}
