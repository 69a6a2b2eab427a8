package config

import (
	"strings"

	"github.com/yndnr/corex-go/internal/telemetry/logger"
)

// Sanitize returns a copy of the config with sensitive fields masked.
func Sanitize(cfg *ServerConfig) *ServerConfig {
	sanitized := *cfg

	if sanitized.Security.EncryptionKey != "" {
		sanitized.Security.EncryptionKey = maskSecret(sanitized.Security.EncryptionKey)
	}
	if sanitized.Ledger.AuthorityEmail != "" {
		sanitized.Ledger.AuthorityEmail = logger.MaskEmail(sanitized.Ledger.AuthorityEmail)
	}

	return &sanitized
}

// maskSecret masks a secret value for safe logging.
func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
