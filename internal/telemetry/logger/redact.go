package logger

import (
	"log/slog"
	"strings"
)

// Key fragments whose values are fully redacted.
var sensitiveKeyPatterns = []string{
	"password",
	"passphrase",
	"secret",
	"encryption_key",
	"credential",
}

// Key fragments whose values are e-mail addresses.
var emailKeyPatterns = []string{
	"email",
	"mail",
}

const redactedValue = "***REDACTED***"

func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}

	if a.Value.Kind() != slog.KindString || a.Value.String() == "" {
		return a
	}

	key := strings.ToLower(a.Key)
	if matches(key, sensitiveKeyPatterns) {
		return slog.String(a.Key, redactedValue)
	}
	if matches(key, emailKeyPatterns) {
		return slog.String(a.Key, MaskEmail(a.Value.String()))
	}
	return a
}

func matches(key string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(key, p) {
			return true
		}
	}
	return false
}

// MaskEmail keeps the first character of the local part and the domain:
// "alice@example.com" becomes "a***@example.com". Values without an @ are
// fully masked.
func MaskEmail(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}

// IsSensitiveKey reports whether values logged under key are redacted.
func IsSensitiveKey(key string) bool {
	return matches(strings.ToLower(key), sensitiveKeyPatterns)
}
