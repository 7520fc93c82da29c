// Package phone canonicalizes raw phone input into one dialable format.
// The system serves a single national market, so every number ends up
// under the configured default country prefix.
package phone

import (
	"strings"

	"github.com/Dibyajyoti630/RedZone/pkg/e"
)

// Normalize returns the canonical form of raw under defaultPrefix
// (e.g. "+91"). Numbers that already carry a country code get it replaced
// with the default one; bare numbers lose their leading zeros and gain the
// default prefix. Pure function, no lookups.
func Normalize(raw, defaultPrefix string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", e.ErrInvalidPhone
	}

	codeLen := len(strings.TrimPrefix(defaultPrefix, "+"))

	if strings.HasPrefix(raw, "+") {
		rest := raw[1:]
		if !isDigits(rest) || len(rest) <= codeLen {
			return "", e.ErrInvalidPhone
		}
		// Single-market rule: whatever country code came in, it has the
		// same width as the default one and gets swapped out.
		return defaultPrefix + rest[codeLen:], nil
	}

	if !isDigits(raw) {
		return "", e.ErrInvalidPhone
	}

	trimmed := strings.TrimLeft(raw, "0")
	if trimmed == "" {
		return "", e.ErrInvalidPhone
	}
	return defaultPrefix + trimmed, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
