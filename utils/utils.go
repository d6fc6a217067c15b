package utils

import (
	"strings"
	"unicode"
)

// RedactSecret hides a credential for logging. Long bearer tokens keep a short
// prefix and suffix so they can still be told apart; anything else is masked.
func RedactSecret(secret string) string {
	if strings.HasPrefix(secret, "Bearer ") && len(secret) > 29 {
		return secret[:10] + "..." + secret[len(secret)-4:]
	}
	if len(secret) > 24 {
		return secret[:3] + "..." + secret[len(secret)-4:]
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return r
		}
		return '*'
	}, secret)
}
