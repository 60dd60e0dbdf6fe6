// refcode derives deterministic, non-enumerable referral codes from wallet
// addresses. Codes are a fixed-width base-36 rendering of the first 80 bits
// of sha256(address + ":" + secret); the same address and secret always give
// the same code, so generation needs no storage round-trip.
package refcode

import (
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"regexp"
	"strings"
)

// DefaultLength is the code width handed out by the directory.
const DefaultLength = 12

// hexPrefixLen is 80 bits of digest; changing it changes every issued code.
const hexPrefixLen = 20

var codePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,64}$`)

// Normalize lowercases and trims a wallet address. Every address that
// touches the referral tables goes through here first.
func Normalize(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// Valid reports whether a string is shaped like a referral code:
// 3-64 chars, alphanumeric plus '-' and '_'.
func Valid(code string) bool {
	return codePattern.MatchString(code)
}

// Generate computes the referral code for an address. Pure function, no I/O.
//
// The base-36 rendering keeps its low-order digits when it exceeds length
// (the slice comes off the left). Existing codes in the wild were issued
// with exactly this slicing, so it must not change.
func Generate(address, secret string, length int) string {
	if length <= 0 {
		length = DefaultLength
	}

	sum := sha256.Sum256([]byte(Normalize(address) + ":" + secret))
	prefix := hex.EncodeToString(sum[:])[:hexPrefixLen]

	n := new(big.Int)
	n.SetString(prefix, 16)
	code := n.Text(36)

	if len(code) >= length {
		return code[len(code)-length:]
	}
	return strings.Repeat("0", length-len(code)) + code
}
