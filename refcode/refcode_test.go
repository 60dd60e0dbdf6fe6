package refcode

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateDeterminism(t *testing.T) {
	a := Generate("0xAbC123", "secret", 12)
	b := Generate("0xAbC123", "secret", 12)
	assert.Equal(t, a, b)
}

func TestGenerateNormalizesAddress(t *testing.T) {
	lower := Generate("0xabc123def", "secret", 12)

	assert.Equal(t, lower, Generate("0xABC123DEF", "secret", 12))
	assert.Equal(t, lower, Generate("  0xabc123def  ", "secret", 12))
}

func TestGenerateWidthAndCharset(t *testing.T) {
	code := Generate("0xabc123", "secret", 12)
	assert.Len(t, code, 12)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-z]+$`), code)
}

func TestGenerateDependsOnInputs(t *testing.T) {
	base := Generate("0xabc123", "secret", 12)

	assert.NotEqual(t, base, Generate("0xabc124", "secret", 12))
	assert.NotEqual(t, base, Generate("0xabc123", "other-secret", 12))
}

func TestGenerateKeepsLowOrderDigits(t *testing.T) {
	// Shorter widths must be suffixes of longer ones: truncation takes the
	// left side off, padding adds to the left.
	long := Generate("0xabc123", "secret", 20)
	short := Generate("0xabc123", "secret", 5)

	assert.Len(t, long, 20)
	assert.Len(t, short, 5)
	assert.True(t, strings.HasSuffix(long, short))
}

func TestGenerateDefaultsLength(t *testing.T) {
	assert.Len(t, Generate("0xabc123", "secret", 0), DefaultLength)
	assert.Len(t, Generate("0xabc123", "secret", -3), DefaultLength)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("abc"))
	assert.True(t, Valid("a1B-_2"))
	assert.True(t, Valid(strings.Repeat("x", 64)))

	assert.False(t, Valid(""))
	assert.False(t, Valid("ab"))
	assert.False(t, Valid(strings.Repeat("x", 65)))
	assert.False(t, Valid("has space"))
	assert.False(t, Valid("semi;colon"))
	assert.False(t, Valid("percent%20"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "0xabc", Normalize("  0xABC "))
	assert.Equal(t, "", Normalize("   "))
}
