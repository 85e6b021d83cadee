package logger

import (
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestMaskSensitiveString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"short value fully masked", "abc", "***"},
		{"api key", "sk-or-v1-abcdefghijklmnop", "sk-...nop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskSensitiveString(tt.input, 3, 3))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "abc", Truncate("abc", 600))
	assert.Equal(t, "abc", Truncate("abc", -1))
	assert.Equal(t, "", Truncate("abc", 0))
}

func TestTruncate_RuneBoundaries(t *testing.T) {
	assert.Equal(t, "héé", Truncate("héééllo", 3))
	assert.Equal(t, "日本", Truncate("日本語", 2))
	assert.Equal(t, "日本語", Truncate("日本語", 3))

	out := Truncate(strings.Repeat("€", 700), 600)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, 600, utf8.RuneCountInString(out))
}

func TestFilterSensitiveHeaders(t *testing.T) {
	headers := http.Header{}
	headers.Set("Authorization", "Bearer secret")
	headers.Set("X-Api-Key", "k")
	headers.Set("Content-Type", "application/json")

	filtered := filterSensitiveHeaders(headers)

	assert.Equal(t, "[REDACTED]", filtered["Authorization"])
	assert.Equal(t, "[REDACTED]", filtered["X-Api-Key"])
	assert.Equal(t, "application/json", filtered["Content-Type"])
}
