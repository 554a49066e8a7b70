package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePublicID_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want int
	}{
		{"1234", 1234},
		{"10000", 10000},
		{"54321", 54321},
		{"999999", 999999},
		{"0001", 1},
	}

	for _, tt := range tests {
		got, err := ParsePublicID(tt.raw)
		require.NoError(t, err, "ParsePublicID(%q)", tt.raw)
		assert.Equal(t, tt.want, got)
	}
}

func TestParsePublicID_Invalid(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{
		"",
		"abc",
		"123",
		"1234567",
		"12a45",
		" 12345",
		"12345 ",
		"-1234",
		"12.34",
	} {
		_, err := ParsePublicID(raw)
		assert.ErrorIs(t, err, ErrInvalidFormat, "ParsePublicID(%q)", raw)
	}
}
