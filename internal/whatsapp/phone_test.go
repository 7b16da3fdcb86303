package whatsapp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"formatted mobile", "(11) 98765-4321", "5511987654321"},
		{"mobile missing ninth digit", "11 8765-4321", "5511987654321"},
		{"international with plus", "+55 (11) 98765-4321", "5511987654321"},
		{"international missing ninth digit", "+55 21 8765 4321", "5521987654321"},
		{"already canonical", "5511987654321", "5511987654321"},
		{"landline", "(11) 3456-7890", "551134567890"},
		{"canonical landline", "551134567890", "551134567890"},
		{"trunk prefix", "0 11 98765-4321", "5511987654321"},
		{"trunk prefix landline", "011 3456-7890", "551134567890"},
		{"carrier code", "0 15 11 98765-4321", "5511987654321"},
		{"carrier code short mobile", "0xx15 11 8765-4321", "5511987654321"},
		{"international access prefix", "00 55 11 98765 4321", "5511987654321"},
		{"area code 55 national", "(55) 99123-4567", "5555991234567"},
		{"dots and slashes", "11.98765.4321/", "5511987654321"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_Errors(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		reason string
	}{
		{"empty", "", ReasonEmpty},
		{"no digits", "n/a", ReasonEmpty},
		{"too short", "123", ReasonLength},
		{"too long", "55 11 98765-4321 99", ReasonLength},
		{"foreign country", "+1 415 555 2671 0", ReasonCountry},
		{"unassigned area code", "(20) 98765-4321", ReasonAreaCode},
		{"area code with zero", "(10) 98765-4321", ReasonAreaCode},
		{"nine digits not mobile", "(11) 88765-4321", ReasonSubscriber},
		{"eight digits starting with one", "11 1765-4321", ReasonSubscriber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw)
			assert.Empty(t, got)

			var nerr *NormalizationError
			require.True(t, errors.As(err, &nerr), "got %v", err)
			assert.Equal(t, tt.reason, nerr.Reason)
			assert.Equal(t, tt.raw, nerr.Input)
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"(11) 98765-4321",
		"11 8765-4321",
		"+55 21 3456 7890",
		"0 41 99999-0000",
		"00 55 85 8888 7777",
		"(55) 99123-4567",
	}
	for _, raw := range inputs {
		once, err := Normalize(raw)
		require.NoError(t, err, raw)

		twice, err := Normalize(once)
		require.NoError(t, err, raw)
		assert.Equal(t, once, twice, raw)
		assert.True(t, IsCanonical(once), raw)
	}
}

func TestIsCanonical(t *testing.T) {
	assert.True(t, IsCanonical("5511987654321"))
	assert.True(t, IsCanonical("551134567890"))
	assert.False(t, IsCanonical(""))
	assert.False(t, IsCanonical("+5511987654321"))
	assert.False(t, IsCanonical("11987654321"))
	assert.False(t, IsCanonical("551187654321"), "mobile missing its ninth digit")
}
