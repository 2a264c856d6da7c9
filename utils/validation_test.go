package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("sam@example.com"))
	assert.True(t, ValidateEmail("  padded@example.co.uk "))
	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail("missing@tld"))
	assert.False(t, ValidateEmail(""))
}

func TestValidatePhone(t *testing.T) {
	assert.True(t, ValidatePhone("+15551234567"))
	assert.True(t, ValidatePhone("+44 20 7946 0958"))
	assert.True(t, ValidatePhone("(555) 123-4567"))
	assert.False(t, ValidatePhone("12345"))
	assert.False(t, ValidatePhone("+0123456789"))
	assert.False(t, ValidatePhone("abc"))
}

func TestParseDate(t *testing.T) {
	full, err := ParseDate("2026-03-15T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC), full)

	bare, err := ParseDate("2026-03-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), bare)

	_, err = ParseDate("15/03/2026")
	assert.Error(t, err)
}

func TestValidateClockTime(t *testing.T) {
	assert.True(t, ValidateClockTime("09:00"))
	assert.True(t, ValidateClockTime("23:59"))
	assert.False(t, ValidateClockTime("24:00"))
	assert.False(t, ValidateClockTime("9am"))
	assert.False(t, ValidateClockTime(""))
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-passw0rd")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-passw0rd", hash)

	assert.True(t, CheckPasswordHash("s3cret-passw0rd", hash))
	assert.False(t, CheckPasswordHash("wrong-password", hash))
}
