package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	// Standard timestamp with nanosecond precision
	createdAt := time.Date(2026, 8, 15, 10, 30, 45, 123456789, time.UTC)
	id := "9f4c2c1e-0b91-4a7e-8a2f-3d6a2b1c5e77"

	token := EncodeToken(createdAt, id)
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedAt, decodedID, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.True(t, createdAt.Equal(decodedAt), "Created at time should match after decode")
	assert.Equal(t, id, decodedID, "ID should match after decode")

	// Zero time still round-trips
	zeroToken := EncodeToken(time.Time{}, "some-id")
	decodedZero, _, err := DecodeToken(zeroToken)
	assert.NoError(t, err, "Decoding zero time should not return an error")
	assert.Equal(t, time.Time{}, decodedZero, "Zero time should match after decode")
}

func TestDecodeTokenError(t *testing.T) {
	// Invalid base64
	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode", "Error should mention base64 decoding")

	// Missing separator
	noSeparator := base64.StdEncoding.EncodeToString([]byte("2026-08-15T10:30:45Z"))
	_, _, err = DecodeToken(noSeparator)
	assert.Error(t, err, "Should return an error for invalid token format")
	assert.Contains(t, err.Error(), "split", "Error should mention splitting issue")

	// Invalid timestamp
	badTimestamp := base64.StdEncoding.EncodeToString([]byte("notadate|some-id"))
	_, _, err = DecodeToken(badTimestamp)
	assert.Error(t, err, "Should return an error for invalid timestamp format")
	assert.Contains(t, err.Error(), "created_at parse", "Error should mention timestamp parsing issue")
}
