package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullableExpiry(t *testing.T) {
	// A provider that reports no expiry must end up with a NULL column, so
	// the token reads as stale and gets refreshed before first use.
	assert.Nil(t, nullableExpiry(time.Time{}))

	exp := time.Now().Add(time.Hour)
	got := nullableExpiry(exp)
	require.NotNil(t, got)
	assert.True(t, got.Equal(exp))
}
