package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenExpiresWithin(t *testing.T) {
	buffer := 5 * time.Minute

	t.Run("nil expiry counts as expired", func(t *testing.T) {
		pa := &ProviderAccount{}
		assert.True(t, pa.TokenExpiresWithin(buffer))
	})

	t.Run("expiry inside buffer counts as expired", func(t *testing.T) {
		exp := time.Now().Add(2 * time.Minute)
		pa := &ProviderAccount{ExpiresAt: &exp}
		assert.True(t, pa.TokenExpiresWithin(buffer))
	})

	t.Run("expiry past buffer is fresh", func(t *testing.T) {
		exp := time.Now().Add(time.Hour)
		pa := &ProviderAccount{ExpiresAt: &exp}
		assert.False(t, pa.TokenExpiresWithin(buffer))
	})

	t.Run("expiry in the past counts as expired", func(t *testing.T) {
		exp := time.Now().Add(-time.Minute)
		pa := &ProviderAccount{ExpiresAt: &exp}
		assert.True(t, pa.TokenExpiresWithin(buffer))
	})
}

func TestProviderAccountTokensNeverSerialized(t *testing.T) {
	pa := &ProviderAccount{
		ID:           1,
		UserID:       2,
		Provider:     "azureadv2",
		AccessToken:  "secret-access",
		RefreshToken: "secret-refresh",
	}

	data, err := json.Marshal(pa)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret-access")
	assert.NotContains(t, string(data), "secret-refresh")
}
