package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSharedDeckExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	share := SharedDeck{ExpiryDate: now.Add(time.Hour)}

	assert.False(t, share.Expired(now))
	assert.False(t, share.Expired(now.Add(time.Hour))) // boundary is inclusive
	assert.True(t, share.Expired(now.Add(2*time.Hour)))
}
