package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/pageza/recipefinder/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLimiter(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	l := NewRedisLimiter(client, RateLimitConfig{Window: time.Hour, Limit: 2, KeyPrefix: "test"})
	ctx := context.Background()

	first, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, first.Allowed)
	assert.Equal(t, 1, first.Remaining)

	second, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, second.Allowed)
	assert.Equal(t, 0, second.Remaining)

	third, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, third.Allowed)
	assert.True(t, third.Reset.After(time.Now()))
}
