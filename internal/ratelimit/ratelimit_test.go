package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInMemoryLimiter_BurstThenDeny(t *testing.T) {
	l := NewInMemoryLimiter(1, time.Minute, 3)

	for i := 0; i < 3; i++ {
		require.True(t, l.Allow("10.0.0.1"), "burst request %d should pass", i)
	}
	require.False(t, l.Allow("10.0.0.1"), "burst exhausted")

	// Other viewers have their own bucket.
	require.True(t, l.Allow("10.0.0.2"))
}
