package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tapcard/story-engine/internal/domain"
)

func TestDuration(t *testing.T) {
	require.Equal(t, 15*time.Second, Duration(domain.TypeVideo))
	require.Equal(t, 5*time.Second, Duration(domain.TypeImage))
	require.Equal(t, 5*time.Second, Duration(domain.TypeText))

	// Unknown types still get a finite duration so the sequence never
	// freezes on a bad row.
	require.Equal(t, 5*time.Second, Duration(domain.ContentType("gif")))
}
