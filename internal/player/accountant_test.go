package player

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tapcard/story-engine/internal/repositories/story"
	mock_story "github.com/tapcard/story-engine/internal/repositories/story/mocks"
	"github.com/tapcard/story-engine/pkg/logger"
	"go.uber.org/mock/gomock"
)

func TestAccountant_RecordIncrements(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_story.NewMockRepository(ctrl)

	done := make(chan string, 1)
	repo.EXPECT().
		IncrementViews(gomock.Any(), "story-1").
		DoAndReturn(func(_ context.Context, id string) error {
			done <- id
			return nil
		})

	acc, err := NewAccountant(repo, logger.NewNop())
	require.NoError(t, err)
	defer acc.Close()

	acc.Record("story-1")

	select {
	case id := <-done:
		require.Equal(t, "story-1", id)
	case <-time.After(time.Second):
		t.Fatal("increment was never fired")
	}
}

func TestAccountant_DeletedStoryIsSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_story.NewMockRepository(ctrl)

	done := make(chan struct{}, 1)
	repo.EXPECT().
		IncrementViews(gomock.Any(), "gone").
		DoAndReturn(func(context.Context, string) error {
			done <- struct{}{}
			return story.ErrNotFound
		})

	acc, err := NewAccountant(repo, logger.NewNop())
	require.NoError(t, err)
	defer acc.Close()

	// A story deleted mid-session is not an error worth surfacing.
	acc.Record("gone")

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("increment was never attempted")
	}
}

func TestAccountant_FailureIsSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_story.NewMockRepository(ctrl)

	done := make(chan struct{}, 1)
	repo.EXPECT().
		IncrementViews(gomock.Any(), "story-1").
		DoAndReturn(func(context.Context, string) error {
			done <- struct{}{}
			return errors.New("store is down")
		})

	acc, err := NewAccountant(repo, logger.NewNop())
	require.NoError(t, err)
	defer acc.Close()

	// Must not panic or block; accounting is advisory.
	acc.Record("story-1")

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("increment was never attempted")
	}
}
