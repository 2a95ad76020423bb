package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktracker/internal/models"
)

func TestClearCompletedIsAtomicForReaders(t *testing.T) {
	ctx := context.Background()
	s := New(nil)
	for i := 0; i < 200; i++ {
		status := models.StatusPending
		if i%2 == 0 {
			status = models.StatusCompleted
		}
		_, err := s.Create(ctx, models.NewTask{Title: "t", Status: &status})
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		removed, err := s.ClearCompleted(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 100, removed)
	}()

	// A reader sees either every completed task or none of them.
	for i := 0; i < 50; i++ {
		snap, err := s.Snapshot(ctx)
		require.NoError(t, err)
		completed := 0
		for _, task := range snap {
			if task.Status == models.StatusCompleted {
				completed++
			}
		}
		assert.Contains(t, []int{0, 100}, completed)
		assert.Len(t, snap, 100+completed)
	}
	wg.Wait()
}

func TestNewStartsAtOne(t *testing.T) {
	s := New(nil)
	task, err := s.Create(context.Background(), models.NewTask{Title: "first"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), task.ID)
	assert.NoError(t, s.Close())
}
