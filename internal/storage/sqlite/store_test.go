package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktracker/internal/models"
)

func TestOpenIsolatesUnnamedDatabases(t *testing.T) {
	ctx := context.Background()

	a, err := Open("", nil)
	require.NoError(t, err)
	defer a.Close()
	b, err := Open("", nil)
	require.NoError(t, err)
	defer b.Close()

	_, err = a.Create(ctx, models.NewTask{Title: "only in a"})
	require.NoError(t, err)

	tasks, err := b.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestSchemaRejectsOutOfDomainRows(t *testing.T) {
	s, err := Open("", nil)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.db.Exec(`INSERT INTO tasks(title, priority, status, created_at, updated_at) VALUES('bad', 9, 'pending', 0, 0)`)
	assert.Error(t, err)

	_, err = s.db.Exec(`INSERT INTO tasks(title, priority, status, created_at, updated_at) VALUES('bad', 1, 'archived', 0, 0)`)
	assert.Error(t, err)
}

func TestNullDescriptionRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := Open("", nil)
	require.NoError(t, err)
	defer s.Close()

	empty := ""
	withEmpty, err := s.Create(ctx, models.NewTask{Title: "empty", Description: &empty})
	require.NoError(t, err)
	withNull, err := s.Create(ctx, models.NewTask{Title: "null"})
	require.NoError(t, err)

	got, err := s.Get(ctx, withEmpty.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Description)
	assert.Equal(t, "", *got.Description)

	got, err = s.Get(ctx, withNull.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Description)
}
