package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktracker/internal/models"
)

type fakeSource struct {
	tasks []models.Task
	err   error
}

func (f fakeSource) Snapshot(context.Context) ([]models.Task, error) {
	return f.tasks, f.err
}

func ptr[T any](v T) *T { return &v }

func sampleTasks() []models.Task {
	return []models.Task{
		{ID: 1, Title: "a", Priority: 1, Status: models.StatusPending},
		{ID: 2, Title: "b", Priority: 3, Status: models.StatusCompleted},
		{ID: 3, Title: "c", Priority: 3, Status: models.StatusPending},
		{ID: 4, Title: "d", Priority: 5, Status: models.StatusInProgress},
		{ID: 5, Title: "e", Priority: 3, Status: models.StatusPending},
		{ID: 6, Title: "f", Priority: 1, Status: models.StatusCompleted},
		{ID: 7, Title: "g", Priority: 2, Status: models.StatusPending},
	}
}

func ids(tasks []models.Task) []int64 {
	out := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestList(t *testing.T) {
	e := New(fakeSource{tasks: sampleTasks()})

	tests := []struct {
		name   string
		filter Filter
		want   []int64
	}{
		{"no filters default limit", Filter{}, []int64{1, 2, 3, 4, 5, 6, 7}},
		{"status", Filter{Status: ptr(models.StatusPending), Limit: 10}, []int64{1, 3, 5, 7}},
		{"priority", Filter{Priority: ptr(3), Limit: 10}, []int64{2, 3, 5}},
		{"status and priority", Filter{Status: ptr(models.StatusPending), Priority: ptr(3), Limit: 10}, []int64{3, 5}},
		{"skip and limit", Filter{Skip: 2, Limit: 3}, []int64{3, 4, 5}},
		{"skip within filter", Filter{Status: ptr(models.StatusPending), Skip: 1, Limit: 2}, []int64{3, 5}},
		{"skip past matches", Filter{Skip: 50, Limit: 10}, []int64{}},
		{"no matches", Filter{Priority: ptr(4), Limit: 10}, []int64{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := e.List(context.Background(), tc.filter)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tc.want, ids(got))
		})
	}
}

func TestListPaginationConcatenates(t *testing.T) {
	e := New(fakeSource{tasks: sampleTasks()})
	ctx := context.Background()

	for n := 1; n <= 7; n++ {
		for m := 1; m <= 7; m++ {
			first, err := e.List(ctx, Filter{Skip: 0, Limit: n})
			require.NoError(t, err)
			second, err := e.List(ctx, Filter{Skip: n, Limit: m})
			require.NoError(t, err)
			whole, err := e.List(ctx, Filter{Skip: 0, Limit: n + m})
			require.NoError(t, err)

			assert.Equal(t, ids(whole), append(ids(first), ids(second)...), "n=%d m=%d", n, m)
		}
	}
}

func TestListClampsLimit(t *testing.T) {
	tasks := make([]models.Task, 150)
	for i := range tasks {
		tasks[i] = models.Task{ID: int64(i + 1), Priority: 1, Status: models.StatusPending}
	}
	e := New(fakeSource{tasks: tasks})

	got, err := e.List(context.Background(), Filter{Limit: 1000})
	require.NoError(t, err)
	assert.Len(t, got, MaxLimit)

	got, err = e.List(context.Background(), Filter{Skip: -5})
	require.NoError(t, err)
	assert.Len(t, got, DefaultLimit)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestByPriority(t *testing.T) {
	e := New(fakeSource{tasks: sampleTasks()})

	got, err := e.ByPriority(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3, 5}, ids(got))

	got, err = e.ByPriority(context.Background(), 4)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestByPriorityRejectsOutOfRange(t *testing.T) {
	e := New(fakeSource{tasks: sampleTasks()})

	for _, level := range []int{0, 6, -1} {
		_, err := e.ByPriority(context.Background(), level)
		var verr *models.ValidationError
		assert.True(t, errors.As(err, &verr), "level %d", level)
	}
}

func TestSummary(t *testing.T) {
	e := New(fakeSource{tasks: sampleTasks()})

	stats, err := e.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 7, stats.Total)
	assert.Equal(t, map[models.TaskStatus]int{
		models.StatusPending:    4,
		models.StatusInProgress: 1,
		models.StatusCompleted:  2,
	}, stats.ByStatus)
	assert.Equal(t, map[int]int{1: 2, 2: 1, 3: 3, 4: 0, 5: 1}, stats.ByPriority)

	statusSum, prioritySum := 0, 0
	for _, n := range stats.ByStatus {
		statusSum += n
	}
	for _, n := range stats.ByPriority {
		prioritySum += n
	}
	assert.Equal(t, stats.Total, statusSum)
	assert.Equal(t, stats.Total, prioritySum)
}

func TestSummaryEmpty(t *testing.T) {
	stats, err := New(fakeSource{}).Summary(context.Background())
	require.NoError(t, err)

	assert.Zero(t, stats.Total)
	assert.Len(t, stats.ByStatus, 3)
	assert.Len(t, stats.ByPriority, 5)
	for _, n := range stats.ByStatus {
		assert.Zero(t, n)
	}
}

func TestSourceErrorsPropagate(t *testing.T) {
	boom := errors.New("boom")
	e := New(fakeSource{err: boom})

	_, err := e.List(context.Background(), Filter{})
	assert.ErrorIs(t, err, boom)
	_, err = e.ByPriority(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
	_, err = e.Summary(context.Background())
	assert.ErrorIs(t, err, boom)
}
