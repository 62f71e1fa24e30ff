package temporal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWorkerOptionsDefaults verifies namespace and concurrency defaulting.
func TestWorkerOptionsDefaults(t *testing.T) {
	opts, err := WorkerOptions{TaskQueue: "cloudy-intel"}.withDefaults()
	require.NoError(t, err)
	assert.Equal(t, "cloudy-intel", opts.TaskQueue)
	assert.Equal(t, "default", opts.Namespace)
	assert.Equal(t, 10, opts.MaxConcurrent)
}

// TestWorkerOptionsKeepExplicitValues verifies explicit settings survive.
func TestWorkerOptionsKeepExplicitValues(t *testing.T) {
	opts, err := WorkerOptions{
		HostPort:      "temporal.internal:7233",
		TaskQueue:     "cloudy-intel",
		Namespace:     "production",
		MaxConcurrent: 25,
	}.withDefaults()
	require.NoError(t, err)
	assert.Equal(t, "temporal.internal:7233", opts.HostPort)
	assert.Equal(t, "production", opts.Namespace)
	assert.Equal(t, 25, opts.MaxConcurrent)
}

// TestNewTemporalWorker_MissingTaskQueue verifies validation for missing task queue.
func TestNewTemporalWorker_MissingTaskQueue(t *testing.T) {
	worker, err := NewTemporalWorker(context.Background(), WorkerOptions{
		Namespace: "default",
	})
	assert.Error(t, err)
	assert.Nil(t, worker)
	assert.Contains(t, err.Error(), "task_queue")
}
