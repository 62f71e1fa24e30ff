package temporal

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
)

// WorkerOptions contains configuration for TemporalWorker.
type WorkerOptions struct {
	// HostPort is the Temporal frontend address (default: client default).
	HostPort string
	// TaskQueue is the task queue name for this worker.
	TaskQueue string
	// Namespace is the Temporal namespace (default: "default").
	Namespace string
	// MaxConcurrent is max concurrent activity/workflow pollers (default: 10).
	MaxConcurrent int
}

// TemporalWorker manages Temporal client and worker lifecycle.
type TemporalWorker struct {
	client  client.Client
	worker  worker.Worker
	opts    WorkerOptions
	started bool
	mu      sync.RWMutex
}

// withDefaults validates the options and fills in defaults.
func (o WorkerOptions) withDefaults() (WorkerOptions, error) {
	if o.TaskQueue == "" {
		return o, errors.New("task_queue is required")
	}
	if o.Namespace == "" {
		o.Namespace = "default"
	}
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = 10
	}
	return o, nil
}

// NewTemporalWorker creates and initializes a new TemporalWorker.
func NewTemporalWorker(ctx context.Context, opts WorkerOptions) (*TemporalWorker, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	c, err := client.Dial(client.Options{
		HostPort:  opts.HostPort,
		Namespace: opts.Namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create temporal client: %w", err)
	}

	w := worker.New(c, opts.TaskQueue, worker.Options{
		MaxConcurrentActivityTaskPollers: opts.MaxConcurrent,
		MaxConcurrentWorkflowTaskPollers: opts.MaxConcurrent,
	})

	return &TemporalWorker{
		client:  c,
		worker:  w,
		opts:    opts,
		started: false,
	}, nil
}

// RegisterPipeline registers the design workflow and its activities.
func (w *TemporalWorker) RegisterPipeline(acts *Activities) {
	w.RegisterWorkflow(DesignWorkflow)
	w.RegisterActivity(acts)
}

// Start begins the worker's execution loop.
// Idempotent: calling Start multiple times is safe.
func (w *TemporalWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return nil
	}
	if w.worker == nil {
		return errors.New("worker not initialized")
	}

	if err := w.worker.Start(); err != nil {
		return fmt.Errorf("failed to start worker: %w", err)
	}

	w.started = true
	return nil
}

// Stop gracefully shuts down the worker.
// Idempotent: calling Stop multiple times is safe.
func (w *TemporalWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return nil
	}

	w.worker.Stop()
	w.started = false

	return nil
}

// RegisterActivity registers an activity struct or function with the worker.
func (w *TemporalWorker) RegisterActivity(activity interface{}) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.worker != nil {
		w.worker.RegisterActivity(activity)
	}
}

// RegisterWorkflow registers a workflow function with the worker.
func (w *TemporalWorker) RegisterWorkflow(workflow interface{}) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.worker != nil {
		w.worker.RegisterWorkflow(workflow)
	}
}

// Close closes the Temporal client connection.
func (w *TemporalWorker) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		w.worker.Stop()
		w.started = false
	}
	if w.client != nil {
		w.client.Close()
	}

	return nil
}
