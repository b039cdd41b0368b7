// Package async runs non-blocking writes. The request that triggers a write
// returns immediately; the write's completion or failure stays observable
// through the returned Task and its callbacks.
package async

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/anonto42/petconnect/backend/internal/metrics"
)

// ErrClosed is reported by tasks submitted after Close
var ErrClosed = errors.New("async writer closed")

// WriteFunc performs one write against a store
type WriteFunc func(ctx context.Context) error

// Task is the handle of a submitted write
type Task struct {
	name string
	done chan struct{}
	err  error
}

// Name returns the task label used in logs and metrics
func (t *Task) Name() string {
	return t.name
}

// Done is closed once the write finished and its callbacks ran
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Err returns the write error. Only meaningful after Done is closed.
func (t *Task) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Wait blocks until the task finishes or ctx ends
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

type taskOptions struct {
	onSuccess func()
	onFailure func(error)
}

// Option customizes a submitted task
type Option func(*taskOptions)

// OnSuccess runs fn after the write succeeded
func OnSuccess(fn func()) Option {
	return func(o *taskOptions) { o.onSuccess = fn }
}

// OnFailure runs fn after the write failed. Use it to roll back an
// optimistic change made before Submit.
func OnFailure(fn func(error)) Option {
	return func(o *taskOptions) { o.onFailure = fn }
}

// Writer dispatches writes on their own goroutines
type Writer struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
	timeout time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewWriter creates a Writer. Each write gets at most timeout to finish.
func NewWriter(logger *zap.Logger, m *metrics.Metrics, timeout time.Duration) *Writer {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Writer{logger: logger, metrics: m, timeout: timeout}
}

// Submit starts write without waiting for it. ctx only contributes its values:
// the write keeps running after the originating request is cancelled.
func (w *Writer) Submit(ctx context.Context, name string, write WriteFunc, opts ...Option) *Task {
	var o taskOptions
	for _, opt := range opts {
		opt(&o)
	}
	task := &Task{name: name, done: make(chan struct{})}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.finish(task, &o, ErrClosed)
		return task
	}
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()

		wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.timeout)
		defer cancel()

		w.finish(task, &o, runWrite(wctx, write))
	}()
	return task
}

func runWrite(ctx context.Context, write WriteFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("async write panicked")
		}
	}()
	return write(ctx)
}

func (w *Writer) finish(task *Task, o *taskOptions, err error) {
	task.err = err
	if err != nil {
		w.logger.Error("Non-blocking write failed", zap.String("task", task.name), zap.Error(err))
		w.metrics.IncAsyncWrite(task.name, "failure")
		if o.onFailure != nil {
			o.onFailure(err)
		}
	} else {
		w.metrics.IncAsyncWrite(task.name, "success")
		if o.onSuccess != nil {
			o.onSuccess()
		}
	}
	close(task.done)
}

// Close stops accepting tasks and waits for in-flight ones until ctx ends
func (w *Writer) Close(ctx context.Context) error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
