// Package shutdownqueue runs cleanup tasks in LIFO order at the end of
// main.
//
// Register tasks as resources come up and drain them once on the way
// down:
//
//	q := shutdownqueue.New()
//	q.Add(func(ctx context.Context) error { return srv.Shutdown(ctx) })
//	...
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//	_ = q.Shutdown(ctx)
//
// A package-level default queue is provided for binaries that only need
// one. Tasks run once, panics are recovered, and Shutdown aggregates
// errors with errors.Join.
package shutdownqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Task is a shutdown function. It should honor ctx and return an error
// if it cannot finish.
type Task func(ctx context.Context) error

// Queue collects shutdown tasks. The zero value is ready to use.
type Queue struct {
	mu     sync.Mutex
	tasks  []Task
	closed bool
}

func New() *Queue {
	return &Queue{}
}

// Add registers a task to run on Shutdown, LIFO. Nil tasks and tasks
// added after shutdown has started are dropped.
func (q *Queue) Add(t Task) {
	if t == nil {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.tasks = append(q.tasks, t)
}

// Shutdown drains the queue in LIFO order. It is idempotent: after the
// first run, subsequent calls are no-ops. If ctx ends mid-drain,
// Shutdown stops early and the returned error includes the context
// error alongside any task errors.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.mu.Lock()

	tasks := q.tasks
	q.tasks = nil
	q.closed = true

	q.mu.Unlock()

	var errs []error

	for i := len(tasks) - 1; i >= 0; i-- {
		select {
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("shutdown canceled: %w", ctx.Err()))

			return errors.Join(errs...)
		default:
		}

		err := runTask(ctx, tasks[i])
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// runTask isolates the panic recovery so one bad task cannot stop the
// drain.
func runTask(ctx context.Context, t Task) (err error) {
	defer func() {
		r := recover()
		if r != nil {
			err = fmt.Errorf("panic in shutdown task: %v", r)
		}
	}()

	return t(ctx)
}

var defaultQueue = New()

// Add registers a task on the package default queue.
func Add(t Task) {
	defaultQueue.Add(t)
}

// Shutdown drains the package default queue.
func Shutdown(ctx context.Context) error {
	return defaultQueue.Shutdown(ctx)
}
