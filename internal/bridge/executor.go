// Package bridge runs asynchronous tracker operations on behalf of
// synchronous callers. The Executor owns a bounded pool of workers; Run
// submits an operation and blocks until it completes, handing back the
// operation's exact result and error.
package bridge

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"youtrack-mcp/internal/logging"
)

// ErrClosed is returned by Run when the executor has been closed.
var ErrClosed = errors.New("executor is closed")

type ctxKey struct{}

// taskCtxKey marks contexts that are already executing on an Executor worker.
var taskCtxKey = ctxKey{}

type task struct {
	ctx  context.Context
	fn   func(context.Context)
	done chan struct{}
}

// Executor is a bounded task-running facility. It is safe for concurrent use;
// Run and Close may race freely, late submissions fail with ErrClosed.
type Executor struct {
	tasks     chan *task
	shutdown  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func NewExecutor(workers int) *Executor {
	if workers < 1 {
		workers = 1
	}
	e := &Executor{
		tasks:    make(chan *task),
		shutdown: make(chan struct{}),
	}
	e.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go e.worker()
	}
	return e
}

func (e *Executor) worker() {
	defer e.wg.Done()
	for {
		select {
		case t := <-e.tasks:
			t.fn(context.WithValue(t.ctx, taskCtxKey, true))
			close(t.done)
		case <-e.shutdown:
			return
		}
	}
}

// Close stops the workers after in-flight tasks finish. The task channel is
// never closed: submitters may still be racing a send, and a send into a
// closed channel panics where ErrClosed should be returned instead.
func (e *Executor) Close() {
	e.closeOnce.Do(func() {
		close(e.shutdown)
	})
	e.wg.Wait()
}

// Run executes fn to completion and returns its result to the synchronous
// caller. Errors from fn propagate verbatim; panics are recovered and
// returned as errors. Submitting to a closed executor returns ErrClosed.
//
// A Run issued from inside a running task executes fn inline on the calling
// goroutine rather than queueing: submitting nested work to the same pool
// could deadlock once every worker is blocked waiting on a nested result.
func Run[T any](e *Executor, ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	var (
		result T
		err    error
	)

	wrapped := func(taskCtx context.Context) {
		defer func() {
			if r := recover(); r != nil {
				logging.Error("task panic: %v", r)
				err = fmt.Errorf("task panic: %v", r)
			}
		}()
		if taskCtx.Err() != nil {
			// Cancelled while queued; do not start the operation.
			err = taskCtx.Err()
			return
		}
		result, err = fn(taskCtx)
	}

	if ctx.Value(taskCtxKey) != nil {
		wrapped(ctx)
		return result, err
	}

	t := &task{ctx: ctx, fn: wrapped, done: make(chan struct{})}
	select {
	case e.tasks <- t:
		// The channel is unbuffered: a completed send means a worker took the
		// task and will run it before checking for shutdown again.
	case <-e.shutdown:
		return result, ErrClosed
	case <-ctx.Done():
		return result, ctx.Err()
	}

	select {
	case <-t.done:
		return result, err
	case <-ctx.Done():
		// The task may still be queued or running; wait for completion so the
		// result variables are not written after we return.
		<-t.done
		return result, err
	}
}
