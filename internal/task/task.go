// Package task manages the goroutines owned by a client: the receive engine
// loop and the optional keep-alive interval task.
package task

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fxlink/go-fxcli/logger"
)

// Func is one iteration of a looping task. Return false to stop the task.
// A panic ends only the iteration it happens in.
type Func func() bool

// SetupFunc runs once on a task goroutine before its first iteration.
type SetupFunc func()

const (
	// startTimeout bounds how long Start* waits for the goroutine to come up.
	startTimeout = 5 * time.Second

	// panicPause keeps a task that panics on every iteration from spinning.
	panicPause = time.Millisecond
)

// Manager starts, stops and joins task goroutines.
//
// Example:
//
//	mgr := task.NewManager(ctx, logger)
//	mgr.Start("receiveEngine", engine.iterate)
//	...
//	mgr.Stop()
//	mgr.Wait()
type Manager struct {
	pctx    context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	logger  logger.Logger
	count   atomic.Int32
	tickers sync.Map     // map[string]*time.Ticker
	mu      sync.RWMutex // protect ctx and cancel
}

// NewManager creates a Manager whose tasks stop when ctx is done.
func NewManager(ctx context.Context, l logger.Logger) *Manager {
	mgr := &Manager{pctx: ctx, logger: l}
	mgr.ctx, mgr.cancel = context.WithCancel(ctx)

	return mgr
}

func (mgr *Manager) context() context.Context {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()

	return mgr.ctx
}

// Start runs fn in a loop on a new goroutine until fn returns false or the
// manager is stopped.
func (mgr *Manager) Start(name string, fn Func) error {
	return mgr.start(name, false, nil, fn)
}

// StartPinned is like Start but locks the goroutine to its OS thread and
// runs setup on that thread first. Thread-level scheduling settings applied
// by setup therefore stay with the task for its whole life.
func (mgr *Manager) StartPinned(name string, setup SetupFunc, fn Func) error {
	return mgr.start(name, true, setup, fn)
}

// StartInterval runs fn every interval until fn returns false or the
// manager is stopped. The returned ticker can be reset by the caller.
func (mgr *Manager) StartInterval(name string, fn Func, interval time.Duration) (*time.Ticker, error) {
	mgr.logger.Debug("start interval task", "name", name, "interval", interval)

	if interval <= 0 {
		return nil, fmt.Errorf("invalid interval: %v", interval)
	}

	ticker := time.NewTicker(interval)
	if _, loaded := mgr.tickers.LoadOrStore(name, ticker); loaded {
		ticker.Stop()
		return nil, fmt.Errorf("interval task %s already exists", name)
	}

	cleanup := func() {
		ticker.Stop()
		mgr.tickers.Delete(name)
	}

	err := mgr.start(name, false, nil, func() bool {
		select {
		case <-mgr.context().Done():
			return false
		case <-ticker.C:
			return fn()
		}
	})
	if err != nil {
		cleanup()
		return nil, err
	}

	return ticker, nil
}

// Stop signals every task to end after its current iteration.
func (mgr *Manager) Stop() {
	mgr.tickers.Range(func(_, value any) bool {
		if ticker, ok := value.(*time.Ticker); ok {
			ticker.Stop()
		}
		return true
	})

	mgr.mu.Lock()
	if mgr.cancel != nil {
		mgr.cancel()
	}
	mgr.mu.Unlock()
}

// Wait blocks until every task has returned.
func (mgr *Manager) Wait() {
	mgr.wg.Wait()
}

// WaitTimeout is like Wait but gives up after timeout and reports whether
// all tasks finished.
func (mgr *Manager) WaitTimeout(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		mgr.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// TaskCount returns the number of running tasks.
func (mgr *Manager) TaskCount() int {
	return int(mgr.count.Load())
}

func (mgr *Manager) start(name string, pinned bool, setup SetupFunc, fn Func) error {
	mgr.logger.Debug("start task", "name", name, "pinned", pinned)

	ctx := mgr.context()
	select {
	case <-ctx.Done():
		return fmt.Errorf("task manager already stopped")
	default:
	}

	started := make(chan struct{})
	mgr.wg.Add(1)

	go func() {
		defer mgr.wg.Done()

		if pinned {
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
		}

		mgr.count.Add(1)
		defer func() {
			mgr.count.Add(-1)
			mgr.logger.Debug("task terminated", "name", name, "task_count", mgr.TaskCount())
		}()

		if setup != nil {
			mgr.callWithRecover(name, setup)
		}
		close(started)

		mgr.runLoop(ctx, name, fn)
	}()

	select {
	case <-started:
		return nil
	case <-time.After(startTimeout):
		return fmt.Errorf("timeout waiting for %s to start", name)
	}
}

func (mgr *Manager) runLoop(ctx context.Context, name string, fn Func) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			if !mgr.callWithRecoverBool(name, fn) {
				return
			}
		}
	}
}

// callWithRecoverBool runs one iteration of fn. A panicking iteration is
// logged and the loop goes on after panicPause.
func (mgr *Manager) callWithRecoverBool(name string, fn Func) (next bool) {
	defer func() {
		if r := recover(); r != nil {
			mgr.logger.Error("panic in task loop", "name", name, "panic", r)
			time.Sleep(panicPause)
			next = true
		}
	}()

	return fn()
}

func (mgr *Manager) callWithRecover(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			mgr.logger.Error("panic in task setup", "name", name, "panic", r)
		}
	}()

	fn()
}
