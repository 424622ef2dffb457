// Package scheduler implements a two-level scheduling model: a
// single-goroutine Master owns the tile-tree construction state machine,
// consuming one Message at a time; a bounded Pool of worker goroutines runs
// independent tile/subtree build tasks in parallel.
//
// Grounded on internal/tile.Generate: a buffered job channel feeding a
// fixed pool of worker goroutines, a sync.WaitGroup draining them, and a
// first-error-wins channel. This package generalizes that shape from "one
// job kind per zoom level, fed and drained once" into a persistent pool
// serving a dependency-ordered DAG of tile-subtree build tasks submitted
// over the tile tree's lifetime, plus a master state machine a single-pass
// pipeline never needed.
package scheduler

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/NASA-AMMOS/Landform-sub006/internal/buildlog"
)

// IdleSleep is the dequeue-throttling interval for both the master's
// message queue and the pool's job queue when empty (≈ 50 ms).
const IdleSleep = 50 * time.Millisecond

// LongTaskWarnSec is the threshold, in seconds, after which a worker task
// that hasn't completed triggers a warning. No automatic kill follows — the
// task still runs to completion.
const LongTaskWarnSec = 300

// Task is one unit of pool work: build a tile or subtree. ID names the
// tile this task builds (used for dependency gating and logging).
// DependencyIDs lists the tile ids that must already be marked built in
// the item store before this task may run.
type Task struct {
	ID            string
	DependencyIDs []string
	Run           func() error
}

// DependencyChecker reports whether a tile id has already been marked
// built. Satisfied by store.ItemStore.Scan-backed lookups; kept as a
// narrow interface so this package doesn't import internal/store.
type DependencyChecker interface {
	IsBuilt(id string) bool
}

// Pool is a bounded worker pool (size defaults to the number of hardware
// threads). Submitted tasks whose dependencies are not yet satisfied are
// re-queued rather than run: a tile's build task only actually runs once
// all dependency tiles have been marked built in the item store.
type Pool struct {
	size int
	deps DependencyChecker
	log  *buildlog.Logger

	queue   chan Task
	pending chan Task // tasks waiting on unmet dependencies, re-tried via requeue loop

	wg        sync.WaitGroup
	quitCh    chan struct{}
	quitOnce  sync.Once
	abortFlag atomic.Bool

	mu       sync.Mutex
	errs     []error
	statusCh chan Status
}

// Status is a worker-completion message sent to whatever consumes
// Pool.Statuses (typically Master): completions arrive in the order sent
// by each worker, but no global order between workers is guaranteed.
type Status struct {
	TaskID string
	Err    error
}

// NewPool returns a Pool with size workers (runtime.NumCPU() if size<=0),
// gating task execution on deps.
func NewPool(size int, deps DependencyChecker, logger *buildlog.Logger) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	return &Pool{
		size:     size,
		deps:     deps,
		log:      logger,
		queue:    make(chan Task, 4096),
		pending:  make(chan Task, 4096),
		quitCh:   make(chan struct{}),
		statusCh: make(chan Status, 4096),
	}
}

// Statuses returns the channel of worker-completion messages.
func (p *Pool) Statuses() <-chan Status { return p.statusCh }

// Start launches the worker goroutines and the dependency-requeue loop.
// Start must be called once before Submit.
func (p *Pool) Start() {
	p.wg.Add(p.size)
	for i := 0; i < p.size; i++ {
		go p.worker()
	}
	go p.requeueLoop()
}

// Submit enqueues a task. If its dependencies are not yet satisfied it is
// held in the pending queue and re-checked by requeueLoop.
func (p *Pool) Submit(t Task) {
	if p.abortFlag.Load() {
		return
	}
	if p.dependenciesMet(t) {
		p.queue <- t
		return
	}
	p.pending <- t
}

func (p *Pool) dependenciesMet(t Task) bool {
	if p.deps == nil {
		return true
	}
	for _, id := range t.DependencyIDs {
		if !p.deps.IsBuilt(id) {
			return false
		}
	}
	return true
}

// requeueLoop moves pending tasks whose dependencies have since been
// satisfied back onto the run queue. It uses the same idle-sleep
// dequeue-throttling pattern as the worker loop rather than a blocking
// receive, since a task may need to wait on a dependency built by another
// worker entirely.
func (p *Pool) requeueLoop() {
	var held []Task
	for {
		select {
		case <-p.quitCh:
			return
		case t := <-p.pending:
			held = append(held, t)
		default:
			if len(held) == 0 {
				time.Sleep(IdleSleep)
				continue
			}
			remaining := held[:0]
			for _, t := range held {
				if p.abortFlag.Load() {
					return
				}
				if p.dependenciesMet(t) {
					p.queue <- t
				} else {
					remaining = append(remaining, t)
				}
			}
			held = remaining
			if len(held) > 0 {
				time.Sleep(IdleSleep)
			}
		}
	}
}

// worker runs queued tasks until the pool is stopped, emitting a
// long-task warning if a task's Run exceeds LongTaskWarnSec.
func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.quitCh:
			return
		case t := <-p.queue:
			if p.abortFlag.Load() {
				continue // aborted: queued-but-not-started tasks are dropped
			}
			p.runTask(t)
		default:
			time.Sleep(IdleSleep)
		}
	}
}

func (p *Pool) runTask(t Task) {
	done := make(chan struct{})
	start := time.Now()
	go func() {
		select {
		case <-done:
			return
		case <-time.After(LongTaskWarnSec * time.Second):
			p.log.Warnf("task %q has been running %ds (threshold %ds)", t.ID, int(time.Since(start).Seconds()), LongTaskWarnSec)
		}
	}()

	err := t.Run()
	close(done)

	if err != nil {
		p.recordErr(err)
	}
	select {
	case p.statusCh <- Status{TaskID: t.ID, Err: err}:
	default:
		p.log.Warnf("status channel full, dropping completion for task %q", t.ID)
	}
}

func (p *Pool) recordErr(err error) {
	p.mu.Lock()
	p.errs = append(p.errs, err)
	p.mu.Unlock()
}

// Abort sets the quit-on-error flag: pending work stops and a boolean
// failure is returned to the executive; in-flight tasks finish naturally.
// Queued-but-not-started tasks are dropped; tasks already running complete
// normally.
func (p *Pool) Abort() {
	p.abortFlag.Store(true)
}

// Aborted reports whether Abort has been called.
func (p *Pool) Aborted() bool { return p.abortFlag.Load() }

// Stop signals every worker and the requeue loop to exit and waits for
// in-flight tasks to finish.
func (p *Pool) Stop() {
	p.quitOnce.Do(func() { close(p.quitCh) })
	p.wg.Wait()
}

// Errors returns every error recorded by completed tasks so far.
func (p *Pool) Errors() []error {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]error, len(p.errs))
	copy(out, p.errs)
	return out
}
