package scheduler

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/NASA-AMMOS/Landform-sub006/internal/buildlog"
)

// fakeDeps is a DependencyChecker the test controls directly.
type fakeDeps struct {
	mu    sync.Mutex
	built map[string]bool
}

func newFakeDeps() *fakeDeps { return &fakeDeps{built: make(map[string]bool)} }

func (f *fakeDeps) IsBuilt(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.built[id]
}

func (f *fakeDeps) markBuilt(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.built[id] = true
}

func waitStatus(t *testing.T, ch <-chan Status, timeout time.Duration) Status {
	t.Helper()
	select {
	case st := <-ch:
		return st
	case <-time.After(timeout):
		t.Fatal("timed out waiting for a status message")
		return Status{}
	}
}

func TestPoolRunsTaskWithNoDependencies(t *testing.T) {
	pool := NewPool(2, nil, buildlog.New("test", false))
	pool.Start()
	defer pool.Stop()

	ran := make(chan struct{}, 1)
	pool.Submit(Task{ID: "t1", Run: func() error {
		ran <- struct{}{}
		return nil
	}})

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("task never ran")
	}

	st := waitStatus(t, pool.Statuses(), 2*time.Second)
	if st.TaskID != "t1" || st.Err != nil {
		t.Fatalf("status = %+v, want {t1 <nil>}", st)
	}
}

func TestPoolGatesOnUnmetDependency(t *testing.T) {
	deps := newFakeDeps()
	pool := NewPool(2, deps, buildlog.New("test", false))
	pool.Start()
	defer pool.Stop()

	ran := make(chan struct{}, 1)
	pool.Submit(Task{ID: "child", DependencyIDs: []string{"parent"}, Run: func() error {
		ran <- struct{}{}
		return nil
	}})

	select {
	case <-ran:
		t.Fatal("task ran before its dependency was marked built")
	case <-time.After(150 * time.Millisecond):
	}

	deps.markBuilt("parent")

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("task never ran after dependency was marked built")
	}
}

func TestPoolAbortStopsAcceptingWork(t *testing.T) {
	pool := NewPool(1, nil, buildlog.New("test", false))
	pool.Start()
	defer pool.Stop()

	pool.Abort()
	if !pool.Aborted() {
		t.Fatal("Aborted() = false after Abort()")
	}

	ran := make(chan struct{}, 1)
	pool.Submit(Task{ID: "t1", Run: func() error {
		ran <- struct{}{}
		return nil
	}})

	select {
	case <-ran:
		t.Fatal("task ran after Abort()")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestPoolRecordsTaskErrors(t *testing.T) {
	pool := NewPool(1, nil, buildlog.New("test", false))
	pool.Start()
	defer pool.Stop()

	wantErr := errors.New("boom")
	pool.Submit(Task{ID: "t1", Run: func() error { return wantErr }})

	st := waitStatus(t, pool.Statuses(), 2*time.Second)
	if st.Err == nil {
		t.Fatal("status.Err = nil, want boom")
	}

	// Give recordErr's lock-protected append a moment to land; Errors()
	// takes the same lock so this is safe to poll.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(pool.Errors()) > 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("Errors() never recorded the task failure")
}
