package scheduler

import (
	"time"

	"github.com/NASA-AMMOS/Landform-sub006/internal/buildlog"
)

// MessageKind tags a Master message.
type MessageKind int

const (
	// MsgEnqueue asks the master to submit a task to the pool once its
	// dependencies are satisfied.
	MsgEnqueue MessageKind = iota
	// MsgTaskCompleted reports a worker's completion, forwarded from
	// Pool.Statuses.
	MsgTaskCompleted
	// MsgShutdown asks the master's run loop to exit after draining
	// whatever is already queued.
	MsgShutdown
)

// Message is one unit the Master processes, one at a time: an outer master
// owns the tile-tree construction state machine and consumes one message
// at a time per project.
type Message struct {
	Kind   MessageKind
	Task   Task
	Status Status
}

// Master is the single-goroutine tile-tree construction state machine. It
// owns a Pool, submits tasks to it, and observes worker completions as
// status messages — folding both into one serialized message queue so
// project state (built-tile bookkeeping, the quit-on-error flag) is never
// touched from more than one goroutine.
type Master struct {
	pool *Pool
	log  *buildlog.Logger

	quitOnError bool
	failed      bool

	msgCh chan Message
	doneC chan struct{}

	onCompleted func(Status)
}

// NewMaster returns a Master dispatching onto pool. onCompleted, if
// non-nil, is invoked (on the master's own goroutine — never concurrently)
// for every worker completion; quitOnError controls whether a task error
// triggers Pool.Abort.
func NewMaster(pool *Pool, quitOnError bool, logger *buildlog.Logger, onCompleted func(Status)) *Master {
	return &Master{
		pool:        pool,
		log:         logger,
		quitOnError: quitOnError,
		msgCh:       make(chan Message, 4096),
		doneC:       make(chan struct{}),
		onCompleted: onCompleted,
	}
}

// Enqueue asks the master to submit t once its dependencies are met. Safe
// to call from any goroutine.
func (m *Master) Enqueue(t Task) {
	m.msgCh <- Message{Kind: MsgEnqueue, Task: t}
}

// Shutdown asks the run loop to exit once the message queue drains.
func (m *Master) Shutdown() {
	m.msgCh <- Message{Kind: MsgShutdown}
}

// Failed reports whether any processed task reported an error while
// quitOnError is set.
func (m *Master) Failed() bool { return m.failed }

// Run is the master's single-goroutine loop: it forwards pool completions
// into its own message queue, then drains that queue one message at a
// time, using the same idle-sleep dequeue-throttling pattern as Pool when
// both the message queue and the status-forwarding channel are empty. Run
// blocks until a MsgShutdown message is processed; a pool abort alone does
// not end it.
func (m *Master) Run() {
	defer close(m.doneC)

	stopForward := make(chan struct{})
	go m.forwardStatuses(stopForward)
	defer close(stopForward)

	for {
		select {
		case msg := <-m.msgCh:
			if m.handle(msg) {
				return
			}
		default:
			time.Sleep(IdleSleep)
		}
	}
}

// forwardStatuses copies Pool.Statuses() completions onto the master's own
// message queue so Run observes them serialized with enqueue requests.
func (m *Master) forwardStatuses(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case st := <-m.pool.Statuses():
			m.msgCh <- Message{Kind: MsgTaskCompleted, Status: st}
		}
	}
}

// handle processes one message and reports whether Run should exit.
func (m *Master) handle(msg Message) bool {
	switch msg.Kind {
	case MsgEnqueue:
		m.pool.Submit(msg.Task)
	case MsgTaskCompleted:
		if msg.Status.Err != nil {
			m.log.Errorf("task %q failed: %v", msg.Status.TaskID, msg.Status.Err)
			if m.quitOnError {
				m.failed = true
				m.pool.Abort()
			}
		}
		if m.onCompleted != nil {
			m.onCompleted(msg.Status)
		}
	case MsgShutdown:
		return true
	}
	return false
}

// Done returns a channel closed once Run has returned.
func (m *Master) Done() <-chan struct{} { return m.doneC }
