package interpreter

import (
	"fmt"
	"log/slog"
	"sync"

	"virtolang/interpreter-go/pkg/runtime"
)

// taskFunc is a unit of asynchronous work run by the scheduler.
type taskFunc func() (runtime.Value, error)

// scheduler runs cooperative tasks one at a time. Whoever holds the turn may
// evaluate AST; the turn passes to the next ready task, in FIFO order, only
// when the holder finishes or waits on another task. Offloaded native calls
// run on a bounded set of worker slots and never take the turn.
type scheduler struct {
	logger *slog.Logger
	slots  chan struct{}
	wg     sync.WaitGroup

	// current is the spawned task holding the turn, nil for the main
	// program. Only the turn holder reads or writes it.
	current *runtime.TaskValue

	mu    sync.Mutex
	held  bool
	ready []chan struct{}
	tasks []*runtime.TaskValue
}

func newScheduler(workers int, logger *slog.Logger) *scheduler {
	if workers < 1 {
		workers = 1
	}
	return &scheduler{logger: logger, slots: make(chan struct{}, workers)}
}

// acquire blocks until the caller holds the turn.
func (s *scheduler) acquire() {
	s.mu.Lock()
	if !s.held {
		s.held = true
		s.mu.Unlock()
		return
	}
	wake := make(chan struct{})
	s.ready = append(s.ready, wake)
	s.mu.Unlock()
	<-wake
}

// release hands the turn to the next ready task, if any.
func (s *scheduler) release() {
	s.mu.Lock()
	if len(s.ready) > 0 {
		wake := s.ready[0]
		s.ready = s.ready[1:]
		s.mu.Unlock()
		close(wake)
		return
	}
	s.held = false
	s.mu.Unlock()
}

// spawn queues fn as a cooperative task. The caller must hold the turn; the
// task is queued before spawn returns and starts once the turn reaches it.
func (s *scheduler) spawn(label string, fn taskFunc) *runtime.TaskValue {
	task := runtime.NewTask(label)
	wake := make(chan struct{})

	s.mu.Lock()
	s.ready = append(s.ready, wake)
	s.tasks = append(s.tasks, task)
	s.mu.Unlock()

	s.wg.Add(1)
	s.logger.Debug("task spawned", "task", label)
	go func() {
		defer s.wg.Done()
		<-wake
		s.current = task
		result, err := safeInvoke(fn)
		settle(task, result, err)
		s.current = nil
		s.logger.Debug("task finished", "task", label, "status", task.Status().String())
		s.release()
	}()
	return task
}

// offload runs fn on a worker slot without taking the turn.
func (s *scheduler) offload(label string, fn taskFunc) *runtime.TaskValue {
	task := runtime.NewTask(label)

	s.mu.Lock()
	s.tasks = append(s.tasks, task)
	s.mu.Unlock()

	s.wg.Add(1)
	s.logger.Debug("worker call queued", "task", label)
	go func() {
		defer s.wg.Done()
		s.slots <- struct{}{}
		defer func() { <-s.slots }()
		result, err := safeInvoke(fn)
		settle(task, result, err)
		s.logger.Debug("worker call finished", "task", label, "status", task.Status().String())
	}()
	return task
}

// await suspends the calling task until task settles. Other ready tasks run
// meanwhile. A task awaiting its own handle would never settle.
func (s *scheduler) await(task *runtime.TaskValue) (runtime.Value, error) {
	select {
	case <-task.Done():
		return task.Await()
	default:
	}
	if task == s.current {
		return nil, runtimeError(nil, "RuntimeError", "Task cannot await on itself")
	}
	self := s.current
	s.release()
	<-task.Done()
	s.acquire()
	s.current = self
	return task.Await()
}

// drain lets every outstanding task run to completion and returns the
// failed tasks nobody awaited. The caller must hold the turn.
func (s *scheduler) drain() []*runtime.TaskValue {
	s.release()
	s.wg.Wait()
	s.acquire()

	s.mu.Lock()
	tasks := s.tasks
	s.tasks = nil
	s.mu.Unlock()

	var unobserved []*runtime.TaskValue
	for _, task := range tasks {
		if task.Status() == runtime.TaskFailed && !task.Awaited() {
			unobserved = append(unobserved, task)
		}
	}
	return unobserved
}

func settle(task *runtime.TaskValue, result runtime.Value, err error) {
	if err != nil {
		task.Fail(err)
		return
	}
	task.Resolve(result)
}

func safeInvoke(fn taskFunc) (result runtime.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
