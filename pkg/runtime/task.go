package runtime

import "sync"

type TaskStatus int

const (
	TaskPending TaskStatus = iota
	TaskResolved
	TaskFailed
)

func (s TaskStatus) String() string {
	switch s {
	case TaskResolved:
		return "done"
	case TaskFailed:
		return "failed"
	default:
		return "pending"
	}
}

// TaskValue is a handle to asynchronous work. It settles exactly once; later
// Resolve or Fail calls are ignored.
type TaskValue struct {
	Label string

	mu      sync.Mutex
	status  TaskStatus
	result  Value
	err     error
	awaited bool
	done    chan struct{}
}

func NewTask(label string) *TaskValue {
	return &TaskValue{Label: label, done: make(chan struct{})}
}

func (v *TaskValue) Kind() Kind { return KindTask }

func (v *TaskValue) Status() TaskStatus {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

// Done is closed once the task settles.
func (v *TaskValue) Done() <-chan struct{} {
	return v.done
}

// Await blocks until the task settles and marks it observed.
func (v *TaskValue) Await() (Value, error) {
	<-v.done
	v.mu.Lock()
	defer v.mu.Unlock()
	v.awaited = true
	return v.result, v.err
}

// Awaited reports whether anyone observed the outcome.
func (v *TaskValue) Awaited() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.awaited
}

func (v *TaskValue) Resolve(val Value) {
	v.settle(TaskResolved, val, nil)
}

func (v *TaskValue) Fail(err error) {
	v.settle(TaskFailed, nil, err)
}

// Err returns the failure of a settled task, nil otherwise.
func (v *TaskValue) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

func (v *TaskValue) settle(status TaskStatus, val Value, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.status != TaskPending {
		return
	}
	if val == nil {
		val = Null
	}
	v.status = status
	v.result = val
	v.err = err
	close(v.done)
}
