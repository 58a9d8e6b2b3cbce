package workbench

import (
	"fmt"
	"sync"
	"time"
)

// OpState is the lifecycle of one user-triggered remote operation.
type OpState string

const (
	OpIdle      OpState = "idle"
	OpInFlight  OpState = "in_flight"
	OpSucceeded OpState = "succeeded"
	OpFailed    OpState = "failed"
)

// OpStatus is a point-in-time view of an Op.
type OpStatus struct {
	State     OpState   `json:"state"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Op guards a single kind of remote operation so at most one runs at a time.
// The zero value is idle and ready to use.
type Op struct {
	mu     sync.Mutex
	status OpStatus
}

// TryBegin moves the op to in_flight. The returned finish must be called
// exactly once, normally deferred, with the outcome of the operation; later
// calls are ignored.
func (o *Op) TryBegin() (finish func(error), err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.status.State == OpInFlight {
		return nil, ErrBusy
	}
	o.status = OpStatus{State: OpInFlight, UpdatedAt: time.Now()}

	var once sync.Once
	return func(opErr error) {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			next := OpStatus{State: OpSucceeded, UpdatedAt: time.Now()}
			if opErr != nil {
				next.State = OpFailed
				next.Error = opErr.Error()
			}
			o.status = next
		})
	}, nil
}

// Status returns the current state; an op never started reports idle.
func (o *Op) Status() OpStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status.State == "" {
		return OpStatus{State: OpIdle}
	}
	return o.status
}

func (o *Op) InFlight() bool {
	return o.Status().State == OpInFlight
}

// settle is deferred right after a successful TryBegin. It reports *opErr,
// or the panic value when the operation panicked, and lets a panic continue.
func settle(finish func(error), opErr *error) {
	if r := recover(); r != nil {
		finish(fmt.Errorf("panic: %v", r))
		panic(r)
	}
	finish(*opErr)
}
