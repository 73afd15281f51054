// Package feedback owns the status-message state the rendering layer
// projects into the UI: idle, loading, success, or error, plus the derived
// enabled/disabled state of the generation triggers.
package feedback

import (
	"sync"
	"time"
)

// Kind classifies the current feedback state.
type Kind string

const (
	KindIdle    Kind = "idle"
	KindLoading Kind = "loading"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// DefaultDismissAfter is how long a success message stays visible before the
// machine returns to idle. Matches the storefront's 5 second auto-hide.
const DefaultDismissAfter = 5 * time.Second

// Snapshot is an immutable view of the machine for the rendering layer.
type Snapshot struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Machine is the feedback state machine.
//
// Transitions: Idle -Start-> Loading; Loading -Succeed-> Success;
// Loading -Fail-> Error; Success -timeout-> Idle. Error has no automatic
// exit; only the next Start leaves it. Start while already Loading simply
// replaces the message. Overlapping operations are last-write-wins; the UI
// prevents them by disabling triggers while Busy.
type Machine struct {
	mu           sync.Mutex
	kind         Kind
	message      string
	dismissAfter time.Duration
	timer        *time.Timer
	gen          uint64 // invalidates timers from superseded states
}

// NewMachine creates a Machine. A dismissAfter of 0 uses the default.
func NewMachine(dismissAfter time.Duration) *Machine {
	if dismissAfter <= 0 {
		dismissAfter = DefaultDismissAfter
	}
	return &Machine{
		kind:         KindIdle,
		dismissAfter: dismissAfter,
	}
}

// Start enters Loading with the given message. Permitted from any state,
// including Error and an existing Loading (message replacement only).
func (m *Machine) Start(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(KindLoading, message)
}

// Succeed enters Success with the given message and schedules the automatic
// return to Idle.
func (m *Machine) Succeed(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(KindSuccess, message)

	gen := m.gen
	m.timer = time.AfterFunc(m.dismissAfter, func() {
		m.dismiss(gen)
	})
}

// Fail enters Error with the given message. Error persists until the next
// Start; it never auto-dismisses.
func (m *Machine) Fail(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(KindError, message)
}

// State returns the current snapshot.
func (m *Machine) State() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{Kind: m.kind, Message: m.message}
}

// Busy reports whether an operation is in flight. Generation triggers are
// disabled while Busy, which is the only mutual exclusion between
// overlapping generation actions.
func (m *Machine) Busy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.kind == KindLoading
}

// set replaces the state and invalidates any pending dismissal. Callers hold mu.
func (m *Machine) set(kind Kind, message string) {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.gen++
	m.kind = kind
	m.message = message
}

// dismiss returns to Idle if the state that scheduled the timer still owns
// the machine.
func (m *Machine) dismiss(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.gen != gen {
		return
	}
	m.kind = KindIdle
	m.message = ""
	m.timer = nil
}
