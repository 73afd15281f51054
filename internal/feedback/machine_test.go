package feedback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachine_StartEntersLoading(t *testing.T) {
	m := NewMachine(0)

	m.Start("Generating your linesheet...")

	assert.Equal(t, Snapshot{Kind: KindLoading, Message: "Generating your linesheet..."}, m.State())
	assert.True(t, m.Busy())
}

func TestMachine_RestartWhileLoadingReplacesMessage(t *testing.T) {
	m := NewMachine(0)

	m.Start("first")
	m.Start("second")

	assert.Equal(t, Snapshot{Kind: KindLoading, Message: "second"}, m.State())
	assert.True(t, m.Busy())
}

func TestMachine_SuccessAutoDismisses(t *testing.T) {
	m := NewMachine(20 * time.Millisecond)

	m.Start("working")
	m.Succeed("Your linesheet has been generated!")

	assert.Equal(t, KindSuccess, m.State().Kind)
	assert.False(t, m.Busy())

	require.Eventually(t, func() bool {
		return m.State().Kind == KindIdle
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, m.State().Message)
}

func TestMachine_ErrorDoesNotAutoDismiss(t *testing.T) {
	m := NewMachine(20 * time.Millisecond)

	m.Start("working")
	m.Fail("Server error generating linesheet: 500 Internal Server Error")

	time.Sleep(60 * time.Millisecond)

	snap := m.State()
	assert.Equal(t, KindError, snap.Kind)
	assert.Equal(t, "Server error generating linesheet: 500 Internal Server Error", snap.Message)
	assert.False(t, m.Busy())
}

func TestMachine_StartLeavesError(t *testing.T) {
	m := NewMachine(0)

	m.Fail("boom")
	m.Start("retrying")

	assert.Equal(t, Snapshot{Kind: KindLoading, Message: "retrying"}, m.State())
}

// A stale dismissal timer must not fire into a state it no longer owns.
func TestMachine_StaleTimerDoesNotClobberNewState(t *testing.T) {
	m := NewMachine(20 * time.Millisecond)

	m.Succeed("done")
	m.Start("next run")

	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, Snapshot{Kind: KindLoading, Message: "next run"}, m.State())
}

func TestMachine_SecondSuccessExtendsDismissal(t *testing.T) {
	m := NewMachine(50 * time.Millisecond)

	m.Succeed("first")
	time.Sleep(30 * time.Millisecond)
	m.Succeed("second")
	time.Sleep(30 * time.Millisecond)

	// The first timer would have fired by now; the second state must survive.
	assert.Equal(t, Snapshot{Kind: KindSuccess, Message: "second"}, m.State())

	require.Eventually(t, func() bool {
		return m.State().Kind == KindIdle
	}, time.Second, 5*time.Millisecond)
}

func TestMachine_InitialState(t *testing.T) {
	m := NewMachine(0)
	assert.Equal(t, Snapshot{Kind: KindIdle}, m.State())
	assert.False(t, m.Busy())
}
