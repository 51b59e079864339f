package workflow

import "sync"

// leaveBuilder is built on first use; package-level maps in state.go must be
// initialized before Configure runs.
var leaveBuilder = sync.OnceValue(newLeaveBuilder)

func newLeaveBuilder() StateMachineBuilder {
	b := NewBuilder()

	b.Configure(StatePending).
		Permit(TriggerApprove, StateApproved).
		Permit(TriggerReject, StateRejected).
		Permit(TriggerWithdraw, StateCancelled)

	b.Configure(StateApproved)
	b.Configure(StateRejected)
	b.Configure(StateCancelled)

	return b
}

// ForStatus returns the leave lifecycle machine positioned at the given
// status code (e.g. "PENDING")
func ForStatus(code string) (StateMachine, error) {
	return leaveBuilder().Build(State(code))
}
