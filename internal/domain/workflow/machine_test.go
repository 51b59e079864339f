package workflow

import (
	"errors"
	"reflect"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected bool
	}{
		{"pending", StatePending, true},
		{"cancelled", StateCancelled, true},
		{"unknown", State("COMPLETED"), false},
		{"empty", State(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.expected {
				t.Errorf("State.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestForStatus_Pending(t *testing.T) {
	machine, err := ForStatus("PENDING")
	if err != nil {
		t.Fatalf("ForStatus() error = %v", err)
	}

	want := []Trigger{TriggerApprove, TriggerReject, TriggerWithdraw}
	if got := machine.PermittedTriggers(); !reflect.DeepEqual(got, want) {
		t.Errorf("PermittedTriggers() = %v, want %v", got, want)
	}

	if err := machine.Fire(TriggerApprove); err != nil {
		t.Fatalf("Fire(APPROVE) error = %v", err)
	}
	if machine.State() != StateApproved {
		t.Errorf("State after approve = %v, want %v", machine.State(), StateApproved)
	}
}

func TestForStatus_EveryLifecycleStatus(t *testing.T) {
	for _, state := range []State{StatePending, StateApproved, StateRejected, StateCancelled} {
		machine, err := ForStatus(state.String())
		if err != nil {
			t.Fatalf("ForStatus(%s) error = %v", state, err)
		}
		if machine.State() != state {
			t.Errorf("ForStatus(%s).State() = %v", state, machine.State())
		}
	}
}

func TestForStatus_MachinesAreIndependent(t *testing.T) {
	first, _ := ForStatus("PENDING")
	if err := first.Fire(TriggerWithdraw); err != nil {
		t.Fatalf("Fire(WITHDRAW) error = %v", err)
	}

	second, err := ForStatus("PENDING")
	if err != nil {
		t.Fatalf("ForStatus() error = %v", err)
	}
	if second.State() != StatePending || len(second.PermittedTriggers()) != 3 {
		t.Errorf("second machine = %v %v, want PENDING with 3 triggers", second.State(), second.PermittedTriggers())
	}
}

func TestForStatus_TerminalStatesRejectEverything(t *testing.T) {
	for _, code := range []string{"APPROVED", "REJECTED"} {
		t.Run(code, func(t *testing.T) {
			machine, err := ForStatus(code)
			if err != nil {
				t.Fatalf("ForStatus() error = %v", err)
			}

			for _, trigger := range []Trigger{TriggerApprove, TriggerReject, TriggerWithdraw} {
				if err := machine.Fire(trigger); !errors.Is(err, ErrInvalidTransition) {
					t.Errorf("Fire(%s) error = %v, want ErrInvalidTransition", trigger, err)
				}
			}
			if len(machine.PermittedTriggers()) != 0 {
				t.Errorf("PermittedTriggers() = %v, want none", machine.PermittedTriggers())
			}
		})
	}
}

func TestForStatus_UnknownStatus(t *testing.T) {
	if _, err := ForStatus("DRAFT"); !errors.Is(err, ErrInvalidState) {
		t.Errorf("ForStatus(DRAFT) error = %v, want ErrInvalidState", err)
	}
}

func TestBuilder_ConfigurePanicsOnInvalidState(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Configure() should panic on invalid state")
		}
	}()

	NewBuilder().Configure(State("INVALID"))
}

func TestBuilder_PermitPanicsOnInvalidTarget(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Permit() should panic on invalid target state")
		}
	}()

	NewBuilder().Configure(StatePending).Permit(TriggerApprove, State("INVALID"))
}

func TestStateMachine_Independence(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StatePending).Permit(TriggerApprove, StateApproved)

	machine1, _ := builder.Build(StatePending)
	machine2, _ := builder.Build(StatePending)

	if err := machine1.Fire(TriggerApprove); err != nil {
		t.Fatalf("Fire() failed: %v", err)
	}
	if machine2.State() != StatePending {
		t.Errorf("machine2 state = %v, want %v", machine2.State(), StatePending)
	}

	builder.Configure(StatePending).Permit(TriggerReject, StateRejected)
	if got := machine2.PermittedTriggers(); !reflect.DeepEqual(got, []Trigger{TriggerApprove}) {
		t.Errorf("configuration added after Build() leaked into machine: %v", got)
	}
}
