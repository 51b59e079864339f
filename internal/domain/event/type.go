package event

// Type identifies the type of domain event
type Type string

const (
	TypeLeaveSubmitted Type = "leave.submitted"
	TypeLeaveApproved  Type = "leave.approved"
	TypeLeaveRejected  Type = "leave.rejected"
	TypeLeaveWithdrawn Type = "leave.withdrawn"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeLeaveSubmitted, TypeLeaveApproved, TypeLeaveRejected, TypeLeaveWithdrawn:
		return true
	default:
		return false
	}
}

// AllTypes returns every leave event type
func AllTypes() []Type {
	return []Type{TypeLeaveSubmitted, TypeLeaveApproved, TypeLeaveRejected, TypeLeaveWithdrawn}
}
