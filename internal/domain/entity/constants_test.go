package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDepartment(t *testing.T) {
	tests := []struct {
		input  string
		want   Department
		wantOK bool
	}{
		{"MATH", DepartmentMath, true},
		{"math", DepartmentMath, true},
		{"คณิตศาสตร์", DepartmentMath, true},
		{" สำนักงาน/บริหารทั่วไป ", DepartmentAdmin, true},
		{"LIBRARY", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseDepartment(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStatus(t *testing.T) {
	got, ok := ParseStatus("pending")
	assert.True(t, ok)
	assert.Equal(t, StatusPending, got)

	got, ok = ParseStatus("ไม่อนุมัติ")
	assert.True(t, ok)
	assert.Equal(t, StatusRejected, got)

	_, ok = ParseStatus("DONE")
	assert.False(t, ok)
}

func TestEnumSets(t *testing.T) {
	assert.Len(t, AllDepartments(), 10)
	assert.Len(t, AllLeaveTypes(), 6)
	assert.Len(t, AllStatuses(), 4)
	assert.Len(t, Positions(), 10)

	for _, d := range AllDepartments() {
		assert.True(t, d.IsValid())
		assert.NotEmpty(t, d.Code())
		assert.Equal(t, string(d), d.Label())
	}
	for _, lt := range AllLeaveTypes() {
		assert.True(t, lt.IsValid())
		parsed, ok := ParseLeaveType(lt.Code())
		assert.True(t, ok)
		assert.Equal(t, lt, parsed)
	}

	assert.Equal(t, "CANCELLED", StatusCancelled.Code())
	assert.False(t, LeaveStatus("x").IsValid())
}

func TestAllDepartments_ReturnsCopy(t *testing.T) {
	all := AllDepartments()
	all[0] = "changed"
	assert.Equal(t, DepartmentThai, AllDepartments()[0])
}
