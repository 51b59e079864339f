package sheets

import (
	"math"
	"strings"
	"time"

	"github.com/garyjia/school-leave/internal/domain/calendar"
	"github.com/garyjia/school-leave/internal/domain/entity"
	"github.com/spf13/cast"
)

// decodeRow turns a loosely typed row into a LeaveRequest. Numeric ids
// become strings, a non-numeric totalDays becomes 0 and missing text
// fields become "". It returns the names of fields that had to be coerced.
func decodeRow(row map[string]interface{}, loc *time.Location) (entity.LeaveRequest, []string) {
	var problems []string

	leave := entity.LeaveRequest{
		ID:       cast.ToString(row["id"]),
		FullName: cast.ToString(row["fullName"]),
		Position: cast.ToString(row["position"]),
		Reason:   cast.ToString(row["reason"]),
		Address:  cast.ToString(row["address"]),
		Contact:  cast.ToString(row["contact"]),
		Note:     cast.ToString(row["note"]),
	}

	raw := cast.ToString(row["department"])
	if dept, ok := entity.ParseDepartment(raw); ok {
		leave.Department = dept
	} else {
		leave.Department = entity.Department(raw)
		problems = append(problems, "department")
	}

	raw = cast.ToString(row["leaveType"])
	if lt, ok := entity.ParseLeaveType(raw); ok {
		leave.LeaveType = lt
	} else {
		leave.LeaveType = entity.LeaveType(raw)
		problems = append(problems, "leaveType")
	}

	raw = cast.ToString(row["status"])
	if status, ok := entity.ParseStatus(raw); ok {
		leave.Status = status
	} else {
		leave.Status = entity.LeaveStatus(raw)
		problems = append(problems, "status")
	}

	if d, err := calendar.ParseDate(cast.ToString(row["startDate"]), loc); err == nil {
		leave.StartDate = d
	} else {
		problems = append(problems, "startDate")
	}
	if d, err := calendar.ParseDate(cast.ToString(row["endDate"]), loc); err == nil {
		leave.EndDate = d
	} else {
		problems = append(problems, "endDate")
	}

	if days, ok := toDayCount(row["totalDays"]); ok {
		leave.TotalDays = days
	} else {
		problems = append(problems, "totalDays")
	}

	if created, err := time.Parse(time.RFC3339Nano, cast.ToString(row["createdAt"])); err == nil {
		leave.CreatedAt = created
	} else {
		problems = append(problems, "createdAt")
	}

	return leave, problems
}

// toDayCount reads a numeric cell as a decimal number and truncates it.
// Text cells are parsed in base 10, so "010" is 10. Anything that is not a
// finite number gives 0 and false.
func toDayCount(v interface{}) (int, bool) {
	if s, isString := v.(string); isString {
		v = strings.TrimSpace(s)
		if v == "" {
			return 0, true
		}
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}
