package entity

import (
	"encoding/json"
	"strings"
)

// Department is a school subject group. Values are the labels stored remotely.
type Department string

const (
	DepartmentThai     Department = "ภาษาไทย"
	DepartmentMath     Department = "คณิตศาสตร์"
	DepartmentScience  Department = "วิทยาศาสตร์และเทคโนโลยี"
	DepartmentSocial   Department = "สังคมศึกษา ศาสนา และวัฒนธรรม"
	DepartmentHealth   Department = "สุขศึกษาและพลศึกษา"
	DepartmentArt      Department = "ศิลปะ"
	DepartmentCareer   Department = "การงานอาชีพ"
	DepartmentForeign  Department = "ภาษาต่างประเทศ"
	DepartmentGuidance Department = "กิจกรรมพัฒนาผู้เรียน"
	DepartmentAdmin    Department = "สำนักงาน/บริหารทั่วไป"
)

// LeaveType is the kind of leave. Values are the labels stored remotely.
type LeaveType string

const (
	LeaveTypeSick      LeaveType = "ลาป่วย"
	LeaveTypePersonal  LeaveType = "ลากิจ"
	LeaveTypeVacation  LeaveType = "ลาพักผ่อน"
	LeaveTypeTraining  LeaveType = "ลาไปราชการ/อบรม"
	LeaveTypeMaternity LeaveType = "ลาคลอด"
	LeaveTypeOther     LeaveType = "อื่นๆ"
)

// LeaveStatus is the review state of a request. Values are the labels stored remotely.
type LeaveStatus string

const (
	StatusPending  LeaveStatus = "รออนุมัติ"
	StatusApproved LeaveStatus = "อนุมัติ"
	StatusRejected LeaveStatus = "ไม่อนุมัติ"
	// StatusCancelled is reserved; a withdrawn request is deleted instead
	StatusCancelled LeaveStatus = "ยกเลิก"
)

var departments = []Department{
	DepartmentThai, DepartmentMath, DepartmentScience, DepartmentSocial, DepartmentHealth,
	DepartmentArt, DepartmentCareer, DepartmentForeign, DepartmentGuidance, DepartmentAdmin,
}

var departmentCodes = map[Department]string{
	DepartmentThai:     "THAI",
	DepartmentMath:     "MATH",
	DepartmentScience:  "SCIENCE",
	DepartmentSocial:   "SOCIAL",
	DepartmentHealth:   "HEALTH",
	DepartmentArt:      "ART",
	DepartmentCareer:   "CAREER",
	DepartmentForeign:  "FOREIGN",
	DepartmentGuidance: "GUIDANCE",
	DepartmentAdmin:    "ADMIN",
}

var leaveTypes = []LeaveType{
	LeaveTypeSick, LeaveTypePersonal, LeaveTypeVacation,
	LeaveTypeTraining, LeaveTypeMaternity, LeaveTypeOther,
}

var leaveTypeCodes = map[LeaveType]string{
	LeaveTypeSick:      "SICK",
	LeaveTypePersonal:  "PERSONAL",
	LeaveTypeVacation:  "VACATION",
	LeaveTypeTraining:  "TRAINING",
	LeaveTypeMaternity: "MATERNITY",
	LeaveTypeOther:     "OTHER",
}

var statuses = []LeaveStatus{StatusPending, StatusApproved, StatusRejected, StatusCancelled}

var statusCodes = map[LeaveStatus]string{
	StatusPending:   "PENDING",
	StatusApproved:  "APPROVED",
	StatusRejected:  "REJECTED",
	StatusCancelled: "CANCELLED",
}

// positions suggested by the request form; free text is still accepted
var positions = []string{
	"ครูผู้ช่วย",
	"ครู คศ.1",
	"ครูชำนาญการ",
	"ครูชำนาญการพิเศษ",
	"ครูเชี่ยวชาญ",
	"พนักงานราชการ",
	"ครูอัตราจ้าง",
	"เจ้าหน้าที่ประจำสำนักงาน",
	"นักการภารโรง",
	"อื่นๆ",
}

// AllDepartments returns the departments in display order
func AllDepartments() []Department {
	return append([]Department(nil), departments...)
}

// AllLeaveTypes returns the leave types in display order
func AllLeaveTypes() []LeaveType {
	return append([]LeaveType(nil), leaveTypes...)
}

// AllStatuses returns every status, including the reserved CANCELLED
func AllStatuses() []LeaveStatus {
	return append([]LeaveStatus(nil), statuses...)
}

// Positions returns the suggested staff positions
func Positions() []string {
	return append([]string(nil), positions...)
}

// Code returns the stable English code, e.g. "MATH"
func (d Department) Code() string {
	return departmentCodes[d]
}

// Label returns the Thai display name
func (d Department) Label() string {
	return string(d)
}

// IsValid reports whether d is one of the known departments
func (d Department) IsValid() bool {
	_, ok := departmentCodes[d]
	return ok
}

// Code returns the stable English code, e.g. "SICK"
func (t LeaveType) Code() string {
	return leaveTypeCodes[t]
}

// Label returns the Thai display name
func (t LeaveType) Label() string {
	return string(t)
}

// IsValid reports whether t is one of the known leave types
func (t LeaveType) IsValid() bool {
	_, ok := leaveTypeCodes[t]
	return ok
}

// Code returns the stable English code, e.g. "PENDING"
func (s LeaveStatus) Code() string {
	return statusCodes[s]
}

// Label returns the Thai display name
func (s LeaveStatus) Label() string {
	return string(s)
}

// IsValid reports whether s is one of the known statuses
func (s LeaveStatus) IsValid() bool {
	_, ok := statusCodes[s]
	return ok
}

// ParseDepartment accepts a code (case-insensitive) or a label
func ParseDepartment(s string) (Department, bool) {
	return parseEnum(s, departmentCodes)
}

// ParseLeaveType accepts a code (case-insensitive) or a label
func ParseLeaveType(s string) (LeaveType, bool) {
	return parseEnum(s, leaveTypeCodes)
}

// ParseStatus accepts a code (case-insensitive) or a label
func ParseStatus(s string) (LeaveStatus, bool) {
	return parseEnum(s, statusCodes)
}

func parseEnum[T ~string](s string, codes map[T]string) (T, bool) {
	s = strings.TrimSpace(s)
	if _, ok := codes[T(s)]; ok {
		return T(s), true
	}
	for value, code := range codes {
		if strings.EqualFold(code, s) {
			return value, true
		}
	}
	var zero T
	return zero, false
}

// UnmarshalJSON accepts a code or a label; unknown values are kept as-is
// so that validation can report them
func (d *Department) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, d, departmentCodes)
}

// UnmarshalJSON accepts a code or a label; unknown values are kept as-is
func (t *LeaveType) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, t, leaveTypeCodes)
}

// UnmarshalJSON accepts a code or a label; unknown values are kept as-is
func (s *LeaveStatus) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, s, statusCodes)
}

func unmarshalEnum[T ~string](data []byte, dst *T, codes map[T]string) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := parseEnum(raw, codes); ok {
		*dst = v
		return nil
	}
	*dst = T(raw)
	return nil
}
