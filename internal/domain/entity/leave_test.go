package entity

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/garyjia/school-leave/internal/domain/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubmission() Submission {
	return Submission{
		FullName:   "สมชาย ใจดี",
		Position:   "ครูชำนาญการ",
		Department: DepartmentMath,
		LeaveType:  LeaveTypeSick,
		StartDate:  calendar.MustParseDate("2023-11-01"),
		EndDate:    calendar.MustParseDate("2023-11-02"),
		Reason:     "ไข้หวัด",
		Address:    "บ้านเลขที่ 1",
		Contact:    "0812345678",
	}
}

func TestSubmission_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(s *Submission)
		wantField string
		wantErr   error
	}{
		{"valid", func(s *Submission) {}, "", nil},
		{"blank name", func(s *Submission) { s.FullName = "  " }, "fullName", nil},
		{"empty position", func(s *Submission) { s.Position = "" }, "position", nil},
		{"missing start", func(s *Submission) { s.StartDate = calendar.Date{} }, "startDate", nil},
		{"missing end", func(s *Submission) { s.EndDate = calendar.Date{} }, "endDate", nil},
		{"empty reason", func(s *Submission) { s.Reason = "" }, "reason", nil},
		{"empty address", func(s *Submission) { s.Address = "" }, "address", nil},
		{"empty contact", func(s *Submission) { s.Contact = "\t" }, "contact", nil},
		{"unknown department", func(s *Submission) { s.Department = "ห้องสมุด" }, "department", nil},
		{"unknown leave type", func(s *Submission) { s.LeaveType = "" }, "leaveType", nil},
		{
			"end before start",
			func(s *Submission) { s.EndDate = calendar.MustParseDate("2023-10-31") },
			"endDate", ErrInvalidDateRange,
		},
		{
			"weekend only",
			func(s *Submission) {
				s.StartDate = calendar.MustParseDate("2023-10-28")
				s.EndDate = calendar.MustParseDate("2023-10-29")
			},
			"totalDays", ErrNoWorkingDays,
		},
		{
			"first blank field wins",
			func(s *Submission) {
				s.Reason = ""
				s.FullName = ""
				s.Department = ""
			},
			"fullName", nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSubmission()
			tt.mutate(&s)

			err := s.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.wantField, verr.Field)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestSubmission_ToLeaveRequest(t *testing.T) {
	s := validSubmission()
	s.EndDate = calendar.MustParseDate("2023-11-07")
	now := time.Date(2023, 10, 30, 9, 0, 0, 0, time.UTC)

	req := s.ToLeaveRequest(now)

	assert.Empty(t, req.ID)
	assert.Equal(t, 5, req.TotalDays)
	assert.Equal(t, StatusPending, req.Status)
	assert.Equal(t, now, req.CreatedAt)
	assert.Equal(t, s.FullName, req.FullName)
	assert.Equal(t, s.Department, req.Department)
}

func TestSubmission_UnmarshalCodes(t *testing.T) {
	body := `{"fullName":"สมหญิง","department":"SCIENCE","leaveType":"ลากิจ","startDate":"2023-11-01"}`

	var s Submission
	require.NoError(t, json.Unmarshal([]byte(body), &s))

	assert.Equal(t, DepartmentScience, s.Department)
	assert.Equal(t, LeaveTypePersonal, s.LeaveType)
	assert.Equal(t, calendar.MustParseDate("2023-11-01"), s.StartDate)
}

func TestLeaveRequest_JSONUsesLabels(t *testing.T) {
	req := LeaveRequest{
		ID:        "42",
		Status:    StatusApproved,
		LeaveType: LeaveTypeVacation,
		StartDate: calendar.MustParseDate("2023-12-25"),
	}

	data, err := json.Marshal(req)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "อนุมัติ", raw["status"])
	assert.Equal(t, "ลาพักผ่อน", raw["leaveType"])
	assert.Equal(t, "2023-12-25", raw["startDate"])
	assert.NotContains(t, raw, "note")
}
