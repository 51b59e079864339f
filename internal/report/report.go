// Package report renders leave requests as CSV, XLSX workbooks and printable memos.
package report

import (
	"fmt"
	"time"

	"github.com/garyjia/school-leave/internal/domain/calendar"
	"github.com/garyjia/school-leave/internal/domain/entity"
)

// Columns are the report headers, in order
var Columns = []string{
	"วันที่แจ้ง",
	"ชื่อ-สกุล",
	"ตำแหน่ง",
	"กลุ่มสาระฯ",
	"ประเภทการลา",
	"เริ่มวันที่",
	"ถึงวันที่",
	"เหตุผล",
	"ที่อยู่ระหว่างลา",
	"ติดต่อ",
	"สถานะ",
	"หมายเหตุ",
}

// FileName returns report_leave_YYYY-MM-DD.<ext>, dated in UTC
func FileName(now time.Time, ext string) string {
	return fmt.Sprintf("report_leave_%s.%s", now.UTC().Format(calendar.DateLayout), ext)
}

// submittedOn is the civil date of the submission in loc
func submittedOn(leave *entity.LeaveRequest, loc *time.Location) calendar.Date {
	if leave.CreatedAt.IsZero() {
		return calendar.Date{}
	}
	if loc != nil {
		return calendar.DateOf(leave.CreatedAt.In(loc))
	}
	return calendar.DateOf(leave.CreatedAt)
}
