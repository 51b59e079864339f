package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/garyjia/school-leave/internal/domain/calendar"
	"github.com/garyjia/school-leave/internal/domain/entity"
)

//go:embed templates/memo.html
var templateFS embed.FS

var memoTemplate = template.Must(template.ParseFS(templateFS, "templates/memo.html"))

const (
	missingDate = "...................."
	missingDays = "..."
)

// MemoData holds the rendered strings of one memo
type MemoData struct {
	SchoolName   string
	DocumentDate string
	FullName     string
	Position     string
	Department   string
	LeaveType    string
	Reason       string
	StartDate    string
	EndDate      string
	TotalDays    string
	Address      string
	Contact      string
}

// NewMemoData formats a request for the memo. The document date is the
// submission date, or now when the request has not been stored yet.
func NewMemoData(leave *entity.LeaveRequest, schoolName string, now time.Time, loc *time.Location) MemoData {
	docDate := submittedOn(leave, loc)
	if docDate.IsZero() {
		if loc != nil {
			now = now.In(loc)
		}
		docDate = calendar.DateOf(now)
	}

	totalDays := missingDays
	if leave.TotalDays > 0 {
		totalDays = strconv.Itoa(leave.TotalDays)
	}

	return MemoData{
		SchoolName:   schoolName,
		DocumentDate: calendar.FormatThaiLong(docDate),
		FullName:     leave.FullName,
		Position:     leave.Position,
		Department:   leave.Department.Label(),
		LeaveType:    leave.LeaveType.Label(),
		Reason:       leave.Reason,
		StartDate:    longOrMissing(leave.StartDate),
		EndDate:      longOrMissing(leave.EndDate),
		TotalDays:    totalDays,
		Address:      leave.Address,
		Contact:      leave.Contact,
	}
}

// RenderMemo writes the HTML memo
func RenderMemo(w io.Writer, data MemoData) error {
	if err := memoTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render memo: %w", err)
	}
	return nil
}

func longOrMissing(d calendar.Date) string {
	if d.IsZero() {
		return missingDate
	}
	return calendar.FormatThaiLong(d)
}
