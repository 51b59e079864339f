package report

import (
	"bufio"
	"io"
	"strings"
	"time"

	"github.com/garyjia/school-leave/internal/domain/calendar"
	"github.com/garyjia/school-leave/internal/domain/entity"
)

// utf8BOM lets spreadsheet programs detect the encoding
const utf8BOM = "\uFEFF"

// WriteCSV writes the BOM, the header row and one row per request. Dates
// use the Thai short form, free text is always quoted and rows end in "\n".
func WriteCSV(w io.Writer, leaves []entity.LeaveRequest, loc *time.Location) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(utf8BOM + strings.Join(Columns, ",")); err != nil {
		return err
	}

	for i := range leaves {
		leave := &leaves[i]
		fields := []string{
			calendar.FormatThaiShort(submittedOn(leave, loc)),
			quote(leave.FullName),
			quote(leave.Position),
			quote(leave.Department.Label()),
			quote(leave.LeaveType.Label()),
			calendar.FormatThaiShort(leave.StartDate),
			calendar.FormatThaiShort(leave.EndDate),
			quote(leave.Reason),
			quote(leave.Address),
			quote(leave.Contact),
			leave.Status.Label(),
			quote(leave.Note),
		}
		if _, err := bw.WriteString("\n" + strings.Join(fields, ",")); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
