package report

import (
	"fmt"
	"io"
	"time"

	"github.com/garyjia/school-leave/internal/domain/calendar"
	"github.com/garyjia/school-leave/internal/domain/entity"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the report
const SheetName = "รายงานการลา"

// workbookColumns inserts the day count after the end date
var workbookColumns = func() []string {
	cols := make([]string, 0, len(Columns)+1)
	cols = append(cols, Columns[:7]...)
	cols = append(cols, "จำนวนวัน")
	return append(cols, Columns[7:]...)
}()

// WriteWorkbook writes an XLSX report with the same rows as WriteCSV
func WriteWorkbook(w io.Writer, leaves []entity.LeaveRequest, loc *time.Location) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(workbookColumns))
	for i, col := range workbookColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DBEAFE"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(workbookColumns))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i := range leaves {
		leave := &leaves[i]
		row := []interface{}{
			calendar.FormatThaiShort(submittedOn(leave, loc)),
			leave.FullName,
			leave.Position,
			leave.Department.Label(),
			leave.LeaveType.Label(),
			calendar.FormatThaiShort(leave.StartDate),
			calendar.FormatThaiShort(leave.EndDate),
			leave.TotalDays,
			leave.Reason,
			leave.Address,
			leave.Contact,
			leave.Status.Label(),
			leave.Note,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(SheetName, "A", lastCol, 18); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
