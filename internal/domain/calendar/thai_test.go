package calendar

import "testing"

func TestFormatThai(t *testing.T) {
	tests := []struct {
		date      string
		wantLong  string
		wantShort string
	}{
		{"2023-10-25", "25 ตุลาคม พ.ศ. 2566", "25/10/2566"},
		{"2024-01-01", "1 มกราคม พ.ศ. 2567", "1/1/2567"},
		{"2023-12-31", "31 ธันวาคม พ.ศ. 2566", "31/12/2566"},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d := MustParseDate(tt.date)
			if got := FormatThaiLong(d); got != tt.wantLong {
				t.Errorf("FormatThaiLong() = %q, want %q", got, tt.wantLong)
			}
			if got := FormatThaiShort(d); got != tt.wantShort {
				t.Errorf("FormatThaiShort() = %q, want %q", got, tt.wantShort)
			}
		})
	}
}

func TestFormatThai_ZeroDate(t *testing.T) {
	if got := FormatThaiLong(Date{}); got != "" {
		t.Errorf("FormatThaiLong(zero) = %q, want empty", got)
	}
	if got := ThaiMonthName(13); got != "" {
		t.Errorf("ThaiMonthName(13) = %q, want empty", got)
	}
}
