package calendar

import "fmt"

// BuddhistEraOffset converts a Gregorian year into the Thai Buddhist Era
const BuddhistEraOffset = 543

var thaiMonths = [...]string{
	"มกราคม", "กุมภาพันธ์", "มีนาคม", "เมษายน", "พฤษภาคม", "มิถุนายน",
	"กรกฎาคม", "สิงหาคม", "กันยายน", "ตุลาคม", "พฤศจิกายน", "ธันวาคม",
}

// BuddhistYear returns the Buddhist Era year for a Gregorian year
func BuddhistYear(year int) int {
	return year + BuddhistEraOffset
}

// ThaiMonthName returns the full Thai month name, or "" if m is out of range
func ThaiMonthName(m int) string {
	if m < 1 || m > len(thaiMonths) {
		return ""
	}
	return thaiMonths[m-1]
}

// FormatThaiLong renders d as "25 ตุลาคม พ.ศ. 2566"
func FormatThaiLong(d Date) string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d %s พ.ศ. %d", d.Day, ThaiMonthName(int(d.Month)), BuddhistYear(d.Year))
}

// FormatThaiShort renders d as "25/10/2566"
func FormatThaiShort(d Date) string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d/%d/%d", d.Day, int(d.Month), BuddhistYear(d.Year))
}
