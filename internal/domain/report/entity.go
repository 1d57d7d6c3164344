package report

import "time"

// StatusCounts is the attendance breakdown for one date.
type StatusCounts struct {
	Present    int
	Absent     int
	OnLeave    int
	Holiday    int
	Weekend    int
	Late       int
	HalfDay    int
	InProgress int
}

// Workbook is a generated spreadsheet.
type Workbook struct {
	Filename string
	Content  []byte
}

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// MonthDays lists each date of month.
func MonthDays(month time.Time) []time.Time {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	var days []time.Time
	for d := start; d.Month() == start.Month(); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
