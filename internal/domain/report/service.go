package report

import "context"

type ReportService interface {
	TodaySummary(ctx context.Context) (TodaySummaryResponse, error)
	MonthlyAttendance(ctx context.Context, req MonthlyReportRequest) (Workbook, error)
	MonthlySalaries(ctx context.Context, req MonthlyReportRequest) (Workbook, error)
}
