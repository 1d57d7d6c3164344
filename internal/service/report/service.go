package report

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/master/holiday"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/salary"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/user"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
)

type ReportServiceImpl struct {
	reports    report.ReportRepository
	users      user.UserRepository
	attendance attendance.AttendanceRepository
	holidays   holiday.HolidayRepository
	salaries   salary.SalaryRepository
	location   *time.Location
	now        func() time.Time
}

func NewReportService(
	reports report.ReportRepository,
	users user.UserRepository,
	attendanceRepo attendance.AttendanceRepository,
	holidays holiday.HolidayRepository,
	salaries salary.SalaryRepository,
	timezone string,
) report.ReportService {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		slog.Warn("Unknown timezone for reports, using UTC", "timezone", timezone, "error", err)
		loc = time.UTC
	}
	return &ReportServiceImpl{
		reports:    reports,
		users:      users,
		attendance: attendanceRepo,
		holidays:   holidays,
		salaries:   salaries,
		location:   loc,
		now:        time.Now,
	}
}

// officeScope narrows HR requests to the requested office and managers to
// their own. Employees have no report access.
func officeScope(actor user.Actor, requested *string) (*string, error) {
	switch {
	case actor.IsHR():
		return requested, nil
	case actor.Role == user.RoleManager && actor.OfficeID != nil:
		return actor.OfficeID, nil
	}
	return nil, user.ErrInsufficientPermissions
}

// TodaySummary implements report.ReportService.
func (s *ReportServiceImpl) TodaySummary(ctx context.Context) (report.TodaySummaryResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return report.TodaySummaryResponse{}, err
	}
	officeID, err := officeScope(actor, nil)
	if err != nil {
		return report.TodaySummaryResponse{}, err
	}
	today := attendance.DateOf(s.now(), s.location)

	var (
		counts  report.StatusCounts
		total   int
		devices map[string]int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = s.reports.StatusCounts(gctx, today, officeID)
		if err != nil {
			return fmt.Errorf("failed to count attendance: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		total, err = s.reports.ActiveEmployees(gctx, officeID)
		if err != nil {
			return fmt.Errorf("failed to count employees: %w", err)
		}
		return nil
	})
	if actor.IsHR() {
		g.Go(func() error {
			var err error
			devices, err = s.reports.DeviceStatusCounts(gctx)
			if err != nil {
				return fmt.Errorf("failed to count devices: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report.TodaySummaryResponse{}, err
	}

	marked := counts.Present + counts.Absent + counts.OnLeave + counts.Holiday + counts.Weekend
	resp := report.TodaySummaryResponse{
		Date:           today.Format("2006-01-02"),
		TotalEmployees: total,
		Present:        counts.Present,
		Absent:         counts.Absent,
		OnLeave:        counts.OnLeave,
		NotMarked:      max(total-marked, 0),
		Late:           counts.Late,
		HalfDay:        counts.HalfDay,
		InProgress:     counts.InProgress,
		Devices:        devices,
	}
	if total > 0 {
		resp.AttendanceRate = math.Round(float64(counts.Present)*1000/float64(total)) / 10
	}
	return resp, nil
}

// dayCode is the register cell for one attendance row.
func dayCode(d attendance.Day) string {
	switch d.Status {
	case attendance.StatusPresent:
		if d.DayStatus == attendance.DayHalf {
			return "HD"
		}
		return "P"
	case attendance.StatusAbsent:
		return "A"
	case attendance.StatusOnLeave:
		return "L"
	case attendance.StatusHoliday:
		return "H"
	case attendance.StatusWeekend:
		return "W"
	}
	return ""
}

type registerTotals struct {
	present, half, absent, leave, off, late int
}

func (t *registerTotals) add(d attendance.Day) {
	switch dayCode(d) {
	case "P":
		t.present++
	case "HD":
		t.half++
	case "A":
		t.absent++
	case "L":
		t.leave++
	case "H", "W":
		t.off++
	}
	if d.IsLate {
		t.late++
	}
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
}

func writeHeader(f *excelize.File, sheet string, row int, headers []string) error {
	style, err := headerStyle(f)
	if err != nil {
		return err
	}
	for i, h := range headers {
		if err := f.SetCellValue(sheet, cell(i+1, row), h); err != nil {
			return err
		}
	}
	return f.SetCellStyle(sheet, cell(1, row), cell(len(headers), row), style)
}

func workbookBytes(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// MonthlyAttendance implements report.ReportService. One row per active
// user, one column per day and the month totals.
func (s *ReportServiceImpl) MonthlyAttendance(ctx context.Context, req report.MonthlyReportRequest) (report.Workbook, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return report.Workbook{}, err
	}
	if err := req.Validate(); err != nil {
		return report.Workbook{}, err
	}
	officeID, err := officeScope(actor, req.OfficeID)
	if err != nil {
		return report.Workbook{}, err
	}

	days := report.MonthDays(req.MonthStart)
	from, to := days[0], days[len(days)-1]

	var (
		users    []user.User
		rows     []attendance.Day
		holidays []holiday.Holiday
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = s.users.ListActive(gctx, officeID)
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		rows, err = s.attendance.ListRange(gctx, from, to, nil, officeID)
		if err != nil {
			return fmt.Errorf("failed to list attendance: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		holidays, err = s.holidays.Between(gctx, from, to, officeID)
		if err != nil {
			return fmt.Errorf("failed to list holidays: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return report.Workbook{}, err
	}

	byUser := make(map[string]map[int]attendance.Day, len(users))
	for _, d := range rows {
		if byUser[d.UserID] == nil {
			byUser[d.UserID] = make(map[int]attendance.Day)
		}
		byUser[d.UserID][d.Date.Day()] = d
	}
	holidayOn := make(map[int]string, len(holidays))
	for _, h := range holidays {
		holidayOn[h.Date.Day()] = h.Name
	}
	sort.Slice(users, func(i, j int) bool { return users[i].FullName < users[j].FullName })

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Attendance"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return report.Workbook{}, err
	}

	title := fmt.Sprintf("Attendance Register - %s", req.MonthStart.Format("January 2006"))
	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return report.Workbook{}, err
	}

	headers := []string{"Employee Code", "Name"}
	for _, d := range days {
		headers = append(headers, fmt.Sprintf("%02d %s", d.Day(), d.Weekday().String()[:2]))
	}
	headers = append(headers, "Present", "Half Day", "Absent", "Leave", "Off", "Late")
	if err := writeHeader(f, sheet, 3, headers); err != nil {
		return report.Workbook{}, err
	}

	row := 4
	for _, u := range users {
		values := []any{str(u.EmployeeCode), u.FullName}
		var totals registerTotals
		for _, d := range days {
			code := ""
			if rec, ok := byUser[u.ID][d.Day()]; ok {
				code = dayCode(rec)
				totals.add(rec)
			} else if _, ok := holidayOn[d.Day()]; ok {
				code = "H"
			} else if d.Weekday() == time.Sunday {
				code = "W"
			}
			values = append(values, code)
		}
		values = append(values, totals.present, totals.half, totals.absent, totals.leave, totals.off, totals.late)
		if err := f.SetSheetRow(sheet, cell(1, row), &values); err != nil {
			return report.Workbook{}, err
		}
		row++
	}

	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	_ = f.SetColWidth(sheet, "A", "A", 15)
	_ = f.SetColWidth(sheet, "B", "B", 25)
	_ = f.SetColWidth(sheet, "C", lastCol, 7)

	if len(holidays) > 0 {
		row++
		_ = f.SetCellValue(sheet, cell(1, row), "Holidays")
		for _, h := range holidays {
			row++
			_ = f.SetCellValue(sheet, cell(1, row), h.Date.Format("2006-01-02"))
			_ = f.SetCellValue(sheet, cell(2, row), h.Name)
		}
	}

	content, err := workbookBytes(f)
	if err != nil {
		return report.Workbook{}, err
	}
	slog.Info("Attendance register generated", "month", req.Month, "users", len(users), "rows", len(rows))
	return report.Workbook{
		Filename: fmt.Sprintf("attendance-%s.xlsx", req.Month),
		Content:  content,
	}, nil
}

// MonthlySalaries implements report.ReportService.
func (s *ReportServiceImpl) MonthlySalaries(ctx context.Context, req report.MonthlyReportRequest) (report.Workbook, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return report.Workbook{}, err
	}
	if err := req.Validate(); err != nil {
		return report.Workbook{}, err
	}
	officeID, err := officeScope(actor, req.OfficeID)
	if err != nil {
		return report.Workbook{}, err
	}

	records, err := s.salaries.ListMonth(ctx, req.MonthStart, officeID)
	if err != nil {
		return report.Workbook{}, fmt.Errorf("failed to list salaries: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Salaries"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return report.Workbook{}, err
	}
	if err := f.SetCellValue(sheet, "A1", fmt.Sprintf("Salary Sheet - %s", req.MonthStart.Format("January 2006"))); err != nil {
		return report.Workbook{}, err
	}

	headers := []string{
		"Employee Code", "Name", "Designation", "Office", "Basic Salary", "Per Day",
		"Present", "Sundays", "Holidays", "Extra", "Worked Days",
		"Gross", "Deduction", "Loan", "Carry Over", "Net", "Final Payable", "Status",
	}
	if err := writeHeader(f, sheet, 3, headers); err != nil {
		return report.Workbook{}, err
	}

	row := 4
	for _, r := range records {
		values := []any{
			str(r.EmployeeCode), str(r.UserName), str(r.Designation), str(r.OfficeName),
			r.BasicSalary.InexactFloat64(), r.PerDayPay.InexactFloat64(),
			r.PresentDays, r.Sundays, r.Holidays, r.ExtraDays, r.WorkedDays,
			r.GrossSalary.InexactFloat64(), r.Deduction.InexactFloat64(), r.LoanBalance.InexactFloat64(),
			r.PreviousMonthCarryOver.InexactFloat64(), r.NetSalary.InexactFloat64(), r.FinalPayable.InexactFloat64(),
			string(r.Status),
		}
		if err := f.SetSheetRow(sheet, cell(1, row), &values); err != nil {
			return report.Workbook{}, err
		}
		row++
	}
	if len(records) > 0 {
		_ = f.SetCellValue(sheet, cell(2, row), "Total")
		_ = f.SetCellFormula(sheet, cell(17, row), fmt.Sprintf("SUM(Q4:Q%d)", row-1))
	}
	_ = f.SetColWidth(sheet, "A", "A", 15)
	_ = f.SetColWidth(sheet, "B", "D", 22)
	_ = f.SetColWidth(sheet, "E", "R", 12)

	content, err := workbookBytes(f)
	if err != nil {
		return report.Workbook{}, err
	}
	return report.Workbook{
		Filename: fmt.Sprintf("salaries-%s.xlsx", req.Month),
		Content:  content,
	}, nil
}
