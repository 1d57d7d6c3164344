package salary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/document"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/master/holiday"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/salary"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/email"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/attendance-hr-go/internal/repository/postgresql"
)

type SalaryServiceImpl struct {
	tx         postgresql.Transactor
	salaries   salary.SalaryRepository
	users      user.UserRepository
	attendance attendance.AttendanceRepository
	holidays   holiday.HolidayRepository
	documents  document.DocumentService
	notifier   notification.NotificationService
	mailer     email.Mailer
	location   *time.Location
	now        func() time.Time
}

func NewSalaryService(
	tx postgresql.Transactor,
	salaries salary.SalaryRepository,
	users user.UserRepository,
	attendanceRepo attendance.AttendanceRepository,
	holidays holiday.HolidayRepository,
	documents document.DocumentService,
	notifier notification.NotificationService,
	mailer email.Mailer,
	timezone string,
) salary.SalaryService {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		slog.Warn("Unknown timezone for salary months, using UTC", "timezone", timezone, "error", err)
		loc = time.UTC
	}
	return &SalaryServiceImpl{
		tx:         tx,
		salaries:   salaries,
		users:      users,
		attendance: attendanceRepo,
		holidays:   holidays,
		documents:  documents,
		notifier:   notifier,
		mailer:     mailer,
		location:   loc,
		now:        time.Now,
	}
}

// currentMonth is the first day of the running month in the company
// timezone.
func (s *SalaryServiceImpl) currentMonth() time.Time {
	now := s.now().In(s.location)
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// employedDuring reports whether u was on the rolls for any day of month.
func employedDuring(u user.User, month time.Time) bool {
	start, end := salary.MonthRange(month)
	if u.JoiningDate != nil && u.JoiningDate.After(end) {
		return false
	}
	if u.RelievingDate != nil && u.RelievingDate.Before(start) {
		return false
	}
	return true
}

func canSee(actor user.Actor, r salary.Record) bool {
	switch {
	case actor.IsHR():
		return true
	case actor.UserID == r.UserID:
		return true
	case actor.Role == user.RoleManager:
		return actor.OfficeID != nil && r.OfficeID != nil && *actor.OfficeID == *r.OfficeID
	}
	return false
}

// countAttendance returns present days and effective holidays for month.
func (s *SalaryServiceImpl) countAttendance(ctx context.Context, userID string, officeID *string, month time.Time) (int, int, error) {
	start, end := salary.MonthRange(month)

	present, err := s.attendance.CountPresent(ctx, userID, start, end)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count present days: %w", err)
	}

	list, err := s.holidays.Between(ctx, start, end, officeID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load holidays: %w", err)
	}
	dates := make([]time.Time, 0, len(list))
	for _, h := range list {
		dates = append(dates, h.Date)
	}
	return present, salary.EffectiveHolidays(month.Year(), month.Month(), dates), nil
}

// refresh recounts attendance for attendance-based records and recomputes
// pay. A failed count keeps the previous worked days; the count runs under a
// savepoint so the caller's transaction survives it.
func (s *SalaryServiceImpl) refresh(ctx context.Context, r *salary.Record, officeID *string) {
	if r.IsAttendanceBased {
		var present, holidays int
		err := s.tx.Savepoint(ctx, func(spCtx context.Context) error {
			var err error
			present, holidays, err = s.countAttendance(spCtx, r.UserID, officeID, r.Month)
			return err
		})
		if err != nil {
			slog.Error("Salary attendance count failed, keeping worked days",
				"user_id", r.UserID,
				"month", r.Month.Format("2006-01"),
				"worked_days", r.WorkedDays,
				"error", err,
			)
		} else {
			r.ApplyAttendance(present, salary.CountSundays(r.Month.Year(), r.Month.Month()), holidays)
		}
	}
	r.RecomputePay()
}

func newRecord(u user.User, month time.Time) salary.Record {
	return salary.Record{
		UserID:            u.ID,
		Month:             month,
		BasicSalary:       u.BasicSalary,
		PerDayPay:         u.PerDayPay(),
		Status:            salary.StatusPending,
		IsAttendanceBased: true,
	}
}

func (s *SalaryServiceImpl) getVisible(ctx context.Context, id string) (salary.Record, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return salary.Record{}, err
	}
	r, err := s.salaries.GetByID(ctx, id)
	if err != nil {
		return salary.Record{}, err
	}
	if !canSee(actor, r) {
		return salary.Record{}, salary.ErrForbidden
	}
	return r, nil
}

// List implements salary.SalaryService.
func (s *SalaryServiceImpl) List(ctx context.Context, filter salary.SalaryFilter) (salary.ListSalaryResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return salary.ListSalaryResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return salary.ListSalaryResponse{}, err
	}

	switch {
	case actor.IsHR():
	case actor.Role == user.RoleManager:
		if actor.OfficeID == nil {
			return salary.ListSalaryResponse{}, user.ErrInsufficientPermissions
		}
		filter.OfficeID = actor.OfficeID
	default:
		filter.UserID = &actor.UserID
	}

	records, total, err := s.salaries.List(ctx, filter)
	if err != nil {
		return salary.ListSalaryResponse{}, fmt.Errorf("failed to list salaries: %w", err)
	}
	resp := salary.ListSalaryResponse{Salaries: make([]salary.SalaryResponse, 0, len(records))}
	for _, r := range records {
		resp.Salaries = append(resp.Salaries, salary.NewSalaryResponse(r))
	}
	resp.Meta = pagination.NewMeta(filter.Params, total, len(records))
	return resp, nil
}

// Get implements salary.SalaryService.
func (s *SalaryServiceImpl) Get(ctx context.Context, id string) (salary.SalaryResponse, error) {
	r, err := s.getVisible(ctx, id)
	if err != nil {
		return salary.SalaryResponse{}, err
	}
	return salary.NewSalaryResponse(r), nil
}

// Create implements salary.SalaryService.
func (s *SalaryServiceImpl) Create(ctx context.Context, req salary.CreateSalaryRequest) (salary.SalaryResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.SalaryResponse{}, err
	}

	var created salary.Record
	err := s.tx.InTx(ctx, func(txCtx context.Context) error {
		u, err := s.users.GetByID(txCtx, req.UserID)
		if err != nil {
			return err
		}
		existing, err := s.salaries.FindByUserAndMonth(txCtx, u.ID, req.MonthStart)
		if err != nil {
			return err
		}
		if existing != nil {
			return salary.ErrSalaryExists
		}

		r := newRecord(u, req.MonthStart)
		if req.PerDayPay != nil {
			r.PerDayPay = *req.PerDayPay
		}
		if req.WorkedDays != nil {
			r.IsAttendanceBased = false
			r.WorkedDays = *req.WorkedDays
		}
		r.Deduction = req.Deduction
		r.LoanBalance = req.LoanBalance
		r.PreviousMonthCarryOver = req.PreviousMonthCarryOver
		r.Notes = req.Notes
		s.refresh(txCtx, &r, u.OfficeID)

		created, err = s.salaries.Create(txCtx, r)
		return err
	})
	if err != nil {
		return salary.SalaryResponse{}, err
	}
	return salary.NewSalaryResponse(created), nil
}

// Update implements salary.SalaryService.
func (s *SalaryServiceImpl) Update(ctx context.Context, req salary.UpdateSalaryRequest) (salary.SalaryResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.SalaryResponse{}, err
	}

	var updated salary.Record
	err := s.tx.InTx(ctx, func(txCtx context.Context) error {
		r, err := s.salaries.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		if r.IsPaid() {
			return salary.ErrSalaryAlreadyPaid
		}

		if req.PerDayPay != nil {
			r.PerDayPay = *req.PerDayPay
		}
		if req.IsAttendanceBased != nil {
			r.IsAttendanceBased = *req.IsAttendanceBased
		}
		if req.WorkedDays != nil {
			r.IsAttendanceBased = false
			r.WorkedDays = *req.WorkedDays
		}
		if req.Deduction != nil {
			r.Deduction = *req.Deduction
		}
		if req.LoanBalance != nil {
			r.LoanBalance = *req.LoanBalance
		}
		if req.PreviousMonthCarryOver != nil {
			r.PreviousMonthCarryOver = *req.PreviousMonthCarryOver
		}
		if req.Notes != nil {
			r.Notes = req.Notes
		}
		s.refresh(txCtx, &r, r.OfficeID)

		updated, err = s.salaries.Update(txCtx, r)
		return err
	})
	if err != nil {
		return salary.SalaryResponse{}, err
	}
	return salary.NewSalaryResponse(updated), nil
}

// Calculate implements salary.SalaryService.
func (s *SalaryServiceImpl) Calculate(ctx context.Context, req salary.CalculateRequest) (salary.CalculateResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.CalculateResponse{}, err
	}
	if req.MonthStart.After(s.currentMonth()) {
		return salary.CalculateResponse{}, salary.ErrMonthNotClosed
	}

	users, err := s.users.ListActive(ctx, req.OfficeID)
	if err != nil {
		return salary.CalculateResponse{}, fmt.Errorf("failed to list users: %w", err)
	}
	if len(req.UserIDs) > 0 {
		wanted := make(map[string]struct{}, len(req.UserIDs))
		for _, id := range req.UserIDs {
			wanted[id] = struct{}{}
		}
		filtered := users[:0]
		for _, u := range users {
			if _, ok := wanted[u.ID]; ok {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}

	resp := salary.CalculateResponse{Month: req.MonthStart.Format("2006-01")}
	for _, u := range users {
		if ctx.Err() != nil {
			return resp, ctx.Err()
		}
		if !employedDuring(u, req.MonthStart) {
			continue
		}

		outcome, err := s.calculateUser(ctx, u, req.MonthStart)
		if err != nil {
			resp.Failed++
			slog.Error("Salary calculation failed", "user_id", u.ID, "month", resp.Month, "error", err)
			continue
		}
		switch outcome {
		case outcomeCreated:
			resp.Created++
		case outcomeUpdated:
			resp.Updated++
		case outcomeSkippedPaid:
			resp.SkippedPaid++
		}
	}

	slog.Info("Salaries calculated",
		"month", resp.Month,
		"created", resp.Created,
		"updated", resp.Updated,
		"skipped_paid", resp.SkippedPaid,
		"failed", resp.Failed,
	)
	return resp, nil
}

type calcOutcome int

const (
	outcomeCreated calcOutcome = iota
	outcomeUpdated
	outcomeSkippedPaid
)

func (s *SalaryServiceImpl) calculateUser(ctx context.Context, u user.User, month time.Time) (calcOutcome, error) {
	var outcome calcOutcome
	err := s.tx.InTx(ctx, func(txCtx context.Context) error {
		existing, err := s.salaries.FindByUserAndMonth(txCtx, u.ID, month)
		if err != nil {
			return err
		}

		if existing == nil {
			r := newRecord(u, month)
			s.refresh(txCtx, &r, u.OfficeID)
			_, err := s.salaries.Create(txCtx, r)
			outcome = outcomeCreated
			return err
		}

		if existing.IsPaid() {
			outcome = outcomeSkippedPaid
			return nil
		}
		s.refresh(txCtx, existing, u.OfficeID)
		_, err = s.salaries.Update(txCtx, *existing)
		outcome = outcomeUpdated
		return err
	})
	return outcome, err
}

// Recalculate implements salary.SalaryService.
func (s *SalaryServiceImpl) Recalculate(ctx context.Context, id string) (salary.SalaryResponse, error) {
	var updated salary.Record
	err := s.tx.InTx(ctx, func(txCtx context.Context) error {
		r, err := s.salaries.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if r.IsPaid() {
			return salary.ErrSalaryAlreadyPaid
		}
		s.refresh(txCtx, &r, r.OfficeID)
		updated, err = s.salaries.Update(txCtx, r)
		return err
	})
	if err != nil {
		return salary.SalaryResponse{}, err
	}
	return salary.NewSalaryResponse(updated), nil
}

// CalculatePreviousMonth implements salary.SalaryService.
func (s *SalaryServiceImpl) CalculatePreviousMonth(ctx context.Context, now time.Time) (salary.CalculateResponse, error) {
	local := now.In(s.location)
	prev := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return s.Calculate(ctx, salary.CalculateRequest{Month: prev.Format("2006-01")})
}

func (s *SalaryServiceImpl) transition(ctx context.Context, req salary.StatusChangeRequest, next salary.Status) (salary.Record, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return salary.Record{}, err
	}

	var updated salary.Record
	err = s.tx.InTx(ctx, func(txCtx context.Context) error {
		r, err := s.salaries.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		if r.IsPaid() {
			return salary.ErrSalaryAlreadyPaid
		}
		if !r.Status.CanTransition(next) {
			return salary.ErrInvalidTransition
		}

		r.Status = next
		if next == salary.StatusPaid {
			now := s.now()
			r.PaidAt = &now
			if actor.UserID != "" {
				r.PaidBy = &actor.UserID
			}
		}
		if req.Notes != nil {
			r.Notes = req.Notes
		}
		updated, err = s.salaries.Update(txCtx, r)
		return err
	})
	return updated, err
}

// MarkPaid implements salary.SalaryService.
func (s *SalaryServiceImpl) MarkPaid(ctx context.Context, req salary.StatusChangeRequest) (salary.SalaryResponse, error) {
	r, err := s.transition(ctx, req, salary.StatusPaid)
	if err != nil {
		return salary.SalaryResponse{}, err
	}
	s.announcePaid(ctx, r)
	return salary.NewSalaryResponse(r), nil
}

// Hold implements salary.SalaryService.
func (s *SalaryServiceImpl) Hold(ctx context.Context, req salary.StatusChangeRequest) (salary.SalaryResponse, error) {
	r, err := s.transition(ctx, req, salary.StatusHold)
	if err != nil {
		return salary.SalaryResponse{}, err
	}
	return salary.NewSalaryResponse(r), nil
}

// Release implements salary.SalaryService.
func (s *SalaryServiceImpl) Release(ctx context.Context, req salary.StatusChangeRequest) (salary.SalaryResponse, error) {
	r, err := s.transition(ctx, req, salary.StatusPending)
	if errors.Is(err, salary.ErrInvalidTransition) {
		return salary.SalaryResponse{}, fmt.Errorf("%w: only held salaries can be released", err)
	}
	if err != nil {
		return salary.SalaryResponse{}, err
	}
	return salary.NewSalaryResponse(r), nil
}
