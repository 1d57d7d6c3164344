package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/master/holiday"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/master/office"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/attendance-hr-go/internal/repository/postgresql"
)

var (
	_ attendance.AttendanceService = (*AttendanceServiceImpl)(nil)
	_ punch.Ingestor               = (*AttendanceServiceImpl)(nil)
)

type AttendanceServiceImpl struct {
	tx       postgresql.Transactor
	days     attendance.AttendanceRepository
	punches  punch.PunchRepository
	users    user.UserRepository
	offices  office.OfficeRepository
	holidays holiday.HolidayRepository
	leaves   leave.LeaveRepository
	defaults attendance.Policy
	now      func() time.Time
}

func NewAttendanceService(
	tx postgresql.Transactor,
	days attendance.AttendanceRepository,
	punches punch.PunchRepository,
	users user.UserRepository,
	offices office.OfficeRepository,
	holidays holiday.HolidayRepository,
	leaves leave.LeaveRepository,
	defaults attendance.Policy,
) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		tx:       tx,
		days:     days,
		punches:  punches,
		users:    users,
		offices:  offices,
		holidays: holidays,
		leaves:   leaves,
		defaults: defaults,
		now:      time.Now,
	}
}

func canSee(actor user.Actor, day attendance.Day) bool {
	switch {
	case actor.IsHR():
		return true
	case actor.UserID == day.UserID:
		return true
	case actor.Role == user.RoleManager:
		return actor.OfficeID != nil && day.OfficeID != nil && *actor.OfficeID == *day.OfficeID
	}
	return false
}

func (s *AttendanceServiceImpl) list(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	days, total, err := s.days.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	resp := attendance.ListAttendanceResponse{Attendances: make([]attendance.AttendanceResponse, 0, len(days))}
	for _, d := range days {
		resp.Attendances = append(resp.Attendances, attendance.NewAttendanceResponse(d))
	}
	resp.Meta = pagination.NewMeta(filter.Params, total, len(days))
	return resp, nil
}

// List implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) List(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	switch {
	case actor.IsHR():
	case actor.Role == user.RoleManager:
		if actor.OfficeID == nil {
			return attendance.ListAttendanceResponse{}, user.ErrInsufficientPermissions
		}
		filter.OfficeID = actor.OfficeID
	default:
		filter.UserID = &actor.UserID
	}
	return s.list(ctx, filter)
}

// ListMine implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListMine(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	filter.UserID = &actor.UserID
	filter.OfficeID = nil
	return s.list(ctx, filter)
}

// Get implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Get(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	day, err := s.days.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !canSee(actor, day) {
		return attendance.AttendanceResponse{}, attendance.ErrForbidden
	}
	return attendance.NewAttendanceResponse(day), nil
}

// Update implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Update(ctx context.Context, req attendance.UpdateDayRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var saved attendance.Day
	err := s.tx.InTx(ctx, func(txCtx context.Context) error {
		existing, err := s.days.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		if err := s.days.LockUserDate(txCtx, existing.UserID, existing.Date); err != nil {
			return fmt.Errorf("failed to lock attendance day: %w", err)
		}
		day, err := s.days.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}

		if req.CheckInAt != nil {
			day.CheckIn = req.CheckInAt
		}
		if req.CheckOutAt != nil {
			day.CheckOut = req.CheckOutAt
		}
		if req.ClearCheckOut {
			day.CheckOut = nil
		}
		if req.Remarks != nil {
			day.Remarks = req.Remarks
		}

		if day.CheckOut != nil {
			if day.CheckIn == nil {
				return attendance.ErrCheckOutWithoutIn
			}
			if !day.CheckOut.After(*day.CheckIn) {
				return attendance.ErrCheckOutBeforeIn
			}
		}

		pols := newPolicies(s.offices, s.defaults)
		cal := newCalendar(s.holidays, s.leaves)
		if err := s.reclassify(txCtx, &day, pols, cal, s.now()); err != nil {
			return err
		}

		saved, err = s.days.Upsert(txCtx, day)
		if err != nil {
			return fmt.Errorf("failed to save attendance day: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Attendance corrected", "attendance_id", saved.ID, "user_id", saved.UserID, "status", saved.Status)
	return attendance.NewAttendanceResponse(saved), nil
}

// Recalculate implements attendance.AttendanceService. Each row is
// re-derived under its own lock; a failing row is counted and skipped.
func (s *AttendanceServiceImpl) Recalculate(ctx context.Context, req attendance.RecalculateRequest) (attendance.RecalculateResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecalculateResponse{}, err
	}

	days, err := s.days.ListRange(ctx, req.From, req.To, req.UserID, req.OfficeID)
	if err != nil {
		return attendance.RecalculateResponse{}, fmt.Errorf("failed to load attendance range: %w", err)
	}

	var (
		resp = attendance.RecalculateResponse{}
		pols = newPolicies(s.offices, s.defaults)
		cal  = newCalendar(s.holidays, s.leaves)
		now  = s.now()
	)
	for _, listed := range days {
		resp.Processed++
		changed := false
		err := s.tx.InTx(ctx, func(txCtx context.Context) error {
			if err := s.days.LockUserDate(txCtx, listed.UserID, listed.Date); err != nil {
				return err
			}
			current, err := s.days.FindByUserAndDate(txCtx, listed.UserID, listed.Date)
			if err != nil || current == nil {
				return err
			}

			day := *current
			if err := s.reclassify(txCtx, &day, pols, cal, now); err != nil {
				return err
			}
			if sameClassification(*current, day) {
				return nil
			}
			if _, err := s.days.Upsert(txCtx, day); err != nil {
				return err
			}
			changed = true
			return nil
		})
		if err != nil {
			resp.Failed++
			slog.Error("Failed to recalculate attendance day",
				"user_id", listed.UserID,
				"date", listed.Date.Format("2006-01-02"),
				"error", err,
			)
			continue
		}
		if changed {
			resp.Changed++
		}
	}

	slog.Info("Attendance recalculated",
		"from", req.DateFrom,
		"to", req.DateTo,
		"processed", resp.Processed,
		"changed", resp.Changed,
		"failed", resp.Failed,
	)
	return resp, nil
}

// RecordManualPunch implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RecordManualPunch(ctx context.Context, req attendance.ManualPunchRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if req.At.After(s.now()) {
		return attendance.AttendanceResponse{}, attendance.ErrPunchInFuture
	}

	u, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !u.IsActive {
		return attendance.AttendanceResponse{}, user.ErrUserInactive
	}

	rec := punch.Record{Timestamp: req.At, StatusCode: punch.StatusUnknown}
	if u.BiometricID != nil {
		rec.BiometricID = *u.BiometricID
	}
	batch := punch.Batch{
		Source:  punch.SourceManual,
		UserID:  &u.ID,
		Remarks: req.Remarks,
		Records: []punch.Record{rec},
	}
	if _, err := s.Ingest(ctx, batch); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	pol := newPolicies(s.offices, s.defaults).get(ctx, u.OfficeID)
	day, err := s.days.FindByUserAndDate(ctx, u.ID, attendance.DateOf(req.At, location(pol)))
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load attendance day: %w", err)
	}
	if day == nil {
		return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
	}
	return attendance.NewAttendanceResponse(*day), nil
}
