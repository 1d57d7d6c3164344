package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/user"
)

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// employedOn excludes users who had not joined yet or had already left.
func employedOn(u user.User, date time.Time) bool {
	if u.JoiningDate != nil && date.Before(dateOnly(*u.JoiningDate)) {
		return false
	}
	if u.RelievingDate != nil && date.After(dateOnly(*u.RelievingDate)) {
		return false
	}
	return true
}

// BackfillAbsences implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) BackfillAbsences(ctx context.Context, date time.Time) (attendance.BackfillResult, error) {
	date = dateOnly(date)
	result := attendance.BackfillResult{Date: date.Format("2006-01-02")}

	if date.After(attendance.DateOf(s.now(), location(s.defaults))) {
		return result, attendance.ErrBackfillFuture
	}

	users, err := s.users.ListActive(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("failed to list active users: %w", err)
	}

	cal := newCalendar(s.holidays, s.leaves)
	for _, u := range users {
		if !employedOn(u, date) {
			continue
		}

		status, err := cal.absence(ctx, u.ID, u.OfficeID, date)
		if err != nil {
			result.Failed++
			slog.Error("Failed to classify absence", "user_id", u.ID, "date", result.Date, "error", err)
			continue
		}

		created, err := s.days.CreateIfMissing(ctx, attendance.Absence(u.ID, date, status))
		if err != nil {
			result.Failed++
			slog.Error("Failed to backfill absence", "user_id", u.ID, "date", result.Date, "error", err)
			continue
		}
		if created {
			result.Created++
		} else {
			result.Existing++
		}
	}

	slog.Info("Absences backfilled",
		"date", result.Date,
		"created", result.Created,
		"existing", result.Existing,
		"failed", result.Failed,
	)
	return result, nil
}

type rebuildKey struct {
	userID string
	date   time.Time
}

// Rebuild implements attendance.AttendanceService. Punches are read with a
// day of margin on both sides so that local dates near midnight are whole.
func (s *AttendanceServiceImpl) Rebuild(ctx context.Context, from, to time.Time) (attendance.RebuildResult, error) {
	var result attendance.RebuildResult
	from, to = dateOnly(from), dateOnly(to)
	if to.Before(from) {
		return result, fmt.Errorf("rebuild range ends before it starts")
	}

	events, err := s.punches.ListForRebuild(ctx, from.AddDate(0, 0, -1), to.AddDate(0, 0, 2))
	if err != nil {
		return result, fmt.Errorf("failed to load punches: %w", err)
	}

	pols := newPolicies(s.offices, s.defaults)
	owners := make(map[string]*user.User)
	groups := make(map[rebuildKey][]time.Time)
	var order []rebuildKey

	for _, e := range events {
		if e.UserID == nil {
			continue
		}
		u, ok := owners[*e.UserID]
		if !ok {
			found, err := s.users.GetByID(ctx, *e.UserID)
			if err != nil {
				slog.Warn("Skipping punches of unknown user", "user_id", *e.UserID, "error", err)
			} else {
				u = &found
			}
			owners[*e.UserID] = u
		}
		if u == nil {
			continue
		}

		date := attendance.DateOf(e.PunchTime, location(pols.get(ctx, u.OfficeID)))
		if date.Before(from) || date.After(to) {
			continue
		}
		key := rebuildKey{userID: u.ID, date: date}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], e.PunchTime)
	}

	sort.Slice(order, func(i, j int) bool {
		if !order[i].date.Equal(order[j].date) {
			return order[i].date.Before(order[j].date)
		}
		return order[i].userID < order[j].userID
	})

	now := s.now()
	for _, key := range order {
		punches := groups[key]
		sort.Slice(punches, func(i, j int) bool { return punches[i].Before(punches[j]) })
		pol := pols.get(ctx, owners[key.userID].OfficeID)

		err := s.tx.InTx(ctx, func(txCtx context.Context) error {
			if err := s.days.LockUserDate(txCtx, key.userID, key.date); err != nil {
				return err
			}
			existing, err := s.days.FindByUserAndDate(txCtx, key.userID, key.date)
			if err != nil {
				return err
			}

			day := attendance.Fold(key.userID, key.date, punches)
			if existing != nil {
				day.Remarks = existing.Remarks
			}
			derive(day, now, pol)
			_, err = s.days.Upsert(txCtx, *day)
			return err
		})
		if err != nil {
			result.Failed++
			slog.Error("Failed to rebuild attendance day",
				"user_id", key.userID,
				"date", key.date.Format("2006-01-02"),
				"error", err,
			)
			continue
		}
		result.Days++
	}

	slog.Info("Attendance rebuilt",
		"from", from.Format("2006-01-02"),
		"to", to.Format("2006-01-02"),
		"days", result.Days,
		"failed", result.Failed,
	)
	return result, nil
}
