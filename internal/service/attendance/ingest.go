package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/user"
)

// Ingest implements punch.Ingestor. The whole batch is one transaction:
// either every new record is stored and folded into its day, or none is.
func (s *AttendanceServiceImpl) Ingest(ctx context.Context, batch punch.Batch) (punch.IngestResult, error) {
	result := punch.IngestResult{Received: len(batch.Records)}
	if len(batch.Records) == 0 {
		return result, nil
	}

	deviceKey := string(punch.SourceManual)
	switch {
	case batch.DeviceID != nil:
		deviceKey = *batch.DeviceID
	case batch.UserID != nil:
		deviceKey += ":" + *batch.UserID
	}

	now := s.now()
	pols := newPolicies(s.offices, s.defaults)
	resolved := make(map[string]*user.User)

	err := s.tx.InTx(ctx, func(txCtx context.Context) error {
		inBatch := make(map[string]struct{}, len(batch.Records))
		for _, rec := range batch.Records {
			hash := rec.Hash(deviceKey)
			if _, ok := inBatch[hash]; ok {
				result.Duplicates++
				continue
			}
			inBatch[hash] = struct{}{}

			exists, err := s.punches.ExistsByHash(txCtx, hash)
			if err != nil {
				return fmt.Errorf("failed to check punch hash: %w", err)
			}
			if exists {
				result.Duplicates++
				continue
			}

			u, err := s.resolveUser(txCtx, batch, rec, resolved)
			if err != nil {
				return err
			}

			event := punch.Event{
				DeviceID:    batch.DeviceID,
				BiometricID: rec.BiometricID,
				PunchTime:   rec.Timestamp.UTC(),
				PunchType:   punch.TypeFromStatus(rec.StatusCode),
				StatusCode:  rec.StatusCode,
				VerifyType:  rec.VerifyType,
				Source:      batch.Source,
				RecordHash:  hash,
				Remarks:     batch.Remarks,
			}
			if u != nil {
				event.UserID = &u.ID
			}
			event, err = s.punches.Create(txCtx, event)
			if err != nil {
				return fmt.Errorf("failed to store punch: %w", err)
			}
			result.Stored++

			if u == nil {
				result.UnknownUsers++
				continue
			}

			applied, err := s.applyPunch(txCtx, *u, event.PunchTime, pols, now)
			if err != nil {
				return err
			}
			if applied {
				result.Applied++
			}
			if err := s.punches.MarkProcessed(txCtx, event.ID); err != nil {
				return fmt.Errorf("failed to mark punch processed: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return punch.IngestResult{Received: len(batch.Records)}, err
	}

	if result.UnknownUsers > 0 {
		slog.Warn("Punches stored without a matching user",
			"source", batch.Source,
			"device_id", batch.DeviceID,
			"count", result.UnknownUsers,
		)
	}
	return result, nil
}

// resolveUser returns nil for biometric ids that match no active user.
// Such punches are kept and picked up by a rebuild once the id is assigned.
func (s *AttendanceServiceImpl) resolveUser(ctx context.Context, batch punch.Batch, rec punch.Record, cache map[string]*user.User) (*user.User, error) {
	key := "bio:" + rec.BiometricID
	if batch.UserID != nil {
		key = "id:" + *batch.UserID
	}
	if u, ok := cache[key]; ok {
		return u, nil
	}

	var (
		u   user.User
		err error
	)
	if batch.UserID != nil {
		u, err = s.users.GetByID(ctx, *batch.UserID)
	} else {
		u, err = s.users.GetByBiometricID(ctx, rec.BiometricID)
	}
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		cache[key] = nil
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("failed to resolve user for punch: %w", err)
	case !u.IsActive:
		cache[key] = nil
		return nil, nil
	}
	cache[key] = &u
	return &u, nil
}

// applyPunch folds ts into the user's day under the (user, date) lock and
// reports whether the day changed.
func (s *AttendanceServiceImpl) applyPunch(ctx context.Context, u user.User, ts time.Time, pols *policies, now time.Time) (bool, error) {
	pol := pols.get(ctx, u.OfficeID)
	date := attendance.DateOf(ts, location(pol))

	if err := s.days.LockUserDate(ctx, u.ID, date); err != nil {
		return false, fmt.Errorf("failed to lock attendance day: %w", err)
	}
	current, err := s.days.FindByUserAndDate(ctx, u.ID, date)
	if err != nil {
		return false, fmt.Errorf("failed to load attendance day: %w", err)
	}

	next, outcome := attendance.ApplyPunch(current, u.ID, date, ts)
	if !outcome.Changed() {
		return false, nil
	}
	derive(&next, now, pol)

	if _, err := s.days.Upsert(ctx, next); err != nil {
		return false, fmt.Errorf("failed to save attendance day: %w", err)
	}
	slog.Debug("Punch applied",
		"user_id", u.ID,
		"date", date.Format("2006-01-02"),
		"outcome", outcome,
		"status", next.Status,
	)
	return true, nil
}
