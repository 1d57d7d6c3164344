package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-hr-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttendanceRepository_UpsertKeepsOneRowPerDay(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	users := postgresql.NewUserRepository(db)
	repo := postgresql.NewAttendanceRepository(db)

	u := createTestUser(t, users, "day@example.com", strPtr("11"))
	date := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	in := time.Date(2025, 3, 3, 4, 0, 0, 0, time.UTC)
	out := in.Add(8 * time.Hour)

	err := postgresql.InTx(ctx, db, func(txCtx context.Context) error {
		if err := repo.LockUserDate(txCtx, u.ID, date); err != nil {
			return err
		}
		_, err := repo.Upsert(txCtx, attendance.Day{
			UserID:    u.ID,
			Date:      date,
			CheckIn:   &in,
			Status:    attendance.StatusPresent,
			DayStatus: attendance.DayHalf,
		})
		return err
	})
	require.NoError(t, err)

	updated, err := repo.Upsert(ctx, attendance.Day{
		UserID:     u.ID,
		Date:       date,
		CheckIn:    &in,
		CheckOut:   &out,
		TotalHours: decimal.NewNullDecimal(decimal.NewFromInt(8)),
		Status:     attendance.StatusPresent,
		DayStatus:  attendance.DayComplete,
	})
	require.NoError(t, err)
	assert.Equal(t, attendance.DayComplete, updated.DayStatus)
	require.NotNil(t, updated.CheckOut)
	assert.True(t, out.Equal(*updated.CheckOut))

	days, err := repo.ListRange(ctx, date, date, &u.ID, nil)
	require.NoError(t, err)
	assert.Len(t, days, 1)

	inserted, err := repo.CreateIfMissing(ctx, attendance.Absence(u.ID, date, attendance.StatusAbsent))
	require.NoError(t, err)
	assert.False(t, inserted)

	present, err := repo.CountPresent(ctx, u.ID, date, date.AddDate(0, 0, 30))
	require.NoError(t, err)
	assert.Equal(t, 1, present)
}

func TestAttendanceRepository_FindByUserAndDate_Missing(t *testing.T) {
	db := newTestDB(t)
	users := postgresql.NewUserRepository(db)
	repo := postgresql.NewAttendanceRepository(db)

	u := createTestUser(t, users, "none@example.com", nil)
	day, err := repo.FindByUserAndDate(context.Background(), u.ID, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, day)
}

func TestPunchRepository_DuplicatesAndRebuild(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	users := postgresql.NewUserRepository(db)
	repo := postgresql.NewPunchRepository(db)

	u := createTestUser(t, users, "punch@example.com", strPtr("55"))
	ts := time.Date(2025, 3, 3, 4, 0, 0, 0, time.UTC)
	rec := punch.Record{BiometricID: "55", Timestamp: ts}
	hash := rec.Hash("manual")

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, punch.Event{
			BiometricID: "55",
			PunchTime:   ts,
			PunchType:   punch.PunchIn,
			Source:      punch.SourcePush,
			RecordHash:  hash,
		})
		require.NoError(t, err)
	}

	exists, err := repo.ExistsByHash(ctx, hash)
	require.NoError(t, err)
	assert.True(t, exists)

	dups, err := repo.CountDuplicates(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), dups)

	deleted, err := repo.DeleteDuplicates(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	events, err := repo.ListForRebuild(ctx, ts.Add(-time.Hour), ts.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.NotNil(t, events[0].UserID)
	assert.Equal(t, u.ID, *events[0].UserID)
}
