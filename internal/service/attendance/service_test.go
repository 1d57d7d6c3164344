package attendance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/master/holiday"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/master/office"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice = "11111111-1111-1111-1111-111111111111"
	bob   = "22222222-2222-2222-2222-222222222222"
	carol = "33333333-3333-3333-3333-333333333333"
	dave  = "44444444-4444-4444-4444-444444444444"
	erin  = "55555555-5555-5555-5555-555555555555"

	branch = "99999999-9999-9999-9999-999999999999"
)

var ist = time.FixedZone("IST", 19800)

type noTx struct{}

func (noTx) InTx(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) }
func (noTx) Savepoint(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func dayKey(userID string, date time.Time) string {
	return userID + "|" + date.Format("2006-01-02")
}

type fakeDays struct {
	attendance.AttendanceRepository
	rows       map[string]attendance.Day
	seq        int
	lastFilter attendance.AttendanceFilter
}

func (f *fakeDays) LockUserDate(context.Context, string, time.Time) error { return nil }

func (f *fakeDays) FindByUserAndDate(_ context.Context, userID string, date time.Time) (*attendance.Day, error) {
	d, ok := f.rows[dayKey(userID, date)]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (f *fakeDays) GetByID(_ context.Context, id string) (attendance.Day, error) {
	for _, d := range f.rows {
		if d.ID == id {
			return d, nil
		}
	}
	return attendance.Day{}, attendance.ErrAttendanceNotFound
}

func (f *fakeDays) Upsert(_ context.Context, day attendance.Day) (attendance.Day, error) {
	key := dayKey(day.UserID, day.Date)
	if existing, ok := f.rows[key]; ok {
		day.ID = existing.ID
		day.OfficeID = existing.OfficeID
	} else {
		f.seq++
		day.ID = fmt.Sprintf("00000000-0000-0000-0000-%012d", f.seq)
	}
	f.rows[key] = day
	return day, nil
}

func (f *fakeDays) CreateIfMissing(ctx context.Context, day attendance.Day) (bool, error) {
	if _, ok := f.rows[dayKey(day.UserID, day.Date)]; ok {
		return false, nil
	}
	_, err := f.Upsert(ctx, day)
	return true, err
}

func (f *fakeDays) ListRange(_ context.Context, from, to time.Time, userID, _ *string) ([]attendance.Day, error) {
	var out []attendance.Day
	for _, d := range f.rows {
		if d.Date.Before(from) || d.Date.After(to) {
			continue
		}
		if userID != nil && d.UserID != *userID {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeDays) List(_ context.Context, filter attendance.AttendanceFilter) ([]attendance.Day, int64, error) {
	f.lastFilter = filter
	return nil, 0, nil
}

type fakePunches struct {
	punch.PunchRepository
	events []punch.Event
}

func (f *fakePunches) ExistsByHash(_ context.Context, hash string) (bool, error) {
	for _, e := range f.events {
		if e.RecordHash == hash {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePunches) Create(_ context.Context, e punch.Event) (punch.Event, error) {
	e.ID = fmt.Sprintf("punch-%d", len(f.events)+1)
	f.events = append(f.events, e)
	return e, nil
}

func (f *fakePunches) MarkProcessed(_ context.Context, id string) error {
	for i := range f.events {
		if f.events[i].ID == id {
			f.events[i].Processed = true
		}
	}
	return nil
}

func (f *fakePunches) ListForRebuild(_ context.Context, from, to time.Time) ([]punch.Event, error) {
	var out []punch.Event
	for _, e := range f.events {
		if e.UserID != nil && !e.PunchTime.Before(from) && e.PunchTime.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeUsers struct {
	user.UserRepository
	users map[string]user.User
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (user.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUsers) GetByBiometricID(_ context.Context, bio string) (user.User, error) {
	for _, u := range f.users {
		if u.BiometricID != nil && *u.BiometricID == bio {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUsers) ListActive(context.Context, *string) ([]user.User, error) {
	var out []user.User
	for _, u := range f.users {
		if u.IsActive {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeOffices struct {
	office.OfficeRepository
}

func (fakeOffices) GetByID(context.Context, string) (office.Office, error) {
	return office.Office{}, office.ErrOfficeNotFound
}

type fakeHolidays struct {
	holiday.HolidayRepository
	dates map[string]string // date -> office id, "" for company-wide
}

func (f *fakeHolidays) IsHoliday(_ context.Context, date time.Time, officeID *string) (bool, error) {
	owner, ok := f.dates[date.Format("2006-01-02")]
	if !ok {
		return false, nil
	}
	return owner == "" || (officeID != nil && *officeID == owner), nil
}

type fakeLeaves struct {
	leave.LeaveRepository
	onLeave map[string][]string
}

func (f *fakeLeaves) ApprovedOn(_ context.Context, date time.Time) (map[string]struct{}, error) {
	out := map[string]struct{}{}
	for _, id := range f.onLeave[date.Format("2006-01-02")] {
		out[id] = struct{}{}
	}
	return out, nil
}

type fixture struct {
	svc      *AttendanceServiceImpl
	days     *fakeDays
	punches  *fakePunches
	users    *fakeUsers
	holidays *fakeHolidays
	leaves   *fakeLeaves
}

func strPtr(s string) *string { return &s }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newFixture() fixture {
	joined := date(2024, 4, 1)
	f := fixture{
		days:    &fakeDays{rows: map[string]attendance.Day{}},
		punches: &fakePunches{},
		users: &fakeUsers{users: map[string]user.User{
			alice: {ID: alice, FullName: "Alice", BiometricID: strPtr("1001"), IsActive: true},
			bob:   {ID: bob, FullName: "Bob", BiometricID: strPtr("1002"), OfficeID: strPtr(branch), IsActive: true},
			carol: {ID: carol, FullName: "Carol", IsActive: true},
			dave:  {ID: dave, FullName: "Dave", IsActive: true},
			erin:  {ID: erin, FullName: "Erin", IsActive: true, JoiningDate: &joined},
		}},
		holidays: &fakeHolidays{dates: map[string]string{}},
		leaves:   &fakeLeaves{onLeave: map[string][]string{}},
	}
	defaults := attendance.Policy{
		Timezone:      "Asia/Kolkata",
		LateThreshold: "11:30",
		HalfDayHours:  decimal.NewFromInt(5),
	}
	f.svc = NewAttendanceService(noTx{}, f.days, f.punches, f.users, fakeOffices{}, f.holidays, f.leaves, defaults)
	f.svc.now = func() time.Time { return time.Date(2024, 3, 20, 12, 0, 0, 0, ist) }
	return f
}

func TestIngest_FoldsOutOfOrderPunches(t *testing.T) {
	f := newFixture()
	device := "dev-1"
	evening := time.Date(2024, 3, 15, 18, 30, 0, 0, ist)
	morning := time.Date(2024, 3, 15, 9, 15, 0, 0, ist)

	res, err := f.svc.Ingest(context.Background(), punch.Batch{
		DeviceID: &device,
		Source:   punch.SourcePoll,
		Records: []punch.Record{
			{BiometricID: "1001", Timestamp: evening, StatusCode: 1},
			{BiometricID: "1001", Timestamp: morning, StatusCode: 0},
			{BiometricID: "1001", Timestamp: evening, StatusCode: 1},
			{BiometricID: "9999", Timestamp: morning},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, punch.IngestResult{Received: 4, Duplicates: 1, Stored: 3, Applied: 2, UnknownUsers: 1}, res)

	day := f.days.rows[dayKey(alice, date(2024, 3, 15))]
	require.NotNil(t, day.CheckIn)
	require.NotNil(t, day.CheckOut)
	assert.True(t, morning.Equal(*day.CheckIn))
	assert.True(t, evening.Equal(*day.CheckOut))
	assert.Equal(t, attendance.StatusPresent, day.Status)
	assert.Equal(t, attendance.DayComplete, day.DayStatus)
	assert.False(t, day.IsLate)
	assert.Equal(t, "9.25", day.TotalHours.Decimal.String())

	assert.True(t, f.punches.events[0].Processed)
	assert.False(t, f.punches.events[2].Processed, "unknown user stays unprocessed")
	assert.Nil(t, f.punches.events[2].UserID)

	res, err = f.svc.Ingest(context.Background(), punch.Batch{
		DeviceID: &device,
		Source:   punch.SourcePoll,
		Records:  []punch.Record{{BiometricID: "1001", Timestamp: evening, StatusCode: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Duplicates)
	assert.Equal(t, 0, res.Stored)
}

func TestIngest_LocalDateAndLateness(t *testing.T) {
	f := newFixture()
	device := "dev-1"
	// 00:30 IST on the 16th is still the 15th in UTC.
	ts := time.Date(2024, 3, 16, 0, 30, 0, 0, ist)

	_, err := f.svc.Ingest(context.Background(), punch.Batch{
		DeviceID: &device,
		Source:   punch.SourcePush,
		Records:  []punch.Record{{BiometricID: "1002", Timestamp: ts}},
	})
	require.NoError(t, err)

	day, ok := f.days.rows[dayKey(bob, date(2024, 3, 16))]
	require.True(t, ok, "keyed by the local date")
	assert.False(t, day.IsLate)
	assert.Equal(t, attendance.DayHalf, day.DayStatus, "past day without check-out")

	late := time.Date(2024, 3, 20, 11, 45, 0, 0, ist)
	_, err = f.svc.Ingest(context.Background(), punch.Batch{
		DeviceID: &device,
		Source:   punch.SourcePush,
		Records:  []punch.Record{{BiometricID: "1002", Timestamp: late}},
	})
	require.NoError(t, err)

	today := f.days.rows[dayKey(bob, date(2024, 3, 20))]
	assert.True(t, today.IsLate)
	assert.Equal(t, 15, today.LateMinutes)
	assert.Equal(t, attendance.DayInProgress, today.DayStatus)
}

func TestIngest_BrokenPolicyFailsOpen(t *testing.T) {
	f := newFixture()
	f.svc.defaults.LateThreshold = "half past eleven"
	device := "dev-1"

	res, err := f.svc.Ingest(context.Background(), punch.Batch{
		DeviceID: &device,
		Source:   punch.SourcePoll,
		Records:  []punch.Record{{BiometricID: "1001", Timestamp: time.Date(2024, 3, 15, 13, 0, 0, 0, ist)}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Applied)

	day := f.days.rows[dayKey(alice, date(2024, 3, 15))]
	assert.Equal(t, attendance.StatusPresent, day.Status)
	assert.Equal(t, attendance.DayComplete, day.DayStatus)
	assert.False(t, day.IsLate)
}

func TestBackfillAbsences(t *testing.T) {
	f := newFixture()
	monday := date(2024, 3, 18)
	f.holidays.dates["2024-03-18"] = branch
	f.leaves.onLeave["2024-03-18"] = []string{carol}
	checkIn := time.Date(2024, 3, 18, 9, 0, 0, 0, ist)
	f.days.rows[dayKey(dave, monday)] = attendance.Day{ID: "existing", UserID: dave, Date: monday, CheckIn: &checkIn, Status: attendance.StatusPresent}

	res, err := f.svc.BackfillAbsences(context.Background(), monday)
	require.NoError(t, err)
	assert.Equal(t, attendance.BackfillResult{Date: "2024-03-18", Created: 3, Existing: 1}, res)

	assert.Equal(t, attendance.StatusAbsent, f.days.rows[dayKey(alice, monday)].Status)
	assert.Equal(t, attendance.StatusHoliday, f.days.rows[dayKey(bob, monday)].Status)
	assert.Equal(t, attendance.StatusOnLeave, f.days.rows[dayKey(carol, monday)].Status)
	assert.Equal(t, attendance.StatusPresent, f.days.rows[dayKey(dave, monday)].Status, "existing rows are left alone")
	_, ok := f.days.rows[dayKey(erin, monday)]
	assert.False(t, ok, "not yet joined")

	sunday := date(2024, 3, 17)
	_, err = f.svc.BackfillAbsences(context.Background(), sunday)
	require.NoError(t, err)
	assert.Equal(t, attendance.DayWeekend, f.days.rows[dayKey(carol, sunday)].DayStatus)

	_, err = f.svc.BackfillAbsences(context.Background(), date(2024, 3, 21))
	assert.ErrorIs(t, err, attendance.ErrBackfillFuture)
}

func TestBackfillAbsences_Precedence(t *testing.T) {
	f := newFixture()
	friday, sunday := date(2024, 3, 15), date(2024, 3, 17)
	f.holidays.dates["2024-03-15"] = branch
	f.leaves.onLeave["2024-03-15"] = []string{bob, carol}
	f.leaves.onLeave["2024-03-17"] = []string{carol}

	_, err := f.svc.BackfillAbsences(context.Background(), friday)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusHoliday, f.days.rows[dayKey(bob, friday)].Status, "holiday wins over leave")
	assert.Equal(t, attendance.StatusOnLeave, f.days.rows[dayKey(carol, friday)].Status)

	_, err = f.svc.BackfillAbsences(context.Background(), sunday)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusWeekend, f.days.rows[dayKey(carol, sunday)].Status, "Sunday wins over leave")
}

func TestRecalculate(t *testing.T) {
	f := newFixture()
	monday := date(2024, 3, 18)
	absent := attendance.Absence(alice, monday, attendance.StatusAbsent)
	absent.ID = "a1"
	f.days.rows[dayKey(alice, monday)] = absent
	noon := time.Date(2024, 3, 18, 12, 0, 0, 0, ist)
	f.days.rows[dayKey(bob, monday)] = attendance.Day{
		ID: "b1", UserID: bob, Date: monday, CheckIn: &noon,
		Status: attendance.StatusPresent, DayStatus: attendance.DayComplete,
	}
	f.leaves.onLeave["2024-03-18"] = []string{alice}

	res, err := f.svc.Recalculate(context.Background(), attendance.RecalculateRequest{DateFrom: "2024-03-18", DateTo: "2024-03-18"})
	require.NoError(t, err)
	assert.Equal(t, attendance.RecalculateResponse{Processed: 2, Changed: 2}, res)

	assert.Equal(t, attendance.StatusOnLeave, f.days.rows[dayKey(alice, monday)].Status)
	b := f.days.rows[dayKey(bob, monday)]
	assert.Equal(t, attendance.DayHalf, b.DayStatus)
	assert.True(t, b.IsLate)
	assert.Equal(t, 30, b.LateMinutes)

	res, err = f.svc.Recalculate(context.Background(), attendance.RecalculateRequest{DateFrom: "2024-03-18", DateTo: "2024-03-18"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Changed, "second run is a no-op")
}

func TestRebuild(t *testing.T) {
	f := newFixture()
	id := alice
	for _, ts := range []time.Time{
		time.Date(2024, 3, 15, 13, 0, 0, 0, ist),
		time.Date(2024, 3, 15, 19, 0, 0, 0, ist),
		time.Date(2024, 3, 15, 9, 0, 0, 0, ist),
		time.Date(2024, 3, 16, 0, 30, 0, 0, ist),
	} {
		f.punches.events = append(f.punches.events, punch.Event{UserID: &id, PunchTime: ts.UTC()})
	}

	res, err := f.svc.Rebuild(context.Background(), date(2024, 3, 15), date(2024, 3, 15))
	require.NoError(t, err)
	assert.Equal(t, attendance.RebuildResult{Days: 1}, res)

	day := f.days.rows[dayKey(alice, date(2024, 3, 15))]
	require.NotNil(t, day.CheckOut)
	assert.True(t, time.Date(2024, 3, 15, 9, 0, 0, 0, ist).Equal(*day.CheckIn))
	assert.True(t, time.Date(2024, 3, 15, 19, 0, 0, 0, ist).Equal(*day.CheckOut))
	_, ok := f.days.rows[dayKey(alice, date(2024, 3, 16))]
	assert.False(t, ok, "outside the requested range")
}

func TestRecordManualPunch(t *testing.T) {
	f := newFixture()

	_, err := f.svc.RecordManualPunch(context.Background(), attendance.ManualPunchRequest{
		UserID:    carol,
		PunchTime: "2024-03-21T09:00:00+05:30",
	})
	assert.ErrorIs(t, err, attendance.ErrPunchInFuture)

	resp, err := f.svc.RecordManualPunch(context.Background(), attendance.ManualPunchRequest{
		UserID:    carol,
		PunchTime: "2024-03-19T09:30:00+05:30",
		Remarks:   strPtr("device offline"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-19", resp.Date)
	assert.Equal(t, string(attendance.StatusPresent), resp.Status)

	require.Len(t, f.punches.events, 1)
	e := f.punches.events[0]
	assert.Equal(t, punch.SourceManual, e.Source)
	assert.Nil(t, e.DeviceID)
	assert.Equal(t, carol, *e.UserID)
	assert.True(t, e.Processed)
}

func TestUpdate_RejectsInvertedPunches(t *testing.T) {
	f := newFixture()
	monday := date(2024, 3, 18)
	in := time.Date(2024, 3, 18, 9, 0, 0, 0, ist)
	f.days.rows[dayKey(alice, monday)] = attendance.Day{ID: "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa", UserID: alice, Date: monday, CheckIn: &in}

	_, err := f.svc.Update(context.Background(), attendance.UpdateDayRequest{
		ID:       "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa",
		CheckOut: strPtr("2024-03-18T08:00:00+05:30"),
	})
	assert.ErrorIs(t, err, attendance.ErrCheckOutBeforeIn)

	resp, err := f.svc.Update(context.Background(), attendance.UpdateDayRequest{
		ID:       "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa",
		CheckOut: strPtr("2024-03-18T18:00:00+05:30"),
	})
	require.NoError(t, err)
	assert.Equal(t, string(attendance.DayComplete), resp.DayStatus)
	require.NotNil(t, resp.TotalHours)
	assert.Equal(t, "9", resp.TotalHours.String())
}

func TestList_RoleScoping(t *testing.T) {
	f := newFixture()

	ctx := user.WithActor(context.Background(), user.Actor{UserID: alice, Role: user.RoleEmployee})
	_, err := f.svc.List(ctx, attendance.AttendanceFilter{UserID: strPtr(bob)})
	require.NoError(t, err)
	assert.Equal(t, alice, *f.days.lastFilter.UserID)

	ctx = user.WithActor(context.Background(), user.Actor{UserID: bob, Role: user.RoleManager, OfficeID: strPtr(branch)})
	_, err = f.svc.List(ctx, attendance.AttendanceFilter{})
	require.NoError(t, err)
	assert.Equal(t, branch, *f.days.lastFilter.OfficeID)

	ctx = user.WithActor(context.Background(), user.Actor{UserID: bob, Role: user.RoleManager})
	_, err = f.svc.List(ctx, attendance.AttendanceFilter{})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	ctx = user.WithActor(context.Background(), user.Actor{UserID: carol, Role: user.RoleHR})
	_, err = f.svc.List(ctx, attendance.AttendanceFilter{})
	require.NoError(t, err)
	assert.Nil(t, f.days.lastFilter.UserID)
	assert.Nil(t, f.days.lastFilter.OfficeID)
}

func TestGet_Forbidden(t *testing.T) {
	f := newFixture()
	monday := date(2024, 3, 18)
	f.days.rows[dayKey(bob, monday)] = attendance.Day{ID: "b1", UserID: bob, Date: monday, OfficeID: strPtr(branch)}

	ctx := user.WithActor(context.Background(), user.Actor{UserID: alice, Role: user.RoleEmployee})
	_, err := f.svc.Get(ctx, "b1")
	assert.ErrorIs(t, err, attendance.ErrForbidden)

	ctx = user.WithActor(context.Background(), user.Actor{UserID: dave, Role: user.RoleManager, OfficeID: strPtr(branch)})
	resp, err := f.svc.Get(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, bob, resp.UserID)
}
