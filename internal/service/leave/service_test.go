package leave

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	asha    = "11111111-1111-1111-1111-111111111111"
	ravi    = "22222222-2222-2222-2222-222222222222"
	manager = "33333333-3333-3333-3333-333333333333"
	pune    = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	mumbai  = "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"
)

type fakeLeaves struct {
	leave.LeaveRepository
	rows    []leave.Request
	offices map[string]string
}

func (f *fakeLeaves) join(r leave.Request) leave.Request {
	office := f.offices[r.UserID]
	mail := r.UserID + "@example.com"
	r.OfficeID, r.UserEmail = &office, &mail
	return r
}

func (f *fakeLeaves) Create(_ context.Context, r leave.Request) (leave.Request, error) {
	r.ID = fmt.Sprintf("00000000-0000-0000-0000-%012d", len(f.rows)+1)
	f.rows = append(f.rows, r)
	return f.join(r), nil
}

func (f *fakeLeaves) GetByID(_ context.Context, id string) (leave.Request, error) {
	for _, r := range f.rows {
		if r.ID == id {
			return f.join(r), nil
		}
	}
	return leave.Request{}, leave.ErrLeaveNotFound
}

func (f *fakeLeaves) UpdateStatus(_ context.Context, r leave.Request) (leave.Request, error) {
	for i := range f.rows {
		if f.rows[i].ID == r.ID {
			if f.rows[i].Status != leave.StatusPending {
				return leave.Request{}, leave.ErrNotPending
			}
			f.rows[i] = r
			return f.join(r), nil
		}
	}
	return leave.Request{}, leave.ErrLeaveNotFound
}

func (f *fakeLeaves) HasOverlap(_ context.Context, userID string, start, end time.Time) (bool, error) {
	for _, r := range f.rows {
		if r.UserID != userID || (r.Status != leave.StatusPending && r.Status != leave.StatusApproved) {
			continue
		}
		if !start.After(r.EndDate) && !end.Before(r.StartDate) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLeaves) List(_ context.Context, filter leave.LeaveFilter) ([]leave.Request, int64, error) {
	var out []leave.Request
	for _, r := range f.rows {
		r = f.join(r)
		if filter.UserID != nil && r.UserID != *filter.UserID {
			continue
		}
		if filter.OfficeID != nil && *r.OfficeID != *filter.OfficeID {
			continue
		}
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

type fakeUsers struct {
	user.UserRepository
}

func (fakeUsers) GetByID(_ context.Context, id string) (user.User, error) {
	m := manager
	return user.User{ID: id, FullName: "Asha Rao", ManagerID: &m}, nil
}

type fakeRecalculator struct {
	reqs []attendance.RecalculateRequest
}

func (f *fakeRecalculator) Recalculate(_ context.Context, req attendance.RecalculateRequest) (attendance.RecalculateResponse, error) {
	f.reqs = append(f.reqs, req)
	return attendance.RecalculateResponse{Processed: 2, Changed: 2}, nil
}

type fakeNotifier struct {
	notification.NotificationService
	sent []notification.CreateNotificationRequest
}

func (f *fakeNotifier) Notify(_ context.Context, req notification.CreateNotificationRequest) {
	f.sent = append(f.sent, req)
}

type fakeMailer struct {
	email.Mailer
	decisions chan email.LeaveDecision
}

func (f *fakeMailer) SendLeaveDecision(_ string, data email.LeaveDecision) error {
	f.decisions <- data
	return nil
}

type fixture struct {
	svc      *LeaveServiceImpl
	leaves   *fakeLeaves
	recalc   *fakeRecalculator
	notifier *fakeNotifier
	mailer   *fakeMailer
}

func newFixture() *fixture {
	f := &fixture{
		leaves:   &fakeLeaves{offices: map[string]string{asha: pune, ravi: mumbai}},
		recalc:   &fakeRecalculator{},
		notifier: &fakeNotifier{},
		mailer:   &fakeMailer{decisions: make(chan email.LeaveDecision, 4)},
	}
	f.svc = NewLeaveService(f.leaves, fakeUsers{}, f.recalc, f.notifier, f.mailer).(*LeaveServiceImpl)
	f.svc.now = func() time.Time { return time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC) }
	return f
}

func as(id string, role user.Role, office string) context.Context {
	a := user.Actor{UserID: id, Role: role}
	if office != "" {
		a.OfficeID = &office
	}
	return user.WithActor(context.Background(), a)
}

func TestCreate(t *testing.T) {
	f := newFixture()
	ctx := as(asha, user.RoleEmployee, pune)

	resp, err := f.svc.Create(ctx, leave.CreateLeaveRequest{LeaveType: "casual", StartDate: "2024-03-25", EndDate: "2024-03-27", Reason: "Family function"})
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "3", resp.Days.String())
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, manager, f.notifier.sent[0].RecipientID)
	assert.Equal(t, notification.TypeLeaveSubmitted, f.notifier.sent[0].Type)

	_, err = f.svc.Create(ctx, leave.CreateLeaveRequest{LeaveType: "sick", StartDate: "2024-03-27", Reason: "Fever"})
	assert.ErrorIs(t, err, leave.ErrOverlappingLeave)

	_, err = f.svc.Create(ctx, leave.CreateLeaveRequest{LeaveType: "sabbatical", StartDate: "2024-04-01", Reason: "x"})
	assert.Error(t, err)
}

func TestApprove_ReclassifiesPastDays(t *testing.T) {
	f := newFixture()
	created, err := f.svc.Create(as(asha, user.RoleEmployee, pune), leave.CreateLeaveRequest{
		LeaveType: "sick", StartDate: "2024-03-18", EndDate: "2024-03-22", Reason: "Flu",
	})
	require.NoError(t, err)

	_, err = f.svc.Approve(as(asha, user.RoleEmployee, pune), leave.ReviewRequest{ID: created.ID})
	assert.ErrorIs(t, err, leave.ErrCannotReviewOwn)

	_, err = f.svc.Approve(as(manager, user.RoleManager, mumbai), leave.ReviewRequest{ID: created.ID})
	assert.ErrorIs(t, err, leave.ErrForbidden, "manager of another office")

	_, err = f.svc.Approve(as(ravi, user.RoleEmployee, pune), leave.ReviewRequest{ID: created.ID})
	assert.ErrorIs(t, err, leave.ErrForbidden, "employees cannot review")

	note := "Get well soon"
	resp, err := f.svc.Approve(as(manager, user.RoleManager, pune), leave.ReviewRequest{ID: created.ID, Note: &note})
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)
	assert.Equal(t, manager, *resp.ReviewedBy)

	require.Len(t, f.recalc.reqs, 1)
	assert.Equal(t, "2024-03-18", f.recalc.reqs[0].DateFrom)
	assert.Equal(t, "2024-03-20", f.recalc.reqs[0].DateTo, "future days are not touched")
	assert.Equal(t, asha, *f.recalc.reqs[0].UserID)

	select {
	case d := <-f.mailer.decisions:
		assert.Equal(t, "approved", d.Status)
		assert.Equal(t, "Get well soon", d.Note)
	case <-time.After(2 * time.Second):
		t.Fatal("decision email not sent")
	}

	_, err = f.svc.Reject(as(manager, user.RoleHR, ""), leave.ReviewRequest{ID: created.ID})
	assert.ErrorIs(t, err, leave.ErrNotPending)
}

func TestReject_FutureLeave(t *testing.T) {
	f := newFixture()
	created, err := f.svc.Create(as(ravi, user.RoleEmployee, mumbai), leave.CreateLeaveRequest{
		LeaveType: "earned", StartDate: "2024-04-10", EndDate: "2024-04-12", Reason: "Trip",
	})
	require.NoError(t, err)

	resp, err := f.svc.Reject(as("hr", user.RoleHR, ""), leave.ReviewRequest{ID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, "rejected", resp.Status)
	assert.Empty(t, f.recalc.reqs)
	assert.Equal(t, notification.TypeLeaveRejected, f.notifier.sent[len(f.notifier.sent)-1].Type)
	<-f.mailer.decisions
}

func TestCancel(t *testing.T) {
	f := newFixture()
	created, err := f.svc.Create(as(asha, user.RoleEmployee, pune), leave.CreateLeaveRequest{
		LeaveType: "casual", StartDate: "2024-04-01", IsHalfDay: true, Reason: "Appointment",
	})
	require.NoError(t, err)
	assert.Equal(t, "0.5", created.Days.String())

	_, err = f.svc.Cancel(as(ravi, user.RoleEmployee, mumbai), created.ID)
	assert.ErrorIs(t, err, leave.ErrForbidden)

	resp, err := f.svc.Cancel(as(asha, user.RoleEmployee, pune), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)

	_, err = f.svc.Cancel(as(asha, user.RoleEmployee, pune), created.ID)
	assert.ErrorIs(t, err, leave.ErrNotPending)

	_, err = f.svc.Create(as(asha, user.RoleEmployee, pune), leave.CreateLeaveRequest{
		LeaveType: "casual", StartDate: "2024-04-01", Reason: "Rebooked",
	})
	assert.NoError(t, err, "cancelled leave no longer blocks the dates")
}

func TestList_Scoping(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Create(as(asha, user.RoleEmployee, pune), leave.CreateLeaveRequest{LeaveType: "casual", StartDate: "2024-04-01", Reason: "a"})
	require.NoError(t, err)
	_, err = f.svc.Create(as(ravi, user.RoleEmployee, mumbai), leave.CreateLeaveRequest{LeaveType: "casual", StartDate: "2024-04-01", Reason: "b"})
	require.NoError(t, err)

	all, err := f.svc.List(as("hr", user.RoleHR, ""), leave.LeaveFilter{})
	require.NoError(t, err)
	assert.Len(t, all.Leaves, 2)

	office, err := f.svc.List(as(manager, user.RoleManager, mumbai), leave.LeaveFilter{})
	require.NoError(t, err)
	require.Len(t, office.Leaves, 1)
	assert.Equal(t, ravi, office.Leaves[0].UserID)

	mine, err := f.svc.ListMine(as(asha, user.RoleHR, ""), leave.LeaveFilter{})
	require.NoError(t, err)
	require.Len(t, mine.Leaves, 1)
	assert.Equal(t, asha, mine.Leaves[0].UserID)

	_, err = f.svc.List(as(manager, user.RoleManager, ""), leave.LeaveFilter{})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
}
