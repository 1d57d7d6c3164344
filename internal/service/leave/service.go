package leave

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/email"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/pagination"
)

// Recalculator re-derives stored attendance days, turning absences covered
// by approved leave into on_leave.
type Recalculator interface {
	Recalculate(ctx context.Context, req attendance.RecalculateRequest) (attendance.RecalculateResponse, error)
}

type LeaveServiceImpl struct {
	leaves       leave.LeaveRepository
	users        user.UserRepository
	recalculator Recalculator
	notifier     notification.NotificationService
	mailer       email.Mailer
	now          func() time.Time
}

func NewLeaveService(
	leaves leave.LeaveRepository,
	users user.UserRepository,
	recalculator Recalculator,
	notifier notification.NotificationService,
	mailer email.Mailer,
) leave.LeaveService {
	return &LeaveServiceImpl{
		leaves:       leaves,
		users:        users,
		recalculator: recalculator,
		notifier:     notifier,
		mailer:       mailer,
		now:          time.Now,
	}
}

func canSee(actor user.Actor, r leave.Request) bool {
	switch {
	case actor.IsHR(), actor.UserID == r.UserID:
		return true
	case actor.Role == user.RoleManager:
		return actor.OfficeID != nil && r.OfficeID != nil && *actor.OfficeID == *r.OfficeID
	}
	return false
}

// Create implements leave.LeaveService.
func (s *LeaveServiceImpl) Create(ctx context.Context, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	overlap, err := s.leaves.HasOverlap(ctx, actor.UserID, req.Start, req.End)
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to check overlapping leave: %w", err)
	}
	if overlap {
		return leave.LeaveResponse{}, leave.ErrOverlappingLeave
	}

	created, err := s.leaves.Create(ctx, leave.Request{
		UserID:    actor.UserID,
		LeaveType: leave.Type(req.LeaveType),
		StartDate: req.Start,
		EndDate:   req.End,
		IsHalfDay: req.IsHalfDay,
		Reason:    strings.TrimSpace(req.Reason),
		Status:    leave.StatusPending,
	})
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	s.notifyManager(ctx, created)
	return leave.NewLeaveResponse(created), nil
}

func (s *LeaveServiceImpl) notifyManager(ctx context.Context, r leave.Request) {
	u, err := s.users.GetByID(ctx, r.UserID)
	if err != nil {
		slog.Warn("Could not load leave applicant", "user_id", r.UserID, "error", err)
		return
	}
	if u.ManagerID == nil {
		return
	}
	s.notifier.Notify(ctx, notification.CreateNotificationRequest{
		RecipientID: *u.ManagerID,
		Type:        notification.TypeLeaveSubmitted,
		Title:       "Leave request submitted",
		Message: fmt.Sprintf("%s requested %s leave from %s to %s.",
			u.FullName, r.LeaveType, r.StartDate.Format("02 Jan 2006"), r.EndDate.Format("02 Jan 2006")),
		Data: map[string]any{"leave_id": r.ID},
	})
}

// Get implements leave.LeaveService.
func (s *LeaveServiceImpl) Get(ctx context.Context, id string) (leave.LeaveResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	r, err := s.leaves.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if !canSee(actor, r) {
		return leave.LeaveResponse{}, leave.ErrForbidden
	}
	return leave.NewLeaveResponse(r), nil
}

// ListMine implements leave.LeaveService.
func (s *LeaveServiceImpl) ListMine(ctx context.Context, filter leave.LeaveFilter) (leave.ListLeaveResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return leave.ListLeaveResponse{}, err
	}
	filter.UserID = &actor.UserID
	filter.OfficeID = nil
	return s.list(ctx, filter)
}

// List implements leave.LeaveService.
func (s *LeaveServiceImpl) List(ctx context.Context, filter leave.LeaveFilter) (leave.ListLeaveResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return leave.ListLeaveResponse{}, err
	}
	switch {
	case actor.IsHR():
	case actor.Role == user.RoleManager:
		if actor.OfficeID == nil {
			return leave.ListLeaveResponse{}, user.ErrInsufficientPermissions
		}
		filter.OfficeID = actor.OfficeID
	default:
		filter.UserID = &actor.UserID
	}
	return s.list(ctx, filter)
}

func (s *LeaveServiceImpl) list(ctx context.Context, filter leave.LeaveFilter) (leave.ListLeaveResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveResponse{}, err
	}
	rows, total, err := s.leaves.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}
	resp := leave.ListLeaveResponse{Leaves: make([]leave.LeaveResponse, 0, len(rows))}
	for _, r := range rows {
		resp.Leaves = append(resp.Leaves, leave.NewLeaveResponse(r))
	}
	resp.Meta = pagination.NewMeta(filter.Params, total, len(rows))
	return resp, nil
}

// Approve implements leave.LeaveService.
func (s *LeaveServiceImpl) Approve(ctx context.Context, req leave.ReviewRequest) (leave.LeaveResponse, error) {
	r, err := s.review(ctx, req, leave.StatusApproved)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	s.reclassifyTaken(ctx, r)
	s.announceDecision(ctx, r)
	return leave.NewLeaveResponse(r), nil
}

// Reject implements leave.LeaveService.
func (s *LeaveServiceImpl) Reject(ctx context.Context, req leave.ReviewRequest) (leave.LeaveResponse, error) {
	r, err := s.review(ctx, req, leave.StatusRejected)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	s.announceDecision(ctx, r)
	return leave.NewLeaveResponse(r), nil
}

func (s *LeaveServiceImpl) review(ctx context.Context, req leave.ReviewRequest, status leave.Status) (leave.Request, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return leave.Request{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.Request{}, err
	}

	r, err := s.leaves.GetByID(ctx, req.ID)
	if err != nil {
		return leave.Request{}, err
	}
	if r.UserID == actor.UserID {
		return leave.Request{}, leave.ErrCannotReviewOwn
	}
	if !actor.CanReview() || !canSee(actor, r) {
		return leave.Request{}, leave.ErrForbidden
	}
	if r.Status != leave.StatusPending {
		return leave.Request{}, leave.ErrNotPending
	}

	now := s.now()
	r.Status = status
	r.ReviewedAt = &now
	r.ReviewNote = req.Note
	if actor.UserID != "" {
		r.ReviewedBy = &actor.UserID
	}
	return s.leaves.UpdateStatus(ctx, r)
}

// reclassifyTaken turns absences already recorded inside an approved leave
// into on_leave days.
func (s *LeaveServiceImpl) reclassifyTaken(ctx context.Context, r leave.Request) {
	if r.IsHalfDay || s.recalculator == nil {
		return
	}
	today := s.now()
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if r.StartDate.After(today) {
		return
	}

	to := r.EndDate
	if to.After(today) {
		to = today
	}
	from := r.StartDate
	if limit := to.AddDate(0, 0, -attendance.MaxRangeDays); from.Before(limit) {
		from = limit
	}

	userID := r.UserID
	res, err := s.recalculator.Recalculate(user.WithActor(ctx, user.SystemActor), attendance.RecalculateRequest{
		DateFrom: from.Format("2006-01-02"),
		DateTo:   to.Format("2006-01-02"),
		UserID:   &userID,
	})
	if err != nil {
		slog.Error("Failed to reclassify attendance for approved leave", "leave_id", r.ID, "error", err)
		return
	}
	slog.Info("Attendance reclassified for approved leave", "leave_id", r.ID, "processed", res.Processed, "changed", res.Changed)
}

func (s *LeaveServiceImpl) announceDecision(ctx context.Context, r leave.Request) {
	typ, title := notification.TypeLeaveApproved, "Leave approved"
	if r.Status == leave.StatusRejected {
		typ, title = notification.TypeLeaveRejected, "Leave rejected"
	}
	start, end := r.StartDate.Format("02 Jan 2006"), r.EndDate.Format("02 Jan 2006")

	s.notifier.Notify(ctx, notification.CreateNotificationRequest{
		RecipientID: r.UserID,
		Type:        typ,
		Title:       title,
		Message:     fmt.Sprintf("Your %s leave from %s to %s was %s.", r.LeaveType, start, end, r.Status),
		Data:        map[string]any{"leave_id": r.ID},
	})

	if r.UserEmail == nil || *r.UserEmail == "" {
		return
	}
	to := *r.UserEmail
	data := email.LeaveDecision{
		LeaveType: string(r.LeaveType),
		StartDate: start,
		EndDate:   end,
		Status:    string(r.Status),
	}
	if r.UserName != nil {
		data.Name = *r.UserName
	}
	if r.ReviewNote != nil {
		data.Note = *r.ReviewNote
	}
	go func() {
		if err := s.mailer.SendLeaveDecision(to, data); err != nil {
			slog.Error("Failed to send leave decision email", "leave_id", r.ID, "to", to, "error", err)
		}
	}()
}

// Cancel implements leave.LeaveService.
func (s *LeaveServiceImpl) Cancel(ctx context.Context, id string) (leave.LeaveResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	r, err := s.leaves.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if r.UserID != actor.UserID {
		return leave.LeaveResponse{}, leave.ErrForbidden
	}
	if r.Status != leave.StatusPending {
		return leave.LeaveResponse{}, leave.ErrNotPending
	}

	r.Status = leave.StatusCancelled
	updated, err := s.leaves.UpdateStatus(ctx, r)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	return leave.NewLeaveResponse(updated), nil
}
