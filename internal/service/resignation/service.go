package resignation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/resignation"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/email"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/attendance-hr-go/internal/repository/postgresql"
)

type ResignationServiceImpl struct {
	tx           postgresql.Transactor
	resignations resignation.ResignationRepository
	users        user.UserRepository
	notifier     notification.NotificationService
	mailer       email.Mailer
	now          func() time.Time
}

func NewResignationService(
	tx postgresql.Transactor,
	resignations resignation.ResignationRepository,
	users user.UserRepository,
	notifier notification.NotificationService,
	mailer email.Mailer,
) resignation.ResignationService {
	return &ResignationServiceImpl{
		tx:           tx,
		resignations: resignations,
		users:        users,
		notifier:     notifier,
		mailer:       mailer,
		now:          time.Now,
	}
}

func (s *ResignationServiceImpl) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func canSee(actor user.Actor, r resignation.Resignation) bool {
	switch {
	case actor.IsHR(), actor.UserID == r.UserID:
		return true
	case actor.Role == user.RoleManager:
		return actor.OfficeID != nil && r.OfficeID != nil && *actor.OfficeID == *r.OfficeID
	}
	return false
}

// Submit implements resignation.ResignationService.
func (s *ResignationServiceImpl) Submit(ctx context.Context, req resignation.SubmitRequest) (resignation.ResignationResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return resignation.ResignationResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return resignation.ResignationResponse{}, err
	}
	today := s.today()
	if req.LastDay.Before(today) {
		return resignation.ResignationResponse{}, resignation.ErrLastDayInPast
	}

	var created resignation.Resignation
	err = s.tx.InTx(ctx, func(txCtx context.Context) error {
		open, err := s.resignations.HasOpen(txCtx, actor.UserID)
		if err != nil {
			return err
		}
		if open {
			return resignation.ErrAlreadyResigned
		}
		created, err = s.resignations.Create(txCtx, resignation.Resignation{
			UserID:         actor.UserID,
			NoticeDate:     today,
			LastWorkingDay: req.LastDay,
			Reason:         strings.TrimSpace(req.Reason),
			Status:         resignation.StatusPending,
		})
		return err
	})
	if err != nil {
		return resignation.ResignationResponse{}, err
	}

	if u, err := s.users.GetByID(ctx, actor.UserID); err == nil && u.ManagerID != nil {
		s.notifier.Notify(ctx, notification.CreateNotificationRequest{
			RecipientID: *u.ManagerID,
			Type:        notification.TypeResignationSubmitted,
			Title:       "Resignation submitted",
			Message:     fmt.Sprintf("%s resigned with last working day %s.", u.FullName, req.LastDay.Format("02 Jan 2006")),
			Data:        map[string]any{"resignation_id": created.ID},
		})
	}
	return resignation.NewResignationResponse(created), nil
}

// Get implements resignation.ResignationService.
func (s *ResignationServiceImpl) Get(ctx context.Context, id string) (resignation.ResignationResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return resignation.ResignationResponse{}, err
	}
	r, err := s.resignations.GetByID(ctx, id)
	if err != nil {
		return resignation.ResignationResponse{}, err
	}
	if !canSee(actor, r) {
		return resignation.ResignationResponse{}, resignation.ErrForbidden
	}
	return resignation.NewResignationResponse(r), nil
}

// ListMine implements resignation.ResignationService.
func (s *ResignationServiceImpl) ListMine(ctx context.Context) ([]resignation.ResignationResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	filter := resignation.ResignationFilter{UserID: &actor.UserID, Params: pagination.Params{Limit: pagination.MaxLimit}}
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	rows, _, err := s.resignations.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list resignations: %w", err)
	}
	resp := make([]resignation.ResignationResponse, 0, len(rows))
	for _, r := range rows {
		resp = append(resp, resignation.NewResignationResponse(r))
	}
	return resp, nil
}

// List implements resignation.ResignationService.
func (s *ResignationServiceImpl) List(ctx context.Context, filter resignation.ResignationFilter) (resignation.ListResignationResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return resignation.ListResignationResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return resignation.ListResignationResponse{}, err
	}
	switch {
	case actor.IsHR():
	case actor.Role == user.RoleManager:
		if actor.OfficeID == nil {
			return resignation.ListResignationResponse{}, user.ErrInsufficientPermissions
		}
		filter.OfficeID = actor.OfficeID
	default:
		filter.UserID = &actor.UserID
	}

	rows, total, err := s.resignations.List(ctx, filter)
	if err != nil {
		return resignation.ListResignationResponse{}, fmt.Errorf("failed to list resignations: %w", err)
	}
	resp := resignation.ListResignationResponse{Resignations: make([]resignation.ResignationResponse, 0, len(rows))}
	for _, r := range rows {
		resp.Resignations = append(resp.Resignations, resignation.NewResignationResponse(r))
	}
	resp.Meta = pagination.NewMeta(filter.Params, total, len(rows))
	return resp, nil
}

// Accept implements resignation.ResignationService.
func (s *ResignationServiceImpl) Accept(ctx context.Context, req resignation.ReviewRequest) (resignation.ResignationResponse, error) {
	return s.review(ctx, req, resignation.StatusAccepted)
}

// Reject implements resignation.ResignationService.
func (s *ResignationServiceImpl) Reject(ctx context.Context, req resignation.ReviewRequest) (resignation.ResignationResponse, error) {
	return s.review(ctx, req, resignation.StatusRejected)
}

func (s *ResignationServiceImpl) review(ctx context.Context, req resignation.ReviewRequest, status resignation.Status) (resignation.ResignationResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return resignation.ResignationResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return resignation.ResignationResponse{}, err
	}

	var updated resignation.Resignation
	err = s.tx.InTx(ctx, func(txCtx context.Context) error {
		r, err := s.resignations.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		if r.UserID == actor.UserID {
			return resignation.ErrCannotReviewOwn
		}
		if !actor.CanReview() || !canSee(actor, r) {
			return resignation.ErrForbidden
		}
		if r.Status != resignation.StatusPending {
			return resignation.ErrNotPending
		}

		now := s.now()
		r.Status = status
		r.ReviewedAt = &now
		r.ReviewNote = req.Note
		if actor.UserID != "" {
			r.ReviewedBy = &actor.UserID
		}
		if status == resignation.StatusAccepted && req.LastDay != nil {
			r.LastWorkingDay = *req.LastDay
		}

		updated, err = s.resignations.UpdateStatus(txCtx, r)
		if err != nil {
			return err
		}
		if status == resignation.StatusAccepted {
			last := updated.LastWorkingDay
			if err := s.users.SetRelievingDate(txCtx, updated.UserID, &last); err != nil {
				return fmt.Errorf("failed to set relieving date: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return resignation.ResignationResponse{}, err
	}

	s.announceDecision(ctx, updated)
	return resignation.NewResignationResponse(updated), nil
}

func (s *ResignationServiceImpl) announceDecision(ctx context.Context, r resignation.Resignation) {
	typ, title := notification.TypeResignationAccepted, "Resignation accepted"
	if r.Status == resignation.StatusRejected {
		typ, title = notification.TypeResignationRejected, "Resignation rejected"
	}
	lastDay := r.LastWorkingDay.Format("02 Jan 2006")

	s.notifier.Notify(ctx, notification.CreateNotificationRequest{
		RecipientID: r.UserID,
		Type:        typ,
		Title:       title,
		Message:     fmt.Sprintf("Your resignation with last working day %s was %s.", lastDay, r.Status),
		Data:        map[string]any{"resignation_id": r.ID},
	})

	if r.UserEmail == nil || *r.UserEmail == "" {
		return
	}
	to := *r.UserEmail
	data := email.ResignationDecision{LastWorkingDay: lastDay, Status: string(r.Status)}
	if r.UserName != nil {
		data.Name = *r.UserName
	}
	if r.ReviewNote != nil {
		data.Note = *r.ReviewNote
	}
	go func() {
		if err := s.mailer.SendResignationDecision(to, data); err != nil {
			slog.Error("Failed to send resignation decision email", "resignation_id", r.ID, "to", to, "error", err)
		}
	}()
}

// Withdraw implements resignation.ResignationService.
func (s *ResignationServiceImpl) Withdraw(ctx context.Context, id string) (resignation.ResignationResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return resignation.ResignationResponse{}, err
	}
	r, err := s.resignations.GetByID(ctx, id)
	if err != nil {
		return resignation.ResignationResponse{}, err
	}
	if r.UserID != actor.UserID {
		return resignation.ResignationResponse{}, resignation.ErrForbidden
	}
	if r.Status != resignation.StatusPending {
		return resignation.ResignationResponse{}, resignation.ErrNotPending
	}

	r.Status = resignation.StatusWithdrawn
	updated, err := s.resignations.UpdateStatus(ctx, r)
	if err != nil {
		return resignation.ResignationResponse{}, err
	}
	return resignation.NewResignationResponse(updated), nil
}
