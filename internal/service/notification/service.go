package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/sse"
)

// EventNotification is the SSE event type for new notifications.
const EventNotification = "notification"

// Config holds notification service configuration
type Config struct {
	WorkerCount int // default: 2
	QueueSize   int // default: 1000
}

type service struct {
	repo notification.NotificationRepository
	hub  *sse.Hub
	jwt  jwt.Service
	cfg  Config

	queue     chan notification.CreateNotificationRequest
	wg        sync.WaitGroup
	stopOnce  sync.Once
	stopCh    chan struct{}
	closeWait time.Duration
}

// Service is the notification service plus its worker lifecycle.
type Service interface {
	notification.NotificationService
	// Close drains the queue and stops the workers.
	Close()
}

// NewNotificationService starts background workers that store queued
// notifications and push them to live streams.
func NewNotificationService(repo notification.NotificationRepository, hub *sse.Hub, jwtService jwt.Service, cfg Config) Service {
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}

	s := &service{
		repo:      repo,
		hub:       hub,
		jwt:       jwtService,
		cfg:       cfg,
		queue:     make(chan notification.CreateNotificationRequest, cfg.QueueSize),
		stopCh:    make(chan struct{}),
		closeWait: 10 * time.Second,
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("Notification service started", "workers", cfg.WorkerCount, "queue_size", cfg.QueueSize)
	return s
}

func (s *service) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case req := <-s.queue:
			s.store(req)
		case <-s.stopCh:
			// Drain what is already queued.
			for {
				select {
				case req := <-s.queue:
					s.store(req)
				default:
					slog.Debug("Notification worker stopped", "worker", id)
					return
				}
			}
		}
	}
}

func (s *service) store(req notification.CreateNotificationRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.insert(ctx, req); err != nil {
		slog.Error("Failed to store notification", "recipient_id", req.RecipientID, "type", req.Type, "error", err)
	}
}

func (s *service) insert(ctx context.Context, req notification.CreateNotificationRequest) error {
	n, err := s.repo.Create(ctx, notification.Notification{
		RecipientID: req.RecipientID,
		Type:        req.Type,
		Title:       req.Title,
		Message:     req.Message,
		Data:        req.Data,
	})
	if err != nil {
		return err
	}

	s.hub.Publish(n.RecipientID, sse.Event{
		ID:   n.ID,
		Type: EventNotification,
		Data: notification.NewNotificationResponse(n),
	})
	return nil
}

func (s *service) Close() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		done := make(chan struct{})
		go func() {
			s.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(s.closeWait):
			slog.Warn("Notification workers did not stop in time")
		}
	})
}

// Notify implements notification.NotificationService.
func (s *service) Notify(ctx context.Context, req notification.CreateNotificationRequest) {
	if req.RecipientID == "" {
		return
	}

	select {
	case s.queue <- req:
	default:
		// Queue full, insert inline.
		if err := s.insert(ctx, req); err != nil {
			slog.Error("Failed to store notification", "recipient_id", req.RecipientID, "type", req.Type, "error", err)
		}
	}
}

// List implements notification.NotificationService.
func (s *service) List(ctx context.Context, filter notification.NotificationFilter) (notification.ListNotificationResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return notification.ListNotificationResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return notification.ListNotificationResponse{}, err
	}

	list, total, err := s.repo.List(ctx, actor.UserID, filter)
	if err != nil {
		return notification.ListNotificationResponse{}, fmt.Errorf("failed to list notifications: %w", err)
	}
	unread, err := s.repo.UnreadCount(ctx, actor.UserID)
	if err != nil {
		return notification.ListNotificationResponse{}, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	resp := notification.ListNotificationResponse{
		UnreadCount:   unread,
		Notifications: make([]notification.NotificationResponse, 0, len(list)),
	}
	for _, n := range list {
		resp.Notifications = append(resp.Notifications, notification.NewNotificationResponse(n))
	}
	resp.Meta = pagination.NewMeta(filter.Params, total, len(list))
	return resp, nil
}

// UnreadCount implements notification.NotificationService.
func (s *service) UnreadCount(ctx context.Context) (notification.UnreadCountResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return notification.UnreadCountResponse{}, err
	}
	n, err := s.repo.UnreadCount(ctx, actor.UserID)
	if err != nil {
		return notification.UnreadCountResponse{}, err
	}
	return notification.UnreadCountResponse{UnreadCount: n}, nil
}

// MarkAsRead implements notification.NotificationService.
func (s *service) MarkAsRead(ctx context.Context, req notification.MarkAsReadRequest) error {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}
	_, err = s.repo.MarkAsRead(ctx, actor.UserID, req.NotificationIDs)
	return err
}

// MarkAllAsRead implements notification.NotificationService.
func (s *service) MarkAllAsRead(ctx context.Context) error {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return err
	}
	_, err = s.repo.MarkAllAsRead(ctx, actor.UserID)
	return err
}

// Delete implements notification.NotificationService.
func (s *service) Delete(ctx context.Context, id string) error {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, actor.UserID, id)
}

// StreamToken implements notification.NotificationService.
func (s *service) StreamToken(ctx context.Context) (notification.StreamTokenResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return notification.StreamTokenResponse{}, err
	}
	token, expiresIn, err := s.jwt.GenerateStreamToken(actor.UserID)
	if err != nil {
		return notification.StreamTokenResponse{}, fmt.Errorf("failed to issue stream token: %w", err)
	}
	return notification.StreamTokenResponse{Token: token, ExpiresIn: expiresIn}, nil
}

// Subscribe implements notification.NotificationService.
func (s *service) Subscribe(token string) (<-chan sse.Event, func(), error) {
	userID, err := s.jwt.ValidateStreamToken(token)
	if err != nil {
		return nil, nil, notification.ErrInvalidStreamToken
	}
	ch, cancel := s.hub.Subscribe(userID)
	return ch, cancel, nil
}
