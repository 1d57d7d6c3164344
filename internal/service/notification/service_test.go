package notification

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	notification.NotificationRepository
	mu   sync.Mutex
	rows []notification.Notification
}

func (f *fakeRepo) Create(_ context.Context, n notification.Notification) (notification.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = fmt.Sprintf("n-%d", len(f.rows)+1)
	n.CreatedAt = time.Now()
	f.rows = append(f.rows, n)
	return n, nil
}

func (f *fakeRepo) List(_ context.Context, recipientID string, _ notification.NotificationFilter) ([]notification.Notification, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []notification.Notification
	for _, n := range f.rows {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) UnreadCount(_ context.Context, recipientID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, row := range f.rows {
		if row.RecipientID == recipientID && !row.IsRead {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) MarkAllAsRead(_ context.Context, recipientID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for i := range f.rows {
		if f.rows[i].RecipientID == recipientID && !f.rows[i].IsRead {
			f.rows[i].IsRead = true
			n++
		}
	}
	return n, nil
}

func newService(t *testing.T) (*service, *fakeRepo, *sse.Hub, jwt.Service) {
	t.Helper()
	jwtService, err := jwt.NewJWTService("test-secret", "15m", "24h", false)
	require.NoError(t, err)
	repo := &fakeRepo{}
	hub := sse.NewHub()
	svc := NewNotificationService(repo, hub, jwtService, Config{WorkerCount: 1, QueueSize: 8}).(*service)
	t.Cleanup(svc.Close)
	return svc, repo, hub, jwtService
}

func TestNotify_StoresAndStreams(t *testing.T) {
	svc, repo, _, _ := newService(t)
	ctx := user.WithActor(context.Background(), user.Actor{UserID: "user-1", Role: user.RoleEmployee})

	tok, err := svc.StreamToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, 300, tok.ExpiresIn)

	events, cancel, err := svc.Subscribe(tok.Token)
	require.NoError(t, err)
	defer cancel()

	svc.Notify(ctx, notification.CreateNotificationRequest{
		RecipientID: "user-1",
		Type:        notification.TypeLeaveApproved,
		Title:       "Leave approved",
		Message:     "Your casual leave was approved",
	})
	svc.Notify(ctx, notification.CreateNotificationRequest{Title: "no recipient"})

	select {
	case ev := <-events:
		assert.Equal(t, EventNotification, ev.Type)
		resp, ok := ev.Data.(notification.NotificationResponse)
		require.True(t, ok)
		assert.Equal(t, "Leave approved", resp.Title)
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not streamed")
	}

	list, err := svc.List(ctx, notification.NotificationFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.UnreadCount)
	require.Len(t, list.Notifications, 1)

	require.NoError(t, svc.MarkAllAsRead(ctx))
	count, err := svc.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count.UnreadCount)
	assert.Len(t, repo.rows, 1)
}

func TestSubscribe_RejectsAccessTokens(t *testing.T) {
	svc, _, _, jwtService := newService(t)

	access, _, err := jwtService.GenerateAccessToken("user-1", "a@example.com", nil, user.RoleEmployee)
	require.NoError(t, err)

	_, _, err = svc.Subscribe(access)
	assert.ErrorIs(t, err, notification.ErrInvalidStreamToken)
}

func TestClose_DrainsQueue(t *testing.T) {
	svc, repo, _, _ := newService(t)
	for i := 0; i < 5; i++ {
		svc.Notify(context.Background(), notification.CreateNotificationRequest{RecipientID: "user-2", Title: "x"})
	}
	svc.Close()

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.Len(t, repo.rows, 5)
}
