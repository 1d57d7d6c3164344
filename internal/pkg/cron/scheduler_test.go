package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunUnknownJob(t *testing.T) {
	s := NewScheduler()
	err := s.Run(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestScheduler_RunOnceCollectsErrors(t *testing.T) {
	s := NewScheduler()
	var calls atomic.Int32
	s.AddJob("ok", time.Hour, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})
	s.AddJob("broken", time.Hour, func(ctx context.Context) error {
		calls.Add(1)
		return errors.New("device unreachable")
	})

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken: device unreachable")
	assert.Equal(t, int32(2), calls.Load())
}

func TestScheduler_JobDoesNotOverlap(t *testing.T) {
	s := NewScheduler()
	release := make(chan struct{})
	entered := make(chan struct{})
	s.AddJob("slow", time.Hour, func(ctx context.Context) error {
		close(entered)
		<-release
		return nil
	})

	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(context.Background(), "slow") }()
	<-entered

	assert.True(t, s.IsRunning("slow"))
	assert.ErrorIs(t, s.Run(context.Background(), "slow"), ErrJobRunning)

	close(release)
	require.NoError(t, <-errCh)
	assert.False(t, s.IsRunning("slow"))
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler()
	ran := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}
