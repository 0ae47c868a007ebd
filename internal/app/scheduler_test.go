package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestScheduler_RunsAndStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	var runs atomic.Int32
	ran := make(chan struct{}, 10)

	s := NewScheduler(zap.NewNop(), Job{
		Name:       "count",
		Interval:   5 * time.Millisecond,
		RunAtStart: true,
		Run: func(ctx context.Context) error {
			runs.Add(1)
			select {
			case ran <- struct{}{}:
			default:
			}
			return nil
		},
	})

	s.Start(context.Background())
	for i := 0; i < 2; i++ {
		select {
		case <-ran:
		case <-time.After(time.Second):
			t.Fatal("job did not run")
		}
	}
	s.Stop()
	s.Stop()

	assert.GreaterOrEqual(t, runs.Load(), int32(2))
}

func TestScheduler_ContextCancelAndErrors(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	called := make(chan struct{}, 1)

	s := NewScheduler(zap.NewNop(), Job{
		Name:       "failing",
		Interval:   time.Hour,
		RunAtStart: true,
		Run: func(ctx context.Context) error {
			select {
			case called <- struct{}{}:
			default:
			}
			return errors.New("boom")
		},
	})

	s.Start(ctx)
	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("job did not run at start")
	}

	cancel()
	s.Stop()
}
