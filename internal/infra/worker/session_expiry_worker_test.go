package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeChecker struct {
	mu       sync.Mutex
	expireAt time.Time
	calls    []time.Time
}

func (c *fakeChecker) CheckExpiry(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, now)
	return !now.Before(c.expireAt)
}

func (c *fakeChecker) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func TestTickCallsOnExpire(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	checker := &fakeChecker{expireAt: base.Add(time.Minute)}
	expired := 0

	w := NewSessionExpiryWorker(checker, time.Second, func() { expired++ })
	w.now = func() time.Time { return base }
	assert.False(t, w.Tick())
	assert.Equal(t, 0, expired)

	w.now = func() time.Time { return base.Add(2 * time.Minute) }
	assert.True(t, w.Tick())
	assert.Equal(t, 1, expired)
}

func TestDefaultInterval(t *testing.T) {
	w := NewSessionExpiryWorker(&fakeChecker{}, 0, nil)
	assert.Equal(t, 30*time.Second, w.tickInterval)
}

func TestStartStopsWithContext(t *testing.T) {
	checker := &fakeChecker{expireAt: time.Now().Add(time.Hour)}
	w := NewSessionExpiryWorker(checker, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return checker.callCount() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker não parou após o cancelamento")
	}
}
