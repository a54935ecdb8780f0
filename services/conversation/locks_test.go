package conversation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLocks_SerializesSameSession(t *testing.T) {
	locks := newSessionLocks()
	var (
		wg      sync.WaitGroup
		active  int
		maxSeen int
		mu      sync.Mutex
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := locks.Lock(context.Background(), "s-1")
			if !assert.NoError(t, err) {
				return
			}
			defer release()

			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Equal(t, 0, locks.size())
}

func TestSessionLocks_IndependentSessions(t *testing.T) {
	locks := newSessionLocks()
	releaseA, err := locks.Lock(context.Background(), "a")
	require.NoError(t, err)
	releaseB, err := locks.Lock(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, 2, locks.size())
	releaseA()
	releaseB()
	assert.Equal(t, 0, locks.size())
}

func TestSessionLocks_WaiterGivesUpOnContext(t *testing.T) {
	locks := newSessionLocks()
	release, err := locks.Lock(context.Background(), "s-1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locks.Lock(ctx, "s-1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, locks.size())

	release()
	assert.Equal(t, 0, locks.size())

	// The abandoned wait leaves the session usable.
	release, err = locks.Lock(context.Background(), "s-1")
	require.NoError(t, err)
	release()
}

func TestSessionLocks_CanceledWaiterDoesNotBlockNext(t *testing.T) {
	locks := newSessionLocks()
	release, err := locks.Lock(context.Background(), "s-1")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := locks.Lock(ctx, "s-1")
		done <- err
	}()
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	acquired := make(chan struct{})
	go func() {
		r, err := locks.Lock(context.Background(), "s-1")
		if err == nil {
			r()
		}
		close(acquired)
	}()
	release()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("next waiter never acquired the session")
	}
	assert.Equal(t, 0, locks.size())
}
