package question

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCleaner struct {
	mu      sync.Mutex
	cutoffs []time.Time
	err     error
}

func (r *recordingCleaner) CleanupBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cutoffs = append(r.cutoffs, cutoff)
	return 2, r.err
}

func (r *recordingCleaner) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cutoffs)
}

func TestJanitor_RetentionNeverBelowLockWindow(t *testing.T) {
	j := NewJanitor(&recordingCleaner{}, time.Minute, time.Hour, zerolog.Nop())
	assert.Equal(t, maxLockWindow, j.retention)

	j = NewJanitor(&recordingCleaner{}, time.Minute, 72*time.Hour, zerolog.Nop())
	assert.Equal(t, 72*time.Hour, j.retention)
}

func TestJanitor_TickUsesRetentionCutoff(t *testing.T) {
	cleaner := &recordingCleaner{}
	j := NewJanitor(cleaner, time.Minute, 48*time.Hour, zerolog.Nop())
	j.now = func() time.Time { return t0 }

	j.tick(context.Background())

	require.Len(t, cleaner.cutoffs, 1)
	assert.Equal(t, t0.Add(-48*time.Hour), cleaner.cutoffs[0])
}

func TestJanitor_TickSurvivesErrors(t *testing.T) {
	cleaner := &recordingCleaner{err: errors.New("locked")}
	j := NewJanitor(cleaner, time.Minute, 0, zerolog.Nop())

	j.tick(context.Background())
	assert.Equal(t, 1, cleaner.calls())
}

func TestJanitor_RunStopsOnCancel(t *testing.T) {
	cleaner := &recordingCleaner{}
	j := NewJanitor(cleaner, time.Hour, 0, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- j.Run(ctx) }()

	require.Eventually(t, func() bool { return cleaner.calls() == 1 }, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestJanitor_DisabledInterval(t *testing.T) {
	cleaner := &recordingCleaner{}
	j := NewJanitor(cleaner, 0, 0, zerolog.Nop())

	assert.NoError(t, j.Run(context.Background()))
	assert.Zero(t, cleaner.calls())
}
