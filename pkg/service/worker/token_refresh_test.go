package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/biogas-ops/gutboard/pkg/service/gauth"
	"github.com/biogas-ops/gutboard/pkg/service/worker"
	"github.com/m-mizutani/gt"
)

type mockTokenSource struct {
	calls atomic.Int32
	err   error
}

func (m *mockTokenSource) Current(ctx context.Context) (*gauth.CachedToken, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return &gauth.CachedToken{AccessToken: "token", TokenType: "Bearer", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestTokenRefreshWorker(t *testing.T) {
	t.Run("refreshes on start and on every tick", func(t *testing.T) {
		source := &mockTokenSource{}
		w := worker.NewTokenRefreshWorker(source, 10*time.Millisecond)
		gt.NoError(t, w.Start(t.Context())).Required()

		waitFor(t, func() bool { return source.calls.Load() >= 3 })
		w.Stop()

		stopped := source.calls.Load()
		time.Sleep(30 * time.Millisecond)
		gt.Value(t, source.calls.Load()).Equal(stopped)
	})

	t.Run("keeps running after failures", func(t *testing.T) {
		source := &mockTokenSource{err: errors.New("token endpoint down")}
		w := worker.NewTokenRefreshWorker(source, 10*time.Millisecond)
		gt.NoError(t, w.Start(t.Context())).Required()

		waitFor(t, func() bool { return source.calls.Load() >= 2 })
		w.Stop()
	})

	t.Run("stops when context is cancelled", func(t *testing.T) {
		source := &mockTokenSource{}
		ctx, cancel := context.WithCancel(context.Background())
		w := worker.NewTokenRefreshWorker(source, time.Hour)
		gt.NoError(t, w.Start(ctx)).Required()

		waitFor(t, func() bool { return source.calls.Load() >= 1 })
		cancel()
		w.Stop()
	})

	t.Run("rejects non-positive interval", func(t *testing.T) {
		w := worker.NewTokenRefreshWorker(&mockTokenSource{}, 0)
		gt.Error(t, w.Start(t.Context()))
	})
}
