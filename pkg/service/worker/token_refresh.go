package worker

import (
	"context"
	"time"

	"github.com/biogas-ops/gutboard/pkg/service/gauth"
	"github.com/biogas-ops/gutboard/pkg/utils/errutil"
	"github.com/biogas-ops/gutboard/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// TokenSource is the part of the token exchange client the worker drives
type TokenSource interface {
	Current(ctx context.Context) (*gauth.CachedToken, error)
}

// TokenRefreshWorker keeps the cached access token warm so that request
// paths rarely wait on the token endpoint. The interval should be shorter
// than the client's expiry margin.
//
// Single server instance only; each instance warms its own cache.
type TokenRefreshWorker struct {
	source   TokenSource
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewTokenRefreshWorker(source TokenSource, interval time.Duration) *TokenRefreshWorker {
	return &TokenRefreshWorker{
		source:   source,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the first refresh and the periodic loop in the background
func (w *TokenRefreshWorker) Start(ctx context.Context) error {
	if w.interval <= 0 {
		return goerr.New("refresh interval must be positive", goerr.V("interval", w.interval))
	}

	logging.Default().Info("Token refresh worker starting", "interval", w.interval.String())
	go w.run(ctx)
	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *TokenRefreshWorker) Stop() {
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("Token refresh worker stopped")
}

func (w *TokenRefreshWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	w.refresh(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.refresh(ctx)

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.Default().Info("Token refresh worker context cancelled")
			return
		}
	}
}

// refresh failures are reported and retried on the next tick
func (w *TokenRefreshWorker) refresh(ctx context.Context) {
	token, err := w.source.Current(ctx)
	if err != nil {
		errutil.Handle(ctx, err, "token refresh failed (will retry next interval)")
		return
	}
	logging.Default().Debug("Access token is warm", "expires_at", token.ExpiresAt)
}
