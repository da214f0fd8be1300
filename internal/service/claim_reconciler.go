package service

import (
	"context"
	"log/slog"
	"time"
)

// ClaimSyncer re-propagates pending role claims.
type ClaimSyncer interface {
	SyncPendingClaims(ctx context.Context) (int, error)
}

// StartClaimReconciler retries pending claim propagations every interval
// until ctx is cancelled.
func StartClaimReconciler(ctx context.Context, syncer ClaimSyncer, interval, timeout time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tickCtx, cancel := context.WithTimeout(ctx, timeout)
				n, err := syncer.SyncPendingClaims(tickCtx)
				cancel()
				if err != nil {
					slog.Error("claim reconciler error", "error", err)
					continue
				}
				if n > 0 {
					slog.Info("claim reconciler synced claims", "count", n)
				}
			}
		}
	}()
}
