package services

import (
	"context"
	"time"
)

// Delays are the artificial latencies that make the mock gateway feel
// like a remote processor. The zero value disables them entirely, which
// is what every test uses.
type Delays struct {
	Process   time.Duration // payment submission
	Operation time.Duration // capture, void, refund, lifecycle updates
	List      time.Duration // full-collection reads
	Get       time.Duration // single-entity reads
}

// sleep waits for the configured delay or until the context expires.
// The delay itself always resolves; only the caller can abandon it.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
