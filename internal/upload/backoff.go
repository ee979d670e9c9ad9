package upload

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// linearBackOff waits one unit before the first retry and one more
// unit for every retry after that (1s, 2s, 3s, ... for a 1s unit).
type linearBackOff struct {
	unit time.Duration
	next time.Duration
}

func newLinearBackOff(unit time.Duration) *linearBackOff {
	return &linearBackOff{unit: unit, next: unit}
}

// NextBackOff implements backoff.BackOff.
func (b *linearBackOff) NextBackOff() time.Duration {
	d := b.next
	b.next += b.unit
	return d
}

// Reset implements backoff.BackOff.
func (b *linearBackOff) Reset() {
	b.next = b.unit
}

// retry runs op up to retries+1 times with linear backoff. Context
// cancellation aborts both the operation and any backoff sleep, so
// sibling-failure cancellation propagates between attempts.
func (u *Uploader) retry(ctx context.Context, retries int, op backoff.Operation) error {
	b := backoff.WithContext(
		backoff.WithMaxRetries(newLinearBackOff(u.backoffUnit), uint64(retries)),
		ctx,
	)

	return backoff.Retry(op, b)
}
