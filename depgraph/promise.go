package depgraph

import (
	"context"
	"sync"
)

// Promise is a single-assignment future for one node's computation. It is
// settled exactly once, either with a value or an error, and any number of
// goroutines may wait on it. The async engine stores a Promise at the cache
// slot the instant a computation begins, so every concurrent requester of a
// node observes the same in-flight handle.
type Promise struct {
	done chan struct{}
	once sync.Once

	// val and err are written before done is closed and read only after,
	// so no further synchronization is needed.
	val any
	err error
}

// newPromise returns an unsettled promise.
func newPromise() *Promise {
	return &Promise{done: make(chan struct{})}
}

// resolvedPromise returns a promise already settled with val. Used for
// pre-seeded cache entries.
func resolvedPromise(val any) *Promise {
	p := newPromise()
	p.settle(val, nil)
	return p
}

// rejectedPromise returns a promise already settled with err.
func rejectedPromise(err error) *Promise {
	p := newPromise()
	p.settle(nil, err)
	return p
}

// settle records the outcome. Only the first call has any effect.
func (p *Promise) settle(val any, err error) {
	p.once.Do(func() {
		p.val = val
		p.err = err
		close(p.done)
	})
}

// Wait blocks until the promise settles or ctx is done, whichever comes
// first. Cancellation abandons the wait only; the underlying computation is
// not stopped and may still settle the promise for other waiters.
func (p *Promise) Wait(ctx context.Context) (any, error) {
	select {
	case <-p.done:
		return p.val, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Done returns a channel closed when the promise settles.
func (p *Promise) Done() <-chan struct{} {
	return p.done
}

// Peek returns the outcome without blocking. ok is false while the
// computation is still in flight.
func (p *Promise) Peek() (val any, err error, ok bool) {
	select {
	case <-p.done:
		return p.val, p.err, true
	default:
		return nil, nil, false
	}
}
