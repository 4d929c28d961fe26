package passwd

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// Pool runs a Hasher on background goroutines, at most size at a time.
// Callers block only on their own result or on ctx.
type Pool struct {
	h   Hasher
	sem *semaphore.Weighted
}

func NewPool(h Hasher, size int) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	return &Pool{
		h:   h,
		sem: semaphore.NewWeighted(int64(size)),
	}
}

type hashResult struct {
	digest string
	ok     bool
	err    error
}

func (p *Pool) Hash(ctx context.Context, pw string) (string, error) {
	res, err := p.run(ctx, func() hashResult {
		d, err := p.h.Hash(pw)
		return hashResult{digest: d, err: err}
	})
	if err != nil {
		return "", err
	}
	return res.digest, res.err
}

func (p *Pool) Verify(ctx context.Context, pw, enc string) (bool, error) {
	res, err := p.run(ctx, func() hashResult {
		ok, err := p.h.Verify(pw, enc)
		return hashResult{ok: ok, err: err}
	})
	if err != nil {
		return false, err
	}
	return res.ok, res.err
}

func (p *Pool) run(ctx context.Context, fn func() hashResult) (hashResult, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return hashResult{}, err
	}
	// buffered so an abandoned computation can still finish and release
	ch := make(chan hashResult, 1)
	go func() {
		defer p.sem.Release(1)
		ch <- fn()
	}()
	select {
	case res := <-ch:
		return res, nil
	case <-ctx.Done():
		return hashResult{}, ctx.Err()
	}
}
