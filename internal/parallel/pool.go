// Package parallel provides the worker pool and row partitioning used by the
// row-parallel render engine.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a fixed pool of goroutines for row-parallel rendering.
//
// Work items are drawn from a single shared queue. Row bands are uniform in
// cost (each band covers the same number of rows and the per-row early-outs
// average out across bands), so per-worker queues with stealing buy nothing
// here; a shared queue keeps completion order irrelevant and the pool small.
//
// Thread safety: Pool is safe for concurrent use.
type Pool struct {
	workers int
	queue   chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewPool creates a pool with the specified number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
// Workers start immediately and wait for work.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := workers * 4
	if queueSize < 8 {
		queueSize = 8
	}

	p := &Pool{
		workers: workers,
		queue:   make(chan func(), queueSize),
		done:    make(chan struct{}),
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			p.drain()
			return
		case work := <-p.queue:
			if work != nil {
				work()
			}
		}
	}
}

// drain executes any work still queued at shutdown.
func (p *Pool) drain() {
	for {
		select {
		case work := <-p.queue:
			if work != nil {
				work()
			}
		default:
			return
		}
	}
}

// ExecuteAll submits every item and waits for all of them to complete.
// If the pool is closed, queued-but-unsubmitted items are skipped.
func (p *Pool) ExecuteAll(work []func()) {
	if len(work) == 0 || !p.running.Load() {
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(work))
	for _, fn := range work {
		fn := fn
		select {
		case p.queue <- func() { defer wg.Done(); fn() }:
		case <-p.done:
			wg.Done()
		}
	}
	wg.Wait()
}

// Close stops accepting work, finishes what is queued, and joins the workers.
// Close is safe to call multiple times.
func (p *Pool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *Pool) Workers() int { return p.workers }

// IsRunning reports whether the pool is still accepting work.
func (p *Pool) IsRunning() bool { return p.running.Load() }
