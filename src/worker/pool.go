package worker

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sync"

	"screen-snip/src/messages"
)

// Job runs off the coordinator and reports its outcome as a message.
type Job func(ctx context.Context) messages.Message

// ResultCallback is invoked on job completion (from a worker goroutine).
// The event loop passes a closure that posts back into the loop.
type ResultCallback func(msg messages.Message)

// Pool is a fixed-size worker pool with a 1-slot input queue (strict back-pressure).
type Pool struct {
	jobs chan job
	wg   sync.WaitGroup
}

type job struct {
	ctx context.Context
	id  string
	run Job
	cb  ResultCallback
}

// New creates a worker pool. Size defaults to NumCPU when size<=0. Queue is 1 slot.
func New(size int) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	p := &Pool{jobs: make(chan job, 1)}
	p.start(size)
	return p
}

func (p *Pool) start(n int) {
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for j := range p.jobs {
				log.Printf("[%s] Worker: job started", j.id)
				msg := runSafely(j)
				log.Printf("[%s] Worker: job finished: %s", j.id, msg.Type())
				j.cb(msg)
			}
		}()
	}
}

// runSafely turns a panicking job into a CaptureFailed so the resident
// keeps running.
func runSafely(j job) (msg messages.Message) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[%s] Worker: job panicked: %v", j.id, r)
			msg = messages.CaptureFailed{ID: j.id, Error: fmt.Errorf("job panicked: %v", r)}
		}
	}()
	if err := j.ctx.Err(); err != nil {
		return messages.CaptureFailed{ID: j.id, Error: err}
	}
	return j.run(j.ctx)
}

// Submit enqueues a job if the single-slot queue is free. Returns false if dropped.
func (p *Pool) Submit(ctx context.Context, id string, run Job, cb ResultCallback) bool {
	select {
	case p.jobs <- job{ctx: ctx, id: id, run: run, cb: cb}:
		return true
	default:
		return false
	}
}

// Close stops the pool after draining current work.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
}
