// Package persist runs disk writes off the UI event path.
package persist

import (
	"context"
	"sync"
	"time"
)

// Job performs one unit of I/O.
type Job func(ctx context.Context) error

// Result reports the outcome of a finished job.
type Result struct {
	Name string
	Err  error
	At   time.Time
}

type pending struct {
	name string
	key  string
	job  Job
}

// Worker executes jobs sequentially on a single goroutine. Enqueue never
// blocks; a queued job with the same non-empty key is replaced by the newer one.
type Worker struct {
	mu      sync.Mutex
	queue   []pending
	closed  bool
	wake    chan struct{}
	done    chan struct{}
	results chan Result
	now     func() time.Time
}

// resultBuffer bounds undelivered results; older results are dropped when full.
const resultBuffer = 16

// Start launches a worker. Jobs run with ctx.
func Start(ctx context.Context) *Worker {
	w := &Worker{
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		results: make(chan Result, resultBuffer),
		now:     time.Now,
	}
	go w.loop(ctx)
	return w
}

// Enqueue schedules job. An empty key never coalesces.
func (w *Worker) Enqueue(name, key string, job Job) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	replaced := false
	if key != "" {
		for i := range w.queue {
			if w.queue[i].key == key {
				w.queue[i] = pending{name: name, key: key, job: job}
				replaced = true
				break
			}
		}
	}
	if !replaced {
		w.queue = append(w.queue, pending{name: name, key: key, job: job})
	}
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Results delivers the outcome of each job. The channel is closed after Close.
func (w *Worker) Results() <-chan Result {
	return w.results
}

// Close stops accepting jobs, runs everything already queued and waits.
func (w *Worker) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		<-w.done
		return
	}
	w.closed = true
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
	<-w.done
}

func (w *Worker) loop(ctx context.Context) {
	defer close(w.done)
	defer close(w.results)
	for range w.wake {
		for {
			batch, closed := w.take()
			for _, p := range batch {
				err := p.job(ctx)
				w.publish(Result{Name: p.name, Err: err, At: w.now()})
			}
			if len(batch) == 0 {
				if closed {
					return
				}
				break
			}
		}
	}
}

func (w *Worker) take() ([]pending, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	batch := w.queue
	w.queue = nil
	return batch, w.closed
}

func (w *Worker) publish(r Result) {
	for {
		select {
		case w.results <- r:
			return
		default:
		}
		select {
		case <-w.results:
		default:
		}
	}
}
