// Package worker provides the bounded pool that runs speech playback off
// the request path. A fixed number of workers drain a bounded queue, so
// rapid-fire requests cannot fan out into unbounded goroutines; a full
// queue drops the task with a logged warning instead of blocking the
// HTTP response.
package worker

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// Task is a unit of background work. Errors are logged, never returned to
// the submitter.
type Task struct {
	Name string
	Run  func() error
}

// Pool runs tasks on a fixed set of workers over a bounded queue.
type Pool struct {
	queue  chan Task
	wg     sync.WaitGroup
	closed atomic.Bool
}

// NewPool starts a pool with the given worker count and queue capacity.
// Non-positive arguments fall back to 1 worker / capacity 16.
func NewPool(workers, capacity int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if capacity <= 0 {
		capacity = 16
	}
	p := &Pool{queue: make(chan Task, capacity)}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.work()
	}
	return p
}

// Submit queues a task without blocking. Returns false (and logs a
// warning) when the queue is full or the pool is closed.
func (p *Pool) Submit(task Task) bool {
	if p.closed.Load() {
		return false
	}
	select {
	case p.queue <- task:
		return true
	default:
		slog.Warn("worker queue full, dropping task", "task", task.Name)
		return false
	}
}

// Close stops accepting tasks, drains the queue and waits for workers to
// finish. Idempotent.
func (p *Pool) Close() {
	if p.closed.Swap(true) {
		return
	}
	close(p.queue)
	p.wg.Wait()
}

func (p *Pool) work() {
	defer p.wg.Done()
	for task := range p.queue {
		if task.Run == nil {
			continue
		}
		if err := task.Run(); err != nil {
			slog.Error("background task failed", "task", task.Name, "error", err)
		}
	}
}
