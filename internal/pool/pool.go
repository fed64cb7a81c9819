// Package pool provides a bounded-concurrency task executor. A Pool runs
// submitted tasks on at most a fixed number of workers, spawning workers
// lazily as load demands. Dispatch is strictly FIFO; completion order
// across workers is not. Submit never blocks the caller, and Drain is a
// re-checkable barrier that returns once every pending task has finished.
package pool

import (
	"log/slog"
	"sync"
)

// Task is a deferred zero-argument unit of work. The pool never inspects
// it. Tasks are expected to handle their own failures; a panic inside a
// task is logged and contained without disturbing the pool's bookkeeping.
type Task func()

type worker struct {
	id    int
	tasks chan Task // capacity 1, the worker's private wake signal
}

// Pool runs tasks on up to maxWorkers concurrent workers.
type Pool struct {
	maxWorkers int

	mu      sync.Mutex
	done    *sync.Cond // signaled when pending drops to zero
	queue   []Task
	pending int
	closed  bool
	workers []*worker

	idle chan *worker  // workers ready for another task
	wake chan struct{} // nudges the dispatcher, capacity 1
	stop chan struct{}
	wg   sync.WaitGroup
}

// New constructs a pool that will never run more than maxWorkers tasks
// concurrently. Values below 1 are treated as 1.
func New(maxWorkers int) *Pool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	p := &Pool{
		maxWorkers: maxWorkers,
		idle:       make(chan *worker, maxWorkers),
		wake:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
	}
	p.done = sync.NewCond(&p.mu)
	p.wg.Add(1)
	go p.dispatch()
	return p
}

// Submit enqueues task for execution and returns immediately. The pending
// count is incremented under the same lock as the enqueue, so a Drain
// racing with Submit can never observe zero while this task exists.
// Submitting to a closed pool drops the task.
func (p *Pool) Submit(task Task) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		slog.Warn("pool: submit after close, task dropped")
		return
	}
	p.queue = append(p.queue, task)
	p.pending++
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default: // dispatcher already has a pending nudge
	}
}

// Drain blocks until every previously submitted task has completed. It is
// a barrier, not a shutdown: tasks submitted afterwards run normally and a
// later Drain call waits for them too.
func (p *Pool) Drain() {
	p.mu.Lock()
	for p.pending > 0 {
		p.done.Wait()
	}
	p.mu.Unlock()
}

// Close stops intake, waits for queued and in-flight tasks to finish, then
// terminates the dispatcher and joins every worker that was actually
// spawned. Close is idempotent.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.wg.Wait()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.Drain()
	close(p.stop)
	p.wg.Wait()
}

// dispatch decouples "a task became available" from "a worker became
// available". It pops tasks in FIFO order and hands each to exactly one
// worker, blocking only on worker availability, never on task execution.
func (p *Pool) dispatch() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stop:
			p.releaseWorkers()
			return
		case <-p.wake:
		}
		for {
			task, ok := p.next()
			if !ok {
				break
			}
			w := p.acquire()
			w.tasks <- task
		}
	}
}

func (p *Pool) next() (Task, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.queue) == 0 {
		return nil, false
	}
	task := p.queue[0]
	p.queue = p.queue[1:]
	return task, true
}

// acquire returns a free worker, spawning a new one while under the cap.
// With every worker spawned and busy it blocks until one frees up.
func (p *Pool) acquire() *worker {
	select {
	case w := <-p.idle:
		return w
	default:
	}
	p.mu.Lock()
	if len(p.workers) < p.maxWorkers {
		w := &worker{id: len(p.workers), tasks: make(chan Task, 1)}
		p.workers = append(p.workers, w)
		p.wg.Add(1)
		go p.run(w)
		p.mu.Unlock()
		return w
	}
	p.mu.Unlock()
	return <-p.idle
}

// run executes one task at a time on a single worker. The decrement, the
// zero check, and the completion signal happen under the pool lock so a
// concurrent Drain can neither miss a wakeup nor return early.
func (p *Pool) run(w *worker) {
	defer p.wg.Done()
	for task := range w.tasks {
		p.invoke(task)

		p.mu.Lock()
		p.pending--
		if p.pending == 0 {
			p.done.Broadcast()
		}
		p.mu.Unlock()

		p.idle <- w
	}
}

func (p *Pool) invoke(task Task) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("pool: task panicked", "panic", r)
		}
	}()
	task()
}

// releaseWorkers runs only after Close has drained the pool, so no worker
// still holds an assigned task.
func (p *Pool) releaseWorkers() {
	p.mu.Lock()
	workers := p.workers
	p.mu.Unlock()
	for _, w := range workers {
		close(w.tasks)
	}
}
