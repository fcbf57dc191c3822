package worker

import (
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/zap"
)

// Pool is a fixed set of goroutines draining one FIFO task queue.
// Tasks always run to completion; there is no cancellation.
type Pool struct {
	mu     sync.Mutex
	work   *sync.Cond // signalled when a task is queued or the pool closes
	idle   *sync.Cond // signalled when the queue drains and nothing runs
	tasks  []func()
	active int
	closed bool
	size   int
	wg     sync.WaitGroup
	log    *zap.Logger
}

// New starts size workers. size <= 0 uses one worker per CPU.
func New(size int, log *zap.Logger) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	if log == nil {
		log = zap.NewNop()
	}
	p := &Pool{
		tasks: make([]func(), 0, 64),
		size:  size,
		log:   log,
	}
	p.work = sync.NewCond(&p.mu)
	p.idle = sync.NewCond(&p.mu)
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) Size() int { return p.size }

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for len(p.tasks) == 0 && !p.closed {
			p.work.Wait()
		}
		if len(p.tasks) == 0 {
			// closed and drained
			p.mu.Unlock()
			return
		}
		task := p.tasks[0]
		p.tasks[0] = nil
		p.tasks = p.tasks[1:]
		p.active++
		p.mu.Unlock()

		p.run(task)

		p.mu.Lock()
		p.active--
		if p.active == 0 && len(p.tasks) == 0 {
			p.idle.Broadcast()
		}
		p.mu.Unlock()
	}
}

func (p *Pool) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("worker task panicked", zap.Any("panic", r))
		}
	}()
	task()
}

// Go queues fn. It returns ErrPoolClosed once Close has been called.
func (p *Pool) Go(fn func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPoolClosed
	}
	p.tasks = append(p.tasks, fn)
	p.work.Signal()
	return nil
}

// Wait blocks until the queue is empty and no task is executing.
// Calling it from inside a task deadlocks.
func (p *Pool) Wait() {
	p.mu.Lock()
	for len(p.tasks) > 0 || p.active > 0 {
		p.idle.Wait()
	}
	p.mu.Unlock()
}

// Close stops accepting work, lets workers drain what is already queued, and
// joins them. Safe to call more than once.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.wg.Wait()
		return
	}
	p.closed = true
	p.work.Broadcast()
	p.mu.Unlock()
	p.wg.Wait()
}

// Future is the pending result of a Submit call.
type Future[R any] struct {
	done chan struct{}
	val  R
	err  error
}

// Wait blocks until the task finished and returns its result.
func (f *Future[R]) Wait() (R, error) {
	<-f.done
	return f.val, f.err
}

// Done is closed when the result is ready.
func (f *Future[R]) Done() <-chan struct{} { return f.done }

// Submit queues fn and returns a future for its result. A panic inside fn is
// returned as an error wrapping ErrTaskPanicked; the pool keeps running.
func Submit[R any](p *Pool, fn func() (R, error)) *Future[R] {
	f := &Future[R]{done: make(chan struct{})}
	err := p.Go(func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.err = fmt.Errorf("%w: %v", ErrTaskPanicked, r)
			}
		}()
		f.val, f.err = fn()
	})
	if err != nil {
		f.err = err
		close(f.done)
	}
	return f
}
