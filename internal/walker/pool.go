package walker

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

type task func() error

// pool runs tasks on a fixed number of workers. Tasks may spawn more tasks
// without blocking; run returns once every spawned task has finished or the
// pool was stopped.
type pool struct {
	mu      sync.Mutex
	cond    *sync.Cond
	tasks   []task
	pending int // spawned but not yet finished
	stopped bool
}

func newPool() *pool {
	p := &pool{}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// spawn queues t. It reports false if the pool has been stopped.
func (p *pool) spawn(t task) bool {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return false
	}
	p.pending++
	p.tasks = append(p.tasks, t)
	p.mu.Unlock()

	p.cond.Signal()
	return true
}

// stop abandons queued tasks and releases idle workers. Running tasks are
// not interrupted.
func (p *pool) stop() {
	p.mu.Lock()
	p.stopped = true
	p.tasks = nil
	p.mu.Unlock()

	p.cond.Broadcast()
}

// next blocks until a task is available. ok is false once the pool drained
// or stopped.
func (p *pool) next() (t task, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.tasks) == 0 && p.pending > 0 && !p.stopped {
		p.cond.Wait()
	}
	if p.stopped || len(p.tasks) == 0 {
		return nil, false
	}

	// LIFO keeps the queue close to depth-first and its size small.
	last := len(p.tasks) - 1
	t = p.tasks[last]
	p.tasks[last] = nil
	p.tasks = p.tasks[:last]
	return t, true
}

func (p *pool) done() {
	p.mu.Lock()
	p.pending--
	drained := p.pending == 0
	p.mu.Unlock()

	if drained {
		p.cond.Broadcast()
	}
}

func (p *pool) work() error {
	for {
		t, ok := p.next()
		if !ok {
			return nil
		}
		err := t()
		p.done()
		if err != nil {
			p.stop()
			return err
		}
	}
}

// run spawns root and blocks until the whole task tree has drained. It
// returns the first task error, or ctx's error if ctx ended first.
func (p *pool) run(ctx context.Context, workers int, root task) error {
	if workers < 1 {
		workers = 1
	}

	stopOnDone := context.AfterFunc(ctx, p.stop)
	defer stopOnDone()

	p.spawn(root)

	var g errgroup.Group
	for range workers {
		g.Go(p.work)
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
