package parallel

import (
	"runtime"
	"sync"
)

// Pool runs submitted tasks on a fixed set of workers. A size below 1 means
// one worker per CPU; a pool of one runs tasks inline on the caller.
type Pool struct {
	wg   sync.WaitGroup
	work chan func()
	stop sync.Once
}

func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{}
	if numWorkers > 1 {
		pool.work = make(chan func(), numWorkers)
		for i := 0; i < numWorkers; i++ {
			pool.wg.Add(1)
			go func() {
				defer pool.wg.Done()
				for f := range pool.work {
					f()
				}
			}()
		}
	}
	return pool
}

// Do queues f, blocking while all workers are busy and the queue is full.
func (p *Pool) Do(f func()) {
	if p.work == nil {
		f()
		return
	}
	p.work <- f
}

// Wait stops accepting work and blocks until queued tasks have finished.
func (p *Pool) Wait() {
	if p.work == nil {
		return
	}
	p.stop.Do(func() { close(p.work) })
	p.wg.Wait()
}
