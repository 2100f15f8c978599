package crawler

import "sync"

// Job is one directory waiting to be visited.
type Job struct {
	Path  string
	Depth int
}

// jobQueue is an unbounded FIFO that closes itself at quiescence: when every
// job ever pushed has been marked done. A job's children must be pushed
// before the job itself is marked done, so the pending count can only reach
// zero once no running job is left to produce more work.
type jobQueue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	jobs    []Job
	pending int
	closed  bool
}

func newJobQueue() *jobQueue {
	q := &jobQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *jobQueue) push(job Job) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.pending++
	q.jobs = append(q.jobs, job)
	q.cond.Signal()
}

// pop blocks until a job is available or the queue has closed.
func (q *jobQueue) pop() (Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.jobs) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.jobs) == 0 {
		return Job{}, false
	}
	job := q.jobs[0]
	q.jobs[0] = Job{}
	q.jobs = q.jobs[1:]
	return job, true
}

// done marks one popped job finished.
func (q *jobQueue) done() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending--
	if q.pending == 0 {
		q.closeLocked()
	}
}

// closeIfIdle closes a queue that never received work.
func (q *jobQueue) closeIfIdle() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pending == 0 {
		q.closeLocked()
	}
}

func (q *jobQueue) closeLocked() {
	q.closed = true
	q.cond.Broadcast()
}
