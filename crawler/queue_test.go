package crawler

import (
	"sync"
	"testing"
	"time"
)

func Test_JobQueue_ClosesWhenIdle(t *testing.T) {
	q := newJobQueue()
	q.closeIfIdle()

	if _, ok := q.pop(); ok {
		t.Error("expected closed empty queue to report no job")
	}
}

func Test_JobQueue_QuiescenceAfterChildren(t *testing.T) {
	q := newJobQueue()
	q.push(Job{Path: "/root"})

	var mu sync.Mutex
	var visited []string
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				job, ok := q.pop()
				if !ok {
					return
				}
				mu.Lock()
				visited = append(visited, job.Path)
				mu.Unlock()
				if job.Depth < 2 {
					q.push(Job{Path: job.Path + "/a", Depth: job.Depth + 1})
					q.push(Job{Path: job.Path + "/b", Depth: job.Depth + 1})
				}
				q.done()
			}
		}()
	}

	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("workers did not exit at quiescence")
	}

	// 1 root + 2 children + 4 grandchildren
	if len(visited) != 7 {
		t.Errorf("expected 7 visited jobs, got %d", len(visited))
	}
}
