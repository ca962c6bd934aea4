package engine

import (
	"container/heap"
	"time"
)

// TaskID identifies a scheduled callback for single cancellation
type TaskID uint64

// task is one (fireAt, action) pair; id breaks ties in submission order
type task struct {
	id     TaskID
	fireAt time.Time
	fn     func()
	index  int
}

type taskHeap []*task

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].fireAt.Equal(h[j].fireAt) {
		return h[i].id < h[j].id
	}
	return h[i].fireAt.Before(h[j].fireAt)
}

func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *taskHeap) Push(x any) {
	t := x.(*task)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// Scheduler is a cancellable timer set driven by an external loop
// Not safe for concurrent use: it belongs to the single engine lane
type Scheduler struct {
	clock  TimeProvider
	tasks  taskHeap
	byID   map[TaskID]*task
	nextID TaskID
}

// NewScheduler creates an empty scheduler reading time from clock
func NewScheduler(clock TimeProvider) *Scheduler {
	return &Scheduler{
		clock: clock,
		byID:  make(map[TaskID]*task),
	}
}

// After schedules fn to run d from now; negative d counts as zero
func (s *Scheduler) After(d time.Duration, fn func()) TaskID {
	if d < 0 {
		d = 0
	}
	return s.At(s.clock.Now().Add(d), fn)
}

// At schedules fn at an absolute clock time
func (s *Scheduler) At(when time.Time, fn func()) TaskID {
	s.nextID++
	t := &task{id: s.nextID, fireAt: when, fn: fn}
	heap.Push(&s.tasks, t)
	s.byID[t.id] = t
	return t.id
}

// Cancel removes a pending task, returns false if it already fired or was swept
func (s *Scheduler) Cancel(id TaskID) bool {
	t, ok := s.byID[id]
	if !ok {
		return false
	}
	heap.Remove(&s.tasks, t.index)
	delete(s.byID, id)
	return true
}

// CancelAll is the cancellation sweep: every pending task is dropped
// Returns the number of tasks discarded
func (s *Scheduler) CancelAll() int {
	n := len(s.tasks)
	for i := range s.tasks {
		s.tasks[i] = nil
	}
	s.tasks = s.tasks[:0]
	clear(s.byID)
	return n
}

// RunDue fires every task due at the current clock reading in (fireAt, submission) order
// Tasks scheduled by a running task at or before that reading fire in the same pass
func (s *Scheduler) RunDue() int {
	now := s.clock.Now()
	fired := 0
	for len(s.tasks) > 0 && !s.tasks[0].fireAt.After(now) {
		t := heap.Pop(&s.tasks).(*task)
		delete(s.byID, t.id)
		t.fn()
		fired++
	}
	return fired
}

// NextDeadline returns the earliest pending fire time
func (s *Scheduler) NextDeadline() (time.Time, bool) {
	if len(s.tasks) == 0 {
		return time.Time{}, false
	}
	return s.tasks[0].fireAt, true
}

// Pending returns the number of scheduled tasks
func (s *Scheduler) Pending() int {
	return len(s.tasks)
}
