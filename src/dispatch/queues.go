package dispatch

import (
	"sort"

	"threadsched/src/datastructures"
	"threadsched/src/model"
)

// Ready threads in arrival order. A thread is queued at most once, so the
// number of loaded threads bounds the queue.
type runQueue struct {
	q datastructures.CircularQueue[*model.Thread]
}

func newRunQueue(capacity int) *runQueue {
	return &runQueue{q: datastructures.NewCircularQueue[*model.Thread](capacity)}
}

func (r *runQueue) push(t *model.Thread) bool {
	return r.q.Enqueue(t)
}

func (r *runQueue) remove(t *model.Thread) bool {
	i := r.q.IndexFunc(func(x *model.Thread) bool { return x == t })
	if i < 0 {
		return false
	}
	_, ok := r.q.RemoveAt(i)
	return ok
}

// Round-robin rotation after a slice.
func (r *runQueue) moveToTail(t *model.Thread) {
	if r.remove(t) {
		r.q.Enqueue(t)
	}
}

func (r *runQueue) contains(t *model.Thread) bool {
	return r.q.IndexFunc(func(x *model.Thread) bool { return x == t }) >= 0
}

func (r *runQueue) len() int {
	return r.q.Len()
}

func (r *runQueue) values() []*model.Thread {
	return r.q.Values()
}

// Threads waiting for their next release, earliest first.
type releaseQueue struct {
	q datastructures.PriorityQueue[int, model.ReleaseEntry]
}

func newReleaseQueue(capacity int) *releaseQueue {
	return &releaseQueue{q: datastructures.NewPriorityQueue[int, model.ReleaseEntry](capacity)}
}

func (r *releaseQueue) push(e model.ReleaseEntry) bool {
	return r.q.Enqueue(e, -e.ReleaseTime)
}

// Pops every entry released at or before now. Simultaneous releases come
// out in thread ID order.
func (r *releaseQueue) popDue(now int) []model.ReleaseEntry {
	var due []model.ReleaseEntry
	for {
		_, key, ok := r.q.Peek()
		if !ok || -key > now {
			break
		}
		e, _ := r.q.Dequeue()
		due = append(due, e)
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].ReleaseTime != due[j].ReleaseTime {
			return due[i].ReleaseTime < due[j].ReleaseTime
		}
		return due[i].Thread.ID < due[j].Thread.ID
	})
	return due
}

func (r *releaseQueue) len() int {
	return r.q.Len()
}

func (r *releaseQueue) values() []model.ReleaseEntry {
	return r.q.Values()
}
