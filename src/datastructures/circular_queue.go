package datastructures

// A bounded circular queue.
//
// Besides FIFO operations it supports positional access and removal, which
// the dispatcher needs to pull an arbitrary ready thread out of the run queue
// while keeping the order of the others intact.
type CircularQueue[T any] struct {
	buffer []T
	head   int
	len    int
}

// Create a new circular queue.
func NewCircularQueue[T any](capacity int) CircularQueue[T] {
	return CircularQueue[T]{
		buffer: make([]T, capacity),
	}
}

func (q *CircularQueue[T]) Enqueue(item T) bool {
	if q.len == len(q.buffer) {
		return false
	}

	tail := (q.head + q.len) % len(q.buffer)
	q.buffer[tail] = item

	q.len++

	return true
}

func (q *CircularQueue[T]) Dequeue() (val T, ok bool) {
	if q.len == 0 {
		ok = false
		return
	}

	var zero T
	val = q.buffer[q.head]
	q.buffer[q.head] = zero
	ok = true

	q.head = (q.head + 1) % len(q.buffer)
	q.len--

	return
}

func (q *CircularQueue[T]) IsEmpty() bool {
	return q.len == 0
}

func (q *CircularQueue[T]) Len() int {
	return q.len
}

func (q *CircularQueue[T]) Cap() int {
	return len(q.buffer)
}

// Returns the i-th element counted from the head.
func (q *CircularQueue[T]) At(i int) (val T, ok bool) {
	if i < 0 || i >= q.len {
		return
	}
	return q.buffer[(q.head+i)%len(q.buffer)], true
}

// Removes the i-th element counted from the head. Elements behind it move
// one slot forward, so the relative order of the rest is preserved.
func (q *CircularQueue[T]) RemoveAt(i int) (val T, ok bool) {
	if i < 0 || i >= q.len {
		return
	}

	n := len(q.buffer)
	val = q.buffer[(q.head+i)%n]
	ok = true

	for j := i; j < q.len-1; j++ {
		q.buffer[(q.head+j)%n] = q.buffer[(q.head+j+1)%n]
	}

	var zero T
	q.buffer[(q.head+q.len-1)%n] = zero
	q.len--

	return
}

// Returns the index of the first element matching pred, or -1.
func (q *CircularQueue[T]) IndexFunc(pred func(T) bool) int {
	for i := 0; i < q.len; i++ {
		if pred(q.buffer[(q.head+i)%len(q.buffer)]) {
			return i
		}
	}
	return -1
}

// Copies the elements in queue order into a new slice.
func (q *CircularQueue[T]) Values() []T {
	out := make([]T, q.len)
	for i := 0; i < q.len; i++ {
		out[i] = q.buffer[(q.head+i)%len(q.buffer)]
	}
	return out
}
