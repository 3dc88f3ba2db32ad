package pipeline

// DefaultQueueCapacity is the default buffer size for the work and results
// queues. It determines how many items can sit between producers and
// consumers before back-pressure blocks the producer.
const DefaultQueueCapacity = 64

// envelope is the queue transport: either a value or an end-of-stream
// marker. A marker can never collide with real data.
type envelope[T any] struct {
	value T
	eos   bool
}

// Queue is a bounded, blocking, multi-producer/multi-consumer queue.
// Values are FIFO relative to a single producer; there is no ordering
// guarantee across producers. Put and Get never fail — back-pressure is
// expressed purely through blocking.
type Queue[T any] struct {
	ch chan envelope[T]
}

// NewQueue creates a queue with the given capacity.
// Non-positive capacities fall back to DefaultQueueCapacity.
func NewQueue[T any](capacity int) *Queue[T] {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &Queue[T]{ch: make(chan envelope[T], capacity)}
}

// Put enqueues a value, blocking while the queue is full.
func (q *Queue[T]) Put(value T) {
	q.ch <- envelope[T]{value: value}
}

// PutAbort enqueues a value unless abort is closed first.
// Reports whether the value was enqueued.
func (q *Queue[T]) PutAbort(value T, abort <-chan struct{}) bool {
	select {
	case q.ch <- envelope[T]{value: value}:
		return true
	case <-abort:
		return false
	}
}

// PutEOSAbort enqueues one end-of-stream marker unless abort is closed
// first. Reports whether the marker was enqueued.
func (q *Queue[T]) PutEOSAbort(abort <-chan struct{}) bool {
	select {
	case q.ch <- envelope[T]{eos: true}:
		return true
	case <-abort:
		return false
	}
}

// PutEOS enqueues one end-of-stream marker. Exactly one consumer will
// observe it; signaling N consumers requires N markers.
func (q *Queue[T]) PutEOS() {
	q.ch <- envelope[T]{eos: true}
}

// Get blocks until a value or marker is available. It returns ok=false when
// the dequeued entry is an end-of-stream marker.
func (q *Queue[T]) Get() (value T, ok bool) {
	e := <-q.ch
	return e.value, !e.eos
}

// Len returns the number of entries currently buffered.
func (q *Queue[T]) Len() int {
	return len(q.ch)
}
