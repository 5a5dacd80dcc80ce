package input

import (
	"context"
	"sync"
)

// ButtonCount is the number of discrete push buttons.
const ButtonCount = 4

// defaultQueueSize matches the depth of the button interrupt queue.
const defaultQueueSize = 8

// ButtonQueue records edge-triggered button presses in arrival order. Press is
// called from the input producer; the foreground loop drains it with Pushed.
// Presses beyond the queue depth are dropped.
type ButtonQueue struct {
	mu      sync.Mutex
	pending []int
	size    int
	notify  chan struct{}
}

// NewButtonQueue returns an empty queue.
func NewButtonQueue() *ButtonQueue {
	return &ButtonQueue{
		size:   defaultQueueSize,
		notify: make(chan struct{}, 1),
	}
}

// Press queues a press of button id. Out-of-range ids are ignored.
func (q *ButtonQueue) Press(id int) {
	if id < 0 || id >= ButtonCount {
		return
	}
	q.mu.Lock()
	if len(q.pending) < q.size {
		q.pending = append(q.pending, id)
	}
	q.mu.Unlock()
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Pushed pops the oldest pending press without blocking.
func (q *ButtonQueue) Pushed() (int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return 0, false
	}
	id := q.pending[0]
	q.pending = q.pending[1:]
	return id, true
}

// Flush discards every pending press.
func (q *ButtonQueue) Flush() {
	q.mu.Lock()
	q.pending = nil
	q.mu.Unlock()
}

// Wait blocks until a press is available and pops it.
func (q *ButtonQueue) Wait(ctx context.Context) (int, error) {
	for {
		if id, ok := q.Pushed(); ok {
			return id, nil
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-q.notify:
		}
	}
}
