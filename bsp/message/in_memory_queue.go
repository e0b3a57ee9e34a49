package message

import "sync"

var _ Queue = (*inMemoryQueue)(nil)

// inMemoryQueue is safe for concurrent Enqueue calls.
type inMemoryQueue struct {
	mu   sync.Mutex
	msgs []Message
}

// NewInMemoryQueue returns a Queue that keeps messages in memory.
func NewInMemoryQueue() Queue {
	return new(inMemoryQueue)
}

func (q *inMemoryQueue) Enqueue(msg Message) error {
	q.mu.Lock()
	q.msgs = append(q.msgs, msg)
	q.mu.Unlock()
	return nil
}

func (q *inMemoryQueue) PendingMessages() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.msgs) != 0
}

func (q *inMemoryQueue) DiscardMessages() error {
	q.mu.Lock()
	clear(q.msgs)
	q.msgs = q.msgs[:0]
	q.mu.Unlock()
	return nil
}

func (*inMemoryQueue) Close() error { return nil }

// Messages detaches the pending messages and returns an iterator that
// yields them in arrival order. Messages enqueued afterwards are not part
// of the iteration.
func (q *inMemoryQueue) Messages() Iterator {
	q.mu.Lock()
	defer q.mu.Unlock()
	it := &sliceIterator{msgs: q.msgs}
	q.msgs = nil
	return it
}

type sliceIterator struct {
	msgs []Message
	cur  Message
}

func (it *sliceIterator) Next() bool {
	if len(it.msgs) == 0 {
		it.cur = nil
		return false
	}
	it.cur, it.msgs = it.msgs[0], it.msgs[1:]
	return true
}

func (it *sliceIterator) Message() Message { return it.cur }

func (*sliceIterator) Error() error { return nil }
