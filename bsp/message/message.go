/*
   Messages exchanged between vertices and the queues that buffer them
   between supersteps.
*/
package message

type Message interface {
	Type() string
}

type Queue interface {
	Close() error
	Enqueue(msg Message) error

	// PendingMessages reports whether the queue holds undelivered messages.
	PendingMessages() bool

	// DiscardMessages drops every pending message.
	DiscardMessages() error

	Messages() Iterator
}

type Iterator interface {
	// Next advances the iterator. It returns false when there are no more
	// messages or an error occurred.
	Next() bool
	Message() Message
	Error() error
}

type QueueFactory func() Queue
