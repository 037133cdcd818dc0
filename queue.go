package parodus

import (
	"fmt"
	"time"
)

// queueCapacity is the fixed capacity of the inbound queue.
const queueCapacity = 50

// queueNameHeader + "." + service_name gives the queue's diagnostic name.
// It is only stored on the queue; nothing looks the queue up by it, since
// this implementation has no filesystem-backed IPC queue to name.
const queueNameHeader = "/LIBPD_WRP_QUEUE"

// boundedQueue is a named, bounded FIFO of queueItem with timed send and
// timed receive.
type boundedQueue struct {
	name string
	ch   chan queueItem
}

func newBoundedQueue(serviceName string) *boundedQueue {
	return &boundedQueue{
		name: fmt.Sprintf("%s.%s", queueNameHeader, serviceName),
		ch:   make(chan queueItem, queueCapacity),
	}
}

// send attempts to enqueue item within timeout. It returns ErrTimedOut if
// the queue stayed full for the whole window.
func (q *boundedQueue) send(item queueItem, timeout time.Duration) error {
	if timeout <= 0 {
		select {
		case q.ch <- item:
			return nil
		default:
			return ErrTimedOut
		}
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case q.ch <- item:
		return nil
	case <-timer.C:
		return ErrTimedOut
	}
}

// receive attempts to dequeue within timeout. It returns ErrTimedOut if
// nothing arrived in time.
func (q *boundedQueue) receive(timeout time.Duration) (queueItem, error) {
	if timeout <= 0 {
		select {
		case item := <-q.ch:
			return item, nil
		default:
			return queueItem{}, ErrTimedOut
		}
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case item := <-q.ch:
		return item, nil
	case <-timer.C:
		return queueItem{}, ErrTimedOut
	}
}

// destroy drains any remaining elements with a zero timeout, handing each
// to disposer.
func (q *boundedQueue) destroy(disposer func(queueItem)) {
	for {
		item, err := q.receive(0)
		if err != nil {
			return
		}
		if disposer != nil {
			disposer(item)
		}
	}
}
