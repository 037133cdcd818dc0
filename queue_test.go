package parodus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundedQueueSendReceive(t *testing.T) {
	q := newBoundedQueue("svc")
	assert.Equal(t, "/LIBPD_WRP_QUEUE.svc", q.name)

	item := queueItem{msg: &Message{Type: MsgEvent, Dest: "parent/svc"}}
	require.NoError(t, q.send(item, time.Second))

	got, err := q.receive(time.Second)
	require.NoError(t, err)
	assert.Equal(t, item.msg, got.msg)
}

func TestBoundedQueueReceiveTimesOutWhenEmpty(t *testing.T) {
	q := newBoundedQueue("svc")
	_, err := q.receive(10 * time.Millisecond)
	assert.ErrorIs(t, err, ErrTimedOut)
}

func TestBoundedQueueSendTimesOutWhenFull(t *testing.T) {
	q := newBoundedQueue("svc")
	for i := 0; i < queueCapacity; i++ {
		require.NoError(t, q.send(queueItem{msg: &Message{}}, 0))
	}
	err := q.send(queueItem{msg: &Message{}}, 10*time.Millisecond)
	assert.ErrorIs(t, err, ErrTimedOut)
}

func TestBoundedQueueNonBlockingTryWithZeroTimeout(t *testing.T) {
	q := newBoundedQueue("svc")
	_, err := q.receive(0)
	assert.ErrorIs(t, err, ErrTimedOut)

	require.NoError(t, q.send(queueItem{msg: &Message{}}, 0))
	_, err = q.receive(0)
	assert.NoError(t, err)
}

func TestBoundedQueueDestroyDisposesRemaining(t *testing.T) {
	q := newBoundedQueue("svc")
	require.NoError(t, q.send(queueItem{msg: &Message{Dest: "a"}}, 0))
	require.NoError(t, q.send(queueItem{msg: &Message{Dest: "b"}}, 0))

	var disposed []string
	q.destroy(func(item queueItem) {
		disposed = append(disposed, item.msg.Dest)
	})

	assert.Equal(t, []string{"a", "b"}, disposed)
	_, err := q.receive(0)
	assert.ErrorIs(t, err, ErrTimedOut)
}
