package parodus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetSocketSendReceiveRoundTrip(t *testing.T) {
	rcv, err := connectReceiver("tcp://127.0.0.1:0", 0)
	require.Nil(t, err)
	defer rcv.Shutdown()

	addr := rcv.listener.Addr().String()
	snd, err := connectSender("tcp://" + addr)
	require.Nil(t, err)
	defer snd.Shutdown()

	require.NoError(t, snd.Send([]byte("hello")))

	data, recvErr := rcv.Receive()
	require.NoError(t, recvErr)
	assert.Equal(t, "hello", string(data))
}

func TestNetSocketReceiveTimesOutWithNoPeer(t *testing.T) {
	rcv, err := connectReceiver("tcp://127.0.0.1:0", 1)
	require.Nil(t, err)
	defer rcv.Shutdown()

	_, recvErr := rcv.Receive()
	assert.ErrorIs(t, recvErr, ErrTimedOut)
}

func TestNetSocketFansInMultiplePushers(t *testing.T) {
	rcv, err := connectReceiver("tcp://127.0.0.1:0", 0)
	require.Nil(t, err)
	defer rcv.Shutdown()

	addr := rcv.listener.Addr().String()

	a, err := connectSender("tcp://" + addr)
	require.Nil(t, err)
	defer a.Shutdown()
	b, err := connectSender("tcp://" + addr)
	require.Nil(t, err)
	defer b.Shutdown()

	require.NoError(t, a.Send([]byte("from-a")))
	require.NoError(t, b.Send([]byte("from-b")))

	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		data, err := rcv.Receive()
		require.NoError(t, err)
		seen[string(data)] = true
	}
	assert.True(t, seen["from-a"])
	assert.True(t, seen["from-b"])
}

func TestNetSocketShutdownIsIdempotent(t *testing.T) {
	rcv, err := connectReceiver("tcp://127.0.0.1:0", 0)
	require.Nil(t, err)
	rcv.Shutdown()
	assert.NotPanics(t, func() { rcv.Shutdown() })
}

func TestStripScheme(t *testing.T) {
	assert.Equal(t, "127.0.0.1:6666", stripScheme("tcp://127.0.0.1:6666"))
	assert.Equal(t, "127.0.0.1:6666", stripScheme("127.0.0.1:6666"))
}

func TestConnectReceiverRejectsEmptyURL(t *testing.T) {
	_, err := connectReceiver("", 0)
	require.Error(t, err)
}

func TestConnectSenderRejectsEmptyURL(t *testing.T) {
	_, err := connectSender("")
	require.Error(t, err)
}

func TestConnectSenderTimesOutOnUnreachablePeer(t *testing.T) {
	start := time.Now()
	_, err := connectSender("tcp://127.0.0.1:1")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 3*time.Second)
}
