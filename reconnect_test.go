package parodus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedScheduleDelaySequence(t *testing.T) {
	s := newFixedSchedule()
	want := []time.Duration{
		3 * time.Second,
		7 * time.Second,
		15 * time.Second,
		31 * time.Second,
		63 * time.Second,
		63 * time.Second,
		63 * time.Second,
	}
	for i, w := range want {
		assert.Equal(t, w, s.NextBackOff(), "iteration %d", i)
	}
}

func TestFixedScheduleReset(t *testing.T) {
	s := newFixedSchedule()
	s.NextBackOff()
	s.NextBackOff()
	s.Reset()
	assert.Equal(t, 3*time.Second, s.NextBackOff())
}

func TestReconnectOnSilenceIncrementsCount(t *testing.T) {
	broker := newFakeBroker(t)
	defer broker.close()

	cfg := testConfig(t, broker, "reconnsvc")
	cfg.KeepaliveTimeoutSec = 1

	inst, err := Init(cfg)
	require.Nil(t, err)
	defer inst.Shutdown()
	<-broker.received // initial registration

	require.Eventually(t, func() bool {
		return inst.ReconnectCount() >= 1
	}, 5*time.Second, 50*time.Millisecond)

	select {
	case reg := <-broker.received:
		decoded, decErr := JSONCodec{}.Decode(reg)
		require.NoError(t, decErr)
		assert.Equal(t, MsgServiceRegistration, decoded.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("broker never observed a re-registration frame after reconnect")
	}

	// The instance must still be fully usable post-reconnect.
	clientURL := inst.cfg.ClientURL
	codec := JSONCodec{}
	frame, _ := codec.Encode(&Message{Type: MsgEvent, Dest: "parent/reconnsvc"})
	require.NoError(t, broker.pushTo(clientURL, frame))

	result, recvErr := inst.Receive(2 * time.Second)
	require.NoError(t, recvErr)
	assert.Equal(t, MsgEvent, result.Message.Type)
}
