package parodus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceSegment(t *testing.T) {
	cases := []struct {
		dest    string
		wantSeg string
		wantOK  bool
	}{
		{"parent/svc/extra", "svc", true},
		{"parent/svc", "svc", true},
		{"parent/svc/", "svc", true},
		{"noslash", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		seg, ok := serviceSegment(tc.dest)
		assert.Equal(t, tc.wantOK, ok, tc.dest)
		if tc.wantOK {
			assert.Equal(t, tc.wantSeg, seg, tc.dest)
		}
	}
}

func TestDestinationMatchesIsExactNotPrefix(t *testing.T) {
	assert.True(t, destinationMatches("svc", "svc"))
	assert.False(t, destinationMatches("svc", "svcname"))
	// A short segment must not be treated as matching a longer configured
	// name just because it is a byte-prefix of it.
	assert.False(t, destinationMatches("sv", "svc"))
	assert.False(t, destinationMatches("svc", "sv"))
}

func TestDestinationFilterSelectsConfiguredService(t *testing.T) {
	inst := &Instance{
		cfg:   Config{ServiceName: "target", Codec: JSONCodec{}},
		queue: newBoundedQueue("target"),
	}
	inst.runState.Store(stateRunning)

	msg := &Message{Type: MsgEvent, Dest: "parent/target/extra"}
	service, ok := serviceSegment(msg.Dest)
	assert.True(t, ok)
	assert.True(t, destinationMatches(service, inst.cfg.ServiceName))

	other := &Message{Type: MsgEvent, Dest: "parent/othersvc"}
	service, ok = serviceSegment(other.Dest)
	assert.True(t, ok)
	assert.False(t, destinationMatches(service, inst.cfg.ServiceName))
}
