package parodus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigNormalizeDefaults(t *testing.T) {
	cfg := Config{ServiceName: "svc", KeepaliveTimeoutSec: 30}
	n, err := cfg.normalize()
	require.Nil(t, err)
	assert.Equal(t, defaultParodusURL, n.ParodusURL)
	assert.Equal(t, defaultClientURL, n.ClientURL)
	assert.NotNil(t, n.Logger)
	assert.IsType(t, JSONCodec{}, n.Codec)
	assert.False(t, n.connectPerSend())
}

func TestConfigNormalizeRejectsEmptyServiceName(t *testing.T) {
	cfg := Config{KeepaliveTimeoutSec: 30}
	_, err := cfg.normalize()
	require.NotNil(t, err)
	assert.Equal(t, CodeInitCfg, err.Code)
}

func TestConfigNormalizeRejectsNonPositiveKeepalive(t *testing.T) {
	cfg := Config{ServiceName: "svc", KeepaliveTimeoutSec: 0}
	_, err := cfg.normalize()
	require.NotNil(t, err)
	assert.Equal(t, CodeInitCfg, err.Code)
}

func TestConfigNormalizeStripsTestURLPrefix(t *testing.T) {
	cfg := Config{
		ServiceName:         "svc",
		KeepaliveTimeoutSec: 30,
		ParodusURL:          "test:tcp://127.0.0.1:9999",
	}
	n, err := cfg.normalize()
	require.Nil(t, err)
	assert.Equal(t, "tcp://127.0.0.1:9999", n.ParodusURL)
	assert.True(t, n.connectPerSend())
}

func TestConfigNormalizePreservesExplicitValues(t *testing.T) {
	cfg := Config{
		ServiceName:         "svc",
		KeepaliveTimeoutSec: 15,
		ParodusURL:          "tcp://10.0.0.1:7000",
		ClientURL:           "tcp://10.0.0.2:7001",
	}
	n, err := cfg.normalize()
	require.Nil(t, err)
	assert.Equal(t, "tcp://10.0.0.1:7000", n.ParodusURL)
	assert.Equal(t, "tcp://10.0.0.2:7001", n.ClientURL)
}
