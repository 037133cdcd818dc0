package parodus

import (
	"strings"

	"go.uber.org/zap"
)

// TestFlag is the test_flags bit-set recognized by Config.
type TestFlag uint32

const (
	// FlagConnectOnEverySend re-dials the outbound socket for each Send and
	// closes it afterward.
	FlagConnectOnEverySend TestFlag = 1 << iota
)

const (
	defaultParodusURL = "tcp://127.0.0.1:6666"
	defaultClientURL  = "tcp://127.0.0.1:6667"
	testURLPrefix     = "test:"
)

// Config is the caller-supplied, immutable-once-initialized configuration
// for an Instance.
type Config struct {
	ServiceName         string
	Receive             bool
	KeepaliveTimeoutSec int
	ParodusURL          string
	ClientURL           string
	TestFlags           TestFlag

	// AlwaysRegister sends the SERVICE_REGISTRATION frame even when Receive
	// is false, off by default.
	AlwaysRegister bool

	// Logger receives structured diagnostics; nil defaults to a no-op
	// logger (zap.NewNop()). Logging state is per-instance, never global.
	Logger *zap.Logger

	// Metrics receives the optional Prometheus collectors; nil disables
	// metrics entirely (see metrics.go).
	Metrics *Metrics

	// Codec is the wire codec collaborator. Nil defaults to JSONCodec{}.
	Codec Codec
}

// normalize fills defaults, strips a "test:" prefix from ParodusURL (which
// implies FlagConnectOnEverySend), and validates required fields. It
// returns a new Config; the caller's original is left untouched.
func (c Config) normalize() (Config, *Error) {
	if strings.TrimSpace(c.ServiceName) == "" {
		return c, newError(CodeInitCfg, "service_name must be non-empty", nil)
	}
	if c.KeepaliveTimeoutSec <= 0 {
		return c, newError(CodeInitCfg, "keepalive_timeout_secs must be positive", nil)
	}

	if c.ParodusURL == "" {
		c.ParodusURL = defaultParodusURL
	}
	if c.ClientURL == "" {
		c.ClientURL = defaultClientURL
	}
	if strings.HasPrefix(c.ParodusURL, testURLPrefix) {
		c.ParodusURL = strings.TrimPrefix(c.ParodusURL, testURLPrefix)
		c.TestFlags |= FlagConnectOnEverySend
	}

	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Codec == nil {
		c.Codec = JSONCodec{}
	}
	return c, nil
}

func (c Config) connectPerSend() bool {
	return c.TestFlags&FlagConnectOnEverySend != 0
}
