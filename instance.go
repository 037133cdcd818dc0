package parodus

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Run-state values use the same RUN_STATE_RUNNING / RUN_STATE_DONE sentinel
// magnitudes as the C client this library replaces, rather than a plain
// 0/1/2, since they double as a tripwire against reading garbage/zeroed
// memory. That concern doesn't really apply to a Go struct, but the values
// cost nothing to keep.
const (
	stateZero    int32 = 0
	stateRunning int32 = 1234
	stateDone    int32 = -1234
)

// Instance is the opaque handle owning a Config, the instance's sockets,
// the inbound queue, the receiver worker, a send mutex, counters, and
// run-state flags.
type Instance struct {
	cfg Config
	log *zap.Logger

	sendSock    Socket // outbound push socket; nil in connect-per-send mode
	rcvSock     Socket // inbound pull socket; nil iff !cfg.Receive
	stopRcvSock Socket // self-wake push socket; nil iff !cfg.Receive

	queue *boundedQueue // nil iff !cfg.Receive

	sendMu sync.Mutex

	runState atomic.Int32
	auth     atomic.Bool

	keepAliveCount atomic.Int64
	reconnectCount atomic.Int64

	closeRequested atomic.Bool

	// stopCh is closed at the start of Shutdown, before the worker join, so
	// an in-flight reconnect's registration send can be interrupted rather
	// than block Shutdown forever.
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// Init allocates and configures sockets in order, starts the receiver
// worker when configured for receive, transitions to RUNNING, and sends
// the registration frame. Any intermediate failure unwinds everything
// opened so far before returning.
//
// Init returns an owned *Instance on success and nil on failure, rather
// than filling an out-parameter handle the way a C API would.
func Init(cfg Config) (*Instance, *Error) {
	normalized, cfgErr := cfg.normalize()
	if cfgErr != nil {
		return nil, cfgErr
	}

	inst := &Instance{
		cfg:    normalized,
		log:    normalized.Logger,
		stopCh: make(chan struct{}),
	}

	if normalized.Receive {
		rcv, err := connectReceiver(normalized.ClientURL, normalized.KeepaliveTimeoutSec)
		if err != nil {
			return nil, err
		}
		inst.rcvSock = rcv
		// Resolve an ephemeral (":0") ClientURL to the address actually
		// bound, so self-wake dials and the registration frame's URL field
		// both name a reachable endpoint.
		normalized.ClientURL = rcv.boundAddr()
		inst.cfg = normalized
	}

	if !normalized.connectPerSend() {
		send, err := connectSender(normalized.ParodusURL)
		if err != nil {
			inst.teardownSockets()
			return nil, err
		}
		inst.sendSock = send
	}

	if normalized.Receive {
		stopRcv, err := connectSender(normalized.ClientURL)
		if err != nil {
			inst.teardownSockets()
			return nil, err
		}
		inst.stopRcvSock = stopRcv
	}

	if normalized.Receive {
		inst.queue = newBoundedQueue(normalized.ServiceName)
		inst.runState.Store(stateRunning)
		inst.wg.Add(1)
		go inst.receiveLoop()
	} else {
		inst.runState.Store(stateRunning)
	}

	if normalized.Receive || normalized.AlwaysRegister {
		reg := newRegistrationMessage(normalized.ServiceName, normalized.ClientURL)
		if sendErr := inst.Send(reg); sendErr != nil {
			inst.log.Error("registration failed", zap.Error(sendErr))
			oserr := sendErr.Extra.OSErr
			inst.shutdownInternal()
			return nil, newError(CodeInitRegister, sendErr.Extra.ErrDetail, oserr)
		}
	}

	return inst, nil
}

// teardownSockets closes whatever sockets have been opened so far, used by
// Init's unwind-on-failure path.
func (inst *Instance) teardownSockets() {
	if inst.rcvSock != nil {
		inst.rcvSock.Shutdown()
		inst.rcvSock = nil
	}
	if inst.sendSock != nil {
		inst.sendSock.Shutdown()
		inst.sendSock = nil
	}
	if inst.stopRcvSock != nil {
		inst.stopRcvSock.Shutdown()
		inst.stopRcvSock = nil
	}
}

// running reports whether the instance is in RUNNING state; read
// lock-free by the receiver worker and the public API on every call.
func (inst *Instance) running() bool {
	return inst.runState.Load() == stateRunning
}

// KeepAliveCount and ReconnectCount expose this instance's lifetime
// keepalive and reconnect counters.
func (inst *Instance) KeepAliveCount() int64 { return inst.keepAliveCount.Load() }
func (inst *Instance) ReconnectCount() int64 { return inst.reconnectCount.Load() }

// Shutdown performs the orderly teardown of an Instance. Calling Shutdown
// on an already-shut-down instance is idempotent and returns nil.
func (inst *Instance) Shutdown() *Error {
	if !inst.running() {
		return nil
	}
	inst.shutdownInternal()
	return nil
}

func (inst *Instance) shutdownInternal() {
	inst.runState.Store(stateDone)
	close(inst.stopCh)

	if inst.cfg.Receive {
		// Wake the blocked receiver worker with the shutdown sentinel sent
		// through its own inbound socket.
		if inst.stopRcvSock != nil {
			inst.stopRcvSock.Send([]byte(endSentinel))
		}
		inst.wg.Wait()

		if inst.rcvSock != nil {
			inst.rcvSock.Shutdown()
		}

		if inst.queue != nil {
			drained := 0
			for {
				item, err := inst.queue.receive(drainTimeout)
				if err != nil {
					break
				}
				disposeQueueItem(item)
				drained++
			}
			inst.queue.destroy(disposeQueueItem)
			inst.log.Debug("drained inbound queue", zap.Int("count", drained))
		}
	}

	if inst.sendSock != nil {
		inst.sendSock.Shutdown()
	}

	if inst.cfg.Receive && inst.stopRcvSock != nil {
		inst.stopRcvSock.Shutdown()
	}

	inst.runState.Store(stateZero)
	inst.auth.Store(false)
}

// disposeQueueItem distinguishes the close sentinel (a no-op in Go, since
// there's nothing to free explicitly, but the branch is kept so the two
// cases stay visibly distinct) from a decoded Message.
func disposeQueueItem(item queueItem) {
	if item.closed {
		return
	}
	_ = item.msg // decoded messages have no manual free step under the GC;
	// kept as a named branch so future non-GC'd resources (e.g. pooled
	// buffers) have an obvious place to return them.
}
