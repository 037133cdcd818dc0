package parodus

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// fixedSchedule reproduces the C client's exact reconnect backoff: starting
// from p=2, each iteration computes p=2*p and delays p-1 seconds, capped at
// maxReconnectDelay. It implements backoff.BackOff so the retry loop below
// can be driven by github.com/cenkalti/backoff/v4 while reproducing this
// exact sequence rather than that library's own jittered exponential
// schedule.
type fixedSchedule struct {
	p time.Duration
}

func newFixedSchedule() *fixedSchedule {
	return &fixedSchedule{p: 2}
}

func (f *fixedSchedule) NextBackOff() time.Duration {
	if f.p < 64 {
		f.p *= 2
	}
	delay := (f.p - 1) * time.Second
	if delay > maxReconnectDelay {
		delay = maxReconnectDelay
	}
	return delay
}

func (f *fixedSchedule) Reset() {
	f.p = 2
}

// reconnect is invoked only from receiveLoop on an inbound timeout while
// running. It shuts down the current inbound socket, then repeatedly backs
// off, rebinds, and re-registers until both succeed or the instance starts
// shutting down.
func (inst *Instance) reconnect() {
	if inst.rcvSock != nil {
		inst.rcvSock.Shutdown()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-inst.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	operation := func() error {
		rcv, err := connectReceiver(inst.cfg.ClientURL, inst.cfg.KeepaliveTimeoutSec)
		if err != nil {
			inst.log.Debug("reconnect: rebind failed", zap.Error(err))
			return err
		}
		inst.rcvSock = rcv

		if sendErr := inst.sendRegistrationInterruptible(ctx); sendErr != nil {
			inst.log.Debug("reconnect: registration send failed", zap.Error(sendErr))
			rcv.Shutdown()
			return sendErr
		}
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(newFixedSchedule(), ctx)); err != nil {
		inst.log.Debug("reconnect loop ended without success", zap.Error(err))
		return
	}

	inst.auth.Store(false)
	inst.reconnectCount.Add(1)
	inst.cfg.Metrics.incReconnect()
	inst.log.Info("reconnected to broker", zap.Int64("reconnect_count", inst.reconnectCount.Load()))
}

// sendRegistrationInterruptible sends a fresh SERVICE_REGISTRATION frame
// through the normal outbound Send path, but races it against ctx so a
// Shutdown racing an in-progress reconnect is never blocked waiting on a
// hung transport call. On cancellation it force-closes the persistent
// outbound socket (when not in connect-per-send mode) to unblock whatever
// syscall Send is parked in; the instance is already tearing down in that
// case, so there is no further use of that socket to protect.
func (inst *Instance) sendRegistrationInterruptible(ctx context.Context) error {
	reg := newRegistrationMessage(inst.cfg.ServiceName, inst.cfg.ClientURL)
	result := make(chan *Error, 1)
	go func() {
		result <- inst.Send(reg)
	}()

	select {
	case err := <-result:
		if err != nil {
			return err
		}
		return nil
	case <-ctx.Done():
		if !inst.cfg.connectPerSend() && inst.sendSock != nil {
			inst.sendSock.Shutdown()
		}
		return ctx.Err()
	}
}
