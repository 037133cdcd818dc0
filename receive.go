package parodus

import "time"

// RecvResult is the Go-idiomatic re-expression of a 0/1=timeout/2=closed
// return convention familiar from the C client this library replaces.
// Code() reproduces the literal integers for callers migrating from that
// convention.
type RecvResult struct {
	Message *Message
	Closed  bool
}

// Code returns the C client's 0|1|2 return-value convention: 0 means
// Message is populated, 1 is never constructed here (a timeout is instead
// reported via ErrTimedOut), 2 means Closed.
func (r RecvResult) Code() int {
	if r.Closed {
		return 2
	}
	return 0
}

// Receive delegates to the inbound queue's timed receive. The returned
// error is ErrTimedOut on timeout (return value 1), a *Error for a genuine
// receive failure, or nil with RecvResult.Closed true if the dequeued item
// is the close sentinel (return value 2), or nil with RecvResult.Message
// populated otherwise.
func (inst *Instance) Receive(timeout time.Duration) (RecvResult, error) {
	if inst == nil {
		return RecvResult{}, newError(CodeRcvNullInst, "", nil)
	}
	if !inst.cfg.Receive {
		return RecvResult{}, newError(CodeRcvCfg, "", nil)
	}
	if !inst.running() {
		return RecvResult{}, newError(CodeRcvState, "", nil)
	}

	item, err := inst.queue.receive(timeout)
	if err == ErrTimedOut {
		return RecvResult{}, ErrTimedOut
	}
	if err != nil {
		return RecvResult{}, newError(CodeRcvRcv, "", err)
	}
	if item.closed {
		return RecvResult{Closed: true}, nil
	}
	if item.msg == nil {
		return RecvResult{}, newError(CodeRcvRcv, "nil message dequeued", nil)
	}
	return RecvResult{Message: item.msg}, nil
}

// CloseReceiver requests that a subsequent Receive return Closed=true,
// unblocking a consumer loop without affecting the broker side. It is
// idempotent: a second call is a no-op success.
func (inst *Instance) CloseReceiver() *Error {
	if inst == nil {
		return newError(CodeCloseRcvNullInst, "", nil)
	}
	if !inst.cfg.Receive {
		return newError(CodeCloseRcvCfg, "", nil)
	}
	if !inst.running() {
		return newError(CodeCloseRcvState, "", nil)
	}
	if inst.closeRequested.Swap(true) {
		return nil
	}

	item := queueItem{msg: newCloseSentinelMessage(), closed: true}
	if err := inst.queue.send(item, closeRcvSendTimeout); err != nil {
		if err == ErrTimedOut {
			return newError(CodeCloseRcvTimedOut, "", err)
		}
		return newError(CodeCloseRcvSend, "", err)
	}
	return nil
}
