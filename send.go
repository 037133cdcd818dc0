package parodus

import "go.uber.org/zap"

// Send is the outbound send path: it validates state, encodes msg under
// the send mutex, and pushes the encoded bytes through the outbound
// socket. It is the single writer to sendSock, serialized by sendMu so the
// invariant holds even with only one outbound socket today.
func (inst *Instance) Send(msg *Message) *Error {
	if inst == nil {
		return newError(CodeSendNullInst, "", nil)
	}
	if !inst.running() {
		return newError(CodeSendState, "", nil)
	}

	inst.sendMu.Lock()
	defer inst.sendMu.Unlock()

	if msg != nil && msg.hasDest() && msg.TransactionUUID == "" {
		withUUID := *msg
		withUUID.TransactionUUID = newTransactionUUID()
		msg = &withUUID
	}

	encoded, err := inst.cfg.Codec.Encode(msg)
	if err != nil || len(encoded) == 0 {
		return newError(CodeSendWrpMsg, "encode failed", err)
	}

	sock := inst.sendSock
	if inst.cfg.connectPerSend() {
		fresh, connErr := connectSender(inst.cfg.ParodusURL)
		if connErr != nil {
			return newError(CodeSendSocket, "connect-per-send dial failed", connErr.Extra.OSErr)
		}
		sock = fresh
	}

	sendErr := sock.Send(encoded)

	if inst.cfg.connectPerSend() {
		sock.Shutdown()
	}

	if sendErr != nil {
		inst.log.Warn("outbound send failed", zap.Error(sendErr))
		return newError(CodeSendSocket, sendErr.Error(), sendErr)
	}
	return nil
}
