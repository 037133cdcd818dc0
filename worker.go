package parodus

import (
	"strings"

	"go.uber.org/zap"
)

// receiveLoop is the receiver worker: a single long-running goroutine that
// reads frames off rcvSock, classifies the outcome, handles control frames
// internally, filters application frames by destination service, and
// enqueues survivors.
func (inst *Instance) receiveLoop() {
	defer inst.wg.Done()
	inst.log.Debug("receiver worker starting")

	for {
		data, err := inst.rcvSock.Receive()
		if err != nil {
			if err == ErrTimedOut {
				if !inst.running() {
					inst.log.Debug("receiver worker stopping on timeout while not running")
					return
				}
				inst.reconnect()
				continue
			}
			// Any non-timeout transport error ends the worker without
			// attempting reconnection.
			inst.log.Error("receiver worker ending on transport error", zap.Error(err))
			return
		}

		if strings.HasPrefix(string(data), endSentinel) {
			inst.log.Debug("receiver worker observed shutdown sentinel")
			return
		}

		if !inst.running() {
			// Stopped while buffered data arrives: drop and let the next
			// iteration likely observe the sentinel or an error.
			continue
		}

		msg, decodeErr := inst.cfg.Codec.Decode(data)
		if decodeErr != nil || msg == nil {
			inst.log.Warn("dropping undecodable frame", zap.Error(decodeErr))
			inst.cfg.Metrics.incDropped("decode")
			continue
		}

		switch msg.Type {
		case MsgAuthorization:
			inst.auth.Store(true)
			inst.log.Debug("authorization frame observed")
			continue
		case MsgServiceKeepalive:
			inst.keepAliveCount.Add(1)
			inst.cfg.Metrics.incKeepalive()
			inst.log.Debug("keepalive frame observed", zap.Int64("count", inst.keepAliveCount.Load()))
			continue
		}

		if !msg.hasDest() {
			inst.log.Warn("dropping message with no routable dest", zap.Stringer("type", msg.Type))
			inst.cfg.Metrics.incDropped("filter")
			continue
		}

		service, ok := serviceSegment(msg.Dest)
		if !ok || !destinationMatches(service, inst.cfg.ServiceName) {
			inst.cfg.Metrics.incDropped("filter")
			continue
		}

		inst.log.Debug("message directed to service", zap.String("service_name", inst.cfg.ServiceName))
		if err := inst.queue.send(queueItem{msg: msg}, queueSendTimeout); err != nil {
			// Dropped, not retried.
			inst.log.Warn("dropping message: queue send failed", zap.Error(err))
			inst.cfg.Metrics.incDropped("enqueue_timeout")
			continue
		}
		inst.cfg.Metrics.setQueueDepth(len(inst.queue.ch))
	}
}

// serviceSegment splits dest at the first '/' and returns the remainder up
// to the next '/' (or end of string) as the "service segment". ok is false
// when dest has no '/' at all.
func serviceSegment(dest string) (segment string, ok bool) {
	firstSlash := strings.IndexByte(dest, '/')
	if firstSlash < 0 {
		return "", false
	}
	rest := dest[firstSlash+1:]
	if nextSlash := strings.IndexByte(rest, '/'); nextSlash >= 0 {
		return rest[:nextSlash], true
	}
	return rest, true
}

// destinationMatches reports whether the parsed service segment identifies
// inst.cfg.ServiceName. Exact equality only: a segment that is merely a
// byte-prefix of a longer configured name must not match.
func destinationMatches(segment, serviceName string) bool {
	return segment == serviceName
}
