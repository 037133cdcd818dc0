package parodus

import "time"

// endSentinel is the literal shutdown-sentinel bytes written by the
// instance to its own inbound socket via stopRcvSock to wake the receiver
// worker. It is produced only by this instance, never by the broker.
const endSentinel = "---END-PARODUS---\n"

const (
	// queueSendTimeout bounds how long the receiver worker will wait to
	// enqueue a surviving decoded message before dropping it.
	queueSendTimeout = 2000 * time.Millisecond
	// closeRcvSendTimeout bounds CloseReceiver's enqueue of the close
	// sentinel.
	closeRcvSendTimeout = 2000 * time.Millisecond
	// drainTimeout is the per-receive timeout Shutdown uses while draining
	// the inbound queue.
	drainTimeout = 5 * time.Millisecond
	// maxReconnectDelay caps the exponential backoff delay.
	maxReconnectDelay = 63 * time.Second
)
