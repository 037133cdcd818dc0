// Package parodus is a client library for attaching a service to a
// push/pull message bus: it opens an outbound socket to send requests and
// events, optionally binds an inbound socket to receive them, registers
// the service with the broker, and keeps the inbound connection alive
// across broker restarts.
package parodus
