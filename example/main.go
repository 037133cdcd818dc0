// Command example wires up a parodus.Instance against a broker reachable at
// PARODUS_URL (defaulting to tcp://127.0.0.1:6666), binds a local receive
// endpoint at CLIENT_URL (defaulting to tcp://127.0.0.1:6667), and prints
// every inbound message until interrupted.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	parodus "github.com/xmidt-org/parodus-client"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger init:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := parodus.Config{
		ServiceName:         "example-consumer",
		Receive:             true,
		KeepaliveTimeoutSec: 30,
		ParodusURL:          envOr("PARODUS_URL", "tcp://127.0.0.1:6666"),
		ClientURL:           envOr("CLIENT_URL", "tcp://127.0.0.1:6667"),
		Logger:              logger,
		Metrics:             parodus.NewMetrics(prometheus.DefaultRegisterer, "example-consumer"),
	}

	inst, initErr := parodus.Init(cfg)
	if initErr != nil {
		logger.Fatal("init failed", zap.String("code", initErr.Code.String()), zap.Error(initErr))
	}
	defer inst.Shutdown()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			result, recvErr := inst.Receive(time.Second)
			switch {
			case recvErr == parodus.ErrTimedOut:
				continue
			case recvErr != nil:
				logger.Error("receive failed", zap.Error(recvErr))
				return
			case result.Closed:
				logger.Info("receiver closed")
				return
			default:
				logger.Info("message received",
					zap.Stringer("type", result.Message.Type),
					zap.String("dest", result.Message.Dest),
				)
			}
		}
	}()

	select {
	case <-sig:
		logger.Info("signal received, closing receiver")
		if err := inst.CloseReceiver(); err != nil {
			logger.Error("close_receiver failed", zap.Error(err))
		}
		<-done
	case <-done:
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
