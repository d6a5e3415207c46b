package main

import (
	"context"
	"os/signal"
	"syscall"
)

// signalContext derives the context an analysis runs under. Ctrl-C or
// SIGTERM cancels it, which stops the driver from starting further files and
// lines while chains already in flight finish their verdicts. stop releases
// the signal registration.
func signalContext(parent context.Context) (ctx context.Context, stop context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGTERM, syscall.SIGINT)
}
