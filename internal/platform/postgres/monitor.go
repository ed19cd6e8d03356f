// Copyright (c) 2026 Artistphere. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Monitor probes the database on a fixed interval and remembers the result.
//
// It starts healthy (NewPool has already pinged). State transitions are
// logged once per edge, not once per probe.
type Monitor struct {
	pool     Pinger
	interval time.Duration
	logger   *slog.Logger

	healthy atomic.Bool

	mu      sync.RWMutex
	lastErr error
}

// NewMonitor builds a Monitor. Call Run to start probing.
func NewMonitor(pool Pinger, interval time.Duration, logger *slog.Logger) *Monitor {
	monitor := &Monitor{pool: pool, interval: interval, logger: logger}
	monitor.healthy.Store(true)
	return monitor
}

// Run probes until ctx is cancelled.
func (monitor *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(monitor.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			monitor.Probe(ctx)
		}
	}
}

// Probe pings once and records the outcome.
func (monitor *Monitor) Probe(ctx context.Context) {
	err := Ping(ctx, monitor.pool)

	monitor.mu.Lock()
	monitor.lastErr = err
	monitor.mu.Unlock()

	wasHealthy := monitor.healthy.Swap(err == nil)
	switch {
	case wasHealthy && err != nil:
		monitor.logger.Error("postgres_connection_lost", slog.Any("error", err))
	case !wasHealthy && err == nil:
		monitor.logger.Info("postgres_connection_restored")
	}
}

// Healthy reports the result of the most recent probe.
func (monitor *Monitor) Healthy() bool {
	return monitor.healthy.Load()
}

// LastError returns the error of the most recent probe, if any.
func (monitor *Monitor) LastError() error {
	monitor.mu.RLock()
	defer monitor.mu.RUnlock()
	return monitor.lastErr
}

// Check pings synchronously; used by the readiness probe.
func (monitor *Monitor) Check(ctx context.Context) error {
	monitor.Probe(ctx)
	return monitor.LastError()
}
