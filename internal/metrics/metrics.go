// Package metrics provides application-level counters using atomics.
// They are surfaced by `mintdapp status --verbose` and in debug logs.
package metrics

import (
	"sync/atomic"
	"time"
)

// Metrics holds application metrics using atomic counters for thread safety.
type Metrics struct {
	// RPC metrics
	rpcCallsTotal   atomic.Int64
	rpcErrorsTotal  atomic.Int64
	rpcLatencyNanos atomic.Int64

	// Reload lifecycle
	reloadsStarted    atomic.Int64
	reloadsCommitted  atomic.Int64
	reloadsSuperseded atomic.Int64
	reloadsFailed     atomic.Int64

	// Mint submissions
	mintsSubmitted atomic.Int64
	mintsFailed    atomic.Int64

	// Keystore operations
	walletOpsTotal  atomic.Int64
	walletOpsErrors atomic.Int64
}

// Global is the global metrics instance.
//
//nolint:gochecknoglobals // Intentional global for metrics access
var Global = &Metrics{}

// RecordRPCCall records a JSON-RPC call with its duration and success status.
func (m *Metrics) RecordRPCCall(duration time.Duration, err error) {
	m.rpcCallsTotal.Add(1)
	m.rpcLatencyNanos.Add(duration.Nanoseconds())

	if err != nil {
		m.rpcErrorsTotal.Add(1)
	}
}

// RecordReloadStarted counts a reload that began.
func (m *Metrics) RecordReloadStarted() {
	m.reloadsStarted.Add(1)
}

// RecordReloadCommitted counts a reload whose result was published.
func (m *Metrics) RecordReloadCommitted() {
	m.reloadsCommitted.Add(1)
}

// RecordReloadSuperseded counts a reload discarded because a newer one started.
func (m *Metrics) RecordReloadSuperseded() {
	m.reloadsSuperseded.Add(1)
}

// RecordReloadFailed counts a reload that ended with an error overlay.
func (m *Metrics) RecordReloadFailed() {
	m.reloadsFailed.Add(1)
}

// RecordMint records a mint submission.
func (m *Metrics) RecordMint(err error) {
	if err != nil {
		m.mintsFailed.Add(1)
		return
	}
	m.mintsSubmitted.Add(1)
}

// RecordWalletOp records a keystore operation.
func (m *Metrics) RecordWalletOp(err error) {
	m.walletOpsTotal.Add(1)
	if err != nil {
		m.walletOpsErrors.Add(1)
	}
}

// Snapshot is a point-in-time copy of all metrics.
type Snapshot struct {
	RPCCallsTotal     int64 `json:"rpc_calls_total"`
	RPCErrorsTotal    int64 `json:"rpc_errors_total"`
	RPCLatencyNanos   int64 `json:"rpc_latency_nanos"`
	ReloadsStarted    int64 `json:"reloads_started"`
	ReloadsCommitted  int64 `json:"reloads_committed"`
	ReloadsSuperseded int64 `json:"reloads_superseded"`
	ReloadsFailed     int64 `json:"reloads_failed"`
	MintsSubmitted    int64 `json:"mints_submitted"`
	MintsFailed       int64 `json:"mints_failed"`
	WalletOpsTotal    int64 `json:"wallet_ops_total"`
	WalletOpsErrors   int64 `json:"wallet_ops_errors"`
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		RPCCallsTotal:     m.rpcCallsTotal.Load(),
		RPCErrorsTotal:    m.rpcErrorsTotal.Load(),
		RPCLatencyNanos:   m.rpcLatencyNanos.Load(),
		ReloadsStarted:    m.reloadsStarted.Load(),
		ReloadsCommitted:  m.reloadsCommitted.Load(),
		ReloadsSuperseded: m.reloadsSuperseded.Load(),
		ReloadsFailed:     m.reloadsFailed.Load(),
		MintsSubmitted:    m.mintsSubmitted.Load(),
		MintsFailed:       m.mintsFailed.Load(),
		WalletOpsTotal:    m.walletOpsTotal.Load(),
		WalletOpsErrors:   m.walletOpsErrors.Load(),
	}
}

// RPCCallsTotal returns the total number of RPC calls made.
func (m *Metrics) RPCCallsTotal() int64 {
	return m.rpcCallsTotal.Load()
}

// RPCErrorsTotal returns the total number of RPC errors.
func (m *Metrics) RPCErrorsTotal() int64 {
	return m.rpcErrorsTotal.Load()
}

// RPCLatencyAvgMs returns the average RPC latency in milliseconds.
// Returns 0 if no calls have been made.
func (m *Metrics) RPCLatencyAvgMs() float64 {
	calls := m.rpcCallsTotal.Load()
	if calls == 0 {
		return 0
	}
	return float64(m.rpcLatencyNanos.Load()) / float64(calls) / 1e6
}

// Reset resets all metrics to zero.
func (m *Metrics) Reset() {
	m.rpcCallsTotal.Store(0)
	m.rpcErrorsTotal.Store(0)
	m.rpcLatencyNanos.Store(0)
	m.reloadsStarted.Store(0)
	m.reloadsCommitted.Store(0)
	m.reloadsSuperseded.Store(0)
	m.reloadsFailed.Store(0)
	m.mintsSubmitted.Store(0)
	m.mintsFailed.Store(0)
	m.walletOpsTotal.Store(0)
	m.walletOpsErrors.Store(0)
}
