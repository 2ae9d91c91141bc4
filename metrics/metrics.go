// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package metrics exposes the core's Prometheus instrumentation. Every
// constructor in this package takes a prometheus.Registerer, the same
// pattern the example corpus uses to thread metrics through from a
// node's shared registry rather than relying on the global default one.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Executor groups the Block Executor's counters (spec §4.5).
type Executor struct {
	BlocksExecuted   prometheus.Counter
	TxExecuted       *prometheus.CounterVec // label "status": success|failed
	BlockGasUsed     prometheus.Histogram
	EvidenceSlashed  prometheus.Counter
	LivenessSlashed  prometheus.Counter
}

// NewExecutor registers and returns the executor's metric set under reg.
func NewExecutor(reg prometheus.Registerer) *Executor {
	m := &Executor{
		BlocksExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bftchain",
			Subsystem: "executor",
			Name:      "blocks_executed_total",
			Help:      "Number of blocks successfully executed.",
		}),
		TxExecuted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bftchain",
			Subsystem: "executor",
			Name:      "transactions_executed_total",
			Help:      "Number of transactions executed, by outcome.",
		}, []string{"status"}),
		BlockGasUsed: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bftchain",
			Subsystem: "executor",
			Name:      "block_gas_used",
			Help:      "Gas used per executed block.",
			Buckets:   prometheus.ExponentialBuckets(21000, 4, 10),
		}),
		EvidenceSlashed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bftchain",
			Subsystem: "executor",
			Name:      "evidence_slashes_total",
			Help:      "Number of equivocation slashes applied.",
		}),
		LivenessSlashed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bftchain",
			Subsystem: "executor",
			Name:      "liveness_slashes_total",
			Help:      "Number of liveness penalties applied to a failed leader.",
		}),
	}
	reg.MustRegister(m.BlocksExecuted, m.TxExecuted, m.BlockGasUsed, m.EvidenceSlashed, m.LivenessSlashed)
	return m
}

// Mempool groups the mempool's counters/gauges (spec §4.8).
type Mempool struct {
	Size       prometheus.Gauge
	Admitted   prometheus.Counter
	Rejected   *prometheus.CounterVec // label "reason"
	Broadcasts prometheus.Counter
}

// NewMempool registers and returns the mempool's metric set under reg.
func NewMempool(reg prometheus.Registerer) *Mempool {
	m := &Mempool{
		Size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bftchain",
			Subsystem: "mempool",
			Name:      "size",
			Help:      "Number of transactions currently held in the mempool.",
		}),
		Admitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bftchain",
			Subsystem: "mempool",
			Name:      "admitted_total",
			Help:      "Number of transactions admitted.",
		}),
		Rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bftchain",
			Subsystem: "mempool",
			Name:      "rejected_total",
			Help:      "Number of transactions rejected, by reason.",
		}, []string{"reason"}),
		Broadcasts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bftchain",
			Subsystem: "mempool",
			Name:      "broadcasts_total",
			Help:      "Number of admissions forwarded to the outbound broadcast channel.",
		}),
	}
	reg.MustRegister(m.Size, m.Admitted, m.Rejected, m.Broadcasts)
	return m
}
