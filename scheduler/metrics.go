/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "prpatrol_ticks_total",
			Help: "Reconciliation ticks started",
		},
	)

	tickDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "prpatrol_tick_duration_seconds",
			Help:    "Wall-clock duration of a full reconciliation tick",
			Buckets: prometheus.DefBuckets,
		},
	)

	trackedPRs = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "prpatrol_tracked_prs",
			Help: "Pull requests currently tracked, by server",
		},
		[]string{"server"},
	)
)
