/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package reconciler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	approvalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prpatrol_workflow_approvals_total",
			Help: "Workflow runs approved, by server and repository",
		},
		[]string{"server", "repository"},
	)

	fixRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prpatrol_fix_requests_total",
			Help: "Fix requests issued for failing checks, by server and repository",
		},
		[]string{"server", "repository"},
	)

	passFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prpatrol_pass_failures_total",
			Help: "Reconciliation passes aborted before processing any pull request",
		},
		[]string{"server", "repository"},
	)
)
