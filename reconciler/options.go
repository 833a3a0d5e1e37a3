/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package reconciler

import (
	"time"

	"chainguard.dev/prpatrol/analyzers"
)

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithAutoApprove toggles approval of gated workflow runs. Enabled by
// default.
func WithAutoApprove(enabled bool) Option {
	return func(r *Reconciler) { r.autoApprove = enabled }
}

// WithAutoFix toggles fix requests for failing checks. Enabled by
// default.
func WithAutoFix(enabled bool) Option {
	return func(r *Reconciler) { r.autoFix = enabled }
}

// WithCollector installs the analysis side-channel invoked with each
// fresh snapshot. Collector failures never affect reconciliation.
func WithCollector(c *analyzers.Collector) Option {
	return func(r *Reconciler) { r.collector = c }
}

// WithClock overrides the time source. Tests use this to control
// LastSeenAt.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) { r.now = now }
}
