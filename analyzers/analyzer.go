/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package analyzers

import (
	"context"

	"chainguard.dev/prpatrol/gateway"
)

// Snapshot is the point-in-time view of a pull request handed to
// analyzers after a reconciliation pass.
type Snapshot struct {
	Server       string
	Repository   string
	PullRequest  gateway.PullRequest
	CheckRuns    []gateway.CheckRun
	WorkflowRuns []gateway.WorkflowRun
}

// FailingChecks returns the check runs that completed with a failure
// conclusion.
func (s *Snapshot) FailingChecks() []gateway.CheckRun {
	var failing []gateway.CheckRun
	for _, check := range s.CheckRuns {
		if check.Failed() {
			failing = append(failing, check)
		}
	}
	return failing
}

// Report is an analyzer's human-readable output for one snapshot.
type Report struct {
	Analyzer string
	Summary  string
	Findings []string
}

// Interface is implemented by each analysis capability.
type Interface interface {
	// Name identifies the analyzer in reports and logs.
	Name() string

	// Analyze produces a report for the snapshot.
	Analyze(ctx context.Context, snap *Snapshot) (*Report, error)
}
