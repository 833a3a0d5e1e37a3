/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package analyzers

import (
	"context"
	"errors"
	"sort"
	"testing"

	"chainguard.dev/prpatrol/gateway"
	"github.com/google/go-cmp/cmp"
)

type stubAnalyzer struct {
	name   string
	report *Report
	err    error
}

func (a stubAnalyzer) Name() string { return a.name }
func (a stubAnalyzer) Analyze(context.Context, *Snapshot) (*Report, error) {
	return a.report, a.err
}

// TestCollectorGathersReports verifies all successful reports come
// back from one Analyze call.
func TestCollectorGathersReports(t *testing.T) {
	c := NewCollector(
		stubAnalyzer{name: "a", report: &Report{Analyzer: "a", Summary: "looks fine"}},
		stubAnalyzer{name: "b", report: &Report{Analyzer: "b", Summary: "needs work"}},
	)

	reports := c.Analyze(context.Background(), &Snapshot{})
	var names []string
	for _, r := range reports {
		names = append(names, r.Analyzer)
	}
	sort.Strings(names)
	if want := []string{"a", "b"}; !cmp.Equal(names, want) {
		t.Errorf("report analyzers: got = %v, wanted = %v", names, want)
	}
}

// TestCollectorDropsFailures verifies a failing analyzer is skipped
// while its siblings still report.
func TestCollectorDropsFailures(t *testing.T) {
	c := NewCollector(
		stubAnalyzer{name: "bad", err: errors.New("boom")},
		stubAnalyzer{name: "good", report: &Report{Analyzer: "good"}},
	)

	reports := c.Analyze(context.Background(), &Snapshot{})
	if got := len(reports); got != 1 {
		t.Fatalf("reports: got = %d, wanted = 1", got)
	}
	if got := reports[0].Analyzer; got != "good" {
		t.Errorf("report analyzer: got = %q, wanted = %q", got, "good")
	}
}

// TestCollectorEmpty verifies nil and empty collectors are safe no-ops.
func TestCollectorEmpty(t *testing.T) {
	var nilCollector *Collector
	if !nilCollector.Empty() {
		t.Error("nil collector Empty: got = false, wanted = true")
	}
	if reports := nilCollector.Analyze(context.Background(), &Snapshot{}); reports != nil {
		t.Errorf("nil collector reports: got = %v, wanted = nil", reports)
	}
	if !NewCollector().Empty() {
		t.Error("empty collector Empty: got = false, wanted = true")
	}
}

// TestSnapshotFailingChecks verifies only completed failures count.
func TestSnapshotFailingChecks(t *testing.T) {
	snap := &Snapshot{CheckRuns: []gateway.CheckRun{
		{ID: 1, Name: "lint", Status: gateway.StatusCompleted, Conclusion: gateway.ConclusionFailure},
		{ID: 2, Name: "build", Status: gateway.StatusCompleted, Conclusion: gateway.ConclusionSuccess},
		{ID: 3, Name: "tests", Status: gateway.StatusInProgress, Conclusion: gateway.ConclusionFailure},
	}}

	failing := snap.FailingChecks()
	if got := len(failing); got != 1 {
		t.Fatalf("failing checks: got = %d, wanted = 1", got)
	}
	if got := failing[0].Name; got != "lint" {
		t.Errorf("failing check name: got = %q, wanted = %q", got, "lint")
	}
}
