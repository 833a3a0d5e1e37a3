/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package analyzers

import (
	"context"
	"sync"

	"github.com/chainguard-dev/clog"
	"golang.org/x/sync/errgroup"
)

// Collector fans a snapshot out to every registered analyzer in
// parallel and gathers the reports that succeed. A failing analyzer is
// logged and skipped; Analyze never returns an error.
type Collector struct {
	analyzers []Interface
}

// NewCollector constructs a Collector over the given analyzers.
func NewCollector(analyzers ...Interface) *Collector {
	return &Collector{analyzers: analyzers}
}

// Empty reports whether the collector has no analyzers registered.
func (c *Collector) Empty() bool {
	return c == nil || len(c.analyzers) == 0
}

// Analyze runs all analyzers against the snapshot and returns the
// successful reports.
func (c *Collector) Analyze(ctx context.Context, snap *Snapshot) []*Report {
	if c.Empty() {
		return nil
	}
	log := clog.FromContext(ctx)

	var mu sync.Mutex
	var reports []*Report

	g := new(errgroup.Group)
	for _, a := range c.analyzers {
		g.Go(func() error {
			report, err := a.Analyze(ctx, snap)
			if err != nil {
				log.With("analyzer", a.Name()).With("error", err).
					Warn("Analyzer failed, dropping its report")
				return nil
			}
			mu.Lock()
			reports = append(reports, report)
			mu.Unlock()
			return nil
		})
	}
	// Analyzer errors are swallowed above; Wait only synchronizes.
	_ = g.Wait()

	return reports
}
