/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"chainguard.dev/prpatrol/statestore"
	"github.com/chainguard-dev/clog"
	"golang.org/x/sync/errgroup"
)

// errorBackoff caps the sleep after a failed tick so a very large poll
// interval does not delay recovery, while a tiny one still backs off.
const errorBackoff = 30 * time.Second

// Unit is one concurrent unit of work per tick, typically a
// *reconciler.Reconciler bound to a (server, repository) pair.
type Unit interface {
	Reconcile(ctx context.Context) error
	String() string
}

// Scheduler runs units on a fixed cadence.
type Scheduler struct {
	store *statestore.Store
	units []Unit

	pollInterval  time.Duration
	maxConcurrent int
	cleanupEvery  time.Duration
	staleAfter    time.Duration
}

// Option configures the Scheduler.
type Option func(*Scheduler)

// WithPollInterval sets the sleep between ticks. Default one minute.
func WithPollInterval(d time.Duration) Option {
	return func(s *Scheduler) { s.pollInterval = d }
}

// WithMaxConcurrent caps how many units run at once. Default 10.
func WithMaxConcurrent(n int) Option {
	return func(s *Scheduler) { s.maxConcurrent = n }
}

// WithCleanupEvery enables the stale-state sweep on its own cadence.
// Off by default; the sweep can also be invoked directly through the
// store.
func WithCleanupEvery(every, staleAfter time.Duration) Option {
	return func(s *Scheduler) {
		s.cleanupEvery = every
		s.staleAfter = staleAfter
	}
}

// New constructs a Scheduler over the given units.
func New(store *statestore.Store, units []Unit, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:         store,
		units:         units,
		pollInterval:  time.Minute,
		maxConcurrent: 10,
		staleAfter:    24 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run ticks until the context is cancelled. Tick errors are logged and
// shorten the next sleep to min(pollInterval, 30s); they never stop
// the loop.
func (s *Scheduler) Run(ctx context.Context) error {
	log := clog.FromContext(ctx)
	if len(s.units) == 0 {
		return errors.New("no reconciliation units configured")
	}
	log.Infof("Starting scheduler: %d units, polling every %v", len(s.units), s.pollInterval)

	lastCleanup := time.Now()
	for {
		select {
		case <-ctx.Done():
			log.Info("Scheduler stopped")
			return ctx.Err()
		default:
		}

		err := s.Tick(ctx)

		stats := s.store.Stats()
		for server, n := range stats.PRsByServer {
			trackedPRs.WithLabelValues(server).Set(float64(n))
		}
		log.With("tracked_prs", stats.TotalPRs).Debug("Tick completed")

		if s.cleanupEvery > 0 && time.Since(lastCleanup) >= s.cleanupEvery {
			removed := s.store.DeleteStale(time.Now(), s.staleAfter)
			if len(removed) > 0 {
				log.With("removed", len(removed)).Info("Swept stale pull request state")
			}
			lastCleanup = time.Now()
		}

		sleep := s.pollInterval
		if err != nil {
			log.With("error", err).Error("Tick finished with errors")
			sleep = min(s.pollInterval, errorBackoff)
		}

		select {
		case <-ctx.Done():
			log.Info("Scheduler stopped")
			return ctx.Err()
		case <-time.After(sleep):
		}
	}
}

// Tick runs every unit once, at most maxConcurrent at a time, and
// returns the joined per-unit errors. A failing unit does not cancel
// its siblings.
func (s *Scheduler) Tick(ctx context.Context) error {
	ticksTotal.Inc()
	start := time.Now()
	defer func() {
		tickDuration.Observe(time.Since(start).Seconds())
	}()

	var mu sync.Mutex
	var errs []error

	g := new(errgroup.Group)
	g.SetLimit(s.maxConcurrent)
	for _, unit := range s.units {
		g.Go(func() error {
			if err := unit.Reconcile(ctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", unit, err))
				mu.Unlock()
			}
			return nil
		})
	}
	// Unit errors are collected above, never returned to the group, so
	// Wait only synchronizes.
	_ = g.Wait()

	return errors.Join(errs...)
}
