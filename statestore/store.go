/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package statestore

import (
	"sync"
	"time"

	"chainguard.dev/prpatrol/gateway"
)

// Key identifies one tracked pull request. Numbers are scoped
// per-repository, so the repository is part of the composite key.
type Key struct {
	Server     string
	Repository string
	Number     int
}

// PRState is the last-observed snapshot of a pull request and the
// actions this process has already taken on it.
type PRState struct {
	// Snapshot is the most recent observation of the pull request.
	Snapshot gateway.PullRequest

	// LastCheckRuns and LastWorkflowRuns are full replacements each
	// pass, keyed by run id.
	LastCheckRuns    map[int64]gateway.CheckRun
	LastWorkflowRuns map[int64]gateway.WorkflowRun

	// ApprovedRunIDs records workflow runs this process successfully
	// approved. Ids are only ever added, never removed: approval is a
	// one-way fact about this process's knowledge.
	ApprovedRunIDs map[int64]struct{}

	// FixRequested is scoped to Snapshot.HeadSHA: it reports whether a
	// fix was already requested for the commit currently recorded in
	// the snapshot. A new push re-arms it.
	FixRequested bool

	// LastSeenAt is the time of the last successful reconciliation
	// touch.
	LastSeenAt time.Time
}

// NewPRState seeds state for a newly tracked pull request.
func NewPRState(pr gateway.PullRequest) *PRState {
	return &PRState{
		Snapshot:         pr,
		LastCheckRuns:    map[int64]gateway.CheckRun{},
		LastWorkflowRuns: map[int64]gateway.WorkflowRun{},
		ApprovedRunIDs:   map[int64]struct{}{},
	}
}

// Approved reports whether the given workflow run was already approved
// by this process.
func (s *PRState) Approved(runID int64) bool {
	_, ok := s.ApprovedRunIDs[runID]
	return ok
}

// Stats is a read-only summary of the store for observability. It has
// no effect on behavior.
type Stats struct {
	TotalPRs    int
	PRsByServer map[string]int
}

// Store is the in-memory pull request state mapping.
//
// Writers follow a single-writer-per-key discipline (one reconciler
// owns each (server, repository) partition); the mutex exists because
// concurrent writers to distinct keys of one Go map still race on the
// map itself.
type Store struct {
	mu     sync.RWMutex
	states map[Key]*PRState
}

// New constructs an empty Store.
func New() *Store {
	return &Store{states: map[Key]*PRState{}}
}

// Get returns the state for the key, or false if the pull request is
// not tracked.
func (s *Store) Get(key Key) (*PRState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[key]
	return st, ok
}

// Upsert stores the state for the key, replacing any previous entry.
func (s *Store) Upsert(key Key, st *PRState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[key] = st
}

// Delete forgets the pull request entirely. A re-appearing pull
// request with the same number starts fresh.
func (s *Store) Delete(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, key)
}

// Keys returns the tracked keys within one (server, repository)
// partition.
func (s *Store) Keys(server, repository string) []Key {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []Key
	for k := range s.states {
		if k.Server == server && k.Repository == repository {
			keys = append(keys, k)
		}
	}
	return keys
}

// AllStale returns the keys whose LastSeenAt is older than maxAge
// relative to now.
func (s *Store) AllStale(now time.Time, maxAge time.Duration) []Key {
	cutoff := now.Add(-maxAge)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var stale []Key
	for k, st := range s.states {
		if st.LastSeenAt.Before(cutoff) {
			stale = append(stale, k)
		}
	}
	return stale
}

// DeleteStale removes every entry older than maxAge and returns the
// deleted keys. It is a pure function of the store's contents and the
// given time; it performs no remote calls.
func (s *Store) DeleteStale(now time.Time, maxAge time.Duration) []Key {
	stale := s.AllStale(now, maxAge)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range stale {
		delete(s.states, k)
	}
	return stale
}

// Stats summarizes the store's current contents.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := Stats{PRsByServer: map[string]int{}}
	for k := range s.states {
		stats.TotalPRs++
		stats.PRsByServer[k.Server]++
	}
	return stats
}
