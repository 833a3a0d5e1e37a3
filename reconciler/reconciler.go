/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package reconciler

import (
	"context"
	"fmt"
	"slices"
	"time"

	"chainguard.dev/prpatrol/analyzers"
	"chainguard.dev/prpatrol/gateway"
	"chainguard.dev/prpatrol/statestore"
	"github.com/chainguard-dev/clog"
)

// Reconciler performs the fetch-diff-act-store cycle for a single
// (server, repository) pair. It is the exclusive writer for that
// pair's partition of the state store.
type Reconciler struct {
	server string
	repo   string
	gw     gateway.Interface
	store  *statestore.Store

	autoApprove bool
	autoFix     bool
	collector   *analyzers.Collector
	now         func() time.Time
}

// New constructs a Reconciler for one (server, repository) pair.
func New(server, repo string, gw gateway.Interface, store *statestore.Store, opts ...Option) *Reconciler {
	r := &Reconciler{
		server:      server,
		repo:        repo,
		gw:          gw,
		store:       store,
		autoApprove: true,
		autoFix:     true,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// String identifies the reconciler's partition in logs.
func (r *Reconciler) String() string {
	return r.server + ":" + r.repo
}

// Reconcile runs one pass. A failure listing the repository's pull
// requests aborts the whole pass; a failure on an individual pull
// request or action is logged and does not stop its siblings, so
// partial progress always persists.
func (r *Reconciler) Reconcile(ctx context.Context) error {
	log := clog.FromContext(ctx).With("server", r.server).With("repository", r.repo)
	ctx = clog.WithLogger(ctx, log)

	prs, err := r.gw.ListOpenPullRequests(ctx, r.repo)
	if err != nil {
		passFailures.WithLabelValues(r.server, r.repo).Inc()
		return fmt.Errorf("listing open pull requests for %s: %w", r.repo, err)
	}

	open := make(map[int]bool, len(prs))
	for _, pr := range prs {
		open[pr.Number] = true
		if err := r.reconcilePR(ctx, pr); err != nil {
			log.With("pr", pr.Number).With("error", err).Error("Failed to reconcile pull request")
		}
	}

	// Forget pull requests that left the open listing. History is not
	// kept: if the number reappears it starts fresh.
	for _, key := range r.store.Keys(r.server, r.repo) {
		if !open[key.Number] {
			r.store.Delete(key)
			log.With("pr", key.Number).Info("Pull request no longer open, dropped state")
		}
	}

	return nil
}

// reconcilePR handles one pull request: re-arm the fix flag on a head
// move, fetch runs and checks for the head commit, decide actions, and
// store the fresh observation.
func (r *Reconciler) reconcilePR(ctx context.Context, pr gateway.PullRequest) error {
	log := clog.FromContext(ctx).With("pr", pr.Number)
	key := statestore.Key{Server: r.server, Repository: r.repo, Number: pr.Number}

	st, known := r.store.Get(key)
	if !known {
		st = statestore.NewPRState(pr)
		st.LastSeenAt = r.now()
		r.store.Upsert(key, st)
		log.Infof("Tracking new pull request %s#%d - %s", r.repo, pr.Number, pr.Title)
	}

	// A new push re-arms fix-request eligibility exactly once. This is
	// decided against the stored snapshot before it is overwritten, and
	// deliberately keyed on the head commit only: a different check
	// failing under an unchanged head does not re-arm.
	if known && st.Snapshot.HeadSHA != pr.HeadSHA {
		st.FixRequested = false
		log.With("old", st.Snapshot.HeadSHA).With("new", pr.HeadSHA).
			Debug("Head commit moved, fix request re-armed")
	}

	runs, err := r.gw.ListWorkflowRuns(ctx, r.repo, pr.HeadSHA)
	if err != nil {
		return fmt.Errorf("listing workflow runs: %w", err)
	}
	checks, err := r.gw.ListCheckRuns(ctx, r.repo, pr.HeadSHA)
	if err != nil {
		return fmt.Errorf("listing check runs: %w", err)
	}

	if r.autoApprove {
		r.approveRuns(ctx, pr, runs, st)
	}
	if r.autoFix {
		r.requestFix(ctx, pr, checks, st)
	}

	// Full replace, not merge: the fresh fetch is the new truth.
	st.Snapshot = pr
	st.LastWorkflowRuns = runsByID(runs)
	st.LastCheckRuns = checksByID(checks)
	st.LastSeenAt = r.now()
	r.store.Upsert(key, st)

	if !r.collector.Empty() {
		snap := &analyzers.Snapshot{
			Server:       r.server,
			Repository:   r.repo,
			PullRequest:  pr,
			CheckRuns:    checks,
			WorkflowRuns: runs,
		}
		for _, report := range r.collector.Analyze(ctx, snap) {
			log.With("analyzer", report.Analyzer).
				With("findings", len(report.Findings)).
				Infof("Analysis report: %s", report.Summary)
		}
	}

	return nil
}

// approveRuns approves every workflow run associated with the pull
// request that is gated on approval and not yet approved by this
// process. The decision is strictly per run id: independent runs on
// the same pull request are each approved exactly once, and a failed
// approval leaves the id un-recorded so the next pass retries it.
func (r *Reconciler) approveRuns(ctx context.Context, pr gateway.PullRequest, runs []gateway.WorkflowRun, st *statestore.PRState) {
	log := clog.FromContext(ctx).With("pr", pr.Number)

	for _, run := range runs {
		if !slices.Contains(run.PullRequests, pr.Number) {
			continue
		}
		if st.Approved(run.ID) {
			continue
		}
		if run.Status != gateway.StatusQueued && run.Status != gateway.StatusWaiting {
			continue
		}

		if err := r.gw.ApproveRun(ctx, r.repo, run.ID); err != nil {
			log.With("run", run.ID).With("error", err).
				Warn("Approval failed, will retry next pass")
			continue
		}
		st.ApprovedRunIDs[run.ID] = struct{}{}
		approvalsTotal.WithLabelValues(r.server, r.repo).Inc()
		log.Infof("Auto-approved workflow run %q (%d) for %s#%d", run.Name, run.ID, r.repo, pr.Number)
	}
}

// requestFix asks for a fix when the pull request has failing checks
// and none has been requested for the current head commit yet. The
// armed flag is only set after the gateway call succeeds.
func (r *Reconciler) requestFix(ctx context.Context, pr gateway.PullRequest, checks []gateway.CheckRun, st *statestore.PRState) {
	log := clog.FromContext(ctx).With("pr", pr.Number)

	var failing []gateway.CheckRun
	for _, check := range checks {
		if check.Failed() {
			failing = append(failing, check)
		}
	}
	if len(failing) == 0 || st.FixRequested {
		return
	}

	log.Infof("Found %d failing checks for %s#%d", len(failing), r.repo, pr.Number)
	if err := r.gw.RequestFix(ctx, r.repo, pr.Number, failing); err != nil {
		log.With("error", err).Warn("Fix request failed, will retry next pass")
		return
	}
	st.FixRequested = true
	fixRequestsTotal.WithLabelValues(r.server, r.repo).Inc()
}

func runsByID(runs []gateway.WorkflowRun) map[int64]gateway.WorkflowRun {
	m := make(map[int64]gateway.WorkflowRun, len(runs))
	for _, run := range runs {
		m[run.ID] = run
	}
	return m
}

func checksByID(checks []gateway.CheckRun) map[int64]gateway.CheckRun {
	m := make(map[int64]gateway.CheckRun, len(checks))
	for _, check := range checks {
		m[check.ID] = check
	}
	return m
}
