/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package gateway

import "context"

// Interface is the contract the reconciler uses to observe and act on
// a remote code-review server. Repositories are "owner/name" strings.
//
// Mutations (ApproveRun, RequestFix) are expected to be safe to retry
// on a later reconciliation pass: the caller only records an action as
// taken when the call returns nil.
type Interface interface {
	// ListOpenPullRequests returns the open pull requests for the
	// repository, most recently updated first.
	ListOpenPullRequests(ctx context.Context, repo string) ([]PullRequest, error)

	// ListWorkflowRuns returns the workflow runs for the repository,
	// filtered to the given head SHA when non-empty.
	ListWorkflowRuns(ctx context.Context, repo, headSHA string) ([]WorkflowRun, error)

	// ListCheckRuns returns the check runs attached to the given ref.
	ListCheckRuns(ctx context.Context, repo, ref string) ([]CheckRun, error)

	// ApproveRun approves a workflow run that is gated on manual
	// approval.
	ApproveRun(ctx context.Context, repo string, runID int64) error

	// RequestFix asks the server-side assistant to address the given
	// failing checks on a pull request.
	RequestFix(ctx context.Context, repo string, prNumber int, failing []CheckRun) error
}
