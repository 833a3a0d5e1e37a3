/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package gateway

import "time"

// Status is the lifecycle phase of a workflow run or check run.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusWaiting    Status = "waiting"
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Conclusion is the terminal outcome of a completed run. It is empty
// while the run has not completed.
type Conclusion string

const (
	ConclusionSuccess        Conclusion = "success"
	ConclusionFailure        Conclusion = "failure"
	ConclusionNeutral        Conclusion = "neutral"
	ConclusionCancelled      Conclusion = "cancelled"
	ConclusionSkipped        Conclusion = "skipped"
	ConclusionTimedOut       Conclusion = "timed_out"
	ConclusionActionRequired Conclusion = "action_required"
)

// PullRequest is a point-in-time observation of an open pull request.
// HeadSHA moves when new commits are pushed; it is the primary change
// signal the reconciler keys off of.
type PullRequest struct {
	ID         string
	Number     int
	Title      string
	URL        string
	State      string
	HeadSHA    string
	BaseRef    string
	HeadRef    string
	Author     string
	Repository string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Mergeable  *bool
	Draft      bool
}

// WorkflowRun is an automation execution that may require manual
// approval before it starts. PullRequests holds the numbers of the
// pull requests the server associates with the run.
type WorkflowRun struct {
	ID           int64
	Name         string
	Status       Status
	Conclusion   Conclusion
	URL          string
	HeadSHA      string
	PullRequests []int
}

// CheckRun is a discrete automated verification (test, lint, build)
// attached to a commit.
type CheckRun struct {
	ID         int64
	Name       string
	Status     Status
	Conclusion Conclusion
	URL        string
}

// Failed reports whether the check run completed with a failure
// conclusion.
func (c CheckRun) Failed() bool {
	return c.Status == StatusCompleted && c.Conclusion == ConclusionFailure
}
