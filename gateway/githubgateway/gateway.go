/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package githubgateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"chainguard.dev/prpatrol/gateway"
	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"
	"github.com/shurcooL/githubv4"
)

// Gateway implements gateway.Interface for one GitHub server.
type Gateway struct {
	rest *github.Client
	gql  *githubv4.Client
}

var _ gateway.Interface = (*Gateway)(nil)

// prNode mirrors the fields the reconciler needs from the GraphQL
// pullRequests connection.
type prNode struct {
	ID          githubv4.ID
	Number      int
	Title       string
	URL         githubv4.URI
	State       githubv4.PullRequestState
	HeadRefOid  githubv4.GitObjectID
	BaseRefName string
	HeadRefName string
	Author      struct {
		Login string
	}
	CreatedAt githubv4.DateTime
	UpdatedAt githubv4.DateTime
	Mergeable githubv4.MergeableState
	IsDraft   bool
}

// ListOpenPullRequests implements gateway.Interface via GraphQL,
// returning the 100 most recently updated open pull requests.
func (g *Gateway) ListOpenPullRequests(ctx context.Context, repo string) ([]gateway.PullRequest, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}

	var query struct {
		Repository struct {
			PullRequests struct {
				Nodes []prNode
			} `graphql:"pullRequests(states: $states, first: 100, orderBy: {field: UPDATED_AT, direction: DESC})"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}

	variables := map[string]any{
		"owner":  githubv4.String(owner),
		"name":   githubv4.String(name),
		"states": []githubv4.PullRequestState{githubv4.PullRequestStateOpen},
	}

	if err := g.gql.Query(ctx, &query, variables); err != nil {
		return nil, classify(ctx, fmt.Errorf("listing pull requests for %s: %w", repo, err))
	}

	prs := make([]gateway.PullRequest, 0, len(query.Repository.PullRequests.Nodes))
	for _, n := range query.Repository.PullRequests.Nodes {
		pr := gateway.PullRequest{
			ID:         fmt.Sprintf("%v", n.ID),
			Number:     n.Number,
			Title:      n.Title,
			State:      strings.ToLower(string(n.State)),
			HeadSHA:    string(n.HeadRefOid),
			BaseRef:    n.BaseRefName,
			HeadRef:    n.HeadRefName,
			Author:     n.Author.Login,
			Repository: repo,
			CreatedAt:  n.CreatedAt.Time,
			UpdatedAt:  n.UpdatedAt.Time,
			Mergeable:  mergeable(n.Mergeable),
			Draft:      n.IsDraft,
		}
		if n.URL.URL != nil {
			pr.URL = n.URL.String()
		}
		if pr.Author == "" {
			pr.Author = "unknown"
		}
		prs = append(prs, pr)
	}
	return prs, nil
}

// ListWorkflowRuns implements gateway.Interface, filtering to the
// given head SHA when non-empty.
func (g *Gateway) ListWorkflowRuns(ctx context.Context, repo, headSHA string) ([]gateway.WorkflowRun, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}

	opts := &github.ListWorkflowRunsOptions{
		HeadSHA:     headSHA,
		ListOptions: github.ListOptions{PerPage: 100},
	}
	result, _, err := g.rest.Actions.ListRepositoryWorkflowRuns(ctx, owner, name, opts)
	if err != nil {
		return nil, classify(ctx, fmt.Errorf("listing workflow runs for %s: %w", repo, err))
	}

	runs := make([]gateway.WorkflowRun, 0, len(result.WorkflowRuns))
	for _, run := range result.WorkflowRuns {
		r := gateway.WorkflowRun{
			ID:         run.GetID(),
			Name:       run.GetName(),
			Status:     gateway.Status(run.GetStatus()),
			Conclusion: gateway.Conclusion(run.GetConclusion()),
			URL:        run.GetHTMLURL(),
			HeadSHA:    run.GetHeadSHA(),
		}
		for _, pr := range run.PullRequests {
			r.PullRequests = append(r.PullRequests, pr.GetNumber())
		}
		runs = append(runs, r)
	}
	return runs, nil
}

// ListCheckRuns implements gateway.Interface for a commit ref.
func (g *Gateway) ListCheckRuns(ctx context.Context, repo, ref string) ([]gateway.CheckRun, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}

	result, _, err := g.rest.Checks.ListCheckRunsForRef(ctx, owner, name, ref, &github.ListCheckRunsOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	})
	if err != nil {
		return nil, classify(ctx, fmt.Errorf("listing check runs for %s@%s: %w", repo, ref, err))
	}

	checks := make([]gateway.CheckRun, 0, len(result.CheckRuns))
	for _, cr := range result.CheckRuns {
		checks = append(checks, gateway.CheckRun{
			ID:         cr.GetID(),
			Name:       cr.GetName(),
			Status:     gateway.Status(cr.GetStatus()),
			Conclusion: gateway.Conclusion(cr.GetConclusion()),
			URL:        cr.GetHTMLURL(),
		})
	}
	return checks, nil
}

// ApproveRun implements gateway.Interface. go-github carries no helper
// for this endpoint, so the request is issued through the client
// directly.
func (g *Gateway) ApproveRun(ctx context.Context, repo string, runID int64) error {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return err
	}

	u := fmt.Sprintf("repos/%v/%v/actions/runs/%v/approve", owner, name, runID)
	req, err := g.rest.NewRequest(http.MethodPost, u, nil)
	if err != nil {
		return fmt.Errorf("approving workflow run %d in %s: %w", runID, repo, err)
	}
	if _, err := g.rest.Do(ctx, req, nil); err != nil {
		var ghErr *github.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound {
			clog.WarnContextf(ctx, "Workflow run %d not found or already approved in %s", runID, repo)
		}
		return classify(ctx, fmt.Errorf("approving workflow run %d in %s: %w", runID, repo, err))
	}
	clog.InfoContextf(ctx, "Approved workflow run %d in %s", runID, repo)
	return nil
}

// RequestFix implements gateway.Interface by commenting on the pull
// request with the failing check names, addressed to @copilot.
func (g *Gateway) RequestFix(ctx context.Context, repo string, prNumber int, failing []gateway.CheckRun) error {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return err
	}

	body := fixCommentBody(failing)
	if _, _, err := g.rest.Issues.CreateComment(ctx, owner, name, prNumber, &github.IssueComment{
		Body: github.Ptr(body),
	}); err != nil {
		return classify(ctx, fmt.Errorf("commenting on %s#%d: %w", repo, prNumber, err))
	}
	clog.InfoContextf(ctx, "Requested fix for %s#%d (%d failing checks)", repo, prNumber, len(failing))
	return nil
}

// fixCommentBody renders the @copilot comment requesting fixes for the
// given failing checks.
func fixCommentBody(failing []gateway.CheckRun) string {
	var b strings.Builder
	b.WriteString("@copilot The following checks are failing in this PR:\n\n")
	for _, check := range failing {
		fmt.Fprintf(&b, "- %s\n", check.Name)
	}
	b.WriteString(`
Please analyze the failing checks and suggest fixes for the issues. Focus on:
1. Test failures and their root causes
2. Linting/formatting issues
3. Build failures
4. Security vulnerabilities

Provide specific code changes that would resolve these issues.`)
	return b.String()
}

// mergeable maps the GraphQL enum to the tri-state the data model
// carries: nil while GitHub is still computing mergeability.
func mergeable(state githubv4.MergeableState) *bool {
	switch state {
	case githubv4.MergeableStateMergeable:
		return github.Ptr(true)
	case githubv4.MergeableStateConflicting:
		return github.Ptr(false)
	default:
		return nil
	}
}

// classify raises the log severity of authentication failures so they
// stand out from transient errors, then returns the error unchanged.
func classify(ctx context.Context, err error) error {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusUnauthorized {
		clog.ErrorContextf(ctx, "GitHub authentication failed, check the configured token: %v", err)
	}
	return err
}
