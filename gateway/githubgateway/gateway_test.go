/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package githubgateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"chainguard.dev/prpatrol/gateway"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-github/v84/github"
	"github.com/shurcooL/githubv4"
)

// newTestGateway points a Gateway at an httptest server for both REST
// and GraphQL.
func newTestGateway(t *testing.T, mux *http.ServeMux) *Gateway {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	rest := github.NewClient(nil)
	base, err := url.Parse(srv.URL + "/")
	if err != nil {
		t.Fatalf("parsing server URL: %v", err)
	}
	rest.BaseURL = base

	gql := githubv4.NewEnterpriseClient(srv.URL+"/graphql", nil)
	return NewFromClients(rest, gql)
}

// TestListOpenPullRequests verifies the GraphQL listing maps into the
// data model, including state lowercasing and the mergeable tri-state.
func TestListOpenPullRequests(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method: got = %s, wanted = POST", r.Method)
		}
		fmt.Fprint(w, `{"data":{"repository":{"pullRequests":{"nodes":[{
			"id": "PR_1",
			"number": 42,
			"title": "Fix the widget",
			"url": "https://github.example.com/octo/widgets/pull/42",
			"state": "OPEN",
			"headRefOid": "abc123",
			"baseRefName": "main",
			"headRefName": "fix-widget",
			"author": {"login": "octocat"},
			"createdAt": "2026-03-01T10:00:00Z",
			"updatedAt": "2026-03-01T11:00:00Z",
			"mergeable": "MERGEABLE",
			"isDraft": false
		}, {
			"id": "PR_2",
			"number": 43,
			"title": "Bot churn",
			"state": "OPEN",
			"headRefOid": "def456",
			"author": null,
			"mergeable": "UNKNOWN",
			"isDraft": true
		}]}}}}`)
	})
	gw := newTestGateway(t, mux)

	prs, err := gw.ListOpenPullRequests(context.Background(), "octo/widgets")
	if err != nil {
		t.Fatalf("ListOpenPullRequests() = %v", err)
	}
	if got := len(prs); got != 2 {
		t.Fatalf("pull requests: got = %d, wanted = 2", got)
	}

	pr := prs[0]
	if pr.Number != 42 {
		t.Errorf("number: got = %d, wanted = 42", pr.Number)
	}
	if pr.State != "open" {
		t.Errorf("state: got = %q, wanted = %q", pr.State, "open")
	}
	if pr.HeadSHA != "abc123" {
		t.Errorf("head SHA: got = %q, wanted = %q", pr.HeadSHA, "abc123")
	}
	if pr.Author != "octocat" {
		t.Errorf("author: got = %q, wanted = %q", pr.Author, "octocat")
	}
	if pr.Repository != "octo/widgets" {
		t.Errorf("repository: got = %q, wanted = %q", pr.Repository, "octo/widgets")
	}
	if pr.Mergeable == nil || !*pr.Mergeable {
		t.Errorf("mergeable: got = %v, wanted = true", pr.Mergeable)
	}

	// A ghost author (deleted account) falls back to "unknown", and an
	// undetermined mergeability stays nil.
	if got := prs[1].Author; got != "unknown" {
		t.Errorf("ghost author: got = %q, wanted = %q", got, "unknown")
	}
	if prs[1].Mergeable != nil {
		t.Errorf("mergeable: got = %v, wanted = nil", *prs[1].Mergeable)
	}
	if !prs[1].Draft {
		t.Error("draft: got = false, wanted = true")
	}
}

// TestListWorkflowRuns verifies the head SHA filter is forwarded and
// associated pull request numbers are collected.
func TestListWorkflowRuns(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/widgets/actions/runs", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("head_sha"); got != "abc123" {
			t.Errorf("head_sha: got = %q, wanted = %q", got, "abc123")
		}
		fmt.Fprint(w, `{"total_count": 1, "workflow_runs": [{
			"id": 900,
			"name": "CI",
			"status": "queued",
			"head_sha": "abc123",
			"html_url": "https://github.example.com/octo/widgets/actions/runs/900",
			"pull_requests": [{"number": 42}, {"number": 7}]
		}]}`)
	})
	gw := newTestGateway(t, mux)

	runs, err := gw.ListWorkflowRuns(context.Background(), "octo/widgets", "abc123")
	if err != nil {
		t.Fatalf("ListWorkflowRuns() = %v", err)
	}
	want := []gateway.WorkflowRun{{
		ID:           900,
		Name:         "CI",
		Status:       gateway.StatusQueued,
		URL:          "https://github.example.com/octo/widgets/actions/runs/900",
		HeadSHA:      "abc123",
		PullRequests: []int{42, 7},
	}}
	if diff := cmp.Diff(want, runs); diff != "" {
		t.Errorf("workflow runs (-want +got):\n%s", diff)
	}
}

// TestListCheckRuns verifies check runs for a ref map into the data
// model.
func TestListCheckRuns(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/widgets/commits/abc123/check-runs", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"total_count": 2, "check_runs": [
			{"id": 1, "name": "unit-tests", "status": "completed", "conclusion": "failure"},
			{"id": 2, "name": "lint", "status": "in_progress"}
		]}`)
	})
	gw := newTestGateway(t, mux)

	checks, err := gw.ListCheckRuns(context.Background(), "octo/widgets", "abc123")
	if err != nil {
		t.Fatalf("ListCheckRuns() = %v", err)
	}
	if got := len(checks); got != 2 {
		t.Fatalf("check runs: got = %d, wanted = 2", got)
	}
	if !checks[0].Failed() {
		t.Error("unit-tests Failed(): got = false, wanted = true")
	}
	if checks[1].Failed() {
		t.Error("lint Failed(): got = true, wanted = false")
	}
}

// TestApproveRun verifies the approval endpoint is hit and errors
// propagate.
func TestApproveRun(t *testing.T) {
	approved := false
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/widgets/actions/runs/900/approve", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method: got = %s, wanted = POST", r.Method)
		}
		approved = true
		w.WriteHeader(http.StatusCreated)
	})
	gw := newTestGateway(t, mux)

	if err := gw.ApproveRun(context.Background(), "octo/widgets", 900); err != nil {
		t.Fatalf("ApproveRun() = %v", err)
	}
	if !approved {
		t.Error("approve endpoint: got = not called, wanted = called")
	}
}

// TestApproveRunNotFound verifies a 404 (already approved or gone)
// still surfaces as an error so callers do not record the run id.
func TestApproveRunNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/widgets/actions/runs/900/approve", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
	})
	gw := newTestGateway(t, mux)

	if err := gw.ApproveRun(context.Background(), "octo/widgets", 900); err == nil {
		t.Fatal("ApproveRun() error: got = nil, wanted = non-nil")
	}
}

// TestRequestFix verifies the comment lands on the right issue with the
// rendered body.
func TestRequestFix(t *testing.T) {
	var gotBody string
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/widgets/issues/42/comments", func(w http.ResponseWriter, r *http.Request) {
		var comment struct {
			Body string `json:"body"`
		}
		if err := json.NewDecoder(r.Body).Decode(&comment); err != nil {
			t.Errorf("decoding comment: %v", err)
		}
		gotBody = comment.Body
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 1}`)
	})
	gw := newTestGateway(t, mux)

	failing := []gateway.CheckRun{
		{ID: 1, Name: "unit-tests", Status: gateway.StatusCompleted, Conclusion: gateway.ConclusionFailure},
		{ID: 2, Name: "lint", Status: gateway.StatusCompleted, Conclusion: gateway.ConclusionFailure},
	}
	if err := gw.RequestFix(context.Background(), "octo/widgets", 42, failing); err != nil {
		t.Fatalf("RequestFix() = %v", err)
	}
	if want := fixCommentBody(failing); gotBody != want {
		t.Errorf("comment body: got = %q, wanted = %q", gotBody, want)
	}
}

// TestFixCommentBody pins the exact comment format @copilot receives.
func TestFixCommentBody(t *testing.T) {
	got := fixCommentBody([]gateway.CheckRun{
		{Name: "unit-tests"},
		{Name: "lint"},
	})
	want := `@copilot The following checks are failing in this PR:

- unit-tests
- lint

Please analyze the failing checks and suggest fixes for the issues. Focus on:
1. Test failures and their root causes
2. Linting/formatting issues
3. Build failures
4. Security vulnerabilities

Provide specific code changes that would resolve these issues.`
	if got != want {
		t.Errorf("fixCommentBody: got = %q, wanted = %q", got, want)
	}
}

// TestSplitRepo covers valid and malformed repository identifiers.
func TestSplitRepo(t *testing.T) {
	owner, name, err := splitRepo("octo/widgets")
	if err != nil {
		t.Fatalf("splitRepo(octo/widgets) = %v", err)
	}
	if owner != "octo" || name != "widgets" {
		t.Errorf("splitRepo: got = (%q, %q), wanted = (%q, %q)", owner, name, "octo", "widgets")
	}

	for _, bad := range []string{"widgets", "/widgets", "octo/", ""} {
		if _, _, err := splitRepo(bad); err == nil {
			t.Errorf("splitRepo(%q) error: got = nil, wanted = non-nil", bad)
		}
	}
}

// TestGraphqlEndpoint verifies the Enterprise GraphQL URL derivation.
func TestGraphqlEndpoint(t *testing.T) {
	for _, tc := range []struct {
		base string
		want string
	}{
		{"https://github.example.com/api/v3", "https://github.example.com/api/graphql"},
		{"https://github.example.com/api/v3/", "https://github.example.com/api/graphql"},
		{"https://github.example.com", "https://github.example.com/api/graphql"},
	} {
		if got := graphqlEndpoint(tc.base); got != tc.want {
			t.Errorf("graphqlEndpoint(%q): got = %q, wanted = %q", tc.base, got, tc.want)
		}
	}
}

// TestMergeable covers the enum to tri-state mapping.
func TestMergeable(t *testing.T) {
	if got := mergeable(githubv4.MergeableStateMergeable); got == nil || !*got {
		t.Errorf("MERGEABLE: got = %v, wanted = true", got)
	}
	if got := mergeable(githubv4.MergeableStateConflicting); got == nil || *got {
		t.Errorf("CONFLICTING: got = %v, wanted = false", got)
	}
	if got := mergeable(githubv4.MergeableStateUnknown); got != nil {
		t.Errorf("UNKNOWN: got = %v, wanted = nil", *got)
	}
}
