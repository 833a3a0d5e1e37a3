/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package reconciler implements the core reconciliation pass for one
// (server, repository) pair: discover the current pull request, check
// run and workflow run state, diff it against the last-observed state
// in the store, apply the actions that are due (approving gated
// workflow runs, requesting fixes for failing checks) exactly once per
// qualifying transition, and write the fresh observation back.
//
// Every action is safe to retry on a later pass: approvals are keyed
// by run id and only recorded after the gateway call succeeds, and fix
// requests are armed once per head commit.
package reconciler
