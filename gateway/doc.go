/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package gateway defines the data model for pull requests, workflow
// runs and check runs, and the Interface contract through which the
// reconciler talks to a code-review server. The package carries no
// I/O; gateway/githubgateway provides the GitHub-backed implementation.
package gateway
