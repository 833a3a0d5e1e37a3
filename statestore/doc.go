/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package statestore holds the process-lifetime record of what the
// reconciler last observed for each tracked pull request. State is
// keyed by (server, repository, number); (server, repository) pairs
// partition the key space, so each reconciler owns its own entries and
// the store only needs to keep the shared map itself safe.
//
// Nothing here survives a restart, by design.
package statestore
