/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package scheduler drives the reconciliation loop: on every tick it
// fans out one unit of work per (server, repository) pair, waits for
// all of them to finish or fail independently, then sleeps for the
// poll interval. A unit failure never cancels its siblings, and a
// tick-level error shortens the sleep to back off without busy-looping.
//
// Cancelling the context stops new ticks; in-flight units finish
// naturally under their own I/O deadlines.
package scheduler
